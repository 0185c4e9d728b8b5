package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// AvailabilityHandler answers the two public availability searches.
type AvailabilityHandler struct {
	Tables *repository.TableRepo
	Slots  *repository.TimeSlotRepo
	Log    logrus.FieldLogger
}

func NewAvailabilityHandler(tables *repository.TableRepo, slots *repository.TimeSlotRepo, log logrus.FieldLogger) *AvailabilityHandler {
	return &AvailabilityHandler{Tables: tables, Slots: slots, Log: log}
}

// AvailableTables handles GET /api/mesas_disponibles?fecha=&horario=&personas=&zona=.
func (h *AvailabilityHandler) AvailableTables(c echo.Context) error {
	fecha := strings.TrimSpace(c.QueryParam("fecha"))
	horario := strings.TrimSpace(c.QueryParam("horario"))
	personas := strings.TrimSpace(c.QueryParam("personas"))
	zona := strings.TrimSpace(c.QueryParam("zona"))
	if blank(fecha, horario, personas, zona) {
		return fail(c, http.StatusBadRequest, "Los parámetros fecha, horario, personas y zona son obligatorios")
	}
	date, err := model.ParseDate(fecha)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Formato de fecha inválido, use YYYY-MM-DD")
	}
	party, err := strconv.Atoi(personas)
	if err != nil || party < service.MinPartySize || party > service.MaxPartySize {
		return fail(c, http.StatusBadRequest, "El número de personas debe estar entre 1 y 20")
	}

	ctx := c.Request().Context()
	slotID, err := h.Slots.IDByStartTime(ctx, h.Slots.DB(), model.NormalizeSlotTime(horario))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusBadRequest, "Horario no válido")
	}
	if err != nil {
		return writeError(c, h.Log, err)
	}

	tables, err := h.Tables.Available(ctx, date, slotID, party, zona)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": tables})
}

// Timeframes handles GET /api/timeframes.  action=available_slots_by_date
// lists the slots still free on fecha; action=available_slots lists every
// bookable start time.
func (h *AvailabilityHandler) Timeframes(c echo.Context) error {
	switch c.QueryParam("action") {
	case "available_slots_by_date":
	case "available_slots":
		return h.allSlots(c)
	default:
		return fail(c, http.StatusBadRequest, "Acción no válida")
	}
	date, err := model.ParseDate(strings.TrimSpace(c.QueryParam("fecha")))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Fecha requerida en formato YYYY-MM-DD")
	}
	slots, err := h.Slots.FreeOnDate(c.Request().Context(), date)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": slots})
}

func (h *AvailabilityHandler) allSlots(c echo.Context) error {
	slots, err := h.Slots.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = model.ShortTime(s.StartTime)
	}
	return ok(c, http.StatusOK, echo.Map{"data": out})
}
