package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// ReservationHandler serves /api/reservas and /api/reservas_hoy.  Every
// route requires a valid token; ownership is enforced by the booking
// service.
type ReservationHandler struct {
	Booking *service.BookingService
	Log     logrus.FieldLogger
}

func NewReservationHandler(booking *service.BookingService, log logrus.FieldLogger) *ReservationHandler {
	if booking == nil {
		panic("nil booking service passed to NewReservationHandler")
	}
	return &ReservationHandler{Booking: booking, Log: log}
}

type reservationReq struct {
	ID        flexInt `json:"id"`
	UserID    flexInt `json:"user_id"`
	TableID   flexInt `json:"mesa_id"`
	Time      string  `json:"hora"`
	Date      string  `json:"fecha"`
	PartySize flexInt `json:"comensales"`
	Status    string  `json:"reservation_status"`
}

func (r reservationReq) booking() service.BookingRequest {
	party := 0
	if r.PartySize.Set {
		party = int(r.PartySize.Value)
		if r.PartySize.Bad {
			party = -1
		}
	}
	return service.BookingRequest{
		ReservationID: r.ID.uint(),
		UserID:        r.UserID.uint(),
		TableID:       r.TableID.uint(),
		Time:          r.Time,
		Date:          r.Date,
		PartySize:     party,
		Status:        r.Status,
	}
}

// List handles GET /api/reservas?clienteId= and
// GET /api/reservas?action=all_reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "No autenticado")
	}
	ctx := c.Request().Context()

	if raw := strings.TrimSpace(c.QueryParam("clienteId")); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			return fail(c, http.StatusBadRequest, "clienteId inválido")
		}
		out, err := h.Booking.ListForCustomer(ctx, actor, userID)
		if err != nil {
			return writeError(c, h.Log, err)
		}
		return ok(c, http.StatusOK, echo.Map{"data": out})
	}
	if c.QueryParam("action") == "all_reservations" {
		out, err := h.Booking.ListAll(ctx, actor)
		if err != nil {
			return writeError(c, h.Log, err)
		}
		return ok(c, http.StatusOK, echo.Map{"data": out})
	}
	return fail(c, http.StatusBadRequest, "Parámetros insuficientes: indique clienteId o action=all_reservations")
}

// Create handles POST /api/reservas.
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "No autenticado")
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	res, err := h.Booking.Create(c.Request().Context(), actor, req.booking())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": echo.Map{
		"message":    "Reserva creada correctamente",
		"reserva_id": res.ReservationID,
		"fecha":      res.Date,
		"hora":       res.Time,
		"mesa_id":    res.TableID,
	}})
}

// Update handles PUT /api/reservas.  The reservation id comes from the
// body or the query string.
func (h *ReservationHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "No autenticado")
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	br := req.booking()
	br.ReservationID = idParam(c, req.ID)
	res, err := h.Booking.Update(c.Request().Context(), actor, br)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": echo.Map{
		"message":    "Reserva actualizada correctamente",
		"reserva_id": res.ReservationID,
		"fecha":      res.Date,
	}})
}

// Cancel handles DELETE /api/reservas?id=.  Rows are never deleted; the
// reservation moves to cancelled.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "No autenticado")
	}
	var req reservationReq
	_ = c.Bind(&req) // the id usually comes from the query
	id := idParam(c, req.ID)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "ID de reserva requerido")
	}
	if err := h.Booking.Cancel(c.Request().Context(), actor, id); err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": echo.Map{"message": "Reserva cancelada correctamente"}})
}

// Today handles GET /api/reservas_hoy?date=.  Without date it lists the
// restaurant's current day.
func (h *ReservationHandler) Today(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "No autenticado")
	}
	day := h.Booking.Today()
	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		if day, err = model.ParseDate(raw); err != nil {
			return fail(c, http.StatusBadRequest, "Formato de fecha inválido, use YYYY-MM-DD")
		}
	}
	out, err := h.Booking.DaySheet(c.Request().Context(), actor, day)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"fecha": day, "data": out})
}
