package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ConfigHandler serves /api/configuracion.
type ConfigHandler struct {
	Config *repository.ConfigRepo
	Log    logrus.FieldLogger
}

func NewConfigHandler(cfg *repository.ConfigRepo, log logrus.FieldLogger) *ConfigHandler {
	return &ConfigHandler{Config: cfg, Log: log}
}

// Get handles GET /api/configuracion.
func (h *ConfigHandler) Get(c echo.Context) error {
	cfg, err := h.Config.Get(c.Request().Context())
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Configuración no encontrada")
	}
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": cfg})
}

// Put handles PUT /api/configuracion.  All five fields are required.
func (h *ConfigHandler) Put(c echo.Context) error {
	var req model.RestaurantConfig
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	if blank(req.Name, req.Address, req.Phone, req.OpeningTime, req.ClosingTime) {
		return fail(c, http.StatusBadRequest, "Todos los campos de configuración son obligatorios")
	}
	if !model.ValidClock(req.OpeningTime) || !model.ValidClock(req.ClosingTime) {
		return fail(c, http.StatusBadRequest, "Los horarios deben tener formato HH:MM")
	}
	cfg := model.RestaurantConfig{
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		OpeningTime: model.NormalizeSlotTime(req.OpeningTime),
		ClosingTime: model.NormalizeSlotTime(req.ClosingTime),
	}
	if err := h.Config.Save(c.Request().Context(), cfg); err != nil {
		h.Log.WithError(err).Error("save configuration failed")
		return fail(c, http.StatusServiceUnavailable, "No se pudo guardar la configuración")
	}
	return ok(c, http.StatusOK, echo.Map{"message": "Configuración actualizada correctamente", "data": cfg})
}
