package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	Stats *repository.StatsRepo
	Today func() model.Date
	Log   logrus.FieldLogger
}

func NewStatsHandler(stats *repository.StatsRepo, today func() model.Date, log logrus.FieldLogger) *StatsHandler {
	return &StatsHandler{Stats: stats, Today: today, Log: log}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(c echo.Context) error {
	s, err := h.Stats.Daily(c.Request().Context(), h.Today())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"stats": s})
}
