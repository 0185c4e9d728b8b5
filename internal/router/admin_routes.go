package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// RegisterAdmin registers the restaurant profile and the dashboard.  The
// profile is publicly readable; changing it and reading stats need an
// admin token.
func RegisterAdmin(e *echo.Echo, d Deps) {
	e.GET("/api/configuracion", d.Config.Get, d.mw(d.Cache))
	e.PUT("/api/configuracion", d.Config.Put,
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
		d.mw(d.Invalidate),
	)
	e.GET("/api/stats", d.Stats.Get,
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
}
