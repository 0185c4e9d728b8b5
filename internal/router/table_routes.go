package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// RegisterTables registers the table catalogue and the public availability
// searches.  Reads are cached; writes require an admin token and flush the
// cache on success.
func RegisterTables(e *echo.Echo, d Deps) {
	cache := d.mw(d.Cache)
	e.GET("/api/mesas", d.Tables.List, cache)
	e.GET("/api/mesas/:id", d.Tables.Get, cache)
	e.GET("/api/mesas_disponibles", d.Availability.AvailableTables, cache)
	e.GET("/api/timeframes", d.Availability.Timeframes, cache)

	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
		d.mw(d.Invalidate),
	}
	e.POST("/api/mesas", d.Tables.Create, admin...)
	// The id may come from the path or from ?id=.
	e.PUT("/api/mesas", d.Tables.Update, admin...)
	e.PUT("/api/mesas/:id", d.Tables.Update, admin...)
	e.DELETE("/api/mesas", d.Tables.Delete, admin...)
	e.DELETE("/api/mesas/:id", d.Tables.Delete, admin...)
}
