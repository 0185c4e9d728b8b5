package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// RegisterReservations registers /api/reservas for any authenticated user
// and the admin day sheet /api/reservas_hoy.  Customers are limited to
// their own reservations by the booking service.
func RegisterReservations(e *echo.Echo, d Deps) {
	g := e.Group("/api/reservas", middleware.JWTAuth(d.JWTSecret), d.mw(d.Invalidate))
	g.GET("", d.Reservations.List)
	g.POST("", d.Reservations.Create)
	g.PUT("", d.Reservations.Update)
	g.DELETE("", d.Reservations.Cancel)

	e.GET("/api/reservas_hoy", d.Reservations.Today,
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
}
