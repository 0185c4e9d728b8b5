package router

import (
	"github.com/labstack/echo/v4"
)

// RegisterAuth maps POST /api/auth.  The handler dispatches on ?action=
// (register, login, solicitar_recuperacion, restablecer).  Other methods
// get 405 from the router.
func RegisterAuth(e *echo.Echo, d Deps) {
	e.POST("/api/auth", d.Auth.Handle, d.mw(d.RateLimit))
}
