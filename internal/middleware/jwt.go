package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ContextUserID = "user_id" // uint64
	ContextRole   = "role"    // string
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject and role claims into the request context.  The
// provided secret must match the one used when issuing tokens.  Handlers
// read the caller via `c.Get("user_id")` and `c.Get("role")`.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return fail(c, http.StatusUnauthorized, "Token de acceso requerido")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			id, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return fail(c, http.StatusUnauthorized, "Token inválido o expirado")
			}

			c.Set(ContextUserID, id.UserID)
			c.Set(ContextRole, id.Role)
			return next(c)
		}
	}
}

// fail writes the standard error envelope.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}
