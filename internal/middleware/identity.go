package middleware

// identity.go defines helper functions shared across middleware files.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated user's id as a string for use in
// cache and rate limit keys, or "anon" when the request carries no
// identity.
func userID(c echo.Context) string {
	if v, ok := c.Get(ContextUserID).(uint64); ok && v != 0 {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
