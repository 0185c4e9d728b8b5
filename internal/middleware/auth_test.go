package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

const secret = "mw-secret"

func serve(t *testing.T, h echo.HandlerFunc, authHeader string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/x", h, mws...)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	var gotID any
	var gotRole any
	h := func(c echo.Context) error {
		gotID, gotRole = c.Get(ContextUserID), c.Get(ContextRole)
		return c.NoContent(http.StatusOK)
	}

	tok, err := utils.NewAccessToken(secret, 7, model.RoleAdmin, 5)
	require.NoError(t, err)
	rec := serve(t, h, "Bearer "+tok.Token, JWTAuth(secret))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), gotID)
	assert.Equal(t, model.RoleAdmin, gotRole)

	other, err := utils.NewAccessToken("another-secret", 7, model.RoleAdmin, 5)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(secret, 7, model.RoleAdmin, -1)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"wrong secret": "Bearer " + other.Token,
		"expired":      "Bearer " + expired.Token,
		"garbage":      "Bearer not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, h, header, JWTAuth(secret))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestJWTAuth_NumericSubject(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 42, "role": model.RoleCustomer, "exp": 4102444800,
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	var gotID any
	rec := serve(t, func(c echo.Context) error {
		gotID = c.Get(ContextUserID)
		return c.NoContent(http.StatusOK)
	}, "Bearer "+raw, JWTAuth(secret))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), gotID)
}

func TestRequireRole(t *testing.T) {
	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	admin, err := utils.NewAccessToken(secret, 1, model.RoleAdmin, 5)
	require.NoError(t, err)
	customer, err := utils.NewAccessToken(secret, 2, model.RoleCustomer, 5)
	require.NoError(t, err)

	chain := []echo.MiddlewareFunc{JWTAuth(secret), RequireRole(model.RoleAdmin)}
	assert.Equal(t, http.StatusOK, serve(t, h, "Bearer "+admin.Token, chain...).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, "Bearer "+customer.Token, chain...).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, h, "", RequireRole(model.RoleAdmin)).Code)
}
