package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt(t *testing.T) {
	cases := []struct {
		in       string
		value    int64
		set, bad bool
		asUint   uint64
	}{
		{`4`, 4, true, false, 4},
		{`"4"`, 4, true, false, 4},
		{`" 12 "`, 12, true, false, 12},
		{`null`, 0, false, false, 0},
		{`""`, 0, false, false, 0},
		{`"cuatro"`, 0, true, true, 0},
		{`4.5`, 0, true, true, 0},
		{`-3`, -3, true, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			var v struct {
				N flexInt `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"n":`+tc.in+`}`), &v))
			assert.Equal(t, tc.value, v.N.Value)
			assert.Equal(t, tc.set, v.N.Set)
			assert.Equal(t, tc.bad, v.N.Bad)
			assert.Equal(t, tc.asUint, v.N.uint())
		})
	}
}

func TestIDParamPrecedence(t *testing.T) {
	e := echo.New()
	newCtx := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodDelete, target, nil), httptest.NewRecorder())
	}

	c := newCtx("/api/mesas/5?id=6")
	c.SetParamNames("id")
	c.SetParamValues("5")
	assert.EqualValues(t, 5, idParam(c, flexInt{Value: 7, Set: true}))

	assert.EqualValues(t, 6, idParam(newCtx("/api/mesas?id=6"), flexInt{Value: 7, Set: true}))
	assert.EqualValues(t, 7, idParam(newCtx("/api/mesas"), flexInt{Value: 7, Set: true}))
	assert.EqualValues(t, 0, idParam(newCtx("/api/mesas?id=abc"), flexInt{Value: 7, Set: true}))
}

func TestActorFrom(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := actorFrom(c)
	assert.Error(t, err)

	c.Set("user_id", uint64(9))
	c.Set("role", "admin")
	a, err := actorFrom(c)
	require.NoError(t, err)
	assert.EqualValues(t, 9, a.UserID)
	assert.True(t, a.Admin)
}
