package handler // handler defines http handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/apperr"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// ok writes a success envelope.  payload may be nil.
func ok(c echo.Context, status int, payload echo.Map) error {
	if payload == nil {
		payload = echo.Map{}
	}
	payload["success"] = true
	return c.JSON(status, payload)
}

// fail writes an error envelope.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// writeError renders err.  *apperr.Error values keep their status and
// message; anything else becomes a 500 and the cause is only logged.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	ae := apperr.As(err)
	if ae.Status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		}).Error("request failed")
	}
	return fail(c, ae.Status, ae.Message)
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// actorFrom builds the booking actor from the authenticated context.
func actorFrom(c echo.Context) (service.Actor, error) {
	uid, err := getUserID(c)
	if err != nil || uid == 0 {
		return service.Actor{}, errors.New("unauthenticated")
	}
	role, _ := c.Get("role").(string)
	return service.Actor{UserID: uid, Admin: role == model.RoleAdmin}, nil
}

// flexInt decodes a JSON number, a numeric string, or null.  Set records
// whether a non-empty value was supplied.  Browser forms often send
// numbers as strings.
type flexInt struct {
	Value int64
	Set   bool
	Bad   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f.Set = true
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Keep decoding the rest of the body; validation reports it.
		f.Bad = true
		return nil
	}
	f.Value = n
	return nil
}

// uint returns the value as an id, or 0 when missing or not positive.
func (f flexInt) uint() uint64 {
	if !f.Set || f.Bad || f.Value <= 0 {
		return 0
	}
	return uint64(f.Value)
}

// idParam resolves a resource id from the path, then the query string,
// then the body.  0 means absent or malformed.
func idParam(c echo.Context, body flexInt) uint64 {
	for _, raw := range []string{c.Param("id"), c.QueryParam("id")} {
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return body.uint()
}
