package router // package router defines how HTTP routes are registered for the API

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/restaurant-reservation/internal/middleware" // request logging, auth, cache and rate limit
)

// Deps carries everything the routes are wired to.  Nil middleware fields
// are treated as pass-through.
type Deps struct {
	Log         logrus.FieldLogger
	JWTSecret   string
	CORSOrigins []string

	Auth         *handler.AuthHandler
	Tables       *handler.TableHandler
	Availability *handler.AvailabilityHandler
	Reservations *handler.ReservationHandler
	Config       *handler.ConfigHandler
	Stats        *handler.StatsHandler
	Health       echo.HandlerFunc

	Cache      echo.MiddlewareFunc // response cache for public reads
	Invalidate echo.MiddlewareFunc // cache flush after writes
	RateLimit  echo.MiddlewareFunc // token bucket for /api/auth
}

func (d Deps) mw(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}

// New builds the Echo instance with the global middleware chain and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, d.Health)
	RegisterAuth(e, d)
	RegisterTables(e, d)
	RegisterReservations(e, d)
	RegisterAdmin(e, d)
	return e
}

// RegisterRoutes registers routes that do not require authentication and
// are not part of the API, currently only the health check.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	if health == nil {
		health = func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	}
	e.GET("/healthz", health)
}

// ErrorHandler renders framework errors (unknown route, wrong method,
// panics turned into errors) in the same envelope the handlers use.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := "error interno del servidor"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			switch status {
			case http.StatusNotFound:
				msg = "Recurso no encontrado"
			case http.StatusMethodNotAllowed:
				msg = "Método no permitido"
			default:
				if m, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
					msg = m
				} else if status < http.StatusInternalServerError {
					msg = http.StatusText(status)
				}
			}
		}
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"success": false, "message": msg})
	}
}
