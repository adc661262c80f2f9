package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/ecommerce_api/pkg/middleware/logging"
)

const maxBodySize = "1M"

// New returns an echo instance with the validator, serializer and the
// common middleware chain installed.
func New(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.JSONSerializer = JSONSerializer{}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(maxBodySize))
	return e
}
