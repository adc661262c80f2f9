package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/service"
)

var sentinels = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrInternal, http.StatusInternalServerError},
}

// fail maps a service error to its HTTP status. Unknown errors become a
// generic 500 and keep their detail in the log only.
func fail(l *slog.Logger, event string, err error) error {
	for _, s := range sentinels {
		if !errors.Is(err, s.err) {
			continue
		}
		msg := strings.TrimPrefix(err.Error(), s.err.Error()+": ")
		if s.code >= http.StatusInternalServerError {
			l.Error(event, "status", s.code, "reason", msg, "error", err)
		} else {
			l.Warn(event, "status", s.code, "reason", msg, "error", err)
		}
		return echo.NewHTTPError(s.code, msg)
	}

	l.Error(event, "status", http.StatusInternalServerError, "reason", "unexpected error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func paramID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// bindValid binds the body into req and runs the struct validator.
func bindValid(c echo.Context, l *slog.Logger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest(l, event, "invalid body", err)
	}
	if err := c.Validate(req); err != nil {
		l.Warn(event, "status", http.StatusBadRequest, "reason", "validation failed", "error", err)
		return err
	}
	return nil
}
