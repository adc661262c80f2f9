package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignUpRequest
	if err := bindValid(c, l, "signup_failed", &req); err != nil {
		return err
	}

	user, err := h.Svc.SignUp(ctx, req)
	if err != nil {
		return fail(l, "signup_failed", err)
	}

	l.Info("signup_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.PublicUser(user))
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signin")

	var req transport.SignInRequest
	if err := bindValid(c, l, "signin_failed", &req); err != nil {
		return err
	}

	res, err := h.Svc.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "signin_failed", err)
	}

	l.Info("signin_success")
	return c.JSON(http.StatusOK, res)
}
