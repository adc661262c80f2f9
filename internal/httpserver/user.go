package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/pkg/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/pkg/tokens"
)

type UserHTTP struct {
	Svc *service.UserService
}

// selfOrAdmin lets admins act on any account and users on their own.
func selfOrAdmin(c echo.Context, owner uuid.UUID) bool {
	if role, _ := c.Get(authmw.CtxRole).(string); role == tokens.RoleAdmin {
		return true
	}
	uid, _ := c.Get(authmw.CtxUserID).(string)
	return uid != "" && uid == owner.String()
}

func forbidden(c echo.Context, event string) error {
	logging.FromContext(c.Request().Context()).Warn(event, "status", http.StatusForbidden, "reason", "not the owner")
	return echo.NewHTTPError(http.StatusForbidden, authmw.MsgForbidden)
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	offset, limit := pageParams(c)
	total, items, err := h.Svc.ListUsers(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_users_failed", err)
	}

	users := make([]transport.UserView, 0, len(items))
	for i := range items {
		users = append(users, transport.UserWithRole(&items[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"users": users,
		"total": total,
		"exp":   authmw.Expiry(c).Unix(),
	})
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "get_user_failed", "id is not a uuid", err)
	}
	if !selfOrAdmin(c, id) {
		return forbidden(c, "get_user_failed")
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"user": transport.PublicUser(user),
		"exp":  authmw.Expiry(c).Unix(),
	})
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "update_user_failed", "id is not a uuid", err)
	}
	if !selfOrAdmin(c, id) {
		return forbidden(c, "update_user_failed")
	}

	var req transport.UpdateUserRequest
	if err := bindValid(c, l, "update_user_failed", &req); err != nil {
		return err
	}

	updated, err := h.Svc.UpdateUser(ctx, id, req)
	if err != nil {
		return fail(l, "update_user_failed", err)
	}

	l.Info("update_user_success", "user_id", updated)
	return c.JSON(http.StatusOK, map[string]any{
		"updated_user": updated,
		"exp":          authmw.Expiry(c).Unix(),
	})
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "delete_user_failed", "id is not a uuid", err)
	}
	if !selfOrAdmin(c, id) {
		return forbidden(c, "delete_user_failed")
	}

	deleted, err := h.Svc.DeleteUser(ctx, id)
	if err != nil {
		return fail(l, "delete_user_failed", err)
	}

	l.Info("delete_user_success", "user_id", deleted)
	return c.JSON(http.StatusOK, map[string]any{
		"deleted_user": deleted,
		"exp":          authmw.Expiry(c).Unix(),
	})
}
