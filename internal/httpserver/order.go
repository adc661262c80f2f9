package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) AddOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.add_order")

	var req transport.CreateOrderRequest
	if err := bindValid(c, l, "add_order_failed", &req); err != nil {
		return err
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return badRequest(l, "add_order_failed", "user_id is not a uuid", err)
	}
	if !selfOrAdmin(c, userID) {
		return forbidden(c, "add_order_failed")
	}

	ids := make([]uuid.UUID, 0, len(req.Products))
	for _, p := range req.Products {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return badRequest(l, "add_order_failed", "product id is not a uuid", err)
		}
		ids = append(ids, id)
	}

	placed, err := h.Svc.AddOrder(ctx, userID, ids)
	if err != nil {
		return fail(l, "add_order_failed", err)
	}

	l.Info("add_order_success", "order_id", placed.ID)
	return c.JSON(http.StatusCreated, struct {
		*transport.PlacedOrder
		Exp int64 `json:"exp"`
	}{placed, authmw.Expiry(c).Unix()})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "get_order_failed", "id is not a uuid", err)
	}

	view, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", err)
	}
	if !selfOrAdmin(c, view.User.ID) {
		return forbidden(c, "get_order_failed")
	}

	return c.JSON(http.StatusOK, struct {
		*transport.OrderView
		Exp int64 `json:"exp"`
	}{view, authmw.Expiry(c).Unix()})
}
