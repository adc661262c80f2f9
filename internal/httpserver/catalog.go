package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
	"github.com/Skotchmaster/ecommerce_api/pkg/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/pkg/middleware/auth"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func pageParams(c echo.Context) (offset, limit int) {
	page := util.ParseIntDefault(c.QueryParam("page"), util.DefaultPage)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	return util.Calculate(page, size)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	offset, limit := pageParams(c)
	_, items, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_products_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "get_product_failed", "id is not a uuid", err)
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	offset, limit := pageParams(c)
	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products_failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  items,
		"total": total,
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := bindValid(c, l, "create_product_failed", &req); err != nil {
		return err
	}

	id, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", id)
	return c.JSON(http.StatusCreated, map[string]any{"id": id})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "update_product_failed", "id is not a uuid", err)
	}

	var req transport.UpdateProductRequest
	if err := bindValid(c, l, "update_product_failed", &req); err != nil {
		return err
	}

	updated, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return fail(l, "update_product_failed", err)
	}

	l.Info("update_product_success", "product_id", updated)
	return c.JSON(http.StatusOK, map[string]any{
		"updated_product": updated,
		"exp":             authmw.Expiry(c).Unix(),
	})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "delete_product_failed", "id is not a uuid", err)
	}

	deleted, err := h.Svc.DeleteProduct(ctx, id)
	if err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", deleted)
	return c.JSON(http.StatusOK, map[string]any{"id": deleted})
}

func (h *CatalogHTTP) SeedProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.seed")

	msg, err := h.Svc.SeedProducts(ctx)
	if err != nil {
		return fail(l, "seed_products_failed", err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": msg})
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_failed", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) SeedCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.seed")

	msg, err := h.Svc.SeedCategories(ctx)
	if err != nil {
		return fail(l, "seed_categories_failed", err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": msg})
}
