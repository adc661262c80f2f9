package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/ecommerce_api/pkg/middleware/auth"
)

type Deps struct {
	Auth    *AuthHTTP
	Users   *UserHTTP
	Catalog *CatalogHTTP
	Orders  *OrderHTTP
	Files   *FileHTTP

	JWTSecret []byte
	Ready     func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	requireAuth := authmw.RequireAuth(d.JWTSecret)
	requireAdmin := authmw.RequireAdmin()

	auth := e.Group("/auth")
	auth.POST("/signup", d.Auth.SignUp)
	auth.POST("/signin", d.Auth.SignIn)

	products := e.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/seeder", d.Catalog.SeedProducts)
	products.GET("/search", d.Catalog.SearchProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("", d.Catalog.CreateProduct, requireAuth)
	products.PUT("/:id", d.Catalog.UpdateProduct, requireAuth, requireAdmin)
	products.DELETE("/:id", d.Catalog.DeleteProduct, requireAuth)

	categories := e.Group("/categories")
	categories.GET("", d.Catalog.GetCategories)
	categories.GET("/seeder", d.Catalog.SeedCategories)

	users := e.Group("/users", requireAuth)
	users.GET("", d.Users.GetUsers, requireAdmin)
	users.GET("/:id", d.Users.GetUser)
	users.PUT("/:id", d.Users.UpdateUser)
	users.DELETE("/:id", d.Users.DeleteUser)

	orders := e.Group("/orders", requireAuth)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.POST("", d.Orders.AddOrder)

	files := e.Group("/files", requireAuth, requireAdmin)
	files.POST("/uploadImage/:id", d.Files.UploadImage)
}
