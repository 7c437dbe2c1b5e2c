package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/duodeal/backend/pkg/middleware/auth"
)

type Deps struct {
	ProductHandler *ProductHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewBearerMiddleware(d.JWTSecret)

	g := e.Group("/duodeal/products")

	g.GET("", d.ProductHandler.GetProducts)
	g.GET("/:id", d.ProductHandler.GetProduct)

	g.POST("", d.ProductHandler.CreateProduct, authMW.RequireAuth)
	g.PUT("/:id", d.ProductHandler.UpdateProduct, authMW.RequireAuth)
	g.DELETE("/:id", d.ProductHandler.DeleteProduct, authMW.RequireAuth)

	// Token travels in the body here, the handler validates it itself.
	g.DELETE("/user/:iduser", d.ProductHandler.DeleteProductsByUser)
}
