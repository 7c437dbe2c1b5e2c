package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/duodeal/backend/pkg/middleware/auth"
)

type Deps struct {
	CartHandler *CartHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewBearerMiddleware(d.JWTSecret)

	g := e.Group("/duodeal/cart")

	// Reading a cart is open, every mutation is guarded.
	g.GET("/:userId", d.CartHandler.GetCart)

	g.POST("/add", d.CartHandler.AddItem, authMW.RequireAuth)
	g.PUT("/update/:userid/:itemid", d.CartHandler.UpdateItemQuantity, authMW.RequireAuth)

	// Legacy routes carry the token as the last path segment, the
	// handlers validate it themselves.
	g.DELETE("/remove/:userid/:productid/:token", d.CartHandler.RemoveItem)
	g.DELETE("/clear/:userId/:token", d.CartHandler.ClearCart)
}
