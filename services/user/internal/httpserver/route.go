package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/duodeal/backend/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler *AuthHTTP
	UserHandler *UserHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewBearerMiddleware(d.JWTSecret)

	g := e.Group("/duodeal")

	g.POST("/auth/login", d.AuthHandler.Login)
	g.POST("/auth/change-password", d.AuthHandler.ChangePassword)
	g.POST("/auth/logout", d.AuthHandler.Logout)
	g.POST("/auth/request-reset", d.AuthHandler.RequestReset)
	g.POST("/auth/reset-password", d.AuthHandler.ResetPassword)

	// Registration is open; everything else on /users needs a token.
	g.POST("/users", d.UserHandler.CreateUser)

	g.GET("/users", d.UserHandler.GetUsers, authMW.RequireAuth)
	g.GET("/users/:id", d.UserHandler.GetUser, authMW.RequireAuth)
	g.GET("/users/id-by-username/:username", d.UserHandler.GetUserIDByUsername, authMW.RequireAuth)
	g.GET("/roles", d.UserHandler.GetRoles, authMW.RequireAuth)
	g.PUT("/users/:id/change-username", d.UserHandler.ChangeUsername, authMW.RequireAuth)

	g.PUT("/users/:id", d.UserHandler.UpdateUser, authMW.RequireAdmin)
	g.DELETE("/users/:id", d.UserHandler.DeleteUser, authMW.RequireAdmin)
}
