package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/duodeal/backend/pkg/api"
	"github.com/duodeal/backend/pkg/tokens"
)

// BearerMiddleware guards routes with the shared-secret login token.
// Handlers downstream read "username", "role" and "token" from the echo
// context.
type BearerMiddleware struct {
	Secret []byte
}

func NewBearerMiddleware(secret []byte) *BearerMiddleware {
	return &BearerMiddleware{Secret: secret}
}

type ValidatorFunc func(claims *tokens.Claims) error

func (m *BearerMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

var errForbidden = errors.New("forbidden")

func (m *BearerMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.Claims) error {
		if claims.Role != "ADMIN" {
			return errForbidden
		}
		return nil
	})
}

func (m *BearerMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := tokens.FromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
		if raw == "" {
			return api.Error(c, http.StatusUnauthorized, "Acceso no autorizado", "Token inválido o faltante")
		}

		res := tokens.Validate(raw, m.Secret)
		if !res.Valid() {
			return api.Error(c, http.StatusUnauthorized, "Acceso no autorizado", "Token inválido o faltante")
		}

		if validator != nil {
			if err := validator(res.Claims); err != nil {
				return api.Error(c, http.StatusForbidden, "Acceso denegado", "Se requiere rol de ADMIN")
			}
		}

		setUserContext(c, res.Claims, raw)
		return next(c)
	}
}

func setUserContext(c echo.Context, claims *tokens.Claims, raw string) {
	c.Set("username", claims.Subject)
	c.Set("role", claims.Role)
	c.Set("token", raw)
}
