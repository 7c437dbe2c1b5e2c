package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/duodeal/backend/pkg/api"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/services/user/internal/service"
	"github.com/duodeal/backend/services/user/internal/transport"
)

type AuthHTTP struct {
	Svc      *service.UserService
	Recovery *service.RecoveryService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return api.Error(c, http.StatusBadRequest, "Datos de login inválidos", "cuerpo inválido")
	}
	if req.Mail == "" || req.Password == "" {
		l.Warn("login_error", "status", 400, "reason", "missing credentials")
		return api.Error(c, http.StatusBadRequest, "Datos de login inválidos", "mail y password son requeridos")
	}

	resp, err := h.Svc.Login(ctx, req.Mail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos de login inválidos", err.Error())
		case errors.Is(err, service.ErrUnauthenticated):
			return api.Error(c, http.StatusUnauthorized, "Error de autenticación", "Credenciales inválidas")
		default:
			l.Error("login_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", "Ocurrió un error inesperado")
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.change_password")

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Error al cambiar contraseña", "cuerpo inválido")
	}

	if err := h.Svc.ChangePassword(ctx, req); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNotFound):
			l.Warn("change_password_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al cambiar contraseña", err.Error())
		default:
			l.Error("change_password_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return api.Success(c, http.StatusOK, "Contraseña actualizada exitosamente", nil)
}

// Logout exists for symmetry with the clients; tokens are not revocable
// server-side, forgetting the token is the logout.
func (h *AuthHTTP) Logout(c echo.Context) error {
	return api.Success(c, http.StatusOK, "Sesión cerrada exitosamente", nil)
}

func (h *AuthHTTP) RequestReset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.request_reset")

	var req transport.RequestResetRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Error al solicitar recuperación", "cuerpo inválido")
	}

	if err := h.Recovery.RequestReset(ctx, req.Correo); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNotFound):
			l.Warn("request_reset_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al solicitar recuperación", err.Error())
		default:
			l.Error("request_reset_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return api.Success(c, http.StatusOK, "Correo enviado correctamente para restablecer la contraseña", nil)
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Error al restablecer contraseña", "cuerpo inválido")
	}

	err := h.Recovery.ConfirmReset(ctx, req.Correo, req.Codigo, req.NuevaContrasena, req.ConfirmarContrasena)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNotFound):
			l.Warn("reset_password_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al restablecer contraseña", err.Error())
		default:
			l.Error("reset_password_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return api.Success(c, http.StatusOK, "Contraseña restablecida correctamente", nil)
}
