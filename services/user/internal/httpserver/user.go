package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/duodeal/backend/pkg/api"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/services/user/internal/service"
	"github.com/duodeal/backend/services/user/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("get_users_error", "status", 500, "error", err)
		return api.Error(c, http.StatusInternalServerError, "Error al obtener usuarios", err.Error())
	}

	if len(users) == 0 {
		return api.Success(c, http.StatusOK, "No hay usuarios registrados", []any{})
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_user_error", "status", 400, "error", err)
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_user_error", "status", 404, "user_id", id)
			return api.Error(c, http.StatusNotFound, "Usuario no encontrado", err.Error())
		default:
			l.Error("get_user_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno", err.Error())
		}
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) GetUserIDByUsername(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.id_by_username")

	userID, err := h.Svc.GetUserIDByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("id_by_username_error", "status", 404)
			return api.Error(c, http.StatusNotFound, "Usuario no encontrado", err.Error())
		}
		l.Error("id_by_username_error", "status", 500, "error", err)
		return api.Error(c, http.StatusInternalServerError, "Error interno", err.Error())
	}

	return c.JSON(http.StatusOK, map[string]uint{"id": userID})
}

func (h *UserHTTP) GetRoles(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_roles")

	roles, err := h.Svc.ListRoles(ctx)
	if err != nil {
		l.Error("get_roles_error", "status", 500, "error", err)
		return api.Error(c, http.StatusInternalServerError, "Error al obtener roles", err.Error())
	}

	if len(roles) == 0 {
		return api.Success(c, http.StatusOK, "No hay roles registrados", []any{})
	}
	return c.JSON(http.StatusOK, roles)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create_user")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_user_error", "status", 400, "error", err)
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}
	if req.Rol.ID == 0 {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "El rol es requerido")
	}

	user, err := h.Svc.CreateUser(ctx, req.Username, req.Password, req.Correo, req.Rol.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
			l.Warn("create_user_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al crear usuario", err.Error())
		default:
			l.Error("create_user_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	l.Info("user_created", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	id, err := parseID(c, "id")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}

	user, err := h.Svc.UpdateUser(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrNotFound):
			l.Warn("update_user_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al actualizar usuario", err.Error())
		default:
			l.Error("update_user_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) ChangeUsername(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.change_username")

	id, err := parseID(c, "id")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	var req transport.ChangeUsernameRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}

	user, err := h.Svc.ChangeUsername(ctx, id, req.NuevoUsername)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("change_username_error", "status", 404, "error", err)
			return api.Error(c, http.StatusNotFound, "Usuario no encontrado", err.Error())
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
			l.Warn("change_username_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		default:
			l.Error("change_username_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser drives the cascading flow: products first (best effort),
// then the row. The caller's bearer token is what gets forwarded to the
// product service.
func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	id, err := parseID(c, "id")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	token, _ := c.Get("token").(string)

	if err := h.Svc.DeleteUser(ctx, id, token); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("delete_user_error", "status", 404, "user_id", id)
			return api.Error(c, http.StatusNotFound, "Error al eliminar usuario", err.Error())
		default:
			l.Error("delete_user_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return api.Success(c, http.StatusOK, "Usuario eliminado exitosamente", nil)
}
