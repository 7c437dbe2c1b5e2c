package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/duodeal/backend/pkg/api"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/pkg/tokens"
	"github.com/duodeal/backend/services/product/internal/service"
	"github.com/duodeal/backend/services/product/internal/transport"
)

type ProductHTTP struct {
	Svc       *service.ProductService
	JWTSecret []byte
}

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	products, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return api.Error(c, http.StatusInternalServerError, "Error al obtener productos", err.Error())
	}

	if len(products) == 0 {
		return api.Success(c, http.StatusOK, "No hay productos registrados", []any{})
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_product_error", "status", 400, "error", err)
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_product_error", "status", 404, "product_id", id)
			return api.Error(c, http.StatusNotFound, "Producto no encontrado", err.Error())
		default:
			l.Error("get_product_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno", err.Error())
		}
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}

	// Forward the caller's bearer token on the existence check.
	if req.Token == "" {
		req.Token, _ = c.Get("token").(string)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_product_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al crear producto", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("create_product_error", "status", 404, "error", err)
			return api.Error(c, http.StatusNotFound, "Usuario no encontrado", err.Error())
		default:
			l.Error("create_product_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	l.Info("product_created", "product_id", product.ID, "user_id", product.IDUser)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseID(c, "id")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}

	product, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_product_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al actualizar producto", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_product_error", "status", 404, "product_id", id)
			return api.Error(c, http.StatusNotFound, "Producto no encontrado", err.Error())
		default:
			l.Error("update_product_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseID(c, "id")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("delete_product_error", "status", 404, "product_id", id)
			return api.Error(c, http.StatusNotFound, "Producto no encontrado", err.Error())
		default:
			l.Error("delete_product_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return api.Success(c, http.StatusOK, "Producto eliminado exitosamente", nil)
}

// DeleteProductsByUser serves the user service's cascading deletion. The
// token arrives in the body instead of the Authorization header, so it
// is checked here rather than by the bearer middleware.
func (h *ProductHTTP) DeleteProductsByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_by_user")

	idUser, err := parseID(c, "iduser")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	var req transport.TokenRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}

	if res := tokens.Validate(req.Token, h.JWTSecret); !res.Valid() {
		l.Warn("delete_by_user_error", "status", 401, "token_status", res.Status.String())
		return api.Error(c, http.StatusUnauthorized, "Acceso no autorizado", "Token inválido o faltante")
	}

	deleted, err := h.Svc.DeleteProductsByUser(ctx, idUser)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		default:
			l.Error("delete_by_user_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	l.Info("products_deleted_by_user", "user_id", idUser, "deleted", deleted)
	return api.Success(c, http.StatusOK, "Productos eliminados exitosamente", map[string]int64{"eliminados": deleted})
}
