package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/duodeal/backend/pkg/api"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/pkg/tokens"
	"github.com/duodeal/backend/services/cart/internal/service"
	"github.com/duodeal/backend/services/cart/internal/transport"
)

type CartHTTP struct {
	Svc       *service.CartService
	JWTSecret []byte
}

func parseID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

// checkPathToken validates tokens carried as a path segment on the
// legacy delete routes.
func (h *CartHTTP) checkPathToken(c echo.Context) bool {
	res := tokens.Validate(c.Param("token"), h.JWTSecret)
	return res.Valid()
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := parseID(c, "userId")
	if err != nil {
		l.Warn("get_cart_error", "status", 400, "error", err)
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	cart, err := h.Svc.GetOrCreateCart(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		default:
			l.Error("get_cart_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error al obtener el carrito", err.Error())
		}
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_error", "status", 400, "error", err)
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}

	// Forward the caller's bearer token on the existence check.
	if req.Token == "" {
		req.Token, _ = c.Get("token").(string)
	}

	cart, err := h.Svc.AddItem(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_item_error", "status", 400, "error", err)
			return api.Error(c, http.StatusBadRequest, "Error al agregar producto", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("add_item_error", "status", 404, "error", err)
			return api.Error(c, http.StatusNotFound, "Usuario no encontrado", err.Error())
		default:
			l.Error("add_item_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) UpdateItemQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := parseID(c, "userid")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}
	itemID, err := parseID(c, "itemid")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "cuerpo inválido")
	}
	if req.Quantity < 0 {
		l.Warn("update_quantity_error", "status", 400, "quantity", req.Quantity)
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "la cantidad no puede ser negativa")
	}
	if req.Token == "" {
		req.Token, _ = c.Get("token").(string)
	}

	cart, err := h.Svc.UpdateItemQuantity(ctx, userID, itemID, req.Quantity, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_quantity_error", "status", 404, "item_id", itemID)
			return api.Error(c, http.StatusNotFound, "Ítem no encontrado", err.Error())
		default:
			l.Error("update_quantity_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	if !h.checkPathToken(c) {
		l.Warn("remove_item_error", "status", 401)
		return api.Error(c, http.StatusUnauthorized, "Acceso no autorizado", "Token inválido o faltante")
	}

	userID, err := parseID(c, "userid")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}
	productID, err := parseID(c, "productid")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, productID, c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("remove_item_error", "status", 404, "product_id", productID)
			return api.Error(c, http.StatusNotFound, "Producto no encontrado en el carrito", err.Error())
		default:
			l.Error("remove_item_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	if !h.checkPathToken(c) {
		l.Warn("clear_cart_error", "status", 401)
		return api.Error(c, http.StatusUnauthorized, "Acceso no autorizado", "Token inválido o faltante")
	}

	userID, err := parseID(c, "userId")
	if err != nil {
		return api.Error(c, http.StatusBadRequest, "Datos inválidos", "el ID debe ser numérico")
	}

	cart, err := h.Svc.ClearCart(ctx, userID, c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return api.Error(c, http.StatusBadRequest, "Datos inválidos", err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("clear_cart_error", "status", 404, "user_id", userID)
			return api.Error(c, http.StatusNotFound, "Usuario no encontrado", err.Error())
		default:
			l.Error("clear_cart_error", "status", 500, "error", err)
			return api.Error(c, http.StatusInternalServerError, "Error interno del servidor", err.Error())
		}
	}

	return c.JSON(http.StatusOK, cart)
}
