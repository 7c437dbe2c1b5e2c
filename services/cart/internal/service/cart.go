package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/duodeal/backend/pkg/events"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/services/cart/internal/models"
	"github.com/duodeal/backend/services/cart/internal/repo"
	"github.com/duodeal/backend/services/cart/internal/transport"
)

const cartEventsTopic = "cart_events"

// UserExistenceChecker confirms the user id against the user service
// before a cart is touched on their behalf.
type UserExistenceChecker interface {
	UserExists(ctx context.Context, userID uint, token string) error
}

type CartService struct {
	Repo   *repo.GormRepo
	Users  UserExistenceChecker
	Events *events.Producer
}

// checkUser is the peer existence check guarding every cart mutation.
func (s *CartService) checkUser(ctx context.Context, userID uint, token string) error {
	if userID == 0 {
		return fmt.Errorf("%w: id de usuario inválido", ErrValidation)
	}
	if err := s.Users.UserExists(ctx, userID, token); err != nil {
		return fmt.Errorf("%w: el usuario %d no existe", ErrNotFound, userID)
	}
	return nil
}

// GetOrCreateCart returns the user's cart, creating an empty one the
// first time the user is seen.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: id de usuario inválido", ErrValidation)
	}

	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	if err := s.Repo.CreateCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// AddItem merges into an existing line when the product is already in
// the cart, summing quantities, and appends a new line otherwise.
func (s *CartService) AddItem(ctx context.Context, req transport.AddItemRequest) (*models.Cart, error) {
	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: el producto es requerido", ErrValidation)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", ErrValidation)
	}

	if err := s.checkUser(ctx, req.UserID, req.Token); err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreateCart(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// Stale rows without a product break the merge lookup.
	if err := s.Repo.DeleteOrphanItems(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("clean orphan items: %w", err)
	}

	existing, err := s.Repo.GetItemByCartAndProduct(ctx, cart.ID, req.ProductID)
	switch {
	case err == nil:
		existing.Quantity += req.Quantity
		if err := s.Repo.SaveItem(ctx, existing); err != nil {
			return nil, fmt.Errorf("merge item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{CartID: cart.ID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := s.Repo.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("add item: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup item: %w", err)
	}

	s.publish(ctx, "cart_item_added", req.UserID, map[string]any{
		"user_id":    req.UserID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	return s.reload(ctx, req.UserID)
}

// UpdateItemQuantity sets the line's quantity. Zero removes the line.
// The item must belong to the user's own cart.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID uint, quantity int, token string) (*models.Cart, error) {
	if err := s.checkUser(ctx, userID, token); err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ítem %d", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item.CartID != cart.ID {
		return nil, fmt.Errorf("%w: ítem %d", ErrNotFound, itemID)
	}

	if quantity <= 0 {
		if err := s.Repo.DeleteItem(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("remove item: %w", err)
		}
	} else {
		item.Quantity = quantity
		if err := s.Repo.SaveItem(ctx, item); err != nil {
			return nil, fmt.Errorf("update item: %w", err)
		}
	}

	return s.reload(ctx, userID)
}

// RemoveItem deletes the line holding the given product.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint, token string) (*models.Cart, error) {
	if err := s.checkUser(ctx, userID, token); err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.Repo.GetItemByCartAndProduct(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: producto %d no está en el carrito", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("lookup item: %w", err)
	}

	if err := s.Repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}

	s.publish(ctx, "cart_item_removed", userID, map[string]any{
		"user_id":    userID,
		"product_id": productID,
	})
	return s.reload(ctx, userID)
}

// ClearCart empties the cart. Clearing an already empty cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID uint, token string) (*models.Cart, error) {
	if err := s.checkUser(ctx, userID, token); err != nil {
		return nil, err
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.DeleteItemsByCart(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	s.publish(ctx, "cart_cleared", userID, map[string]any{"user_id": userID})
	return s.reload(ctx, userID)
}

func (s *CartService) reload(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

func (s *CartService) publish(ctx context.Context, event string, key uint, payload map[string]any) {
	payload["event"] = event
	if err := s.Events.PublishEvent(ctx, cartEventsTopic, fmt.Sprintf("%d", key), payload); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", event, "error", err)
	}
}
