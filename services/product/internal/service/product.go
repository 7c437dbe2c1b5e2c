package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/duodeal/backend/pkg/events"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/services/product/internal/models"
	"github.com/duodeal/backend/services/product/internal/repo"
	"github.com/duodeal/backend/services/product/internal/transport"
)

const productEventsTopic = "product_events"

// UserExistenceChecker confirms that a user id is known to the user
// service before a product is attached to it.
type UserExistenceChecker interface {
	UserExists(ctx context.Context, userID uint, token string) error
}

type ProductService struct {
	Repo   *repo.GormRepo
	Users  UserExistenceChecker
	Events *events.Producer
}

func (s *ProductService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: el usuario es requerido", ErrValidation)
	}
	if err := validateProductFields(req.Name, req.Price, req.Stock); err != nil {
		return nil, err
	}

	if err := s.Users.UserExists(ctx, req.UserID, req.Token); err != nil {
		return nil, fmt.Errorf("%w: el usuario %d no existe", ErrNotFound, req.UserID)
	}

	product := &models.Product{
		IDUser:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Photo:       req.Photo,
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, "product_created", product.ID, map[string]any{
		"product_id": product.ID,
		"user_id":    product.IDUser,
	})
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id inválido", ErrValidation)
	}
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: producto %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpdateProduct replaces the stored fields with the request's. An empty
// photo keeps the one already stored, clients do not resend the image
// on every edit.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	if err := validateProductFields(req.Name, req.Price, req.Stock); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock
	if len(req.Photo) > 0 {
		product.Photo = req.Photo
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: id inválido", ErrValidation)
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: producto %d", ErrNotFound, id)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	s.publish(ctx, "product_deleted", id, map[string]any{"product_id": id})
	return nil
}

// DeleteProductsByUser is the target of the user service's cascading
// deletion. Deleting for an owner with no products succeeds.
func (s *ProductService) DeleteProductsByUser(ctx context.Context, idUser uint) (int64, error) {
	if idUser == 0 {
		return 0, fmt.Errorf("%w: id de usuario inválido", ErrValidation)
	}
	deleted, err := s.Repo.DeleteByOwner(ctx, idUser)
	if err != nil {
		return 0, fmt.Errorf("delete products by user: %w", err)
	}

	s.publish(ctx, "products_bulk_deleted", idUser, map[string]any{
		"user_id": idUser,
		"deleted": deleted,
	})
	return deleted, nil
}

func (s *ProductService) publish(ctx context.Context, event string, key uint, payload map[string]any) {
	payload["event"] = event
	if err := s.Events.PublishEvent(ctx, productEventsTopic, fmt.Sprintf("%d", key), payload); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", event, "error", err)
	}
}

func validateProductFields(name string, price float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: el nombre es requerido", ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: el precio no puede ser negativo", ErrValidation)
	}
	if stock < 0 {
		return fmt.Errorf("%w: el stock no puede ser negativo", ErrValidation)
	}
	return nil
}
