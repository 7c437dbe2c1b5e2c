package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/duodeal/backend/services/cart/internal/models"
	"github.com/duodeal/backend/services/cart/internal/repo"
	"github.com/duodeal/backend/services/cart/internal/transport"
)

type fakeUserChecker struct {
	missing map[uint]bool
	calls   []uint
}

func (f *fakeUserChecker) UserExists(_ context.Context, userID uint, _ string) error {
	f.calls = append(f.calls, userID)
	if f.missing[userID] {
		return context.Canceled
	}
	return nil
}

type cartEnv struct {
	db      *gorm.DB
	svc     *CartService
	checker *fakeUserChecker
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Cart{}, &models.CartItem{}))

	checker := &fakeUserChecker{missing: map[uint]bool{}}
	return &cartEnv{
		db:      db,
		checker: checker,
		svc: &CartService{
			Repo:  &repo.GormRepo{DB: db},
			Users: checker,
		},
	}
}

func (e *cartEnv) addItem(t *testing.T, userID, productID uint, quantity int) *models.Cart {
	t.Helper()
	cart, err := e.svc.AddItem(context.Background(), transport.AddItemRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Token:     "token",
	})
	require.NoError(t, err)
	return cart
}

func TestCartService_GetOrCreateCart_Lazy(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	cart, err := env.svc.GetOrCreateCart(ctx, 5)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Equal(t, uint(5), cart.UserID)
	assert.Empty(t, cart.Items)

	again, err := env.svc.GetOrCreateCart(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_AddItem_MergesQuantities(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)

	cart := env.addItem(t, 1, 10, 2)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart = env.addItem(t, 1, 10, 3)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, uint(10), cart.Items[0].ProductID)
}

func TestCartService_AddItem_DistinctProducts(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)

	env.addItem(t, 1, 10, 1)
	cart := env.addItem(t, 1, 11, 4)

	require.Len(t, cart.Items, 2)
}

func TestCartService_AddItem_Validation(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddItem(ctx, transport.AddItemRequest{UserID: 1, ProductID: 0, Quantity: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.AddItem(ctx, transport.AddItemRequest{UserID: 1, ProductID: 10, Quantity: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.AddItem(ctx, transport.AddItemRequest{UserID: 1, ProductID: 10, Quantity: -2})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartService_AddItem_UnknownUser(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	env.checker.missing[9] = true

	_, err := env.svc.AddItem(context.Background(), transport.AddItemRequest{
		UserID:    9,
		ProductID: 10,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_AddItem_CleansOrphanRows(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)

	first := env.addItem(t, 1, 10, 1)
	require.NoError(t, env.db.Exec(
		"INSERT INTO carrito_items (cart_id, product_id, quantity) VALUES (?, 0, 1)", first.ID).Error)

	cart := env.addItem(t, 1, 11, 1)
	require.Len(t, cart.Items, 2)
	for _, item := range cart.Items {
		assert.NotZero(t, item.ProductID)
	}
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	cart := env.addItem(t, 1, 10, 2)
	itemID := cart.Items[0].ID

	updated, err := env.svc.UpdateItemQuantity(ctx, 1, itemID, 7, "token")
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 7, updated.Items[0].Quantity)
}

func TestCartService_UpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	cart := env.addItem(t, 1, 10, 2)
	itemID := cart.Items[0].ID

	updated, err := env.svc.UpdateItemQuantity(ctx, 1, itemID, 0, "token")
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
}

func TestCartService_UpdateItemQuantity_ForeignItem(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	mine := env.addItem(t, 1, 10, 2)
	env.addItem(t, 2, 10, 1)

	_, err := env.svc.UpdateItemQuantity(ctx, 2, mine.Items[0].ID, 5, "token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	cart, err := env.svc.GetOrCreateCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_RemoveItem(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	env.addItem(t, 1, 10, 2)
	env.addItem(t, 1, 11, 1)

	cart, err := env.svc.RemoveItem(ctx, 1, 10, "token")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(11), cart.Items[0].ProductID)

	_, err = env.svc.RemoveItem(ctx, 1, 10, "token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_ClearCart_Idempotent(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	env.addItem(t, 1, 10, 2)
	env.addItem(t, 1, 11, 1)

	cart, err := env.svc.ClearCart(ctx, 1, "token")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = env.svc.ClearCart(ctx, 1, "token")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_MutationsRequireExistingUser(t *testing.T) {
	t.Parallel()

	env := newCartEnv(t)
	ctx := context.Background()

	cart := env.addItem(t, 1, 10, 2)
	itemID := cart.Items[0].ID

	// The user disappears between mutations; every mutation must hit the
	// peer check and fail without touching the cart.
	env.checker.missing[1] = true
	before := len(env.checker.calls)

	_, err := env.svc.AddItem(ctx, transport.AddItemRequest{UserID: 1, ProductID: 11, Quantity: 1, Token: "token"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.UpdateItemQuantity(ctx, 1, itemID, 5, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.RemoveItem(ctx, 1, 10, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.ClearCart(ctx, 1, "token")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, before+4, len(env.checker.calls))

	env.checker.missing[1] = false
	unchanged, err := env.svc.GetOrCreateCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, unchanged.Items, 1)
	assert.Equal(t, 2, unchanged.Items[0].Quantity)
}
