package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/duodeal/backend/pkg/tokens"
	cartmodels "github.com/duodeal/backend/services/cart/internal/models"
	cartrepo "github.com/duodeal/backend/services/cart/internal/repo"
	cartsvc "github.com/duodeal/backend/services/cart/internal/service"
	carttransport "github.com/duodeal/backend/services/cart/internal/transport"
	productmodels "github.com/duodeal/backend/services/product/internal/models"
	productrepo "github.com/duodeal/backend/services/product/internal/repo"
	productsvc "github.com/duodeal/backend/services/product/internal/service"
	producttransport "github.com/duodeal/backend/services/product/internal/transport"
	usermodels "github.com/duodeal/backend/services/user/internal/models"
	userrepo "github.com/duodeal/backend/services/user/internal/repo"
	usersvc "github.com/duodeal/backend/services/user/internal/service"
)

// productDeleter and userChecker replace the HTTP peer clients with
// direct service calls, so the three services run the real cross-service
// flow against their own databases.
type productDeleter struct {
	svc *productsvc.ProductService
	err error
}

func (d *productDeleter) DeleteProductsByUser(ctx context.Context, userID uint, _ string) error {
	if d.err != nil {
		return d.err
	}
	_, err := d.svc.DeleteProductsByUser(ctx, userID)
	return err
}

type userChecker struct {
	svc *usersvc.UserService
}

func (c *userChecker) UserExists(ctx context.Context, userID uint, _ string) error {
	_, err := c.svc.GetUser(ctx, userID)
	return err
}

type flowEnv struct {
	users    *usersvc.UserService
	products *productsvc.ProductService
	carts    *cartsvc.CartService
	deleter  *productDeleter
	userRol  uint
}

func openDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(migrate...))
	return db
}

func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()

	userDB := openDB(t, &usermodels.Rol{}, &usermodels.User{}, &usermodels.PasswordReset{})
	productDB := openDB(t, &productmodels.Product{})
	cartDB := openDB(t, &cartmodels.Cart{}, &cartmodels.CartItem{})

	urp := &userrepo.GormRepo{DB: userDB}
	rol := &usermodels.Rol{Nombre: "USER"}
	require.NoError(t, urp.CreateRole(context.Background(), rol))

	users := &usersvc.UserService{
		Repo:      urp,
		JWTSecret: []byte("test-jwt-secret"),
	}
	checker := &userChecker{svc: users}

	products := &productsvc.ProductService{
		Repo:  &productrepo.GormRepo{DB: productDB},
		Users: checker,
	}

	deleter := &productDeleter{svc: products}
	users.Products = deleter

	carts := &cartsvc.CartService{
		Repo:  &cartrepo.GormRepo{DB: cartDB},
		Users: checker,
	}

	return &flowEnv{users: users, products: products, carts: carts, deleter: deleter, userRol: rol.ID}
}

func TestUserProductCartLifecycle(t *testing.T) {
	t.Parallel()

	env := newFlowEnv(t)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, "cliente", "cliente123", "cliente@gmail.com", env.userRol)
	require.NoError(t, err)

	login, err := env.users.Login(ctx, "cliente@gmail.com", "cliente123")
	require.NoError(t, err)
	tr := tokens.Validate(login.Token, env.users.JWTSecret)
	require.True(t, tr.Valid())
	require.Equal(t, "cliente", tr.Claims.Subject)
	token := login.Token

	mouse, err := env.products.CreateProduct(ctx, producttransport.CreateProductRequest{
		UserID: user.ID,
		Token:  token,
		Name:   "Mouse",
		Price:  15,
		Stock:  4,
	})
	require.NoError(t, err)

	teclado, err := env.products.CreateProduct(ctx, producttransport.CreateProductRequest{
		UserID: user.ID,
		Token:  token,
		Name:   "Teclado",
		Price:  40,
		Stock:  2,
	})
	require.NoError(t, err)

	cart, err := env.carts.AddItem(ctx, carttransport.AddItemRequest{
		UserID:    user.ID,
		ProductID: mouse.ID,
		Quantity:  2,
		Token:     token,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	cart, err = env.carts.AddItem(ctx, carttransport.AddItemRequest{
		UserID:    user.ID,
		ProductID: teclado.ID,
		Quantity:  1,
		Token:     token,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	cart, err = env.carts.UpdateItemQuantity(ctx, user.ID, cart.Items[0].ID, 3, token)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	cart, err = env.carts.RemoveItem(ctx, user.ID, teclado.ID, token)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	cart, err = env.carts.ClearCart(ctx, user.ID, token)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.NoError(t, env.users.DeleteUser(ctx, user.ID, token))

	remaining, err := env.products.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = env.users.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, usersvc.ErrNotFound)

	// The user is gone, so cart mutations on their behalf now fail.
	_, err = env.carts.AddItem(ctx, carttransport.AddItemRequest{
		UserID:    user.ID,
		ProductID: mouse.ID,
		Quantity:  1,
		Token:     token,
	})
	assert.ErrorIs(t, err, cartsvc.ErrNotFound)
}

func TestUserDeletion_SurvivesProductServiceOutage(t *testing.T) {
	t.Parallel()

	env := newFlowEnv(t)
	ctx := context.Background()

	user, err := env.users.CreateUser(ctx, "vendedor", "vendedor123", "vendedor@gmail.com", env.userRol)
	require.NoError(t, err)

	_, err = env.products.CreateProduct(ctx, producttransport.CreateProductRequest{
		UserID: user.ID,
		Name:   "Monitor",
		Price:  120,
		Stock:  1,
	})
	require.NoError(t, err)

	env.deleter.err = errors.New("product service unavailable")

	require.NoError(t, env.users.DeleteUser(ctx, user.ID, "token"))

	_, err = env.users.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, usersvc.ErrNotFound)

	// The orphaned product stays behind, best effort means exactly that.
	remaining, err := env.products.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
