package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkg_hash "github.com/duodeal/backend/pkg/hash"
	"github.com/duodeal/backend/pkg/tokens"
	"github.com/duodeal/backend/services/user/internal/models"
	"github.com/duodeal/backend/services/user/internal/repo"
	"github.com/duodeal/backend/services/user/internal/transport"
)

type fakeDeleter struct {
	calls []uint
	err   error
}

func (f *fakeDeleter) DeleteProductsByUser(_ context.Context, userID uint, _ string) error {
	f.calls = append(f.calls, userID)
	return f.err
}

type userEnv struct {
	db      *gorm.DB
	rp      *repo.GormRepo
	svc     *UserService
	deleter *fakeDeleter
	userRol uint
}

func newUserEnv(t *testing.T) *userEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Rol{}, &models.User{}, &models.PasswordReset{}))

	rp := &repo.GormRepo{DB: db}
	ctx := context.Background()

	userRol := &models.Rol{Nombre: "USER"}
	require.NoError(t, rp.CreateRole(ctx, userRol))

	deleter := &fakeDeleter{}
	return &userEnv{
		db:      db,
		rp:      rp,
		deleter: deleter,
		userRol: userRol.ID,
		svc: &UserService{
			Repo:      rp,
			JWTSecret: []byte("test-jwt-secret"),
			Products:  deleter,
		},
	}
}

func (e *userEnv) createUser(t *testing.T, username, password, correo string) *models.User {
	t.Helper()
	user, err := e.svc.CreateUser(context.Background(), username, password, correo, e.userRol)
	require.NoError(t, err)
	return user
}

func TestUserService_CreateUser_Success(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	user := env.createUser(t, "Cliente", "cliente123", "Cliente@Gmail.com")

	assert.NotZero(t, user.ID)
	assert.Equal(t, "cliente", user.Username)
	assert.Equal(t, "cliente@gmail.com", user.Correo)
	require.NotNil(t, user.Rol)
	assert.Equal(t, "USER", user.Rol.Nombre)
	assert.True(t, pkg_hash.CheckPassword(user.PasswordHash, "cliente123"))
}

func TestUserService_CreateUser_Validation(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		correo   string
		rolID    uint
	}{
		{name: "empty username", username: "", password: "secret1", correo: "a@b.com", rolID: env.userRol},
		{name: "short password", username: "user", password: "12345", correo: "a@b.com", rolID: env.userRol},
		{name: "bad mail", username: "user", password: "secret1", correo: "no-arroba", rolID: env.userRol},
		{name: "zero role", username: "user", password: "secret1", correo: "a@b.com", rolID: 0},
		{name: "unknown role", username: "user", password: "secret1", correo: "a@b.com", rolID: 999},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			user, err := env.svc.CreateUser(ctx, tt.username, tt.password, tt.correo, tt.rolID)
			require.Error(t, err)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_CreateUser_Conflict(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	ctx := context.Background()
	env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")

	_, err := env.svc.CreateUser(ctx, "cliente", "otra123", "otro@gmail.com", env.userRol)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.CreateUser(ctx, "otro", "otra123", "cliente@gmail.com", env.userRol)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_Login_Success_IssuesToken(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")

	res, err := env.svc.Login(context.Background(), "Cliente@Gmail.com", "cliente123")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "cliente", res.Username)
	assert.Equal(t, "USER", res.Rol)
	assert.Equal(t, "Inicio de sesión exitoso", res.Mensaje)
	require.NotEmpty(t, res.Token)

	tr := tokens.Validate(res.Token, env.svc.JWTSecret)
	require.True(t, tr.Valid())
	assert.Equal(t, "cliente", tr.Claims.Subject)
	assert.Equal(t, "USER", tr.Claims.Role)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")
	ctx := context.Background()

	res, err := env.svc.Login(ctx, "cliente@gmail.com", "wrong-pass")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	res, err = env.svc.Login(ctx, "nadie@gmail.com", "cliente123")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_Login_UserWithoutRole(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	ctx := context.Background()

	pwHash, err := pkg_hash.HashPassword("cliente123")
	require.NoError(t, err)
	require.NoError(t, env.db.Exec(
		"INSERT INTO usuarios (username, password_hash, correo, rol_id) VALUES (?, ?, ?, 0)",
		"sinrol", pwHash, "sinrol@gmail.com").Error)

	res, err := env.svc.Login(ctx, "sinrol@gmail.com", "cliente123")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")
	ctx := context.Background()

	err := env.svc.ChangePassword(ctx, transport.ChangePasswordRequest{
		Username:            "cliente",
		ContrasenaActual:    "wrong",
		ContrasenaNueva:     "nueva123",
		ConfirmarContrasena: "nueva123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	err = env.svc.ChangePassword(ctx, transport.ChangePasswordRequest{
		Username:            "cliente",
		ContrasenaActual:    "cliente123",
		ContrasenaNueva:     "nueva123",
		ConfirmarContrasena: "otra123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	err = env.svc.ChangePassword(ctx, transport.ChangePasswordRequest{
		Username:            "cliente",
		ContrasenaActual:    "cliente123",
		ContrasenaNueva:     "nueva123",
		ConfirmarContrasena: "nueva123",
	})
	require.NoError(t, err)

	_, err = env.svc.Login(ctx, "cliente@gmail.com", "nueva123")
	require.NoError(t, err)
}

func TestUserService_ChangeUsername_Conflict(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")
	other := env.createUser(t, "vendedor", "vendedor123", "vendedor@gmail.com")

	_, err := env.svc.ChangeUsername(context.Background(), other.ID, "cliente")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	updated, err := env.svc.ChangeUsername(context.Background(), other.ID, "dealer")
	require.NoError(t, err)
	assert.Equal(t, "dealer", updated.Username)
}

func TestUserService_UpdateUser_KeepsPasswordWhenEmpty(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	user := env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")
	ctx := context.Background()

	updated, err := env.svc.UpdateUser(ctx, user.ID, transport.UpdateUserRequest{
		Username: "cliente2",
		Correo:   "cliente2@gmail.com",
		Rol:      transport.RolRef{ID: env.userRol},
	})
	require.NoError(t, err)
	assert.Equal(t, "cliente2", updated.Username)
	assert.Equal(t, "cliente2@gmail.com", updated.Correo)

	_, err = env.svc.Login(ctx, "cliente2@gmail.com", "cliente123")
	require.NoError(t, err)
}

func TestUserService_DeleteUser_CascadesBeforeDelete(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	user := env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")

	err := env.svc.DeleteUser(context.Background(), user.ID, "some-token")
	require.NoError(t, err)

	require.Len(t, env.deleter.calls, 1)
	assert.Equal(t, user.ID, env.deleter.calls[0])

	_, err = env.svc.GetUser(context.Background(), user.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_DeleteUser_SurvivesCascadeFailure(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)
	user := env.createUser(t, "cliente", "cliente123", "cliente@gmail.com")
	env.deleter.err = errors.New("product service unavailable")

	err := env.svc.DeleteUser(context.Background(), user.ID, "some-token")
	require.NoError(t, err)

	require.Len(t, env.deleter.calls, 1)
	_, err = env.svc.GetUser(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	t.Parallel()

	env := newUserEnv(t)

	err := env.svc.DeleteUser(context.Background(), 4242, "some-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, env.deleter.calls)
}
