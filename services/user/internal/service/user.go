package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/duodeal/backend/pkg/events"
	pkg_hash "github.com/duodeal/backend/pkg/hash"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/pkg/tokens"
	"github.com/duodeal/backend/services/user/internal/models"
	"github.com/duodeal/backend/services/user/internal/repo"
	"github.com/duodeal/backend/services/user/internal/transport"
)

// ProductBulkDeleter removes every product owned by a user. The HTTP
// adapter lives in pkg/productclient; tests plug in fakes.
type ProductBulkDeleter interface {
	DeleteProductsByUser(ctx context.Context, userID uint, token string) error
}

type UserService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
	Products  ProductBulkDeleter
	Events    *events.Producer
}

func (s *UserService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return tokens.DefaultTTL
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Login checks the credentials against the stored hash and issues the
// signed login token. The token carries sub=username and rol=role name.
func (s *UserService) Login(ctx context.Context, mail, password string) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "user.login")

	if strings.TrimSpace(mail) == "" {
		return nil, fmt.Errorf("el mail de usuario no puede estar vacío: %w", ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("la contraseña no puede estar vacía: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByCorreo(ctx, normalize(mail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown mail")
			return nil, fmt.Errorf("credenciales inválidas: %w", ErrUnauthenticated)
		}
		return nil, err
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch", "username", user.Username)
		return nil, fmt.Errorf("credenciales inválidas: %w", ErrUnauthenticated)
	}

	if user.Rol == nil {
		l.Error("login_failed", "status", 500, "reason", "user has no role", "username", user.Username)
		return nil, fmt.Errorf("el usuario no tiene un rol asignado: %w", ErrInvalidState)
	}

	token, err := tokens.Issue(user.Username, user.Rol.Nombre, s.JWTSecret, s.tokenTTL())
	if err != nil {
		return nil, err
	}

	l.Info("login_success", "username", user.Username, "rol", user.Rol.Nombre)
	return &transport.AuthResponse{
		Username: user.Username,
		Rol:      user.Rol.Nombre,
		Mensaje:  "Inicio de sesión exitoso",
		Token:    token,
	}, nil
}

func (s *UserService) ChangePassword(ctx context.Context, req transport.ChangePasswordRequest) error {
	if req.ContrasenaNueva != req.ConfirmarContrasena {
		return fmt.Errorf("las contraseñas nuevas no coinciden: %w", ErrValidation)
	}
	if len(req.ContrasenaNueva) < 6 {
		return fmt.Errorf("la nueva contraseña debe tener al menos 6 caracteres: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
		}
		return err
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, req.ContrasenaActual) {
		return fmt.Errorf("la contraseña actual es incorrecta: %w", ErrValidation)
	}

	newHash, err := pkg_hash.HashPassword(req.ContrasenaNueva)
	if err != nil {
		return err
	}
	user.PasswordHash = newHash
	return s.Repo.SaveUser(ctx, user)
}

func (s *UserService) ChangeUsername(ctx context.Context, id uint, nuevoUsername string) (*models.User, error) {
	nuevoUsername = normalize(nuevoUsername)
	if nuevoUsername == "" {
		return nil, fmt.Errorf("el nombre de usuario no puede estar vacío: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
		}
		return nil, err
	}

	if user.Username != nuevoUsername {
		taken, err := s.Repo.ExistsByUsername(ctx, nuevoUsername)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("el nombre de usuario %s ya está en uso: %w", nuevoUsername, ErrConflict)
		}
	}

	user.Username = nuevoUsername
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("ID de usuario inválido: %w", ErrValidation)
	}
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserIDByUsername(ctx context.Context, username string) (uint, error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
		}
		return 0, err
	}
	return user.ID, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) ListRoles(ctx context.Context) ([]models.Rol, error) {
	return s.Repo.ListRoles(ctx)
}

func (s *UserService) CreateUser(ctx context.Context, username, password, correo string, rolID uint) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("el nombre de usuario no puede estar vacío: %w", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("la contraseña debe tener al menos 6 caracteres: %w", ErrValidation)
	}
	if !strings.Contains(correo, "@") {
		return nil, fmt.Errorf("el correo electrónico no es válido: %w", ErrValidation)
	}
	if rolID == 0 {
		return nil, fmt.Errorf("el ID del rol no es válido: %w", ErrValidation)
	}

	username = normalize(username)
	correo = normalize(correo)

	if taken, err := s.Repo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("el nombre de usuario %s ya está en uso: %w", username, ErrConflict)
	}
	if taken, err := s.Repo.ExistsByCorreo(ctx, correo); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("el correo %s ya está en uso: %w", correo, ErrConflict)
	}

	role, err := s.Repo.GetRoleByID(ctx, rolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rol no encontrado con ID %d: %w", rolID, ErrValidation)
		}
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Correo:       correo,
		RolID:        role.ID,
		Rol:          role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("ID de usuario inválido: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("usuario no encontrado con ID %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("el nombre de usuario no puede estar vacío: %w", ErrValidation)
	}
	if !strings.Contains(req.Correo, "@") {
		return nil, fmt.Errorf("el correo electrónico no es válido: %w", ErrValidation)
	}

	newUsername := normalize(req.Username)
	newCorreo := normalize(req.Correo)

	if user.Correo != newCorreo {
		if taken, err := s.Repo.ExistsByCorreo(ctx, newCorreo); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("el correo %s ya está en uso: %w", newCorreo, ErrConflict)
		}
	}
	if user.Username != newUsername {
		if taken, err := s.Repo.ExistsByUsername(ctx, newUsername); err != nil {
			return nil, err
		} else if taken {
			return nil, fmt.Errorf("el nombre de usuario %s ya está en uso: %w", newUsername, ErrConflict)
		}
	}

	if req.Rol.ID == 0 {
		return nil, fmt.Errorf("el rol no es válido: %w", ErrValidation)
	}
	role, err := s.Repo.GetRoleByID(ctx, req.Rol.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rol no encontrado con ID %d: %w", req.Rol.ID, ErrValidation)
		}
		return nil, err
	}

	user.Username = newUsername
	user.Correo = newCorreo
	if strings.TrimSpace(req.Password) != "" {
		if len(req.Password) < 6 {
			return nil, fmt.Errorf("la contraseña debe tener al menos 6 caracteres: %w", ErrValidation)
		}
		pwHash, err := pkg_hash.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}
	user.RolID = role.ID
	user.Rol = role

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser first asks the product service to drop everything the user
// owns, forwarding the caller's token. That call is best effort: any
// failure is logged and the user row is deleted anyway, so a peer outage
// can leave orphaned products behind. Product deletion is attempted
// strictly before the row goes away.
func (s *UserService) DeleteUser(ctx context.Context, id uint, token string) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	if id == 0 {
		return fmt.Errorf("ID de usuario inválido: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("el usuario con ID %d no existe: %w", id, ErrNotFound)
		}
		return err
	}

	if err := s.Products.DeleteProductsByUser(ctx, id, token); err != nil {
		l.Warn("cascade_product_delete_failed", "error", err)
	}

	if err := s.Repo.DeleteUserByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("el usuario con ID %d no existe: %w", id, ErrNotFound)
		}
		return err
	}

	event := map[string]any{
		"type":     "user_deleted",
		"userID":   id,
		"username": user.Username,
	}
	if err := s.Events.PublishEvent(ctx, "user_events", fmt.Sprint(id), event); err != nil {
		l.Error("publish_user_deleted_failed", "error", err)
	}

	l.Info("user_deleted")
	return nil
}
