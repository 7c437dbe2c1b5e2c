package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/services/user/internal/models"
	"github.com/duodeal/backend/services/user/internal/repo"
	"github.com/duodeal/backend/services/user/internal/service"
)

var roleNames = []string{"ADMIN", "USER", "DEALER"}

type demoUser struct {
	username string
	password string
	correo   string
	role     string
}

var demoUsers = []demoUser{
	{"admin", "admin123", "admin@gmail.com", "ADMIN"},
	{"cliente", "cliente123", "cliente@gmail.com", "USER"},
	{"vendedor", "vendedor123", "vendedor@gmail.com", "DEALER"},
}

// Seed creates the fixed role set and the demo accounts. It is guarded
// by existence checks so restarts are no-ops.
func Seed(ctx context.Context, r *repo.GormRepo, svc *service.UserService) error {
	l := logging.FromContext(ctx).With("svc", "bootstrap.seed")

	count, err := r.CountRoles(ctx)
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if count == 0 {
		for _, name := range roleNames {
			if err := r.CreateRole(ctx, &models.Rol{Nombre: name}); err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
		}
		l.Info("roles_seeded", "count", len(roleNames))
	}

	users, err := r.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) > 0 {
		return nil
	}

	for _, du := range demoUsers {
		role, err := r.GetRoleByNombre(ctx, du.role)
		if err != nil {
			return fmt.Errorf("role %s: %w", du.role, err)
		}
		if _, err := svc.CreateUser(ctx, du.username, du.password, du.correo, role.ID); err != nil {
			if errors.Is(err, service.ErrConflict) {
				continue
			}
			return fmt.Errorf("seed user %s: %w", du.username, err)
		}
	}
	l.Info("demo_users_seeded", "count", len(demoUsers))
	return nil
}
