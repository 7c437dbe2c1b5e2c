package repo

import (
	"context"

	"github.com/duodeal/backend/services/user/internal/models"
)

func (r *GormRepo) ListRoles(ctx context.Context) ([]models.Rol, error) {
	var roles []models.Rol
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) GetRoleByID(ctx context.Context, id uint) (*models.Rol, error) {
	var role models.Rol
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) GetRoleByNombre(ctx context.Context, nombre string) (*models.Rol, error) {
	var role models.Rol
	if err := r.DB.WithContext(ctx).Where("nombre = ?", nombre).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) CountRoles(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Rol{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepo) CreateRole(ctx context.Context, role *models.Rol) error {
	return r.DB.WithContext(ctx).Create(role).Error
}
