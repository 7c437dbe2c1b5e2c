package repo

import (
	"context"

	"github.com/duodeal/backend/services/user/internal/models"
)

func (r *GormRepo) CreateReset(ctx context.Context, reset *models.PasswordReset) error {
	return r.DB.WithContext(ctx).Create(reset).Error
}

// GetResetByEmailAndCode returns the newest record matching the pair
// exactly; older records with the same code stay irrelevant.
func (r *GormRepo) GetResetByEmailAndCode(ctx context.Context, email, code string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.DB.WithContext(ctx).
		Where("email = ? AND recovery_code = ?", email, code).
		Order("created_at DESC").
		First(&reset).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *GormRepo) GetLatestResetByEmail(ctx context.Context, email string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&reset).Error
	if err != nil {
		return nil, err
	}
	return &reset, nil
}
