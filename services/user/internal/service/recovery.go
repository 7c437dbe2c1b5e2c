package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	pkg_hash "github.com/duodeal/backend/pkg/hash"
	"github.com/duodeal/backend/pkg/logging"
	"github.com/duodeal/backend/services/user/internal/models"
	"github.com/duodeal/backend/services/user/internal/repo"
)

const resetCodeTTL = 10 * time.Minute

// Mailer delivers the recovery code. The SMTP adapter lives in pkg/mail.
type Mailer interface {
	Send(to, subject, body string) error
}

type RecoveryService struct {
	Repo   *repo.GormRepo
	Mailer Mailer
}

// GenerateCode returns a recovery code, uniform in [10000, 99999].
func GenerateCode() string {
	return fmt.Sprintf("%d", 10000+rand.IntN(90000))
}

// RequestReset records a fresh recovery code for the mail and sends it.
// Codes expire after ten minutes; the latest record per mail wins.
func (s *RecoveryService) RequestReset(ctx context.Context, correo string) error {
	l := logging.FromContext(ctx).With("svc", "recovery.request")

	correo = normalize(correo)
	if correo == "" {
		return fmt.Errorf("el correo no puede estar vacío: %w", ErrValidation)
	}

	if _, err := s.Repo.GetUserByCorreo(ctx, correo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
		}
		return err
	}

	now := time.Now().UTC()
	reset := models.PasswordReset{
		Email:        correo,
		CreatedAt:    now,
		ExpiresAt:    now.Add(resetCodeTTL),
		RecoveryCode: GenerateCode(),
	}
	if err := s.Repo.CreateReset(ctx, &reset); err != nil {
		return err
	}

	body := fmt.Sprintf("<p>Tu código de recuperación es <b>%s</b>. Expira en 10 minutos.</p>", reset.RecoveryCode)
	if err := s.Mailer.Send(correo, "Recuperación de contraseña", body); err != nil {
		l.Error("send_recovery_mail_failed", "error", err)
		return fmt.Errorf("no se pudo enviar el correo: %w", err)
	}

	l.Info("recovery_code_sent")
	return nil
}

// ConfirmReset validates the (mail, code) pair against the newest record
// and rewrites the user's password hash. Codes stay reusable until they
// expire; there is no consumed flag.
func (s *RecoveryService) ConfirmReset(ctx context.Context, correo, codigo, nueva, confirmar string) error {
	correo = normalize(correo)

	if nueva != confirmar {
		return fmt.Errorf("las contraseñas nuevas no coinciden: %w", ErrValidation)
	}
	if len(nueva) < 6 {
		return fmt.Errorf("la nueva contraseña debe tener al menos 6 caracteres: %w", ErrValidation)
	}

	reset, err := s.Repo.GetResetByEmailAndCode(ctx, correo, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("código de recuperación inválido: %w", ErrValidation)
		}
		return err
	}
	if time.Now().UTC().After(reset.ExpiresAt) {
		return fmt.Errorf("el código de recuperación ha expirado: %w", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(nueva)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePasswordByCorreo(ctx, correo, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
		}
		return err
	}
	return nil
}
