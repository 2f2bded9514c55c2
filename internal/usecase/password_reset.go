package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shoplane-io/shoplane-api/internal/config"
	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
	"github.com/shoplane-io/shoplane-api/shared/mailer"
	"github.com/shoplane-io/shoplane-api/shared/security"
)

// PasswordResetUsecase defines the business logic for the credential
// recovery lifecycle.
type PasswordResetUsecase interface {
	// RequestPasswordReset issues a reset OTP and mails it to the account.
	RequestPasswordReset(ctx context.Context, email string) error

	// VerifyResetOTP checks a reset code without consuming it, so a client
	// can confirm the code before committing to a new password.
	VerifyResetOTP(ctx context.Context, email, code string) error

	// ResetPassword replaces the credential after re-checking the code, and
	// clears the reset OTP in the same write.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	mailer   mailer.Sender
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	mailSender mailer.Sender,
	cfg *config.Config,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		mailer:   mailSender,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	code, expiresAt, err := generateOTP(u.cfg.OTP.ExpiresIn)
	if err != nil {
		return err
	}

	// Reissuance overwrites any outstanding reset code.
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ResetOTP:        &code,
		ResetOTPExpires: &expiresAt,
	}); err != nil {
		return err
	}

	htmlBody := fmt.Sprintf(
		"<p>Your password reset OTP is <b>%s</b>. It expires in %d minutes.</p>",
		code,
		int(u.cfg.OTP.ExpiresIn.Minutes()),
	)

	if err := u.mailer.SendHTML([]string{user.Email}, "Password Reset OTP", htmlBody); err != nil {
		return fmt.Errorf("%w: %s", ErrMailDelivery, err)
	}

	return nil
}

func (u *passwordResetUsecase) VerifyResetOTP(ctx context.Context, email, code string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	return checkResetOTP(user, code)
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if err := checkResetOTP(user, code); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash:  &passwordHash,
		ClearResetOTP: true,
	}); err != nil {
		return err
	}

	return nil
}

// checkResetOTP applies the reset code checks in their fixed order: match
// before expiry, so a wrong code is reported as invalid even when the
// stored code has also expired.
func checkResetOTP(user *model.User, code string) error {
	if user.ResetOTP == "" || user.ResetOTP != code {
		return ErrInvalidOTP
	}

	if !user.ResetOTPExpires.After(time.Now()) {
		return ErrOTPExpired
	}

	return nil
}
