package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shoplane-io/shoplane-api/internal/config"
	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
	"github.com/shoplane-io/shoplane-api/shared/auth"
	"github.com/shoplane-io/shoplane-api/shared/mailer"
	"github.com/shoplane-io/shoplane-api/shared/provider"
	"github.com/shoplane-io/shoplane-api/shared/security"
)

// AuthUsecase defines the interface for the account verification lifecycle
// and login.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*RegisterResult, error)
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
	GoogleLogin(ctx context.Context, params GoogleLoginParams) (*LoginResult, error)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegisterResult reports which registration branch ran. Resent is true when
// an unverified account already existed and its code was reissued.
type RegisterResult struct {
	Email  string
	Resent bool
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// GoogleLoginParams defines the parameters for federated login. IDToken is
// optional; when present and a client ID is configured it is validated with
// Google and its subject and email take precedence over the other fields.
type GoogleLoginParams struct {
	Email     string
	FirstName string
	LastName  string
	GoogleID  string
	IDToken   string
}

// LoginResult carries the issued bearer token and the authenticated account.
type LoginResult struct {
	Token string
	User  *model.User
}

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrAlreadyVerified        = errors.New("email already verified")
	ErrInvalidOTP             = errors.New("invalid OTP")
	ErrOTPExpired             = errors.New("OTP expired")
	ErrUserNotVerified        = errors.New("email not verified")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidIDToken         = errors.New("invalid google ID token")

	// ErrMailDelivery marks a delivery failure after the account and OTP
	// were already persisted. The caller recovers via resend, not retry.
	ErrMailDelivery = errors.New("failed to deliver email")
)

type authUsecase struct {
	userRepo repository.UserRepository
	mailer   mailer.Sender
	google   *provider.GoogleOAuthProvider
	jwtAuth  auth.JWTAuthenticator
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase. google may be nil
// when no client ID is configured.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	mailSender mailer.Sender,
	google *provider.GoogleOAuthProvider,
	jwtAuth auth.JWTAuthenticator,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		mailer:   mailSender,
		google:   google,
		jwtAuth:  jwtAuth,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	existing, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if existing != nil {
		if existing.Verified {
			return nil, ErrEmailAlreadyRegistered
		}

		// Unverified account: reissue the code on the existing document.
		code, expiresAt, err := generateOTP(u.cfg.OTP.ExpiresIn)
		if err != nil {
			return nil, err
		}

		if _, err := u.userRepo.UpdateUser(ctx, existing.ID.Hex(), repository.UpdateUserParams{
			OTP:          &code,
			OTPExpiresAt: &expiresAt,
		}); err != nil {
			return nil, err
		}

		if err := u.sendVerificationOTP(params.Email, code, u.cfg.OTP.ExpiresIn); err != nil {
			return nil, err
		}

		return &RegisterResult{Email: params.Email, Resent: true}, nil
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	code, expiresAt, err := generateOTP(u.cfg.OTP.ExpiresIn)
	if err != nil {
		return nil, err
	}

	_, err = u.userRepo.CreateUser(ctx, &model.User{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Email:        params.Email,
		PasswordHash: passwordHash,
		Verified:     false,
		OTP:          code,
		OTPExpiresAt: expiresAt,
		Role:         model.RoleUser,
		AuthType:     model.AuthTypeLocal,
	})
	if err != nil {
		// Two concurrent registrations race here; the unique index picks the
		// loser, which sees the same outcome as a sequential duplicate.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyRegistered
		}

		return nil, err
	}

	if err := u.sendVerificationOTP(params.Email, code, u.cfg.OTP.ExpiresIn); err != nil {
		return nil, err
	}

	return &RegisterResult{Email: params.Email}, nil
}

// VerifyOTP consumes a submitted code. The checks run in a fixed order:
// existence, already-verified, code match, expiry. A wrong code reports
// ErrInvalidOTP even when the stored code is also expired.
func (u *authUsecase) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	if user.OTP == "" || user.OTP != code {
		return ErrInvalidOTP
	}

	if !user.OTPExpiresAt.After(time.Now()) {
		return ErrOTPExpired
	}

	verified := true
	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		Verified:             &verified,
		ClearVerificationOTP: true,
	}); err != nil {
		return err
	}

	return nil
}

func (u *authUsecase) ResendOTP(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	code, expiresAt, err := generateOTP(u.cfg.OTP.ResendExpiresIn)
	if err != nil {
		return err
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		OTP:          &code,
		OTPExpiresAt: &expiresAt,
	}); err != nil {
		return err
	}

	if err := u.sendVerificationOTP(email, code, u.cfg.OTP.ResendExpiresIn); err != nil {
		if u.cfg.OTP.ResendBestEffort {
			u.logger.Error().Err(err).Str("email", email).Msg("resend delivery failed")
			return nil
		}

		return err
	}

	return nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	if !user.Verified {
		return nil, ErrUserNotVerified
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := u.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (u *authUsecase) GoogleLogin(ctx context.Context, params GoogleLoginParams) (*LoginResult, error) {
	if params.IDToken != "" && u.google != nil {
		tokenInfo, err := u.google.ValidateIDToken(ctx, params.IDToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidIDToken, err)
		}

		params.GoogleID = tokenInfo.UserId
		if tokenInfo.Email != "" {
			params.Email = tokenInfo.Email
		}
	}

	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		// The provider identifier fills the credential slot; it never
		// participates in password login, so it goes through the same
		// hashing boundary as a real secret.
		credential, err := security.HashPassword(params.GoogleID)
		if err != nil {
			return nil, err
		}

		user, err = u.userRepo.CreateUser(ctx, &model.User{
			FirstName:    params.FirstName,
			LastName:     params.LastName,
			Email:        params.Email,
			PasswordHash: credential,
			Verified:     true,
			Role:         model.RoleUser,
			AuthType:     model.AuthTypeGoogle,
		})
		if err != nil {
			// A concurrent login for the same new email may win the insert;
			// the account exists either way, so sign the loser in too.
			if !mongo.IsDuplicateKeyError(err) {
				return nil, err
			}

			user, err = u.userRepo.GetUserByEmail(ctx, params.Email)
			if err != nil {
				return nil, err
			}
		}
	}

	token, err := u.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (u *authUsecase) sendVerificationOTP(email, code string, expiresIn time.Duration) error {
	htmlBody := fmt.Sprintf(
		"<p>Your OTP is <b>%s</b>. It expires in %d minutes.</p>",
		code,
		int(expiresIn.Minutes()),
	)

	if err := u.mailer.SendHTML([]string{email}, "Verify Your Email", htmlBody); err != nil {
		return fmt.Errorf("%w: %s", ErrMailDelivery, err)
	}

	return nil
}

func (u *authUsecase) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := auth.AccessTokenClaims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.cfg.Token.ExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    u.cfg.Token.Issuer,
			Audience:  jwt.ClaimStrings{u.cfg.Token.Issuer},
		},
	}

	return u.jwtAuth.GenerateToken(claims, u.cfg.Token.Secret)
}
