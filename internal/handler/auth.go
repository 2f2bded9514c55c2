package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shoplane-io/shoplane-api/internal/usecase"
	"github.com/shoplane-io/shoplane-api/shared/validator"
)

// RegisterRequest is the registration body. A role field sent by the client
// is deliberately not read: accounts always start as plain users, and role
// changes go through the admin endpoint.
type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,notblank"`
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName"  validate:"required,notblank"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	OTP         string `json:"otp"         validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	GoogleID  string `json:"googleId"`
	IDToken   string `json:"idToken"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// AuthHandler exposes the verification and credential-recovery lifecycle
// over HTTP.
type AuthHandler struct {
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	validator            *validator.Validator
	logger               *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	v *validator.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		validator:            v,
		logger:               logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	// The password is stored exactly as typed; trimming it here would
	// diverge from what login compares against.
	result, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	})
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	message := "OTP sent to email"
	if result.Resent {
		message = "User already exists but not verified. New OTP sent."
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: message, Email: result.Email})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authUsecase.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		// The verify flow reports every failure as 400, including an
		// unknown email.
		switch {
		case errors.Is(err, usecase.ErrUserNotFound),
			errors.Is(err, usecase.ErrAlreadyVerified),
			errors.Is(err, usecase.ErrInvalidOTP),
			errors.Is(err, usecase.ErrOTPExpired):
			respondMessage(w, http.StatusBadRequest, err.Error())
		default:
			h.respondInternal(w, err, "OTP verification failed")
		}
		return
	}

	respondMessage(w, http.StatusOK, "Email verified successfully!")
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authUsecase.ResendOTP(r.Context(), req.Email); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "OTP resent successfully")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "OTP sent to your email")
}

func (h *AuthHandler) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.passwordResetUsecase.VerifyResetOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "OTP verified")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.passwordResetUsecase.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password reset successful")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound),
			errors.Is(err, usecase.ErrInvalidCredentials):
			respondMessage(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, usecase.ErrUserNotVerified):
			// Unverified is distinct from bad credentials: the client fixes
			// it with verify-otp, not with another password.
			respondMessage(w, http.StatusForbidden, err.Error())
		default:
			h.respondInternal(w, err, "login failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User:  newUserResponse(result.User),
	})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authUsecase.GoogleLogin(r.Context(), usecase.GoogleLoginParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GoogleID:  req.GoogleID,
		IDToken:   req.IDToken,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidIDToken) {
			respondMessage(w, http.StatusUnauthorized, err.Error())
			return
		}

		h.respondInternal(w, err, "google login failed")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User:  newUserResponse(result.User),
	})
}

func (h *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// respondAuthError maps lifecycle sentinel errors onto the HTTP contract
// shared by the resend and password-recovery routes.
func (h *AuthHandler) respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrEmailAlreadyRegistered),
		errors.Is(err, usecase.ErrAlreadyVerified),
		errors.Is(err, usecase.ErrInvalidOTP),
		errors.Is(err, usecase.ErrOTPExpired):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrMailDelivery):
		// The account and OTP are already committed; the client recovers
		// with resend-otp rather than re-registering.
		h.logger.Error().Err(err).Msg("mail delivery failed")
		respondMessage(w, http.StatusInternalServerError, "failed to send email")
	default:
		h.respondInternal(w, err, "request failed")
	}
}

func (h *AuthHandler) respondInternal(w http.ResponseWriter, err error, msg string) {
	h.logger.Error().Err(err).Msg(msg)
	respondMessage(w, http.StatusInternalServerError, "Internal server error")
}
