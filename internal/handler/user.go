package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shoplane-io/shoplane-api/internal/usecase"
	"github.com/shoplane-io/shoplane-api/shared/validator"
)

// UpdateProfileRequest carries the allow-listed mutable profile fields.
// Anything else in the body is ignored.
type UpdateProfileRequest struct {
	FirstName    *string    `json:"firstName"`
	LastName     *string    `json:"lastName"`
	DOB          *time.Time `json:"dob"`
	Gender       *string    `json:"gender"`
	Experience   *string    `json:"experience"`
	ProfileImage *string    `json:"profileImage"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// UserHandler exposes profile and role administration over HTTP.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.Validator
	logger      *zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUsecase usecase.UserUsecase, v *validator.Validator, logger *zerolog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   v,
		logger:      logger,
	}
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), chi.URLParam(r, "id"), usecase.UpdateProfileParams{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DOB:          req.DOB,
		Gender:       req.Gender,
		Experience:   req.Experience,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    newUserResponse(user),
	})
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userUsecase.UpdateRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Role updated successfully",
		"user":    newUserResponse(user),
	})
}

func (h *UserHandler) respondUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, usecase.ErrInvalidRole):
		respondMessage(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("user request failed")
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
