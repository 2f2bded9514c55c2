package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shoplane-io/shoplane-api/internal/model"
)

type messageResponse struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

// userResponse is the safe projection of an account returned to clients.
// The credential hash and OTP fields are never included.
type userResponse struct {
	ID           string `json:"_id"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
	IsVerified   bool   `json:"isVerified"`
}

func newUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:           user.ID.Hex(),
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		ProfileImage: user.ProfileImage,
		IsVerified:   user.Verified,
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}
