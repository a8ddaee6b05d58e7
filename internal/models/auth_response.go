package models

import (
	"time"

	"slice-url/internal/entities"
)

// AuthResponse represents the user returned after successful authentication
type AuthResponse struct {
	UserID      string            `json:"_id"`
	Email       string            `json:"email"`
	Username    string            `json:"username"`
	FullName    string            `json:"fullName"`
	AuthType    entities.AuthType `json:"authType"`
	CreatedAt   time.Time         `json:"createdAt"`
	AccessToken string            `json:"accessToken"`
}

// NewAuthResponse builds the login payload for a user and its signed token.
func NewAuthResponse(user *entities.User, token string) *AuthResponse {
	return &AuthResponse{
		UserID:      user.ID,
		Email:       user.Email,
		Username:    user.Username,
		FullName:    user.FullName,
		AuthType:    user.AuthType,
		CreatedAt:   user.CreatedAt,
		AccessToken: token,
	}
}
