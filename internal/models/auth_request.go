package models

// RegisterRequest represents the request body for user registration.
// Field rules are enforced by the auth service so that the first failing rule is reported.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SocialAuthRequest carries the identity provider's ID token.
type SocialAuthRequest struct {
	AccessToken string `json:"accessToken"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateAccountRequest represents the request body for a profile update
type UpdateAccountRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}
