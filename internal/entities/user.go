package entities

import "time"

// AuthType records how an account signs in. It never changes after creation.
type AuthType string

const (
	AuthTypePassword AuthType = "email+password"
	AuthTypeGoogle   AuthType = "google"
	AuthTypeGitHub   AuthType = "github"
)

// IsSocial reports whether the account is managed by an external identity provider.
func (a AuthType) IsSocial() bool {
	return a == AuthTypeGoogle || a == AuthTypeGitHub
}

// User represents a user entity in the database
type User struct {
	ID                       string    `json:"_id"`
	Email                    string    `json:"email"`
	Username                 string    `json:"username"`
	FullName                 string    `json:"fullName"`
	PasswordHash             string    `json:"-"` // Don't expose password hash in JSON
	AuthType                 AuthType  `json:"authType"`
	IsAccountConfirmed       bool      `json:"isAccountConfirmed"`
	AccountConfirmationToken string    `json:"-"`
	CreatedAt                time.Time `json:"createdAt"`
}
