package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sqids/sqids-go"

	"slice-url/internal/apperr"
	"slice-url/internal/entities"
	"slice-url/internal/identity"
	"slice-url/internal/mailer"
	"slice-url/internal/models"
	"slice-url/internal/repository"
)

const (
	minSocialTokenLength = 1000
	brokenConfirmMsg     = "Oops! You might have clicked on a broken URL"
	invalidCredentialMsg = "Invalid email or password"
	userNotFoundMsg      = "User not found"
	usernameAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// providerAuthTypes maps provider sign-in methods to account auth types
var providerAuthTypes = map[string]entities.AuthType{
	"google.com": entities.AuthTypeGoogle,
	"github.com": entities.AuthTypeGitHub,
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID, email string) (string, error)
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*entities.User, error)
	ConfirmAccount(ctx context.Context, username, token string) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	SocialAuth(ctx context.Context, accessToken string) (*models.AuthResponse, error)
	ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error
	UpdateAccount(ctx context.Context, userID string, req *models.UpdateAccountRequest) (*entities.User, error)
	GetUser(ctx context.Context, callerID, userID string) (*entities.User, error)
}

// AuthDeps groups the collaborators of the auth service
type AuthDeps struct {
	Users    repository.UserRepository
	Tokens   TokenIssuer
	Hasher   PasswordHasher
	Mailer   mailer.Mailer
	Verifier identity.Verifier
	// AppURL is the frontend origin that serves the confirmation page.
	AppURL string
	Logger *slog.Logger
}

type authService struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	hasher   PasswordHasher
	mailer   mailer.Mailer
	verifier identity.Verifier
	appURL   string
	logger   *slog.Logger
	sqids    *sqids.Sqids
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(deps AuthDeps) (AuthService, error) {
	alphabet := usernameAlphabet
	minLength := 6
	s, err := sqids.NewCustom(sqids.Options{
		Alphabet:  &alphabet,
		MinLength: &minLength,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init username encoder: %w", err)
	}

	return &authService{
		users:    deps.Users,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		mailer:   deps.Mailer,
		verifier: deps.Verifier,
		appURL:   strings.TrimRight(deps.AppURL, "/"),
		logger:   deps.Logger,
		sqids:    s,
		now:      time.Now,
	}, nil
}

// Register creates an unconfirmed account and mails its confirmation link.
// Nothing is stored when the mail cannot be sent.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*entities.User, error) {
	username := strings.ToLower(req.Username)

	switch {
	case isBlank(req.Email) || isBlank(req.Password) || isBlank(username) || isBlank(req.FullName):
		return nil, apperr.NewInvalidInput("All fields are required")
	case !isValidEmail(req.Email):
		return nil, apperr.NewInvalidInput("Invalid email format")
	case !isValidPassword(req.Password):
		return nil, apperr.NewInvalidInput("Password must be at least 6 characters long")
	case !isValidUsername(username):
		return nil, apperr.NewInvalidInput("Username must start with a letter and contain only lowercase letters, numbers and hyphens")
	case !isValidFullName(req.FullName):
		return nil, apperr.NewInvalidInput("Full name must be at least 4 characters long")
	}

	// Check if user already exists
	_, err := s.users.FindByEmailOrUsername(ctx, req.Email, username)
	if err == nil {
		return nil, apperr.NewConflict("Email or username already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NewInternal(fmt.Errorf("find user: %w", err))
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.NewInternal(err)
	}

	token, err := newConfirmationToken()
	if err != nil {
		return nil, apperr.NewInternal(err)
	}

	if err := s.mailer.SendConfirmation(ctx, req.Email, req.FullName, s.confirmationURL(username, token)); err != nil {
		s.logger.ErrorContext(ctx, "failed to send confirmation mail", "email", req.Email, "error", err)
		return nil, apperr.NewInternal(err)
	}

	user, err := s.users.Create(ctx, &entities.User{
		Email:                    req.Email,
		Username:                 username,
		FullName:                 req.FullName,
		PasswordHash:             hashed,
		AuthType:                 entities.AuthTypePassword,
		IsAccountConfirmed:       false,
		AccountConfirmationToken: token,
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperr.NewConflict("Email or username already exists")
	}
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("create user: %w", err))
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// ConfirmAccount confirms the account when token matches the stored one. Every failure
// reports the same message so callers cannot tell which part was wrong.
func (s *authService) ConfirmAccount(ctx context.Context, username, token string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if !isValidUsername(username) || isBlank(token) {
		return apperr.NewInvalidInput(brokenConfirmMsg)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NewInvalidInput(brokenConfirmMsg)
	}
	if err != nil {
		return apperr.NewInternal(fmt.Errorf("find user: %w", err))
	}

	if user.AccountConfirmationToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(user.AccountConfirmationToken)) != 1 {
		return apperr.NewInvalidInput(brokenConfirmMsg)
	}

	if err := s.users.Confirm(ctx, user.ID); err != nil {
		return apperr.NewInternal(fmt.Errorf("confirm user: %w", err))
	}

	s.logger.InfoContext(ctx, "account confirmed", "user_id", user.ID)
	return nil
}

// Login authenticates a password account and returns user info with a token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	switch {
	case isBlank(req.Email) || isBlank(req.Password):
		return nil, apperr.NewInvalidInput("Email & password are required")
	case !isValidEmail(req.Email):
		return nil, apperr.NewInvalidInput("Invalid email format")
	case !isValidPassword(req.Password):
		return nil, apperr.NewInvalidInput("Password must be at least 6 characters long")
	}

	// Find user by email
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NewUnauthorized(invalidCredentialMsg)
	}
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("find user: %w", err))
	}

	// Verify password
	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, apperr.NewUnauthorized(invalidCredentialMsg)
	}

	if !user.IsAccountConfirmed {
		return nil, apperr.NewForbidden("Your account is not confirmed. To log in, you must confirm your account. Please check your email inbox.")
	}

	return s.issue(user)
}

// SocialAuth signs in with a provider ID token, creating the account on first use
func (s *authService) SocialAuth(ctx context.Context, accessToken string) (*models.AuthResponse, error) {
	if len(strings.TrimSpace(accessToken)) < minSocialTokenLength {
		return nil, apperr.NewInvalidInput("Invalid access token. Please provide a valid access token.")
	}

	id, err := s.verifier.Verify(ctx, accessToken)
	if err != nil {
		s.logger.WarnContext(ctx, "id token rejected", "error", err)
		return nil, apperr.NewInvalidInput("Invalid token")
	}
	if id.Email == "" {
		return nil, apperr.NewInvalidInput("Invalid token")
	}

	authType, ok := providerAuthTypes[id.Provider]
	if !ok {
		return nil, apperr.NewInvalidInput(fmt.Sprintf("Sign-in provider %q is not supported", id.Provider))
	}

	user, err := s.users.FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if !user.AuthType.IsSocial() {
			return nil, apperr.NewConflict("Your email is associated with an account. Please login with your email & password")
		}
		if user.AuthType != authType {
			return nil, apperr.NewConflict(fmt.Sprintf("You have already an account. Try to login with %s", user.AuthType))
		}
	case errors.Is(err, repository.ErrNotFound):
		user, err = s.createSocialUser(ctx, id, authType)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperr.NewInternal(fmt.Errorf("find user: %w", err))
	}

	return s.issue(user)
}

func (s *authService) createSocialUser(ctx context.Context, id *identity.Identity, authType entities.AuthType) (*entities.User, error) {
	fullName := strings.TrimSpace(id.FullName)
	if fullName == "" {
		fullName, _, _ = strings.Cut(id.Email, "@")
	}

	username, err := s.socialUsername(fullName)
	if err != nil {
		return nil, apperr.NewInternal(err)
	}

	user, err := s.users.Create(ctx, &entities.User{
		Email:              id.Email,
		Username:           username,
		FullName:           fullName,
		AuthType:           authType,
		IsAccountConfirmed: true,
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, apperr.NewConflict("Email or username already exists")
	}
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("create user: %w", err))
	}

	s.logger.InfoContext(ctx, "social user created", "user_id", user.ID, "auth_type", authType)
	return user, nil
}

// socialUsername derives a username from the full name plus an encoded timestamp.
func (s *authService) socialUsername(fullName string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(fullName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" || base[0] < 'a' || base[0] > 'z' {
		base = "user" + base
	}

	suffix, err := s.sqids.Encode([]uint64{uint64(s.now().UnixMilli())})
	if err != nil {
		return "", fmt.Errorf("failed to encode username suffix: %w", err)
	}
	return base + suffix, nil
}

// ChangePassword replaces the password after checking the current one
func (s *authService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	if !isValidPassword(req.OldPassword) || !isValidPassword(req.NewPassword) {
		return apperr.NewInvalidInput("Old password and new password are required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NewNotFound(userNotFoundMsg)
	}
	if err != nil {
		return apperr.NewInternal(fmt.Errorf("find user: %w", err))
	}

	if !s.hasher.Compare(user.PasswordHash, req.OldPassword) {
		return apperr.NewUnauthorized("Old password is incorrect")
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperr.NewInternal(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NewNotFound(userNotFoundMsg)
		}
		return apperr.NewInternal(fmt.Errorf("update password: %w", err))
	}

	s.logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

// UpdateAccount changes username and/or full name
func (s *authService) UpdateAccount(ctx context.Context, userID string, req *models.UpdateAccountRequest) (*entities.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	fullName := strings.TrimSpace(req.FullName)

	if username == "" && fullName == "" {
		return nil, apperr.NewInvalidInput("Either a username or a full name is required to update account")
	}
	if (username != "" && !isValidUsername(username)) || (fullName != "" && !isValidFullName(fullName)) {
		return nil, apperr.NewInvalidInput("Invalid username or full name format")
	}

	if username != "" {
		existing, err := s.users.FindByUsername(ctx, username)
		if err == nil && existing.ID != userID {
			return nil, apperr.NewConflict("Username already exists")
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NewInternal(fmt.Errorf("find user: %w", err))
		}
	}

	user, err := s.users.UpdateProfile(ctx, userID, username, fullName)
	switch {
	case errors.Is(err, repository.ErrConflict):
		return nil, apperr.NewConflict("Username already exists")
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperr.NewNotFound(userNotFoundMsg)
	case err != nil:
		return nil, apperr.NewInternal(fmt.Errorf("update account: %w", err))
	}

	s.logger.InfoContext(ctx, "account updated", "user_id", userID)
	return user, nil
}

// GetUser returns the caller's own account
func (s *authService) GetUser(ctx context.Context, callerID, userID string) (*entities.User, error) {
	if callerID != userID {
		return nil, apperr.NewForbidden(accessDeniedMsg)
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NewNotFound(userNotFoundMsg)
	}
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("find user: %w", err))
	}
	return user, nil
}

func (s *authService) issue(user *entities.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperr.NewInternal(fmt.Errorf("generate token: %w", err))
	}
	return models.NewAuthResponse(user, token), nil
}

func (s *authService) confirmationURL(username, token string) string {
	query := url.Values{}
	query.Set("username", username)
	query.Set("token", token)
	return s.appURL + "/auth/confirm-account?" + query.Encode()
}

// newConfirmationToken returns 32 random bytes as hex.
func newConfirmationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate confirmation token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
