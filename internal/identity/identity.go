// Package identity verifies ID tokens issued by external sign-in providers.
package identity

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when social sign-in is used without provider credentials.
var ErrNotConfigured = errors.New("identity: social sign-in is not configured")

// Identity is the verified subject of an ID token.
type Identity struct {
	Email    string
	FullName string
	// Provider is the sign-in method reported by the provider, e.g. "google.com".
	Provider string
}

//go:generate mockgen -destination=../mocks/identity.go -package=mocks slice-url/internal/identity Verifier

// Verifier checks an ID token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// FirebaseVerifier verifies Firebase Authentication ID tokens
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier initializes the Firebase app from a service account file
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}
	return fromToken(token), nil
}

func fromToken(token *auth.Token) *Identity {
	id := &Identity{Provider: token.Firebase.SignInProvider}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.FullName = name
	}
	return id
}

// DisabledVerifier rejects every token.
type DisabledVerifier struct{}

func (DisabledVerifier) Verify(context.Context, string) (*Identity, error) {
	return nil, ErrNotConfigured
}
