package identity

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
)

func TestFromToken(t *testing.T) {
	token := &auth.Token{
		Firebase: auth.FirebaseInfo{SignInProvider: "github.com"},
		Claims: map[string]interface{}{
			"email": "octo@example.com",
			"name":  "Octo Cat",
		},
	}

	id := fromToken(token)
	if id.Email != "octo@example.com" || id.FullName != "Octo Cat" || id.Provider != "github.com" {
		t.Errorf("fromToken() = %+v", id)
	}
}

func TestFromTokenMissingClaims(t *testing.T) {
	id := fromToken(&auth.Token{Firebase: auth.FirebaseInfo{SignInProvider: "google.com"}})
	if id.Email != "" || id.FullName != "" {
		t.Errorf("fromToken() = %+v, want empty email and name", id)
	}
}

func TestDisabledVerifier(t *testing.T) {
	if _, err := (DisabledVerifier{}).Verify(context.Background(), "token"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Verify() error = %v, want ErrNotConfigured", err)
	}
}
