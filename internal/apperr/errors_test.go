package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"slice-url/internal/apperr"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", apperr.NewInvalidInput("bad"), http.StatusBadRequest},
		{"unauthorized", apperr.NewUnauthorized("no"), http.StatusUnauthorized},
		{"forbidden", apperr.NewForbidden("no"), http.StatusForbidden},
		{"not found", apperr.NewNotFound("gone"), http.StatusNotFound},
		{"conflict", apperr.NewConflict("taken"), http.StatusConflict},
		{"internal", apperr.NewInternal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", apperr.NewNotFound("gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessageHidesInternalCause(t *testing.T) {
	err := apperr.NewInternal(errors.New("connection refused"))
	if got := apperr.Message(err); got != apperr.DefaultInternalMessage {
		t.Errorf("Message() = %q, want %q", got, apperr.DefaultInternalMessage)
	}
	if got := apperr.Message(errors.New("raw")); got != apperr.DefaultInternalMessage {
		t.Errorf("Message() = %q, want generic message", got)
	}
	if got := apperr.Message(apperr.NewConflict("taken")); got != "taken" {
		t.Errorf("Message() = %q, want %q", got, "taken")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := apperr.NewInternal(cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !apperr.Is(err, apperr.Internal) {
		t.Error("expected Internal kind")
	}
	if apperr.Is(err, apperr.NotFound) {
		t.Error("did not expect NotFound kind")
	}
}
