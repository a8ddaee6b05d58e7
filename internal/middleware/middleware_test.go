package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"slice-url/internal/entities"
	"slice-url/internal/jwt"
	"slice-url/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.String(http.StatusOK, userID)
	})
	r.GET("/", handlers...)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.Envelope {
	t.Helper()
	var env models.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return env
}

func TestRateLimiter_RejectsAboveBurst(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, "Too many requests", slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer rl.Stop()
	r := newEngine(rl.LimitMiddleware())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success || env.StatusCode != http.StatusTooManyRequests || env.Message != "Too many requests" {
		t.Errorf("envelope = %+v", env)
	}
	want := models.RateLimitInfo{Window: 60, MaxRequests: 2, RetryAfter: 60}
	if env.RateLimit == nil || *env.RateLimit != want {
		t.Errorf("rateLimit = %+v, want %+v", env.RateLimit, want)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Hour)
	token, err := svc.GenerateToken("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	r := newEngine(AuthMiddleware(svc))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, "user-1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized, ""},
		{"garbage", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != tt.wantBody {
				t.Errorf("user id = %q, want %q", w.Body.String(), tt.wantBody)
			}
			if tt.wantStatus != http.StatusOK && decodeEnvelope(t, w).Success {
				t.Error("expected success=false")
			}
		})
	}
}

func TestAnonymousMiddleware(t *testing.T) {
	r := newEngine(AnonymousMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := decodeEnvelope(t, w).Message; msg != "Invalid request." {
		t.Errorf("message = %q", msg)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(AnonymousHeader, "true")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != entities.AnonymousCreator {
		t.Errorf("status = %d, body = %q", w.Code, w.Body.String())
	}
}
