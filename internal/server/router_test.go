package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"slice-url/internal/identity"
	"slice-url/internal/jwt"
	"slice-url/internal/middleware"
	"slice-url/internal/mocks"
	"slice-url/internal/repository"
	"slice-url/internal/service"
	"slice-url/internal/shortid"
)

const testBaseURL = "http://sho.rt"

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	mailer *mocks.MockMailer
}

func newTestServer(t *testing.T, configure ...func(*Options)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := gomock.NewController(t)
	mailer := mocks.NewMockMailer(ctrl)

	linkRepo := repository.NewMemoryLinkRepository()
	jwtService := jwt.NewJWTService("test-secret", 7*24*time.Hour)

	authService, err := service.NewAuthService(service.AuthDeps{
		Users:    repository.NewMemoryUserRepository(),
		Tokens:   jwtService,
		Hasher:   service.NewBcryptHasher(bcrypt.MinCost),
		Mailer:   mailer,
		Verifier: identity.DisabledVerifier{},
		AppURL:   "http://app.test",
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("NewAuthService() error = %v", err)
	}

	authLimiter := middleware.NewRateLimiter(100, time.Minute, "Too many attempts", logger)
	shortenLimiter := middleware.NewRateLimiter(100, time.Minute, "Too many requests", logger)
	t.Cleanup(authLimiter.Stop)
	t.Cleanup(shortenLimiter.Stop)

	opts := Options{
		AuthService:     authService,
		LinkService:     service.NewLinkService(linkRepo, shortid.New(), logger),
		ResolverService: service.NewResolverService(linkRepo, logger),
		VisitService:    service.NewVisitService(repository.NewMemoryVisitRepository()),
		JWTService:      jwtService,
		BaseURL:         testBaseURL,
		AuthLimiter:     authLimiter,
		ShortenLimiter:  shortenLimiter,
		Logger:          logger,
		AllowAllOrigins: true,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	return &testServer{router: NewRouter(opts), mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, target string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, target, w.Body.String(), err)
		}
	}
	return w, env
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, want, w.Body.String())
	}
}

// login registers, confirms and signs in alice, returning her id and bearer header.
func (s *testServer) login(t *testing.T) (string, map[string]string) {
	t.Helper()

	var confirmURL string
	s.mailer.EXPECT().SendConfirmation(gomock.Any(), "alice@example.com", "Alice Doe", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, u string) error {
			confirmURL = u
			return nil
		})

	w, env := s.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email": "alice@example.com", "password": "secret123", "username": "alice", "fullName": "Alice Doe",
	}, nil)
	expectStatus(t, w, http.StatusCreated)
	if !env.Success || env.StatusCode != http.StatusCreated {
		t.Errorf("register envelope = %+v", env)
	}

	w, _ = s.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	}, nil)
	expectStatus(t, w, http.StatusForbidden)

	parsed, err := url.Parse(confirmURL)
	if err != nil {
		t.Fatalf("parse confirmation url: %v", err)
	}
	w, _ = s.do(t, http.MethodGet, "/auth/confirm-account?"+parsed.RawQuery, nil, nil)
	expectStatus(t, w, http.StatusOK)

	w, env = s.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	}, nil)
	expectStatus(t, w, http.StatusOK)

	var data struct {
		User struct {
			ID          string `json:"_id"`
			AccessToken string `json:"accessToken"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	return data.User.ID, map[string]string{"Authorization": "Bearer " + data.User.AccessToken}
}

type linkData struct {
	ShortID   string `json:"shortId"`
	Alias     string `json:"alias"`
	ShortURL  string `json:"shortUrl"`
	Clicks    int64  `json:"clicks"`
	ClickedAt []struct {
		Source string `json:"source"`
	} `json:"clickedAt"`
}

func TestRouter_LinkLifecycle(t *testing.T) {
	s := newTestServer(t)
	_, auth := s.login(t)

	w, env := s.do(t, http.MethodPost, "/links/shorten", map[string]string{"originalUrl": "https://example.com"}, auth)
	expectStatus(t, w, http.StatusCreated)
	var created struct {
		NewLink linkData `json:"newLink"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode create data: %v", err)
	}
	shortID := created.NewLink.ShortID
	if len(shortID) != shortid.Length || created.NewLink.ShortURL != testBaseURL+"/"+shortID {
		t.Fatalf("created link = %+v", created.NewLink)
	}

	w, env = s.do(t, http.MethodGet, "/links/redirect/"+shortID+"?source=qr", nil, nil)
	expectStatus(t, w, http.StatusSeeOther)
	if loc := w.Header().Get("Location"); loc != "https://example.com" {
		t.Errorf("Location = %q", loc)
	}
	if !strings.Contains(string(env.Data), `"url":"https://example.com"`) {
		t.Errorf("redirect data = %s", env.Data)
	}

	w, env = s.do(t, http.MethodPatch, "/links/"+shortID+"?alias=promo", nil, auth)
	expectStatus(t, w, http.StatusOK)

	w, _ = s.do(t, http.MethodGet, "/links/redirect/promo", nil, nil)
	expectStatus(t, w, http.StatusSeeOther)

	w, env = s.do(t, http.MethodGet, "/links/"+shortID, nil, auth)
	expectStatus(t, w, http.StatusOK)
	var got struct {
		Link linkData `json:"link"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode link data: %v", err)
	}
	if got.Link.Alias != "promo" || got.Link.ShortURL != testBaseURL+"/promo" {
		t.Errorf("link = %+v", got.Link)
	}
	if got.Link.Clicks != 2 || len(got.Link.ClickedAt) != 2 || got.Link.ClickedAt[0].Source != "qr" || got.Link.ClickedAt[1].Source != "unknown" {
		t.Errorf("click stats = %+v", got.Link)
	}

	w, _ = s.do(t, http.MethodGet, "/links/"+shortID+"/qrcode", nil, auth)
	expectStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	w, env = s.do(t, http.MethodGet, "/links", nil, auth)
	expectStatus(t, w, http.StatusOK)
	var list struct {
		Links []linkData `json:"links"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil || len(list.Links) != 1 {
		t.Errorf("links = %s (err %v)", env.Data, err)
	}

	w, _ = s.do(t, http.MethodDelete, "/links/"+shortID, nil, auth)
	expectStatus(t, w, http.StatusOK)

	w, env = s.do(t, http.MethodGet, "/links/redirect/"+shortID, nil, nil)
	expectStatus(t, w, http.StatusNotFound)
	if env.Success || env.Message != "You might have clicked on a broken URL." {
		t.Errorf("envelope = %+v", env)
	}
}

func TestRouter_AnonymousShorten(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"originalUrl": "https://example.com"}

	w, env := s.do(t, http.MethodPost, "/links/shorten-anonymously", body, nil)
	expectStatus(t, w, http.StatusBadRequest)
	if env.Message != "Invalid request." {
		t.Errorf("message = %q", env.Message)
	}

	w, _ = s.do(t, http.MethodPost, "/links/shorten-anonymously", body, map[string]string{"anonymous": "true"})
	expectStatus(t, w, http.StatusCreated)
}

func TestRouter_RequiresBearer(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/links", nil, nil)
	expectStatus(t, w, http.StatusUnauthorized)
	if env.Success || env.StatusCode != http.StatusUnauthorized {
		t.Errorf("envelope = %+v", env)
	}

	w, _ = s.do(t, http.MethodPost, "/links/shorten", map[string]string{"originalUrl": "https://example.com"},
		map[string]string{"Authorization": "Bearer forged"})
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestRouter_UserEndpoints(t *testing.T) {
	s := newTestServer(t)
	userID, auth := s.login(t)

	w, _ := s.do(t, http.MethodGet, "/users/"+userID, nil, auth)
	expectStatus(t, w, http.StatusOK)

	w, _ = s.do(t, http.MethodGet, "/users/someone-else", nil, auth)
	expectStatus(t, w, http.StatusForbidden)

	w, _ = s.do(t, http.MethodPatch, "/users/update-account", map[string]string{"fullName": "Alice Smith"}, auth)
	expectStatus(t, w, http.StatusOK)

	w, _ = s.do(t, http.MethodPut, "/auth/change-password",
		map[string]string{"oldPassword": "secret123", "newPassword": "newsecret"}, auth)
	expectStatus(t, w, http.StatusOK)

	w, _ = s.do(t, http.MethodPost, "/auth/social", map[string]string{"accessToken": "short"}, nil)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/visit?source=landing", nil, nil)
	expectStatus(t, w, http.StatusOK)
	if env.Message != "Visitor counted successfully" {
		t.Errorf("message = %q", env.Message)
	}

	w, _ = s.do(t, http.MethodGet, "/health", nil, nil)
	expectStatus(t, w, http.StatusOK)

	w, env = s.do(t, http.MethodGet, "/nope", nil, nil)
	expectStatus(t, w, http.StatusNotFound)
	if env.Message != "Route not found." {
		t.Errorf("message = %q", env.Message)
	}
}

func preflight(origin string) map[string]string {
	return map[string]string{
		"Origin":                         origin,
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "authorization,content-type",
	}
}

func TestRouter_CORSAnyOriginInDevelopment(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodOptions, "/links/shorten", nil, preflight("http://localhost:5173"))
	expectStatus(t, w, http.StatusNoContent)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Authorization") {
		t.Errorf("Access-Control-Allow-Headers = %q, want Authorization", got)
	}

	w, _ = s.do(t, http.MethodGet, "/visit", nil, map[string]string{"Origin": "http://localhost:5173"})
	expectStatus(t, w, http.StatusOK)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_CORSConfiguredOrigin(t *testing.T) {
	s := newTestServer(t, func(o *Options) {
		o.AllowAllOrigins = false
		o.CORSOrigin = "https://app.example.com"
	})

	w, _ := s.do(t, http.MethodOptions, "/links/shorten", nil, preflight("https://app.example.com"))
	expectStatus(t, w, http.StatusNoContent)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	w, _ = s.do(t, http.MethodOptions, "/links/shorten", nil, preflight("https://evil.example.com"))
	expectStatus(t, w, http.StatusForbidden)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want none", got)
	}
}
