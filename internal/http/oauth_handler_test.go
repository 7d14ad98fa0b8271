package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"log/slog"

	"launchpad/internal/auth"
	"launchpad/internal/users"
)

type providerStub struct {
	exchange func(ctx context.Context, code string) (*auth.Claims, error)
}

func (p *providerStub) AuthURL(state string) string {
	return "https://provider.test/authorize?state=" + state
}

func (p *providerStub) Exchange(ctx context.Context, code string) (*auth.Claims, error) {
	if p.exchange != nil {
		return p.exchange(ctx, code)
	}
	return &auth.Claims{Sub: "sub-1", Email: "user@example.com", EmailVerified: true, Name: "Alice"}, nil
}

func (p *providerStub) IsEmailAllowed(string) bool { return true }

func newOAuthTestHandler(t *testing.T, provider authenticator) (*OAuthHandler, *users.Service) {
	t.Helper()

	userSvc := users.NewService(users.NewInMemoryRepository(nil), nil)
	authSvc := auth.NewService(auth.NewInMemorySessionRepository(), userSvc, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOAuthHandler(provider, authSvc, userSvc, "http://frontend", "development", time.Hour, logger), userSvc
}

func encodeState(t *testing.T, payload oauthStatePayload) string {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func TestIsValidRedirectPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/dashboard", true},
		{"/a/b?c=d", true},
		{"", false},
		{"//evil.com", false},
		{"/%2f%2fevil.com", false},
		{"https://evil.com", false},
		{"javascript:alert(1)", false},
	}

	for _, tc := range cases {
		if got := isValidRedirectPath(tc.path); got != tc.want {
			t.Errorf("isValidRedirectPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestInitiateSetsStateCookieAndRedirects(t *testing.T) {
	handler, _ := newOAuthTestHandler(t, &providerStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	handler.Initiate(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Location"), "https://provider.test/authorize") {
		t.Fatalf("unexpected redirect target %q", rec.Header().Get("Location"))
	}

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookieName {
			stateCookie = c
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected state cookie to be set")
	}
}

func TestCallbackRejectsStateMismatch(t *testing.T) {
	handler, _ := newOAuthTestHandler(t, &providerStub{})

	state := encodeState(t, oauthStatePayload{State: "attacker"})
	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?state="+state+"&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "expected"})
	rec := httptest.NewRecorder()
	handler.Callback(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Location"), "error=invalid_request") {
		t.Fatalf("expected invalid_request error redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestCallbackCreatesUserAndSession(t *testing.T) {
	handler, userSvc := newOAuthTestHandler(t, &providerStub{})

	state := encodeState(t, oauthStatePayload{State: "state-1", RedirectTo: "/dashboard"})
	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?state="+state+"&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: "state-1"})
	rec := httptest.NewRecorder()
	handler.Callback(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "http://frontend/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", got)
	}

	user, err := userSvc.ProfileByToken(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("ProfileByToken returned error: %v", err)
	}
	if user == nil || user.Name != "Alice" {
		t.Fatalf("expected synced user record, got %+v", user)
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected session cookie to be set")
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("expected session cookie to be HttpOnly")
	}
}

func TestLogoutClearsSessionCookie(t *testing.T) {
	handler, _ := newOAuthTestHandler(t, &providerStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	handler.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}
