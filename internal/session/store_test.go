package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizownik/internal/backend"
)

func issueCookie(t *testing.T, store *Store, token string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := store.Create(rec, token); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	return cookies[0]
}

func requestWith(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/pl/api/quizzes", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestCreateAndCurrentRoundTrip(t *testing.T) {
	store := NewStore("secret", time.Hour, true)
	cookie := issueCookie(t, store, "bearer-123")

	if !cookie.HttpOnly || !cookie.Secure || cookie.Path != "/" {
		t.Fatalf("cookie attributes not scoped: %+v", cookie)
	}
	if strings.Contains(cookie.Value, "bearer-123") {
		t.Fatalf("cookie must not carry the bearer token in clear")
	}

	current := store.Current(requestWith(cookie))
	if current == nil {
		t.Fatalf("expected a session")
	}
	if current.Token != "bearer-123" {
		t.Fatalf("token = %q", current.Token)
	}
	if current.ID == "" || current.ExpiresAt.IsZero() {
		t.Fatalf("expected id and expiry, got %+v", current)
	}
}

func TestCurrentWithoutCookieIsNil(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	if store.Current(requestWith(nil)) != nil {
		t.Fatalf("expected no session without a cookie")
	}
}

func TestCurrentRejectsTamperedAndForeignCookies(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	cookie := issueCookie(t, store, "bearer-123")

	tampered := *cookie
	position := len(cookie.Value) - 10
	replacement := byte('A')
	if cookie.Value[position] == 'A' {
		replacement = 'B'
	}
	tampered.Value = cookie.Value[:position] + string(replacement) + cookie.Value[position+1:]
	if store.Current(requestWith(&tampered)) != nil {
		t.Fatalf("expected tampered cookie to be rejected")
	}

	other := NewStore("another-secret", time.Hour, false)
	if other.Current(requestWith(cookie)) != nil {
		t.Fatalf("expected cookie signed with another secret to be rejected")
	}

	garbage := &http.Cookie{Name: CookieName, Value: "not-a-jwt"}
	if store.Current(requestWith(garbage)) != nil {
		t.Fatalf("expected garbage cookie to be rejected")
	}
}

func TestCurrentRejectsExpiredCookie(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	cookie := issueCookie(t, store, "bearer-123")

	if store.Current(requestWith(cookie)) != nil {
		t.Fatalf("expected expired cookie to be rejected")
	}
}

func TestAuthenticatorRejectsExpiredCookie(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	cookie := issueCookie(t, store, "bearer-123")

	missing := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next handler must not run for an expired cookie")
	})

	rec := httptest.NewRecorder()
	store.Verifier()(store.Authenticator(missing)(next)).ServeHTTP(rec, requestWith(cookie))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCreateRejectsEmptyToken(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	if err := store.Create(httptest.NewRecorder(), "  "); err == nil {
		t.Fatalf("expected empty token error")
	}
}

func TestDeleteExpiresCookie(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	store.Delete(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Name != CookieName || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("cookie not cleared: %+v", cookies[0])
	}
}

func TestAuthenticatorPlacesSessionInContext(t *testing.T) {
	store := NewStore("secret", time.Hour, false)
	cookie := issueCookie(t, store, "bearer-123")

	missing := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	var seen *Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := store.Verifier()(store.Authenticator(missing)(next))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWith(cookie))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if seen == nil || seen.Token != "bearer-123" {
		t.Fatalf("unexpected session in context: %+v", seen)
	}

	rec = httptest.NewRecorder()
	seen = nil
	handler.ServeHTTP(rec, requestWith(nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if seen != nil {
		t.Fatalf("next handler must not run without a session")
	}
}

func TestIdentityIsResolvedOnce(t *testing.T) {
	current := &Session{Token: "bearer-123"}
	calls := 0
	whoami := func(_ context.Context, token string) (backend.User, error) {
		calls++
		if token != "bearer-123" {
			t.Fatalf("whoami token = %q", token)
		}
		return backend.User{ID: 7, Role: backend.RoleAdmin}, nil
	}

	for i := 0; i < 3; i++ {
		user, err := current.Identity(context.Background(), whoami)
		if err != nil {
			t.Fatalf("Identity failed: %v", err)
		}
		if user.ID != 7 {
			t.Fatalf("user id = %d", user.ID)
		}
	}
	if calls != 1 {
		t.Fatalf("whoami calls = %d, want 1", calls)
	}
}

func TestIdentityDoesNotMemoizeFailures(t *testing.T) {
	current := &Session{Token: "bearer-123"}
	calls := 0
	whoami := func(context.Context, string) (backend.User, error) {
		calls++
		return backend.User{}, errors.New("unreachable")
	}

	_, _ = current.Identity(context.Background(), whoami)
	_, _ = current.Identity(context.Background(), whoami)
	if calls != 2 {
		t.Fatalf("whoami calls = %d, want 2", calls)
	}
}

func TestSealRoundTrip(t *testing.T) {
	key := deriveKey("seal", "secret")
	sealed, err := seal(key, "payload")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	opened, err := unseal(key, sealed)
	if err != nil || opened != "payload" {
		t.Fatalf("unseal = (%q, %v)", opened, err)
	}
	if _, err := unseal(deriveKey("seal", "other"), sealed); err == nil {
		t.Fatalf("expected unseal with another key to fail")
	}
}
