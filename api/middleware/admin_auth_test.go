package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/session"
)

type fakeChecker struct {
	live map[string]bool
	err  error
}

func (f *fakeChecker) HasSession(_ context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.live[jti], nil
}

func sessionCfg() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		Issuer:     "bobbin-storefront",
		TTLSeconds: 3600,
		CookieName: "admin-auth",
	}
}

func mintToken(t *testing.T, jti string) string {
	t.Helper()
	token, err := session.Mint(sessionCfg(), time.Now(), session.Payload{
		UserID:        "u1",
		Email:         "ada@example.com",
		Name:          "Ada",
		Role:          "admin",
		UpstreamToken: "up-token",
		JTI:           jti,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func protectedHandler(t *testing.T, sawRequest *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawRequest = true
		if got := AdminEmailFromContext(r.Context()); got != "ada@example.com" {
			t.Errorf("admin email not seeded, got %q", got)
		}
		if got := UpstreamTokenFromContext(r.Context()); got != "up-token" {
			t.Errorf("upstream token not seeded, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestAdminAuthAcceptsCookie(t *testing.T) {
	t.Parallel()

	saw := false
	checker := &fakeChecker{live: map[string]bool{"jti-1": true}}
	handler := AdminAuth(sessionCfg(), checker, testLogger())(protectedHandler(t, &saw))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "admin-auth", Value: mintToken(t, "jti-1")})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || !saw {
		t.Fatalf("expected pass-through, got %d (saw=%v)", rec.Code, saw)
	}
}

func TestAdminAuthAcceptsBearer(t *testing.T) {
	t.Parallel()

	saw := false
	checker := &fakeChecker{live: map[string]bool{"jti-1": true}}
	handler := AdminAuth(sessionCfg(), checker, testLogger())(protectedHandler(t, &saw))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "jti-1"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || !saw {
		t.Fatalf("expected pass-through, got %d (saw=%v)", rec.Code, saw)
	}
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	t.Parallel()

	saw := false
	handler := AdminAuth(sessionCfg(), nil, testLogger())(protectedHandler(t, &saw))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || saw {
		t.Fatalf("expected 401, got %d (saw=%v)", rec.Code, saw)
	}
}

func TestAdminAuthRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	saw := false
	handler := AdminAuth(sessionCfg(), nil, testLogger())(protectedHandler(t, &saw))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "admin-auth", Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || saw {
		t.Fatalf("expected 401, got %d (saw=%v)", rec.Code, saw)
	}
}

func TestAdminAuthRejectsRevokedSession(t *testing.T) {
	t.Parallel()

	saw := false
	checker := &fakeChecker{live: map[string]bool{}}
	handler := AdminAuth(sessionCfg(), checker, testLogger())(protectedHandler(t, &saw))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: "admin-auth", Value: mintToken(t, "jti-1")})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized || saw {
		t.Fatalf("expected 401 for revoked session, got %d (saw=%v)", rec.Code, saw)
	}
}
