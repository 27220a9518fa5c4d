package middleware

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/service"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newVerifier(t *testing.T) *service.TokenVerifier {
	t.Helper()
	v, err := service.NewTokenVerifier(service.TokenOptions{SigningKey: testKey})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

func issue(t *testing.T, key string, now time.Time) string {
	t.Helper()
	issuer, err := service.NewTokenIssuer(service.TokenOptions{SigningKey: key, Now: func() time.Time { return now }})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := issuer.Issue(
		&domain.Identity{ID: "u-1", Username: "alice", Email: "alice@example.com"},
		domain.NewPolicySet(domain.PolicyCourseRead, domain.PolicyCommentRead),
	)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(newVerifier(t))(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := issue(t, testKey, time.Now())

	called := false
	rec := runAuth(t, "Bearer "+token, func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "u-1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("email") != "alice@example.com" {
			t.Fatalf("email not set")
		}
		policies, _ := c.Get("policies").([]string)
		if !slices.Equal(policies, []string{domain.PolicyCommentRead, domain.PolicyCourseRead}) {
			t.Fatalf("unexpected policies: %v", policies)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "invalid header format", header: "Token abc"},
		{name: "malformed token", header: "Bearer not-a-token"},
		{name: "wrong key", header: "Bearer " + issue(t, "ffffffffffffffffffffffffffffffff", time.Now())},
		{name: "expired", header: "Bearer " + issue(t, testKey, time.Now().Add(-8*24*time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runAuth(t, tt.header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
