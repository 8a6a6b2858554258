package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubcore/members-system/internal/core/domain"
	"github.com/clubcore/members-system/internal/core/ports"
)

// stubAuth implements ports.AuthService; only Authorize matters here.
type stubAuth struct {
	sessions map[string]*domain.Session
}

func (s *stubAuth) Authorize(_ context.Context, token, requiredRole string) (*domain.Session, error) {
	sess, ok := s.sessions[token]
	if token == "" || !ok {
		return nil, domain.ErrUnauthenticated
	}
	if requiredRole == domain.RoleAdmin && sess.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return sess, nil
}

func (s *stubAuth) Signup(context.Context, string, string, string) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}
func (s *stubAuth) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}
func (s *stubAuth) Logout(context.Context, string) error { return nil }
func (s *stubAuth) Promote(context.Context, string, string) error {
	return errors.New("not implemented")
}
func (s *stubAuth) Demote(context.Context, string, string) error {
	return errors.New("not implemented")
}
func (s *stubAuth) ListUsers(context.Context) ([]*domain.User, error) {
	return nil, errors.New("not implemented")
}

func newContext(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSession_SetsTokenFromSignedCookie(t *testing.T) {
	codec := NewCookieCodec("cookie-secret")
	value, err := codec.Encode("tok-1", time.Hour)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	c, _ := newContext(t, value)
	handler := Session(codec)(func(c echo.Context) error {
		if Token(c) != "tok-1" {
			t.Fatalf("expected token tok-1, got %q", Token(c))
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_IgnoresTamperedCookie(t *testing.T) {
	codec := NewCookieCodec("cookie-secret")
	value, err := codec.Encode("tok-1", time.Hour)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	c, _ := newContext(t, value[:len(value)-2]+"xx")
	handler := Session(codec)(func(c echo.Context) error {
		if Token(c) != "" {
			t.Fatalf("tampered cookie must leave the request anonymous")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	auth := &stubAuth{sessions: map[string]*domain.Session{}}

	c, _ := newContext(t, "")
	handler := RequireRole(auth, domain.RoleUser)(func(c echo.Context) error {
		t.Fatalf("next handler must not run")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRole_ForbiddenForUserOnAdminRoute(t *testing.T) {
	auth := &stubAuth{sessions: map[string]*domain.Session{
		"tok-1": {Authenticated: true, Username: "ada", Role: domain.RoleUser},
	}}

	c, _ := newContext(t, "")
	c.Set(ctxToken, "tok-1")
	handler := RequireRole(auth, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("next handler must not run")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_SetsIdentity(t *testing.T) {
	auth := &stubAuth{sessions: map[string]*domain.Session{
		"tok-1": {Authenticated: true, Username: "ada", Role: domain.RoleAdmin},
	}}

	c, rec := newContext(t, "")
	c.Set(ctxToken, "tok-1")

	called := false
	handler := RequireRole(auth, domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		username, role := Identity(c)
		if username != "ada" || role != domain.RoleAdmin {
			t.Fatalf("unexpected identity %q/%q", username, role)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
