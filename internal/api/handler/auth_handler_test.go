package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubcore/members-system/internal/api/middleware"
	"github.com/clubcore/members-system/internal/core/domain"
	"github.com/clubcore/members-system/internal/core/ports"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, name, email, password string) (*ports.AuthResult, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) Signup(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	return s.signupFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, token)
	}
	return nil
}

func (s *stubAuthService) Authorize(context.Context, string, string) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}
func (s *stubAuthService) Promote(context.Context, string, string) error {
	return errors.New("not implemented")
}
func (s *stubAuthService) Demote(context.Context, string, string) error {
	return errors.New("not implemented")
}
func (s *stubAuthService) ListUsers(context.Context) ([]*domain.User, error) {
	return nil, errors.New("not implemented")
}

// testStatusFor mirrors the wiring in internal/api: handler errors flow to a
// central handler, so the tests need one that understands the domain errors.
func testStatusFor(err error) int {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, map[string]string{"error": "bad request"})
			return
		}
		_ = c.JSON(testStatusFor(err), map[string]string{"error": err.Error()})
	}
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(_ context.Context, name, email, password string) (*ports.AuthResult, error) {
			if name != "Ada" || email != "ada@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return &ports.AuthResult{Token: "tok-1", Username: "Ada", Role: domain.RoleUser}, nil
		},
	}
	codec := middleware.NewCookieCodec("cookie-secret")
	h := NewAuthHandler(stub, codec, time.Hour)
	e.POST("/auth/signup", h.Signup)

	rec := postJSON(e, "/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"secret"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "Ada" || resp["role"] != domain.RoleUser {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	cookie := findSessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if cookie.MaxAge != 3600 {
		t.Fatalf("expected Max-Age 3600, got %d", cookie.MaxAge)
	}
	token, err := codec.Decode(cookie.Value)
	if err != nil || token != "tok-1" {
		t.Fatalf("cookie does not decode to the session token: %q %v", token, err)
	}
}

func TestAuthHandler_Signup_ValidationStopsAtHandler(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, string, string, string) (*ports.AuthResult, error) {
			t.Fatalf("service must not be called for malformed input")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, middleware.NewCookieCodec("cookie-secret"), time.Hour)
	e.POST("/auth/signup", h.Signup)

	// Name over 20 characters.
	rec := postJSON(e, "/auth/signup", `{"name":"abcdefghijklmnopqrstu","email":"a@example.com","password":"secret"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "name") {
		t.Fatalf("expected a name-specific message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Signup_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(context.Context, string, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	h := NewAuthHandler(stub, middleware.NewCookieCodec("cookie-secret"), time.Hour)
	e.POST("/auth/signup", h.Signup)

	rec := postJSON(e, "/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"secret"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, middleware.NewCookieCodec("cookie-secret"), time.Hour)
	e.POST("/auth/login", h.Login)

	rec := postJSON(e, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, middleware.NewCookieCodec("cookie-secret"), time.Hour)
	e.POST("/auth/login", h.Login)

	rec := postJSON(e, "/auth/login", "not-json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	var loggedOut string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			loggedOut = token
			return nil
		},
	}
	codec := middleware.NewCookieCodec("cookie-secret")
	h := NewAuthHandler(stub, codec, time.Hour)
	e.POST("/auth/logout", h.Logout, middleware.Session(codec))

	value, err := codec.Encode("tok-1", time.Hour)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: value})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if loggedOut != "tok-1" {
		t.Fatalf("expected logout of tok-1, got %q", loggedOut)
	}

	cookie := findSessionCookie(t, rec)
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected an expired empty cookie, got %+v", cookie)
	}
}

func TestAuthHandler_Logout_Anonymous(t *testing.T) {
	e := newTestEcho()
	codec := middleware.NewCookieCodec("cookie-secret")
	h := NewAuthHandler(&stubAuthService{}, codec, time.Hour)
	e.POST("/auth/logout", h.Logout, middleware.Session(codec))

	rec := postJSON(e, "/auth/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout without a session must succeed, got %d", rec.Code)
	}
}

func findSessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}
