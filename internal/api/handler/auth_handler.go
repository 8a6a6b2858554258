package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubcore/members-system/internal/api/middleware"
	"github.com/clubcore/members-system/internal/core/ports"
)

// AuthHandler handles signup, login, and logout, and owns the session
// cookie: the service deals in opaque tokens, the handler wraps them in the
// signed cookie and back.
type AuthHandler struct {
	auth  ports.AuthService
	codec *middleware.CookieCodec
	ttl   time.Duration
}

func NewAuthHandler(auth ports.AuthService, codec *middleware.CookieCodec, ttl time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, codec: codec, ttl: ttl}
}

// Signup creates an account and signs the caller in.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.auth.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	if err := h.setSessionCookie(c, res.Token); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sessionResponse{Username: res.Username, Role: res.Role})
}

// Login authenticates an existing account.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if err := h.setSessionCookie(c, res.Token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Username: res.Username, Role: res.Role})
}

// Logout destroys the current session. Always succeeds, including for
// anonymous callers: logging out twice is not an error.
//
// @Summary      Log out
// @Tags         auth
// @Success      204  "session destroyed"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), middleware.Token(c)); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) error {
	value, err := h.codec.Encode(token, h.ttl)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
