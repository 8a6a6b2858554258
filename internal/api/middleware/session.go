package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/clubcore/members-system/internal/core/ports"
)

// Context keys set by the middleware in this package.
const (
	ctxToken    = "session_token"
	ctxUsername = "username"
	ctxRole     = "role"
)

// Session extracts the session token from the signed cookie and stores it in
// the request context. It never rejects: an absent, unsigned, or tampered
// cookie simply leaves the request anonymous, and the route-level guards
// decide what that means.
func Session(codec *CookieCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if token, err := codec.Decode(cookie.Value); err == nil {
					c.Set(ctxToken, token)
				}
			}
			return next(c)
		}
	}
}

// RequireRole gates a route on a valid session, and on the admin role when
// requiredRole is admin. On success the session's cached identity is placed
// in the context for handlers; the Authorize call also refreshes the
// session TTL.
func RequireRole(auth ports.AuthService, requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := c.Get(ctxToken).(string)

			sess, err := auth.Authorize(c.Request().Context(), token, requiredRole)
			if err != nil {
				return err
			}

			c.Set(ctxUsername, sess.Username)
			c.Set(ctxRole, sess.Role)
			return next(c)
		}
	}
}

// Token returns the session token extracted by Session, or "" when the
// request is anonymous.
func Token(c echo.Context) string {
	token, _ := c.Get(ctxToken).(string)
	return token
}

// Identity returns the username and role set by RequireRole.
func Identity(c echo.Context) (username, role string) {
	username, _ = c.Get(ctxUsername).(string)
	role, _ = c.Get(ctxRole).(string)
	return username, role
}
