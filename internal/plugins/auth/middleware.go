package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// sessionCookieName is the cookie that carries the session token.
const sessionCookieName = "curio_session"

// Context keys for storing session data in Echo context. Other plugins
// use these keys (via the exported getter functions below) to access
// the authenticated user's information.
const (
	contextKeySession = "auth_session"
	contextKeyUserID  = "auth_user_id"
)

// RequireAuth returns middleware that validates the session cookie and
// injects session data into the request context. If the session is
// invalid or missing, it redirects browsers to /login or returns 401
// for XHR requests (the chooser modal fetches expect JSON, not a
// login page swapped into the dialog).
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := GetSessionToken(c)
			if token == "" {
				return handleUnauthenticated(c)
			}

			session, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				// Invalid or expired session -- clear the stale cookie.
				clearSessionCookie(c)
				return handleUnauthenticated(c)
			}

			// Store session data in context for downstream handlers.
			SetSession(c, session)

			return next(c)
		}
	}
}

// OptionalAuth returns middleware that validates the session cookie if one
// is present but lets unauthenticated requests through. The chooser listing
// works for any authenticated role and narrows itself based on permissions,
// so its routes never hard-fail on auth; handlers read GetSession and treat
// nil as an anonymous requester.
func OptionalAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := GetSessionToken(c)
			if token == "" {
				return next(c)
			}

			session, err := service.ValidateSession(c.Request().Context(), token)
			if err != nil {
				clearSessionCookie(c)
				return next(c)
			}

			SetSession(c, session)

			return next(c)
		}
	}
}

// handleUnauthenticated returns the appropriate response for unauthenticated
// requests: redirect for browsers, 401 JSON for XHR clients.
func handleUnauthenticated(c echo.Context) error {
	if isXHRRequest(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}

	return c.Redirect(http.StatusSeeOther, "/login")
}

// --- Exported getters for other plugins ---

// SetSession stores session data in the Echo context. Called by the auth
// middleware; also useful for handler tests.
func SetSession(c echo.Context, session *Session) {
	c.Set(contextKeySession, session)
	c.Set(contextKeyUserID, session.UserID)
}

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated.
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetUserID retrieves the authenticated user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}

// GetSessionToken reads the session token from the request cookie.
func GetSessionToken(c echo.Context) string {
	cookie, err := c.Request().Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// --- Helpers ---

// setSessionCookie writes the session cookie on login.
func setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// isXHRRequest returns true if the request was made by the chooser's
// JavaScript client rather than a browser navigation.
func isXHRRequest(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest"
}
