// Package layouts provides the base HTML shell for admin pages and the
// context plumbing that carries per-request display data (user name, CSRF
// token) into templates.
package layouts

import "context"

type contextKey string

const (
	ctxIsAuthenticated contextKey = "is_authenticated"
	ctxUserName        contextKey = "user_name"
	ctxIsAdmin         contextKey = "is_admin"
	ctxCSRFToken       contextKey = "csrf_token"
)

// WithIsAuthenticated marks the rendering context as authenticated.
func WithIsAuthenticated(ctx context.Context, v bool) context.Context {
	return context.WithValue(ctx, ctxIsAuthenticated, v)
}

// WithUserName stores the display name of the logged-in user.
func WithUserName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxUserName, name)
}

// WithIsAdmin marks the rendering context as belonging to an admin.
func WithIsAdmin(ctx context.Context, v bool) context.Context {
	return context.WithValue(ctx, ctxIsAdmin, v)
}

// WithCSRFToken stores the request's CSRF token for forms.
func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxCSRFToken, token)
}

// IsAuthenticated reports whether the rendering context is authenticated.
func IsAuthenticated(ctx context.Context) bool {
	v, _ := ctx.Value(ctxIsAuthenticated).(bool)
	return v
}

// UserName returns the logged-in user's display name, or "".
func UserName(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserName).(string)
	return v
}

// IsAdmin reports whether the rendering context belongs to an admin.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(ctxIsAdmin).(bool)
	return v
}

// CSRFToken returns the request's CSRF token, or "".
func CSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(ctxCSRFToken).(string)
	return v
}
