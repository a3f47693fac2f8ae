package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/curiocms/curio/internal/apperror"
	"github.com/curiocms/curio/internal/middleware"
	"github.com/curiocms/curio/internal/templates/pages"
)

// Handler handles HTTP requests for authentication. Handlers are thin:
// bind request, call service, render response. No business logic lives here.
type Handler struct {
	service    AuthService
	sessionTTL int // seconds, for the cookie MaxAge
}

// NewHandler creates a new auth handler backed by the given service.
func NewHandler(service AuthService, sessionTTLSeconds int) *Handler {
	return &Handler{service: service, sessionTTL: sessionTTLSeconds}
}

// LoginForm renders the login page (GET /login).
func (h *Handler) LoginForm(c echo.Context) error {
	// Already logged in? Go straight to the media index.
	if GetSession(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/media/")
	}
	return middleware.Render(c, http.StatusOK, pages.Login(middleware.GetCSRFToken(c), ""))
}

// Login authenticates the submitted credentials (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid login form")
	}
	if req.Email == "" || req.Password == "" {
		return middleware.Render(c, http.StatusUnprocessableEntity,
			pages.Login(middleware.GetCSRFToken(c), "Email and password are required."))
	}

	token, _, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if apperror.SafeCode(err) == http.StatusUnauthorized {
			return middleware.Render(c, http.StatusUnauthorized,
				pages.Login(middleware.GetCSRFToken(c), "Invalid email or password."))
		}
		return err
	}

	setSessionCookie(c, token, h.sessionTTL)
	return c.Redirect(http.StatusSeeOther, "/admin/media/")
}

// Logout revokes the current session (POST /logout).
func (h *Handler) Logout(c echo.Context) error {
	token := GetSessionToken(c)
	if err := h.service.Logout(c.Request().Context(), token); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}
