package tags

import (
	"github.com/labstack/echo/v4"

	"github.com/curiocms/curio/internal/plugins/auth"
)

// RegisterRoutes sets up the tag widget's routes. The autocomplete endpoint
// backs the chooser's tag input, which is also usable anonymously, so it
// takes OptionalAuth like the chooser itself.
func RegisterRoutes(e *echo.Echo, h *Handler, authService auth.AuthService) {
	e.GET("/admin/tags/autocomplete", h.Autocomplete, auth.OptionalAuth(authService))
}
