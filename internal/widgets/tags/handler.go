package tags

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// autocompleteLimit caps suggestions per request.
const autocompleteLimit = 10

// Handler handles HTTP requests for the tag widget.
type Handler struct {
	service TagService
}

// NewHandler creates a new tag handler.
func NewHandler(service TagService) *Handler {
	return &Handler{service: service}
}

// Autocomplete suggests tag names for a prefix
// (GET /admin/tags/autocomplete?term=...).
func (h *Handler) Autocomplete(c echo.Context) error {
	names, err := h.service.Autocomplete(c.Request().Context(), c.QueryParam("term"), autocompleteLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, names)
}
