package media

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/curiocms/curio/internal/apperror"
	"github.com/curiocms/curio/internal/middleware"
	"github.com/curiocms/curio/internal/plugins/auth"
	"github.com/curiocms/curio/internal/templates/pages"
)

// Admin page handlers. These routes sit behind RequireAuth, so a session is
// always present; the policy still narrows regular users to their own
// uploads.

// Index renders the media listing page (GET /admin/media/).
func (h *Handler) Index(c echo.Context) error {
	session := auth.GetSession(c)

	typeFilter := c.QueryParam("type")
	if !IsMediaTypeSlug(typeFilter) {
		typeFilter = ""
	}

	q := ChooserQuery{Type: typeFilter}
	q = h.policy.ScopeToUserPermissions(q, session, []string{ActionChange, ActionDelete})

	pageNum, _ := strconv.Atoi(c.QueryParam("p"))
	if pageNum < 1 {
		pageNum = 1
	}

	assets, total, err := h.service.List(c.Request().Context(), q, ListOptions{Page: pageNum, PerPage: h.perPage})
	if err != nil {
		return err
	}
	page := NewPage(pageNum, h.perPage, total)

	rows := make([]pages.MediaRow, 0, len(assets))
	for _, asset := range assets {
		rows = append(rows, pages.MediaRow{
			ID:        asset.ID,
			Title:     asset.Title,
			TypeLabel: typeLabel(asset.Type),
			CreatedAt: asset.CreatedAt.Format("2 Jan 2006"),
			EditURL:   EditURL(asset.ID),
		})
	}

	filters := make([]pages.TypeFilter, 0, len(MediaTypes()))
	for _, mt := range MediaTypes() {
		filters = append(filters, pages.TypeFilter{
			Slug:   mt.Slug,
			Label:  typeLabel(mt.Slug),
			Active: mt.Slug == typeFilter,
		})
	}

	return middleware.Render(c, http.StatusOK, pages.MediaIndex(pages.MediaIndexData{
		Rows:        rows,
		TypeFilters: filters,
		BaseURL:     "/admin/media/",
		ActiveType:  typeFilter,
		PageNumber:  page.Number,
		TotalPages:  page.TotalPages,
		PageRange:   page.ElidedRange(),
		PageGap:     PageGap,
	}))
}

// Edit renders the edit page for one asset (GET /admin/media/:media_id/edit).
func (h *Handler) Edit(c echo.Context) error {
	asset, err := h.loadEditable(c)
	if err != nil {
		return err
	}
	saved := c.QueryParam("saved") == "1"
	return middleware.Render(c, http.StatusOK, pages.MediaEdit(h.editData(c, asset, saved)))
}

// Update renames an asset (POST /admin/media/:media_id/edit).
func (h *Handler) Update(c echo.Context) error {
	asset, err := h.loadEditable(c)
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	if title == "" || len(title) > 255 {
		data := h.editData(c, asset, false)
		return middleware.Render(c, http.StatusUnprocessableEntity, pages.MediaEdit(data))
	}

	if _, err := h.service.UpdateTitle(c.Request().Context(), asset.ID, title); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, EditURL(asset.ID)+"?saved=1")
}

// Delete removes an asset (POST /admin/media/:media_id/delete).
func (h *Handler) Delete(c echo.Context) error {
	asset, err := h.loadEditable(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), asset.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/media/")
}

// loadEditable loads the asset from the URL and checks that the session's
// user may change it.
func (h *Handler) loadEditable(c echo.Context) (*MediaAsset, error) {
	asset, err := h.service.GetByID(c.Request().Context(), c.Param("media_id"))
	if err != nil {
		return nil, err
	}
	session := auth.GetSession(c)
	if session == nil || (!session.IsAdmin && asset.UploadedBy != session.UserID) {
		return nil, apperror.NewForbidden("you do not have permission to change this media item")
	}
	return asset, nil
}

func (h *Handler) editData(c echo.Context, asset *MediaAsset, saved bool) pages.MediaEditData {
	return pages.MediaEditData{
		ID:            asset.ID,
		Title:         asset.Title,
		TypeLabel:     typeLabel(asset.Type),
		OriginalName:  asset.OriginalName,
		FileSizeLabel: formatFileSize(asset.FileSize),
		CreatedAt:     asset.CreatedAt.Format("2 Jan 2006 15:04"),
		Tags:          asset.Tags,
		CSRFToken:     middleware.GetCSRFToken(c),
		UpdateURL:     EditURL(asset.ID),
		DeleteURL:     "/admin/media/" + asset.ID + "/delete",
		Saved:         saved,
	}
}

// formatFileSize renders a byte count for display.
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
