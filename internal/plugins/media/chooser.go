package media

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/curiocms/curio/internal/apperror"
	"github.com/curiocms/curio/internal/middleware"
	"github.com/curiocms/curio/internal/plugins/auth"
	chooserTmpl "github.com/curiocms/curio/internal/templates/chooser"
)

// Chooser workflow steps reported to the modal client.
const (
	StepChooser     = "chooser"
	StepMediaChosen = "media_chosen"
)

// popularTagCount is how many popular tags the modal offers as filters.
const popularTagCount = 10

// TagLister supplies popular tag names for the chooser's tag filter. The
// tags widget provides the implementation.
type TagLister interface {
	PopularTagNames(ctx context.Context, limit int) ([]string, error)
}

// ModalResponse is the JSON envelope consumed by the chooser modal client.
// The client swaps in HTML for the chooser step and commits Result for the
// media_chosen step.
type ModalResponse struct {
	Step               string           `json:"step"`
	HTML               string           `json:"html,omitempty"`
	Result             *SelectionResult `json:"result,omitempty"`
	ErrorLabel         string           `json:"error_label,omitempty"`
	ErrorMessage       string           `json:"error_message,omitempty"`
	TagAutocompleteURL string           `json:"tag_autocomplete_url,omitempty"`
}

// Handler handles HTTP requests for media assets: the chooser workflow and
// the admin index/edit pages. All collaborators are injected at
// construction.
type Handler struct {
	service MediaService
	forms   FormFactory
	policy  PermissionPolicy
	tags    TagLister
	hooks   []ChooserQueryHook
	perPage int
}

// NewHandler creates a media handler. hooks may be nil; they run in order
// against every chooser listing query.
func NewHandler(service MediaService, forms FormFactory, policy PermissionPolicy, tags TagLister, perPage int, hooks []ChooserQueryHook) *Handler {
	return &Handler{
		service: service,
		forms:   forms,
		policy:  policy,
		tags:    tags,
		hooks:   hooks,
		perPage: perPage,
	}
}

// Chooser serves the chooser modal (GET /admin/media/chooser/ and
// /admin/media/chooser/:media_type).
//
// An unregistered media type in the URL falls back to the untyped chooser
// rather than failing: a stale bookmark still opens a working modal. Two
// response shapes: requests carrying listing parameters (search, page,
// filters) get the bare results fragment as HTML; the initial open gets the
// full modal wrapped in the JSON envelope.
func (h *Handler) Chooser(c echo.Context) error {
	slug := c.Param("media_type")
	if slug != "" && !IsMediaTypeSlug(slug) {
		slug = ""
	}

	if isResultsRequest(c) {
		results, err := h.buildResults(c, slug)
		if err != nil {
			return err
		}
		return middleware.Render(c, http.StatusOK, chooserTmpl.Results(*results))
	}
	return h.renderChooserModal(c, slug, nil)
}

// ChooserUpload accepts an upload from the chooser's upload tab
// (POST /admin/media/chooser/:media_type/upload).
//
// Unlike the GET fallback, an unknown media type here is a hard 404: an
// upload must never be silently coerced into a different type. This is also
// the one chooser endpoint that guards the add permission explicitly.
func (h *Handler) ChooserUpload(c echo.Context) error {
	slug := c.Param("media_type")
	if _, err := MediaTypeBySlug(slug); err != nil {
		return err
	}

	session := auth.GetSession(c)
	if !h.policy.UserHasPermission(session, ActionAdd) {
		if session == nil {
			return apperror.NewUnauthorized("login required to upload media")
		}
		return apperror.NewForbidden("you do not have permission to upload media")
	}

	form := h.forms.BindUploadForm(c, session, slug)
	if !form.IsValid() {
		// Re-render the modal with the bound form so its messages and
		// entered values survive.
		return h.renderChooserModal(c, slug, form)
	}

	asset, err := h.service.CreateFromUpload(c.Request().Context(), form, session.UserID)
	if err != nil {
		return err
	}

	result := h.service.Selection(asset)
	return c.JSON(http.StatusOK, ModalResponse{Step: StepMediaChosen, Result: &result})
}

// MediaChosen commits a selection from the results list
// (GET /admin/media/chosen/:media_id).
func (h *Handler) MediaChosen(c echo.Context) error {
	asset, err := h.service.GetByID(c.Request().Context(), c.Param("media_id"))
	if err != nil {
		return err
	}
	result := h.service.Selection(asset)
	return c.JSON(http.StatusOK, ModalResponse{Step: StepMediaChosen, Result: &result})
}

// isResultsRequest reports whether the chooser GET carries listing
// parameters and therefore wants the results fragment, not the full modal.
func isResultsRequest(c echo.Context) bool {
	params := c.QueryParams()
	for _, name := range []string{"q", "p", "ordering", "collection_id", "tag"} {
		if params.Has(name) {
			return true
		}
	}
	return false
}

// buildResults executes the chooser listing pipeline: permission scope,
// hooks, filters, search, pagination.
func (h *Handler) buildResults(c echo.Context, slug string) (*chooserTmpl.ResultsData, error) {
	ctx := c.Request().Context()
	session := auth.GetSession(c)

	q := ChooserQuery{Type: slug}
	q = h.policy.ScopeToUserPermissions(q, session, []string{ActionChange, ActionDelete})
	for _, hook := range h.hooks {
		q = hook(q, c)
	}
	q.CollectionID = c.QueryParam("collection_id")

	searchQuery := c.QueryParam("q")
	if searchQuery != "" {
		// Search takes over ordering (relevance) and replaces the tag
		// filter for this request.
		ids, err := h.service.Search(ctx, searchQuery)
		if err != nil {
			return nil, err
		}
		q.Searching = true
		q.SearchIDs = ids
	} else {
		q.Ordering = ValidateOrdering(c.QueryParam("ordering"))
		q.Tag = c.QueryParam("tag")
	}

	pageNum, _ := strconv.Atoi(c.QueryParam("p"))
	if pageNum < 1 {
		pageNum = 1
	}

	assets, total, err := h.service.List(ctx, q, ListOptions{Page: pageNum, PerPage: h.perPage})
	if err != nil {
		return nil, err
	}
	page := NewPage(pageNum, h.perPage, total)

	items := make([]chooserTmpl.ResultItem, 0, len(assets))
	for _, asset := range assets {
		items = append(items, chooserTmpl.ResultItem{
			ID:        asset.ID,
			Title:     asset.Title,
			TypeLabel: typeLabel(asset.Type),
			CreatedAt: asset.CreatedAt.Format("2 Jan 2006"),
			ChosenURL: ChosenURL(asset.ID),
		})
	}

	return &chooserTmpl.ResultsData{
		Items:       items,
		IsSearching: q.Searching,
		SearchQuery: searchQuery,
		ChooserURL:  ChooserURL(slug),
		Ordering:    q.Ordering,
		Collection:  q.CollectionID,
		Tag:         q.Tag,
		PageNumber:  page.Number,
		TotalPages:  page.TotalPages,
		PageRange:   page.ElidedRange(),
		PageGap:     PageGap,
	}, nil
}

// renderChooserModal renders the full modal in the JSON envelope. boundForm
// is non-nil when re-rendering after a failed upload for slug.
func (h *Handler) renderChooserModal(c echo.Context, slug string, boundForm *UploadForm) error {
	ctx := c.Request().Context()
	session := auth.GetSession(c)

	results, err := h.buildResults(c, slug)
	if err != nil {
		return err
	}

	collections, err := h.service.Collections(ctx)
	if err != nil {
		return err
	}
	// A single collection is no choice at all: hide the filter entirely
	// until there are at least two.
	var collectionOpts []chooserTmpl.CollectionOption
	if len(collections) >= 2 {
		collectionOpts = make([]chooserTmpl.CollectionOption, len(collections))
		for i, col := range collections {
			collectionOpts[i] = chooserTmpl.CollectionOption{ID: col.ID, Name: col.Name}
		}
	}

	popularTags, err := h.tags.PopularTagNames(ctx, popularTagCount)
	if err != nil {
		return err
	}

	// The typed GET chooser only offers that type's upload form. A rejected
	// upload re-renders the full set with the bound form at its slug, so the
	// uploader can switch types without reopening the modal.
	var restrictTo map[string]bool
	if slug != "" && boundForm == nil {
		restrictTo = map[string]bool{slug: true}
	}

	var tabs []chooserTmpl.UploadTab
	var formData []chooserTmpl.UploadFormData
	if h.policy.UserHasPermission(session, ActionAdd) {
		forms := BuildUploadForms(h.forms, session, restrictTo, slug, boundForm)
		first := FirstUploadForm(forms)
		for _, tab := range BuildUploadFormTabs(forms) {
			tabs = append(tabs, chooserTmpl.UploadTab{
				Slug:        tab.Slug,
				TabID:       tab.TabID,
				Label:       tab.Label,
				ErrorsCount: tab.ErrorsCount,
			})
			form := forms[tab.Slug]
			mt, _ := MediaTypeBySlug(tab.Slug)
			formData = append(formData, chooserTmpl.UploadFormData{
				Slug:           form.Slug,
				Action:         ChooserUploadURL(form.Slug),
				AddButtonLabel: mt.AddButtonLabel,
				TitleName:      form.FieldName("title"),
				TitleValue:     form.Title,
				CollectionName: form.FieldName("collection"),
				TagsName:       form.FieldName("tags"),
				TagsValue:      form.TagsInput,
				FileName:       form.FieldName("file"),
				Errors:         form.Errors,
				Selected:       form == first,
			})
		}
	}

	modal := chooserTmpl.ModalData{
		Title:         chooserTitle(slug),
		Icon:          chooserIcon(slug),
		MediaType:     slug,
		SearchQuery:   c.QueryParam("q"),
		Ordering:      results.Ordering,
		ShowOrdering:  !results.IsSearching,
		ShowTagFilter: !results.IsSearching,
		Collections:   collectionOpts,
		PopularTags:   popularTags,
		Tabs:          tabs,
		Forms:         formData,
		CSRFToken:     middleware.GetCSRFToken(c),
		Results:       *results,
	}

	html, err := middleware.RenderToString(c, chooserTmpl.Modal(modal))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ModalResponse{
		Step:               StepChooser,
		HTML:               html,
		ErrorLabel:         "Server Error",
		ErrorMessage:       "Report this error to your website administrator with the following information:",
		TagAutocompleteURL: TagAutocompleteURL,
	})
}

// chooserTitle returns the modal title: the type's own phrase when typed,
// the generic phrase otherwise.
func chooserTitle(slug string) string {
	if mt, err := MediaTypeBySlug(slug); err == nil {
		return mt.ChooseTitle
	}
	return "Choose a media item"
}

// chooserIcon returns the modal icon name. 3D models have no icon of their
// own and share the generic media icon.
func chooserIcon(slug string) string {
	switch slug {
	case "audio", "video":
		return slug
	}
	return "media"
}

// typeLabel returns the human-readable name of a media type for listings.
func typeLabel(slug string) string {
	switch slug {
	case "audio":
		return "Audio"
	case "video":
		return "Video"
	case "model3d":
		return "3D model"
	}
	return slug
}
