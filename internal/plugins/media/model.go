// Package media implements Curio's media asset management: the asset store,
// the chooser modal workflow (browse, search, filter, paginate, upload), and
// the admin index/edit pages. Assets are audio files, video files, and 3D
// models; the media type registry in mediatypes.go is the source of truth
// for which kinds exist.
package media

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// MediaAsset represents an uploaded media asset.
type MediaAsset struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"` // Registry slug: audio, video, model3d.
	Filename     string    `json:"filename"`      // Path on disk relative to the media root.
	OriginalName string    `json:"original_name"` // Uploader's original filename.
	FileSize     int64     `json:"file_size"`
	CollectionID *string   `json:"collection_id,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Extension returns the asset's file extension, lowercased.
func (a *MediaAsset) Extension() string {
	return strings.ToLower(filepath.Ext(a.OriginalName))
}

// Collection is a named grouping of assets used for filtering in the chooser.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SelectionResult is the summary handed back to the chooser client when an
// asset is picked. Recomputed on every serialization; never stored.
type SelectionResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	EditURL string `json:"edit_url"`
}

// --- Chooser query (the filterable collection handle) ---

// ChooserQuery describes which assets a chooser request may see. It is a
// value: permission scoping, hooks, and filters each take a query and return
// a narrowed one, and the repository turns the final query into SQL.
type ChooserQuery struct {
	// None short-circuits to an empty result set (anonymous requester).
	None bool

	// UploaderID restricts to assets uploaded by one user ("" = no restriction).
	UploaderID string

	// Type restricts to one media type slug ("" = all types).
	Type string

	// CollectionID restricts to one collection ("" = all collections).
	CollectionID string

	// Tag restricts to assets carrying the named tag ("" = no tag filter).
	Tag string

	// Searching marks that SearchIDs came from a search backend. When set,
	// Ordering and Tag are ignored: search relevance is the order.
	Searching bool

	// SearchIDs is the ranked ID set from the search backend.
	SearchIDs []string

	// Ordering is a validated ordering literal ("" = repository default).
	Ordering string
}

// ChooserQueryHook transforms the chooser query before it is executed.
// Hooks are injected at construction and run in registration order; each
// sees the previous hook's output.
type ChooserQueryHook func(q ChooserQuery, c echo.Context) ChooserQuery

// Ordering literals accepted from the chooser's ordering parameter.
const (
	OrderTitleAsc    = "title"
	OrderTitleDesc   = "-title"
	OrderCreatedAsc  = "created_at"
	OrderCreatedDesc = "-created_at"
	DefaultOrdering  = OrderCreatedDesc
)

// ValidateOrdering maps a raw ordering parameter onto the allow-list.
// Anything unrecognized falls back to the default; bad input is never an
// error here.
func ValidateOrdering(raw string) string {
	switch raw {
	case OrderTitleAsc, OrderTitleDesc, OrderCreatedAsc, OrderCreatedDesc:
		return raw
	}
	return DefaultOrdering
}

// --- Upload constraints ---

// allowedExtensions maps each media type slug to the upload file extensions
// accepted for it.
var allowedExtensions = map[string][]string{
	"audio":   {".aac", ".flac", ".m4a", ".mp3", ".ogg", ".wav"},
	"video":   {".avi", ".mkv", ".mov", ".mp4", ".webm"},
	"model3d": {".glb", ".gltf", ".obj", ".stl", ".usdz"},
}

// ExtensionAllowed reports whether a filename's extension is accepted for
// the given media type slug. Unknown slugs accept nothing.
func ExtensionAllowed(slug, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions[slug] {
		if ext == allowed {
			return true
		}
	}
	return false
}

// --- URL construction ---

// The chooser client builds no URLs of its own; everything it needs is
// produced by these helpers so route changes stay in one place.

// ChooserURL returns the chooser endpoint, typed when slug is non-empty.
func ChooserURL(slug string) string {
	if slug == "" {
		return "/admin/media/chooser/"
	}
	return "/admin/media/chooser/" + slug
}

// ChooserUploadURL returns the typed upload endpoint for a slug.
func ChooserUploadURL(slug string) string {
	return "/admin/media/chooser/" + slug + "/upload"
}

// ChosenURL returns the selection-commit endpoint for an asset ID.
func ChosenURL(id string) string {
	return "/admin/media/chosen/" + id
}

// EditURL returns the admin edit page for an asset ID.
func EditURL(id string) string {
	return "/admin/media/" + id + "/edit"
}

// TagAutocompleteURL is the tag autocomplete endpoint advertised to the
// chooser client in the modal envelope.
const TagAutocompleteURL = "/admin/tags/autocomplete"
