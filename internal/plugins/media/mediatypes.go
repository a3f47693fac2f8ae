package media

import (
	"strings"

	"github.com/curiocms/curio/internal/apperror"
)

// MediaTypeDef holds the metadata for one supported media kind. The labels
// are full phrases on purpose: composing them from fragments would lock the
// wording and break translation later.
type MediaTypeDef struct {
	// Slug is the unique machine-readable identifier (e.g., "audio").
	Slug string

	// ChooseTitle is the chooser modal title for this type.
	ChooseTitle string

	// UploadTabLabel is the label of the upload tab for this type.
	UploadTabLabel string

	// AddButtonLabel is the label of the submit button on the upload form.
	AddButtonLabel string
}

// mediaTypes is the canonical registry. Order matters: it determines tab
// order in the chooser and the default iteration order everywhere else
// (audio first, then video, then 3D models).
var mediaTypes = []MediaTypeDef{
	{
		Slug:           "audio",
		ChooseTitle:    "Choose audio",
		UploadTabLabel: "Upload Audio",
		AddButtonLabel: "Add audio",
	},
	{
		Slug:           "video",
		ChooseTitle:    "Choose video",
		UploadTabLabel: "Upload Video",
		AddButtonLabel: "Add video",
	},
	{
		Slug:           "model3d",
		ChooseTitle:    "Choose 3D model",
		UploadTabLabel: "Upload 3D model",
		AddButtonLabel: "Add 3D model",
	},
}

// MediaTypes returns the fixed canonical list of media types, always in the
// same order. Callers must not mutate the returned slice.
func MediaTypes() []MediaTypeDef {
	return mediaTypes
}

// MediaTypeBySlug returns the media type definition for a slug, or a
// NotFound error if the slug is not registered.
func MediaTypeBySlug(slug string) (*MediaTypeDef, error) {
	for i := range mediaTypes {
		if mediaTypes[i].Slug == slug {
			return &mediaTypes[i], nil
		}
	}
	return nil, apperror.NewNotFound("unknown media type: " + slug)
}

// IsMediaTypeSlug reports whether a slug is registered. Used where an
// unknown slug should fall back quietly instead of erroring.
func IsMediaTypeSlug(slug string) bool {
	_, err := MediaTypeBySlug(slug)
	return err == nil
}

// MediaTypeSlugs returns the registered slugs in canonical order.
func MediaTypeSlugs() []string {
	slugs := make([]string, len(mediaTypes))
	for i, mt := range mediaTypes {
		slugs[i] = mt.Slug
	}
	return slugs
}

// MediaTypeSlugsPattern returns a regexp alternation matching exactly the
// registered slugs, for route-level gating of the typed upload endpoint.
// Regenerated on every call so it can never go stale against the registry.
func MediaTypeSlugsPattern() string {
	return strings.Join(MediaTypeSlugs(), "|")
}
