package media

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/curiocms/curio/internal/plugins/auth"
)

// uploadFormPrefix namespaces every upload form field so the per-type forms
// can coexist in one modal without field name collisions.
const uploadFormPrefix = "media-chooser-upload"

// uploadFormValues is the validatable shape of an upload submission. The
// file itself is checked separately since validator only sees scalars.
type uploadFormValues struct {
	Title     string `validate:"required,max=255"`
	TagsInput string `validate:"max=500"`
}

// UploadForm is one per-type upload form. A form is "bound" once request
// data has been loaded into it; only bound forms can be validated.
type UploadForm struct {
	// Slug is the media type this form uploads.
	Slug string

	// Prefix namespaces the form's field names.
	Prefix string

	Title        string
	CollectionID string
	TagsInput    string
	File         *multipart.FileHeader

	// Bound marks that request data was loaded into the form.
	Bound bool

	// Errors maps field names to validation messages. Populated by IsValid.
	Errors map[string][]string

	validate *validator.Validate
	maxSize  int64
}

// FieldName returns the namespaced input name for a field.
func (f *UploadForm) FieldName(field string) string {
	return f.Prefix + "-" + field
}

// Tags parses TagsInput into cleaned, deduplicated tag names.
func (f *UploadForm) Tags() []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, raw := range strings.Split(f.TagsInput, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}
	return tags
}

// IsValid validates the bound form, filling Errors. An unbound form is
// never valid. Validation failures are form state, not errors: the caller
// re-renders the form with its messages.
func (f *UploadForm) IsValid() bool {
	f.Errors = map[string][]string{}
	if !f.Bound {
		return false
	}

	if err := f.validate.Struct(uploadFormValues{Title: f.Title, TagsInput: f.TagsInput}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Title":
					if fe.Tag() == "required" {
						f.addError("title", "This field is required.")
					} else {
						f.addError("title", "Ensure this value has at most 255 characters.")
					}
				case "TagsInput":
					f.addError("tags", "Tag list is too long.")
				}
			}
		} else {
			f.addError("title", "Invalid value.")
		}
	}

	switch {
	case f.File == nil:
		f.addError("file", "This field is required.")
	case !ExtensionAllowed(f.Slug, f.File.Filename):
		f.addError("file", fmt.Sprintf("File extension not allowed. Allowed extensions: %s.",
			strings.Join(allowedExtensions[f.Slug], ", ")))
	case f.File.Size > f.maxSize:
		f.addError("file", "This file is too large.")
	}

	return len(f.Errors) == 0
}

// ErrorCount returns the total number of validation messages on the form.
func (f *UploadForm) ErrorCount() int {
	n := 0
	for _, msgs := range f.Errors {
		n += len(msgs)
	}
	return n
}

func (f *UploadForm) addError(field, msg string) {
	f.Errors[field] = append(f.Errors[field], msg)
}

// FormFactory builds upload forms for a media type, unbound or bound to a
// request. Injected into the chooser handler so tests can substitute it.
type FormFactory interface {
	NewUploadForm(user *auth.Session, slug string) *UploadForm
	BindUploadForm(c echo.Context, user *auth.Session, slug string) *UploadForm
}

type formFactory struct {
	validate *validator.Validate
	maxSize  int64
}

// NewFormFactory creates the default upload form factory. maxSize is the
// largest accepted upload in bytes.
func NewFormFactory(maxSize int64) FormFactory {
	return &formFactory{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		maxSize:  maxSize,
	}
}

func (ff *formFactory) NewUploadForm(user *auth.Session, slug string) *UploadForm {
	return &UploadForm{
		Slug:     slug,
		Prefix:   uploadFormPrefix,
		Errors:   map[string][]string{},
		validate: ff.validate,
		maxSize:  ff.maxSize,
	}
}

func (ff *formFactory) BindUploadForm(c echo.Context, user *auth.Session, slug string) *UploadForm {
	form := ff.NewUploadForm(user, slug)
	form.Bound = true
	form.Title = c.FormValue(form.FieldName("title"))
	form.CollectionID = c.FormValue(form.FieldName("collection"))
	form.TagsInput = c.FormValue(form.FieldName("tags"))
	if fh, err := c.FormFile(form.FieldName("file")); err == nil {
		form.File = fh
	}
	return form
}

// BuildUploadForms constructs the per-type upload forms for the chooser
// modal, in registry order. restrictTo limits which types get a form (nil
// or empty = all). When boundSlug names a type in the set, boundForm is
// used for that slug instead of a fresh unbound form, so a failed upload
// re-renders with its messages intact.
func BuildUploadForms(ff FormFactory, user *auth.Session, restrictTo map[string]bool, boundSlug string, boundForm *UploadForm) map[string]*UploadForm {
	forms := map[string]*UploadForm{}
	for _, mt := range MediaTypes() {
		if len(restrictTo) > 0 && !restrictTo[mt.Slug] {
			continue
		}
		if mt.Slug == boundSlug && boundForm != nil {
			forms[mt.Slug] = boundForm
			continue
		}
		forms[mt.Slug] = ff.NewUploadForm(user, mt.Slug)
	}
	return forms
}

// UploadFormTab describes one upload tab in the chooser modal.
type UploadFormTab struct {
	Slug        string
	TabID       string
	Label       string
	ErrorsCount int
}

// BuildUploadFormTabs derives tab descriptors from built forms, in registry
// order regardless of map iteration order. Types without a form get no tab.
func BuildUploadFormTabs(forms map[string]*UploadForm) []UploadFormTab {
	tabs := []UploadFormTab{}
	for _, mt := range MediaTypes() {
		form, ok := forms[mt.Slug]
		if !ok {
			continue
		}
		tabs = append(tabs, UploadFormTab{
			Slug:        mt.Slug,
			TabID:       "upload-" + mt.Slug,
			Label:       mt.UploadTabLabel,
			ErrorsCount: form.ErrorCount(),
		})
	}
	return tabs
}

// FirstUploadForm returns the form of the first registry type present in
// the built set, or nil when the set is empty.
func FirstUploadForm(forms map[string]*UploadForm) *UploadForm {
	for _, mt := range MediaTypes() {
		if form, ok := forms[mt.Slug]; ok {
			return form
		}
	}
	return nil
}
