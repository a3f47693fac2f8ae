// Package chooser provides the media chooser form widget: a form field
// that stores a media asset reference and opens the chooser modal to change
// it. A generic widget accepts any media type; typed variants pin the modal
// and the labels to one type.
package chooser

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/curiocms/curio/internal/apperror"
	"github.com/curiocms/curio/internal/plugins/media"
)

// widgetText is the label set of one widget variant.
type widgetText struct {
	chooseOne     string
	chooseAnother string
	edit          string
}

var genericText = widgetText{
	chooseOne:     "Choose a media item",
	chooseAnother: "Choose another media item",
	edit:          "Edit this media item",
}

// typedText maps media type slugs to their label sets.
var typedText = map[string]widgetText{
	"audio": {
		chooseOne:     "Choose audio",
		chooseAnother: "Choose another audio item",
		edit:          "Edit this audio item",
	},
	"video": {
		chooseOne:     "Choose video",
		chooseAnother: "Choose another video",
		edit:          "Edit this video",
	},
	"model3d": {
		chooseOne:     "Choose a 3D model",
		chooseAnother: "Choose another 3D model",
		edit:          "Edit this 3D model",
	},
}

// Widget is a media chooser form widget. The zero value is not usable;
// construct with NewWidget or NewTypedWidget.
type Widget struct {
	service   media.MediaService
	mediaType string // "" for the generic widget
	text      widgetText
}

// NewWidget creates the generic chooser widget, which offers every media
// type.
func NewWidget(service media.MediaService) *Widget {
	return &Widget{service: service, text: genericText}
}

// NewTypedWidget creates a chooser widget pinned to one media type.
// Unknown slugs are a NotFound error.
func NewTypedWidget(service media.MediaService, slug string) (*Widget, error) {
	if _, err := media.MediaTypeBySlug(slug); err != nil {
		return nil, err
	}
	return &Widget{service: service, mediaType: slug, text: typedText[slug]}, nil
}

// NewAudioWidget creates the audio chooser widget.
func NewAudioWidget(service media.MediaService) *Widget {
	w, _ := NewTypedWidget(service, "audio")
	return w
}

// NewVideoWidget creates the video chooser widget.
func NewVideoWidget(service media.MediaService) *Widget {
	w, _ := NewTypedWidget(service, "video")
	return w
}

// NewModel3DWidget creates the 3D model chooser widget.
func NewModel3DWidget(service media.MediaService) *Widget {
	w, _ := NewTypedWidget(service, "model3d")
	return w
}

// MediaType returns the widget's media type slug, "" for generic.
func (w *Widget) MediaType() string { return w.mediaType }

// ChooseOneText returns the label shown when no asset is selected.
func (w *Widget) ChooseOneText() string { return w.text.chooseOne }

// ChooseAnotherText returns the label for replacing the selection.
func (w *Widget) ChooseAnotherText() string { return w.text.chooseAnother }

// EditText returns the label for the edit link next to the selection.
func (w *Widget) EditText() string { return w.text.edit }

// ChooserModalURL returns the modal endpoint this widget opens: the typed
// chooser for typed widgets, the generic one otherwise.
func (w *Widget) ChooserModalURL() string {
	return media.ChooserURL(w.mediaType)
}

// ResolveValue turns a stored form value into the selection summary the
// widget displays. It accepts nil (no selection), an asset ID, or an
// already-loaded asset; IDs are looked up, so a dangling reference surfaces
// as NotFound.
func (w *Widget) ResolveValue(ctx context.Context, value any) (*media.SelectionResult, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		asset, err := w.service.GetByID(ctx, v)
		if err != nil {
			return nil, err
		}
		result := w.service.Selection(asset)
		return &result, nil
	case *media.MediaAsset:
		if v == nil {
			return nil, nil
		}
		result := w.service.Selection(v)
		return &result, nil
	default:
		return nil, apperror.NewBadRequest(fmt.Sprintf("cannot resolve %T as a media reference", value))
	}
}

// Render produces the widget's form markup: the hidden value input, the
// current selection (if any), and the buttons wired to the chooser modal.
func (w *Widget) Render(inputName string, selection *media.SelectionResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, wr io.Writer) error {
		fmt.Fprintf(wr, `<div class="media-chooser-widget" data-chooser-url="%s" data-media-type="%s">`,
			html.EscapeString(w.ChooserModalURL()), html.EscapeString(w.mediaType))

		value := ""
		if selection != nil {
			value = selection.ID
		}
		fmt.Fprintf(wr, `<input type="hidden" name="%s" value="%s">`,
			html.EscapeString(inputName), html.EscapeString(value))

		if selection == nil {
			fmt.Fprintf(wr, `<button type="button" class="button" data-chooser-open>%s</button>`,
				html.EscapeString(w.text.chooseOne))
		} else {
			fmt.Fprintf(wr, `<span class="media-chooser-widget__title">%s</span>`,
				html.EscapeString(selection.Title))
			fmt.Fprintf(wr, `<button type="button" class="button" data-chooser-open>%s</button>`,
				html.EscapeString(w.text.chooseAnother))
			fmt.Fprintf(wr, `<a class="button button--link" href="%s">%s</a>`,
				html.EscapeString(selection.EditURL), html.EscapeString(w.text.edit))
		}

		fmt.Fprint(wr, `</div>`)
		return nil
	})
}
