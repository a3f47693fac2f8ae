package chooser

import (
	"context"
	"strings"
	"testing"

	"github.com/curiocms/curio/internal/plugins/media"
)

// stubMediaService implements just enough of media.MediaService for widget
// tests: GetByID and Selection.
type stubMediaService struct {
	getByIDFn func(ctx context.Context, id string) (*media.MediaAsset, error)
}

func (s *stubMediaService) CreateFromUpload(ctx context.Context, form *media.UploadForm, uploadedBy string) (*media.MediaAsset, error) {
	panic("not used")
}

func (s *stubMediaService) GetByID(ctx context.Context, id string) (*media.MediaAsset, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubMediaService) List(ctx context.Context, q media.ChooserQuery, opts media.ListOptions) ([]media.MediaAsset, int, error) {
	panic("not used")
}

func (s *stubMediaService) Search(ctx context.Context, terms string) ([]string, error) {
	panic("not used")
}

func (s *stubMediaService) UpdateTitle(ctx context.Context, id, title string) (*media.MediaAsset, error) {
	panic("not used")
}

func (s *stubMediaService) Delete(ctx context.Context, id string) error {
	panic("not used")
}

func (s *stubMediaService) Collections(ctx context.Context) ([]media.Collection, error) {
	panic("not used")
}

func (s *stubMediaService) Selection(asset *media.MediaAsset) media.SelectionResult {
	return media.SelectionResult{ID: asset.ID, Title: asset.Title, EditURL: media.EditURL(asset.ID)}
}

func TestWidgetText(t *testing.T) {
	service := &stubMediaService{}

	cases := []struct {
		name          string
		widget        *Widget
		chooseOne     string
		chooseAnother string
		edit          string
	}{
		{"generic", NewWidget(service), "Choose a media item", "Choose another media item", "Edit this media item"},
		{"audio", NewAudioWidget(service), "Choose audio", "Choose another audio item", "Edit this audio item"},
		{"video", NewVideoWidget(service), "Choose video", "Choose another video", "Edit this video"},
		{"model3d", NewModel3DWidget(service), "Choose a 3D model", "Choose another 3D model", "Edit this 3D model"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.widget.ChooseOneText(); got != tc.chooseOne {
				t.Errorf("ChooseOneText = %q, want %q", got, tc.chooseOne)
			}
			if got := tc.widget.ChooseAnotherText(); got != tc.chooseAnother {
				t.Errorf("ChooseAnotherText = %q, want %q", got, tc.chooseAnother)
			}
			if got := tc.widget.EditText(); got != tc.edit {
				t.Errorf("EditText = %q, want %q", got, tc.edit)
			}
		})
	}
}

func TestWidgetChooserModalURL(t *testing.T) {
	service := &stubMediaService{}

	if got := NewWidget(service).ChooserModalURL(); got != "/admin/media/chooser/" {
		t.Errorf("generic URL = %q", got)
	}
	if got := NewAudioWidget(service).ChooserModalURL(); got != "/admin/media/chooser/audio" {
		t.Errorf("audio URL = %q", got)
	}
	if got := NewModel3DWidget(service).ChooserModalURL(); got != "/admin/media/chooser/model3d" {
		t.Errorf("model3d URL = %q", got)
	}
}

func TestNewTypedWidgetUnknownSlug(t *testing.T) {
	if _, err := NewTypedWidget(&stubMediaService{}, "document"); err == nil {
		t.Fatal("expected error for unknown slug")
	}
}

func TestResolveValue(t *testing.T) {
	service := &stubMediaService{
		getByIDFn: func(ctx context.Context, id string) (*media.MediaAsset, error) {
			return &media.MediaAsset{ID: id, Title: "Skyline"}, nil
		},
	}
	w := NewWidget(service)
	ctx := context.Background()

	t.Run("nil", func(t *testing.T) {
		result, err := w.ResolveValue(ctx, nil)
		if err != nil || result != nil {
			t.Errorf("ResolveValue(nil) = %+v, %v", result, err)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		result, err := w.ResolveValue(ctx, "")
		if err != nil || result != nil {
			t.Errorf("ResolveValue(\"\") = %+v, %v", result, err)
		}
	})

	t.Run("id", func(t *testing.T) {
		result, err := w.ResolveValue(ctx, "m4")
		if err != nil {
			t.Fatalf("ResolveValue: %v", err)
		}
		if result.ID != "m4" || result.Title != "Skyline" || result.EditURL != "/admin/media/m4/edit" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("instance", func(t *testing.T) {
		asset := &media.MediaAsset{ID: "m5", Title: "Harbor"}
		result, err := w.ResolveValue(ctx, asset)
		if err != nil {
			t.Fatalf("ResolveValue: %v", err)
		}
		if result.ID != "m5" || result.Title != "Harbor" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("typed nil instance", func(t *testing.T) {
		var asset *media.MediaAsset
		result, err := w.ResolveValue(ctx, asset)
		if err != nil || result != nil {
			t.Errorf("ResolveValue(typed nil) = %+v, %v", result, err)
		}
	})

	t.Run("unsupported type", func(t *testing.T) {
		if _, err := w.ResolveValue(ctx, 42); err == nil {
			t.Fatal("expected error for unsupported value type")
		}
	})
}

func TestWidgetRender(t *testing.T) {
	service := &stubMediaService{}
	w := NewAudioWidget(service)

	t.Run("no selection", func(t *testing.T) {
		var buf strings.Builder
		if err := w.Render("page-audio", nil).Render(context.Background(), &buf); err != nil {
			t.Fatalf("Render: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Choose audio") {
			t.Error("missing choose-one button")
		}
		if strings.Contains(out, "Choose another") {
			t.Error("replace button should not appear without a selection")
		}
		if !strings.Contains(out, `data-chooser-url="/admin/media/chooser/audio"`) {
			t.Error("missing chooser URL attribute")
		}
	})

	t.Run("with selection", func(t *testing.T) {
		var buf strings.Builder
		selection := &media.SelectionResult{ID: "m1", Title: "Waves", EditURL: "/admin/media/m1/edit"}
		if err := w.Render("page-audio", selection).Render(context.Background(), &buf); err != nil {
			t.Fatalf("Render: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Choose another audio item") {
			t.Error("missing replace button")
		}
		if !strings.Contains(out, "Edit this audio item") {
			t.Error("missing edit link")
		}
		if !strings.Contains(out, `value="m1"`) {
			t.Error("hidden input should carry the selection ID")
		}
	})
}
