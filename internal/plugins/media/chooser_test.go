package media

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/curiocms/curio/internal/plugins/auth"
)

// --- mocks ---

type mockMediaService struct {
	createFromUploadFn func(ctx context.Context, form *UploadForm, uploadedBy string) (*MediaAsset, error)
	getByIDFn          func(ctx context.Context, id string) (*MediaAsset, error)
	listFn             func(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error)
	searchFn           func(ctx context.Context, terms string) ([]string, error)
	collectionsFn      func(ctx context.Context) ([]Collection, error)
}

func (m *mockMediaService) CreateFromUpload(ctx context.Context, form *UploadForm, uploadedBy string) (*MediaAsset, error) {
	if m.createFromUploadFn == nil {
		panic("unexpected CreateFromUpload call")
	}
	return m.createFromUploadFn(ctx, form, uploadedBy)
}

func (m *mockMediaService) GetByID(ctx context.Context, id string) (*MediaAsset, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockMediaService) List(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
	if m.listFn == nil {
		return []MediaAsset{}, 0, nil
	}
	return m.listFn(ctx, q, opts)
}

func (m *mockMediaService) Search(ctx context.Context, terms string) ([]string, error) {
	if m.searchFn == nil {
		return []string{}, nil
	}
	return m.searchFn(ctx, terms)
}

func (m *mockMediaService) UpdateTitle(ctx context.Context, id, title string) (*MediaAsset, error) {
	panic("unexpected UpdateTitle call")
}

func (m *mockMediaService) Delete(ctx context.Context, id string) error {
	panic("unexpected Delete call")
}

func (m *mockMediaService) Collections(ctx context.Context) ([]Collection, error) {
	if m.collectionsFn == nil {
		return []Collection{}, nil
	}
	return m.collectionsFn(ctx)
}

func (m *mockMediaService) Selection(asset *MediaAsset) SelectionResult {
	return SelectionResult{ID: asset.ID, Title: asset.Title, EditURL: EditURL(asset.ID)}
}

type mockTagLister struct {
	names []string
}

func (m *mockTagLister) PopularTagNames(ctx context.Context, limit int) ([]string, error) {
	return m.names, nil
}

func newChooserHandler(service *mockMediaService) *Handler {
	return NewHandler(service, NewFormFactory(testMaxUpload), NewOwnerPolicy(),
		&mockTagLister{names: []string{"sea", "city"}}, 10, nil)
}

func adminSession() *auth.Session {
	return &auth.Session{UserID: "u-admin", Email: "admin@example.com", Name: "Admin", IsAdmin: true}
}

func newGetContext(target string, session *auth.Session) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if session != nil {
		auth.SetSession(c, session)
	}
	return c, rec
}

func decodeModalResponse(t *testing.T, body []byte) ModalResponse {
	t.Helper()
	var resp ModalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decoding modal response: %v\nbody: %s", err, body)
	}
	return resp
}

// --- listing pipeline ---

func TestChooserOrderingFallback(t *testing.T) {
	var captured ChooserQuery
	service := &mockMediaService{
		listFn: func(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
			captured = q
			return []MediaAsset{}, 0, nil
		},
	}
	h := newChooserHandler(service)

	c, rec := newGetContext("/admin/media/chooser/?ordering=uploaded_by", adminSession())
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if captured.Ordering != DefaultOrdering {
		t.Errorf("ordering = %q, want %q", captured.Ordering, DefaultOrdering)
	}
	// A listing request gets the raw fragment, not the JSON envelope.
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		t.Error("expected HTML fragment, got JSON")
	}
}

func TestChooserSearchSuppressesOrderingAndTag(t *testing.T) {
	var captured ChooserQuery
	service := &mockMediaService{
		searchFn: func(ctx context.Context, terms string) ([]string, error) {
			if terms != "beach" {
				t.Errorf("search terms = %q", terms)
			}
			return []string{"m2", "m1"}, nil
		},
		listFn: func(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
			captured = q
			return []MediaAsset{}, 0, nil
		},
	}
	h := newChooserHandler(service)

	c, _ := newGetContext("/admin/media/chooser/?q=beach&ordering=title&tag=sea", adminSession())
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}
	if !captured.Searching {
		t.Fatal("expected a searching query")
	}
	if len(captured.SearchIDs) != 2 || captured.SearchIDs[0] != "m2" {
		t.Errorf("SearchIDs = %v", captured.SearchIDs)
	}
	if captured.Ordering != "" {
		t.Errorf("search must suppress ordering, got %q", captured.Ordering)
	}
	if captured.Tag != "" {
		t.Errorf("search must suppress the tag filter, got %q", captured.Tag)
	}
}

func TestChooserScopesToOwnerForRegularUsers(t *testing.T) {
	var captured ChooserQuery
	service := &mockMediaService{
		listFn: func(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
			captured = q
			return []MediaAsset{}, 0, nil
		},
	}
	h := newChooserHandler(service)

	user := &auth.Session{UserID: "u7", Name: "Editor"}
	c, _ := newGetContext("/admin/media/chooser/?p=1", user)
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}
	if captured.UploaderID != "u7" {
		t.Errorf("UploaderID = %q, want u7", captured.UploaderID)
	}
}

func TestChooserAnonymousGetsEmptyListing(t *testing.T) {
	var captured ChooserQuery
	service := &mockMediaService{
		listFn: func(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
			captured = q
			return []MediaAsset{}, 0, nil
		},
	}
	h := newChooserHandler(service)

	c, rec := newGetContext("/admin/media/chooser/?p=1", nil)
	if err := h.Chooser(c); err != nil {
		t.Fatalf("anonymous chooser must not error: %v", err)
	}
	if !captured.None {
		t.Error("anonymous query should be narrowed to nothing")
	}
	if !strings.Contains(rec.Body.String(), "haven") {
		t.Errorf("expected empty listing message, got: %s", rec.Body.String())
	}
}

func TestChooserQueryHooksRun(t *testing.T) {
	var captured ChooserQuery
	service := &mockMediaService{
		listFn: func(ctx context.Context, q ChooserQuery, opts ListOptions) ([]MediaAsset, int, error) {
			captured = q
			return []MediaAsset{}, 0, nil
		},
	}
	hook := func(q ChooserQuery, c echo.Context) ChooserQuery {
		q.CollectionID = "hooked"
		return q
	}
	h := NewHandler(service, NewFormFactory(testMaxUpload), NewOwnerPolicy(),
		&mockTagLister{}, 10, []ChooserQueryHook{hook})

	c, _ := newGetContext("/admin/media/chooser/?p=1", adminSession())
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}
	if captured.CollectionID != "hooked" {
		t.Errorf("hook did not run: CollectionID = %q", captured.CollectionID)
	}
}

// --- modal envelope ---

func TestChooserInitialModalEnvelope(t *testing.T) {
	service := &mockMediaService{
		collectionsFn: func(ctx context.Context) ([]Collection, error) {
			return []Collection{{ID: "c1", Name: "Archive"}}, nil
		},
	}
	h := newChooserHandler(service)

	c, rec := newGetContext("/admin/media/chooser/", adminSession())
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}

	resp := decodeModalResponse(t, rec.Body.Bytes())
	if resp.Step != StepChooser {
		t.Errorf("step = %q", resp.Step)
	}
	if resp.ErrorLabel != "Server Error" {
		t.Errorf("error_label = %q", resp.ErrorLabel)
	}
	if resp.TagAutocompleteURL != "/admin/tags/autocomplete" {
		t.Errorf("tag_autocomplete_url = %q", resp.TagAutocompleteURL)
	}
	if !strings.Contains(resp.HTML, "Choose a media item") {
		t.Error("generic modal should use the generic title")
	}
	for _, slug := range MediaTypeSlugs() {
		if !strings.Contains(resp.HTML, "upload-"+slug) {
			t.Errorf("missing upload tab for %s", slug)
		}
	}
	// A single collection is no real choice; the filter must be hidden.
	if strings.Contains(resp.HTML, "collection_id") {
		t.Error("collection filter should be hidden with fewer than two collections")
	}
	if !strings.Contains(resp.HTML, "sea") {
		t.Error("expected popular tags in the modal")
	}
}

func TestChooserCollectionsFilterWithTwo(t *testing.T) {
	service := &mockMediaService{
		collectionsFn: func(ctx context.Context) ([]Collection, error) {
			return []Collection{{ID: "c1", Name: "Archive"}, {ID: "c2", Name: "Press"}}, nil
		},
	}
	h := newChooserHandler(service)

	c, rec := newGetContext("/admin/media/chooser/", adminSession())
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}
	resp := decodeModalResponse(t, rec.Body.Bytes())
	if !strings.Contains(resp.HTML, "collection_id") {
		t.Error("collection filter should appear with two collections")
	}
	if !strings.Contains(resp.HTML, "Archive") || !strings.Contains(resp.HTML, "Press") {
		t.Error("collection names missing from filter")
	}
}

func TestChooserTypedModal(t *testing.T) {
	h := newChooserHandler(&mockMediaService{})

	c, rec := newGetContext("/admin/media/chooser/video", adminSession())
	c.SetParamNames("media_type")
	c.SetParamValues("video")
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}

	resp := decodeModalResponse(t, rec.Body.Bytes())
	if !strings.Contains(resp.HTML, "Choose video") {
		t.Error("typed modal should use the type's title")
	}
	if !strings.Contains(resp.HTML, "upload-video") {
		t.Error("missing video upload tab")
	}
	if strings.Contains(resp.HTML, "upload-audio") || strings.Contains(resp.HTML, "upload-model3d") {
		t.Error("typed modal must restrict upload tabs to its type")
	}
}

func TestChooserUnknownSlugFallsBackToGeneric(t *testing.T) {
	h := newChooserHandler(&mockMediaService{})

	c, rec := newGetContext("/admin/media/chooser/banana", adminSession())
	c.SetParamNames("media_type")
	c.SetParamValues("banana")
	if err := h.Chooser(c); err != nil {
		t.Fatalf("unknown slug must not fail the GET chooser: %v", err)
	}
	resp := decodeModalResponse(t, rec.Body.Bytes())
	if resp.Step != StepChooser {
		t.Errorf("step = %q", resp.Step)
	}
	if !strings.Contains(resp.HTML, "Choose a media item") {
		t.Error("unknown slug should fall back to the generic chooser")
	}
}

func TestChooserAnonymousModalHasNoUploadTabs(t *testing.T) {
	h := newChooserHandler(&mockMediaService{})

	c, rec := newGetContext("/admin/media/chooser/", nil)
	if err := h.Chooser(c); err != nil {
		t.Fatalf("Chooser: %v", err)
	}
	resp := decodeModalResponse(t, rec.Body.Bytes())
	if strings.Contains(resp.HTML, "upload-audio") {
		t.Error("anonymous users must not see upload tabs")
	}
}

// --- upload endpoint ---

func TestChooserUploadUnknownType(t *testing.T) {
	h := newChooserHandler(&mockMediaService{})

	c := newUploadContext(t, map[string]string{"title": "X"}, "x.mp3", []byte("x"))
	c.SetParamNames("media_type")
	c.SetParamValues("banana")
	auth.SetSession(c, adminSession())

	err := h.ChooserUpload(c)
	if err == nil {
		t.Fatal("expected error for unknown media type")
	}
	assertAppErrorCode(t, err, 404)
}

func TestChooserUploadRequiresSession(t *testing.T) {
	h := newChooserHandler(&mockMediaService{})

	c := newUploadContext(t, map[string]string{"title": "X"}, "x.mp3", []byte("x"))
	c.SetParamNames("media_type")
	c.SetParamValues("audio")

	err := h.ChooserUpload(c)
	if err == nil {
		t.Fatal("expected error for anonymous upload")
	}
	assertAppErrorCode(t, err, 401)
}

func TestChooserUploadSuccess(t *testing.T) {
	service := &mockMediaService{
		createFromUploadFn: func(ctx context.Context, form *UploadForm, uploadedBy string) (*MediaAsset, error) {
			if uploadedBy != "u-admin" {
				t.Errorf("uploadedBy = %q", uploadedBy)
			}
			if form.Slug != "audio" {
				t.Errorf("form slug = %q", form.Slug)
			}
			return &MediaAsset{ID: "m9", Title: form.Title, Type: form.Slug, CreatedAt: time.Now()}, nil
		},
	}
	h := newChooserHandler(service)

	c := newUploadContext(t, map[string]string{"title": "Ocean waves"}, "waves.mp3", []byte("x"))
	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	c.SetParamNames("media_type")
	c.SetParamValues("audio")
	auth.SetSession(c, adminSession())

	if err := h.ChooserUpload(c); err != nil {
		t.Fatalf("ChooserUpload: %v", err)
	}

	resp := decodeModalResponse(t, rec.Body.Bytes())
	if resp.Step != StepMediaChosen {
		t.Errorf("step = %q", resp.Step)
	}
	if resp.Result == nil {
		t.Fatal("missing result")
	}
	if resp.Result.ID != "m9" || resp.Result.Title != "Ocean waves" {
		t.Errorf("result = %+v", resp.Result)
	}
	if resp.Result.EditURL != "/admin/media/m9/edit" {
		t.Errorf("edit_url = %q", resp.Result.EditURL)
	}
}

func TestChooserUploadInvalidRerendersModal(t *testing.T) {
	// createFromUploadFn is nil: a call would panic, proving an invalid
	// form never reaches the service.
	h := newChooserHandler(&mockMediaService{})

	c := newUploadContext(t, nil, "waves.mp3", []byte("x")) // no title
	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	c.SetParamNames("media_type")
	c.SetParamValues("audio")
	auth.SetSession(c, adminSession())

	if err := h.ChooserUpload(c); err != nil {
		t.Fatalf("ChooserUpload: %v", err)
	}

	resp := decodeModalResponse(t, rec.Body.Bytes())
	if resp.Step != StepChooser {
		t.Errorf("step = %q", resp.Step)
	}
	if !strings.Contains(resp.HTML, "This field is required.") {
		t.Error("expected the validation message in the re-rendered modal")
	}
	if !strings.Contains(resp.HTML, "errors-count") {
		t.Error("expected the tab error count badge")
	}
	// The re-render must carry the full form set, not just the failed type.
	for _, slug := range MediaTypeSlugs() {
		if !strings.Contains(resp.HTML, "upload-"+slug) {
			t.Errorf("re-rendered modal is missing the %s upload tab", slug)
		}
	}
}

// --- selection commit ---

func TestMediaChosen(t *testing.T) {
	service := &mockMediaService{
		getByIDFn: func(ctx context.Context, id string) (*MediaAsset, error) {
			if id != "m3" {
				t.Errorf("id = %q", id)
			}
			return &MediaAsset{ID: "m3", Title: "Skyline", Type: "video"}, nil
		},
	}
	h := newChooserHandler(service)

	c, rec := newGetContext("/admin/media/chosen/m3", adminSession())
	c.SetParamNames("media_id")
	c.SetParamValues("m3")
	if err := h.MediaChosen(c); err != nil {
		t.Fatalf("MediaChosen: %v", err)
	}

	resp := decodeModalResponse(t, rec.Body.Bytes())
	if resp.Step != StepMediaChosen {
		t.Errorf("step = %q", resp.Step)
	}
	if resp.Result == nil || resp.Result.ID != "m3" || resp.Result.Title != "Skyline" {
		t.Errorf("result = %+v", resp.Result)
	}
}
