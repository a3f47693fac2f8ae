package media

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestMediaTypeGate(t *testing.T) {
	gate := mediaTypeGate()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	for _, slug := range MediaTypeSlugs() {
		req := httptest.NewRequest("POST", "/admin/media/chooser/"+slug+"/upload", nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.SetParamNames("media_type")
		c.SetParamValues(slug)
		if err := gate(next)(c); err != nil {
			t.Errorf("%s: gate rejected a registered slug: %v", slug, err)
		}
	}

	for _, slug := range []string{"banana", "", "AUDIO", "audio/video"} {
		req := httptest.NewRequest("POST", "/admin/media/chooser/x/upload", nil)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.SetParamNames("media_type")
		c.SetParamValues(slug)
		err := gate(next)(c)
		if err == nil {
			t.Errorf("%q: gate let an unregistered slug through", slug)
			continue
		}
		assertAppErrorCode(t, err, 404)
	}
}

func TestBodyLimitNotation(t *testing.T) {
	if got := bodyLimit(200 * 1024 * 1024); got != "205824K" {
		t.Errorf("bodyLimit = %q", got)
	}
}
