package pages

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/curiocms/curio/internal/templates/layouts"
)

// ErrorPage renders a full-page error for browser navigation. XHR clients
// get JSON from the error handler instead and never see this.
func ErrorPage(statusCode int, message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<div class="error-page"><h1>%d %s</h1>`,
			statusCode, html.EscapeString(http.StatusText(statusCode)))
		if message != "" {
			fmt.Fprintf(w, `<p>%s</p>`, html.EscapeString(message))
		}
		fmt.Fprint(w, `<p><a href="/admin/media/">Back to media</a></p></div>`)
		return nil
	})
	return layouts.Base(http.StatusText(statusCode), body)
}
