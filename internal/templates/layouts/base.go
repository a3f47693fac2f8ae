package layouts

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// Base wraps page content in the admin HTML shell: head, header bar with
// the user menu, and footer.
func Base(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		fmt.Fprint(w, `<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(w, "<title>%s - Curio</title>", html.EscapeString(title))
		fmt.Fprint(w, `<link rel="stylesheet" href="/static/css/admin.css">`)
		fmt.Fprint(w, "</head><body>")

		fmt.Fprint(w, `<header class="admin-header"><a class="admin-header__brand" href="/admin/media/">Curio</a>`)
		if IsAuthenticated(ctx) {
			fmt.Fprintf(w, `<div class="admin-header__user"><span>%s</span>`, html.EscapeString(UserName(ctx)))
			fmt.Fprintf(w, `<form action="/logout" method="post"><input type="hidden" name="csrf_token" value="%s"><button type="submit" class="button button--link">Log out</button></form></div>`,
				html.EscapeString(CSRFToken(ctx)))
		}
		fmt.Fprint(w, "</header>")

		fmt.Fprint(w, `<main class="admin-main">`)
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		fmt.Fprint(w, "</main>")

		fmt.Fprint(w, `<script src="/static/js/chooser-modal.js"></script>`)
		fmt.Fprint(w, "</body></html>")
		return nil
	})
}
