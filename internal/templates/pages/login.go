// Package pages renders the full admin pages: login, errors, and the media
// index and edit views. Like the chooser templates, components take plain
// view-model structs mapped by the handlers.
package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/curiocms/curio/internal/templates/layouts"
)

// Login renders the login page. errMsg, when non-empty, is shown above the
// form.
func Login(csrfToken, errMsg string) templ.Component {
	form := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<div class="login-box"><h1>Sign in to Curio</h1>`)
		if errMsg != "" {
			fmt.Fprintf(w, `<p class="message message--error">%s</p>`, html.EscapeString(errMsg))
		}
		fmt.Fprint(w, `<form action="/login" method="post">`)
		fmt.Fprintf(w, `<input type="hidden" name="csrf_token" value="%s">`, html.EscapeString(csrfToken))
		fmt.Fprint(w, `<div class="field"><label for="email">Email</label><input type="email" id="email" name="email" autocomplete="username" required></div>`)
		fmt.Fprint(w, `<div class="field"><label for="password">Password</label><input type="password" id="password" name="password" autocomplete="current-password" required></div>`)
		fmt.Fprint(w, `<button type="submit" class="button button--primary">Sign in</button>`)
		fmt.Fprint(w, `</form></div>`)
		return nil
	})
	return layouts.Base("Sign in", form)
}
