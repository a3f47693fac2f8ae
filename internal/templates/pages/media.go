package pages

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/curiocms/curio/internal/templates/layouts"
)

// MediaRow is one row in the media index listing.
type MediaRow struct {
	ID        string
	Title     string
	TypeLabel string
	CreatedAt string
	EditURL   string
}

// TypeFilter is one media type tab on the index page.
type TypeFilter struct {
	Slug   string
	Label  string
	Active bool
}

// MediaIndexData drives the media index page.
type MediaIndexData struct {
	Rows        []MediaRow
	TypeFilters []TypeFilter
	BaseURL     string
	ActiveType  string
	PageNumber  int
	TotalPages  int
	PageRange   []string
	PageGap     string
}

// MediaIndex renders the admin media listing.
func MediaIndex(data MediaIndexData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<h1>Media</h1>`)

		fmt.Fprint(w, `<nav class="type-filters">`)
		fmt.Fprintf(w, `<a href="%s"%s>All</a>`, html.EscapeString(data.BaseURL), activeAttr(data.ActiveType == ""))
		for _, tf := range data.TypeFilters {
			fmt.Fprintf(w, `<a href="%s?type=%s"%s>%s</a>`,
				html.EscapeString(data.BaseURL), html.EscapeString(tf.Slug),
				activeAttr(tf.Active), html.EscapeString(tf.Label))
		}
		fmt.Fprint(w, `</nav>`)

		if len(data.Rows) == 0 {
			fmt.Fprint(w, `<p>You haven&#39;t uploaded any media items.</p>`)
		} else {
			fmt.Fprint(w, `<table class="listing"><thead><tr><th>Title</th><th>Type</th><th>Created</th></tr></thead><tbody>`)
			for _, row := range data.Rows {
				fmt.Fprintf(w, `<tr><td><a href="%s">%s</a></td><td>%s</td><td>%s</td></tr>`,
					html.EscapeString(row.EditURL), html.EscapeString(row.Title),
					html.EscapeString(row.TypeLabel), html.EscapeString(row.CreatedAt))
			}
			fmt.Fprint(w, `</tbody></table>`)
		}

		if data.TotalPages > 1 {
			fmt.Fprintf(w, `<nav class="pagination" aria-label="Pagination"><p>Page %d of %d</p><ul>`,
				data.PageNumber, data.TotalPages)
			for _, label := range data.PageRange {
				if label == data.PageGap {
					fmt.Fprint(w, `<li class="pagination__gap">&hellip;</li>`)
					continue
				}
				href := data.BaseURL + "?p=" + label
				if data.ActiveType != "" {
					href += "&type=" + data.ActiveType
				}
				if label == fmt.Sprint(data.PageNumber) {
					fmt.Fprintf(w, `<li class="pagination__current">%s</li>`, label)
				} else {
					fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, html.EscapeString(href), label)
				}
			}
			fmt.Fprint(w, `</ul></nav>`)
		}
		return nil
	})
	return layouts.Base("Media", body)
}

func activeAttr(active bool) string {
	if active {
		return ` class="active" aria-current="page"`
	}
	return ""
}

// MediaEditData drives the media edit page.
type MediaEditData struct {
	ID            string
	Title         string
	TypeLabel     string
	OriginalName  string
	FileSizeLabel string
	CreatedAt     string
	Tags          []string
	CSRFToken     string
	UpdateURL     string
	DeleteURL     string
	Saved         bool
}

// MediaEdit renders the edit page for one asset: a title form plus the
// asset's read-only metadata.
func MediaEdit(data MediaEditData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>Editing %s</h1>`, html.EscapeString(data.Title))
		if data.Saved {
			fmt.Fprint(w, `<p class="message message--success">Media item updated.</p>`)
		}

		fmt.Fprintf(w, `<form action="%s" method="post">`, html.EscapeString(data.UpdateURL))
		fmt.Fprintf(w, `<input type="hidden" name="csrf_token" value="%s">`, html.EscapeString(data.CSRFToken))
		fmt.Fprintf(w, `<div class="field"><label for="title">Title</label><input type="text" id="title" name="title" value="%s" maxlength="255" required></div>`,
			html.EscapeString(data.Title))
		fmt.Fprint(w, `<button type="submit" class="button button--primary">Save</button>`)
		fmt.Fprint(w, `</form>`)

		fmt.Fprint(w, `<dl class="asset-meta">`)
		fmt.Fprintf(w, `<dt>Type</dt><dd>%s</dd>`, html.EscapeString(data.TypeLabel))
		fmt.Fprintf(w, `<dt>File</dt><dd>%s (%s)</dd>`,
			html.EscapeString(data.OriginalName), html.EscapeString(data.FileSizeLabel))
		fmt.Fprintf(w, `<dt>Uploaded</dt><dd>%s</dd>`, html.EscapeString(data.CreatedAt))
		if len(data.Tags) > 0 {
			fmt.Fprint(w, `<dt>Tags</dt><dd>`)
			for i, tag := range data.Tags {
				if i > 0 {
					fmt.Fprint(w, ", ")
				}
				fmt.Fprint(w, html.EscapeString(tag))
			}
			fmt.Fprint(w, `</dd>`)
		}
		fmt.Fprint(w, `</dl>`)

		fmt.Fprintf(w, `<form action="%s" method="post" class="delete-form">`, html.EscapeString(data.DeleteURL))
		fmt.Fprintf(w, `<input type="hidden" name="csrf_token" value="%s">`, html.EscapeString(data.CSRFToken))
		fmt.Fprint(w, `<button type="submit" class="button button--danger">Delete</button>`)
		fmt.Fprint(w, `</form>`)
		return nil
	})
	return layouts.Base("Editing "+data.Title, body)
}
