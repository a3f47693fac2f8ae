// Package chooser renders the media chooser modal and its results fragment.
// The components take plain view-model structs so the package stays free of
// domain imports; handlers map domain objects into these structs.
package chooser

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// CollectionOption is one entry in the collection filter dropdown.
type CollectionOption struct {
	ID   string
	Name string
}

// ResultItem is one row in the chooser results list.
type ResultItem struct {
	ID        string
	Title     string
	TypeLabel string
	CreatedAt string
	ChosenURL string
}

// ResultsData drives the results fragment: the paginated listing plus the
// filter state needed to build pagination links.
type ResultsData struct {
	Items       []ResultItem
	IsSearching bool
	SearchQuery string
	ChooserURL  string
	Ordering    string
	Collection  string
	Tag         string
	PageNumber  int
	TotalPages  int
	PageRange   []string
	PageGap     string
}

// UploadTab is one upload tab header in the modal.
type UploadTab struct {
	Slug        string
	TabID       string
	Label       string
	ErrorsCount int
}

// UploadFormData drives one per-type upload form body.
type UploadFormData struct {
	Slug           string
	Action         string
	AddButtonLabel string
	TitleName      string
	TitleValue     string
	CollectionName string
	TagsName       string
	TagsValue      string
	FileName       string
	Errors         map[string][]string
	Selected       bool
}

// ModalData drives the full chooser modal.
type ModalData struct {
	Title         string
	Icon          string
	MediaType     string
	SearchQuery   string
	Ordering      string
	ShowOrdering  bool
	ShowTagFilter bool
	Collections   []CollectionOption
	PopularTags   []string
	Tabs          []UploadTab
	Forms         []UploadFormData
	CSRFToken     string
	Results       ResultsData
}

// Results renders the listing fragment that replaces the modal's result
// area on search, filter, and pagination requests.
func Results(data ResultsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<div id="search-results" class="chooser-results">`)
		if len(data.Items) == 0 {
			if data.IsSearching {
				fmt.Fprintf(w, `<p class="chooser-results__empty">Sorry, no media items match &quot;%s&quot;</p>`,
					html.EscapeString(data.SearchQuery))
			} else {
				fmt.Fprint(w, `<p class="chooser-results__empty">You haven&#39;t uploaded any media items.</p>`)
			}
		} else {
			fmt.Fprint(w, `<table class="listing chooser-results__table"><thead><tr><th>Title</th><th>Type</th><th>Created</th></tr></thead><tbody>`)
			for _, item := range data.Items {
				fmt.Fprintf(w,
					`<tr data-media-id="%s"><td><a class="media-choice" href="%s" data-chooser-modal-choice>%s</a></td><td>%s</td><td>%s</td></tr>`,
					html.EscapeString(item.ID),
					html.EscapeString(item.ChosenURL),
					html.EscapeString(item.Title),
					html.EscapeString(item.TypeLabel),
					html.EscapeString(item.CreatedAt),
				)
			}
			fmt.Fprint(w, `</tbody></table>`)
		}
		renderPagination(w, data)
		fmt.Fprint(w, `</div>`)
		return nil
	})
}

func renderPagination(w io.Writer, data ResultsData) {
	if data.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(w, `<nav class="pagination" aria-label="Pagination"><p>Page %d of %d</p><ul>`,
		data.PageNumber, data.TotalPages)
	for _, label := range data.PageRange {
		if label == data.PageGap {
			fmt.Fprint(w, `<li class="pagination__gap">&hellip;</li>`)
			continue
		}
		href := pageURL(data, label)
		if label == fmt.Sprint(data.PageNumber) {
			fmt.Fprintf(w, `<li class="pagination__current">%s</li>`, label)
		} else {
			fmt.Fprintf(w, `<li><a href="%s" data-chooser-modal-page>%s</a></li>`, html.EscapeString(href), label)
		}
	}
	fmt.Fprint(w, `</ul></nav>`)
}

// pageURL rebuilds the chooser URL with the active filters and the target
// page so pagination never drops search or filter state.
func pageURL(data ResultsData, page string) string {
	u := data.ChooserURL + "?p=" + page
	if data.SearchQuery != "" {
		u += "&q=" + url.QueryEscape(data.SearchQuery)
	}
	if data.Ordering != "" {
		u += "&ordering=" + url.QueryEscape(data.Ordering)
	}
	if data.Collection != "" {
		u += "&collection_id=" + url.QueryEscape(data.Collection)
	}
	if data.Tag != "" {
		u += "&tag=" + url.QueryEscape(data.Tag)
	}
	return u
}

// Modal renders the full chooser modal: header, search and filter controls,
// the results area, and one upload tab per available media type.
func Modal(data ModalData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<div class="modal-content media-chooser" data-media-type="%s">`,
			html.EscapeString(data.MediaType))
		fmt.Fprintf(w, `<header class="modal-header"><span class="icon icon-%s" aria-hidden="true"></span><h1>%s</h1></header>`,
			html.EscapeString(data.Icon), html.EscapeString(data.Title))

		renderSearchControls(w, data)

		if err := Results(data.Results).Render(ctx, w); err != nil {
			return err
		}

		renderUploadTabs(w, data)

		fmt.Fprint(w, `</div>`)
		return nil
	})
}

func renderSearchControls(w io.Writer, data ModalData) {
	fmt.Fprintf(w, `<form class="chooser-search" action="%s" method="get" data-chooser-modal-search>`,
		html.EscapeString(data.Results.ChooserURL))
	fmt.Fprintf(w, `<input type="text" name="q" value="%s" placeholder="Search" aria-label="Search media">`,
		html.EscapeString(data.SearchQuery))

	if data.ShowOrdering {
		fmt.Fprint(w, `<select name="ordering" aria-label="Order results">`)
		orderings := []struct{ value, label string }{
			{"-created_at", "Newest first"},
			{"created_at", "Oldest first"},
			{"title", "Title (A-Z)"},
			{"-title", "Title (Z-A)"},
		}
		for _, o := range orderings {
			selected := ""
			if o.value == data.Ordering {
				selected = ` selected`
			}
			fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, o.value, selected, o.label)
		}
		fmt.Fprint(w, `</select>`)
	}

	if len(data.Collections) >= 2 {
		fmt.Fprint(w, `<select name="collection_id" aria-label="Collection"><option value="">All collections</option>`)
		for _, col := range data.Collections {
			fmt.Fprintf(w, `<option value="%s">%s</option>`,
				html.EscapeString(col.ID), html.EscapeString(col.Name))
		}
		fmt.Fprint(w, `</select>`)
	}

	fmt.Fprint(w, `</form>`)

	if data.ShowTagFilter && len(data.PopularTags) > 0 {
		fmt.Fprint(w, `<ul class="chooser-tags">`)
		for _, tag := range data.PopularTags {
			fmt.Fprintf(w, `<li><a class="tag" href="%s?tag=%s" data-chooser-modal-tag>%s</a></li>`,
				html.EscapeString(data.Results.ChooserURL),
				url.QueryEscape(tag),
				html.EscapeString(tag))
		}
		fmt.Fprint(w, `</ul>`)
	}
}

func renderUploadTabs(w io.Writer, data ModalData) {
	if len(data.Tabs) == 0 {
		return
	}
	fmt.Fprint(w, `<div class="tab-nav" role="tablist">`)
	for _, tab := range data.Tabs {
		fmt.Fprintf(w, `<a role="tab" href="#%s" aria-controls="%s">%s`,
			html.EscapeString(tab.TabID), html.EscapeString(tab.TabID), html.EscapeString(tab.Label))
		if tab.ErrorsCount > 0 {
			fmt.Fprintf(w, `<span class="errors-count">%d</span>`, tab.ErrorsCount)
		}
		fmt.Fprint(w, `</a>`)
	}
	fmt.Fprint(w, `</div>`)

	for _, form := range data.Forms {
		renderUploadForm(w, data, form)
	}
}

func renderUploadForm(w io.Writer, data ModalData, form UploadFormData) {
	hidden := ` hidden`
	if form.Selected {
		hidden = ""
	}
	fmt.Fprintf(w, `<section id="upload-%s" class="upload-panel"%s role="tabpanel">`,
		html.EscapeString(form.Slug), hidden)
	fmt.Fprintf(w, `<form action="%s" method="post" enctype="multipart/form-data" data-chooser-modal-upload>`,
		html.EscapeString(form.Action))
	fmt.Fprintf(w, `<input type="hidden" name="csrf_token" value="%s">`, html.EscapeString(data.CSRFToken))

	renderField(w, "Title", form.TitleName, "text", form.TitleValue, form.Errors["title"])
	renderField(w, "File", form.FileName, "file", "", form.Errors["file"])
	renderField(w, "Tags", form.TagsName, "text", form.TagsValue, form.Errors["tags"])

	if len(data.Collections) >= 2 {
		fmt.Fprintf(w, `<div class="field"><label for="%s">Collection</label><select id="%s" name="%s"><option value="">None</option>`,
			form.CollectionName, form.CollectionName, form.CollectionName)
		for _, col := range data.Collections {
			fmt.Fprintf(w, `<option value="%s">%s</option>`,
				html.EscapeString(col.ID), html.EscapeString(col.Name))
		}
		fmt.Fprint(w, `</select></div>`)
	}

	fmt.Fprintf(w, `<button type="submit" class="button">%s</button>`, html.EscapeString(form.AddButtonLabel))
	fmt.Fprint(w, `</form></section>`)
}

func renderField(w io.Writer, label, name, inputType, value string, errs []string) {
	cls := "field"
	if len(errs) > 0 {
		cls = "field field--error"
	}
	fmt.Fprintf(w, `<div class="%s"><label for="%s">%s</label>`, cls, html.EscapeString(name), label)
	if inputType == "file" {
		fmt.Fprintf(w, `<input type="file" id="%s" name="%s">`, html.EscapeString(name), html.EscapeString(name))
	} else {
		fmt.Fprintf(w, `<input type="text" id="%s" name="%s" value="%s">`,
			html.EscapeString(name), html.EscapeString(name), html.EscapeString(value))
	}
	for _, msg := range errs {
		fmt.Fprintf(w, `<p class="error-message">%s</p>`, html.EscapeString(msg))
	}
	fmt.Fprint(w, `</div>`)
}
