// Package tags provides the tag widget: popular tags for the media chooser
// filter and the autocomplete endpoint behind its tag input.
package tags

// Tag is one tag with its usage count.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
