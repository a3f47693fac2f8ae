// Package sanitize provides sanitization for user-entered asset metadata.
// Uses bluemonday to strip any HTML from titles and to restrict description
// markup to a small safe subset before it is stored or rendered.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	descPolicy   *bluemonday.Policy
	policyOnce   sync.Once
)

// initPolicies builds the shared policies on first use.
func initPolicies() {
	policyOnce.Do(func() {
		// Titles and tag names must be plain text.
		strictPolicy = bluemonday.StrictPolicy()

		// Descriptions may carry minimal inline formatting.
		descPolicy = bluemonday.NewPolicy()
		descPolicy.AllowElements("b", "i", "em", "strong", "br", "p")
	})
}

// Plain strips all HTML from user-entered text (asset titles, tag names)
// and trims surrounding whitespace. MUST be applied before storing any
// user-provided text field.
func Plain(input string) string {
	if input == "" {
		return ""
	}
	initPolicies()
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}

// Description sanitizes an asset description, allowing only minimal inline
// formatting. The output is safe for rendering via innerHTML.
func Description(input string) string {
	if input == "" {
		return ""
	}
	initPolicies()
	return strings.TrimSpace(descPolicy.Sanitize(input))
}
