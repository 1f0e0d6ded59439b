package widget

import "github.com/microcosm-cc/bluemonday"

// NewSanitizer returns a user-generated-content policy that keeps the
// elements and attributes the comment form relies on.
func NewSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("form", "label", "input", "textarea", "button")
	p.AllowAttrs("id", "class").Globally()
	p.AllowAttrs("type", "name", "value", "placeholder", "for", "rows", "cols").Globally()
	p.AllowStyles("display").Globally()
	return p
}
