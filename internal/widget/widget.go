// Package widget implements the embeddable comment widget: a Loader that
// injects the service's rendered thread into a page and a Submitter that
// posts the visitor's comment and flips the form into its result state.
//
// The widget never touches a DOM directly. It drives a Page, which is backed
// by the browser in the wasm build and by an in-memory document elsewhere.
package widget

import (
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/evcraddock/parlante-widget/internal/client"
)

// LoadFailedMessage replaces the container content when the thread cannot be fetched.
const LoadFailedMessage = "Failed to load comments"

// Display values used to toggle the result containers.
const (
	DisplayNone  = "none"
	DisplayBlock = "block"
)

var (
	// ErrElementNotFound is returned by a Page when an id matches no element.
	ErrElementNotFound = errors.New("element not found")
	// ErrLoadFailed marks a transport failure while fetching the thread.
	ErrLoadFailed = errors.New("failed to load comments")
	// ErrSubmitFailed marks a transport failure while posting a comment.
	ErrSubmitFailed = errors.New("failed to submit comment")
	// ErrFormUnavailable means the author or content input is missing.
	ErrFormUnavailable = errors.New("comment form unavailable")
)

// ElementIDs names every element the widget reads or writes.
type ElementIDs struct {
	Submit  string
	Author  string
	Content string
	Form    string
	Success string
	Error   string
}

// DefaultElementIDs returns the ids used by the parlante thread fragment.
func DefaultElementIDs() ElementIDs {
	return ElementIDs{
		Submit:  "parlante-submit",
		Author:  "parlante-author",
		Content: "parlante-content",
		Form:    "parlante-add-comment",
		Success: "parlante-add-ok",
		Error:   "parlante-add-error",
	}
}

// Page is the part of a document the widget manipulates.
type Page interface {
	SetInnerHTML(id, html string) error
	Value(id string) (string, error)
	SetDisplay(id, display string) error
	OnClick(id string, fn func()) error
}

// Sanitizer cleans fetched markup before it is injected.
type Sanitizer interface {
	Sanitize(html string) string
}

// Widget binds a comment thread on the service to a page.
type Widget struct {
	client    *client.Client
	clientID  string
	page      Page
	ids       ElementIDs
	env       client.Environment
	sanitizer Sanitizer
	logger    *slog.Logger
	inflight  singleflight.Group
}

// Option configures a Widget.
type Option func(*Widget)

// WithElementIDs overrides the default element ids.
func WithElementIDs(ids ElementIDs) Option {
	return func(w *Widget) { w.ids = ids }
}

// WithEnvironment sets the locale, timezone and page URL sent with requests.
// Empty locale or timezone fall back to the process defaults.
func WithEnvironment(env client.Environment) Option {
	return func(w *Widget) { w.env = env.WithDefaults() }
}

// WithSanitizer cleans the fetched fragment before injection. Without it the
// service's markup is trusted and injected verbatim.
func WithSanitizer(s Sanitizer) Option {
	return func(w *Widget) { w.sanitizer = s }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.logger = l }
}

// New creates a widget for the thread identified by clientID.
func New(c *client.Client, clientID string, page Page, opts ...Option) *Widget {
	w := &Widget{
		client:   c,
		clientID: clientID,
		page:     page,
		ids:      DefaultElementIDs(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.env.Locale == "" || w.env.Timezone == "" {
		w.env = w.env.WithDefaults()
	}
	return w
}

// ElementIDs returns the ids this widget uses.
func (w *Widget) ElementIDs() ElementIDs {
	return w.ids
}
