// Package dom provides an in-memory HTML document that the comment widget
// can drive outside a browser.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/evcraddock/parlante-widget/internal/widget"
)

// ErrNoHandler is returned by Click when nothing is bound to the element.
var ErrNoHandler = errors.New("no click handler bound")

var _ widget.Page = (*Document)(nil)

// Document is a parsed HTML page with click handlers attached to elements.
type Document struct {
	mu       sync.Mutex
	root     *html.Node
	handlers map[*html.Node]func()
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{root: root, handlers: map[*html.Node]func(){}}, nil
}

// Blank returns a page whose body holds a single empty container.
func Blank(containerID string) *Document {
	markup := fmt.Sprintf(`<!DOCTYPE html><html><head></head><body><div id="%s"></div></body></html>`,
		html.EscapeString(containerID))
	doc, err := Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors.
		panic(err)
	}
	return doc
}

// SetInnerHTML replaces the children of the element with the parsed markup.
// Handlers bound inside the replaced subtree are dropped.
func (d *Document) SetInnerHTML(id, markup string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.element(id)
	if err != nil {
		return err
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("parsing fragment for #%s: %w", id, err)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		d.unbind(c)
		n.RemoveChild(c)
		c = next
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// InnerHTML renders the children of the element.
func (d *Document) InnerHTML(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.element(id)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering #%s: %w", id, err)
		}
	}
	return buf.String(), nil
}

// Value returns the current value of an input or textarea.
func (d *Document) Value(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.element(id)
	if err != nil {
		return "", err
	}
	if n.Data == "textarea" {
		return textContent(n), nil
	}
	return attr(n, "value"), nil
}

// SetValue sets the value of an input or textarea, as typing would.
func (d *Document) SetValue(id, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.element(id)
	if err != nil {
		return err
	}
	if n.Data == "textarea" {
		for n.FirstChild != nil {
			n.RemoveChild(n.FirstChild)
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		return nil
	}
	setAttr(n, "value", value)
	return nil
}

// SetDisplay sets the element's CSS display property in its style attribute.
func (d *Document) SetDisplay(id, display string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.element(id)
	if err != nil {
		return err
	}
	setAttr(n, "style", setStyleProperty(attr(n, "style"), "display", display))
	return nil
}

// Display returns the element's inline CSS display value, or "" if unset.
func (d *Document) Display(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.element(id)
	if err != nil {
		return "", err
	}
	return styleProperty(attr(n, "style"), "display"), nil
}

// OnClick binds fn to the element, replacing any earlier handler.
func (d *Document) OnClick(id string, fn func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.element(id)
	if err != nil {
		return err
	}
	d.handlers[n] = fn
	return nil
}

// Click runs the handler bound to the element and waits for it to return.
func (d *Document) Click(id string) error {
	d.mu.Lock()
	n, err := d.element(id)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	fn, ok := d.handlers[n]
	d.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: #%s", ErrNoHandler, id)
	}
	fn()
	return nil
}

// Has reports whether an element with the id exists.
func (d *Document) Has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.element(id)
	return err == nil
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// element returns the first element in document order with the id.
func (d *Document) element(id string) (*html.Node, error) {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)

	if found == nil {
		return nil, fmt.Errorf("%w: #%s", widget.ErrElementNotFound, id)
	}
	return found, nil
}

// unbind drops handlers for n and its descendants.
func (d *Document) unbind(n *html.Node) {
	delete(d.handlers, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.unbind(c)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
