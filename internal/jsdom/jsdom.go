//go:build js && wasm

// Package jsdom backs the widget's Page with the browser DOM.
package jsdom

import (
	"fmt"
	"sync"
	"syscall/js"

	"github.com/evcraddock/parlante-widget/internal/client"
	"github.com/evcraddock/parlante-widget/internal/widget"
)

var _ widget.Page = (*Page)(nil)

// Page drives the document of the hosting browser window.
type Page struct {
	doc js.Value

	mu    sync.Mutex
	funcs map[string]js.Func
}

// New returns a Page over the global document.
func New() *Page {
	return NewPage(js.Global().Get("document"))
}

// NewPage returns a Page over doc, which must provide getElementById.
func NewPage(doc js.Value) *Page {
	return &Page{doc: doc, funcs: map[string]js.Func{}}
}

func (p *Page) element(id string) (js.Value, error) {
	el := p.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, fmt.Errorf("%w: #%s", widget.ErrElementNotFound, id)
	}
	return el, nil
}

// SetInnerHTML implements widget.Page.
func (p *Page) SetInnerHTML(id, html string) error {
	el, err := p.element(id)
	if err != nil {
		return err
	}
	el.Set("innerHTML", html)
	return nil
}

// Value implements widget.Page.
func (p *Page) Value(id string) (string, error) {
	el, err := p.element(id)
	if err != nil {
		return "", err
	}
	v := el.Get("value")
	if v.IsUndefined() || v.IsNull() {
		return "", nil
	}
	return v.String(), nil
}

// SetDisplay implements widget.Page.
func (p *Page) SetDisplay(id, display string) error {
	el, err := p.element(id)
	if err != nil {
		return err
	}
	el.Get("style").Set("display", display)
	return nil
}

// OnClick implements widget.Page. The handler runs on its own goroutine so
// network calls made from it do not block the browser event loop.
func (p *Page) OnClick(id string, fn func()) error {
	el, err := p.element(id)
	if err != nil {
		return err
	}

	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		go fn()
		return nil
	})

	p.mu.Lock()
	if old, ok := p.funcs[id]; ok {
		old.Release()
	}
	p.funcs[id] = cb
	p.mu.Unlock()

	el.Set("onclick", cb)
	return nil
}

// Environment reads the visitor's locale, timezone and page address.
func Environment() client.Environment {
	return environmentFrom(js.Global())
}

func environmentFrom(global js.Value) client.Environment {
	env := client.Environment{
		Locale:  stringOrEmpty(property(global, "navigator", "language")),
		PageURL: stringOrEmpty(property(global, "location", "href")),
	}
	if intl := property(global, "Intl"); intl.Type() == js.TypeObject {
		opts := intl.Call("DateTimeFormat").Call("resolvedOptions")
		env.Timezone = stringOrEmpty(opts.Get("timeZone"))
	}
	return env.WithDefaults()
}

// property follows a chain of property names, stopping at the first value
// that is not an object.
func property(v js.Value, names ...string) js.Value {
	for _, name := range names {
		if v.Type() != js.TypeObject && v.Type() != js.TypeFunction {
			return js.Undefined()
		}
		v = v.Get(name)
	}
	return v
}

// stringOrEmpty returns v as a Go string, or "" when it is not a string.
func stringOrEmpty(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}
