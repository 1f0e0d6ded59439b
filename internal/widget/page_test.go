package widget

import (
	"fmt"
	"sync"
)

// fakePage is a Page that records what the widget does to each element.
type fakePage struct {
	mu       sync.Mutex
	missing  map[string]bool
	inner    map[string]string
	values   map[string]string
	display  map[string]string
	handlers map[string]func()
}

func newFakePage() *fakePage {
	return &fakePage{
		missing:  map[string]bool{},
		inner:    map[string]string{},
		values:   map[string]string{},
		display:  map[string]string{},
		handlers: map[string]func(){},
	}
}

func (p *fakePage) check(id string) error {
	if p.missing[id] {
		return fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	return nil
}

func (p *fakePage) SetInnerHTML(id, html string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(id); err != nil {
		return err
	}
	p.inner[id] = html
	return nil
}

func (p *fakePage) Value(id string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(id); err != nil {
		return "", err
	}
	return p.values[id], nil
}

func (p *fakePage) SetDisplay(id, display string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(id); err != nil {
		return err
	}
	p.display[id] = display
	return nil
}

func (p *fakePage) OnClick(id string, fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(id); err != nil {
		return err
	}
	p.handlers[id] = fn
	return nil
}

func (p *fakePage) click(id string) bool {
	p.mu.Lock()
	fn, ok := p.handlers[id]
	p.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

func (p *fakePage) innerOf(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inner[id]
}

func (p *fakePage) displayOf(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display[id]
}
