package page

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownPanel is returned when a button targets a panel that was not
// registered at initialization.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel is a block of content shown or hidden as a unit.
type Panel struct {
	ID      string
	Visible bool
}

// Button is a tab trigger. Target is the id of the panel it shows.
type Button struct {
	Label  string
	Target string
}

// Tabs holds a fixed set of buttons and panels established at construction.
// Initial visibility is whatever the caller passes in.
type Tabs struct {
	mu      sync.RWMutex
	buttons []Button
	panels  []Panel
	index   map[string]int
}

// NewTabs wires buttons to panels. Every button must target a known panel
// and panel ids must be unique.
func NewTabs(panels []Panel, buttons []Button) (*Tabs, error) {
	t := &Tabs{
		buttons: append([]Button(nil), buttons...),
		panels:  append([]Panel(nil), panels...),
		index:   make(map[string]int, len(panels)),
	}
	for i, p := range t.panels {
		if _, dup := t.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate panel %q", p.ID)
		}
		t.index[p.ID] = i
	}
	for _, b := range t.buttons {
		if _, ok := t.index[b.Target]; !ok {
			return nil, fmt.Errorf("button %q: %w %q", b.Label, ErrUnknownPanel, b.Target)
		}
	}
	return t, nil
}

// Click hides every panel and then shows target.
func (t *Tabs) Click(target string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx, ok := t.index[target]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPanel, target)
	}
	for i := range t.panels {
		t.panels[i].Visible = false
	}
	t.panels[idx].Visible = true
	return nil
}

// ClickButton clicks the i-th button.
func (t *Tabs) ClickButton(i int) error {
	t.mu.RLock()
	if i < 0 || i >= len(t.buttons) {
		t.mu.RUnlock()
		return fmt.Errorf("button index %d out of range", i)
	}
	target := t.buttons[i].Target
	t.mu.RUnlock()
	return t.Click(target)
}

// Visible returns the ids of the visible panels in declaration order.
func (t *Tabs) Visible() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var ids []string
	for _, p := range t.panels {
		if p.Visible {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// IsVisible reports whether panel id is shown.
func (t *Tabs) IsVisible(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx, ok := t.index[id]
	return ok && t.panels[idx].Visible
}

func (t *Tabs) Panels() []Panel {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Panel(nil), t.panels...)
}

func (t *Tabs) Buttons() []Button {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Button(nil), t.buttons...)
}
