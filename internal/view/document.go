// Package view holds the per-session document model and the HTML renderer
// for its render targets.
package view

import (
	"html/template"
	"sync"
)

// Target names a render target. The value doubles as the DOM element id.
type Target string

const (
	TargetMenu       Target = "menu"
	TargetCategories Target = "categories"
	TargetMeals      Target = "meals"
	TargetDetails    Target = "meal-details"
)

// Targets lists every render target in page order.
var Targets = []Target{TargetMenu, TargetMeals, TargetDetails, TargetCategories}

// Change kinds.
const (
	ChangeRender     = "render"
	ChangeVisibility = "visibility"
	ChangeAlert      = "alert"
	ChangeNotice     = "notice"
)

// Change describes one mutation of a document, as streamed to the browser.
type Change struct {
	Kind    string `json:"-"`
	Target  Target `json:"target,omitempty"`
	HTML    string `json:"html,omitempty"`
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
}

// Surface is the view-model the browser components render into.
type Surface interface {
	// Begin issues a new generation for t and returns it.
	Begin(t Target) uint64
	// Render replaces the content of t if gen is still the latest generation
	// issued for t. It reports whether the render was applied.
	Render(t Target, gen uint64, html template.HTML) bool
	// SetVisible shows or hides t.
	SetVisible(t Target, visible bool)
	// Toggle flips the visibility of t and returns the new state.
	Toggle(t Target) bool
	// Alert raises a blocking user-facing message.
	Alert(msg string)
	// Notice reports a non-blocking diagnostic message.
	Notice(msg string)
}

// TargetView is the current content and visibility of one target.
type TargetView struct {
	HTML    template.HTML
	Visible bool
}

type targetState struct {
	html    template.HTML
	visible bool
	issued  uint64
}

// Document is the in-memory render tree of one browser session. It is safe
// for concurrent use; notify is called in mutation order under the lock.
type Document struct {
	id     string
	notify func(Change)

	mu      sync.Mutex
	targets map[Target]*targetState
}

var _ Surface = (*Document)(nil)

// NewDocument creates an empty document. The menu and the detail panel start
// hidden. notify may be nil.
func NewDocument(id string, notify func(Change)) *Document {
	d := &Document{
		id:      id,
		notify:  notify,
		targets: make(map[Target]*targetState, len(Targets)),
	}
	for _, t := range Targets {
		d.targets[t] = &targetState{visible: t != TargetMenu && t != TargetDetails}
	}
	return d
}

// ID returns the session id the document belongs to.
func (d *Document) ID() string {
	return d.id
}

func (d *Document) state(t Target) *targetState {
	st, ok := d.targets[t]
	if !ok {
		st = &targetState{visible: true}
		d.targets[t] = st
	}
	return st
}

func (d *Document) emit(c Change) {
	if d.notify != nil {
		d.notify(c)
	}
}

// Begin issues a new generation for t.
func (d *Document) Begin(t Target) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state(t)
	st.issued++
	return st.issued
}

// Generation returns the latest generation issued for t.
func (d *Document) Generation(t Target) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state(t).issued
}

// Render replaces the content of t when gen is current.
func (d *Document) Render(t Target, gen uint64, html template.HTML) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state(t)
	if gen != st.issued {
		return false
	}
	st.html = html
	d.emit(Change{Kind: ChangeRender, Target: t, HTML: string(html), Visible: st.visible})
	return true
}

// SetVisible shows or hides t. Setting the current state is a no-op.
func (d *Document) SetVisible(t Target, visible bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state(t)
	if st.visible == visible {
		return
	}
	st.visible = visible
	d.emit(Change{Kind: ChangeVisibility, Target: t, Visible: visible})
}

// Toggle flips the visibility of t.
func (d *Document) Toggle(t Target) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state(t)
	st.visible = !st.visible
	d.emit(Change{Kind: ChangeVisibility, Target: t, Visible: st.visible})
	return st.visible
}

// Alert raises a blocking user-facing message.
func (d *Document) Alert(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emit(Change{Kind: ChangeAlert, Message: msg})
}

// Notice reports a non-blocking diagnostic message.
func (d *Document) Notice(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emit(Change{Kind: ChangeNotice, Message: msg})
}

// View returns the current content and visibility of t.
func (d *Document) View(t Target) TargetView {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.state(t)
	return TargetView{HTML: st.html, Visible: st.visible}
}

// Snapshot returns one render change per target carrying its full state.
func (d *Document) Snapshot() []Change {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Change, 0, len(Targets))
	for _, t := range Targets {
		st := d.state(t)
		out = append(out, Change{Kind: ChangeRender, Target: t, HTML: string(st.html), Visible: st.visible})
	}
	return out
}
