// Package dom is a small element tree with event dispatch, focus and hover
// tracking, fed by bubbletea key and mouse messages.
//
// Key messages become keydown events on the focused element. Mouse motion is
// hit tested against mounted element rectangles and turned into
// pointerenter/pointerleave/pointerover; a left press becomes pointerdown and
// the matching release becomes click. Focus and blur are dispatched by Focus.
//
// Operations on elements that are not mounted are no-ops, never errors.
package dom

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flyout/pkg/flyout/mouse"
)

// Source is the capability to listen for element events.
type Source interface {
	On(el *Element, typ EventType, h Handler) func()
}

// Focuser moves input focus.
type Focuser interface {
	Focus(el *Element) tea.Cmd
	Focused() *Element
}

type listener struct {
	h      Handler
	active bool
}

// Document owns mounted element trees and routes input to them.
type Document struct {
	layers    []*Element
	listeners map[*Element]map[EventType][]*listener
	global    map[EventType][]*listener

	focused *Element
	hovered []*Element
	pressed *Element
	mouse   *mouse.Handler

	logger *slog.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDocument returns an empty document.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		listeners: make(map[*Element]map[EventType][]*listener),
		global:    make(map[EventType][]*listener),
		mouse:     mouse.NewHandler(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mount attaches el as a new top layer. Later layers are hit tested first.
// Mounting an element that is already mounted moves it to the top.
func (d *Document) Mount(el *Element) {
	if el == nil {
		return
	}
	if el.parent != nil {
		el.parent.Remove(el)
	}
	d.removeLayer(el)
	d.layers = append(d.layers, el)
	d.attachTree(el)
}

// Unmount detaches a layer mounted with Mount, or removes el from its
// parent. Focus and hover inside el are dropped without events.
func (d *Document) Unmount(el *Element) {
	if el == nil || el.doc != d {
		return
	}
	if el.parent != nil {
		el.parent.Remove(el)
		return
	}
	d.removeLayer(el)
	d.detachTree(el)
}

// Layers returns mounted top-level elements in paint order.
func (d *Document) Layers() []*Element {
	return append([]*Element(nil), d.layers...)
}

func (d *Document) removeLayer(el *Element) {
	for i, l := range d.layers {
		if l == el {
			d.layers = append(d.layers[:i], d.layers[i+1:]...)
			return
		}
	}
}

func (d *Document) attachTree(el *Element) {
	el.walk(func(n *Element) { n.doc = d })
}

func (d *Document) detachTree(el *Element) {
	el.walk(func(n *Element) { n.doc = nil })
	if el.Contains(d.focused) {
		d.focused = nil
	}
	if el.Contains(d.pressed) {
		d.pressed = nil
	}
	kept := d.hovered[:0]
	for _, h := range d.hovered {
		if !el.Contains(h) {
			kept = append(kept, h)
		}
	}
	d.hovered = kept
}

// On registers h for events of typ whose propagation path includes el. The
// returned function removes the listener and is safe to call repeatedly.
func (d *Document) On(el *Element, typ EventType, h Handler) func() {
	l := &listener{h: h, active: true}
	if el == nil {
		d.global[typ] = append(d.global[typ], l)
		return d.offFunc(l, func() []*listener { return d.global[typ] }, func(ls []*listener) { d.global[typ] = ls })
	}
	byType := d.listeners[el]
	if byType == nil {
		byType = make(map[EventType][]*listener)
		d.listeners[el] = byType
	}
	byType[typ] = append(byType[typ], l)
	return d.offFunc(l, func() []*listener { return d.listeners[el][typ] }, func(ls []*listener) {
		if len(ls) == 0 {
			delete(d.listeners[el], typ)
			if len(d.listeners[el]) == 0 {
				delete(d.listeners, el)
			}
			return
		}
		d.listeners[el][typ] = ls
	})
}

// OnDocument registers h for every event of typ that reaches the document
// (bubbling events, and events dispatched with no target).
func (d *Document) OnDocument(typ EventType, h Handler) func() {
	return d.On(nil, typ, h)
}

func (d *Document) offFunc(l *listener, get func() []*listener, set func([]*listener)) func() {
	return func() {
		if !l.active {
			return
		}
		l.active = false
		ls := get()
		for i, other := range ls {
			if other == l {
				set(append(ls[:i:i], ls[i+1:]...))
				return
			}
		}
	}
}

// Listeners returns the number of live listeners, document-level included.
func (d *Document) Listeners() int {
	n := 0
	for _, byType := range d.listeners {
		for _, ls := range byType {
			n += len(ls)
		}
	}
	for _, ls := range d.global {
		n += len(ls)
	}
	return n
}

// Dispatch delivers ev to its target, then up through the ancestors and the
// document for bubbling types, and returns the batched handler commands.
func (d *Document) Dispatch(ev *Event) tea.Cmd {
	var cmds []tea.Cmd
	run := func(ls []*listener) {
		for _, l := range append([]*listener(nil), ls...) {
			if l.active {
				cmds = append(cmds, l.h(ev))
			}
		}
	}

	if ev.Target != nil {
		for n := ev.Target; n != nil; n = n.parent {
			ev.CurrentTarget = n
			run(d.listeners[n][ev.Type])
			if ev.stopped || !ev.Type.Bubbles() {
				break
			}
		}
	}
	if ev.Target == nil || (ev.Type.Bubbles() && !ev.stopped) {
		ev.CurrentTarget = nil
		run(d.global[ev.Type])
	}
	return tea.Batch(cmds...)
}

// Focused returns the element holding focus, or nil.
func (d *Document) Focused() *Element {
	return d.focused
}

// Focus moves focus to el, dispatching blur then focus. Unmounted or nil
// elements are ignored.
func (d *Document) Focus(el *Element) tea.Cmd {
	if el == nil || el.doc != d || el == d.focused {
		return nil
	}
	old := d.focused
	d.focused = el
	d.logger.Debug("focus", "from", elementID(old), "to", el.ID)

	var cmds []tea.Cmd
	if old != nil {
		cmds = append(cmds, d.Dispatch(&Event{Type: Blur, Target: old, Related: el}))
	}
	cmds = append(cmds, d.Dispatch(&Event{Type: Focus, Target: el, Related: old}))
	return tea.Batch(cmds...)
}

// Blur clears focus.
func (d *Document) Blur() tea.Cmd {
	old := d.focused
	if old == nil {
		return nil
	}
	d.focused = nil
	return d.Dispatch(&Event{Type: Blur, Target: old})
}

// Hovered returns the deepest element under the pointer, or nil.
func (d *Document) Hovered() *Element {
	if len(d.hovered) == 0 {
		return nil
	}
	return d.hovered[0]
}

// PointerMove moves the pointer onto target (nil for empty space), firing
// pointerleave for elements left, pointerenter for elements entered and
// pointerover on a new target.
func (d *Document) PointerMove(target *Element) tea.Cmd {
	if target != nil && target.doc != d {
		target = nil
	}
	if target == d.Hovered() {
		return nil
	}

	var chain []*Element
	for n := target; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	old := d.hovered
	d.hovered = chain

	var cmds []tea.Cmd
	for _, n := range old {
		if !containsElement(chain, n) && n.doc == d {
			cmds = append(cmds, d.Dispatch(&Event{Type: PointerLeave, Target: n, Related: target}))
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if !containsElement(old, chain[i]) {
			cmds = append(cmds, d.Dispatch(&Event{Type: PointerEnter, Target: chain[i]}))
		}
	}
	if target != nil {
		cmds = append(cmds, d.Dispatch(&Event{Type: PointerOver, Target: target}))
	}
	return tea.Batch(cmds...)
}

// Update translates key and mouse messages into element events. Other
// messages are ignored.
func (d *Document) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.Dispatch(&Event{Type: KeyDown, Target: d.focused, Key: msg})
	case tea.MouseMsg:
		return d.handleMouse(msg)
	}
	return nil
}

func (d *Document) handleMouse(msg tea.MouseMsg) tea.Cmd {
	d.rebuildHitMap()
	action := d.mouse.HandleMouse(msg)
	target := regionElement(action.Region)

	switch action.Type {
	case mouse.ActionHover:
		return d.PointerMove(target)
	case mouse.ActionClick, mouse.ActionDoubleClick:
		move := d.PointerMove(target)
		d.pressed = target
		down := d.Dispatch(&Event{Type: PointerDown, Target: target, X: msg.X, Y: msg.Y})
		return tea.Batch(move, down)
	case mouse.ActionRelease:
		pressed := d.pressed
		d.pressed = nil
		if pressed == nil || pressed != target {
			return nil
		}
		return d.Dispatch(&Event{Type: Click, Target: target, X: msg.X, Y: msg.Y})
	case mouse.ActionScrollUp, mouse.ActionScrollDown, mouse.ActionScrollLeft, mouse.ActionScrollRight:
		dx, dy := action.ScrollDelta()
		return d.Dispatch(&Event{Type: Wheel, Target: target, X: msg.X, Y: msg.Y, DX: dx, DY: dy})
	}
	return nil
}

func (d *Document) rebuildHitMap() {
	d.mouse.Clear()
	for _, layer := range d.layers {
		layer.walk(func(n *Element) {
			if !n.Rect.Empty() {
				d.mouse.HitMap.Add(mouse.Region{ID: n.ID, Rect: n.Rect, Data: n})
			}
		})
	}
}

func regionElement(r *mouse.Region) *Element {
	if r == nil {
		return nil
	}
	el, _ := r.Data.(*Element)
	return el
}

func containsElement(list []*Element, el *Element) bool {
	for _, n := range list {
		if n == el {
			return true
		}
	}
	return false
}

func elementID(el *Element) string {
	if el == nil {
		return ""
	}
	return el.ID
}
