// Package menu wires click and keyboard input on a trigger element to a
// dropdown menu with an active item.
//
// The trigger toggles on click, enter and space. Down and up open the menu
// and, once the overlay has mounted, activate the first or last enabled
// item. While open, keys pressed inside the overlay drive a keynav.Manager
// over the overlay's menuitem descendants. Opening moves focus into the
// overlay on the turn after the open commits.
//
// Calling any method after Destroy is a programming error.
package menu

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flyout/pkg/flyout/aria"
	"github.com/marcus/flyout/pkg/flyout/attach"
	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/keynav"
	"github.com/marcus/flyout/pkg/flyout/placement"
	"github.com/marcus/flyout/pkg/flyout/state"
	"github.com/marcus/flyout/pkg/flyout/timer"
)

// ItemRole is the role that marks overlay descendants as menu items.
const ItemRole = "menuitem"

// NewItem returns a menu item element.
func NewItem(label string, disabled bool) *dom.Element {
	el := dom.NewElement(ItemRole, label)
	el.Disabled = disabled
	el.SetAttrs(aria.Item(disabled, false))
	return el
}

// KeyMap holds the keys the trigger and overlay react to, on top of the
// navigation keys in keynav.KeyMap.
type KeyMap struct {
	Toggle    key.Binding
	Select    key.Binding
	Close     key.Binding
	OpenFirst key.Binding
	OpenLast  key.Binding
	Tab       key.Binding
	Nav       keynav.KeyMap
}

// DefaultKeyMap returns the standard menu bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle menu")),
		Select:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select item")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close menu")),
		OpenFirst: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "open at first item")),
		OpenLast:  key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "open at last item")),
		Tab:       key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "close and move on")),
		Nav:       keynav.DefaultKeyMap(),
	}
}

// Options configures a Menu.
type Options struct {
	// Loop wraps navigation past either end.
	Loop                bool
	Typeahead           bool
	TypeaheadMatch      keynav.MatchMode
	CloseOnOutsideClick bool
	Placement           placement.Config

	// OnSelect runs when an enabled item is chosen, before the menu
	// closes.
	OnSelect func(item *dom.Element) tea.Cmd

	Keys   KeyMap
	Tick   timer.TickFunc
	Logger *slog.Logger
}

// DefaultOptions returns a looping, typeahead-enabled menu placed below its
// trigger that closes on outside clicks.
func DefaultOptions() Options {
	return Options{
		Loop:                true,
		Typeahead:           true,
		CloseOnOutsideClick: true,
		Placement:           placement.Config{Side: placement.Bottom, Align: placement.Start, Flip: true, Shift: true},
		Keys:                DefaultKeyMap(),
	}
}

type navTarget int

const (
	navNone navTarget = iota
	navFirst
	navLast
)

// Menu is one dropdown menu instance.
type Menu struct {
	doc  *dom.Document
	opts Options
	log  *slog.Logger

	open    *state.Cell[bool]
	overlay *state.Cell[*dom.Element]
	items   *state.Cell[[]*dom.Element]
	trigger *dom.Element

	nav    *keynav.Manager[*dom.Element]
	settle *timer.Settle
	attach *attach.Controller[placement.Config]

	pendingNav navTarget
	awaiting   bool
	unsubs     []func()
	bindings   map[*binding]struct{}
	destroyed  bool
}

// New creates a closed menu. Elements are wired with AttachTrigger and
// AttachOverlay.
func New(doc *dom.Document, placer attach.Placer[placement.Config], opts Options) *Menu {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Keys.Toggle.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}

	m := &Menu{
		doc:      doc,
		opts:     opts,
		log:      opts.Logger.With("widget", "menu"),
		open:     state.New(false),
		overlay:  state.New[*dom.Element](nil),
		items:    state.NewFunc[[]*dom.Element](nil, nil),
		settle:   timer.NewSettle(),
		bindings: make(map[*binding]struct{}),
	}
	m.nav = keynav.New(keynav.Config[*dom.Element]{
		Wrap:       opts.Loop,
		Vertical:   true,
		HomeAndEnd: true,
		Typeahead:  opts.Typeahead,
		Match:      opts.TypeaheadMatch,
		Skip:       func(el *dom.Element) bool { return el.Disabled },
		Label:      func(el *dom.Element) string { return el.Label },
		OnActivate: m.activate,
		TabOut:     func() tea.Cmd { return m.Hide(false) },
		Keys:       opts.Keys.Nav,
		Tick:       opts.Tick,
	})
	m.nav.Bind(m.items)

	m.open.SetEffect(m.onOpen)
	m.attach = attach.New(m.placeAndLayout(placer), opts.Placement, m.open, m.overlay, attach.WithLogger(m.log))
	m.unsubs = append(m.unsubs,
		m.overlay.Subscribe(m.overlayChanged),
		m.open.Subscribe(func(bool) { m.syncAttrs() }),
		doc.OnDocument(dom.PointerDown, m.outsidePointerDown),
	)
	return m
}

// Open returns the open state. Callers may subscribe but should change it
// through Show, Hide and Toggle.
func (m *Menu) Open() *state.Cell[bool] {
	return m.open
}

// IsOpen reports whether the menu is open.
func (m *Menu) IsOpen() bool {
	return m.open.Get()
}

// Overlay returns the attached overlay element, or nil.
func (m *Menu) Overlay() *dom.Element {
	return m.overlay.Get()
}

// Items returns the current menu items.
func (m *Menu) Items() []*dom.Element {
	return m.items.Get()
}

// Active returns the active item, or nil.
func (m *Menu) Active() *dom.Element {
	item, _ := m.nav.Active()
	return item
}

// Show opens the menu. Focus moves into the overlay on the next turn.
func (m *Menu) Show() tea.Cmd {
	if m.destroyed {
		return nil
	}
	m.open.Set(true)
	return m.settle.Cmd()
}

// Hide closes the menu, focusing the trigger when returnFocus is set.
func (m *Menu) Hide(returnFocus bool) tea.Cmd {
	if m.destroyed {
		return nil
	}
	m.pendingNav = navNone
	m.open.Set(false)
	if returnFocus {
		return m.doc.Focus(m.trigger)
	}
	return nil
}

// Toggle flips the open state.
func (m *Menu) Toggle() tea.Cmd {
	if m.open.Get() {
		return m.Hide(false)
	}
	return m.Show()
}

// Refresh re-derives the item list from the overlay's menuitem
// descendants.
func (m *Menu) Refresh() {
	overlay := m.overlay.Get()
	if overlay == nil {
		m.items.Set(nil)
		return
	}
	m.items.Set(overlay.Query(ItemRole))
	m.layoutItems(overlay)
	m.syncAttrs()
}

// placeAndLayout lays the items out again once placer has moved the overlay.
func (m *Menu) placeAndLayout(placer attach.Placer[placement.Config]) attach.Placer[placement.Config] {
	return attach.PlacerFunc[placement.Config](func(trigger, overlay *dom.Element, cfg placement.Config) func() {
		cleanup := placer.Attach(trigger, overlay, cfg)
		m.layoutItems(overlay)
		return cleanup
	})
}

// Select chooses item if it is an enabled menu item: OnSelect runs, then
// the menu closes and focus returns to the trigger.
func (m *Menu) Select(item *dom.Element) tea.Cmd {
	if m.destroyed || item == nil || item.Disabled || !m.isItem(item) {
		return nil
	}
	m.log.Debug("select", "item", item.Label)
	var cmd tea.Cmd
	if m.opts.OnSelect != nil {
		cmd = m.opts.OnSelect(item)
	}
	return tea.Batch(cmd, m.Hide(true))
}

func (m *Menu) onOpen(open bool) {
	m.log.Debug("open state", "open", open)
	if open {
		m.settle.Defer(m.focusOverlay)
		return
	}
	m.settle.Cancel()
	m.awaiting = false
	m.pendingNav = navNone
	m.nav.ClearActive()
	m.syncItemAttrs()
}

// overlayChanged re-derives the items. An overlay that arrives after the
// focus turn gets the focus work on the next turn instead.
func (m *Menu) overlayChanged(el *dom.Element) {
	m.Refresh()
	if el == nil || !m.awaiting || !m.open.Get() {
		return
	}
	m.awaiting = false
	m.settle.Defer(m.focusOverlay)
}

// focusOverlay runs once the overlay has had a turn to mount. Without an
// overlay the pending target is kept until one is attached.
func (m *Menu) focusOverlay() tea.Cmd {
	if !m.open.Get() {
		m.pendingNav = navNone
		return nil
	}
	overlay := m.overlay.Get()
	if overlay == nil {
		m.awaiting = true
		return nil
	}
	target := m.pendingNav
	m.pendingNav = navNone

	var cmd tea.Cmd
	switch target {
	case navFirst:
		cmd = m.nav.SetFirstActive()
	case navLast:
		cmd = m.nav.SetLastActive()
	}
	if m.Active() != nil {
		return cmd
	}
	return m.doc.Focus(overlay)
}

// openAt opens and activates the first or last item once mounted.
func (m *Menu) openAt(target navTarget) tea.Cmd {
	m.pendingNav = target
	if m.open.Get() {
		m.settle.Defer(m.focusOverlay)
		return m.settle.Cmd()
	}
	return m.Show()
}

func (m *Menu) activate(item *dom.Element) tea.Cmd {
	m.syncItemAttrs()
	m.syncAttrs()
	return m.doc.Focus(item)
}

func (m *Menu) isItem(el *dom.Element) bool {
	for _, item := range m.items.Get() {
		if item == el {
			return true
		}
	}
	return false
}

// itemAt returns the menu item containing el, or nil.
func (m *Menu) itemAt(el *dom.Element) *dom.Element {
	for n := el; n != nil; n = n.Parent() {
		if n.Role == ItemRole && m.isItem(n) {
			return n
		}
	}
	return nil
}

// AttachTrigger wires el as the trigger and returns its teardown.
func (m *Menu) AttachTrigger(el *dom.Element) func() {
	m.trigger = el
	m.attach.SetTrigger(el)
	m.syncAttrs()

	offs := []func(){
		m.doc.On(el, dom.Click, func(*dom.Event) tea.Cmd {
			if el.Disabled {
				return nil
			}
			return m.Toggle()
		}),
		m.doc.On(el, dom.KeyDown, m.triggerKeyDown),
	}
	return m.track(offs, func() {
		if m.trigger == el {
			m.trigger = nil
			m.attach.SetTrigger(nil)
		}
	})
}

func (m *Menu) triggerKeyDown(ev *dom.Event) tea.Cmd {
	if ev.DefaultPrevented() || ev.Target != m.trigger || m.trigger.Disabled {
		return nil
	}
	keys := m.opts.Keys
	switch {
	case key.Matches(ev.Key, keys.Toggle):
		ev.PreventDefault()
		return m.Toggle()
	case key.Matches(ev.Key, keys.Close):
		if !m.open.Get() {
			return nil
		}
		ev.PreventDefault()
		return m.Hide(false)
	case key.Matches(ev.Key, keys.Tab):
		return m.Hide(false)
	case key.Matches(ev.Key, keys.OpenFirst):
		ev.PreventDefault()
		return m.openAt(navFirst)
	case key.Matches(ev.Key, keys.OpenLast):
		ev.PreventDefault()
		return m.openAt(navLast)
	}
	return nil
}

// AttachOverlay wires el as the overlay and returns its teardown. Items are
// collected from el when it is attached; call Refresh after changing them.
func (m *Menu) AttachOverlay(el *dom.Element) func() {
	offs := []func(){
		m.doc.On(el, dom.KeyDown, m.overlayKeyDown),
		m.doc.On(el, dom.PointerOver, func(ev *dom.Event) tea.Cmd {
			item := m.itemAt(ev.Target)
			if item == nil || item.Disabled || m.Active() == nil || item == m.Active() {
				return nil
			}
			return m.nav.SetActive(item)
		}),
		m.doc.On(el, dom.Click, func(ev *dom.Event) tea.Cmd {
			return m.Select(m.itemAt(ev.Target))
		}),
		m.doc.On(el, dom.Wheel, m.overlayWheel),
	}
	el.SetLayout(m.layoutItems)
	m.overlay.Set(el)
	return m.track(offs, func() {
		el.SetLayout(nil)
		if m.overlay.Get() == el {
			m.overlay.Set(nil)
		}
	})
}

func (m *Menu) overlayKeyDown(ev *dom.Event) tea.Cmd {
	if ev.DefaultPrevented() || !m.open.Get() {
		return nil
	}
	keys := m.opts.Keys
	switch {
	case key.Matches(ev.Key, keys.Close):
		ev.PreventDefault()
		return m.Hide(true)
	case key.Matches(ev.Key, keys.Select):
		ev.PreventDefault()
		return m.Select(m.Active())
	}
	cmd, handled := m.nav.OnKeydown(ev.Key)
	if handled {
		ev.PreventDefault()
	}
	return cmd
}

// overlayWheel steps the active item like the arrow keys.
func (m *Menu) overlayWheel(ev *dom.Event) tea.Cmd {
	if ev.DefaultPrevented() || !m.open.Get() || ev.DY == 0 {
		return nil
	}
	ev.PreventDefault()
	if ev.DY < 0 {
		return m.nav.Prev()
	}
	return m.nav.Next()
}

func (m *Menu) outsidePointerDown(ev *dom.Event) tea.Cmd {
	if !m.opts.CloseOnOutsideClick || !m.open.Get() {
		return nil
	}
	if m.trigger.Contains(ev.Target) || m.overlay.Get().Contains(ev.Target) {
		return nil
	}
	return m.Hide(false)
}

type binding struct {
	offs  []func()
	after func()
}

func (m *Menu) track(offs []func(), after func()) func() {
	b := &binding{offs: offs, after: after}
	m.bindings[b] = struct{}{}
	return func() { m.release(b) }
}

func (m *Menu) release(b *binding) {
	if _, ok := m.bindings[b]; !ok {
		return
	}
	delete(m.bindings, b)
	for _, off := range b.offs {
		off()
	}
	b.after()
}

func (m *Menu) syncAttrs() {
	s := aria.State{Kind: aria.KindMenu, Open: m.open.Get()}
	overlay := m.overlay.Get()
	if m.trigger != nil {
		s.TriggerID = m.trigger.ID
	}
	if overlay != nil {
		s.OverlayID = overlay.ID
	}
	if active := m.Active(); active != nil {
		s.ActiveID = active.ID
	}
	if m.trigger != nil {
		m.trigger.SetAttrs(aria.Trigger(s))
	}
	if overlay != nil {
		overlay.SetAttrs(aria.Overlay(s))
	}
}

func (m *Menu) syncItemAttrs() {
	active := m.Active()
	for _, item := range m.items.Get() {
		item.SetAttrs(aria.Item(item.Disabled, item == active))
	}
}

// Update routes the focus deferral and the typeahead reset timer. It also
// returns the flush for focus work queued by a late AttachOverlay.
func (m *Menu) Update(msg tea.Msg) tea.Cmd {
	if m.destroyed {
		return nil
	}
	if cmd, ok := m.settle.Update(msg); ok {
		return tea.Batch(cmd, m.settle.Cmd())
	}
	if cmd, ok := m.nav.Update(msg); ok {
		return tea.Batch(cmd, m.settle.Cmd())
	}
	return m.settle.Cmd()
}

// Destroy cancels deferred focus work, runs the current attachment cleanup,
// removes every element listener and drops internal subscriptions. It is
// safe to call more than once.
func (m *Menu) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.settle.Cancel()
	m.attach.Destroy()
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	for b := range m.bindings {
		m.release(b)
	}
	m.nav.Destroy()
	m.open.SetEffect(nil)
}
