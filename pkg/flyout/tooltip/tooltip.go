// Package tooltip wires hover and focus input on a trigger element to a
// debounced open state.
//
// Pointer-enter on the trigger opens after Options.OpenDelay, focus opens on
// the next turn. Pointer-leave, blur and click start the fixed CloseDelay.
// While the pointer is over the overlay the pending close is cancelled. The
// show and hide timers are never pending together.
//
// Calling any method after Destroy is a programming error. Show, Hide and
// Toggle return nil in that case, but nothing else is guaranteed.
package tooltip

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flyout/pkg/flyout/aria"
	"github.com/marcus/flyout/pkg/flyout/attach"
	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/placement"
	"github.com/marcus/flyout/pkg/flyout/state"
	"github.com/marcus/flyout/pkg/flyout/timer"
)

const (
	// DefaultOpenDelay is the hover delay before a tooltip opens.
	DefaultOpenDelay = time.Second
	// CloseDelay is how long a tooltip lingers after the pointer or focus
	// leaves. It is not configurable.
	CloseDelay = 500 * time.Millisecond
)

// KeyMap holds the keys a tooltip trigger reacts to.
type KeyMap struct {
	Close key.Binding
}

// DefaultKeyMap closes on escape.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close tooltip")),
	}
}

// Options configures a Tooltip.
type Options struct {
	OpenDelay time.Duration
	Placement placement.Config
	// CloseOnPointerDown also closes on press, before the click completes.
	CloseOnPointerDown bool
	CloseOnEscape      bool

	Keys   KeyMap
	Tick   timer.TickFunc
	Logger *slog.Logger
}

// DefaultOptions opens after DefaultOpenDelay above the trigger, flipping
// when there is no room, and closes on escape and pointer down.
func DefaultOptions() Options {
	return Options{
		OpenDelay:          DefaultOpenDelay,
		Placement:          placement.Config{Side: placement.Top, Align: placement.Center, Flip: true, Shift: true},
		CloseOnPointerDown: true,
		CloseOnEscape:      true,
		Keys:               DefaultKeyMap(),
	}
}

// Tooltip is one tooltip instance.
type Tooltip struct {
	doc  *dom.Document
	opts Options
	log  *slog.Logger

	open    *state.Cell[bool]
	overlay *state.Cell[*dom.Element]
	trigger *dom.Element

	showTimer *timer.Timer
	hideTimer *timer.Timer
	attach    *attach.Controller[placement.Config]

	returnFocus bool
	refocusing  bool
	unsubs      []func()
	bindings    map[*binding]struct{}
	destroyed   bool
}

// New creates a closed tooltip. Elements are wired with AttachTrigger and
// AttachOverlay.
func New(doc *dom.Document, placer attach.Placer[placement.Config], opts Options) *Tooltip {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.Keys.Close.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}

	t := &Tooltip{
		doc:      doc,
		opts:     opts,
		log:      opts.Logger.With("widget", "tooltip"),
		open:     state.New(false),
		overlay:  state.New[*dom.Element](nil),
		bindings: make(map[*binding]struct{}),
	}
	t.showTimer = timer.New(opts.OpenDelay, t.commitShow, timer.WithTick(opts.Tick))
	t.hideTimer = timer.New(CloseDelay, t.commitHide, timer.WithTick(opts.Tick))
	t.open.SetEffect(func(open bool) {
		t.log.Debug("open state", "open", open)
	})
	t.attach = attach.New(placer, opts.Placement, t.open, t.overlay, attach.WithLogger(t.log))
	t.unsubs = append(t.unsubs,
		t.open.Subscribe(func(bool) { t.syncAttrs() }),
	)
	return t
}

// Open returns the open state. Callers may subscribe but should change it
// through Show, Hide and Toggle.
func (t *Tooltip) Open() *state.Cell[bool] {
	return t.open
}

// IsOpen reports whether the tooltip is open.
func (t *Tooltip) IsOpen() bool {
	return t.open.Get()
}

// Overlay returns the attached overlay element, or nil.
func (t *Tooltip) Overlay() *dom.Element {
	return t.overlay.Get()
}

// Show cancels a pending close, along with any focus return it carried, and
// opens after delay. A show that is already pending keeps its original
// schedule.
func (t *Tooltip) Show(delay time.Duration) tea.Cmd {
	if t.destroyed {
		return nil
	}
	t.hideTimer.Stop()
	t.returnFocus = false
	t.showTimer.SetDelay(delay)
	return t.showTimer.Start()
}

// Hide cancels a pending show and closes after CloseDelay. With returnFocus
// the trigger is focused when the close commits.
func (t *Tooltip) Hide(returnFocus bool) tea.Cmd {
	if t.destroyed {
		return nil
	}
	t.showTimer.Stop()
	t.returnFocus = t.returnFocus || returnFocus
	return t.hideTimer.Start()
}

// Close cancels both timers and closes now.
func (t *Tooltip) Close() tea.Cmd {
	if t.destroyed {
		return nil
	}
	t.showTimer.Stop()
	t.hideTimer.Stop()
	return t.commitHide()
}

// Toggle flips the open state now, cancelling both timers.
func (t *Tooltip) Toggle() tea.Cmd {
	if t.destroyed {
		return nil
	}
	t.showTimer.Stop()
	t.hideTimer.Stop()
	if t.open.Get() {
		return t.commitHide()
	}
	return t.commitShow()
}

// ShowPending reports whether an open is scheduled.
func (t *Tooltip) ShowPending() bool { return t.showTimer.Pending() }

// HidePending reports whether a close is scheduled.
func (t *Tooltip) HidePending() bool { return t.hideTimer.Pending() }

func (t *Tooltip) commitShow() tea.Cmd {
	t.returnFocus = false
	t.open.Set(true)
	return nil
}

func (t *Tooltip) commitHide() tea.Cmd {
	returnFocus := t.returnFocus
	t.returnFocus = false
	t.open.Set(false)
	if !returnFocus {
		return nil
	}
	t.refocusing = true
	defer func() { t.refocusing = false }()
	return t.doc.Focus(t.trigger)
}

// AttachTrigger wires el as the trigger and returns its teardown.
func (t *Tooltip) AttachTrigger(el *dom.Element) func() {
	t.trigger = el
	t.attach.SetTrigger(el)
	t.syncAttrs()

	offs := []func(){
		t.doc.On(el, dom.PointerEnter, func(*dom.Event) tea.Cmd {
			return t.Show(t.opts.OpenDelay)
		}),
		t.doc.On(el, dom.Focus, func(*dom.Event) tea.Cmd {
			if t.refocusing {
				return nil
			}
			return t.Show(0)
		}),
		t.doc.On(el, dom.PointerLeave, t.hideOnEvent),
		t.doc.On(el, dom.Blur, t.hideOnEvent),
		t.doc.On(el, dom.Click, t.hideOnEvent),
		t.doc.On(el, dom.PointerDown, func(ev *dom.Event) tea.Cmd {
			if !t.opts.CloseOnPointerDown {
				return nil
			}
			return t.hideOnEvent(ev)
		}),
		t.doc.On(el, dom.KeyDown, func(ev *dom.Event) tea.Cmd {
			if !t.opts.CloseOnEscape || ev.DefaultPrevented() || !key.Matches(ev.Key, t.opts.Keys.Close) {
				return nil
			}
			if !t.open.Get() && !t.showTimer.Pending() {
				return nil
			}
			ev.PreventDefault()
			return t.Close()
		}),
	}
	return t.teardown(offs, func() {
		if t.trigger == el {
			t.trigger = nil
			t.attach.SetTrigger(nil)
		}
	})
}

// AttachOverlay wires el as the overlay element and returns its teardown.
func (t *Tooltip) AttachOverlay(el *dom.Element) func() {
	t.overlay.Set(el)
	t.syncAttrs()

	offs := []func(){
		t.doc.On(el, dom.PointerEnter, func(*dom.Event) tea.Cmd {
			t.hideTimer.Stop()
			return nil
		}),
		t.doc.On(el, dom.PointerLeave, t.hideOnEvent),
	}
	return t.teardown(offs, func() {
		if t.overlay.Get() == el {
			t.overlay.Set(nil)
		}
	})
}

func (t *Tooltip) hideOnEvent(*dom.Event) tea.Cmd {
	return t.Hide(false)
}

type binding struct {
	offs  []func()
	after func()
}

func (t *Tooltip) teardown(offs []func(), after func()) func() {
	b := &binding{offs: offs, after: after}
	t.bindings[b] = struct{}{}
	return func() { t.release(b) }
}

func (t *Tooltip) release(b *binding) {
	if _, ok := t.bindings[b]; !ok {
		return
	}
	delete(t.bindings, b)
	for _, off := range b.offs {
		off()
	}
	b.after()
}

func (t *Tooltip) syncAttrs() {
	overlay := t.overlay.Get()
	s := aria.State{Kind: aria.KindTooltip, Open: t.open.Get()}
	if t.trigger != nil {
		s.TriggerID = t.trigger.ID
	}
	if overlay != nil {
		s.OverlayID = overlay.ID
		overlay.SetAttrs(aria.Overlay(s))
	}
	if t.trigger != nil {
		t.trigger.SetAttrs(aria.Trigger(s))
	}
}

// Update routes timer messages. Everything else is ignored.
func (t *Tooltip) Update(msg tea.Msg) tea.Cmd {
	if t.destroyed {
		return nil
	}
	if cmd, ok := t.showTimer.Update(msg); ok {
		return cmd
	}
	if cmd, ok := t.hideTimer.Update(msg); ok {
		return cmd
	}
	return nil
}

// Destroy stops both timers, runs the current attachment cleanup, removes
// every element listener and drops internal subscriptions. It is safe to
// call more than once.
func (t *Tooltip) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.showTimer.Stop()
	t.hideTimer.Stop()
	t.attach.Destroy()
	for _, unsub := range t.unsubs {
		unsub()
	}
	t.unsubs = nil
	for b := range t.bindings {
		t.release(b)
	}
	t.open.SetEffect(nil)
}
