// Package attach ties a trigger and an overlay to a positioning service for
// exactly as long as the overlay is open and mounted.
//
// The controller owns the cleanup returned by the service. "Nothing
// attached" is represented by Noop rather than nil, so the current cleanup is
// always safe to call. The previous cleanup always runs before the next
// attach begins.
package attach

import (
	"log/slog"

	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/state"
)

// Cleanup undoes one attachment.
type Cleanup func()

// Noop is the cleanup used when nothing is attached.
func Noop() {}

// Placer positions overlay relative to trigger until the returned function
// is called. The returned function must tolerate repeated calls.
type Placer[C any] interface {
	Attach(trigger, overlay *dom.Element, cfg C) func()
}

// PlacerFunc adapts a function to Placer.
type PlacerFunc[C any] func(trigger, overlay *dom.Element, cfg C) func()

// Attach calls f.
func (f PlacerFunc[C]) Attach(trigger, overlay *dom.Element, cfg C) func() {
	return f(trigger, overlay, cfg)
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for attach/detach debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Controller watches (open, overlay present, trigger present) and attaches
// or detaches on transitions.
type Controller[C any] struct {
	placer  Placer[C]
	cfg     C
	open    *state.Cell[bool]
	overlay *state.Cell[*dom.Element]
	trigger *dom.Element

	cleanup         Cleanup
	attached        bool
	attachedTrigger *dom.Element
	attachedOverlay *dom.Element

	syncing   bool
	dirty     bool
	unsubs    []func()
	destroyed bool
	logger    *slog.Logger
}

// New subscribes to open and overlay and attaches immediately if the
// condition already holds (it cannot before a trigger is set).
func New[C any](placer Placer[C], cfg C, open *state.Cell[bool], overlay *state.Cell[*dom.Element], opts ...Option) *Controller[C] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Controller[C]{
		placer:  placer,
		cfg:     cfg,
		open:    open,
		overlay: overlay,
		cleanup: Noop,
		logger:  o.logger,
	}
	c.unsubs = append(c.unsubs,
		open.Subscribe(func(bool) { c.sync() }),
		overlay.Subscribe(func(*dom.Element) { c.sync() }),
	)
	c.sync()
	return c
}

// SetTrigger registers the trigger element; nil unregisters it. Changing
// the trigger while attached re-attaches to the new one.
func (c *Controller[C]) SetTrigger(el *dom.Element) {
	c.trigger = el
	c.sync()
}

// SetConfig replaces the positioning config. It applies to the next attach.
func (c *Controller[C]) SetConfig(cfg C) {
	c.cfg = cfg
}

// Attached reports whether an attachment is live.
func (c *Controller[C]) Attached() bool {
	return c.attached
}

// Destroy unsubscribes and runs the current cleanup. It is safe to call
// more than once.
func (c *Controller[C]) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.detach()
}

func (c *Controller[C]) sync() {
	if c.destroyed {
		return
	}
	// A placer or cleanup that commits state re-enters here; finish the
	// current transition first and loop.
	if c.syncing {
		c.dirty = true
		return
	}
	c.syncing = true
	defer func() { c.syncing = false }()

	for {
		c.dirty = false
		overlay := c.overlay.Get()
		want := c.open.Get() && overlay != nil && c.trigger != nil

		switch {
		case want && !c.attached:
			c.attach(c.trigger, overlay)
		case want && (c.attachedTrigger != c.trigger || c.attachedOverlay != overlay):
			c.detach()
			c.attach(c.trigger, overlay)
		case !want && c.attached:
			c.detach()
		}
		if !c.dirty || c.destroyed {
			return
		}
	}
}

func (c *Controller[C]) attach(trigger, overlay *dom.Element) {
	prev := c.cleanup
	c.cleanup = Noop
	prev()

	cleanup := Cleanup(c.placer.Attach(trigger, overlay, c.cfg))
	if cleanup == nil {
		cleanup = Noop
	}
	c.cleanup = cleanup
	c.attached = true
	c.attachedTrigger = trigger
	c.attachedOverlay = overlay
	c.logger.Debug("overlay attached", "trigger", trigger.ID, "overlay", overlay.ID)
}

func (c *Controller[C]) detach() {
	prev := c.cleanup
	c.cleanup = Noop
	wasAttached := c.attached
	c.attached = false
	c.attachedTrigger = nil
	c.attachedOverlay = nil
	prev()
	if wasAttached {
		c.logger.Debug("overlay detached")
	}
}
