// Package timer provides the delayed-action scheduler used for show/hide
// debouncing and typeahead resets, plus Settle, a one-turn deferral for work
// that must run after the next render.
//
// Everything here is driven by the bubbletea event loop: scheduling returns a
// tea.Cmd, and the fire message comes back through Update. A stale fire
// message (one issued before a Stop or restart) is recognised by its tag and
// dropped.
package timer

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickFunc schedules fn to produce a message after d. tea.Tick satisfies it.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// FireMsg is delivered when a timer's delay elapses.
type FireMsg struct {
	ID  int
	tag int
}

// Timer runs an action once after a delay. Start while pending keeps the
// existing schedule. Stop on an idle timer is a no-op.
type Timer struct {
	id        int
	tag       int
	delay     time.Duration
	pending   bool
	immediate bool
	action    func() tea.Cmd
	tick      TickFunc
}

// Option configures a Timer.
type Option func(*Timer)

// WithImmediate makes a zero-delay Start run the action synchronously
// instead of waiting a turn.
func WithImmediate(immediate bool) Option {
	return func(t *Timer) {
		t.immediate = immediate
	}
}

// WithTick replaces tea.Tick, mostly for tests.
func WithTick(fn TickFunc) Option {
	return func(t *Timer) {
		if fn != nil {
			t.tick = fn
		}
	}
}

// New creates an idle timer. action may be nil.
func New(delay time.Duration, action func() tea.Cmd, opts ...Option) *Timer {
	t := &Timer{
		id:     nextID(),
		delay:  delay,
		action: action,
		tick:   tea.Tick,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the timer's unique id.
func (t *Timer) ID() int {
	return t.id
}

// Delay returns the delay the next Start will use.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Pending reports whether a fire is scheduled.
func (t *Timer) Pending() bool {
	return t.pending
}

// SetDelay changes the delay used by the next Start. A pending schedule is
// not affected.
func (t *Timer) SetDelay(d time.Duration) {
	t.delay = d
}

// Start schedules the action. It returns nil when the timer is already
// pending.
func (t *Timer) Start() tea.Cmd {
	if t.pending {
		return nil
	}
	if t.immediate && t.delay <= 0 {
		return t.run()
	}

	t.pending = true
	t.tag++
	id, tag := t.id, t.tag
	return t.tick(t.delay, func(time.Time) tea.Msg {
		return FireMsg{ID: id, tag: tag}
	})
}

// Stop cancels a pending schedule.
func (t *Timer) Stop() {
	if !t.pending {
		return
	}
	t.pending = false
	t.tag++
}

// Update runs the action when msg is this timer's current fire message. The
// bool reports whether msg belonged to this timer at all.
func (t *Timer) Update(msg tea.Msg) (tea.Cmd, bool) {
	m, ok := msg.(FireMsg)
	if !ok || m.ID != t.id {
		return nil, false
	}
	if !t.pending || m.tag != t.tag {
		return nil, true
	}
	t.pending = false
	return t.run(), true
}

func (t *Timer) run() tea.Cmd {
	if t.action == nil {
		return nil
	}
	return t.action()
}
