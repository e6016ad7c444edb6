// Package timertest provides a virtual clock and command pump for testing
// code built on package timer without sleeping.
package timertest

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Updater is anything that consumes messages and returns follow-up commands.
type Updater interface {
	Update(msg tea.Msg) tea.Cmd
}

// UpdateFunc adapts a function to Updater.
type UpdateFunc func(tea.Msg) tea.Cmd

// Update calls f.
func (f UpdateFunc) Update(msg tea.Msg) tea.Cmd {
	return f(msg)
}

type scheduled struct {
	at  time.Duration
	seq int
	fn  func(time.Time) tea.Msg
}

// Clock is a virtual clock. Its Tick method satisfies timer.TickFunc.
type Clock struct {
	base    time.Time
	now     time.Duration
	seq     int
	pending []scheduled
}

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{base: time.Unix(0, 0)}
}

// Now returns the current virtual time.
func (c *Clock) Now() time.Time {
	return c.base.Add(c.now)
}

// Tick returns a command that registers fn to fire d after the command runs.
func (c *Clock) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		c.seq++
		c.pending = append(c.pending, scheduled{at: c.now + d, seq: c.seq, fn: fn})
		return nil
	}
}

// Scheduled returns the remaining delays of registered ticks, soonest first.
func (c *Clock) Scheduled() []time.Duration {
	c.sort()
	out := make([]time.Duration, 0, len(c.pending))
	for _, s := range c.pending {
		out = append(out, s.at-c.now)
	}
	return out
}

// Advance moves time forward by d, delivering every tick that comes due to u
// in order and pumping the commands it returns.
func (c *Clock) Advance(u Updater, d time.Duration) {
	end := c.now + d
	for {
		c.sort()
		if len(c.pending) == 0 || c.pending[0].at > end {
			break
		}
		s := c.pending[0]
		c.pending = c.pending[1:]
		c.now = s.at
		msg := s.fn(c.Now())
		Pump(u, func() tea.Msg { return msg })
	}
	c.now = end
}

func (c *Clock) sort() {
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
}

// Pump runs cmds, feeds every message they produce to u and keeps going
// with the commands u returns until nothing is left.
func Pump(u Updater, cmds ...tea.Cmd) {
	queue := append([]tea.Cmd(nil), cmds...)
	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		switch msg := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, u.Update(msg))
		}
	}
}

// Collect runs cmd and returns the non-nil messages it produces, flattening
// batches. Nothing is fed back.
func Collect(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			out = append(out, msg)
		}
	}
	return out
}
