package timer

import tea "github.com/charmbracelet/bubbletea"

type settleMsg struct {
	id  int
	gen int
}

// Settle queues work to run on the next pass through the event loop, after
// the view for the current turn has rendered and before any input queued
// behind it is handled.
type Settle struct {
	id        int
	gen       int
	queue     []func() tea.Cmd
	requested bool
}

// NewSettle returns an empty queue.
func NewSettle() *Settle {
	return &Settle{id: nextID()}
}

// Defer queues fn. Call Cmd afterwards to get the command that flushes the
// queue.
func (s *Settle) Defer(fn func() tea.Cmd) {
	s.queue = append(s.queue, fn)
}

// Cmd returns the flush command if work is queued and no flush is already
// in flight.
func (s *Settle) Cmd() tea.Cmd {
	if len(s.queue) == 0 || s.requested {
		return nil
	}
	s.requested = true
	id, gen := s.id, s.gen
	return func() tea.Msg {
		return settleMsg{id: id, gen: gen}
	}
}

// Pending returns the number of queued functions.
func (s *Settle) Pending() int {
	return len(s.queue)
}

// Update runs the queued functions in order when msg is this queue's flush
// message.
func (s *Settle) Update(msg tea.Msg) (tea.Cmd, bool) {
	m, ok := msg.(settleMsg)
	if !ok || m.id != s.id {
		return nil, false
	}
	if m.gen != s.gen {
		return nil, true
	}
	s.requested = false
	queue := s.queue
	s.queue = nil

	cmds := make([]tea.Cmd, 0, len(queue))
	for _, fn := range queue {
		cmds = append(cmds, fn())
	}
	return tea.Batch(cmds...), true
}

// Cancel drops queued work; an in-flight flush message is ignored.
func (s *Settle) Cancel() {
	s.queue = nil
	s.requested = false
	s.gen++
}
