// Package keynav tracks an active item in an ordered list and turns key
// presses into navigation: arrows with optional wrap-around, home/end,
// tab-out and typeahead by label. Items rejected by the Skip predicate are
// never activated.
package keynav

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flyout/pkg/flyout/state"
	"github.com/marcus/flyout/pkg/flyout/timer"
	"github.com/sahilm/fuzzy"
)

// DefaultTypeaheadTimeout is the quiet period after which the typeahead
// buffer is cleared.
const DefaultTypeaheadTimeout = time.Second

// MatchMode selects how typeahead compares the buffer with labels.
type MatchMode int

const (
	// MatchPrefix matches labels that start with the buffer, ignoring case.
	MatchPrefix MatchMode = iota
	// MatchFuzzy ranks labels by fuzzy score.
	MatchFuzzy
)

// Config parameterises a Manager. Every callback is optional.
type Config[T comparable] struct {
	Wrap       bool
	Vertical   bool
	HomeAndEnd bool
	Typeahead  bool

	TypeaheadTimeout time.Duration
	Match            MatchMode

	// Skip reports items navigation must pass over, such as disabled ones.
	Skip func(T) bool
	// Label is used by typeahead. Defaults to fmt.Sprint.
	Label func(T) string
	// OnActivate runs whenever an item becomes active.
	OnActivate func(T) tea.Cmd
	// TabOut runs on tab. The manager's state is left alone.
	TabOut func() tea.Cmd

	Keys KeyMap
	Tick timer.TickFunc
}

// Manager is the navigation state for one list.
type Manager[T comparable] struct {
	cfg    Config[T]
	items  []T
	active int
	buffer string
	reset  *timer.Timer
	unbind func()
}

// New builds a Manager with no items and nothing active.
func New[T comparable](cfg Config[T]) *Manager[T] {
	if cfg.TypeaheadTimeout <= 0 {
		cfg.TypeaheadTimeout = DefaultTypeaheadTimeout
	}
	if cfg.Label == nil {
		cfg.Label = func(item T) string { return fmt.Sprint(item) }
	}
	if len(cfg.Keys.Down.Keys()) == 0 {
		cfg.Keys = DefaultKeyMap()
	}

	m := &Manager[T]{cfg: cfg, active: -1}
	m.reset = timer.New(cfg.TypeaheadTimeout, func() tea.Cmd {
		m.buffer = ""
		return nil
	}, timer.WithTick(cfg.Tick))
	return m
}

// Items returns a copy of the current list.
func (m *Manager[T]) Items() []T {
	return append([]T(nil), m.items...)
}

// SetItems replaces the list. The active item stays active if it is still
// present and eligible; otherwise nothing is active.
func (m *Manager[T]) SetItems(items []T) {
	var current T
	hadActive := m.active >= 0
	if hadActive {
		current = m.items[m.active]
	}
	m.items = append([]T(nil), items...)
	m.active = -1
	if !hadActive {
		return
	}
	for i, item := range m.items {
		if item == current && m.eligible(i) {
			m.active = i
			return
		}
	}
}

// Bind keeps the list in sync with cell until Destroy or the next Bind.
func (m *Manager[T]) Bind(cell *state.Cell[[]T]) {
	if m.unbind != nil {
		m.unbind()
	}
	m.SetItems(cell.Get())
	m.unbind = cell.Subscribe(m.SetItems)
}

// Active returns the active item.
func (m *Manager[T]) Active() (T, bool) {
	if m.active < 0 || m.active >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.active], true
}

// ActiveIndex returns the active index or -1.
func (m *Manager[T]) ActiveIndex() int {
	return m.active
}

// Buffer returns the typeahead buffer.
func (m *Manager[T]) Buffer() string {
	return m.buffer
}

// ClearActive leaves nothing active without calling OnActivate.
func (m *Manager[T]) ClearActive() {
	m.active = -1
}

// SetActiveItem activates the item at index. An index outside the list
// (including -1) clears the active item without calling OnActivate. A
// skipped item is ignored.
func (m *Manager[T]) SetActiveItem(index int) tea.Cmd {
	if index < 0 || index >= len(m.items) {
		m.active = -1
		return nil
	}
	if !m.eligible(index) {
		return nil
	}
	return m.activate(index)
}

// SetActive activates item, or clears the active item when it is not in
// the list.
func (m *Manager[T]) SetActive(item T) tea.Cmd {
	for i, it := range m.items {
		if it == item {
			return m.SetActiveItem(i)
		}
	}
	m.active = -1
	return nil
}

// SetFirstActive activates the first eligible item.
func (m *Manager[T]) SetFirstActive() tea.Cmd {
	for i := range m.items {
		if m.eligible(i) {
			return m.activate(i)
		}
	}
	return nil
}

// SetLastActive activates the last eligible item.
func (m *Manager[T]) SetLastActive() tea.Cmd {
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.eligible(i) {
			return m.activate(i)
		}
	}
	return nil
}

// Next moves one eligible item forward.
func (m *Manager[T]) Next() tea.Cmd {
	return m.move(1)
}

// Prev moves one eligible item back.
func (m *Manager[T]) Prev() tea.Cmd {
	return m.move(-1)
}

// OnKeydown handles a key press. handled reports whether the key was a
// navigation key the caller should not process further; tab is never
// reported as handled so focus can move on.
func (m *Manager[T]) OnKeydown(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	keys := m.cfg.Keys
	prev, next := keys.Left, keys.Right
	if m.cfg.Vertical {
		prev, next = keys.Up, keys.Down
	}

	switch {
	case key.Matches(msg, prev):
		return m.move(-1), true
	case key.Matches(msg, next):
		return m.move(1), true
	case m.cfg.HomeAndEnd && key.Matches(msg, keys.Home):
		return m.SetFirstActive(), true
	case m.cfg.HomeAndEnd && key.Matches(msg, keys.End):
		return m.SetLastActive(), true
	case key.Matches(msg, keys.Tab):
		if m.cfg.TabOut != nil {
			return m.cfg.TabOut(), false
		}
		return nil, false
	case m.cfg.Typeahead && msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 0:
		return m.typeahead(string(msg.Runes)), true
	}
	return nil, false
}

// Update handles the typeahead reset timer.
func (m *Manager[T]) Update(msg tea.Msg) (tea.Cmd, bool) {
	return m.reset.Update(msg)
}

// Destroy drops the Bind subscription and the typeahead state. It is safe
// to call more than once.
func (m *Manager[T]) Destroy() {
	if m.unbind != nil {
		m.unbind()
		m.unbind = nil
	}
	m.reset.Stop()
	m.buffer = ""
}

func (m *Manager[T]) eligible(i int) bool {
	return m.cfg.Skip == nil || !m.cfg.Skip(m.items[i])
}

func (m *Manager[T]) activate(i int) tea.Cmd {
	m.active = i
	if m.cfg.OnActivate == nil {
		return nil
	}
	return m.cfg.OnActivate(m.items[i])
}

func (m *Manager[T]) move(dir int) tea.Cmd {
	n := len(m.items)
	if n == 0 {
		return nil
	}
	idx := m.active
	if idx < 0 && dir < 0 {
		idx = n
	}
	for range n {
		idx += dir
		if idx < 0 || idx >= n {
			if !m.cfg.Wrap {
				return nil
			}
			idx = (idx + n) % n
		}
		if m.eligible(idx) {
			if idx == m.active {
				return nil
			}
			return m.activate(idx)
		}
	}
	return nil
}

func (m *Manager[T]) typeahead(s string) tea.Cmd {
	s = strings.ToLower(s)
	m.buffer += s
	idx := m.match(m.buffer)
	if idx < 0 {
		m.buffer = s
		idx = m.match(m.buffer)
	}

	// Restart the quiet period rather than keep the first deadline.
	m.reset.Stop()
	resetCmd := m.reset.Start()

	if idx < 0 || idx == m.active {
		return resetCmd
	}
	return tea.Batch(m.activate(idx), resetCmd)
}

// match finds the item for buf, searching cyclically. A single character
// starts after the active item so repeated presses cycle; a longer buffer
// starts at the active item so it keeps matching while typing.
func (m *Manager[T]) match(buf string) int {
	n := len(m.items)
	if n == 0 || buf == "" {
		return -1
	}
	start := 0
	if m.active >= 0 {
		start = m.active
		if len([]rune(buf)) == 1 {
			start = m.active + 1
		}
	}

	if m.cfg.Match == MatchFuzzy {
		return m.fuzzyMatch(buf, start)
	}
	for k := range n {
		i := (start + k) % n
		if m.eligible(i) && strings.HasPrefix(strings.ToLower(m.cfg.Label(m.items[i])), buf) {
			return i
		}
	}
	return -1
}

func (m *Manager[T]) fuzzyMatch(buf string, start int) int {
	n := len(m.items)
	labels := make([]string, 0, n)
	index := make([]int, 0, n)
	for k := range n {
		i := (start + k) % n
		if m.eligible(i) {
			labels = append(labels, m.cfg.Label(m.items[i]))
			index = append(index, i)
		}
	}

	matches := fuzzy.Find(buf, labels)
	if len(matches) == 0 {
		return -1
	}
	// Ties go to the item closest after start, which is the lowest label
	// index since labels were collected in cyclic order.
	best := matches[0]
	for _, mt := range matches[1:] {
		if mt.Score == best.Score && mt.Index < best.Index {
			best = mt
		}
	}
	return index[best.Index]
}
