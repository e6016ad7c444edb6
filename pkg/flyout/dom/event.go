package dom

import tea "github.com/charmbracelet/bubbletea"

// EventType names an element event.
type EventType string

const (
	PointerEnter EventType = "pointerenter"
	PointerLeave EventType = "pointerleave"
	PointerOver  EventType = "pointerover"
	PointerDown  EventType = "pointerdown"
	Click        EventType = "click"
	Focus        EventType = "focus"
	Blur         EventType = "blur"
	KeyDown      EventType = "keydown"
	Wheel        EventType = "wheel"
)

// Bubbles reports whether events of this type propagate to ancestors and
// the document.
func (t EventType) Bubbles() bool {
	switch t {
	case PointerOver, PointerDown, Click, KeyDown, Wheel:
		return true
	}
	return false
}

// Event is delivered to handlers.
type Event struct {
	Type          EventType
	Target        *Element
	CurrentTarget *Element
	// Related is the element focus or the pointer moved from/to, if any.
	Related *Element
	Key     tea.KeyMsg
	X, Y    int
	// DX and DY are the wheel step for Wheel events: -1, 0 or 1.
	DX, DY int

	defaultPrevented bool
	stopped          bool
}

// Handler reacts to an event and may return a command for the event loop.
type Handler func(ev *Event) tea.Cmd

// PreventDefault marks the event's default action as handled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether a handler already handled the default
// action.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops delivery to further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}
