// Package aria derives accessibility attributes for trigger, overlay and item
// roles from widget state.
package aria

import "strconv"

// Kind is the overlay flavour.
type Kind string

const (
	KindTooltip Kind = "tooltip"
	KindMenu    Kind = "menu"
)

// State is the widget state attributes are derived from.
type State struct {
	Kind      Kind
	Open      bool
	TriggerID string
	OverlayID string
	ActiveID  string
}

// Trigger returns the attributes for the trigger element. Empty values mean
// "remove".
func Trigger(s State) map[string]string {
	attrs := map[string]string{
		"id":         s.TriggerID,
		"data-state": dataState(s.Open),
	}
	switch s.Kind {
	case KindMenu:
		attrs["aria-haspopup"] = "menu"
		attrs["aria-expanded"] = strconv.FormatBool(s.Open)
		attrs["aria-controls"] = s.OverlayID
	case KindTooltip:
		attrs["aria-describedby"] = ""
		if s.Open {
			attrs["aria-describedby"] = s.OverlayID
		}
	}
	return attrs
}

// Overlay returns the attributes for the overlay element.
func Overlay(s State) map[string]string {
	attrs := map[string]string{
		"id":         s.OverlayID,
		"role":       string(s.Kind),
		"data-state": dataState(s.Open),
	}
	if s.Kind == KindMenu {
		attrs["aria-labelledby"] = s.TriggerID
		attrs["aria-orientation"] = "vertical"
		attrs["aria-activedescendant"] = s.ActiveID
	}
	return attrs
}

// Item returns the attributes for a menu item.
func Item(disabled, highlighted bool) map[string]string {
	attrs := map[string]string{
		"role":             "menuitem",
		"aria-disabled":    "",
		"data-highlighted": "",
	}
	if disabled {
		attrs["aria-disabled"] = "true"
	}
	if highlighted {
		attrs["data-highlighted"] = "true"
	}
	return attrs
}

func dataState(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
