package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/mouse"
)

const (
	cursorWidth = 2
	emptyLabel  = "(no items)"
)

// Size returns the outer width and height View needs for the current
// items.
func (m *Menu) Size() (int, int) {
	return outerSize(m.items.Get())
}

// SizeOf measures an overlay element that is not attached yet, so it can be
// given a Rect before placement.
func SizeOf(overlay *dom.Element) (int, int) {
	return outerSize(overlay.Query(ItemRole))
}

func outerSize(items []*dom.Element) (int, int) {
	w, h := contentSize(items)
	return w + Panel.GetHorizontalFrameSize(), h + Panel.GetVerticalFrameSize()
}

func contentSize(items []*dom.Element) (int, int) {
	if len(items) == 0 {
		return lipgloss.Width(emptyLabel), 1
	}
	widest := 0
	for _, item := range items {
		widest = max(widest, lipgloss.Width(item.Label))
	}
	return widest + cursorWidth, len(items)
}

// layoutItems gives each item a one-row hit rectangle inside el.Rect.
func (m *Menu) layoutItems(el *dom.Element) {
	items := m.items.Get()
	width, _ := contentSize(items)
	left := Panel.GetBorderLeftSize() + Panel.GetPaddingLeft()
	top := Panel.GetBorderTopSize() + Panel.GetPaddingTop()
	for i, item := range items {
		item.Rect = mouse.Rect{X: el.Rect.X + left, Y: el.Rect.Y + top + i, W: width, H: 1}
	}
}

// View renders the panel. It satisfies portal.Renderer and does not touch
// layout.
func (m *Menu) View(*dom.Element) string {
	items := m.items.Get()
	if len(items) == 0 {
		return Panel.Render(MutedText.Render(emptyLabel))
	}

	width, _ := contentSize(items)
	active := m.Active()

	var sb strings.Builder
	for i, item := range items {
		style := ItemNormal
		cursor := "  "
		switch {
		case item.Disabled:
			style = ItemDisabled
		case item == active:
			style = ItemActive
			cursor = Cursor.Render("> ")
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(cursor + style.Width(width-cursorWidth).Render(item.Label))
	}
	return Panel.Render(sb.String())
}
