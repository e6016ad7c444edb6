package tooltip

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/flyout/pkg/flyout/dom"
)

// Bubble is the frame drawn around tooltip content.
var Bubble = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("238")).
	Padding(0, 1)

// NewOverlay returns an overlay element carrying body as its content.
func NewOverlay(body string) *dom.Element {
	el := dom.NewElement("tooltip", body)
	el.Rect.W, el.Rect.H = Size(body)
	return el
}

// Size returns the outer size Render produces for body.
func Size(body string) (int, int) {
	body = strings.TrimRight(body, "\n")
	return lipgloss.Width(body) + Bubble.GetHorizontalFrameSize(),
		lipgloss.Height(body) + Bubble.GetVerticalFrameSize()
}

// Render draws el's content. It satisfies portal.Renderer.
func Render(el *dom.Element) string {
	return Bubble.Render(strings.TrimRight(el.Label, "\n"))
}
