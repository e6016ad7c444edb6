// Package portal mounts overlay elements above the rest of the screen and
// composites their rendered content over a base view.
package portal

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/flyout/pkg/flyout/dom"
)

// Renderer returns the content for a mounted element.
type Renderer func(el *dom.Element) string

type entry struct {
	el     *dom.Element
	render Renderer
}

// Layer tracks portalled elements in mount order.
type Layer struct {
	doc     *dom.Document
	entries []*entry
}

// New returns a layer mounting into doc.
func New(doc *dom.Document) *Layer {
	return &Layer{doc: doc}
}

// Mount attaches el under target, or as a new top layer of the document
// when target is nil, and registers render for Composite. The returned
// teardown is idempotent.
func (l *Layer) Mount(el *dom.Element, target *dom.Element, render Renderer) func() {
	if target != nil {
		target.Append(el)
	} else {
		l.doc.Mount(el)
	}
	e := &entry{el: el, render: render}
	l.entries = append(l.entries, e)

	done := false
	return func() {
		if done {
			return
		}
		done = true
		for i, other := range l.entries {
			if other == e {
				l.entries = append(l.entries[:i], l.entries[i+1:]...)
				break
			}
		}
		if target != nil {
			if el.Parent() == target {
				target.Remove(el)
			}
			return
		}
		l.doc.Unmount(el)
	}
}

// Len returns the number of mounted entries.
func (l *Layer) Len() int {
	return len(l.entries)
}

// Composite draws every mounted entry with a renderer over base at its
// element's Rect, in mount order, clipped to width×height.
func (l *Layer) Composite(base string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	out := fitCanvas(base, width, height)
	for _, e := range l.entries {
		if e.render == nil || !e.el.Mounted() {
			continue
		}
		out = OverlayAt(out, e.render(e.el), e.el.Rect.X, e.el.Rect.Y, width, height)
	}
	return out
}

// OverlayAt draws overlay over base with its top-left cell at (x, y).
func OverlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayLines := splitToLines(overlay, 0)
	overlayWidth := maxLineWidth(overlayLines)

	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padRightANSI(baseLines[row], width)

		// Columns left of the screen are cut from the overlay line.
		ox := x
		if ox < 0 {
			line = dropColumns(line, -ox)
			ox = 0
		}
		left := ansi.Truncate(target, ox, "")
		if w := ansi.StringWidth(left); w < ox {
			left += strings.Repeat(" ", ox-w)
		}

		overlayLine := padRightANSI(line, max(0, overlayWidth-(ox-x)))
		pos := ox + ansi.StringWidth(overlayLine)
		right := dropColumns(target, pos)
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		baseLines[row] = ansi.Truncate(left+overlayLine+right, width, "")
	}
	return strings.Join(baseLines, "\n")
}

func fitCanvas(s string, width, height int) string {
	lines := splitToLines(s, height)
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	widest := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return ansi.TruncateLeft(s, cols, "")
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
