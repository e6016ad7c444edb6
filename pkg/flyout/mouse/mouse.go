// Package mouse provides hit testing and click/hover/wheel classification
// for bubbletea mouse messages.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickThreshold is the maximum gap between two presses on the same
// region that still counts as a double click.
const DoubleClickThreshold = 400 * time.Millisecond

// Rect is a screen rectangle in cells. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Region is a named hit area.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds regions in paint order; later regions win.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add appends a region on top of the existing ones.
func (h *HitMap) Add(r Region) {
	h.regions = append(h.regions, r)
}

// AddRect is shorthand for Add with a rectangle.
func (h *HitMap) AddRect(id string, x, y, w, hgt int, data any) {
	h.Add(Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: hgt}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Clear removes every region.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns the regions in paint order.
func (h *HitMap) Regions() []Region {
	return h.regions
}

// ActionType classifies a mouse message.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionRelease
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionDoubleClick:
		return "double-click"
	case ActionRelease:
		return "release"
	case ActionHover:
		return "hover"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	case ActionScrollLeft:
		return "scroll-left"
	case ActionScrollRight:
		return "scroll-right"
	default:
		return "none"
	}
}

// Action is the classified result of HandleMouse.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// ScrollDelta returns the wheel direction as a unit step, or zeros for
// non-wheel actions.
func (a Action) ScrollDelta() (dx, dy int) {
	switch a.Type {
	case ActionScrollUp:
		return 0, -1
	case ActionScrollDown:
		return 0, 1
	case ActionScrollLeft:
		return -1, 0
	case ActionScrollRight:
		return 1, 0
	}
	return 0, 0
}

// ClickResult is returned by HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler owns a hit map plus double-click state.
type Handler struct {
	HitMap *HitMap

	lastClickID   string
	lastClickTime time.Time
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleClick hit tests a press and tracks double clicks. A double click
// resets the tracker so a third press starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickID = ""
		return ClickResult{}
	}

	now := time.Now()
	double := region.ID == h.lastClickID && now.Sub(h.lastClickTime) <= DoubleClickThreshold
	if double {
		h.lastClickID = ""
		h.lastClickTime = time.Time{}
	} else {
		h.lastClickID = region.ID
		h.lastClickTime = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// Clear drops all regions.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleMouse classifies msg against the hit map.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	a := Action{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.Type = ActionScrollUp
			if msg.Shift {
				a.Type = ActionScrollLeft
			}
		case tea.MouseButtonWheelDown:
			a.Type = ActionScrollDown
			if msg.Shift {
				a.Type = ActionScrollRight
			}
		case tea.MouseButtonWheelLeft:
			a.Type = ActionScrollLeft
		case tea.MouseButtonWheelRight:
			a.Type = ActionScrollRight
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			a.Region = res.Region
			a.Type = ActionClick
			if res.IsDoubleClick {
				a.Type = ActionDoubleClick
			}
			return a
		default:
			return a
		}
		a.Region = h.HitMap.Test(msg.X, msg.Y)

	case tea.MouseActionMotion:
		a.Type = ActionHover
		a.Region = h.HitMap.Test(msg.X, msg.Y)

	case tea.MouseActionRelease:
		a.Type = ActionRelease
		a.Region = h.HitMap.Test(msg.X, msg.Y)
	}
	return a
}
