package mouse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRect(t *testing.T) {
	r := Rect{X: 4, Y: 2, W: 6, H: 3}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"origin", 4, 2, true},
		{"last column", 9, 2, true},
		{"last row", 4, 4, true},
		{"past right edge", 10, 2, false},
		{"past bottom edge", 4, 5, false},
		{"left of origin", 3, 2, false},
		{"above origin", 4, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	for _, e := range []Rect{{W: 0, H: 1}, {W: 1, H: 0}, {W: -2, H: 3}} {
		if !e.Empty() {
			t.Errorf("%+v should be empty", e)
		}
	}
	if r.Empty() {
		t.Errorf("%+v should not be empty", r)
	}
}

func TestHitMapTopmostWins(t *testing.T) {
	hm := NewHitMap()
	hm.AddRect("toolbar", 0, 0, 40, 1, nil)
	hm.AddRect("menu", 2, 0, 12, 6, nil)
	hm.AddRect("item", 3, 2, 10, 1, "Copy")

	tests := []struct {
		x, y int
		want string
	}{
		{5, 2, "item"},
		{5, 3, "menu"},
		{30, 0, "toolbar"},
		{30, 5, ""},
	}
	for _, tt := range tests {
		r := hm.Test(tt.x, tt.y)
		got := ""
		if r != nil {
			got = r.ID
		}
		if got != tt.want {
			t.Errorf("Test(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}

	if r := hm.Test(5, 2); r.Data != "Copy" {
		t.Errorf("item data = %v, want Copy", r.Data)
	}

	hm.Clear()
	if n := len(hm.Regions()); n != 0 {
		t.Errorf("%d regions after Clear", n)
	}
}

func TestHandleClickDoubleClickResets(t *testing.T) {
	h := NewHandler()
	h.HitMap.AddRect("button", 0, 0, 8, 1, nil)

	want := []bool{false, true, false}
	for i, double := range want {
		res := h.HandleClick(2, 0)
		if res.Region == nil || res.Region.ID != "button" {
			t.Fatalf("press %d hit %v, want button", i, res.Region)
		}
		if res.IsDoubleClick != double {
			t.Errorf("press %d double = %v, want %v", i, res.IsDoubleClick, double)
		}
	}

	if res := h.HandleClick(20, 5); res.Region != nil {
		t.Errorf("miss hit %v", res.Region)
	}
	if res := h.HandleClick(2, 0); res.IsDoubleClick {
		t.Error("a miss between presses should break the double click")
	}
}

func TestHandleMouse(t *testing.T) {
	press := func(b tea.MouseButton, shift bool) tea.MouseMsg {
		return tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: b, Shift: shift}
	}

	tests := []struct {
		name   string
		msg    tea.MouseMsg
		want   ActionType
		dx, dy int
	}{
		{"left press", press(tea.MouseButtonLeft, false), ActionClick, 0, 0},
		{"motion", tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionMotion}, ActionHover, 0, 0},
		{"release", tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionRelease}, ActionRelease, 0, 0},
		{"wheel up", press(tea.MouseButtonWheelUp, false), ActionScrollUp, 0, -1},
		{"wheel down", press(tea.MouseButtonWheelDown, false), ActionScrollDown, 0, 1},
		{"shift wheel up", press(tea.MouseButtonWheelUp, true), ActionScrollLeft, -1, 0},
		{"shift wheel down", press(tea.MouseButtonWheelDown, true), ActionScrollRight, 1, 0},
		{"wheel left", press(tea.MouseButtonWheelLeft, false), ActionScrollLeft, -1, 0},
		{"wheel right", press(tea.MouseButtonWheelRight, false), ActionScrollRight, 1, 0},
		{"right press", press(tea.MouseButtonRight, false), ActionNone, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			h.HitMap.AddRect("item", 0, 0, 10, 1, nil)

			a := h.HandleMouse(tt.msg)
			if a.Type != tt.want {
				t.Fatalf("type = %v, want %v", a.Type, tt.want)
			}
			if tt.want != ActionNone && (a.Region == nil || a.Region.ID != "item") {
				t.Errorf("region = %v, want item", a.Region)
			}
			if dx, dy := a.ScrollDelta(); dx != tt.dx || dy != tt.dy {
				t.Errorf("ScrollDelta = (%d, %d), want (%d, %d)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}

func TestHandleMouseDoublePress(t *testing.T) {
	h := NewHandler()
	h.HitMap.AddRect("item", 0, 0, 10, 1, nil)

	msg := tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if a := h.HandleMouse(msg); a.Type != ActionClick {
		t.Fatalf("first press = %v, want click", a.Type)
	}
	if a := h.HandleMouse(msg); a.Type != ActionDoubleClick {
		t.Errorf("second press = %v, want double-click", a.Type)
	}
}

func TestActionTypeString(t *testing.T) {
	tests := map[ActionType]string{
		ActionNone:        "none",
		ActionClick:       "click",
		ActionScrollLeft:  "scroll-left",
		ActionScrollRight: "scroll-right",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(a), got, want)
		}
	}
}
