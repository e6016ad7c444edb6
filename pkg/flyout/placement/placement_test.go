package placement

import (
	"errors"
	"testing"

	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/mouse"
)

func TestCompute(t *testing.T) {
	trigger := mouse.Rect{X: 10, Y: 5, W: 6, H: 1}

	tests := []struct {
		name string
		cfg  Config
		w, h int
		want Position
	}{
		{
			name: "bottom start",
			cfg:  Config{Side: Bottom, Align: Start},
			w:    10, h: 3,
			want: Position{Side: Bottom, Rect: mouse.Rect{X: 10, Y: 6, W: 10, H: 3}},
		},
		{
			name: "top center with gutter",
			cfg:  Config{Side: Top, Align: Center, Gutter: 1},
			w:    4, h: 2,
			want: Position{Side: Top, Rect: mouse.Rect{X: 11, Y: 2, W: 4, H: 2}},
		},
		{
			name: "right end",
			cfg:  Config{Side: Right, Align: End},
			w:    5, h: 3,
			want: Position{Side: Right, Rect: mouse.Rect{X: 16, Y: 3, W: 5, H: 3}},
		},
		{
			name: "left with offset",
			cfg:  Config{Side: Left, Align: Start, Offset: 2},
			w:    5, h: 1,
			want: Position{Side: Left, Rect: mouse.Rect{X: 5, Y: 7, W: 5, H: 1}},
		},
		{
			name: "top flips to bottom",
			cfg:  Config{Side: Top, Align: Start, Flip: true},
			w:    5, h: 8,
			want: Position{Side: Bottom, Rect: mouse.Rect{X: 10, Y: 6, W: 5, H: 8}},
		},
		{
			name: "shift keeps inside viewport",
			cfg:  Config{Side: Bottom, Align: Start, Shift: true},
			w:    30, h: 2,
			want: Position{Side: Bottom, Rect: mouse.Rect{X: 10, Y: 6, W: 30, H: 2}},
		},
		{
			name: "shift clamps right edge",
			cfg:  Config{Side: Bottom, Align: Start, Offset: 25, Shift: true},
			w:    10, h: 2,
			want: Position{Side: Bottom, Rect: mouse.Rect{X: 30, Y: 6, W: 10, H: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(trigger, tt.w, tt.h, 40, 20, tt.cfg)
			if got != tt.want {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide(" Top "); err != nil || s != Top {
		t.Errorf("ParseSide(Top) = %q, %v", s, err)
	}
	if _, err := ParseSide("diagonal"); !errors.Is(err, ErrUnknownSide) {
		t.Errorf("ParseSide(diagonal) err = %v, want ErrUnknownSide", err)
	}
	if _, err := ParseAlign("middle"); !errors.Is(err, ErrUnknownAlign) {
		t.Errorf("ParseAlign(middle) err = %v, want ErrUnknownAlign", err)
	}
}

func TestServiceAttachAndRelease(t *testing.T) {
	s := NewService(40, 20)
	trigger := dom.NewElement("button", "")
	trigger.Rect = mouse.Rect{X: 2, Y: 2, W: 4, H: 1}
	overlay := dom.NewElement("tooltip", "")
	overlay.Rect = mouse.Rect{W: 6, H: 2}

	release := s.Attach(trigger, overlay, Config{Side: Bottom, Align: Start})
	if s.Live() != 1 {
		t.Fatalf("Live() = %d, want 1", s.Live())
	}
	if overlay.Rect.X != 2 || overlay.Rect.Y != 3 {
		t.Errorf("overlay at (%d,%d), want (2,3)", overlay.Rect.X, overlay.Rect.Y)
	}
	if got := overlay.Attr("data-side"); got != "bottom" {
		t.Errorf("data-side = %q, want bottom", got)
	}

	trigger.Rect.Y = 10
	s.Reflow()
	if overlay.Rect.Y != 11 {
		t.Errorf("after Reflow overlay Y = %d, want 11", overlay.Rect.Y)
	}

	release()
	release()
	if s.Live() != 0 {
		t.Errorf("Live() = %d after release, want 0", s.Live())
	}
	if _, ok := s.PositionOf(overlay); ok {
		t.Error("released overlay still has a position")
	}
}

func TestServiceResizeFlips(t *testing.T) {
	s := NewService(40, 20)
	trigger := dom.NewElement("button", "")
	trigger.Rect = mouse.Rect{X: 0, Y: 8, W: 4, H: 1}
	overlay := dom.NewElement("menu", "")
	overlay.Rect = mouse.Rect{W: 6, H: 5}

	s.Attach(trigger, overlay, Config{Side: Bottom, Flip: true})
	if pos, _ := s.PositionOf(overlay); pos.Side != Bottom {
		t.Fatalf("side = %s, want bottom", pos.Side)
	}

	s.Resize(40, 12)
	if pos, _ := s.PositionOf(overlay); pos.Side != Top {
		t.Errorf("after resize side = %s, want top", pos.Side)
	}
}
