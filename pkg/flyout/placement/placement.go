// Package placement positions overlay elements next to their triggers inside
// a terminal viewport. It flips to the opposite side when the preferred side
// has no room and shifts the overlay back on screen.
package placement

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/mouse"
)

// ErrUnknownSide is returned by ParseSide.
var ErrUnknownSide = errors.New("unknown placement side")

// ErrUnknownAlign is returned by ParseAlign.
var ErrUnknownAlign = errors.New("unknown placement alignment")

// Side is the trigger edge the overlay is placed against.
type Side string

const (
	Top    Side = "top"
	Bottom Side = "bottom"
	Left   Side = "left"
	Right  Side = "right"
)

// Opposite returns the side across the trigger.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Left:
		return Right
	case Right:
		return Left
	default:
		return Top
	}
}

// ParseSide parses "top", "bottom", "left" or "right".
func ParseSide(s string) (Side, error) {
	switch side := Side(strings.ToLower(strings.TrimSpace(s))); side {
	case Top, Bottom, Left, Right:
		return side, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// Align is the position along the trigger edge.
type Align string

const (
	Start  Align = "start"
	Center Align = "center"
	End    Align = "end"
)

// ParseAlign parses "start", "center" or "end".
func ParseAlign(s string) (Align, error) {
	switch a := Align(strings.ToLower(strings.TrimSpace(s))); a {
	case Start, Center, End:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlign, s)
}

// Config describes where an overlay goes. The zero value places it below the
// trigger, centered, touching it, with flip and shift disabled.
type Config struct {
	Side   Side
	Align  Align
	Gutter int // cells between trigger and overlay
	Offset int // shift along the trigger edge
	Flip   bool
	Shift  bool
}

// Position is a computed placement.
type Position struct {
	Side Side
	Rect mouse.Rect
}

// Compute places an overlay of size w×h against trigger in a viewport of
// vw×vh cells.
func Compute(trigger mouse.Rect, w, h, vw, vh int, cfg Config) Position {
	side := cfg.Side
	if side == "" {
		side = Bottom
	}
	rect := place(trigger, w, h, side, cfg)
	if cfg.Flip && !fitsMain(rect, side, vw, vh) {
		alt := place(trigger, w, h, side.Opposite(), cfg)
		if fitsMain(alt, side.Opposite(), vw, vh) {
			side, rect = side.Opposite(), alt
		}
	}
	if cfg.Shift {
		rect.X = clamp(rect.X, 0, vw-rect.W)
		rect.Y = clamp(rect.Y, 0, vh-rect.H)
	}
	return Position{Side: side, Rect: rect}
}

func place(t mouse.Rect, w, h int, side Side, cfg Config) mouse.Rect {
	r := mouse.Rect{W: w, H: h}
	switch side {
	case Top, Bottom:
		r.X = alignStart(t.X, t.W, w, cfg.Align) + cfg.Offset
		if side == Top {
			r.Y = t.Y - h - cfg.Gutter
		} else {
			r.Y = t.Y + t.H + cfg.Gutter
		}
	case Left, Right:
		r.Y = alignStart(t.Y, t.H, h, cfg.Align) + cfg.Offset
		if side == Left {
			r.X = t.X - w - cfg.Gutter
		} else {
			r.X = t.X + t.W + cfg.Gutter
		}
	}
	return r
}

func alignStart(pos, triggerLen, overlayLen int, a Align) int {
	switch a {
	case Start:
		return pos
	case End:
		return pos + triggerLen - overlayLen
	default:
		return pos + (triggerLen-overlayLen)/2
	}
}

func fitsMain(r mouse.Rect, side Side, vw, vh int) bool {
	switch side {
	case Top:
		return r.Y >= 0
	case Bottom:
		return r.Y+r.H <= vh
	case Left:
		return r.X >= 0
	default:
		return r.X+r.W <= vw
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type attachment struct {
	trigger *dom.Element
	overlay *dom.Element
	cfg     Config
	pos     Position
}

// Service keeps every live attachment positioned. Overlay elements must carry
// their measured size in Rect.W and Rect.H; the service writes X and Y.
type Service struct {
	width, height int
	live          map[int]*attachment
	order         []int
	nextID        int
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns a service for a width×height viewport.
func NewService(width, height int, opts ...Option) *Service {
	s := &Service{
		width:  width,
		height: height,
		live:   make(map[int]*attachment),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach positions overlay now and on every Reflow until the returned
// function is called. The returned function is idempotent.
func (s *Service) Attach(trigger, overlay *dom.Element, cfg Config) func() {
	s.nextID++
	id := s.nextID
	a := &attachment{trigger: trigger, overlay: overlay, cfg: cfg}
	s.live[id] = a
	s.order = append(s.order, id)
	s.position(a)
	s.logger.Debug("placement attached", "id", id, "side", a.pos.Side, "x", a.pos.Rect.X, "y", a.pos.Rect.Y)

	return func() {
		if _, ok := s.live[id]; !ok {
			return
		}
		delete(s.live, id)
		for i, other := range s.order {
			if other == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		s.logger.Debug("placement released", "id", id)
	}
}

// Resize changes the viewport and repositions every live attachment.
func (s *Service) Resize(width, height int) {
	s.width, s.height = width, height
	s.Reflow()
}

// Reflow repositions every live attachment, in attach order. Call it after
// a trigger moves or an overlay's size changes.
func (s *Service) Reflow() {
	for _, id := range s.order {
		s.position(s.live[id])
	}
}

// Live returns the number of live attachments.
func (s *Service) Live() int {
	return len(s.live)
}

// PositionOf returns the last computed position for overlay.
func (s *Service) PositionOf(overlay *dom.Element) (Position, bool) {
	for _, id := range s.order {
		if a := s.live[id]; a.overlay == overlay {
			return a.pos, true
		}
	}
	return Position{}, false
}

func (s *Service) position(a *attachment) {
	a.pos = Compute(a.trigger.Rect, a.overlay.Rect.W, a.overlay.Rect.H, s.width, s.height, a.cfg)
	a.overlay.Rect = a.pos.Rect
	a.overlay.SetAttr("data-side", string(a.pos.Side))
	a.overlay.Relayout()
}
