package attach

import (
	"fmt"
	"testing"

	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/state"
)

type recorder struct {
	log      []string
	attaches int
	cleanups int
}

func (r *recorder) Attach(trigger, overlay *dom.Element, cfg string) func() {
	r.attaches++
	n := r.attaches
	r.log = append(r.log, fmt.Sprintf("attach%d:%s", n, cfg))
	done := false
	return func() {
		if done {
			return
		}
		done = true
		r.cleanups++
		r.log = append(r.log, fmt.Sprintf("cleanup%d", n))
	}
}

func setup() (*recorder, *Controller[string], *state.Cell[bool], *state.Cell[*dom.Element]) {
	r := &recorder{}
	open := state.New(false)
	overlay := state.New[*dom.Element](nil)
	c := New[string](r, "bottom", open, overlay)
	c.SetTrigger(dom.NewElement("button", "trigger"))
	return r, c, open, overlay
}

func TestAttachRequiresOpenAndOverlay(t *testing.T) {
	r, c, open, overlay := setup()

	open.Set(true)
	if r.attaches != 0 {
		t.Fatal("attached without an overlay")
	}
	overlay.Set(dom.NewElement("menu", ""))
	if r.attaches != 1 || !c.Attached() {
		t.Fatalf("attaches = %d, want 1", r.attaches)
	}

	overlay.Set(nil)
	if r.cleanups != 1 || c.Attached() {
		t.Errorf("cleanups = %d after unmount, want 1", r.cleanups)
	}
}

func TestToggleSequenceIsBalanced(t *testing.T) {
	r, _, open, overlay := setup()
	overlay.Set(dom.NewElement("menu", ""))

	const n = 5
	for range n {
		open.Set(true)
		open.Set(false)
	}

	if r.attaches != n || r.cleanups != n {
		t.Fatalf("attaches=%d cleanups=%d, want %d each", r.attaches, r.cleanups, n)
	}
	for i := 1; i <= n; i++ {
		if r.log[2*(i-1)] != fmt.Sprintf("attach%d:bottom", i) || r.log[2*(i-1)+1] != fmt.Sprintf("cleanup%d", i) {
			t.Fatalf("log out of order: %v", r.log)
		}
	}
}

func TestOverlaySwapReattaches(t *testing.T) {
	r, _, open, overlay := setup()
	open.Set(true)
	overlay.Set(dom.NewElement("menu", "one"))
	overlay.Set(dom.NewElement("menu", "two"))

	want := []string{"attach1:bottom", "cleanup1", "attach2:bottom"}
	if fmt.Sprint(r.log) != fmt.Sprint(want) {
		t.Errorf("log = %v, want %v", r.log, want)
	}
}

func TestTriggerRemovalDetaches(t *testing.T) {
	r, c, open, overlay := setup()
	open.Set(true)
	overlay.Set(dom.NewElement("menu", ""))

	c.SetTrigger(nil)
	if r.cleanups != 1 {
		t.Errorf("cleanups = %d, want 1", r.cleanups)
	}
}

func TestDestroyRunsCleanupOnce(t *testing.T) {
	r, c, open, overlay := setup()
	open.Set(true)
	overlay.Set(dom.NewElement("menu", ""))

	c.Destroy()
	c.Destroy()
	if r.cleanups != 1 {
		t.Fatalf("cleanups = %d, want 1", r.cleanups)
	}
	if open.Subscribers() != 0 || overlay.Subscribers() != 0 {
		t.Error("Destroy left subscriptions behind")
	}

	open.Set(false)
	open.Set(true)
	if r.attaches != 1 {
		t.Errorf("attached after Destroy: attaches = %d", r.attaches)
	}
}

func TestReentrantCloseFromPlacer(t *testing.T) {
	open := state.New(false)
	overlay := state.New[*dom.Element](nil)
	var log []string
	placer := PlacerFunc[int](func(_, _ *dom.Element, _ int) func() {
		log = append(log, "attach")
		// The placer finds no room and closes the overlay synchronously.
		open.Set(false)
		return func() { log = append(log, "cleanup") }
	})
	c := New[int](placer, 0, open, overlay)
	c.SetTrigger(dom.NewElement("button", ""))
	overlay.Set(dom.NewElement("tooltip", ""))

	open.Set(true)

	want := []string{"attach", "cleanup"}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("log = %v, want %v", log, want)
	}
	if c.Attached() {
		t.Error("controller still attached after re-entrant close")
	}
}

func TestNilCleanupBecomesNoop(t *testing.T) {
	open := state.New(true)
	overlay := state.New(dom.NewElement("tooltip", ""))
	c := New[int](PlacerFunc[int](func(_, _ *dom.Element, _ int) func() { return nil }), 0, open, overlay)
	c.SetTrigger(dom.NewElement("button", ""))

	open.Set(false)
	c.Destroy()
}
