package timer

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flyout/pkg/flyout/timer/timertest"
)

func instant(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

func counter(n *int) func() tea.Cmd {
	return func() tea.Cmd {
		*n++
		return nil
	}
}

func TestTimerFiresAfterDelay(t *testing.T) {
	clock := timertest.NewClock()
	fired := 0
	tm := New(time.Second, counter(&fired), WithTick(clock.Tick))
	u := timertest.UpdateFunc(func(msg tea.Msg) tea.Cmd {
		cmd, _ := tm.Update(msg)
		return cmd
	})

	timertest.Pump(u, tm.Start())
	if !tm.Pending() {
		t.Fatal("expected timer to be pending after Start")
	}

	clock.Advance(u, 999*time.Millisecond)
	if fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}

	clock.Advance(u, time.Millisecond)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if tm.Pending() {
		t.Error("timer still pending after firing")
	}
}

func TestTimerStartWhilePendingKeepsSchedule(t *testing.T) {
	clock := timertest.NewClock()
	fired := 0
	tm := New(time.Second, counter(&fired), WithTick(clock.Tick))
	u := timertest.UpdateFunc(func(msg tea.Msg) tea.Cmd {
		cmd, _ := tm.Update(msg)
		return cmd
	})

	timertest.Pump(u, tm.Start())
	clock.Advance(u, 600*time.Millisecond)

	if cmd := tm.Start(); cmd != nil {
		t.Error("Start while pending returned a new command")
	}
	clock.Advance(u, 400*time.Millisecond)
	if fired != 1 {
		t.Errorf("fired = %d, want 1 (original schedule preserved)", fired)
	}
}

func TestTimerStopCancels(t *testing.T) {
	clock := timertest.NewClock()
	fired := 0
	tm := New(0, counter(&fired), WithTick(clock.Tick))
	u := timertest.UpdateFunc(func(msg tea.Msg) tea.Cmd {
		cmd, _ := tm.Update(msg)
		return cmd
	})

	// Zero delay still defers, so Stop in the same turn wins.
	timertest.Pump(u, tm.Start())
	if fired != 0 {
		t.Fatal("zero-delay timer fired synchronously")
	}
	tm.Stop()
	tm.Stop()
	clock.Advance(u, time.Second)

	if fired != 0 {
		t.Errorf("fired = %d after Stop, want 0", fired)
	}
}

func TestTimerStaleFireIgnoredAfterRestart(t *testing.T) {
	fired := 0
	tm := New(time.Second, counter(&fired), WithTick(instant))

	first := tm.Start()
	tm.Stop()
	second := tm.Start()

	stale := first().(FireMsg)
	if _, handled := tm.Update(stale); !handled {
		t.Error("stale message for this timer should be claimed")
	}
	if fired != 0 {
		t.Fatalf("stale message ran the action")
	}

	fresh := second().(FireMsg)
	tm.Update(fresh)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
}

func TestTimerSetDelayAppliesToNextStart(t *testing.T) {
	clock := timertest.NewClock()
	tm := New(time.Second, nil, WithTick(clock.Tick))
	u := timertest.UpdateFunc(func(msg tea.Msg) tea.Cmd {
		cmd, _ := tm.Update(msg)
		return cmd
	})

	timertest.Pump(u, tm.Start())
	tm.SetDelay(200 * time.Millisecond)

	got := clock.Scheduled()
	if len(got) != 1 || got[0] != time.Second {
		t.Fatalf("Scheduled() = %v, want [1s]", got)
	}

	clock.Advance(u, time.Second)
	timertest.Pump(u, tm.Start())
	got = clock.Scheduled()
	if len(got) != 1 || got[0] != 200*time.Millisecond {
		t.Errorf("Scheduled() = %v, want [200ms]", got)
	}
}

func TestTimerImmediate(t *testing.T) {
	fired := 0
	tm := New(0, counter(&fired), WithImmediate(true))
	tm.Start()
	if fired != 1 {
		t.Errorf("immediate zero-delay timer fired %d times, want 1", fired)
	}
	if tm.Pending() {
		t.Error("immediate timer should not be pending")
	}
}

func TestTimerIgnoresForeignMessages(t *testing.T) {
	a := New(time.Second, nil, WithTick(instant))
	b := New(time.Second, nil, WithTick(instant))
	msg := b.Start()()

	if _, handled := a.Update(msg); handled {
		t.Error("timer claimed another timer's message")
	}
	if _, handled := a.Update(tea.KeyMsg{}); handled {
		t.Error("timer claimed a key message")
	}
}

func TestSettleRunsQueuedWorkNextTurn(t *testing.T) {
	s := NewSettle()
	var order []int

	s.Defer(func() tea.Cmd { order = append(order, 1); return nil })
	s.Defer(func() tea.Cmd { order = append(order, 2); return nil })

	cmd := s.Cmd()
	if cmd == nil {
		t.Fatal("expected flush command")
	}
	if s.Cmd() != nil {
		t.Error("second Cmd while flush in flight should be nil")
	}
	if len(order) != 0 {
		t.Fatal("deferred work ran before the flush message")
	}

	s.Update(cmd())
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestSettleCancel(t *testing.T) {
	s := NewSettle()
	ran := false
	s.Defer(func() tea.Cmd { ran = true; return nil })
	cmd := s.Cmd()

	s.Cancel()
	if _, handled := s.Update(cmd()); !handled {
		t.Error("cancelled flush should still be claimed")
	}
	if ran {
		t.Error("cancelled work ran")
	}
}
