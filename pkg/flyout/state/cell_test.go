package state

import (
	"slices"
	"testing"
)

func TestCellSetNotifiesInOrder(t *testing.T) {
	c := New(false)
	var log []string

	c.SetEffect(func(v bool) {
		if c.Get() != v {
			t.Errorf("effect saw stale value: Get() = %v, want %v", c.Get(), v)
		}
		log = append(log, "effect")
	})
	c.Subscribe(func(bool) { log = append(log, "a") })
	c.Subscribe(func(bool) { log = append(log, "b") })

	if !c.Set(true) {
		t.Fatal("Set(true) should report a change")
	}

	want := []string{"effect", "a", "b"}
	if !slices.Equal(log, want) {
		t.Errorf("delivery order = %v, want %v", log, want)
	}
}

func TestCellSetEqualIsNotCommit(t *testing.T) {
	c := New(3)
	calls := 0
	c.SetEffect(func(int) { calls++ })
	c.Subscribe(func(int) { calls++ })

	if c.Set(3) {
		t.Error("Set of equal value reported a change")
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestCellUpdate(t *testing.T) {
	c := New(1)
	c.Update(func(v int) int { return v + 41 })
	if got := c.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}
}

func TestCellUnsubscribe(t *testing.T) {
	c := New("")
	calls := 0
	unsub := c.Subscribe(func(string) { calls++ })

	c.Set("x")
	unsub()
	unsub()
	c.Set("y")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := c.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
}

func TestCellUnsubscribeDuringDelivery(t *testing.T) {
	c := New(0)
	var second func()
	secondCalls := 0

	c.Subscribe(func(int) { second() })
	second = c.Subscribe(func(int) { secondCalls++ })

	c.Set(1)
	if secondCalls != 0 {
		t.Errorf("subscriber removed mid-delivery was still called %d times", secondCalls)
	}
}

func TestCellSubscribeDoesNotReplay(t *testing.T) {
	c := New(true)
	called := false
	c.Subscribe(func(bool) { called = true })
	if called {
		t.Error("Subscribe replayed the current value")
	}
}

func TestCellNewFuncWithoutEqualAlwaysCommits(t *testing.T) {
	c := NewFunc[[]string](nil, nil)
	commits := 0
	c.Subscribe(func([]string) { commits++ })

	c.Set([]string{"a"})
	c.Set([]string{"a"})
	if commits != 2 {
		t.Errorf("commits = %d, want 2", commits)
	}
}
