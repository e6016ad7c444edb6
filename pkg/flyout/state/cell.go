// Package state provides the observable value cell the overlay widgets keep
// their open state and mounted overlay element in.
//
// A commit stores the new value, then runs the cell's effect (if one is
// registered), then notifies subscribers in the order they subscribed. Setting
// a value equal to the current one is not a commit.
package state

// Cell holds a single value of type T.
type Cell[T any] struct {
	value  T
	equal  func(a, b T) bool
	effect func(T)
	subs   []*subscriber[T]
}

type subscriber[T any] struct {
	fn     func(T)
	active bool
}

// New returns a cell holding initial, using == to detect no-op sets.
func New[T comparable](initial T) *Cell[T] {
	return &Cell[T]{value: initial, equal: func(a, b T) bool { return a == b }}
}

// NewFunc returns a cell that compares values with equal. A nil equal makes
// every Set a commit, which suits slices and maps.
func NewFunc[T any](initial T, equal func(a, b T) bool) *Cell[T] {
	return &Cell[T]{value: initial, equal: equal}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set commits v unless it equals the current value, and reports whether it
// committed.
func (c *Cell[T]) Set(v T) bool {
	if c.equal != nil && c.equal(c.value, v) {
		return false
	}
	c.value = v
	if c.effect != nil {
		c.effect(v)
	}

	// Snapshot so subscribers added during delivery wait for the next commit.
	subs := append([]*subscriber[T](nil), c.subs...)
	for _, s := range subs {
		if s.active {
			s.fn(v)
		}
	}
	return true
}

// Update commits fn applied to the current value.
func (c *Cell[T]) Update(fn func(T) T) bool {
	return c.Set(fn(c.value))
}

// SetEffect registers the side effect run on every commit, before
// subscribers. A nil fn removes it.
func (c *Cell[T]) SetEffect(fn func(T)) {
	c.effect = fn
}

// Subscribe registers fn for future commits. The current value is not
// replayed. The returned function unsubscribes and is safe to call more than
// once.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	s := &subscriber[T]{fn: fn, active: true}
	c.subs = append(c.subs, s)
	return func() {
		if !s.active {
			return
		}
		s.active = false
		for i, other := range c.subs {
			if other == s {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (c *Cell[T]) Subscribers() int {
	return len(c.subs)
}
