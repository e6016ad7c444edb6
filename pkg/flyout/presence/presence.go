// Package presence mounts an overlay element exactly while a widget's open
// state is true.
package presence

import "github.com/marcus/flyout/pkg/flyout/state"

// Presence follows an open cell, calling mount on open and the teardown it
// returned on close.
type Presence struct {
	mount    func() func()
	teardown func()
	unsub    func()
}

// New follows open. If open is already true, mount runs immediately.
func New(open *state.Cell[bool], mount func() (teardown func())) *Presence {
	p := &Presence{mount: mount}
	p.unsub = open.Subscribe(p.set)
	p.set(open.Get())
	return p
}

// Mounted reports whether the overlay is currently mounted.
func (p *Presence) Mounted() bool {
	return p.teardown != nil
}

func (p *Presence) set(open bool) {
	switch {
	case open && p.teardown == nil:
		p.teardown = p.mount()
		if p.teardown == nil {
			p.teardown = func() {}
		}
	case !open && p.teardown != nil:
		teardown := p.teardown
		p.teardown = nil
		teardown()
	}
}

// Destroy stops following and unmounts. It is safe to call more than once.
func (p *Presence) Destroy() {
	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
	p.set(false)
}
