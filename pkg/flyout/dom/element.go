package dom

import (
	"github.com/google/uuid"
	"github.com/marcus/flyout/pkg/flyout/mouse"
)

// Element is a node in a Document: a trigger, an overlay panel, a menu item
// or any container around them.
type Element struct {
	ID       string
	Role     string
	Label    string
	Disabled bool
	Rect     mouse.Rect
	Data     any

	attrs    map[string]string
	parent   *Element
	children []*Element
	doc      *Document
	layout   func(*Element)
}

// NewElement returns a detached element with a fresh id.
func NewElement(role, label string) *Element {
	return &Element{
		ID:    uuid.NewString(),
		Role:  role,
		Label: label,
	}
}

// Parent returns the element's parent, or nil.
func (e *Element) Parent() *Element {
	if e == nil {
		return nil
	}
	return e.parent
}

// Children returns the direct children in order.
func (e *Element) Children() []*Element {
	if e == nil {
		return nil
	}
	return append([]*Element(nil), e.children...)
}

// Append adds children at the end. Children appended to a mounted element
// are mounted with it.
func (e *Element) Append(children ...*Element) {
	for _, c := range children {
		if c == nil || c == e {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = e
		e.children = append(e.children, c)
		if e.doc != nil {
			e.doc.attachTree(c)
		}
	}
}

// Remove detaches child, unmounting it if it was mounted.
func (e *Element) Remove(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			if child.doc != nil {
				child.doc.detachTree(child)
			}
			return
		}
	}
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if e == nil {
		return false
	}
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Mounted reports whether the element is currently part of a Document.
func (e *Element) Mounted() bool {
	return e != nil && e.doc != nil
}

// Query returns descendants with the given role in tree order.
func (e *Element) Query(role string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.children {
			if c.Role == role {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if e != nil {
		walk(e)
	}
	return out
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// Attrs returns a copy of the attribute map.
func (e *Element) Attrs() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// SetAttr sets an attribute; an empty value removes it.
func (e *Element) SetAttr(name, value string) {
	if value == "" {
		delete(e.attrs, name)
		return
	}
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// SetAttrs applies every entry of attrs with SetAttr.
func (e *Element) SetAttrs(attrs map[string]string) {
	for k, v := range attrs {
		e.SetAttr(k, v)
	}
}

// SetLayout registers fn to position the element's children whenever its
// Rect is moved through Relayout. A nil fn removes the hook.
func (e *Element) SetLayout(fn func(*Element)) {
	e.layout = fn
}

// Relayout runs the layout hook, if any.
func (e *Element) Relayout() {
	if e != nil && e.layout != nil {
		e.layout(e)
	}
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}
