package style

import "slices"

// Property is a single style value together with whether the author set it
// and whether it may be taken from an ancestor.
type Property[T any] struct {
	value       T
	explicit    bool
	inheritable bool
}

func inherited[T any](v T) Property[T] {
	return Property[T]{value: v, inheritable: true}
}

func local[T any](v T) Property[T] {
	return Property[T]{value: v}
}

// Get returns the current value.
func (p Property[T]) Get() T { return p.value }

// Set stores v and marks the property explicit.
func (p *Property[T]) Set(v T) {
	p.value = v
	p.explicit = true
}

// IsExplicit reports whether the value was set by the author.
func (p Property[T]) IsExplicit() bool { return p.explicit }

// IsInheritable reports whether the property takes its parent's value when not explicit.
func (p Property[T]) IsInheritable() bool { return p.inheritable }

func (p *Property[T]) inheritFrom(parent property) {
	src, ok := parent.(*Property[T])
	if !ok {
		return
	}
	p.value = cloneValue(src.value)
	p.explicit = false
}

func (p *Property[T]) deepCopy() {
	p.value = cloneValue(p.value)
}

// property is the type-erased view used by the name table.
type property interface {
	IsExplicit() bool
	IsInheritable() bool
	inheritFrom(parent property)
	deepCopy()
}

// cloneValue copies the reference-typed values a style can hold so parent and
// child never share backing storage.
func cloneValue[T any](v T) T {
	var out any
	switch x := any(v).(type) {
	case []Shadow:
		out = slices.Clone(x)
	case []string:
		out = slices.Clone(x)
	case *Decoration:
		if x == nil {
			return v
		}
		c := *x
		if x.Color != nil {
			col := *x.Color
			c.Color = &col
		}
		out = &c
	case *OutlineStroke:
		if x == nil {
			return v
		}
		c := *x
		out = &c
	case *Border:
		if x == nil {
			return v
		}
		c := *x
		out = &c
	case *BackgroundImage:
		if x == nil {
			return v
		}
		c := *x
		out = &c
	case *Position:
		if x == nil {
			return v
		}
		c := *x
		out = &c
	default:
		return v
	}
	return out.(T)
}
