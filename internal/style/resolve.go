package style

// Resolve computes the style a node ends up with. Explicit properties keep
// their raw value, inheritable ones take a copy of the parent's resolved value,
// and everything else keeps its raw default. parent must already be resolved;
// a nil parent means raw is the root and is returned as a copy.
func Resolve(raw, parent *Style) (*Style, error) {
	return ResolveNamed(raw, parent, PropertyNames()...)
}

// ResolveNamed is Resolve restricted to the given property names. Names not in
// the property table fail with ErrUnknownStyleProperty.
func ResolveNamed(raw, parent *Style, names ...string) (*Style, error) {
	out := raw.Clone()
	if parent == nil {
		return out, nil
	}
	for _, name := range names {
		p, err := out.lookup(name)
		if err != nil {
			return nil, err
		}
		if p.IsExplicit() || !p.IsInheritable() {
			continue
		}
		pp, err := parent.lookup(name)
		if err != nil {
			return nil, err
		}
		p.inheritFrom(pp)
	}
	return out, nil
}
