package model

// Index resolves qualified type names to declarations within one module.
type Index struct {
	byName map[string]*TypeDecl
	all    []*TypeDecl
}

// Link sets the back-pointers of mod's declarations (nested type to
// enclosing type, member to declaring type) and returns a name index over
// every declared type, nested ones included.
func Link(mod *Module) *Index {
	idx := &Index{byName: make(map[string]*TypeDecl)}
	for _, t := range mod.Types {
		t.DeclaringType = nil
		idx.link(t)
	}
	return idx
}

func (idx *Index) link(t *TypeDecl) {
	idx.byName[t.FullName()] = t
	idx.all = append(idx.all, t)
	for _, m := range t.Methods {
		m.DeclaringType = t
	}
	for _, p := range t.Properties {
		if p.Getter != nil {
			p.Getter.DeclaringType = t
		}
		if p.Setter != nil {
			p.Setter.DeclaringType = t
		}
	}
	for _, e := range t.Events {
		if e.Adder != nil {
			e.Adder.DeclaringType = t
		}
		if e.Remover != nil {
			e.Remover.DeclaringType = t
		}
	}
	for _, n := range t.NestedTypes {
		n.DeclaringType = t
		idx.link(n)
	}
}

// Lookup returns the declaration with the given qualified name.
func (idx *Index) Lookup(fullName string) (*TypeDecl, bool) {
	if idx == nil {
		return nil, false
	}
	d, ok := idx.byName[fullName]
	return d, ok
}

// Resolve returns the declaration r denotes, if it is declared in the module.
func (idx *Index) Resolve(r *TypeReference) *TypeDecl {
	if r == nil || r.Kind != NamedType {
		return nil
	}
	if r.Definition != nil {
		return r.Definition
	}
	d, _ := idx.Lookup(r.QualifiedName())
	return d
}

// Types returns every declared type in declaration order, enclosing types
// before their nested types.
func (idx *Index) Types() []*TypeDecl {
	if idx == nil {
		return nil
	}
	return idx.all
}
