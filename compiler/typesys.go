package compiler

import (
	"strings"

	"github.com/MavenRain/CrossNet-sub002/model"
)

// TypeInfo is the canonical identity of one type for the lifetime of a
// TypeSystem. Base and interface queries are computed on first use and
// cached.
type TypeInfo struct {
	FullName string
	Ref      *model.TypeReference
	Decl     *model.TypeDecl

	ts *TypeSystem

	base           *TypeInfo
	baseResolved   bool
	interfaces     []*TypeInfo
	ifacesResolved bool
	resolving      bool
	exclusive      []*TypeInfo
	exclResolved   bool
}

// IsValueType reports whether instances are value-kind.
func (ti *TypeInfo) IsValueType() bool {
	if ti.Decl != nil {
		return ti.Decl.IsValueType()
	}
	return ti.Ref.Kind == model.NamedType && ti.Ref.ValueType
}

// IsInterface reports whether ti is an interface type.
func (ti *TypeInfo) IsInterface() bool {
	if ti.Decl != nil {
		return ti.Decl.Kind == model.Interface
	}
	return knownInterfaces[ti.Ref.QualifiedName()]
}

// IsEnum reports whether ti is an enum type.
func (ti *TypeInfo) IsEnum() bool {
	return ti.Decl != nil && ti.Decl.Kind == model.Enum
}

// IsDelegate reports whether ti is a delegate type.
func (ti *TypeInfo) IsDelegate() bool {
	if ti.Decl != nil {
		return ti.Decl.Kind == model.Delegate
	}
	r := ti.Ref
	return r.Kind == model.NamedType && r.Namespace == "System" && knownDelegates[model.StripArity(r.Name)]
}

// Primitive returns the primitive kind of ti, or PrimNone.
func (ti *TypeInfo) Primitive() Primitive {
	if lt, ok := predefined[ti.FullName]; ok {
		return lt.prim
	}
	return PrimNone
}

// Base returns the canonical base type, or nil for roots and external types.
func (ti *TypeInfo) Base() *TypeInfo {
	if ti.baseResolved {
		return ti.base
	}
	ti.baseResolved = true
	if ti.Decl == nil || ti.Decl.BaseType == nil {
		return nil
	}
	ti.base = ti.ts.Canonical(ti.ts.substitute(ti.Decl.BaseType, ti.bindings(), 0))
	return ti.base
}

// Interfaces returns the union of declared and inherited interfaces.
func (ti *TypeInfo) Interfaces() []*TypeInfo {
	if ti.ifacesResolved {
		return ti.interfaces
	}
	if ti.resolving {
		// self-referential interface graph; the outer call completes the set
		return nil
	}
	ti.resolving = true
	var out []*TypeInfo
	seen := make(map[*TypeInfo]bool)
	add := func(i *TypeInfo) {
		if i != nil && i != ti && !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	if ti.Decl != nil {
		b := ti.bindings()
		for _, r := range ti.Decl.Interfaces {
			i := ti.ts.Canonical(ti.ts.substitute(r, b, 0))
			add(i)
			for _, inherited := range i.Interfaces() {
				add(inherited)
			}
		}
	}
	if base := ti.Base(); base != nil {
		for _, i := range base.Interfaces() {
			add(i)
		}
	}
	ti.interfaces = out
	ti.ifacesResolved = true
	ti.resolving = false
	return out
}

// ExclusiveInterfaces returns the interfaces introduced at ti, excluding those
// already implemented by its base type.
func (ti *TypeInfo) ExclusiveInterfaces() []*TypeInfo {
	if ti.exclResolved {
		return ti.exclusive
	}
	inherited := make(map[*TypeInfo]bool)
	if base := ti.Base(); base != nil {
		for _, i := range base.Interfaces() {
			inherited[i] = true
		}
	}
	for _, i := range ti.Interfaces() {
		if !inherited[i] {
			ti.exclusive = append(ti.exclusive, i)
		}
	}
	ti.exclResolved = true
	return ti.exclusive
}

// bindings maps the declaration's generic parameter names to the arguments
// of this instantiation.
func (ti *TypeInfo) bindings() map[string]*model.TypeReference {
	if ti.Decl == nil || len(ti.Decl.GenericParameters) == 0 {
		return nil
	}
	args := ti.Ref.GenericArguments
	if len(args) != len(ti.Decl.GenericParameters) {
		return nil
	}
	b := make(map[string]*model.TypeReference, len(args))
	for i, gp := range ti.Decl.GenericParameters {
		b[gp.Name] = args[i]
	}
	return b
}

// TypeSystem canonicalizes type references for one generation run.
type TypeSystem struct {
	index    *model.Index
	maxDepth int

	byName map[string]*TypeInfo
	byRef  map[*model.TypeReference]*TypeInfo
	locals map[*TypeInfo]*LocalType

	truncations int
}

// NewTypeSystem creates a type system resolving declarations through index.
// maxGenericDepth bounds recursion into generic argument graphs.
func NewTypeSystem(index *model.Index, maxGenericDepth int) *TypeSystem {
	if maxGenericDepth < 1 {
		maxGenericDepth = 1
	}
	return &TypeSystem{
		index:    index,
		maxDepth: maxGenericDepth,
		byName:   make(map[string]*TypeInfo),
		byRef:    make(map[*model.TypeReference]*TypeInfo),
		locals:   make(map[*TypeInfo]*LocalType),
	}
}

// Canonical returns the unique TypeInfo for ref. Reference identity is
// trusted only for non-generic references; generic instantiations are
// matched by their rendered name.
func (ts *TypeSystem) Canonical(ref *model.TypeReference) *TypeInfo {
	if ref == nil {
		return nil
	}
	generic := hasGenericArguments(ref)
	if !generic {
		if ti, ok := ts.byRef[ref]; ok {
			return ti
		}
	}
	name := ts.Name(ref)
	ti, ok := ts.byName[name]
	if !ok {
		ti = &TypeInfo{FullName: name, Ref: ref, Decl: ts.index.Resolve(ref), ts: ts}
		ts.byName[name] = ti
	}
	if !generic {
		ts.byRef[ref] = ti
	}
	return ti
}

// Resolve returns the module declaration ref denotes, or nil for external
// types.
func (ts *TypeSystem) Resolve(ref *model.TypeReference) *model.TypeDecl {
	return ts.index.Resolve(ref)
}

// Len returns the number of canonical types created so far.
func (ts *TypeSystem) Len() int { return len(ts.byName) }

// Truncations counts renderings cut short by the generic depth bound.
func (ts *TypeSystem) Truncations() int { return ts.truncations }

// Name renders the canonical textual name of ref.
func (ts *TypeSystem) Name(ref *model.TypeReference) string {
	var sb strings.Builder
	ts.render(&sb, ref, 0)
	return sb.String()
}

func (ts *TypeSystem) render(sb *strings.Builder, r *model.TypeReference, depth int) {
	if r == nil {
		sb.WriteString("<nil>")
		return
	}
	if depth > ts.maxDepth {
		ts.truncations++
		sb.WriteString(r.QualifiedName())
		return
	}
	switch r.Kind {
	case model.ArrayType:
		ts.render(sb, r.Element, depth+1)
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat(",", r.Rank-1))
		sb.WriteByte(']')
	case model.PointerType:
		ts.render(sb, r.Element, depth+1)
		sb.WriteByte('*')
	case model.ByRefType:
		ts.render(sb, r.Element, depth+1)
		sb.WriteByte('&')
	case model.GenericParameterType:
		sb.WriteByte('!')
		sb.WriteString(r.Name)
	default:
		sb.WriteString(r.QualifiedName())
		if len(r.GenericArguments) > 0 {
			sb.WriteByte('<')
			for i, a := range r.GenericArguments {
				if i > 0 {
					sb.WriteByte(',')
				}
				ts.render(sb, a, depth+1)
			}
			sb.WriteByte('>')
		}
	}
}

// LocalType maps ref to its semantic tag: a predefined singleton when the
// canonical name matches one, otherwise a cached wrapper.
func (ts *TypeSystem) LocalType(ref *model.TypeReference) *LocalType {
	if ref == nil {
		return LocalUnknown
	}
	switch ref.Kind {
	case model.ArrayType:
		return LocalArray
	case model.PointerType:
		return LocalPointer
	case model.ByRefType:
		return ts.LocalType(ref.Element)
	}
	ti := ts.Canonical(ref)
	if lt, ok := predefined[ti.FullName]; ok {
		return lt
	}
	if lt, ok := ts.locals[ti]; ok {
		return lt
	}
	lt := &LocalType{Name: ti.FullName, Info: ti}
	ts.locals[ti] = lt
	return lt
}

// IsBaseType reports whether base is derived's type, one of its base types,
// or one of its interfaces. Every reference type derives from System.Object.
func (ts *TypeSystem) IsBaseType(base, derived *TypeInfo) bool {
	if base == nil || derived == nil {
		return false
	}
	if base == derived || base.FullName == "System.Object" {
		return true
	}
	steps := 0
	for b := derived.Base(); b != nil && steps <= ts.maxDepth*8; b = b.Base() {
		if b == base {
			return true
		}
		steps++
	}
	for _, i := range derived.Interfaces() {
		if i == base {
			return true
		}
	}
	return false
}

// substitute replaces generic parameters bound in b. The result shares
// unchanged subtrees with ref.
func (ts *TypeSystem) substitute(ref *model.TypeReference, b map[string]*model.TypeReference, depth int) *model.TypeReference {
	if ref == nil || len(b) == 0 || depth > ts.maxDepth {
		return ref
	}
	switch ref.Kind {
	case model.GenericParameterType:
		if arg, ok := b[ref.Name]; ok {
			return arg
		}
		return ref
	case model.ArrayType, model.PointerType, model.ByRefType:
		elem := ts.substitute(ref.Element, b, depth+1)
		if elem == ref.Element {
			return ref
		}
		c := *ref
		c.Element = elem
		return &c
	}
	if len(ref.GenericArguments) == 0 {
		return ref
	}
	c := *ref
	c.GenericArguments = make([]*model.TypeReference, len(ref.GenericArguments))
	for i, a := range ref.GenericArguments {
		c.GenericArguments[i] = ts.substitute(a, b, depth+1)
	}
	return &c
}

func hasGenericArguments(r *model.TypeReference) bool {
	for ; r != nil; r = r.Element {
		if len(r.GenericArguments) > 0 {
			return true
		}
	}
	return false
}

var knownInterfaces = map[string]bool{
	"System.IDisposable":                             true,
	"System.ICloneable":                              true,
	"System.IComparable":                             true,
	"System.IComparable`1":                           true,
	"System.IEquatable`1":                            true,
	"System.IFormattable":                            true,
	"System.Collections.IEnumerable":                 true,
	"System.Collections.IEnumerator":                 true,
	"System.Collections.ICollection":                 true,
	"System.Collections.IList":                       true,
	"System.Collections.IDictionary":                 true,
	"System.Collections.Generic.IEnumerable`1":       true,
	"System.Collections.Generic.IEnumerator`1":       true,
	"System.Collections.Generic.ICollection`1":       true,
	"System.Collections.Generic.IList`1":             true,
	"System.Collections.Generic.IDictionary`2":       true,
	"System.Collections.Generic.IComparer`1":         true,
	"System.Collections.Generic.IEqualityComparer`1": true,
}

var knownDelegates = map[string]bool{
	"Action":        true,
	"Func":          true,
	"Predicate":     true,
	"Comparison":    true,
	"Converter":     true,
	"EventHandler":  true,
	"AsyncCallback": true,
}
