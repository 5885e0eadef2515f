// Package model defines the input contract of the emitter: a fully resolved,
// typed object model of declared types, members, statements and expressions,
// as produced by the external decompiling collaborator.
//
// Nodes are immutable once built. The emitter never mutates them.
package model

import (
	"strconv"
	"strings"
)

// TypeKind distinguishes the shapes a TypeReference can take.
type TypeKind int

const (
	NamedType TypeKind = iota
	ArrayType
	PointerType
	ByRefType
	GenericParameterType
)

// TypeReference is a nominal type identity as supplied by the input. The same
// type may be denoted by several distinct TypeReference objects.
type TypeReference struct {
	Kind             TypeKind
	Name             string
	Namespace        string
	GenericArguments []*TypeReference
	DeclaringType    *TypeReference
	Element          *TypeReference
	Rank             int
	ValueType        bool
	Definition       *TypeDecl
}

// NewNamed returns a reference to a named type.
func NewNamed(namespace, name string, valueType bool) *TypeReference {
	return &TypeReference{Kind: NamedType, Namespace: namespace, Name: name, ValueType: valueType}
}

// ArrayOf returns a reference to an array of elem with the given rank.
func ArrayOf(elem *TypeReference, rank int) *TypeReference {
	if rank < 1 {
		rank = 1
	}
	return &TypeReference{Kind: ArrayType, Element: elem, Rank: rank}
}

// PointerTo returns an unmanaged pointer type.
func PointerTo(elem *TypeReference) *TypeReference {
	return &TypeReference{Kind: PointerType, Element: elem}
}

// ByRefTo returns a managed reference type (ref/out parameters).
func ByRefTo(elem *TypeReference) *TypeReference {
	return &TypeReference{Kind: ByRefType, Element: elem}
}

// GenericParam returns a reference to a generic parameter by name.
func GenericParam(name string) *TypeReference {
	return &TypeReference{Kind: GenericParameterType, Name: name}
}

// Instantiate returns a copy of r with the given generic arguments.
func (r *TypeReference) Instantiate(args ...*TypeReference) *TypeReference {
	c := *r
	c.GenericArguments = args
	return &c
}

// IsGenericInstance reports whether r carries generic arguments.
func (r *TypeReference) IsGenericInstance() bool {
	return r != nil && len(r.GenericArguments) > 0
}

// IsVoid reports whether r denotes System.Void.
func (r *TypeReference) IsVoid() bool {
	return r != nil && r.Kind == NamedType && r.Namespace == "System" && r.Name == "Void"
}

// Arity parses the metadata arity suffix ("List`1" -> 1).
func (r *TypeReference) Arity() int {
	return ArityOf(r.Name)
}

// ArityOf parses the metadata arity suffix of a type name.
func ArityOf(name string) int {
	i := strings.LastIndexByte(name, '`')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// StripArity removes the metadata arity suffix from a type name.
func StripArity(name string) string {
	if i := strings.LastIndexByte(name, '`'); i >= 0 {
		return name[:i]
	}
	return name
}

// QualifiedName returns "Ns.Outer/Inner" without generic arguments.
func (r *TypeReference) QualifiedName() string {
	if r == nil {
		return ""
	}
	if r.DeclaringType != nil {
		return r.DeclaringType.QualifiedName() + "/" + r.Name
	}
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// String renders r for diagnostics. Generic argument graphs are cut off at a
// fixed depth.
func (r *TypeReference) String() string {
	var sb strings.Builder
	writeTypeString(&sb, r, 0)
	return sb.String()
}

const maxStringDepth = 8

func writeTypeString(sb *strings.Builder, r *TypeReference, depth int) {
	if r == nil {
		sb.WriteString("<nil>")
		return
	}
	if depth > maxStringDepth {
		sb.WriteString(r.QualifiedName())
		return
	}
	switch r.Kind {
	case ArrayType:
		writeTypeString(sb, r.Element, depth+1)
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat(",", r.Rank-1))
		sb.WriteByte(']')
	case PointerType:
		writeTypeString(sb, r.Element, depth+1)
		sb.WriteByte('*')
	case ByRefType:
		writeTypeString(sb, r.Element, depth+1)
		sb.WriteByte('&')
	case GenericParameterType:
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
				writeTypeString(sb, a, depth+1)
			}
			sb.WriteByte('>')
		}
	}
}

// Visibility of a declaration.
type Visibility int

const (
	Public Visibility = iota
	Private
	Protected
	Internal
	ProtectedInternal
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Protected:
		return "protected"
	case Internal:
		return "internal"
	case ProtectedInternal:
		return "protected internal"
	default:
		return "public"
	}
}

// TypeDeclKind is the category of a declared type.
type TypeDeclKind int

const (
	Class TypeDeclKind = iota
	Struct
	Interface
	Enum
	Delegate
)

// GenericParameter declares a type or method generic parameter.
type GenericParameter struct {
	Name                    string
	Constraints             []*TypeReference
	ReferenceTypeConstraint bool
	ValueTypeConstraint     bool
	ConstructorConstraint   bool
}

// TypeDecl is one declared type with its members.
type TypeDecl struct {
	Name              string
	Namespace         string
	Kind              TypeDeclKind
	Visibility        Visibility
	Abstract          bool
	Sealed            bool
	Static            bool
	GenericParameters []*GenericParameter
	BaseType          *TypeReference
	Interfaces        []*TypeReference
	Fields            []*FieldDecl
	Properties        []*PropertyDecl
	Events            []*EventDecl
	Methods           []*MethodDecl
	NestedTypes       []*TypeDecl
	DeclaringType     *TypeDecl
}

// FullName returns "Ns.Outer/Inner", matching TypeReference.QualifiedName.
func (d *TypeDecl) FullName() string {
	if d.DeclaringType != nil {
		return d.DeclaringType.FullName() + "/" + d.Name
	}
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// IsValueType reports whether instances of d are value-kind.
func (d *TypeDecl) IsValueType() bool {
	return d.Kind == Struct || d.Kind == Enum
}

// InheritedGenericCount is the number of leading generic parameters a nested
// type repeats from its enclosing type.
func (d *TypeDecl) InheritedGenericCount() int {
	if d.DeclaringType == nil {
		return 0
	}
	n := len(d.DeclaringType.GenericParameters)
	if n > len(d.GenericParameters) {
		return len(d.GenericParameters)
	}
	return n
}

// Reference returns a fresh reference to d, instantiated over its own
// generic parameters.
func (d *TypeDecl) Reference() *TypeReference {
	r := &TypeReference{
		Kind:       NamedType,
		Name:       d.Name,
		Namespace:  d.Namespace,
		ValueType:  d.IsValueType(),
		Definition: d,
	}
	if d.DeclaringType != nil {
		r.Namespace = ""
		r.DeclaringType = d.DeclaringType.Reference()
		r.DeclaringType.GenericArguments = nil
	}
	for _, gp := range d.GenericParameters {
		r.GenericArguments = append(r.GenericArguments, GenericParam(gp.Name))
	}
	return r
}

// FieldDecl declares a field. Literal fields carry a Constant.
type FieldDecl struct {
	Name       string
	Type       *TypeReference
	Visibility Visibility
	Static     bool
	ReadOnly   bool
	Literal    bool
	Constant   any
}

// PropertyDecl declares a property or indexer.
type PropertyDecl struct {
	Name       string
	Type       *TypeReference
	Getter     *MethodDecl
	Setter     *MethodDecl
	Parameters []*ParameterDecl
}

// IsIndexer reports whether p takes index parameters.
func (p *PropertyDecl) IsIndexer() bool { return len(p.Parameters) > 0 }

// EventDecl declares an event. In the input model every event is desugared
// into an accessor pair plus, for field-like events, a backing field.
type EventDecl struct {
	Name         string
	Type         *TypeReference
	Adder        *MethodDecl
	Remover      *MethodDecl
	BackingField *FieldDecl
}

// MethodDecl declares a method, constructor, or accessor.
type MethodDecl struct {
	Name              string
	ReturnType        *TypeReference
	Parameters        []*ParameterDecl
	GenericParameters []*GenericParameter
	Visibility        Visibility
	Static            bool
	Virtual           bool
	Abstract          bool
	Override          bool
	Sealed            bool
	Extern            bool
	SpecialName       bool
	Body              *Block
	DeclaringType     *TypeDecl
}

// IsConstructor reports whether m is an instance constructor.
func (m *MethodDecl) IsConstructor() bool { return m.Name == ".ctor" }

// IsStaticConstructor reports whether m is a type initializer.
func (m *MethodDecl) IsStaticConstructor() bool { return m.Name == ".cctor" }

// ReturnsVoid reports whether m has no return value.
func (m *MethodDecl) ReturnsVoid() bool {
	return m.ReturnType == nil || m.ReturnType.IsVoid()
}

// ParameterDecl declares a method parameter. In and Out mirror the metadata
// flags; a by-ref Type with Out set is an out parameter.
type ParameterDecl struct {
	Name   string
	Type   *TypeReference
	In     bool
	Out    bool
	Params bool
}

// Variable is a local shared by its declaration and every reference to it.
type Variable struct {
	Name   string
	Type   *TypeReference
	Pinned bool
}

// FieldRef identifies a field from an expression.
type FieldRef struct {
	Name          string
	DeclaringType *TypeReference
	FieldType     *TypeReference
	Static        bool
}

// PropertyRef identifies a property from an expression.
type PropertyRef struct {
	Name          string
	DeclaringType *TypeReference
	PropertyType  *TypeReference
	Parameters    []*TypeReference
	Static        bool
}

// EventRef identifies an event from an expression.
type EventRef struct {
	Name          string
	DeclaringType *TypeReference
	EventType     *TypeReference
	Static        bool
}

// MethodRef identifies a method from an expression.
type MethodRef struct {
	Name             string
	DeclaringType    *TypeReference
	ReturnType       *TypeReference
	Parameters       []*TypeReference
	GenericArguments []*TypeReference
	Static           bool
	Virtual          bool
}

// IsConstructor reports whether m names an instance constructor.
func (m *MethodRef) IsConstructor() bool { return m.Name == ".ctor" }

// Module is one unit of generation: the declared types of an assembly.
type Module struct {
	Name  string
	Types []*TypeDecl
}
