package compiler

import (
	"strings"

	"github.com/MavenRain/CrossNet-sub002/model"
)

// Syntax renders the surface grammar of one target. The engine decides what
// to emit; a Syntax only decides how it is spelled.
type Syntax interface {
	// Name is the target identifier used in configuration ("cs", "cpp").
	Name() string
	FileExtension() string
	// Prologue opens every emitted file.
	Prologue() string

	Ident(name string) string
	TypeName(ref *model.TypeReference, g *GenericStack) string
	// ReferenceMarker is the trailing character marking a reference type
	// name, or 0 when reference types are unmarked.
	ReferenceMarker() byte

	Literal(v any) string
	This() string

	Access(m *MemberAccess, op AccessOp, value string) string
	Call(m *MemberAccess, generic, args []string) string
	// OperatorCall renders a call to a user-defined operator in operator
	// form. ok is false when the target calls operators by name.
	OperatorCall(name string, args []string, result string) (text string, ok bool)

	CastTokens(dst *model.TypeReference, src *LocalType) (string, string)
	BoxTokens(src *LocalType) (string, string)
	UnboxTokens(dst *model.TypeReference) (string, string)
	TryCast(typ, x string) string
	CanCast(typ, x string) string

	New(typ string, value bool, args []string) string
	NewArray(elem string, dims []string) string
	NewArrayInit(elem string, items []string) string
	Index(target string, pointer bool, indices []string) string
	DelegateCreate(delegateType string, m *MemberAccess) string
	DelegateInvoke(target string, args []string) string
	TypeOf(typ string) string
	SizeOf(typ string) string
	Default(typ string, value bool) string
	StackAlloc(elem, count string) string
	OutArgument(x string, pointer bool) string
	RefArgument(x string, pointer bool) string
	// ByRefParameter renders a by-ref parameter read, or its address when
	// address is set.
	ByRefParameter(name string, address bool) string
	Coalesce(a, b string) string
	// NeedsInterfaceCall reports whether calls through interfaces need an
	// explicit dispatch form.
	NeedsInterfaceCall() bool

	ForEach(typ, name, collection, body string) string
	Lock(expr, temp, body string) string
	Using(expr, temp, body string) string
	Fixed(typ, name, expr, temp, body string) string
	Try(t *TryText) string
	MemoryCopy(dst, src, length string) string
	MemoryInit(dst, value, length string) string

	NamespaceOpen(ns string) string
	NamespaceClose(ns string) string
	TypeHeader(h *TypeHeader) string
	TypeFooter(h *TypeHeader) string
	Field(f *FieldText) string
	Method(sig *MethodSignature, body string) string
	Property(p *PropertyText) string
	Event(ev *EventText) string
	Enum(en *EnumText) string
	Delegate(d *DelegateText) string
}

// NewSyntax returns the syntax registered for target.
func NewSyntax(target string, indent string) (Syntax, bool) {
	switch target {
	case "cs":
		return newCSharpSyntax(indent), true
	case "cpp":
		return newCppSyntax(indent), true
	}
	return nil, false
}

// CatchText is one rendered catch clause. Type is empty for a catch-all.
type CatchText struct {
	Type string
	Var  string
	Body string
}

// TryText is a rendered protected region. Fault and Finally may be empty.
type TryText struct {
	Try     string
	Catches []CatchText
	Fault   string
	Finally string
	Temp    string
}

// TypeHeader describes a type declaration opening.
type TypeHeader struct {
	Name          string
	Kind          model.TypeDeclKind
	Visibility    model.Visibility
	Abstract      bool
	Sealed        bool
	Static        bool
	Nested        bool
	Unsafe        bool
	GenericParams []string
	Constraints   []string
	Base          string
	Interfaces    []string
}

// ParamMode is how an argument is passed.
type ParamMode int

const (
	ParamValue ParamMode = iota
	ParamRef
	ParamOut
	ParamArray
)

// ParamText is one rendered parameter.
type ParamText struct {
	Type string
	Name string
	Mode ParamMode
}

// MethodKind distinguishes the declaration forms of a method.
type MethodKind int

const (
	MethodOrdinary MethodKind = iota
	MethodConstructor
	MethodStaticConstructor
	MethodOperator
)

// ChainCall is a constructor's call to a base or sibling constructor.
type ChainCall struct {
	Base   bool
	Target string
	Args   []string
}

// MethodSignature is a rendered method declaration without its body.
type MethodSignature struct {
	Name          string
	Owner         string
	Return        string
	Kind          MethodKind
	Params        []ParamText
	GenericParams []string
	Constraints   []string
	Visibility    model.Visibility
	Static        bool
	Virtual       bool
	Abstract      bool
	Override      bool
	Sealed        bool
	Extern        bool
	Unsafe        bool
	InInterface   bool
	Chain         *ChainCall
}

// HasBody reports whether the declaration carries a body.
func (s *MethodSignature) HasBody() bool {
	return !s.Abstract && !s.Extern && !s.InInterface
}

// FieldText is a rendered field declaration.
type FieldText struct {
	Name       string
	Type       string
	Visibility model.Visibility
	Static     bool
	ReadOnly   bool
	Const      bool
	// Primitive is set when Type is a target primitive, which allows a
	// compile-time constant.
	Primitive bool
	Value     string
}

// AccessorText is one property or event accessor with its rendered body.
type AccessorText struct {
	Sig  *MethodSignature
	Body string
}

// PropertyText is a rendered property or indexer.
type PropertyText struct {
	Name   string
	Type   string
	Params []ParamText
	Getter *AccessorText
	Setter *AccessorText
}

// EventText is a rendered event. Field is set for field-like events.
type EventText struct {
	Name    string
	Type    string
	Field   *FieldText
	Adder   *AccessorText
	Remover *AccessorText
	// Sig carries visibility and modifiers shared by the accessors.
	Sig *MethodSignature
}

// EnumMember is one enumerator.
type EnumMember struct {
	Name  string
	Value string
}

// EnumText is a rendered enum declaration.
type EnumText struct {
	Name       string
	Visibility model.Visibility
	Nested     bool
	Underlying string
	Members    []EnumMember
}

// DelegateText is a rendered delegate declaration.
type DelegateText struct {
	Name          string
	Visibility    model.Visibility
	Nested        bool
	Return        string
	Params        []ParamText
	GenericParams []string
}

// TypeNaming configures how type references are spelled.
type TypeNaming struct {
	// Separator joins namespace parts and nested type segments.
	Separator string
	// GlobalPrefix is prepended to every qualified name.
	GlobalPrefix string
	// ReferenceSuffix is appended to reference type names.
	ReferenceSuffix string
	PointerSuffix   string
	ByRefSuffix     string
	// Primitives maps canonical names to target spellings.
	Primitives map[string]string
	// ArrayFormat formats an array type from its element and rank.
	ArrayFormat func(elem string, rank int) string
	// Escape adapts an identifier to the target.
	Escape func(string) string
}

const maxNamingDepth = 32

// Render spells ref. Pending generic arguments of nested segments are
// threaded through g.
func (tn *TypeNaming) Render(ref *model.TypeReference, g *GenericStack) string {
	if g == nil {
		g = new(GenericStack)
	}
	return tn.render(ref, g, 0)
}

func (tn *TypeNaming) render(ref *model.TypeReference, g *GenericStack, depth int) string {
	if ref == nil {
		return tn.Primitives["System.Void"]
	}
	if depth > maxNamingDepth {
		return tn.Escape(model.StripArity(ref.Name))
	}
	switch ref.Kind {
	case model.ArrayType:
		return tn.ArrayFormat(tn.render(ref.Element, g, depth+1), ref.Rank)
	case model.PointerType:
		return tn.render(ref.Element, g, depth+1) + tn.PointerSuffix
	case model.ByRefType:
		return tn.render(ref.Element, g, depth+1) + tn.ByRefSuffix
	case model.GenericParameterType:
		return tn.Escape(ref.Name)
	}
	if len(ref.GenericArguments) == 0 {
		if p, ok := tn.Primitives[ref.QualifiedName()]; ok {
			return p
		}
	}
	name := tn.nominal(ref, g, depth)
	if !isValueReference(ref) {
		name += tn.ReferenceSuffix
	}
	return name
}

// nominal spells a named type segment by segment. Metadata places every
// generic argument on the innermost reference; each segment takes as many
// as its arity declares. When the counts disagree the innermost segment
// takes them all.
func (tn *TypeNaming) nominal(ref *model.TypeReference, g *GenericStack, depth int) string {
	var segs []*model.TypeReference
	for s := ref; s != nil; s = s.DeclaringType {
		segs = append(segs, s)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	total := 0
	for _, s := range segs {
		total += s.Arity()
	}
	split := total == len(ref.GenericArguments)

	release := g.Push(ref.GenericArguments)
	defer release()

	var sb strings.Builder
	sb.WriteString(tn.GlobalPrefix)
	if ns := segs[0].Namespace; ns != "" {
		for _, part := range strings.Split(ns, ".") {
			sb.WriteString(tn.Escape(part))
			sb.WriteString(tn.Separator)
		}
	}
	for i, s := range segs {
		if i > 0 {
			sb.WriteString(tn.Separator)
		}
		sb.WriteString(tn.Escape(model.StripArity(s.Name)))
		var args []*model.TypeReference
		switch {
		case split:
			args = g.Take(s.Arity())
		case i == len(segs)-1:
			args = g.Rest()
		}
		if len(args) == 0 {
			continue
		}
		sb.WriteByte('<')
		for k, a := range args {
			if k > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(tn.render(a, g, depth+1))
		}
		sb.WriteByte('>')
	}
	return sb.String()
}

func isValueReference(ref *model.TypeReference) bool {
	if ref.Definition != nil {
		return ref.Definition.IsValueType()
	}
	return ref.ValueType
}

// sanitize replaces characters no target accepts in identifiers.
func sanitize(name string) string {
	if name == "" {
		return "_"
	}
	var sb strings.Builder
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		case r > 0x7f:
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func joinArgs(args []string) string { return strings.Join(args, ", ") }

// block writes header followed by an already braced body.
func block(unit, header, body string) string {
	w := NewWriter(unit)
	if header != "" {
		w.Line(header)
	}
	w.Write(body)
	return w.String()
}

// scoped wraps lines and a body in a bare brace scope.
func scoped(unit string, prologue []string, body string) string {
	w := NewWriter(unit)
	w.Line("{")
	release := w.Indent()
	for _, l := range prologue {
		w.Line(l)
	}
	w.Write(body)
	release()
	w.Line("}")
	return w.String()
}

// quoteUTF16 escapes s as the body of a double-quoted literal. Code points
// outside the printable ASCII range use \u escapes over UTF-16 units.
func quoteUTF16(s string, quote byte) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r == rune(quote) {
				sb.WriteByte('\\')
				sb.WriteByte(quote)
				continue
			}
			if r >= 0x20 && r < 0x7f {
				sb.WriteRune(r)
				continue
			}
			writeUTF16Escape(&sb, r)
		}
	}
	return sb.String()
}

func writeUTF16Escape(sb *strings.Builder, r rune) {
	const hex = "0123456789abcdef"
	unit := func(u uint16) {
		sb.WriteString(`\u`)
		for shift := 12; shift >= 0; shift -= 4 {
			sb.WriteByte(hex[(u>>uint(shift))&0xf])
		}
	}
	if r > 0xffff {
		r -= 0x10000
		unit(uint16(0xd800 + (r >> 10)))
		unit(uint16(0xdc00 + (r & 0x3ff)))
		return
	}
	unit(uint16(r))
}

// charText renders a UTF-16 unit as the body of a character literal.
func charText(c model.Char) string {
	if c >= 0xd800 && c <= 0xdfff {
		var sb strings.Builder
		writeUTF16Escape(&sb, rune(c))
		return sb.String()
	}
	return quoteUTF16(string(rune(c)), '\'')
}
