package compiler

import (
	"math"
	"strconv"
	"strings"

	"github.com/MavenRain/CrossNet-sub002/model"
)

const cppRuntime = "::CrossNetRuntime::"

// cppSyntax renders the systems-level target over the CrossNet runtime.
// Reference types are spelled T*, value types are plain values and by-ref
// parameters become pointers.
type cppSyntax struct {
	unit   string
	naming *TypeNaming
}

func newCppSyntax(unit string) *cppSyntax {
	s := &cppSyntax{unit: unit}
	s.naming = &TypeNaming{
		Separator:       "::",
		GlobalPrefix:    "::",
		ReferenceSuffix: "*",
		PointerSuffix:   "*",
		ByRefSuffix:     "*",
		Primitives:      cppPrimitives,
		ArrayFormat: func(elem string, rank int) string {
			if rank == 1 {
				return cppRuntime + "Array<" + elem + ">*"
			}
			return cppRuntime + "MultiArray<" + elem + ", " + strconv.Itoa(rank) + ">*"
		},
		Escape: s.Ident,
	}
	return s
}

func (s *cppSyntax) Name() string          { return "cpp" }
func (s *cppSyntax) FileExtension() string { return ".cpp" }
func (s *cppSyntax) ReferenceMarker() byte { return '*' }
func (s *cppSyntax) This() string          { return "this" }

func (s *cppSyntax) Prologue() string {
	return "#include \"CrossNetRuntime/CrossNetRuntime.h\"\n\n"
}

func (s *cppSyntax) Ident(name string) string {
	name = sanitize(name)
	if cppKeywords[name] {
		return name + "_"
	}
	return name
}

func (s *cppSyntax) TypeName(ref *model.TypeReference, g *GenericStack) string {
	return s.naming.Render(ref, g)
}

func (s *cppSyntax) Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "nullptr"
	case bool:
		return strconv.FormatBool(v)
	case model.Char:
		if v >= 0xd800 && v <= 0xdfff {
			return "static_cast<wchar_t>(0x" + strconv.FormatUint(uint64(v), 16) + ")"
		}
		return "L'" + quoteWide(string(rune(v)), '\'') + "'"
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		if v == math.MinInt32 {
			return "(-2147483647 - 1)"
		}
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		if v == math.MinInt64 {
			return "(-9223372036854775807LL - 1)"
		}
		return strconv.FormatInt(v, 10) + "LL"
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10) + "U"
	case uint64:
		return strconv.FormatUint(v, 10) + "ULL"
	case float32:
		return s.special(float64(v), "float", strconv.FormatFloat(float64(v), 'g', -1, 32)+"f")
	case float64:
		return s.special(v, "double", floatText(v))
	case model.Decimal:
		return "::System::Decimal(L\"" + string(v) + "\")"
	case string:
		return cppRuntime + "Str(L\"" + quoteWide(v, '"') + "\")"
	}
	return "{}"
}

const (
	octalDigits = "01234567"
	hexDigits   = "0123456789abcdefABCDEF"
)

// quoteWide escapes s as the body of a wide literal. C++ rejects universal
// character names below U+00A0, so control characters use \x escapes. A
// numeric escape swallows the digits after it; when one follows, the
// literal is split into adjacent pieces.
func quoteWide(s string, quote byte) string {
	var sb strings.Builder
	extends := ""
	for _, r := range s {
		if extends != "" && r < 0x80 && strings.IndexByte(extends, byte(r)) >= 0 {
			sb.WriteString(`" L"`)
		}
		extends = ""
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == 0:
			sb.WriteString(`\0`)
			extends = octalDigits
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case r < 0x20 || (r >= 0x7f && r < 0xa0):
			sb.WriteString(`\x` + strconv.FormatUint(uint64(r), 16))
			extends = hexDigits
		case r < 0x7f:
			sb.WriteRune(r)
		case r > 0xffff:
			sb.WriteString(`\U` + padHex(uint64(r), 8))
		default:
			sb.WriteString(`\u` + padHex(uint64(r), 4))
		}
	}
	return sb.String()
}

func padHex(v uint64, width int) string {
	h := strconv.FormatUint(v, 16)
	if len(h) < width {
		h = strings.Repeat("0", width-len(h)) + h
	}
	return h
}

func (s *cppSyntax) special(f float64, typ, text string) string {
	switch {
	case math.IsNaN(f):
		return cppRuntime + "NaN<" + typ + ">()"
	case math.IsInf(f, 1):
		return cppRuntime + "Infinity<" + typ + ">()"
	case math.IsInf(f, -1):
		return "(-" + cppRuntime + "Infinity<" + typ + ">())"
	}
	return text
}

func (s *cppSyntax) prefix(m *MemberAccess) string {
	switch m.Mode {
	case ModeStatic, ModeBase:
		return m.Owner + "::"
	case ModeValue:
		return m.Target + "."
	case ModeInterface:
		return cppRuntime + "InterfaceCall<" + m.Owner + ">(" + m.Target + ")->"
	}
	return m.Target + "->"
}

func (s *cppSyntax) Access(m *MemberAccess, op AccessOp, value string) string {
	p := s.prefix(m)
	switch m.Kind {
	case AccessProperty:
		if op == OpSet {
			return p + "set_" + m.Name + "(" + value + ")"
		}
		return p + "get_" + m.Name + "()"
	case AccessIndexer:
		if op == OpSet {
			return p + "set_" + m.Name + "(" + joinArgs(append(append([]string{}, m.Args...), value)) + ")"
		}
		return p + "get_" + m.Name + "(" + joinArgs(m.Args) + ")"
	case AccessEvent:
		switch op {
		case OpAdd:
			return p + "add_" + m.Name + "(" + value + ")"
		case OpRemove:
			return p + "remove_" + m.Name + "(" + value + ")"
		}
	}
	if op == OpSet {
		return p + m.Name + " = " + value
	}
	return p + m.Name
}

func (s *cppSyntax) Call(m *MemberAccess, generic, args []string) string {
	var sb strings.Builder
	sb.WriteString(s.prefix(m))
	sb.WriteString(m.Name)
	if len(generic) > 0 {
		sb.WriteString("<" + joinArgs(generic) + ">")
	}
	sb.WriteString("(" + joinArgs(args) + ")")
	return sb.String()
}

func (s *cppSyntax) OperatorCall(string, []string, string) (string, bool) { return "", false }

func (s *cppSyntax) CastTokens(dst *model.TypeReference, src *LocalType) (string, string) {
	t := s.TypeName(dst, nil)
	switch {
	case dst.Kind == model.PointerType || src == LocalPointer:
		return "reinterpret_cast<" + t + ">(", ")"
	case dst.Kind == model.NamedType && isValueReference(dst):
		return "static_cast<" + t + ">(", ")"
	}
	return cppRuntime + "Cast<" + t + ">(", ")"
}

func (s *cppSyntax) BoxTokens(src *LocalType) (string, string) {
	if ref := src.Reference(); ref != nil {
		return cppRuntime + "Box<" + s.TypeName(ref, nil) + ">(", ")"
	}
	return cppRuntime + "Box(", ")"
}

func (s *cppSyntax) UnboxTokens(dst *model.TypeReference) (string, string) {
	return cppRuntime + "Unbox<" + s.TypeName(dst, nil) + ">(", ")"
}

func (s *cppSyntax) TryCast(typ, x string) string {
	return cppRuntime + "AsCast<" + typ + ">(" + x + ")"
}
func (s *cppSyntax) CanCast(typ, x string) string {
	return cppRuntime + "IsCast<" + typ + ">(" + x + ")"
}

func (s *cppSyntax) New(typ string, value bool, args []string) string {
	if value {
		return typ + "(" + joinArgs(args) + ")"
	}
	return "new " + typ + "(" + joinArgs(args) + ")"
}

func (s *cppSyntax) NewArray(elem string, dims []string) string {
	if len(dims) > 1 {
		return cppRuntime + "NewMultiArray<" + elem + ", " + strconv.Itoa(len(dims)) + ">(" + joinArgs(dims) + ")"
	}
	return cppRuntime + "NewArray<" + elem + ">(" + joinArgs(dims) + ")"
}

func (s *cppSyntax) NewArrayInit(elem string, items []string) string {
	return cppRuntime + "NewArray<" + elem + ">({ " + joinArgs(items) + " })"
}

func (s *cppSyntax) Index(target string, pointer bool, indices []string) string {
	switch {
	case pointer:
		return target + "[" + joinArgs(indices) + "]"
	case len(indices) > 1:
		return target + "->At(" + joinArgs(indices) + ")"
	}
	return "(*" + target + ")[" + joinArgs(indices) + "]"
}

func (s *cppSyntax) DelegateCreate(delegateType string, m *MemberAccess) string {
	fn := "&" + m.Owner + "::" + m.Name
	switch m.Mode {
	case ModeStatic:
		return "new " + delegateType + "(" + fn + ")"
	case ModeBase:
		return "new " + delegateType + "(this, " + fn + ")"
	}
	return "new " + delegateType + "(" + m.Target + ", " + fn + ")"
}

func (s *cppSyntax) DelegateInvoke(target string, args []string) string {
	return target + "->Invoke(" + joinArgs(args) + ")"
}

func (s *cppSyntax) TypeOf(typ string) string { return cppRuntime + "TypeOf<" + typ + ">()" }
func (s *cppSyntax) SizeOf(typ string) string { return "sizeof(" + typ + ")" }

func (s *cppSyntax) Default(typ string, value bool) string {
	if value {
		return typ + "()"
	}
	return "nullptr"
}

func (s *cppSyntax) StackAlloc(elem, count string) string {
	return "static_cast<" + elem + "*>(_alloca(sizeof(" + elem + ") * (" + count + ")))"
}

func (s *cppSyntax) OutArgument(x string, pointer bool) string { return s.address(x, pointer) }
func (s *cppSyntax) RefArgument(x string, pointer bool) string { return s.address(x, pointer) }

func (s *cppSyntax) address(x string, pointer bool) string {
	if pointer {
		return x
	}
	return "&" + x
}

func (s *cppSyntax) ByRefParameter(name string, address bool) string {
	if address {
		return name
	}
	return "(*" + name + ")"
}

func (s *cppSyntax) Coalesce(a, b string) string {
	return cppRuntime + "Coalesce(" + a + ", " + b + ")"
}

func (s *cppSyntax) NeedsInterfaceCall() bool { return true }

func (s *cppSyntax) ForEach(typ, name, collection, body string) string {
	return block(s.unit, "for ("+typ+" "+name+" : "+cppRuntime+"Enumerate<"+typ+">("+collection+"))", body)
}

func (s *cppSyntax) Lock(expr, temp, body string) string {
	return scoped(s.unit, []string{cppRuntime + "Lock " + temp + "(" + expr + ");"}, body)
}

func (s *cppSyntax) Using(expr, temp, body string) string {
	return scoped(s.unit, []string{cppRuntime + "DisposeGuard " + temp + "(" + expr + ");"}, body)
}

func (s *cppSyntax) Fixed(typ, name, expr, temp, body string) string {
	return scoped(s.unit, []string{
		cppRuntime + "Pin " + temp + "(" + expr + ");",
		typ + " " + name + " = static_cast<" + typ + ">(" + temp + ".Address());",
	}, body)
}

func (s *cppSyntax) Try(t *TryText) string {
	w := NewWriter(s.unit)
	var release func()
	if t.Finally != "" {
		w.Line("{")
		release = w.Indent()
		w.Line(cppRuntime + "Finally " + t.Temp + "([&]()")
		w.Write(strings.TrimSuffix(t.Finally, "\n"))
		w.Line(");")
	}
	if len(t.Catches) == 0 && t.Fault == "" {
		w.Write(t.Try)
	} else {
		w.Line("try")
		w.Write(t.Try)
		for _, c := range t.Catches {
			switch {
			case c.Type == "":
				w.Line("catch (...)")
			case c.Var == "":
				w.Line("catch (" + c.Type + ")")
			default:
				w.Line("catch (" + c.Type + " " + c.Var + ")")
			}
			w.Write(c.Body)
		}
		if t.Fault != "" {
			w.Line("catch (...)")
			w.Line("{")
			inner := w.Indent()
			w.Write(t.Fault)
			w.Line("throw;")
			inner()
			w.Line("}")
		}
	}
	if release != nil {
		release()
		w.Line("}")
	}
	return w.String()
}

func (s *cppSyntax) MemoryCopy(dst, src, length string) string {
	return "::memcpy(" + dst + ", " + src + ", " + length + ")"
}

func (s *cppSyntax) MemoryInit(dst, value, length string) string {
	return "::memset(" + dst + ", " + value + ", " + length + ")"
}

func (s *cppSyntax) NamespaceOpen(ns string) string {
	if ns == "" {
		return ""
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = "namespace " + s.Ident(p) + " {"
	}
	return strings.Join(parts, " ") + "\n"
}

func (s *cppSyntax) NamespaceClose(ns string) string {
	if ns == "" {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("} ", strings.Count(ns, ".")+1), " ") + "\n"
}

func cppVisibility(v model.Visibility) string {
	switch v {
	case model.Private:
		return "private: "
	case model.Protected, model.ProtectedInternal:
		return "protected: "
	}
	return "public: "
}

func templateLine(params []string) string {
	if len(params) == 0 {
		return ""
	}
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = "typename " + p
	}
	return "template <" + joinArgs(out) + ">"
}

func (s *cppSyntax) TypeHeader(h *TypeHeader) string {
	w := NewWriter(s.unit)
	if t := templateLine(h.GenericParams); t != "" {
		w.Line(t)
	}
	keyword := "class"
	if h.Kind == model.Struct {
		keyword = "struct"
	}
	line := keyword + " " + h.Name
	var bases []string
	switch {
	case h.Base != "":
		bases = append(bases, "public "+h.Base)
	case h.Kind == model.Class:
		bases = append(bases, "public ::System::Object")
	}
	for _, i := range h.Interfaces {
		bases = append(bases, "public virtual "+i)
	}
	if len(bases) > 0 {
		line += " : " + joinArgs(bases)
	}
	if h.Nested {
		line = cppVisibility(h.Visibility) + line
	}
	w.Line(line)
	w.Line("{")
	return w.String()
}

func (s *cppSyntax) TypeFooter(*TypeHeader) string { return "};\n" }

func (s *cppSyntax) Field(f *FieldText) string {
	var mods string
	switch {
	case f.Const && f.Primitive:
		mods = "static constexpr "
	case f.Const:
		mods = "static inline const "
	case f.Static:
		mods = "static inline "
	}
	line := cppVisibility(f.Visibility) + mods + f.Type + " " + f.Name
	if f.Value != "" {
		line += " = " + f.Value
	}
	return line + ";\n"
}

func (s *cppSyntax) params(ps []ParamText) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Type + " " + p.Name
	}
	return joinArgs(out)
}

func (s *cppSyntax) signature(sig *MethodSignature) string {
	params := "(" + s.params(sig.Params) + ")"
	vis := cppVisibility(sig.Visibility)
	switch sig.Kind {
	case MethodConstructor:
		line := vis + sig.Owner + params
		if c := sig.Chain; c != nil {
			line += " : " + c.Target + "(" + joinArgs(c.Args) + ")"
		}
		return line
	case MethodStaticConstructor:
		return "public: static void __cctor()"
	}
	var mods string
	switch {
	case sig.Static:
		mods = "static "
	case sig.Virtual, sig.Abstract, sig.Override, sig.InInterface:
		mods = "virtual "
	}
	line := vis + mods + sig.Return + " " + sig.Name + params
	if sig.Override {
		line += " override"
	}
	return line
}

func (s *cppSyntax) Method(sig *MethodSignature, body string) string {
	w := NewWriter(s.unit)
	if t := templateLine(sig.GenericParams); t != "" {
		w.Line(t)
	}
	header := s.signature(sig)
	switch {
	case sig.Abstract || sig.InInterface:
		w.Line(header + " = 0;")
	case sig.Extern:
		w.Line(header + ";")
	default:
		w.Line(header)
		w.Write(body)
	}
	return w.String()
}

func (s *cppSyntax) Property(p *PropertyText) string {
	var sb strings.Builder
	for _, a := range []*AccessorText{p.Getter, p.Setter} {
		if a != nil {
			sb.WriteString(s.Method(a.Sig, a.Body))
		}
	}
	return sb.String()
}

func (s *cppSyntax) Event(ev *EventText) string {
	var sb strings.Builder
	if ev.Field != nil {
		sb.WriteString(s.Field(ev.Field))
	}
	for _, a := range []*AccessorText{ev.Adder, ev.Remover} {
		if a != nil {
			sb.WriteString(s.Method(a.Sig, a.Body))
		}
	}
	return sb.String()
}

func (s *cppSyntax) Enum(en *EnumText) string {
	w := NewWriter(s.unit)
	underlying := en.Underlying
	if underlying == "" {
		underlying = "std::int32_t"
	}
	header := "enum class " + en.Name + " : " + underlying
	if en.Nested {
		header = cppVisibility(en.Visibility) + header
	}
	w.Line(header)
	w.Line("{")
	release := w.Indent()
	for _, m := range en.Members {
		w.Line(m.Name + " = " + m.Value + ",")
	}
	release()
	w.Line("};")
	return w.String()
}

func (s *cppSyntax) Delegate(d *DelegateText) string {
	w := NewWriter(s.unit)
	if t := templateLine(d.GenericParams); t != "" {
		w.Line(t)
	}
	types := make([]string, len(d.Params))
	for i, p := range d.Params {
		types[i] = p.Type
	}
	line := "using " + d.Name + " = " + cppRuntime + "Delegate<" + d.Return + " (" + joinArgs(types) + ")>;"
	if d.Nested {
		line = cppVisibility(d.Visibility) + line
	}
	w.Line(line)
	return w.String()
}
