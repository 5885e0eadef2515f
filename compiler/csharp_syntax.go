package compiler

import (
	"math"
	"strconv"
	"strings"

	"github.com/MavenRain/CrossNet-sub002/model"
)

// csharpSyntax renders the managed target. Reference and value types share
// one member access operator; unsafe pointers use "->".
type csharpSyntax struct {
	unit   string
	naming *TypeNaming
}

func newCSharpSyntax(unit string) *csharpSyntax {
	s := &csharpSyntax{unit: unit}
	s.naming = &TypeNaming{
		Separator:     ".",
		PointerSuffix: "*",
		Primitives:    csharpPrimitives,
		ArrayFormat: func(elem string, rank int) string {
			return elem + "[" + strings.Repeat(",", rank-1) + "]"
		},
		Escape: s.Ident,
	}
	return s
}

func (s *csharpSyntax) Name() string          { return "cs" }
func (s *csharpSyntax) FileExtension() string { return ".cs" }
func (s *csharpSyntax) Prologue() string      { return "" }
func (s *csharpSyntax) ReferenceMarker() byte { return 0 }
func (s *csharpSyntax) This() string          { return "this" }

func (s *csharpSyntax) Ident(name string) string {
	name = sanitize(name)
	if csharpKeywords[name] {
		return "@" + name
	}
	return name
}

func (s *csharpSyntax) TypeName(ref *model.TypeReference, g *GenericStack) string {
	return s.naming.Render(ref, g)
}

func (s *csharpSyntax) Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case model.Char:
		return "'" + charText(v) + "'"
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10) + "L"
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10) + "U"
	case uint64:
		return strconv.FormatUint(v, 10) + "UL"
	case float32:
		f := float64(v)
		switch {
		case math.IsNaN(f):
			return "float.NaN"
		case math.IsInf(f, 1):
			return "float.PositiveInfinity"
		case math.IsInf(f, -1):
			return "float.NegativeInfinity"
		}
		return strconv.FormatFloat(f, 'g', -1, 32) + "f"
	case float64:
		switch {
		case math.IsNaN(v):
			return "double.NaN"
		case math.IsInf(v, 1):
			return "double.PositiveInfinity"
		case math.IsInf(v, -1):
			return "double.NegativeInfinity"
		}
		return floatText(v)
	case model.Decimal:
		return string(v) + "m"
	case string:
		return `"` + quoteUTF16(v, '"') + `"`
	}
	return "default"
}

// floatText renders a double so that it always reads back as one.
func floatText(f float64) string {
	t := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(t, ".e") {
		t += ".0"
	}
	return t
}

func (s *csharpSyntax) prefix(m *MemberAccess) string {
	switch m.Mode {
	case ModeStatic:
		return m.Owner + "."
	case ModeBase:
		return "base."
	case ModePointer:
		return m.Target + "->"
	}
	return m.Target + "."
}

func (s *csharpSyntax) Access(m *MemberAccess, op AccessOp, value string) string {
	var lhs string
	if m.Kind == AccessIndexer {
		target := m.Target
		if m.Mode == ModeBase {
			target = "base"
		}
		lhs = target + "[" + joinArgs(m.Args) + "]"
	} else {
		lhs = s.prefix(m) + m.Name
	}
	switch op {
	case OpSet:
		return lhs + " = " + value
	case OpAdd:
		return lhs + " += " + value
	case OpRemove:
		return lhs + " -= " + value
	}
	return lhs
}

func (s *csharpSyntax) Call(m *MemberAccess, generic, args []string) string {
	var sb strings.Builder
	sb.WriteString(s.prefix(m))
	sb.WriteString(m.Name)
	if len(generic) > 0 {
		sb.WriteString("<" + joinArgs(generic) + ">")
	}
	sb.WriteString("(" + joinArgs(args) + ")")
	return sb.String()
}

func (s *csharpSyntax) OperatorCall(name string, args []string, result string) (string, bool) {
	if tok, ok := binaryOperatorTokens[name]; ok && len(args) == 2 {
		return "(" + args[0] + " " + tok + " " + args[1] + ")", true
	}
	if tok, ok := unaryOperatorTokens[name]; ok && len(args) == 1 && tok != "true" && tok != "false" {
		return "(" + tok + args[0] + ")", true
	}
	if _, ok := conversionOperators[name]; ok && len(args) == 1 {
		return "((" + result + ")(" + args[0] + "))", true
	}
	return "", false
}

func (s *csharpSyntax) CastTokens(dst *model.TypeReference, _ *LocalType) (string, string) {
	return "((" + s.TypeName(dst, nil) + ")(", "))"
}

func (s *csharpSyntax) BoxTokens(*LocalType) (string, string) {
	return "((object)(", "))"
}

func (s *csharpSyntax) UnboxTokens(dst *model.TypeReference) (string, string) {
	return s.CastTokens(dst, nil)
}

func (s *csharpSyntax) TryCast(typ, x string) string { return "(" + x + " as " + typ + ")" }
func (s *csharpSyntax) CanCast(typ, x string) string { return "(" + x + " is " + typ + ")" }

func (s *csharpSyntax) New(typ string, _ bool, args []string) string {
	return "new " + typ + "(" + joinArgs(args) + ")"
}

func (s *csharpSyntax) NewArray(elem string, dims []string) string {
	// jagged arrays put the allocated rank first: new int[n][]
	if i := strings.IndexByte(elem, '['); i >= 0 {
		return "new " + elem[:i] + "[" + joinArgs(dims) + "]" + elem[i:]
	}
	return "new " + elem + "[" + joinArgs(dims) + "]"
}

func (s *csharpSyntax) NewArrayInit(elem string, items []string) string {
	return "new " + elem + "[] { " + joinArgs(items) + " }"
}

func (s *csharpSyntax) Index(target string, _ bool, indices []string) string {
	return target + "[" + joinArgs(indices) + "]"
}

func (s *csharpSyntax) DelegateCreate(delegateType string, m *MemberAccess) string {
	return "new " + delegateType + "(" + s.prefix(m) + m.Name + ")"
}

func (s *csharpSyntax) DelegateInvoke(target string, args []string) string {
	return target + "(" + joinArgs(args) + ")"
}

func (s *csharpSyntax) TypeOf(typ string) string          { return "typeof(" + typ + ")" }
func (s *csharpSyntax) SizeOf(typ string) string          { return "sizeof(" + typ + ")" }
func (s *csharpSyntax) Default(typ string, _ bool) string { return "default(" + typ + ")" }
func (s *csharpSyntax) StackAlloc(elem, count string) string {
	return "stackalloc " + elem + "[" + count + "]"
}
func (s *csharpSyntax) OutArgument(x string, _ bool) string       { return "out " + x }
func (s *csharpSyntax) RefArgument(x string, _ bool) string       { return "ref " + x }
func (s *csharpSyntax) ByRefParameter(name string, _ bool) string { return name }
func (s *csharpSyntax) Coalesce(a, b string) string               { return "(" + a + " ?? " + b + ")" }
func (s *csharpSyntax) NeedsInterfaceCall() bool                  { return false }

func (s *csharpSyntax) ForEach(typ, name, collection, body string) string {
	return block(s.unit, "foreach ("+typ+" "+name+" in "+collection+")", body)
}

func (s *csharpSyntax) Lock(expr, _ string, body string) string {
	return block(s.unit, "lock ("+expr+")", body)
}

func (s *csharpSyntax) Using(expr, _ string, body string) string {
	return block(s.unit, "using ("+expr+")", body)
}

func (s *csharpSyntax) Fixed(typ, name, expr, _ string, body string) string {
	return block(s.unit, "fixed ("+typ+" "+name+" = "+expr+")", body)
}

func (s *csharpSyntax) Try(t *TryText) string {
	w := NewWriter(s.unit)
	w.Line("try")
	w.Write(t.Try)
	for _, c := range t.Catches {
		switch {
		case c.Type == "":
			w.Line("catch")
		case c.Var == "":
			w.Line("catch (" + c.Type + ")")
		default:
			w.Line("catch (" + c.Type + " " + c.Var + ")")
		}
		w.Write(c.Body)
	}
	if t.Fault != "" {
		w.Line("catch")
		w.Line("{")
		release := w.Indent()
		w.Write(t.Fault)
		w.Line("throw;")
		release()
		w.Line("}")
	}
	if t.Finally != "" {
		w.Line("finally")
		w.Write(t.Finally)
	}
	return w.String()
}

func (s *csharpSyntax) MemoryCopy(dst, src, length string) string {
	return "System.Runtime.CompilerServices.Unsafe.CopyBlock(" + dst + ", " + src + ", " + length + ")"
}

func (s *csharpSyntax) MemoryInit(dst, value, length string) string {
	return "System.Runtime.CompilerServices.Unsafe.InitBlock(" + dst + ", " + value + ", " + length + ")"
}

func (s *csharpSyntax) NamespaceOpen(ns string) string {
	if ns == "" {
		return ""
	}
	return "namespace " + s.namespace(ns) + "\n{\n"
}

func (s *csharpSyntax) NamespaceClose(ns string) string {
	if ns == "" {
		return ""
	}
	return "}\n"
}

func (s *csharpSyntax) namespace(ns string) string {
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = s.Ident(p)
	}
	return strings.Join(parts, ".")
}

func csharpVisibility(v model.Visibility, nested bool) string {
	if !nested && v != model.Public {
		return "internal"
	}
	return v.String()
}

func (s *csharpSyntax) TypeHeader(h *TypeHeader) string {
	mods := []string{csharpVisibility(h.Visibility, h.Nested)}
	if h.Unsafe {
		mods = append(mods, "unsafe")
	}
	var keyword string
	switch h.Kind {
	case model.Struct:
		keyword = "struct"
	case model.Interface:
		keyword = "interface"
	default:
		keyword = "class"
		switch {
		case h.Static:
			mods = append(mods, "static")
		case h.Abstract:
			mods = append(mods, "abstract")
		case h.Sealed:
			mods = append(mods, "sealed")
		}
	}
	line := strings.Join(mods, " ") + " " + keyword + " " + h.Name + genericList(h.GenericParams)
	var bases []string
	if h.Base != "" {
		bases = append(bases, h.Base)
	}
	bases = append(bases, h.Interfaces...)
	if len(bases) > 0 {
		line += " : " + joinArgs(bases)
	}
	w := NewWriter(s.unit)
	w.Line(line)
	s.writeConstraints(w, h.Constraints)
	w.Line("{")
	return w.String()
}

func (s *csharpSyntax) writeConstraints(w *Writer, constraints []string) {
	release := w.Indent()
	for _, c := range constraints {
		w.Line("where " + c)
	}
	release()
}

func genericList(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + joinArgs(params) + ">"
}

func (s *csharpSyntax) TypeFooter(*TypeHeader) string { return "}\n" }

func (s *csharpSyntax) Field(f *FieldText) string {
	mods := []string{f.Visibility.String()}
	switch {
	case f.Const:
		mods = append(mods, "const")
	case f.Static:
		mods = append(mods, "static")
	}
	if f.ReadOnly && !f.Const {
		mods = append(mods, "readonly")
	}
	line := strings.Join(mods, " ") + " " + f.Type + " " + f.Name
	if f.Value != "" {
		line += " = " + f.Value
	}
	return line + ";\n"
}

func (s *csharpSyntax) params(ps []ParamText) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		var mode string
		switch p.Mode {
		case ParamRef:
			mode = "ref "
		case ParamOut:
			mode = "out "
		case ParamArray:
			mode = "params "
		}
		out[i] = mode + p.Type + " " + p.Name
	}
	return joinArgs(out)
}

func (s *csharpSyntax) modifiers(sig *MethodSignature) []string {
	var mods []string
	if sig.Kind != MethodStaticConstructor {
		mods = append(mods, sig.Visibility.String())
	}
	if sig.Static {
		mods = append(mods, "static")
	}
	if sig.Extern {
		mods = append(mods, "extern")
	}
	switch {
	case sig.Abstract:
		mods = append(mods, "abstract")
	case sig.Override && sig.Sealed:
		mods = append(mods, "sealed", "override")
	case sig.Override:
		mods = append(mods, "override")
	case sig.Virtual && !sig.Sealed:
		mods = append(mods, "virtual")
	}
	if sig.Unsafe {
		mods = append(mods, "unsafe")
	}
	return mods
}

func (s *csharpSyntax) signature(sig *MethodSignature) string {
	params := "(" + s.params(sig.Params) + ")"
	if sig.InInterface {
		return sig.Return + " " + sig.Name + genericList(sig.GenericParams) + params
	}
	mods := strings.Join(s.modifiers(sig), " ")
	switch sig.Kind {
	case MethodConstructor:
		line := mods + " " + sig.Owner + params
		if c := sig.Chain; c != nil {
			kw := "this"
			if c.Base {
				kw = "base"
			}
			line += " : " + kw + "(" + joinArgs(c.Args) + ")"
		}
		return line
	case MethodStaticConstructor:
		return mods + " " + sig.Owner + "()"
	case MethodOperator:
		if kind, ok := conversionOperators[sig.Name]; ok {
			return mods + " " + kind + " operator " + sig.Return + params
		}
		tok := binaryOperatorTokens[sig.Name]
		if tok == "" {
			tok = unaryOperatorTokens[sig.Name]
		}
		return mods + " " + sig.Return + " operator " + tok + params
	}
	return mods + " " + sig.Return + " " + sig.Name + genericList(sig.GenericParams) + params
}

func (s *csharpSyntax) Method(sig *MethodSignature, body string) string {
	w := NewWriter(s.unit)
	header := s.signature(sig)
	if !sig.HasBody() {
		w.Line(header + ";")
		s.writeConstraints(w, sig.Constraints)
		return w.String()
	}
	w.Line(header)
	s.writeConstraints(w, sig.Constraints)
	w.Write(body)
	return w.String()
}

func (s *csharpSyntax) accessorSig(p *PropertyText) *MethodSignature {
	if p.Getter != nil {
		return p.Getter.Sig
	}
	return p.Setter.Sig
}

func (s *csharpSyntax) Property(p *PropertyText) string {
	sig := s.accessorSig(p)
	name := p.Name
	if len(p.Params) > 0 {
		name = "this[" + s.params(p.Params) + "]"
	}
	header := p.Type + " " + name
	if !sig.InInterface {
		header = strings.Join(s.modifiers(sig), " ") + " " + header
	}
	w := NewWriter(s.unit)
	if !sig.HasBody() {
		var acc []string
		if p.Getter != nil {
			acc = append(acc, "get;")
		}
		if p.Setter != nil {
			acc = append(acc, "set;")
		}
		w.Line(header + " { " + strings.Join(acc, " ") + " }")
		return w.String()
	}
	w.Line(header)
	w.Line("{")
	release := w.Indent()
	if p.Getter != nil {
		w.Line("get")
		w.Write(p.Getter.Body)
	}
	if p.Setter != nil {
		w.Line("set")
		w.Write(p.Setter.Body)
	}
	release()
	w.Line("}")
	return w.String()
}

func (s *csharpSyntax) Event(ev *EventText) string {
	header := "event " + ev.Type + " " + ev.Name
	if !ev.Sig.InInterface {
		header = strings.Join(s.modifiers(ev.Sig), " ") + " " + header
	}
	w := NewWriter(s.unit)
	if ev.Field != nil || !ev.Sig.HasBody() || ev.Adder == nil || ev.Remover == nil {
		w.Line(header + ";")
		return w.String()
	}
	w.Line(header)
	w.Line("{")
	release := w.Indent()
	w.Line("add")
	w.Write(ev.Adder.Body)
	w.Line("remove")
	w.Write(ev.Remover.Body)
	release()
	w.Line("}")
	return w.String()
}

func (s *csharpSyntax) Enum(en *EnumText) string {
	w := NewWriter(s.unit)
	header := csharpVisibility(en.Visibility, en.Nested) + " enum " + en.Name
	if en.Underlying != "" && en.Underlying != "int" {
		header += " : " + en.Underlying
	}
	w.Line(header)
	w.Line("{")
	release := w.Indent()
	for i, m := range en.Members {
		line := m.Name + " = " + m.Value
		if i < len(en.Members)-1 {
			line += ","
		}
		w.Line(line)
	}
	release()
	w.Line("}")
	return w.String()
}

func (s *csharpSyntax) Delegate(d *DelegateText) string {
	return csharpVisibility(d.Visibility, d.Nested) + " delegate " + d.Return + " " + d.Name +
		genericList(d.GenericParams) + "(" + s.params(d.Params) + ");\n"
}
