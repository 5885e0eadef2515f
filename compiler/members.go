package compiler

import (
	"fmt"
	"strings"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// TypeResult is the rendered text of one declared type and what happened
// while rendering it.
type TypeResult struct {
	Text    string
	Patches []string
	Unsafe  bool
}

// EmitType renders decl and its nested types. Types named in excluded are
// skipped and yield empty text.
func (e *Engine) EmitType(decl *model.TypeDecl, excluded map[string]bool) TypeResult {
	te := &typeEmitter{
		e:        e,
		decl:     decl,
		ctx:      NewEmissionContext(decl, nil, e.log),
		excluded: excluded,
		methods:  make(map[*model.MethodDecl]bool),
		fields:   make(map[*model.FieldDecl]bool),
	}
	text := te.emit()
	return TypeResult{Text: text, Patches: te.patches, Unsafe: te.unsafe}
}

type typeEmitter struct {
	e        *Engine
	decl     *model.TypeDecl
	ctx      *EmissionContext
	excluded map[string]bool

	methods map[*model.MethodDecl]bool
	fields  map[*model.FieldDecl]bool
	patches []string
	unsafe  bool
}

func (te *typeEmitter) emit() string {
	if te.excluded[te.decl.FullName()] {
		te.e.log.Debugw("skipping excluded type", logger.FieldType, te.decl.FullName())
		return ""
	}
	defer func() { te.patches = append(te.patches, te.ctx.Patches()...) }()
	switch te.decl.Kind {
	case model.Enum:
		return te.enum()
	case model.Delegate:
		return te.delegate()
	}
	return te.class()
}

func (te *typeEmitter) name() string {
	return te.e.syntax.Ident(model.StripArity(te.decl.Name))
}

func (te *typeEmitter) typeName(ref *model.TypeReference) string {
	if ref == nil {
		return te.e.typeName(te.ctx, model.NewNamed("System", "Void", true))
	}
	if ref.Kind == model.PointerType {
		te.unsafe = true
	}
	return te.e.typeName(te.ctx, ref)
}

func (te *typeEmitter) genericParams(gps []*model.GenericParameter) []string {
	out := make([]string, len(gps))
	for i, gp := range gps {
		out[i] = te.e.syntax.Ident(gp.Name)
	}
	return out
}

func (te *typeEmitter) constraints(gps []*model.GenericParameter) []string {
	var out []string
	for _, gp := range gps {
		var parts []string
		switch {
		case gp.ReferenceTypeConstraint:
			parts = append(parts, "class")
		case gp.ValueTypeConstraint:
			parts = append(parts, "struct")
		}
		for _, c := range gp.Constraints {
			parts = append(parts, te.typeName(c))
		}
		if gp.ConstructorConstraint && !gp.ValueTypeConstraint {
			parts = append(parts, "new()")
		}
		if len(parts) > 0 {
			out = append(out, te.e.syntax.Ident(gp.Name)+" : "+joinArgs(parts))
		}
	}
	return out
}

// ownGenerics drops the generic parameters a nested type repeats from its
// enclosing type.
func (te *typeEmitter) ownGenerics() []*model.GenericParameter {
	return te.decl.GenericParameters[te.decl.InheritedGenericCount():]
}

func (te *typeEmitter) nested() bool { return te.decl.DeclaringType != nil }

func (te *typeEmitter) class() string {
	decl := te.decl
	own := te.ownGenerics()
	h := &TypeHeader{
		Name:          te.name(),
		Kind:          decl.Kind,
		Visibility:    decl.Visibility,
		Abstract:      decl.Abstract,
		Sealed:        decl.Sealed,
		Static:        decl.Static,
		Nested:        te.nested(),
		GenericParams: te.genericParams(own),
		Constraints:   te.constraints(own),
	}
	if b := decl.BaseType; b != nil && decl.Kind == model.Class {
		switch b.QualifiedName() {
		case "System.Object", "System.ValueType":
		default:
			h.Base = te.e.bareName(te.ctx, b)
		}
	}
	for _, i := range te.e.ts.Canonical(decl.Reference()).ExclusiveInterfaces() {
		h.Interfaces = append(h.Interfaces, te.e.bareName(te.ctx, i.Ref))
	}

	body := NewWriter(te.e.unit)
	release := body.Indent()
	te.events(body)
	te.properties(body)
	te.methodsPass(body)
	te.fieldsPass(body)
	te.nestedTypes(body)
	release()

	h.Unsafe = te.unsafe
	var sb strings.Builder
	sb.WriteString(te.e.syntax.TypeHeader(h))
	sb.WriteString(body.String())
	sb.WriteString(te.e.syntax.TypeFooter(h))
	return sb.String()
}

func isPointer(ref *model.TypeReference) bool {
	return ref != nil && ref.Kind == model.PointerType
}

func (te *typeEmitter) paramMode(ctx *EmissionContext, p *model.ParameterDecl) ParamMode {
	byRef := p.Type != nil && p.Type.Kind == model.ByRefType
	switch {
	case byRef && p.In && p.Out:
		ctx.ApplyPatch(PatchInOutByRefAsRef, "parameter", p.Name)
		return ParamRef
	case byRef && p.Out:
		return ParamOut
	case byRef:
		return ParamRef
	case p.Out:
		ctx.ApplyPatch(PatchInOutByRefAsRef, "parameter", p.Name)
	}
	if p.Params {
		return ParamArray
	}
	return ParamValue
}

func (te *typeEmitter) params(ctx *EmissionContext, ps []*model.ParameterDecl) []ParamText {
	out := make([]ParamText, len(ps))
	for i, p := range ps {
		out[i] = ParamText{Type: te.typeName(p.Type), Name: te.e.syntax.Ident(p.Name), Mode: te.paramMode(ctx, p)}
	}
	return out
}

// method renders the signature and body of m. The body is emitted first so
// the signature can carry what the traversal found.
func (te *typeEmitter) method(m *model.MethodDecl) (*MethodSignature, string) {
	ctx := NewEmissionContext(te.decl, m, te.e.log)
	defer func() { te.patches = append(te.patches, ctx.Patches()...) }()
	body := te.e.EmitBody(ctx)

	inInterface := te.decl.Kind == model.Interface
	sig := &MethodSignature{
		Name:          te.e.syntax.Ident(m.Name),
		Owner:         te.name(),
		Return:        te.typeName(m.ReturnType),
		Params:        te.params(ctx, m.Parameters),
		GenericParams: te.genericParams(m.GenericParameters),
		Constraints:   te.constraints(m.GenericParameters),
		Visibility:    m.Visibility,
		Static:        m.Static,
		Virtual:       m.Virtual,
		Abstract:      m.Abstract,
		Override:      m.Override,
		Sealed:        m.Sealed,
		Extern:        m.Extern || (m.Body == nil && !m.Abstract && !inInterface),
		InInterface:   inInterface,
		Chain:         ctx.Chain(),
	}
	switch {
	case m.IsConstructor():
		sig.Kind = MethodConstructor
	case m.IsStaticConstructor():
		sig.Kind = MethodStaticConstructor
	case m.SpecialName && strings.HasPrefix(m.Name, "op_"):
		sig.Kind = MethodOperator
		sig.Name = m.Name
	}
	sig.Unsafe = ctx.Unsafe() || isPointer(m.ReturnType)
	for _, p := range m.Parameters {
		sig.Unsafe = sig.Unsafe || isPointer(stripByRef(p.Type))
	}
	te.unsafe = te.unsafe || sig.Unsafe
	return sig, body
}

func (te *typeEmitter) accessor(m *model.MethodDecl) *AccessorText {
	if m == nil {
		return nil
	}
	te.methods[m] = true
	sig, body := te.method(m)
	return &AccessorText{Sig: sig, Body: body}
}

// findAccessor returns the declared method standing for want. Identity is
// tried first; duplicated upstream objects are matched by name.
func (te *typeEmitter) findAccessor(want *model.MethodDecl, name string) (*model.MethodDecl, bool) {
	if want == nil {
		return nil, false
	}
	for _, m := range te.decl.Methods {
		if m == want {
			return m, false
		}
	}
	for _, m := range te.decl.Methods {
		if m.Name == name && !te.methods[m] {
			return m, true
		}
	}
	return want, false
}

func (te *typeEmitter) findField(want *model.FieldDecl) (*model.FieldDecl, bool) {
	if want == nil {
		return nil, false
	}
	for _, f := range te.decl.Fields {
		if f == want {
			return f, false
		}
	}
	for _, f := range te.decl.Fields {
		if f.Name == want.Name && !te.fields[f] {
			return f, true
		}
	}
	return want, false
}

func (te *typeEmitter) events(w *Writer) {
	for _, ev := range te.decl.Events {
		adder, byName1 := te.findAccessor(ev.Adder, "add_"+ev.Name)
		remover, byName2 := te.findAccessor(ev.Remover, "remove_"+ev.Name)
		field, byName3 := te.findField(ev.BackingField)
		if byName1 || byName2 || byName3 {
			te.ctx.ApplyPatch(PatchEventBackingFieldByName, "event", ev.Name)
		}
		et := &EventText{
			Name:    te.e.syntax.Ident(ev.Name),
			Type:    te.typeName(ev.Type),
			Adder:   te.accessor(adder),
			Remover: te.accessor(remover),
		}
		if field != nil {
			te.fields[field] = true
			et.Field = te.fieldText(field)
		}
		switch {
		case et.Adder != nil:
			et.Sig = et.Adder.Sig
		case et.Remover != nil:
			et.Sig = et.Remover.Sig
		default:
			et.Sig = &MethodSignature{Visibility: model.Public, InInterface: te.decl.Kind == model.Interface}
		}
		w.Write(te.e.syntax.Event(et))
	}
}

func (te *typeEmitter) properties(w *Writer) {
	for _, p := range te.decl.Properties {
		if p.Getter == nil && p.Setter == nil {
			continue
		}
		pt := &PropertyText{Name: te.e.syntax.Ident(p.Name), Type: te.typeName(p.Type)}
		if p.IsIndexer() {
			pt.Params = te.params(te.ctx, p.Parameters)
		}
		pt.Getter = te.accessor(p.Getter)
		pt.Setter = te.accessor(p.Setter)
		w.Write(te.e.syntax.Property(pt))
	}
}

func (te *typeEmitter) methodsPass(w *Writer) {
	for _, m := range te.decl.Methods {
		if te.methods[m] {
			continue
		}
		te.methods[m] = true
		sig, body := te.method(m)
		w.Write(te.e.syntax.Method(sig, body))
	}
}

func (te *typeEmitter) fieldText(f *model.FieldDecl) *FieldText {
	lt := te.e.local(f.Type)
	ft := &FieldText{
		Name:       te.e.syntax.Ident(f.Name),
		Type:       te.typeName(f.Type),
		Visibility: f.Visibility,
		Static:     f.Static,
		ReadOnly:   f.ReadOnly,
		Const:      f.Literal,
		Primitive:  lt.IsPrimitive(),
	}
	if f.Literal {
		ft.Value = te.constant(f.Type, f.Constant)
	}
	return ft
}

func (te *typeEmitter) constant(typ *model.TypeReference, v any) string {
	return te.e.literal(te.ctx, &model.Literal{Typed: model.Typed{Type: typ}, Value: v}).Text()
}

func (te *typeEmitter) fieldsPass(w *Writer) {
	for _, f := range te.decl.Fields {
		if te.fields[f] {
			continue
		}
		te.fields[f] = true
		w.Write(te.e.syntax.Field(te.fieldText(f)))
	}
}

func (te *typeEmitter) nestedTypes(w *Writer) {
	for _, n := range te.decl.NestedTypes {
		r := te.e.EmitType(n, te.excluded)
		te.patches = append(te.patches, r.Patches...)
		te.unsafe = te.unsafe || r.Unsafe
		w.Write(r.Text)
	}
}

// enum renders an enum. Its first field is the value storage; the others
// are the enumerators.
func (te *typeEmitter) enum() string {
	en := &EnumText{Name: te.name(), Visibility: te.decl.Visibility, Nested: te.nested()}
	fields := te.decl.Fields
	if len(fields) == 0 {
		return te.e.syntax.Enum(en)
	}
	en.Underlying = te.typeName(fields[0].Type)
	for _, f := range fields[1:] {
		if _, ok := integerValue(f.Constant); !ok {
			panic(errors.Internalf("enumerator %s.%s has non-integral value %v", te.decl.FullName(), f.Name, f.Constant))
		}
		en.Members = append(en.Members, EnumMember{Name: te.e.syntax.Ident(f.Name), Value: fmt.Sprint(f.Constant)})
	}
	return te.e.syntax.Enum(en)
}

// delegate renders a delegate type from the signature of its Invoke method.
func (te *typeEmitter) delegate() string {
	var invoke *model.MethodDecl
	for _, m := range te.decl.Methods {
		if m.Name == "Invoke" {
			invoke = m
			break
		}
	}
	if invoke == nil {
		panic(notImplemented(te.ctx, "delegate without Invoke method"))
	}
	return te.e.syntax.Delegate(&DelegateText{
		Name:          te.name(),
		Visibility:    te.decl.Visibility,
		Nested:        te.nested(),
		Return:        te.typeName(invoke.ReturnType),
		Params:        te.params(te.ctx, invoke.Parameters),
		GenericParams: te.genericParams(te.ownGenerics()),
	})
}
