package compiler

import (
	"strings"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

func integerValue(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

func literalType(v any, static *LocalType) *LocalType {
	switch v.(type) {
	case bool:
		return LocalBoolean
	case model.Char:
		return LocalChar
	case int8:
		return LocalSByte
	case uint8:
		return LocalByte
	case int16:
		return LocalInt16
	case uint16:
		return LocalUInt16
	case int, int32:
		return LocalInt32
	case uint32:
		return LocalUInt32
	case int64:
		return LocalInt64
	case uint64:
		return LocalUInt64
	case float32:
		return LocalSingle
	case float64:
		return LocalDouble
	case model.Decimal:
		return LocalDecimal
	case string:
		return LocalString
	}
	return static
}

// promote applies binary numeric promotion.
func promote(a, b Primitive) *LocalType {
	has := func(p Primitive) bool { return a == p || b == p }
	signed := func(p Primitive) bool { return p == PrimSByte || p == PrimInt16 || p == PrimInt32 }
	switch {
	case has(PrimDecimal):
		return LocalDecimal
	case has(PrimDouble):
		return LocalDouble
	case has(PrimSingle):
		return LocalSingle
	case has(PrimUInt64):
		return LocalUInt64
	case has(PrimInt64):
		return LocalInt64
	case has(PrimUIntPtr):
		return LocalUIntPtr
	case has(PrimIntPtr):
		return LocalIntPtr
	case has(PrimUInt32):
		if signed(a) || signed(b) {
			return LocalInt64
		}
		return LocalUInt32
	}
	return LocalInt32
}

func (e *Engine) returnType(ref *model.TypeReference) *LocalType {
	if ref == nil || ref.IsVoid() {
		return LocalVoid
	}
	return e.local(ref)
}

func (e *Engine) ownerOf(ctx *EmissionContext, ref *model.TypeReference) string {
	if ref == nil {
		return ""
	}
	return e.bareName(ctx, ref)
}

// memberTarget renders the instance a member is reached through.
func (e *Engine) memberTarget(ctx *EmissionContext, m *MemberAccess, target model.Expression, static bool) {
	if target != nil {
		t := e.expr(ctx, target)
		m.Target = t.Text()
		m.Mode = e.modeOf(target, t)
	}
	if static || target == nil {
		m.Mode = ModeStatic
	}
}

func (e *Engine) literal(ctx *EmissionContext, n *model.Literal) Fragment {
	if n.Value == nil {
		return NewFragment(TagLiteral, e.syntax.Literal(nil), LocalNull)
	}
	static := e.local(n.Type)
	want := static
	if ct := ctx.CastTarget(); ct != nil {
		if lt := e.local(ct); lt == LocalBoolean || lt == LocalChar {
			want = lt
		}
	}
	if i, ok := integerValue(n.Value); ok {
		switch want {
		case LocalBoolean:
			return NewFragment(TagLiteral, e.syntax.Literal(i != 0), LocalBoolean)
		case LocalChar:
			return NewFragment(TagLiteral, e.syntax.Literal(model.Char(i)), LocalChar)
		}
		if static.Info != nil && static.Info.IsEnum() {
			tok, suf := e.syntax.CastTokens(n.Type, LocalInt32)
			return NewFragment(TagExpr, tok+e.syntax.Literal(n.Value)+suf, static)
		}
	}
	return NewFragment(TagLiteral, e.syntax.Literal(n.Value), literalType(n.Value, static))
}

func (e *Engine) binary(ctx *EmissionContext, n *model.Binary) Fragment {
	l := e.expr(ctx, n.Left)
	r := e.expr(ctx, n.Right)
	text := "(" + l.Text() + " " + n.Operator.Token() + " " + r.Text() + ")"
	return NewFragment(TagExpr, text, e.binaryType(n, l.Type(), r.Type()))
}

func (e *Engine) binaryType(n *model.Binary, lt, rt *LocalType) *LocalType {
	op := n.Operator
	lp, rp := lt.Primitive(), rt.Primitive()
	switch {
	case op.IsComparison(), op == model.BooleanAnd, op == model.BooleanOr:
		return LocalBoolean
	case op == model.Add && (lt == LocalString || rt == LocalString):
		return LocalString
	case op.IsShift() && lp.IsNumeric():
		return promote(lp, lp)
	case lp == PrimBoolean && rp == PrimBoolean:
		return LocalBoolean
	case lp.IsNumeric() && rp.IsNumeric():
		return promote(lp, rp)
	case lt == LocalPointer || rt == LocalPointer:
		return LocalPointer
	case n.Type != nil:
		return e.local(n.Type)
	}
	return lt
}

func (e *Engine) unary(ctx *EmissionContext, n *model.Unary) Fragment {
	o := e.expr(ctx, n.Operand)
	t := o.Type()
	p := t.Primitive()
	x := o.Text()
	switch n.Operator {
	case model.Negate:
		switch {
		case p == PrimUInt32:
			t = LocalInt64
		case p.IsNumeric():
			t = promote(p, p)
		}
		return NewFragment(TagExpr, "(-"+x+")", t)
	case model.BooleanNot:
		return NewFragment(TagExpr, "(!"+x+")", LocalBoolean)
	case model.BitwiseNot:
		if p.IsNumeric() {
			t = promote(p, p)
		}
		return NewFragment(TagExpr, "(~"+x+")", t)
	case model.PreIncrement:
		return NewFragment(TagExpr, "(++"+x+")", t)
	case model.PreDecrement:
		return NewFragment(TagExpr, "(--"+x+")", t)
	case model.PostIncrement:
		return NewFragment(TagExpr, "("+x+"++)", t)
	case model.PostDecrement:
		return NewFragment(TagExpr, "("+x+"--)", t)
	}
	panic(errors.AssertionFailedf("unknown unary operator %d", n.Operator))
}

func (e *Engine) cast(ctx *EmissionContext, n *model.Cast) Fragment {
	release := ctx.PushCastTarget(n.TargetType)
	inner := e.expr(ctx, n.Expression)
	release()
	src, dst := inner.Type(), e.local(n.TargetType)
	if src == dst {
		return inner
	}
	if dst == LocalBoolean && src.Primitive().IsInteger() {
		return NewFragment(TagExpr, "("+inner.Text()+" != 0)", LocalBoolean)
	}
	if n.TargetType.Kind == model.PointerType {
		ctx.MarkUnsafe()
	}
	c := e.planner.PlanTo(n.TargetType, src)
	if c.Token == "" && c.Suffix == "" {
		c.Token, c.Suffix = e.syntax.CastTokens(n.TargetType, src)
	}
	return NewFragment(TagExpr, c.Apply(inner.Text()), dst)
}

func (e *Engine) tryCast(ctx *EmissionContext, n *model.TryCast) Fragment {
	inner := e.expr(ctx, n.Expression)
	text := e.syntax.TryCast(e.typeName(ctx, n.TargetType), inner.Text())
	return NewFragment(TagExpr, text, e.local(n.TargetType))
}

func (e *Engine) canCast(ctx *EmissionContext, n *model.CanCast) Fragment {
	inner := e.expr(ctx, n.Expression)
	text := e.syntax.CanCast(e.typeName(ctx, n.TargetType), inner.Text())
	return NewFragment(TagExpr, text, LocalBoolean)
}

func (e *Engine) assign(ctx *EmissionContext, n *model.Assign) Fragment {
	target := e.expr(ctx, n.Target)
	value := e.expr(ctx, n.Value)
	dst := n.Target.StaticType()
	if dst == nil {
		dst = target.Type().Reference()
	}
	value = e.coerce(value, dst)
	var text string
	if m := target.Member(); m != nil {
		text = e.syntax.Access(m, OpSet, value.Text())
	} else {
		text = target.Text() + " = " + value.Text()
	}
	return NewFragment(TagExpr, "("+text+")", target.Type())
}

func (e *Engine) fieldReference(ctx *EmissionContext, n *model.FieldReference) Fragment {
	ref := n.Field
	m := &MemberAccess{Kind: AccessField, Name: e.syntax.Ident(ref.Name), Owner: e.ownerOf(ctx, ref.DeclaringType)}
	e.memberTarget(ctx, m, n.Target, ref.Static)
	typ := ref.FieldType
	if typ == nil {
		typ = n.Type
	}
	return NewFragment(TagExpr, e.syntax.Access(m, OpGet, ""), e.local(typ)).WithMember(m)
}

func (e *Engine) propertyReference(ctx *EmissionContext, n *model.PropertyReference) Fragment {
	ref := n.Property
	m := &MemberAccess{Kind: AccessProperty, Name: e.syntax.Ident(ref.Name), Owner: e.ownerOf(ctx, ref.DeclaringType)}
	e.memberTarget(ctx, m, n.Target, ref.Static)
	typ := ref.PropertyType
	if typ == nil {
		typ = n.Type
	}
	return NewFragment(TagExpr, e.syntax.Access(m, OpGet, ""), e.local(typ)).WithMember(m)
}

func (e *Engine) propertyIndexer(ctx *EmissionContext, n *model.PropertyIndexer) Fragment {
	if n.Target == nil {
		panic(errors.Internalf("indexer without property"))
	}
	p := e.expr(ctx, n.Target)
	m := *p.Member()
	m.Kind = AccessIndexer
	params := n.Target.Property.Parameters
	m.Args = make([]string, len(n.Indices))
	for i, idx := range n.Indices {
		f := e.expr(ctx, idx)
		if i < len(params) {
			f = e.coerce(f, params[i])
		}
		m.Args[i] = f.Text()
	}
	return NewFragment(TagExpr, e.syntax.Access(&m, OpGet, ""), p.Type()).WithMember(&m)
}

func (e *Engine) eventReference(ctx *EmissionContext, n *model.EventReference) Fragment {
	ref := n.Event
	m := &MemberAccess{Kind: AccessEvent, Name: e.syntax.Ident(ref.Name), Owner: e.ownerOf(ctx, ref.DeclaringType)}
	e.memberTarget(ctx, m, n.Target, ref.Static)
	typ := ref.EventType
	if typ == nil {
		typ = n.Type
	}
	return NewFragment(TagExpr, e.syntax.Access(m, OpGet, ""), e.local(typ)).WithMember(m)
}

func (e *Engine) methodReference(ctx *EmissionContext, n *model.MethodReference) Fragment {
	iface := ctx.InterfaceCall()
	ref := n.Method
	m := &MemberAccess{Kind: AccessMethod, Name: e.syntax.Ident(ref.Name), Owner: e.ownerOf(ctx, ref.DeclaringType)}
	release := ctx.PushInterfaceCall(nil)
	e.memberTarget(ctx, m, n.Target, ref.Static)
	release()
	if iface != nil && e.syntax.NeedsInterfaceCall() && m.Mode == ModeReference {
		m.Mode = ModeInterface
		m.Owner = e.bareName(ctx, iface.Ref)
	}
	return NewFragment(TagExpr, e.syntax.Access(m, OpGet, ""), LocalDelegate).WithMember(m)
}

func (e *Engine) methodInvoke(ctx *EmissionContext, n *model.MethodInvoke) Fragment {
	ref := n.Method.Method
	var iface *TypeInfo
	if !ref.Static && ref.DeclaringType != nil {
		if ti := e.ts.Canonical(ref.DeclaringType); ti.IsInterface() {
			iface = ti
		}
	}
	release := ctx.PushInterfaceCall(iface)
	target := e.expr(ctx, n.Method)
	release()
	args := e.arguments(ctx, ref, n.Arguments)
	if ref.IsConstructor() {
		return e.chainCall(ctx, n, args)
	}
	ret := e.returnType(ref.ReturnType)
	if ref.Static && strings.HasPrefix(ref.Name, "op_") {
		if text, ok := e.syntax.OperatorCall(ref.Name, args, e.typeName(ctx, ref.ReturnType)); ok {
			return NewFragment(TagExpr, text, ret)
		}
	}
	generic := make([]string, len(ref.GenericArguments))
	for i, g := range ref.GenericArguments {
		generic[i] = e.typeName(ctx, g)
	}
	return NewFragment(TagExpr, e.syntax.Call(target.Member(), generic, args), ret)
}

// chainCall lifts a constructor call on this or base into the constructor
// initializer. It leaves no text in the body.
func (e *Engine) chainCall(ctx *EmissionContext, n *model.MethodInvoke, args []string) Fragment {
	ref := n.Method.Method
	var isBase bool
	switch n.Method.Target.(type) {
	case *model.Base:
		isBase = true
	case *model.This:
		if ctx.Type != nil {
			isBase = e.ts.Canonical(ref.DeclaringType) != e.ts.Canonical(ctx.Type.Reference())
		}
	default:
		panic(notImplemented(ctx, "constructor call on an arbitrary instance"))
	}
	if ctx.Method == nil || !ctx.Method.IsConstructor() {
		panic(notImplemented(ctx, "constructor call outside a constructor"))
	}
	if !ctx.SetChain(&ChainCall{Base: isBase, Target: e.ownerOf(ctx, ref.DeclaringType), Args: args}) {
		panic(notImplemented(ctx, "second constructor initializer"))
	}
	return NewFragment(TagExpr, "", LocalVoid)
}

// arguments renders call arguments converted to the parameter types.
func (e *Engine) arguments(ctx *EmissionContext, ref *model.MethodRef, args []model.Expression) []string {
	var callee *model.MethodDecl
	for _, a := range args {
		if _, ok := a.(*model.AddressOut); ok {
			callee = e.resolveMethod(ref)
			break
		}
	}
	out := make([]string, len(args))
	for i, a := range args {
		if _, ok := a.(*model.AddressOut); ok && callee != nil && i < len(callee.Parameters) {
			if p := callee.Parameters[i]; p.In && p.Out {
				ctx.RequestRefArgument()
				ctx.ApplyPatch(PatchInOutByRefAsRef, "parameter", p.Name)
			}
		}
		f := e.expr(ctx, a)
		if i < len(ref.Parameters) {
			if pt := ref.Parameters[i]; pt != nil && pt.Kind != model.ByRefType {
				f = e.coerce(f, pt)
			}
		}
		out[i] = f.Text()
	}
	return out
}

func (e *Engine) delegateCreate(ctx *EmissionContext, n *model.DelegateCreate) Fragment {
	ref := n.Method
	m := &MemberAccess{Kind: AccessMethod, Name: e.syntax.Ident(ref.Name), Owner: e.ownerOf(ctx, ref.DeclaringType)}
	e.memberTarget(ctx, m, n.Target, ref.Static)
	text := e.syntax.DelegateCreate(e.bareName(ctx, n.DelegateType), m)
	return NewFragment(TagExpr, text, e.local(n.DelegateType))
}

func (e *Engine) delegateInvoke(ctx *EmissionContext, n *model.DelegateInvoke) Fragment {
	target := e.expr(ctx, n.Target)
	params := e.invokeParameters(n)
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		f := e.expr(ctx, a)
		if i < len(params) {
			f = e.coerce(f, params[i])
		}
		args[i] = f.Text()
	}
	return NewFragment(TagExpr, e.syntax.DelegateInvoke(target.Text(), args), e.returnType(n.Type))
}

// invokeParameters returns the parameter types of the delegate n calls.
func (e *Engine) invokeParameters(n *model.DelegateInvoke) []*model.TypeReference {
	decl := e.ts.Resolve(n.Target.StaticType())
	if decl == nil || decl.Kind != model.Delegate {
		return n.Parameters
	}
	for _, m := range decl.Methods {
		if m.Name != "Invoke" {
			continue
		}
		params := make([]*model.TypeReference, len(m.Parameters))
		for i, p := range m.Parameters {
			params[i] = p.Type
		}
		return params
	}
	return n.Parameters
}

func (e *Engine) arrayCreate(ctx *EmissionContext, n *model.ArrayCreate) Fragment {
	elem := e.typeName(ctx, n.ElementType)
	dims := make([]string, len(n.Dimensions))
	for i, d := range n.Dimensions {
		dims[i] = e.expr(ctx, d).Text()
	}
	if len(n.Initializer) == 0 {
		return NewFragment(TagExpr, e.syntax.NewArray(elem, dims), LocalArray)
	}
	items := make([]string, len(n.Initializer))
	for i, it := range n.Initializer {
		items[i] = e.coerce(e.expr(ctx, it), n.ElementType).Text()
	}
	return NewFragment(TagExpr, e.syntax.NewArrayInit(elem, items), LocalArray)
}

func (e *Engine) arrayIndexer(ctx *EmissionContext, n *model.ArrayIndexer) Fragment {
	target := e.expr(ctx, n.Target)
	indices := make([]string, len(n.Indices))
	for i, idx := range n.Indices {
		indices[i] = e.expr(ctx, idx).Text()
	}
	pointer := target.Type() == LocalPointer
	if pointer {
		ctx.MarkUnsafe()
	}
	elem := n.Type
	if st := n.Target.StaticType(); elem == nil && st != nil {
		elem = st.Element
	}
	return NewFragment(TagExpr, e.syntax.Index(target.Text(), pointer, indices), e.local(elem))
}

func (e *Engine) objectCreate(ctx *EmissionContext, n *model.ObjectCreate) Fragment {
	ctor := n.Constructor
	args := e.arguments(ctx, ctor, n.Arguments)
	typ := ctor.DeclaringType
	if typ == nil {
		typ = n.Type
	}
	lt := e.local(typ)
	return NewFragment(TagExpr, e.syntax.New(e.bareName(ctx, typ), lt.IsValueType(), args), lt)
}

func (e *Engine) conditional(ctx *EmissionContext, n *model.Conditional) Fragment {
	c := e.coerceLocal(e.expr(ctx, n.Condition), LocalBoolean)
	a := e.expr(ctx, n.Then)
	b := e.expr(ctx, n.Else)
	result, castA, castB := e.planner.Unify(a.Type(), b.Type())
	if castA {
		a = e.unifyTo(a, result)
	}
	if castB {
		b = e.unifyTo(b, result)
	}
	return NewFragment(TagExpr, "("+c.Text()+" ? "+a.Text()+" : "+b.Text()+")", result)
}

func (e *Engine) nullCoalescing(ctx *EmissionContext, n *model.NullCoalescing) Fragment {
	l := e.expr(ctx, n.Left)
	r := e.coerce(e.expr(ctx, n.Right), n.Left.StaticType())
	return NewFragment(TagExpr, e.syntax.Coalesce(l.Text(), r.Text()), l.Type())
}

func (e *Engine) addressOf(ctx *EmissionContext, n *model.AddressOf) Fragment {
	ctx.MarkUnsafe()
	inner := e.expr(ctx, n.Expression)
	return NewFragment(TagExpr, "(&"+inner.Text()+")", LocalPointer)
}

func (e *Engine) addressDereference(ctx *EmissionContext, n *model.AddressDereference) Fragment {
	ctx.MarkUnsafe()
	inner := e.expr(ctx, n.Expression)
	return NewFragment(TagExpr, "(*"+inner.Text()+")", e.local(n.Type))
}

func (e *Engine) addressOut(ctx *EmissionContext, n *model.AddressOut) Fragment {
	asRef := ctx.takeRefArgument()
	release := ctx.EnterRefOut()
	inner := e.expr(ctx, n.Expression)
	release()
	pointer := inner.Tag == TagAddress
	if asRef {
		return NewFragment(TagExpr, e.syntax.RefArgument(inner.Text(), pointer), inner.Type())
	}
	return NewFragment(TagExpr, e.syntax.OutArgument(inner.Text(), pointer), inner.Type())
}

func (e *Engine) addressReference(ctx *EmissionContext, n *model.AddressReference) Fragment {
	release := ctx.EnterRefOut()
	inner := e.expr(ctx, n.Expression)
	release()
	return NewFragment(TagExpr, e.syntax.RefArgument(inner.Text(), inner.Tag == TagAddress), inner.Type())
}

func (e *Engine) stackAlloc(ctx *EmissionContext, n *model.StackAlloc) Fragment {
	release := ctx.EnterStackAlloc()
	count := e.expr(ctx, n.Count)
	release()
	return NewFragment(TagExpr, e.syntax.StackAlloc(e.typeName(ctx, n.ElementType), count.Text()), LocalPointer)
}

func (e *Engine) sizeOf(ctx *EmissionContext, n *model.SizeOf) Fragment {
	if !e.local(n.Operand).IsPrimitive() {
		ctx.MarkUnsafe()
	}
	return NewFragment(TagExpr, e.syntax.SizeOf(e.typeName(ctx, n.Operand)), LocalInt32)
}

func (e *Engine) typeOf(ctx *EmissionContext, n *model.TypeOf) Fragment {
	return NewFragment(TagExpr, e.syntax.TypeOf(e.bareName(ctx, n.Operand)), LocalTypeOf)
}

func (e *Engine) defaultValue(ctx *EmissionContext, n *model.DefaultValue) Fragment {
	lt := e.local(n.Operand)
	value := lt.IsValueType() || isGenericParameter(n.Operand)
	return NewFragment(TagExpr, e.syntax.Default(e.typeName(ctx, n.Operand), value), lt)
}

func (e *Engine) this(ctx *EmissionContext, n *model.This) Fragment {
	typ := n.Type
	if typ == nil && ctx.Type != nil {
		typ = ctx.Type.Reference()
	}
	return NewFragment(TagIdent, e.syntax.This(), e.local(typ))
}

func (e *Engine) base(ctx *EmissionContext, n *model.Base) Fragment {
	typ := n.Type
	if typ == nil && ctx.Type != nil {
		typ = ctx.Type.BaseType
	}
	return NewFragment(TagIdent, e.syntax.This(), e.local(typ))
}

func (e *Engine) variableReference(_ *EmissionContext, n *model.VariableReference) Fragment {
	return NewFragment(TagIdent, e.syntax.Ident(n.Variable.Name), e.local(n.Variable.Type))
}

func (e *Engine) variableDeclaration(ctx *EmissionContext, n *model.VariableDeclaration) Fragment {
	v := n.Variable
	return NewFragment(TagExpr, e.typeName(ctx, v.Type)+" "+e.syntax.Ident(v.Name), e.local(v.Type))
}

func (e *Engine) argumentReference(ctx *EmissionContext, n *model.ArgumentReference) Fragment {
	p := n.Parameter
	name := e.syntax.Ident(p.Name)
	t := e.local(p.Type)
	if p.Type == nil || p.Type.Kind != model.ByRefType {
		return NewFragment(TagIdent, name, t)
	}
	if ctx.InsideRefOut() {
		return NewFragment(TagAddress, e.syntax.ByRefParameter(name, true), t)
	}
	return NewFragment(TagIdent, e.syntax.ByRefParameter(name, false), t)
}

func (e *Engine) typeReferenceExpression(ctx *EmissionContext, n *model.TypeReferenceExpression) Fragment {
	return NewFragment(TagType, e.bareName(ctx, n.Operand), e.local(n.Operand))
}

func (e *Engine) anonymousMethod(ctx *EmissionContext, _ *model.AnonymousMethod) Fragment {
	panic(notImplemented(ctx, "anonymous method"))
}

func (e *Engine) lambda(ctx *EmissionContext, _ *model.Lambda) Fragment {
	panic(notImplemented(ctx, "lambda"))
}
