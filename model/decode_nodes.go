package model

import (
	"gopkg.in/yaml.v3"
)

var binaryOps = map[string]BinaryOperator{
	"+":   Add,
	"-":   Subtract,
	"*":   Multiply,
	"/":   Divide,
	"%":   Modulus,
	"<<":  ShiftLeft,
	">>":  ShiftRight,
	"===": IdentityEquality,
	"!==": IdentityInequality,
	"==":  ValueEquality,
	"!=":  ValueInequality,
	"|":   BitwiseOr,
	"&":   BitwiseAnd,
	"^":   BitwiseExclusiveOr,
	"||":  BooleanOr,
	"&&":  BooleanAnd,
	"<":   LessThan,
	"<=":  LessThanOrEqual,
	">":   GreaterThan,
	">=":  GreaterThanOrEqual,
}

var unaryOps = map[string]UnaryOperator{
	"-":   Negate,
	"!":   BooleanNot,
	"~":   BitwiseNot,
	"++x": PreIncrement,
	"--x": PreDecrement,
	"x++": PostIncrement,
	"x--": PostDecrement,
}

// block decodes either a sequence of statements or a single statement.
func (d *decoder) block(n *yaml.Node) *Block {
	b := &Block{}
	if n == nil || d.err != nil {
		return b
	}
	if n.Kind != yaml.SequenceNode {
		b.Statements = append(b.Statements, d.statement(n))
		return b
	}
	for _, s := range n.Content {
		b.Statements = append(b.Statements, d.statement(s))
	}
	return b
}

func (d *decoder) optBlock(n *yaml.Node, key string) *Block {
	v := field(n, key)
	if v == nil {
		return nil
	}
	return d.block(v)
}

func (d *decoder) optStatement(n *yaml.Node, key string) Statement {
	v := field(n, key)
	if v == nil {
		return nil
	}
	return d.statement(v)
}

func (d *decoder) statement(n *yaml.Node) Statement {
	if d.err != nil {
		return &Block{}
	}
	if n.Kind == yaml.SequenceNode {
		return d.block(n)
	}
	kind := d.str(n, "kind")
	switch kind {
	case "block":
		return d.block(field(n, "body"))
	case "expr":
		return &ExpressionStatement{Expression: d.expr(n, "expr")}
	case "if":
		return &Condition{
			Condition: d.expr(n, "cond"),
			Then:      d.block(field(n, "then")),
			Else:      d.optBlock(n, "else"),
		}
	case "for":
		return &For{
			Initializer: d.optStatement(n, "init"),
			Condition:   d.optExpr(n, "cond"),
			Increment:   d.optStatement(n, "incr"),
			Body:        d.block(field(n, "body")),
		}
	case "foreach":
		v := d.declareVar(field(n, "var"))
		return &ForEach{
			Variable:   &VariableDeclaration{Typed: Typed{Type: v.Type}, Variable: v},
			Collection: d.expr(n, "in"),
			Body:       d.block(field(n, "body")),
		}
	case "while":
		return &While{Condition: d.expr(n, "cond"), Body: d.block(field(n, "body"))}
	case "do":
		return &Do{Condition: d.expr(n, "cond"), Body: d.block(field(n, "body"))}
	case "switch":
		s := &Switch{Expression: d.expr(n, "expr")}
		for _, c := range d.seq(n, "cases") {
			sc := &SwitchCase{Default: d.flag(c, "default"), Body: d.block(field(c, "body"))}
			for _, l := range d.seq(c, "labels") {
				sc.Labels = append(sc.Labels, d.expression(l))
			}
			s.Cases = append(s.Cases, sc)
		}
		return s
	case "try":
		t := &TryCatchFinally{
			Try:     d.block(field(n, "body")),
			Fault:   d.optBlock(n, "fault"),
			Finally: d.optBlock(n, "finally"),
		}
		for _, c := range d.seq(n, "catches") {
			cc := &CatchClause{Type: d.typeRef(c, "type")}
			if cc.Type == nil {
				cc.Type = NewNamed("System", "Exception", false)
			}
			if v := field(c, "var"); v != nil {
				cc.Variable = d.declareVar(v)
			}
			cc.Body = d.block(field(c, "body"))
			t.Catches = append(t.Catches, cc)
		}
		return t
	case "using":
		return &Using{Expression: d.expr(n, "expr"), Body: d.block(field(n, "body"))}
	case "lock":
		return &Lock{Expression: d.expr(n, "expr"), Body: d.block(field(n, "body"))}
	case "fixed":
		v := d.declareVar(field(n, "var"))
		v.Pinned = true
		return &Fixed{Variable: v, Expression: d.expr(n, "expr"), Body: d.block(field(n, "body"))}
	case "throw":
		return &Throw{Expression: d.optExpr(n, "expr")}
	case "return":
		return &Return{Expression: d.optExpr(n, "expr")}
	case "goto":
		return &Goto{Label: d.str(n, "label")}
	case "label":
		return &Labeled{Label: d.str(n, "label"), Statement: d.optStatement(n, "stmt")}
	case "break":
		return &Break{}
	case "continue":
		return &Continue{}
	case "attach", "remove":
		ev, ok := d.expr(n, "event").(*EventReference)
		if !ok && d.err == nil {
			d.fail(n, "%s: event must be an event reference", kind)
		}
		listener := d.expr(n, "listener")
		if kind == "attach" {
			return &AttachEvent{Event: ev, Listener: listener}
		}
		return &RemoveEvent{Event: ev, Listener: listener}
	case "comment":
		return &Comment{Text: d.str(n, "text")}
	case "memcpy":
		return &MemoryCopy{Destination: d.expr(n, "dest"), Source: d.expr(n, "src"), Length: d.expr(n, "len")}
	case "memset":
		return &MemoryInitialize{Destination: d.expr(n, "dest"), Value: d.expr(n, "value"), Length: d.expr(n, "len")}
	}
	// any expression in statement position is an expression statement
	if _, ok := expressionKinds[kind]; ok {
		return &ExpressionStatement{Expression: d.expression(n)}
	}
	d.fail(n, "unknown statement kind %q", kind)
	return &Block{}
}

func (d *decoder) expr(n *yaml.Node, key string) Expression {
	v := field(n, key)
	if v == nil {
		d.fail(n, "missing expression %q", key)
		return &Literal{}
	}
	return d.expression(v)
}

func (d *decoder) optExpr(n *yaml.Node, key string) Expression {
	v := field(n, key)
	if v == nil {
		return nil
	}
	return d.expression(v)
}

func (d *decoder) exprs(n *yaml.Node, key string) []Expression {
	var out []Expression
	for _, e := range d.seq(n, key) {
		out = append(out, d.expression(e))
	}
	return out
}

// typed reads the optional "type" key, falling back to def.
func (d *decoder) typed(n *yaml.Node, def *TypeReference) Typed {
	if t := d.typeRef(n, "type"); t != nil {
		return Typed{Type: t}
	}
	return Typed{Type: def}
}

var expressionKinds = map[string]struct{}{
	"literal": {}, "binary": {}, "unary": {}, "cast": {}, "trycast": {}, "cancast": {},
	"assign": {}, "field": {}, "property": {}, "indexer": {}, "event": {}, "methodref": {},
	"invoke": {}, "delegate": {}, "delegate_invoke": {}, "newarray": {}, "index": {},
	"new": {}, "conditional": {}, "coalesce": {}, "addressof": {}, "deref": {}, "out": {},
	"ref": {}, "stackalloc": {}, "sizeof": {}, "typeof": {}, "default": {}, "this": {},
	"base": {}, "var": {}, "vardecl": {}, "arg": {}, "typeref": {}, "anonymous": {},
	"lambda": {},
}

func (d *decoder) expression(n *yaml.Node) Expression {
	if d.err != nil {
		return &Literal{}
	}
	kind := d.str(n, "kind")
	switch kind {
	case "literal":
		t := d.typeRef(n, "type")
		v := field(n, "value")
		lit := &Literal{Typed: Typed{Type: t}}
		if v != nil {
			lit.Value = d.scalarValue(v, t)
		}
		if lit.Type == nil {
			lit.Type = literalType(lit.Value)
		}
		return lit
	case "binary":
		op, ok := binaryOps[d.str(n, "op")]
		if !ok {
			d.fail(n, "unknown binary operator %q", d.str(n, "op"))
		}
		left := d.expr(n, "left")
		right := d.expr(n, "right")
		def := left.StaticType()
		if op.IsComparison() || op == BooleanAnd || op == BooleanOr {
			def = NewNamed("System", "Boolean", true)
		}
		return &Binary{Typed: d.typed(n, def), Left: left, Operator: op, Right: right}
	case "unary":
		op, ok := unaryOps[d.str(n, "op")]
		if !ok {
			d.fail(n, "unknown unary operator %q", d.str(n, "op"))
		}
		operand := d.expr(n, "expr")
		return &Unary{Typed: d.typed(n, operand.StaticType()), Operator: op, Operand: operand}
	case "cast", "trycast":
		to := d.requireType(n, "to")
		inner := d.expr(n, "expr")
		if kind == "trycast" {
			return &TryCast{Typed: Typed{Type: to}, TargetType: to, Expression: inner}
		}
		return &Cast{Typed: Typed{Type: to}, TargetType: to, Expression: inner}
	case "cancast":
		return &CanCast{
			Typed:      Typed{Type: NewNamed("System", "Boolean", true)},
			TargetType: d.requireType(n, "to"),
			Expression: d.expr(n, "expr"),
		}
	case "assign":
		target := d.expr(n, "target")
		return &Assign{Typed: Typed{Type: target.StaticType()}, Target: target, Value: d.expr(n, "value")}
	case "field":
		f := &FieldRef{
			Name:          d.str(n, "name"),
			DeclaringType: d.declaringType(n),
			FieldType:     d.requireType(n, "type"),
		}
		target := d.optExpr(n, "target")
		f.Static = target == nil || d.flag(n, "static")
		return &FieldReference{Typed: Typed{Type: f.FieldType}, Target: target, Field: f}
	case "property":
		return d.propertyRef(n)
	case "indexer":
		target, ok := d.expr(n, "target").(*PropertyReference)
		if !ok && d.err == nil {
			d.fail(n, "indexer target must be a property reference")
		}
		var t *TypeReference
		if target != nil {
			t = target.Type
		}
		return &PropertyIndexer{Typed: Typed{Type: t}, Target: target, Indices: d.exprs(n, "indices")}
	case "event":
		e := &EventRef{
			Name:          d.str(n, "name"),
			DeclaringType: d.declaringType(n),
			EventType:     d.requireType(n, "type"),
		}
		target := d.optExpr(n, "target")
		e.Static = target == nil
		return &EventReference{Typed: Typed{Type: e.EventType}, Target: target, Event: e}
	case "methodref":
		return d.methodRef(n)
	case "invoke":
		ref := d.methodRef(n)
		return &MethodInvoke{Typed: Typed{Type: ref.Method.ReturnType}, Method: ref, Arguments: d.exprs(n, "args")}
	case "delegate":
		t := d.requireType(n, "type")
		target := d.optExpr(n, "target")
		return &DelegateCreate{
			Typed:        Typed{Type: t},
			DelegateType: t,
			Target:       target,
			Method: &MethodRef{
				Name:          d.str(n, "method"),
				DeclaringType: d.declaringType(n),
				ReturnType:    d.voidDefault(n, "returns"),
				Parameters:    d.typeList(n, "params"),
				Static:        target == nil,
			},
		}
	case "delegate_invoke":
		return &DelegateInvoke{
			Typed:      d.typed(n, NewNamed("System", "Void", true)),
			Target:     d.expr(n, "target"),
			Arguments:  d.exprs(n, "args"),
			Parameters: d.typeList(n, "params"),
		}
	case "newarray":
		elem := d.requireType(n, "element")
		dims := d.exprs(n, "dims")
		rank := len(dims)
		if rank == 0 {
			rank = 1
		}
		return &ArrayCreate{
			Typed:       Typed{Type: ArrayOf(elem, rank)},
			ElementType: elem,
			Dimensions:  dims,
			Initializer: d.exprs(n, "init"),
		}
	case "index":
		target := d.expr(n, "target")
		var elem *TypeReference
		if at := target.StaticType(); at != nil && (at.Kind == ArrayType || at.Kind == PointerType) {
			elem = at.Element
		}
		return &ArrayIndexer{Typed: d.typed(n, elem), Target: target, Indices: d.exprs(n, "indices")}
	case "new":
		t := d.requireType(n, "type")
		return &ObjectCreate{
			Typed: Typed{Type: t},
			Constructor: &MethodRef{
				Name:          ".ctor",
				DeclaringType: t,
				ReturnType:    NewNamed("System", "Void", true),
				Parameters:    d.typeList(n, "params"),
			},
			Arguments: d.exprs(n, "args"),
		}
	case "conditional":
		c := &Conditional{Condition: d.expr(n, "cond"), Then: d.expr(n, "then"), Else: d.expr(n, "else")}
		c.Typed = d.typed(n, c.Then.StaticType())
		return c
	case "coalesce":
		c := &NullCoalescing{Left: d.expr(n, "left"), Right: d.expr(n, "right")}
		c.Typed = d.typed(n, c.Left.StaticType())
		return c
	case "addressof":
		inner := d.expr(n, "expr")
		return &AddressOf{Typed: d.typed(n, PointerTo(inner.StaticType())), Expression: inner}
	case "deref":
		inner := d.expr(n, "expr")
		var elem *TypeReference
		if pt := inner.StaticType(); pt != nil && pt.Element != nil {
			elem = pt.Element
		}
		return &AddressDereference{Typed: d.typed(n, elem), Expression: inner}
	case "out":
		inner := d.expr(n, "expr")
		return &AddressOut{Typed: Typed{Type: ByRefTo(inner.StaticType())}, Expression: inner}
	case "ref":
		inner := d.expr(n, "expr")
		return &AddressReference{Typed: Typed{Type: ByRefTo(inner.StaticType())}, Expression: inner}
	case "stackalloc":
		elem := d.requireType(n, "element")
		return &StackAlloc{Typed: Typed{Type: PointerTo(elem)}, ElementType: elem, Count: d.expr(n, "count")}
	case "sizeof":
		return &SizeOf{Typed: Typed{Type: NewNamed("System", "Int32", true)}, Operand: d.requireType(n, "operand")}
	case "typeof":
		return &TypeOf{Typed: Typed{Type: NewNamed("System", "Type", false)}, Operand: d.requireType(n, "operand")}
	case "default":
		t := d.requireType(n, "operand")
		return &DefaultValue{Typed: Typed{Type: t}, Operand: t}
	case "this":
		var self *TypeReference
		if d.decl != nil {
			self = d.decl.Reference()
		}
		return &This{Typed: d.typed(n, self)}
	case "base":
		var base *TypeReference
		if d.decl != nil {
			base = d.decl.BaseType
		}
		return &Base{Typed: d.typed(n, base)}
	case "var":
		v := d.lookupVar(n)
		return &VariableReference{Typed: Typed{Type: v.Type}, Variable: v}
	case "vardecl":
		v := d.declareVar(n)
		return &VariableDeclaration{Typed: Typed{Type: v.Type}, Variable: v}
	case "arg":
		name := d.str(n, "name")
		p, ok := d.params[name]
		if !ok {
			d.fail(n, "reference to unknown parameter %q", name)
			return &Literal{}
		}
		return &ArgumentReference{Typed: Typed{Type: p.Type}, Parameter: p}
	case "typeref":
		t := d.requireType(n, "operand")
		return &TypeReferenceExpression{Typed: Typed{Type: t}, Operand: t}
	case "anonymous":
		t := d.requireType(n, "type")
		return &AnonymousMethod{
			Typed:        Typed{Type: t},
			DelegateType: t,
			Parameters:   d.parameters(n),
			ReturnType:   d.voidDefault(n, "returns"),
			Body:         d.block(field(n, "body")),
		}
	case "lambda":
		l := &Lambda{Typed: d.typed(n, nil)}
		for _, p := range d.seq(n, "params") {
			l.Parameters = append(l.Parameters, d.declareVar(p))
		}
		l.Body = d.expr(n, "body")
		return l
	}
	d.fail(n, "unknown expression kind %q", kind)
	return &Literal{}
}

func (d *decoder) declaringType(n *yaml.Node) *TypeReference {
	if t := d.typeRef(n, "on"); t != nil {
		return t
	}
	if d.decl != nil {
		return d.decl.Reference()
	}
	d.fail(n, "member reference without a declaring type")
	return nil
}

func (d *decoder) voidDefault(n *yaml.Node, key string) *TypeReference {
	if t := d.typeRef(n, key); t != nil {
		return t
	}
	return NewNamed("System", "Void", true)
}

func (d *decoder) propertyRef(n *yaml.Node) *PropertyReference {
	p := &PropertyRef{
		Name:          d.str(n, "name"),
		DeclaringType: d.declaringType(n),
		PropertyType:  d.requireType(n, "type"),
		Parameters:    d.typeList(n, "params"),
	}
	target := d.optExpr(n, "target")
	p.Static = target == nil
	return &PropertyReference{Typed: Typed{Type: p.PropertyType}, Target: target, Property: p}
}

func (d *decoder) methodRef(n *yaml.Node) *MethodReference {
	target := d.optExpr(n, "target")
	m := &MethodRef{
		Name:             d.str(n, "method"),
		DeclaringType:    d.declaringType(n),
		ReturnType:       d.voidDefault(n, "returns"),
		Parameters:       d.typeList(n, "params"),
		GenericArguments: d.typeList(n, "generic_args"),
		Static:           target == nil,
		Virtual:          d.flag(n, "virtual"),
	}
	return &MethodReference{Typed: Typed{Type: m.ReturnType}, Target: target, Method: m}
}

// literalType infers the static type of an untyped literal from its value.
func literalType(v any) *TypeReference {
	name, value := "Object", false
	switch v.(type) {
	case bool:
		name, value = "Boolean", true
	case Char:
		name, value = "Char", true
	case int8:
		name, value = "SByte", true
	case uint8:
		name, value = "Byte", true
	case int16:
		name, value = "Int16", true
	case uint16:
		name, value = "UInt16", true
	case int32:
		name, value = "Int32", true
	case uint32:
		name, value = "UInt32", true
	case int64:
		name, value = "Int64", true
	case uint64:
		name, value = "UInt64", true
	case float32:
		name, value = "Single", true
	case float64:
		name, value = "Double", true
	case Decimal:
		name, value = "Decimal", true
	case string:
		name = "String"
	}
	return NewNamed("System", name, value)
}
