package compiler

import (
	"strings"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

func statement(text string) Fragment { return NewFragment(TagStmt, text, LocalVoid) }

// unparen drops one pair of parentheses wrapping all of s. Quoted literals
// are skipped while matching.
func unparen(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s
			}
		}
	}
	if depth != 0 {
		return s
	}
	return s[1 : len(s)-1]
}

// optBlock emits b, or an empty block when the model omits it.
func (e *Engine) optBlock(ctx *EmissionContext, b *model.Block) string {
	if b == nil {
		return "{\n}\n"
	}
	return e.stmt(ctx, b).Text()
}

func (e *Engine) condText(ctx *EmissionContext, n model.Expression) string {
	return unparen(e.coerceLocal(e.expr(ctx, n), LocalBoolean).Text())
}

func (e *Engine) defaultOf(ctx *EmissionContext, ref *model.TypeReference) string {
	value := e.local(ref).IsValueType() || isGenericParameter(ref)
	return e.syntax.Default(e.typeName(ctx, ref), value)
}

func (e *Engine) block(ctx *EmissionContext, n *model.Block) Fragment {
	w := NewWriter(e.unit)
	w.Line("{")
	release := w.Indent()
	for _, s := range n.Statements {
		mark := ctx.Mark()
		w.Write(e.stmt(ctx, s).Text())
		ctx.CheckBalanced(mark)
	}
	if n == ctx.Body && endsInTry(ctx, n) {
		ctx.ApplyPatch(PatchTrailingTryReturn)
		w.Line("return " + e.defaultOf(ctx, ctx.Method.ReturnType) + ";")
	}
	release()
	w.Line("}")
	return statement(w.String())
}

func endsInTry(ctx *EmissionContext, body *model.Block) bool {
	m := ctx.Method
	if m == nil || m.ReturnsVoid() || m.IsConstructor() || len(body.Statements) == 0 {
		return false
	}
	_, ok := body.Statements[len(body.Statements)-1].(*model.TryCatchFinally)
	return ok
}

// standsAlone reports whether x renders as a valid statement once its outer
// parentheses are removed.
func standsAlone(x model.Expression) bool {
	switch x := x.(type) {
	case *model.Assign:
		return true
	case *model.Unary:
		switch x.Operator {
		case model.PreIncrement, model.PreDecrement, model.PostIncrement, model.PostDecrement:
			return true
		}
	}
	return false
}

func (e *Engine) expressionStatement(ctx *EmissionContext, n *model.ExpressionStatement) Fragment {
	text := e.expr(ctx, n.Expression).Text()
	if text == "" {
		return statement("")
	}
	if standsAlone(n.Expression) {
		text = text[1 : len(text)-1]
	}
	return statement(text + ";\n")
}

func (e *Engine) condition(ctx *EmissionContext, n *model.Condition) Fragment {
	w := NewWriter(e.unit)
	w.Line("if (" + e.condText(ctx, n.Condition) + ")")
	w.Write(e.optBlock(ctx, n.Then))
	if n.Else != nil {
		w.Line("else")
		w.Write(e.stmt(ctx, n.Else).Text())
	}
	return statement(w.String())
}

func (e *Engine) forLoop(ctx *EmissionContext, n *model.For) Fragment {
	var init, cond, incr string
	if n.Initializer != nil {
		init = trimStatement(e.stmt(ctx, n.Initializer).Text())
	}
	if n.Condition != nil {
		cond = e.condText(ctx, n.Condition)
	}
	if n.Increment != nil {
		incr = trimStatement(e.stmt(ctx, n.Increment).Text())
	}
	return statement(block(e.unit, "for ("+init+"; "+cond+"; "+incr+")", e.optBlock(ctx, n.Body)))
}

func (e *Engine) forEach(ctx *EmissionContext, n *model.ForEach) Fragment {
	if n.Variable == nil || n.Variable.Variable == nil {
		panic(errors.Internalf("foreach without iteration variable"))
	}
	decl := e.expr(ctx, n.Variable)
	v := n.Variable.Variable
	coll := e.expr(ctx, n.Collection)
	typ := strings.TrimSuffix(decl.Text(), " "+e.syntax.Ident(v.Name))
	return statement(e.syntax.ForEach(typ, e.syntax.Ident(v.Name), coll.Text(), e.optBlock(ctx, n.Body)))
}

func (e *Engine) whileLoop(ctx *EmissionContext, n *model.While) Fragment {
	return statement(block(e.unit, "while ("+e.condText(ctx, n.Condition)+")", e.optBlock(ctx, n.Body)))
}

func (e *Engine) doLoop(ctx *EmissionContext, n *model.Do) Fragment {
	body := e.optBlock(ctx, n.Body)
	return statement("do\n" + body + "while (" + e.condText(ctx, n.Condition) + ");\n")
}

func endsInJump(b *model.Block) bool {
	if b == nil || len(b.Statements) == 0 {
		return false
	}
	switch b.Statements[len(b.Statements)-1].(type) {
	case *model.Break, *model.Continue, *model.Return, *model.Throw, *model.Goto:
		return true
	}
	return false
}

func (e *Engine) switchStatement(ctx *EmissionContext, n *model.Switch) Fragment {
	x := e.expr(ctx, n.Expression)
	release := ctx.PushSwitchType(x.Type())
	defer release()
	w := NewWriter(e.unit)
	w.Line("switch (" + unparen(x.Text()) + ")")
	w.Line("{")
	outer := w.Indent()
	for _, c := range n.Cases {
		for _, l := range c.Labels {
			w.Line("case " + e.coerceLocal(e.expr(ctx, l), ctx.SwitchType()).Text() + ":")
		}
		if c.Default {
			w.Line("default:")
		}
		w.Write(e.optBlock(ctx, c.Body))
		if !endsInJump(c.Body) {
			w.Line("break;")
		}
	}
	outer()
	w.Line("}")
	return statement(w.String())
}

func (e *Engine) tryCatchFinally(ctx *EmissionContext, n *model.TryCatchFinally) Fragment {
	t := &TryText{Try: e.optBlock(ctx, n.Try)}
	for _, c := range n.Catches {
		ct := CatchText{Body: e.optBlock(ctx, c.Body)}
		if c.Type != nil {
			ct.Type = e.typeName(ctx, c.Type)
		}
		if c.Variable != nil {
			ct.Var = e.syntax.Ident(c.Variable.Name)
		}
		t.Catches = append(t.Catches, ct)
	}
	if n.Fault != nil {
		t.Fault = e.stmt(ctx, n.Fault).Text()
	}
	if n.Finally != nil {
		t.Finally = e.stmt(ctx, n.Finally).Text()
		t.Temp = ctx.TempName("__finally")
	}
	return statement(e.syntax.Try(t))
}

func (e *Engine) using(ctx *EmissionContext, n *model.Using) Fragment {
	x := e.expr(ctx, n.Expression)
	return statement(e.syntax.Using(x.Text(), ctx.TempName("__using"), e.optBlock(ctx, n.Body)))
}

func (e *Engine) lock(ctx *EmissionContext, n *model.Lock) Fragment {
	x := e.expr(ctx, n.Expression)
	return statement(e.syntax.Lock(x.Text(), ctx.TempName("__lock"), e.optBlock(ctx, n.Body)))
}

func (e *Engine) fixed(ctx *EmissionContext, n *model.Fixed) Fragment {
	ctx.MarkUnsafe()
	x := e.expr(ctx, n.Expression)
	v := n.Variable
	if v == nil {
		panic(errors.Internalf("fixed statement without pinned variable"))
	}
	typ := e.typeName(ctx, v.Type)
	return statement(e.syntax.Fixed(typ, e.syntax.Ident(v.Name), x.Text(), ctx.TempName("__pin"), e.optBlock(ctx, n.Body)))
}

func (e *Engine) throw(ctx *EmissionContext, n *model.Throw) Fragment {
	if n.Expression == nil {
		return statement("throw;\n")
	}
	return statement("throw " + e.expr(ctx, n.Expression).Text() + ";\n")
}

func (e *Engine) returnStatement(ctx *EmissionContext, n *model.Return) Fragment {
	if n.Expression == nil {
		return statement("return;\n")
	}
	f := e.expr(ctx, n.Expression)
	if ctx.Method != nil && !ctx.Method.ReturnsVoid() {
		f = e.coerce(f, ctx.Method.ReturnType)
	}
	return statement("return " + f.Text() + ";\n")
}

func (e *Engine) gotoStatement(ctx *EmissionContext, n *model.Goto) Fragment {
	if !ctx.HasLabel(n.Label) {
		ctx.ApplyPatch(PatchUndefinedGotoContinue, "label", n.Label)
		return statement("continue;\n")
	}
	return statement("goto " + e.syntax.Ident(n.Label) + ";\n")
}

func (e *Engine) labeled(ctx *EmissionContext, n *model.Labeled) Fragment {
	text := e.syntax.Ident(n.Label) + ":\n"
	if n.Statement == nil {
		return statement(text + ";\n")
	}
	return statement(text + e.stmt(ctx, n.Statement).Text())
}

func (e *Engine) breakStatement(*EmissionContext, *model.Break) Fragment {
	return statement("break;\n")
}

func (e *Engine) continueStatement(*EmissionContext, *model.Continue) Fragment {
	return statement("continue;\n")
}

func (e *Engine) eventAccess(ctx *EmissionContext, ev *model.EventReference, listener model.Expression, op AccessOp) Fragment {
	if ev == nil {
		panic(errors.Internalf("event statement without event"))
	}
	target := e.expr(ctx, ev)
	l := e.expr(ctx, listener)
	return statement(e.syntax.Access(target.Member(), op, l.Text()) + ";\n")
}

func (e *Engine) attachEvent(ctx *EmissionContext, n *model.AttachEvent) Fragment {
	return e.eventAccess(ctx, n.Event, n.Listener, OpAdd)
}

func (e *Engine) removeEvent(ctx *EmissionContext, n *model.RemoveEvent) Fragment {
	return e.eventAccess(ctx, n.Event, n.Listener, OpRemove)
}

func (e *Engine) comment(_ *EmissionContext, n *model.Comment) Fragment {
	var sb strings.Builder
	for _, line := range strings.Split(n.Text, "\n") {
		sb.WriteString("// " + line + "\n")
	}
	return statement(sb.String())
}

func (e *Engine) memoryCopy(ctx *EmissionContext, n *model.MemoryCopy) Fragment {
	ctx.MarkUnsafe()
	dst := e.expr(ctx, n.Destination)
	src := e.expr(ctx, n.Source)
	length := e.expr(ctx, n.Length)
	return statement(e.syntax.MemoryCopy(dst.Text(), src.Text(), length.Text()) + ";\n")
}

func (e *Engine) memoryInitialize(ctx *EmissionContext, n *model.MemoryInitialize) Fragment {
	ctx.MarkUnsafe()
	dst := e.expr(ctx, n.Destination)
	value := e.expr(ctx, n.Value)
	length := e.expr(ctx, n.Length)
	return statement(e.syntax.MemoryInit(dst.Text(), value.Text(), length.Text()) + ";\n")
}
