package compiler

import (
	"strings"

	"go.uber.org/zap"

	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// Engine holds what the node handlers share across one generation run.
type Engine struct {
	ts       *TypeSystem
	planner  *Planner
	syntax   Syntax
	dispatch *Dispatcher
	unit     string
	log      *zap.SugaredLogger
}

// NewEngine wires the handlers to a type system and a target syntax. unit is
// one indentation step.
func NewEngine(ts *TypeSystem, syntax Syntax, unit string, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = logger.Logger
	}
	return &Engine{
		ts:       ts,
		planner:  NewPlanner(ts, syntax),
		syntax:   syntax,
		dispatch: NewDispatcher(),
		unit:     unit,
		log:      log,
	}
}

// Stats returns the dispatcher counters.
func (e *Engine) Stats() Stats { return e.dispatch.Stats() }

// EmitBody scans and emits the body of ctx.Method. The returned text is the
// braced block.
func (e *Engine) EmitBody(ctx *EmissionContext) string {
	if ctx.Body == nil {
		return ""
	}
	e.dispatch.ScanBody(ctx, ctx.Body)
	if ctx.HasClosure {
		panic(notImplemented(ctx, "closure"))
	}
	return e.stmt(ctx, ctx.Body).Text()
}

func (e *Engine) expr(ctx *EmissionContext, n model.Expression) Fragment {
	return e.dispatch.Expr(e, ctx, n)
}

func (e *Engine) stmt(ctx *EmissionContext, n model.Statement) Fragment {
	return e.dispatch.Stmt(e, ctx, n)
}

func (e *Engine) local(ref *model.TypeReference) *LocalType { return e.ts.LocalType(ref) }

func (e *Engine) typeName(ctx *EmissionContext, ref *model.TypeReference) string {
	return e.syntax.TypeName(ref, ctx.Generics())
}

// bareName spells ref without the reference marker, as needed after new,
// before :: and inside template arguments naming the class itself.
func (e *Engine) bareName(ctx *EmissionContext, ref *model.TypeReference) string {
	f, _ := NewFragment(TagType, e.typeName(ctx, ref), nil).TrimLast(e.syntax.ReferenceMarker())
	return f.Text()
}

func stripByRef(ref *model.TypeReference) *model.TypeReference {
	if ref != nil && ref.Kind == model.ByRefType {
		return ref.Element
	}
	return ref
}

func isGenericParameter(ref *model.TypeReference) bool {
	return ref != nil && ref.Kind == model.GenericParameterType
}

// coerce converts f for a position of type dstRef.
func (e *Engine) coerce(f Fragment, dstRef *model.TypeReference) Fragment {
	dstRef = stripByRef(dstRef)
	if dstRef == nil || isGenericParameter(dstRef) {
		return f
	}
	src := f.Type()
	if src.Info != nil && isGenericParameter(src.Info.Ref) {
		return f
	}
	dst := e.local(dstRef)
	if dst == LocalBoolean && src.Primitive().IsInteger() {
		return f.WithText("(" + f.Text() + " != 0)").WithType(LocalBoolean)
	}
	c := e.planner.PlanTo(dstRef, src)
	switch c.Kind {
	case ConvNone:
		return f
	case ConvWiden:
		return f.WithType(dst)
	}
	return f.WithText(c.Apply(f.Text())).WithType(dst)
}

// coerceLocal converts f to dst, which must name a real type.
func (e *Engine) coerceLocal(f Fragment, dst *LocalType) Fragment {
	ref := dst.Reference()
	if ref == nil {
		return f
	}
	return e.coerce(f, ref)
}

// unifyTo converts the narrower branch of a conditional to dst. Unlike
// coerce it spells implicit widenings too, so both branches carry the same
// type in the text.
func (e *Engine) unifyTo(f Fragment, dst *LocalType) Fragment {
	ref := dst.Reference()
	src := f.Type()
	if ref == nil || src == dst {
		return f
	}
	if c := e.planner.PlanTo(ref, src); c.Kind == ConvWiden {
		tok, suf := e.syntax.CastTokens(ref, src)
		return f.WithText(tok + f.Text() + suf).WithType(dst)
	}
	return e.coerce(f, ref)
}

// modeOf decides how members are reached from the target n rendered as f.
func (e *Engine) modeOf(n model.Expression, f Fragment) AccessMode {
	switch n.(type) {
	case *model.Base:
		return ModeBase
	case *model.TypeReferenceExpression:
		return ModeStatic
	case *model.This:
		return ModeReference
	}
	t := f.Type()
	switch {
	case t == LocalPointer:
		return ModePointer
	case t.IsValueType():
		return ModeValue
	}
	return ModeReference
}

// resolveMethod finds the declaration ref denotes when it is declared in the
// module being generated.
func (e *Engine) resolveMethod(ref *model.MethodRef) *model.MethodDecl {
	decl := e.ts.Resolve(ref.DeclaringType)
	if decl == nil {
		return nil
	}
	for _, m := range decl.Methods {
		if m.Name != ref.Name || len(m.Parameters) != len(ref.Parameters) {
			continue
		}
		match := true
		for i, p := range m.Parameters {
			if e.ts.Name(p.Type) != e.ts.Name(ref.Parameters[i]) {
				match = false
				break
			}
		}
		if match {
			return m
		}
	}
	return nil
}

func trimStatement(s string) string {
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), ";")
}
