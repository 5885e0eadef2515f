package compiler

import (
	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// ScanBody runs the scan pass over body before it is emitted. It records the
// labels the body defines and whether it contains closures, and clears
// per-statement state at every statement it visits.
func (d *Dispatcher) ScanBody(ctx *EmissionContext, body *model.Block) {
	if body == nil {
		return
	}
	model.Inspect(body, func(n model.Node) bool {
		d.Scan(ctx, n)
		return true
	})
}

func scanNothing(*EmissionContext, model.Node) {}

func scanStatement(ctx *EmissionContext, _ model.Node) { ctx.ResetStatement() }

func scanLabeled(ctx *EmissionContext, n model.Node) {
	ctx.ResetStatement()
	ctx.DefineLabel(n.(*model.Labeled).Label)
}

func scanClosure(ctx *EmissionContext, _ model.Node) { ctx.HasClosure = true }

func classifyScanExpr(n model.Node) scanHandler {
	switch n.(type) {
	case *model.AnonymousMethod, *model.Lambda:
		return scanClosure
	case *model.Literal, *model.Binary, *model.Unary, *model.Cast,
		*model.TryCast, *model.CanCast, *model.Assign, *model.FieldReference,
		*model.PropertyReference, *model.PropertyIndexer, *model.EventReference,
		*model.MethodReference, *model.MethodInvoke, *model.DelegateCreate,
		*model.DelegateInvoke, *model.ArrayCreate, *model.ArrayIndexer,
		*model.ObjectCreate, *model.Conditional, *model.NullCoalescing,
		*model.AddressOf, *model.AddressDereference, *model.AddressOut,
		*model.AddressReference, *model.StackAlloc, *model.SizeOf,
		*model.TypeOf, *model.DefaultValue, *model.This, *model.Base,
		*model.VariableReference, *model.VariableDeclaration,
		*model.ArgumentReference, *model.TypeReferenceExpression:
		return scanNothing
	}
	panic(errors.AssertionFailedf("no expression scan handler for %T", n))
}

func classifyScanStmt(n model.Node) scanHandler {
	switch n.(type) {
	case *model.Labeled:
		return scanLabeled
	case *model.Block, *model.ExpressionStatement, *model.Condition,
		*model.For, *model.ForEach, *model.While, *model.Do, *model.Switch,
		*model.TryCatchFinally, *model.Using, *model.Lock, *model.Fixed,
		*model.Throw, *model.Return, *model.Goto, *model.Break,
		*model.Continue, *model.AttachEvent, *model.RemoveEvent,
		*model.Comment, *model.MemoryCopy, *model.MemoryInitialize:
		return scanStatement
	}
	panic(errors.AssertionFailedf("no statement scan handler for %T", n))
}
