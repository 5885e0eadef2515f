package compiler

import (
	"reflect"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

type exprHandler func(*Engine, *EmissionContext, model.Expression) Fragment
type stmtHandler func(*Engine, *EmissionContext, model.Statement) Fragment
type scanHandler func(*EmissionContext, model.Node)

// Stats counts dispatcher activity. Invocations counts emit handler calls;
// Classifications counts cache misses across all four tables.
type Stats struct {
	Invocations     int
	Classifications int
	ScanInvocations int
}

// Dispatcher routes nodes to their handlers. The handler for a concrete node
// type is classified once and then served from a per-table cache.
type Dispatcher struct {
	exprs     map[reflect.Type]exprHandler
	stmts     map[reflect.Type]stmtHandler
	scanExprs map[reflect.Type]scanHandler
	scanStmts map[reflect.Type]scanHandler
	stats     Stats
}

// NewDispatcher creates a dispatcher with empty caches.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		exprs:     make(map[reflect.Type]exprHandler),
		stmts:     make(map[reflect.Type]stmtHandler),
		scanExprs: make(map[reflect.Type]scanHandler),
		scanStmts: make(map[reflect.Type]scanHandler),
	}
}

// Stats returns a snapshot of the counters.
func (d *Dispatcher) Stats() Stats { return d.stats }

// Expr emits an expression.
func (d *Dispatcher) Expr(e *Engine, ctx *EmissionContext, n model.Expression) Fragment {
	t := reflect.TypeOf(n)
	h, ok := d.exprs[t]
	if !ok {
		h = classifyExpr(n)
		d.exprs[t] = h
		d.stats.Classifications++
	}
	d.stats.Invocations++
	return h(e, ctx, n)
}

// Stmt emits a statement.
func (d *Dispatcher) Stmt(e *Engine, ctx *EmissionContext, n model.Statement) Fragment {
	t := reflect.TypeOf(n)
	h, ok := d.stmts[t]
	if !ok {
		h = classifyStmt(n)
		d.stmts[t] = h
		d.stats.Classifications++
	}
	d.stats.Invocations++
	return h(e, ctx, n)
}

// Scan runs the pre-emission scan handler of n.
func (d *Dispatcher) Scan(ctx *EmissionContext, n model.Node) {
	table, classify := d.scanStmts, classifyScanStmt
	if _, ok := n.(model.Expression); ok {
		table, classify = d.scanExprs, classifyScanExpr
	}
	t := reflect.TypeOf(n)
	h, ok := table[t]
	if !ok {
		h = classify(n)
		table[t] = h
		d.stats.Classifications++
	}
	d.stats.ScanInvocations++
	h(ctx, n)
}

func exprOf[T model.Expression](h func(*Engine, *EmissionContext, T) Fragment) exprHandler {
	return func(e *Engine, ctx *EmissionContext, n model.Expression) Fragment {
		return h(e, ctx, n.(T))
	}
}

func stmtOf[T model.Statement](h func(*Engine, *EmissionContext, T) Fragment) stmtHandler {
	return func(e *Engine, ctx *EmissionContext, n model.Statement) Fragment {
		return h(e, ctx, n.(T))
	}
}

func classifyExpr(n model.Expression) exprHandler {
	switch n.(type) {
	case *model.Literal:
		return exprOf((*Engine).literal)
	case *model.Binary:
		return exprOf((*Engine).binary)
	case *model.Unary:
		return exprOf((*Engine).unary)
	case *model.Cast:
		return exprOf((*Engine).cast)
	case *model.TryCast:
		return exprOf((*Engine).tryCast)
	case *model.CanCast:
		return exprOf((*Engine).canCast)
	case *model.Assign:
		return exprOf((*Engine).assign)
	case *model.FieldReference:
		return exprOf((*Engine).fieldReference)
	case *model.PropertyReference:
		return exprOf((*Engine).propertyReference)
	case *model.PropertyIndexer:
		return exprOf((*Engine).propertyIndexer)
	case *model.EventReference:
		return exprOf((*Engine).eventReference)
	case *model.MethodReference:
		return exprOf((*Engine).methodReference)
	case *model.MethodInvoke:
		return exprOf((*Engine).methodInvoke)
	case *model.DelegateCreate:
		return exprOf((*Engine).delegateCreate)
	case *model.DelegateInvoke:
		return exprOf((*Engine).delegateInvoke)
	case *model.ArrayCreate:
		return exprOf((*Engine).arrayCreate)
	case *model.ArrayIndexer:
		return exprOf((*Engine).arrayIndexer)
	case *model.ObjectCreate:
		return exprOf((*Engine).objectCreate)
	case *model.Conditional:
		return exprOf((*Engine).conditional)
	case *model.NullCoalescing:
		return exprOf((*Engine).nullCoalescing)
	case *model.AddressOf:
		return exprOf((*Engine).addressOf)
	case *model.AddressDereference:
		return exprOf((*Engine).addressDereference)
	case *model.AddressOut:
		return exprOf((*Engine).addressOut)
	case *model.AddressReference:
		return exprOf((*Engine).addressReference)
	case *model.StackAlloc:
		return exprOf((*Engine).stackAlloc)
	case *model.SizeOf:
		return exprOf((*Engine).sizeOf)
	case *model.TypeOf:
		return exprOf((*Engine).typeOf)
	case *model.DefaultValue:
		return exprOf((*Engine).defaultValue)
	case *model.This:
		return exprOf((*Engine).this)
	case *model.Base:
		return exprOf((*Engine).base)
	case *model.VariableReference:
		return exprOf((*Engine).variableReference)
	case *model.VariableDeclaration:
		return exprOf((*Engine).variableDeclaration)
	case *model.ArgumentReference:
		return exprOf((*Engine).argumentReference)
	case *model.TypeReferenceExpression:
		return exprOf((*Engine).typeReferenceExpression)
	case *model.AnonymousMethod:
		return exprOf((*Engine).anonymousMethod)
	case *model.Lambda:
		return exprOf((*Engine).lambda)
	}
	panic(errors.AssertionFailedf("no expression handler for %T", n))
}

func classifyStmt(n model.Statement) stmtHandler {
	switch n.(type) {
	case *model.Block:
		return stmtOf((*Engine).block)
	case *model.ExpressionStatement:
		return stmtOf((*Engine).expressionStatement)
	case *model.Condition:
		return stmtOf((*Engine).condition)
	case *model.For:
		return stmtOf((*Engine).forLoop)
	case *model.ForEach:
		return stmtOf((*Engine).forEach)
	case *model.While:
		return stmtOf((*Engine).whileLoop)
	case *model.Do:
		return stmtOf((*Engine).doLoop)
	case *model.Switch:
		return stmtOf((*Engine).switchStatement)
	case *model.TryCatchFinally:
		return stmtOf((*Engine).tryCatchFinally)
	case *model.Using:
		return stmtOf((*Engine).using)
	case *model.Lock:
		return stmtOf((*Engine).lock)
	case *model.Fixed:
		return stmtOf((*Engine).fixed)
	case *model.Throw:
		return stmtOf((*Engine).throw)
	case *model.Return:
		return stmtOf((*Engine).returnStatement)
	case *model.Goto:
		return stmtOf((*Engine).gotoStatement)
	case *model.Labeled:
		return stmtOf((*Engine).labeled)
	case *model.Break:
		return stmtOf((*Engine).breakStatement)
	case *model.Continue:
		return stmtOf((*Engine).continueStatement)
	case *model.AttachEvent:
		return stmtOf((*Engine).attachEvent)
	case *model.RemoveEvent:
		return stmtOf((*Engine).removeEvent)
	case *model.Comment:
		return stmtOf((*Engine).comment)
	case *model.MemoryCopy:
		return stmtOf((*Engine).memoryCopy)
	case *model.MemoryInitialize:
		return stmtOf((*Engine).memoryInitialize)
	}
	panic(errors.AssertionFailedf("no statement handler for %T", n))
}
