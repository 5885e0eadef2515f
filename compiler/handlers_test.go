package compiler

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

var expressionVariants = []model.Expression{
	&model.Literal{}, &model.Binary{}, &model.Unary{}, &model.Cast{}, &model.TryCast{},
	&model.CanCast{}, &model.Assign{}, &model.FieldReference{}, &model.PropertyReference{},
	&model.PropertyIndexer{}, &model.EventReference{}, &model.MethodReference{},
	&model.MethodInvoke{}, &model.DelegateCreate{}, &model.DelegateInvoke{},
	&model.ArrayCreate{}, &model.ArrayIndexer{}, &model.ObjectCreate{}, &model.Conditional{},
	&model.NullCoalescing{}, &model.AddressOf{}, &model.AddressDereference{},
	&model.AddressOut{}, &model.AddressReference{}, &model.StackAlloc{}, &model.SizeOf{},
	&model.TypeOf{}, &model.DefaultValue{}, &model.This{}, &model.Base{},
	&model.VariableReference{}, &model.VariableDeclaration{}, &model.ArgumentReference{},
	&model.TypeReferenceExpression{},
}

var statementVariants = []model.Statement{
	&model.Block{}, &model.ExpressionStatement{}, &model.Condition{}, &model.For{},
	&model.ForEach{}, &model.While{}, &model.Do{}, &model.Switch{}, &model.TryCatchFinally{},
	&model.Using{}, &model.Lock{}, &model.Fixed{}, &model.Throw{}, &model.Return{},
	&model.Goto{}, &model.Labeled{}, &model.Break{}, &model.Continue{},
	&model.AttachEvent{}, &model.RemoveEvent{}, &model.Comment{}, &model.MemoryCopy{},
	&model.MemoryInitialize{},
}

// emitEachNode renders every node of every body in mod on its own, each with
// a fresh context whose labels come from scanning the enclosing body.
func emitEachNode(t *testing.T, e *Engine, mod *model.Module, seen map[reflect.Type]bool) {
	var visit func(decl *model.TypeDecl)
	visit = func(decl *model.TypeDecl) {
		for _, m := range methodsOf(decl) {
			if m.Body == nil {
				continue
			}
			model.Inspect(m.Body, func(n model.Node) bool {
				ctx := NewEmissionContext(decl, m, e.log)
				e.dispatch.ScanBody(ctx, m.Body)
				var f Fragment
				switch n := n.(type) {
				case model.Expression:
					f = e.expr(ctx, n)
				case model.Statement:
					f = e.stmt(ctx, n)
				default:
					return true
				}
				assert.True(t, f.HasType(), "%T in %s.%s", n, decl.FullName(), m.Name)
				seen[reflect.TypeOf(n)] = true
				return true
			})
		}
		for _, nested := range decl.NestedTypes {
			visit(nested)
		}
	}
	for _, decl := range mod.Types {
		visit(decl)
	}
}

func TestEveryVariantCarriesAType(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)

	for _, target := range []string{"cs", "cpp"} {
		t.Run(target, func(t *testing.T) {
			syntax, ok := NewSyntax(target, "    ")
			require.True(t, ok)
			seen := make(map[reflect.Type]bool)
			for _, path := range paths {
				sc := loadScenario(t, path)
				if sc.err != "" {
					continue
				}
				mod, err := model.Decode(bytes.NewReader(sc.model))
				require.NoError(t, err, path)
				ts := NewTypeSystem(model.Link(mod), DefaultMaxGenericDepth)
				e := NewEngine(ts, syntax, "    ", zaptest.NewLogger(t).Sugar())
				emitEachNode(t, e, mod, seen)
			}

			for _, v := range expressionVariants {
				assert.True(t, seen[reflect.TypeOf(v)], "no scenario exercises %T", v)
			}
			for _, v := range statementVariants {
				assert.True(t, seen[reflect.TypeOf(v)], "no scenario exercises %T", v)
			}
		})
	}
}

func TestClosureVariantsAreNotImplemented(t *testing.T) {
	syntax, ok := NewSyntax("cs", "    ")
	require.True(t, ok)
	ts := NewTypeSystem(model.Link(&model.Module{Name: "Empty"}), DefaultMaxGenericDepth)
	e := NewEngine(ts, syntax, "    ", zaptest.NewLogger(t).Sugar())

	for _, n := range []model.Expression{&model.Lambda{}, &model.AnonymousMethod{}} {
		t.Run(reflect.TypeOf(n).Elem().Name(), func(t *testing.T) {
			ctx := newTestContext(t)
			var err error
			func() {
				defer recoverNotImplemented(&err)
				e.expr(ctx, n)
			}()
			require.Error(t, err)
			assert.True(t, errors.IsNotImplemented(err))
		})
	}
}
