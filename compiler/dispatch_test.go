package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MavenRain/CrossNet-sub002/model"
)

const dispatchModel = `
name: Dispatch
types:
  - name: Calc
    namespace: Demo
    fields:
      - {name: total, type: int, visibility: private}
    methods:
      - name: Step
        returns: int
        params: [{name: x, type: int}]
        locals: [{name: y, type: int}]
        body:
          - kind: assign
            target: {kind: var, name: y}
            value: {kind: binary, op: "*", left: {kind: arg, name: x}, right: {kind: literal, value: 2}}
          - kind: if
            cond: {kind: binary, op: ">", left: {kind: var, name: y}, right: {kind: literal, value: 10}}
            then:
              - kind: return
                expr: {kind: unary, op: "-", expr: {kind: var, name: y}}
          - kind: while
            cond: {kind: binary, op: "<", left: {kind: var, name: y}, right: {kind: literal, value: 5}}
            body:
              - {kind: unary, op: "x++", expr: {kind: var, name: y}}
          - kind: return
            expr: {kind: binary, op: "+", left: {kind: var, name: y}, right: {kind: field, target: {kind: this}, name: total, type: int}}
    properties:
      - name: Total
        type: int
        get:
          body:
            - kind: return
              expr: {kind: field, target: {kind: this}, name: total, type: int}
`

func countNodes(mod *model.Module) int {
	n := 0
	var visit func(t *model.TypeDecl)
	visit = func(t *model.TypeDecl) {
		for _, m := range methodsOf(t) {
			if m.Body == nil {
				continue
			}
			model.Inspect(m.Body, func(model.Node) bool {
				n++
				return true
			})
		}
		for _, nested := range t.NestedTypes {
			visit(nested)
		}
	}
	for _, t := range mod.Types {
		visit(t)
	}
	return n
}

func TestDispatchVisitsEveryNodeOnce(t *testing.T) {
	for _, target := range []string{"cs", "cpp"} {
		t.Run(target, func(t *testing.T) {
			mod, err := model.Decode(strings.NewReader(dispatchModel))
			require.NoError(t, err)
			nodes := countNodes(mod)
			require.Positive(t, nodes)

			g, err := NewGenerator(Options{Target: target, Granularity: GranularityModule, Logger: zaptest.NewLogger(t).Sugar()})
			require.NoError(t, err)
			out, err := g.GenerateModule(mod)
			require.NoError(t, err)

			assert.Equal(t, nodes, out.Stats.Invocations)
			assert.Equal(t, nodes, out.Stats.ScanInvocations)
			first := out.Stats.Classifications
			assert.Positive(t, first)
			assert.Less(t, first, nodes, "repeated node types hit the cache")

			out, err = g.GenerateModule(mod)
			require.NoError(t, err)
			assert.Equal(t, 2*nodes, out.Stats.Invocations)
			assert.Equal(t, first, out.Stats.Classifications, "nothing is classified twice")
		})
	}
}

func TestDispatcherCachesPerType(t *testing.T) {
	d := NewDispatcher()
	ctx := newTestContext(t)
	body := &model.Block{Statements: []model.Statement{
		&model.Break{}, &model.Continue{}, &model.Break{},
	}}
	d.ScanBody(ctx, body)

	s := d.Stats()
	assert.Equal(t, 4, s.ScanInvocations)
	assert.Equal(t, 3, s.Classifications)
	assert.Zero(t, s.Invocations)
}

func TestScanClearsStatementState(t *testing.T) {
	d := NewDispatcher()
	ctx := newTestContext(t)
	ctx.RequestRefArgument()
	d.ScanBody(ctx, &model.Block{Statements: []model.Statement{
		&model.Labeled{Label: "top", Statement: &model.Break{}},
	}})

	assert.False(t, ctx.takeRefArgument())
	assert.True(t, ctx.HasLabel("top"))
}
