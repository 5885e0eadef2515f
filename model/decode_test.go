package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

const sampleModel = `
name: Sample
types:
  - name: Color
    namespace: Demo
    kind: enum
    fields:
      - {name: value__, type: byte}
      - {name: Red, type: Demo.Color, static: true, literal: true, value: 0}
      - {name: Green, type: Demo.Color, static: true, literal: true, value: 1}
  - name: Counter
    namespace: Demo
    base: object
    fields:
      - {name: count, type: int, visibility: private}
      - {name: Changed, type: System.EventHandler, visibility: private}
    methods:
      - name: add_Changed
        special: true
        params: [{name: value, type: System.EventHandler}]
        body: []
      - name: remove_Changed
        special: true
        params: [{name: value, type: System.EventHandler}]
        body: []
      - name: Next
        returns: int
        params: [{name: step, type: int}]
        locals: [{name: tmp, type: int}]
        body:
          - kind: assign
            target: {kind: var, name: tmp}
            value:
              kind: binary
              op: "+"
              left: {kind: field, target: {kind: this}, name: count, type: int}
              right: {kind: arg, name: step}
          - kind: return
            expr: {kind: var, name: tmp}
    properties:
      - name: Count
        type: int
        get:
          body:
            - kind: return
              expr: {kind: field, target: {kind: this}, name: count, type: int}
    events:
      - {name: Changed, type: System.EventHandler, add: add_Changed, remove: remove_Changed, field: Changed}
    nested:
      - name: Node
        kind: struct
        fields:
          - {name: Value, type: Demo.Color}
`

func TestDecode(t *testing.T) {
	mod, err := Decode(strings.NewReader(sampleModel))
	require.NoError(t, err)
	require.Len(t, mod.Types, 2)
	assert.Equal(t, "Sample", mod.Name)

	color := mod.Types[0]
	assert.Equal(t, Enum, color.Kind)
	require.Len(t, color.Fields, 3)
	assert.Equal(t, int32(1), color.Fields[2].Constant)
	assert.Same(t, color, color.Fields[1].Type.Definition)
	assert.True(t, color.Fields[1].Type.ValueType, "enum references become value-kind once linked")

	counter := mod.Types[1]
	assert.Equal(t, "Demo.Counter", counter.FullName())
	require.Len(t, counter.Events, 1)
	assert.Same(t, counter.Methods[0], counter.Events[0].Adder, "named accessors share the method object")
	assert.Same(t, counter.Methods[1], counter.Events[0].Remover)
	assert.Same(t, counter.Fields[1], counter.Events[0].BackingField)

	getter := counter.Properties[0].Getter
	require.NotNil(t, getter)
	assert.Equal(t, "get_Count", getter.Name)
	assert.True(t, getter.SpecialName)
	assert.Same(t, counter, getter.DeclaringType)

	nested := counter.NestedTypes[0]
	assert.Same(t, counter, nested.DeclaringType)
	assert.Equal(t, "Demo.Counter/Node", nested.FullName())
	assert.Equal(t, "", nested.Namespace)
}

func TestDecodeLinksVariablesAndParameters(t *testing.T) {
	mod, err := Decode(strings.NewReader(sampleModel))
	require.NoError(t, err)

	next := mod.Types[1].Methods[2]
	require.NotNil(t, next.Body)
	require.Len(t, next.Body.Statements, 2)

	stmt, ok := next.Body.Statements[0].(*ExpressionStatement)
	require.True(t, ok, "bare expressions become expression statements")
	assign := stmt.Expression.(*Assign)
	target := assign.Target.(*VariableReference)
	ret := next.Body.Statements[1].(*Return)
	assert.Same(t, target.Variable, ret.Expression.(*VariableReference).Variable)

	sum := assign.Value.(*Binary)
	assert.Same(t, next.Parameters[0], sum.Right.(*ArgumentReference).Parameter)
	assert.Equal(t, "System.Int32", sum.StaticType().QualifiedName())
}

func TestDecodeFreshReferences(t *testing.T) {
	mod, err := Decode(strings.NewReader(sampleModel))
	require.NoError(t, err)

	color := mod.Types[0]
	a, b := color.Fields[1].Type, color.Fields[2].Type
	assert.NotSame(t, a, b, "each textual occurrence is its own object")
	assert.Same(t, a.Definition, b.Definition)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not a mapping", "- 1", "must be a mapping"},
		{"unknown kind", "types: [{name: X, kind: record}]", `unknown type kind "record"`},
		{"bad statement", "types: [{name: X, methods: [{name: M, body: [{kind: frob}]}]}]", `unknown statement kind "frob"`},
		{"undeclared local", "types: [{name: X, methods: [{name: M, body: [{kind: return, expr: {kind: var, name: y}}]}]}]", `undeclared local "y"`},
		{"bad type", "types: [{name: X, fields: [{name: f, type: 'List<int'}]}]", "unterminated generic arguments"},
		{"bad literal", "types: [{name: X, methods: [{name: M, body: [{kind: return, expr: {kind: literal, type: byte, value: 300}}]}]}]", "invalid 8-bit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if tt.name != "not a mapping" {
				assert.True(t, errors.IsInvalidModel(err))
			}
		})
	}
}

func TestLiteralValues(t *testing.T) {
	src := `
types:
  - name: X
    methods:
      - name: M
        body:
          - {kind: expr, expr: {kind: literal, type: char, value: A}}
          - {kind: expr, expr: {kind: literal, type: char, value: 66}}
          - {kind: expr, expr: {kind: literal, value: 7}}
          - {kind: expr, expr: {kind: literal, value: 2.5}}
          - {kind: expr, expr: {kind: literal, type: long, value: -9}}
          - {kind: expr, expr: {kind: literal, value: null}}
          - {kind: expr, expr: {kind: literal, value: hi}}
`
	mod, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	var got []any
	for _, s := range mod.Types[0].Methods[0].Body.Statements {
		got = append(got, s.(*ExpressionStatement).Expression.(*Literal).Value)
	}
	assert.Equal(t, []any{Char('A'), Char('B'), int32(7), 2.5, int64(-9), nil, "hi"}, got)
}
