package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspect(t *testing.T) {
	i32 := NewNamed("System", "Int32", true)
	v := &Variable{Name: "x", Type: i32}
	body := &Block{Statements: []Statement{
		&ExpressionStatement{Expression: &Assign{
			Target: &VariableDeclaration{Variable: v},
			Value:  &Literal{Typed: Typed{Type: i32}, Value: int32(1)},
		}},
		&Condition{
			Condition: &Binary{
				Left:     &VariableReference{Variable: v},
				Operator: LessThan,
				Right:    &Literal{Value: int32(3)},
			},
			Then: &Block{Statements: []Statement{&Return{}}},
		},
	}}

	var kinds []string
	Inspect(body, func(n Node) bool {
		switch n.(type) {
		case *Block:
			kinds = append(kinds, "block")
		case *ExpressionStatement:
			kinds = append(kinds, "expr")
		case *Assign:
			kinds = append(kinds, "assign")
		case *VariableDeclaration:
			kinds = append(kinds, "vardecl")
		case *Literal:
			kinds = append(kinds, "lit")
		case *Condition:
			kinds = append(kinds, "if")
		case *Binary:
			kinds = append(kinds, "binary")
		case *VariableReference:
			kinds = append(kinds, "var")
		case *Return:
			kinds = append(kinds, "return")
		}
		return true
	})
	assert.Equal(t, []string{
		"block", "expr", "assign", "vardecl", "lit",
		"if", "binary", "var", "lit", "block", "return",
	}, kinds)
}

func TestInspectPrune(t *testing.T) {
	body := &Block{Statements: []Statement{
		&Condition{
			Condition: &Literal{Value: true},
			Then:      &Block{Statements: []Statement{&Break{}}},
		},
	}}
	count := 0
	Inspect(body, func(n Node) bool {
		count++
		_, isIf := n.(*Condition)
		return !isIf
	})
	assert.Equal(t, 2, count)
}

func TestLink(t *testing.T) {
	inner := &TypeDecl{Name: "Inner"}
	outer := &TypeDecl{
		Name:        "Outer",
		Namespace:   "Demo",
		Methods:     []*MethodDecl{{Name: "M"}},
		NestedTypes: []*TypeDecl{inner},
	}
	idx := Link(&Module{Types: []*TypeDecl{outer}})

	assert.Same(t, outer, inner.DeclaringType)
	assert.Same(t, outer, outer.Methods[0].DeclaringType)
	got, ok := idx.Lookup("Demo.Outer/Inner")
	assert.True(t, ok)
	assert.Same(t, inner, got)
	assert.Equal(t, []*TypeDecl{outer, inner}, idx.Types())

	ref := &TypeReference{Kind: NamedType, Name: "Inner", DeclaringType: NewNamed("Demo", "Outer", false)}
	assert.Same(t, inner, idx.Resolve(ref))
}
