package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavenRain/CrossNet-sub002/model"
)

func newTestPlanner(t *testing.T, target string, types ...*model.TypeDecl) (*Planner, *TypeSystem) {
	t.Helper()
	ts := newTestTypeSystem(types...)
	syntax, ok := NewSyntax(target, "    ")
	require.True(t, ok)
	return NewPlanner(ts, syntax), ts
}

func TestPlanIdentity(t *testing.T) {
	shape := &model.TypeDecl{Name: "Shape", Namespace: "Geo"}
	p, ts := newTestPlanner(t, "cs", shape)

	all := []*LocalType{ts.LocalType(model.NewNamed("Geo", "Shape", false))}
	for _, lt := range predefined {
		all = append(all, lt)
	}
	all = append(all, LocalNull, LocalArray, LocalPointer, LocalUnknown, LocalDelegate, LocalTypeOf)
	for _, lt := range all {
		c := p.Plan(lt, lt)
		assert.Equal(t, ConvNone, c.Kind, lt.Name)
		assert.Equal(t, "x", c.Apply("x"), lt.Name)
	}
}

func TestPlanKinds(t *testing.T) {
	shape := &model.TypeDecl{Name: "Shape", Namespace: "Geo"}
	circle := &model.TypeDecl{Name: "Circle", Namespace: "Geo", BaseType: model.NewNamed("Geo", "Shape", false)}
	p, ts := newTestPlanner(t, "cs", shape, circle)
	named := func(name string) *LocalType { return ts.LocalType(model.NewNamed("Geo", name, false)) }

	tests := []struct {
		name     string
		dst, src *LocalType
		want     ConversionKind
	}{
		{"int to long widens", LocalInt64, LocalInt32, ConvWiden},
		{"int to double widens", LocalDouble, LocalInt32, ConvWiden},
		{"long to int casts", LocalInt32, LocalInt64, ConvCast},
		{"int result into byte narrows", LocalByte, LocalInt32, ConvNarrow},
		{"int result into char narrows", LocalChar, LocalInt32, ConvNarrow},
		{"derived to base is free", named("Shape"), named("Circle"), ConvNone},
		{"base to derived casts", named("Circle"), named("Shape"), ConvCast},
		{"anything to object is free", LocalObject, named("Circle"), ConvNone},
		{"value to object boxes", LocalObject, LocalInt32, ConvBox},
		{"object to value unboxes", LocalInt32, LocalObject, ConvUnbox},
		{"null needs nothing", named("Shape"), LocalNull, ConvNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Plan(tt.dst, tt.src).Kind)
		})
	}
}

func TestPlanToTokens(t *testing.T) {
	int32Ref := model.NewNamed("System", "Int32", true)
	byteRef := model.NewNamed("System", "Byte", true)
	objectRef := model.NewNamed("System", "Object", false)

	cs, _ := newTestPlanner(t, "cs")
	assert.Equal(t, "((byte)(x))", cs.PlanTo(byteRef, LocalInt32).Apply("x"))
	assert.Equal(t, "((object)(x))", cs.PlanTo(objectRef, LocalInt32).Apply("x"))
	assert.Equal(t, "((int)(x))", cs.PlanTo(int32Ref, LocalObject).Apply("x"))
	assert.Equal(t, "x", cs.PlanTo(model.NewNamed("System", "Int64", true), LocalInt32).Apply("x"))

	cpp, _ := newTestPlanner(t, "cpp")
	assert.Equal(t, "static_cast<std::uint8_t>(x)", cpp.PlanTo(byteRef, LocalInt32).Apply("x"))
	assert.Equal(t, "::CrossNetRuntime::Box<std::int32_t>(x)", cpp.PlanTo(objectRef, LocalInt32).Apply("x"))
	assert.Equal(t, "::CrossNetRuntime::Unbox<std::int32_t>(x)", cpp.PlanTo(int32Ref, LocalObject).Apply("x"))
}

func TestUnifyCastsNarrowerBranch(t *testing.T) {
	p, _ := newTestPlanner(t, "cs")

	pairs := []struct {
		wide, narrow *LocalType
	}{
		{LocalDouble, LocalInt32},
		{LocalDouble, LocalSingle},
		{LocalInt64, LocalInt32},
		{LocalInt32, LocalChar},
		{LocalDecimal, LocalInt64},
		{LocalUInt32, LocalInt32},
	}
	for _, pr := range pairs {
		t.Run(pr.wide.Name+"/"+pr.narrow.Name, func(t *testing.T) {
			result, castA, castB := p.Unify(pr.wide, pr.narrow)
			assert.Same(t, pr.wide, result)
			assert.False(t, castA)
			assert.True(t, castB)

			result, castA, castB = p.Unify(pr.narrow, pr.wide)
			assert.Same(t, pr.wide, result, "branch order does not matter")
			assert.True(t, castA)
			assert.False(t, castB)
		})
	}

	result, castA, castB := p.Unify(LocalNull, LocalString)
	assert.Same(t, LocalString, result)
	assert.False(t, castA || castB)
}
