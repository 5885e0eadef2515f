package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavenRain/CrossNet-sub002/model"
)

func newTestTypeSystem(types ...*model.TypeDecl) *TypeSystem {
	return NewTypeSystem(model.Link(&model.Module{Name: "Test", Types: types}), 8)
}

func TestPredefinedLocalTypesAreSingletons(t *testing.T) {
	ts := newTestTypeSystem()
	for name, want := range predefined {
		got, ok := Predefined(name)
		require.True(t, ok, name)
		assert.Same(t, want, got, name)
	}

	// every textual occurrence of a primitive is a distinct reference
	a := model.NewNamed("System", "Int32", true)
	b := model.NewNamed("System", "Int32", true)
	require.NotSame(t, a, b)
	assert.Same(t, LocalInt32, ts.LocalType(a))
	assert.Same(t, LocalInt32, ts.LocalType(b))
	assert.Same(t, LocalString, ts.LocalType(model.NewNamed("System", "String", false)))
	assert.Same(t, LocalVoid, ts.LocalType(model.NewNamed("System", "Void", true)))
}

func TestLocalTypeCategories(t *testing.T) {
	ts := newTestTypeSystem()
	i := model.NewNamed("System", "Int32", true)

	assert.Same(t, LocalArray, ts.LocalType(model.ArrayOf(i, 1)))
	assert.Same(t, LocalPointer, ts.LocalType(model.PointerTo(i)))
	assert.Same(t, LocalInt32, ts.LocalType(model.ByRefTo(i)), "by-ref is transparent")
	assert.Same(t, LocalUnknown, ts.LocalType(nil))
}

func TestCanonicalUniqueness(t *testing.T) {
	point := &model.TypeDecl{Name: "Point", Namespace: "Geo", Kind: model.Struct}
	ts := newTestTypeSystem(point)

	a := model.NewNamed("Geo", "Point", false)
	b := model.NewNamed("Geo", "Point", false)
	ta, tb := ts.Canonical(a), ts.Canonical(b)
	assert.Same(t, ta, tb)
	assert.Same(t, point, ta.Decl)
	assert.True(t, ta.IsValueType(), "the declaration decides value-kind")

	list := func(arg string) *model.TypeReference {
		return model.NewNamed("System.Collections.Generic", "List`1", false).
			Instantiate(model.NewNamed("System", arg, true))
	}
	assert.Same(t, ts.Canonical(list("Int32")), ts.Canonical(list("Int32")))
	assert.NotSame(t, ts.Canonical(list("Int32")), ts.Canonical(list("Int64")))

	la, lb := ts.LocalType(a), ts.LocalType(b)
	assert.Same(t, la, lb)
	assert.True(t, la.IsValueType())
}

func TestGenericDepthBound(t *testing.T) {
	ts := NewTypeSystem(nil, 2)
	ref := model.NewNamed("System", "Int32", true)
	for i := 0; i < 6; i++ {
		ref = model.NewNamed("Demo", "Box`1", false).Instantiate(ref)
	}

	name := ts.Name(ref)
	assert.Equal(t, "Demo.Box`1<Demo.Box`1<Demo.Box`1<Demo.Box`1>>>", name)
	assert.Positive(t, ts.Truncations())
	assert.Same(t, ts.Canonical(ref), ts.Canonical(ref))
}

func TestIsBaseType(t *testing.T) {
	iface := &model.TypeDecl{Name: "IShape", Namespace: "Geo", Kind: model.Interface}
	shape := &model.TypeDecl{
		Name:       "Shape",
		Namespace:  "Geo",
		Interfaces: []*model.TypeReference{model.NewNamed("Geo", "IShape", false)},
	}
	circle := &model.TypeDecl{Name: "Circle", Namespace: "Geo", BaseType: model.NewNamed("Geo", "Shape", false)}
	ts := newTestTypeSystem(iface, shape, circle)

	ti := func(name string) *TypeInfo { return ts.Canonical(model.NewNamed("Geo", name, false)) }
	object := ts.Canonical(model.NewNamed("System", "Object", false))

	assert.True(t, ts.IsBaseType(ti("Shape"), ti("Circle")))
	assert.True(t, ts.IsBaseType(ti("IShape"), ti("Circle")), "interfaces are inherited")
	assert.True(t, ts.IsBaseType(object, ti("Circle")))
	assert.False(t, ts.IsBaseType(ti("Circle"), ti("Shape")))

	assert.Len(t, ti("Circle").Interfaces(), 1)
	assert.Empty(t, ti("Circle").ExclusiveInterfaces(), "IShape is introduced by Shape")
	assert.Len(t, ti("Shape").ExclusiveInterfaces(), 1)
}
