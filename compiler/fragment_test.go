package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

func TestFragmentUntypedFaults(t *testing.T) {
	f := NewFragment(TagExpr, "x + y", nil)
	assert.False(t, f.HasType())
	assert.Equal(t, "x + y", f.Text())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, errors.ErrInternal))
	}()
	f.Type()
}

func TestFragmentIsAValue(t *testing.T) {
	m := &MemberAccess{Kind: AccessField, Name: "radius"}
	f := NewFragment(TagExpr, "this.radius", LocalDouble).WithMember(m)

	g := f.Prefix("-")
	assert.Equal(t, "-this.radius", g.Text())
	assert.Nil(t, g.Member(), "rewriting text drops member metadata")
	assert.Same(t, LocalDouble, g.Type())

	assert.Equal(t, "this.radius", f.Text())
	assert.Same(t, m, f.Member())

	h := f.WithType(LocalInt32)
	assert.Same(t, LocalDouble, f.Type())
	assert.Same(t, LocalInt32, h.Type())
}

func TestFragmentTrimLast(t *testing.T) {
	f := NewFragment(TagType, "System.String*", LocalString)

	trimmed, ok := f.TrimLast('*')
	assert.True(t, ok)
	assert.Equal(t, "System.String", trimmed.Text())

	same, ok := trimmed.TrimLast('*')
	assert.False(t, ok)
	assert.Equal(t, "System.String", same.Text())

	_, ok = NewFragment(TagType, "", nil).TrimLast('*')
	assert.False(t, ok)
}

func TestWriterIndentation(t *testing.T) {
	w := NewWriter("  ")
	w.Line("class A")
	w.Line("{")
	release := w.Indent()
	w.Write("int x;\n\nint y;\n")
	inner := w.Indent()
	w.Line("z();")
	inner()
	release()
	w.Line("}")

	want := "class A\n{\n  int x;\n\n  int y;\n    z();\n}\n"
	assert.Equal(t, want, w.String())
	assert.Equal(t, len(want), w.Len())
}

func TestWriterContinuesPartialLines(t *testing.T) {
	w := NewWriter("\t")
	defer w.Indent()()
	w.Write("a")
	w.Write("b\nc")
	assert.Equal(t, "\tab\n\tc", w.String())
}
