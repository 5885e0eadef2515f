package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "System.Int32"},
		{"string[]", "System.String[]"},
		{"int[,]", "System.Int32[,]"},
		{"byte*", "System.Byte*"},
		{"int&", "System.Int32&"},
		{"!T", "!T"},
		{"System.Collections.Generic.List`1<int>", "System.Collections.Generic.List`1<System.Int32>"},
		{"System.Collections.Generic.Dictionary`2<string, Demo.Item[]>", "System.Collections.Generic.Dictionary`2<System.String,Demo.Item[]>"},
		{"Demo.Outer`1/Inner`1<int,string>", "Demo.Outer`1/Inner`1<System.Int32,System.String>"},
		{"valuetype Demo.Point", "Demo.Point"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseTypeName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestParseTypeNameFlags(t *testing.T) {
	r, err := ParseTypeName("valuetype Demo.Point")
	require.NoError(t, err)
	assert.True(t, r.ValueType)

	r, err = ParseTypeName("System.Guid")
	require.NoError(t, err)
	assert.True(t, r.ValueType)

	r, err = ParseTypeName("object")
	require.NoError(t, err)
	assert.False(t, r.ValueType)

	r, err = ParseTypeName("Demo.Outer`1/Inner`1<int,string>")
	require.NoError(t, err)
	require.NotNil(t, r.DeclaringType)
	assert.Equal(t, "Outer`1", r.DeclaringType.Name)
	assert.Equal(t, "Demo", r.DeclaringType.Namespace)
	assert.Equal(t, 1, r.DeclaringType.Arity())
	assert.Len(t, r.GenericArguments, 2)
}

func TestParseTypeNameErrors(t *testing.T) {
	for _, in := range []string{"", "List<int", "int[", "!", "int]"} {
		_, err := ParseTypeName(in)
		assert.Error(t, err, in)
	}
}

func TestStripArity(t *testing.T) {
	assert.Equal(t, "List", StripArity("List`1"))
	assert.Equal(t, "Plain", StripArity("Plain"))
	assert.Equal(t, 2, ArityOf("Dictionary`2"))
	assert.Equal(t, 0, ArityOf("Plain"))
}
