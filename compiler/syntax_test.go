package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavenRain/CrossNet-sub002/model"
)

func testSyntax(t *testing.T, target string) Syntax {
	t.Helper()
	s, ok := NewSyntax(target, "    ")
	require.True(t, ok)
	return s
}

func TestUnknownSyntax(t *testing.T) {
	_, ok := NewSyntax("java", "\t")
	assert.False(t, ok)
}

func TestIdentEscaping(t *testing.T) {
	cs, cpp := testSyntax(t, "cs"), testSyntax(t, "cpp")

	tests := []struct {
		in, cs, cpp string
	}{
		{"radius", "radius", "radius"},
		{"class", "@class", "class_"},
		{"delete", "delete", "delete_"},
		{"string", "@string", "string"},
		{"<Value>k__BackingField", "_Value_k__BackingField", "_Value_k__BackingField"},
		{"2d", "_2d", "_2d"},
		{"", "_", "_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.cs, cs.Ident(tt.in))
			assert.Equal(t, tt.cpp, cpp.Ident(tt.in))
		})
	}
}

func TestLiterals(t *testing.T) {
	cs, cpp := testSyntax(t, "cs"), testSyntax(t, "cpp")

	tests := []struct {
		name    string
		v       any
		cs, cpp string
	}{
		{"null", nil, "null", "nullptr"},
		{"bool", true, "true", "true"},
		{"int", int32(-7), "-7", "-7"},
		{"min int", int32(math.MinInt32), "-2147483648", "(-2147483647 - 1)"},
		{"long", int64(5), "5L", "5LL"},
		{"ulong", uint64(5), "5UL", "5ULL"},
		{"uint", uint32(5), "5U", "5U"},
		{"double", 2.0, "2.0", "2.0"},
		{"float", float32(1.5), "1.5f", "1.5f"},
		{"double nan", math.NaN(), "double.NaN", "::CrossNetRuntime::NaN<double>()"},
		{"char", model.Char('A'), "'A'", "L'A'"},
		{"quote char", model.Char('\''), `'\''`, `L'\''`},
		{"string", "a\"b\n", `"a\"b\n"`, `::CrossNetRuntime::Str(L"a\"b\n")`},
		{"non-ascii", "é", `"\u00e9"`, `::CrossNetRuntime::Str(L"\u00e9")`},
		{"decimal", model.Decimal("1.25"), "1.25m", `::System::Decimal(L"1.25")`},
		{"nul before digit", "\x001", `"\01"`, `::CrossNetRuntime::Str(L"\0" L"1")`},
		{"control", "a\x01b", `"a\u0001b"`, `::CrossNetRuntime::Str(L"a\x1" L"b")`},
		{"control before non-digit", "\x01z", `"\u0001z"`, `::CrossNetRuntime::Str(L"\x1z")`},
		{"astral", "\U0001F600", `"\ud83d\ude00"`, `::CrossNetRuntime::Str(L"\U0001f600")`},
		{"control char", model.Char(1), `'\u0001'`, `L'\x1'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cs, cs.Literal(tt.v))
			assert.Equal(t, tt.cpp, cpp.Literal(tt.v))
		})
	}
}

func TestTypeNames(t *testing.T) {
	cs, cpp := testSyntax(t, "cs"), testSyntax(t, "cpp")
	parse := func(s string) *model.TypeReference {
		r, err := model.ParseTypeName(s)
		require.NoError(t, err)
		return r
	}

	tests := []struct {
		in, cs, cpp string
	}{
		{"int", "int", "std::int32_t"},
		{"string", "string", "::System::String*"},
		{"Demo.Shape", "Demo.Shape", "::Demo::Shape*"},
		{"valuetype Geo.Point", "Geo.Point", "::Geo::Point"},
		{"int[]", "int[]", "::CrossNetRuntime::Array<std::int32_t>*"},
		{"double[,]", "double[,]", "::CrossNetRuntime::MultiArray<double, 2>*"},
		{"byte*", "byte*", "std::uint8_t*"},
		{"!T", "T", "T"},
		{
			"System.Collections.Generic.List`1<System.Collections.Generic.Dictionary`2<string, int>>",
			"System.Collections.Generic.List<System.Collections.Generic.Dictionary<string, int>>",
			"::System::Collections::Generic::List<::System::Collections::Generic::Dictionary<::System::String*, std::int32_t>*>*",
		},
		{"Demo.Outer`1/Inner`1<int,string>", "Demo.Outer<int>.Inner<string>", "::Demo::Outer<std::int32_t>::Inner<::System::String*>*"},
		{"Demo.class", "Demo.@class", "::Demo::class_*"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.cs, cs.TypeName(parse(tt.in), nil))
			assert.Equal(t, tt.cpp, cpp.TypeName(parse(tt.in), nil))
		})
	}
}

func TestUnparen(t *testing.T) {
	assert.Equal(t, "a + b", unparen("(a + b)"))
	assert.Equal(t, "(a) + (b)", unparen("(a) + (b)"))
	assert.Equal(t, "a", unparen("a"))
	assert.Equal(t, `f(")")`, unparen(`(f(")"))`))
}
