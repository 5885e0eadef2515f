package compiler

import (
	"strings"

	"github.com/MavenRain/CrossNet-sub002/model"
)

// Primitive identifies the built-in types the engine reasons about.
type Primitive int

const (
	PrimNone Primitive = iota
	PrimBoolean
	PrimChar
	PrimSByte
	PrimByte
	PrimInt16
	PrimUInt16
	PrimInt32
	PrimUInt32
	PrimInt64
	PrimUInt64
	PrimIntPtr
	PrimUIntPtr
	PrimSingle
	PrimDouble
	PrimDecimal
	PrimString
	PrimObject
)

// IsNumeric reports whether p takes part in numeric widening.
func (p Primitive) IsNumeric() bool {
	return p >= PrimChar && p <= PrimDecimal
}

// IsInteger reports whether p is an integral type (char included).
func (p Primitive) IsInteger() bool {
	return p >= PrimChar && p <= PrimUIntPtr
}

// LocalType is the engine's semantic type tag. It decides conversions and is
// never used to render text. Primitive and sentinel values are package-level
// singletons; user types get one wrapper per TypeSystem.
type LocalType struct {
	Name     string
	Info     *TypeInfo
	prim     Primitive
	value    bool
	sentinel bool
}

// Primitive returns the primitive kind, PrimNone for user types and
// sentinels.
func (t *LocalType) Primitive() Primitive { return t.prim }

// IsPrimitive reports whether t is one of the built-in types.
func (t *LocalType) IsPrimitive() bool { return t.prim != PrimNone }

// IsSentinel reports whether t stands for a category rather than a type.
func (t *LocalType) IsSentinel() bool { return t.sentinel }

// IsValueType reports whether t is value-kind.
func (t *LocalType) IsValueType() bool {
	if t.Info != nil {
		return t.Info.IsValueType()
	}
	return t.value
}

func (t *LocalType) String() string { return t.Name }

// Reference returns a type reference naming t, or nil for sentinels.
func (t *LocalType) Reference() *model.TypeReference {
	if t.Info != nil {
		return t.Info.Ref
	}
	if t.sentinel {
		return nil
	}
	return model.NewNamed("System", strings.TrimPrefix(t.Name, "System."), t.value)
}

func primitive(name string, p Primitive, value bool) *LocalType {
	return &LocalType{Name: name, prim: p, value: value}
}

func sentinel(name string, value bool) *LocalType {
	return &LocalType{Name: name, value: value, sentinel: true}
}

// Primitive singletons.
var (
	LocalBoolean = primitive("System.Boolean", PrimBoolean, true)
	LocalChar    = primitive("System.Char", PrimChar, true)
	LocalSByte   = primitive("System.SByte", PrimSByte, true)
	LocalByte    = primitive("System.Byte", PrimByte, true)
	LocalInt16   = primitive("System.Int16", PrimInt16, true)
	LocalUInt16  = primitive("System.UInt16", PrimUInt16, true)
	LocalInt32   = primitive("System.Int32", PrimInt32, true)
	LocalUInt32  = primitive("System.UInt32", PrimUInt32, true)
	LocalInt64   = primitive("System.Int64", PrimInt64, true)
	LocalUInt64  = primitive("System.UInt64", PrimUInt64, true)
	LocalIntPtr  = primitive("System.IntPtr", PrimIntPtr, true)
	LocalUIntPtr = primitive("System.UIntPtr", PrimUIntPtr, true)
	LocalSingle  = primitive("System.Single", PrimSingle, true)
	LocalDouble  = primitive("System.Double", PrimDouble, true)
	LocalDecimal = primitive("System.Decimal", PrimDecimal, true)
	LocalString  = primitive("System.String", PrimString, false)
	LocalObject  = primitive("System.Object", PrimObject, false)
)

// Sentinel singletons.
var (
	LocalNull     = sentinel("<null>", false)
	LocalArray    = sentinel("<array>", false)
	LocalPointer  = sentinel("<pointer>", true)
	LocalUnknown  = sentinel("<unknown>", false)
	LocalDelegate = sentinel("<delegate>", false)
	LocalTypeOf   = sentinel("<typeof>", false)
	LocalVoid     = sentinel("<void>", true)
)

// predefined maps canonical names to the fixed singletons.
var predefined = map[string]*LocalType{
	"System.Boolean": LocalBoolean,
	"System.Char":    LocalChar,
	"System.SByte":   LocalSByte,
	"System.Byte":    LocalByte,
	"System.Int16":   LocalInt16,
	"System.UInt16":  LocalUInt16,
	"System.Int32":   LocalInt32,
	"System.UInt32":  LocalUInt32,
	"System.Int64":   LocalInt64,
	"System.UInt64":  LocalUInt64,
	"System.IntPtr":  LocalIntPtr,
	"System.UIntPtr": LocalUIntPtr,
	"System.Single":  LocalSingle,
	"System.Double":  LocalDouble,
	"System.Decimal": LocalDecimal,
	"System.String":  LocalString,
	"System.Object":  LocalObject,

	"System.Void":              LocalVoid,
	"System.Type":              LocalTypeOf,
	"System.Delegate":          LocalDelegate,
	"System.MulticastDelegate": LocalDelegate,
}

// Predefined returns the singleton registered under a canonical name.
func Predefined(name string) (*LocalType, bool) {
	t, ok := predefined[name]
	return t, ok
}
