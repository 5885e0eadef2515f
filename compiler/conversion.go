package compiler

import (
	"github.com/MavenRain/CrossNet-sub002/model"
)

// ConversionKind classifies what must be inserted where two types meet.
type ConversionKind int

const (
	ConvNone ConversionKind = iota
	ConvWiden
	ConvNarrow
	ConvCast
	ConvBox
	ConvUnbox
)

func (k ConversionKind) String() string {
	switch k {
	case ConvWiden:
		return "widen"
	case ConvNarrow:
		return "narrow"
	case ConvCast:
		return "cast"
	case ConvBox:
		return "box"
	case ConvUnbox:
		return "unbox"
	default:
		return "none"
	}
}

// Conversion is a planned conversion. Token and Suffix wrap the source text
// when Kind requires an annotation; both are empty otherwise.
type Conversion struct {
	Kind   ConversionKind
	Token  string
	Suffix string
}

// Apply wraps text with the conversion tokens.
func (c Conversion) Apply(text string) string {
	if c.Token == "" && c.Suffix == "" {
		return text
	}
	return c.Token + text + c.Suffix
}

// widensFrom lists, per destination primitive, the sources it accepts
// implicitly, in precedence order.
var widensFrom = map[Primitive][]Primitive{
	PrimDouble:  {PrimSingle, PrimInt64, PrimUInt64, PrimInt32, PrimUInt32, PrimInt16, PrimUInt16, PrimChar, PrimSByte, PrimByte, PrimDecimal},
	PrimSingle:  {PrimInt64, PrimUInt64, PrimInt32, PrimUInt32, PrimInt16, PrimUInt16, PrimChar, PrimSByte, PrimByte},
	PrimDecimal: {PrimInt64, PrimUInt64, PrimInt32, PrimUInt32, PrimInt16, PrimUInt16, PrimChar, PrimSByte, PrimByte},
	PrimInt64:   {PrimInt32, PrimUInt32, PrimInt16, PrimUInt16, PrimChar, PrimSByte, PrimByte},
	PrimUInt64:  {PrimUInt32, PrimUInt16, PrimChar, PrimByte},
	PrimInt32:   {PrimInt16, PrimUInt16, PrimChar, PrimSByte, PrimByte},
	PrimUInt32:  {PrimUInt16, PrimChar, PrimByte},
	PrimInt16:   {PrimSByte, PrimByte},
	PrimUInt16:  {PrimChar, PrimByte},
}

// rankOrder breaks ties when neither branch widens into the other.
var rankOrder = []Primitive{
	PrimDouble, PrimSingle, PrimDecimal, PrimUInt64, PrimInt64, PrimUInt32,
	PrimInt32, PrimUInt16, PrimInt16, PrimChar, PrimByte, PrimSByte,
}

func widens(dst, src Primitive) bool {
	for _, p := range widensFrom[dst] {
		if p == src {
			return true
		}
	}
	return false
}

func rank(p Primitive) int {
	for i, q := range rankOrder {
		if q == p {
			return len(rankOrder) - i
		}
	}
	return 0
}

// narrowTargets are the destinations an Int32 arithmetic result reaches
// only through an explicit narrowing token.
var narrowTargets = map[Primitive]bool{
	PrimChar:   true,
	PrimSByte:  true,
	PrimByte:   true,
	PrimInt16:  true,
	PrimUInt16: true,
}

// Planner decides conversions at type boundaries.
type Planner struct {
	ts     *TypeSystem
	syntax Syntax
}

// NewPlanner creates a planner rendering tokens through syntax.
func NewPlanner(ts *TypeSystem, syntax Syntax) *Planner {
	return &Planner{ts: ts, syntax: syntax}
}

// Plan classifies the conversion of a src value into a dst position.
func (p *Planner) Plan(dst, src *LocalType) Conversion {
	if dst == nil || src == nil || dst == src {
		return Conversion{}
	}
	switch dst {
	case LocalUnknown, LocalVoid:
		return Conversion{}
	}
	switch src {
	case LocalUnknown, LocalVoid, LocalNull:
		return Conversion{}
	}
	dv, sv := dst.IsValueType(), src.IsValueType()
	switch {
	case dv && sv:
		sp, dp := src.Primitive(), dst.Primitive()
		if sp == PrimInt32 && narrowTargets[dp] {
			return Conversion{Kind: ConvNarrow}
		}
		if widens(dp, sp) {
			return Conversion{Kind: ConvWiden}
		}
		return Conversion{Kind: ConvCast}
	case !dv && !sv:
		if p.assignable(dst, src) {
			return Conversion{}
		}
		return Conversion{Kind: ConvCast}
	case sv:
		return Conversion{Kind: ConvBox}
	default:
		return Conversion{Kind: ConvUnbox}
	}
}

func (p *Planner) assignable(dst, src *LocalType) bool {
	if dst == LocalObject {
		return true
	}
	switch src {
	case LocalArray, LocalDelegate, LocalTypeOf:
		// external categories; target compilers accept them where a
		// reference of the matching shape is expected
		return dst.IsSentinel() || dst.Info == nil || dst == src
	}
	if dst.Info == nil || src.Info == nil {
		return dst.IsSentinel() || src.IsSentinel()
	}
	if dst.Info.IsDelegate() && src == LocalDelegate {
		return true
	}
	return p.ts.IsBaseType(dst.Info, src.Info)
}

// PlanTo plans the conversion of src into a position of type dstRef and
// renders its tokens.
func (p *Planner) PlanTo(dstRef *model.TypeReference, src *LocalType) Conversion {
	dst := p.ts.LocalType(dstRef)
	c := p.Plan(dst, src)
	return p.render(c, dstRef, src)
}

func (p *Planner) render(c Conversion, dstRef *model.TypeReference, src *LocalType) Conversion {
	switch c.Kind {
	case ConvNarrow, ConvCast:
		c.Token, c.Suffix = p.syntax.CastTokens(dstRef, src)
	case ConvBox:
		if dst := p.ts.LocalType(dstRef); dst != LocalObject && !dst.IsSentinel() {
			// boxing into an interface names the interface
			c.Token, c.Suffix = p.syntax.CastTokens(dstRef, src)
			break
		}
		c.Token, c.Suffix = p.syntax.BoxTokens(src)
	case ConvUnbox:
		c.Token, c.Suffix = p.syntax.UnboxTokens(dstRef)
	}
	return c
}

// Unify picks the common type of two conditional branches. The narrower
// branch is the one converted; the wider never is.
func (p *Planner) Unify(a, b *LocalType) (result *LocalType, castA, castB bool) {
	if a == b {
		return a, false, false
	}
	if a == LocalNull {
		return b, false, false
	}
	if b == LocalNull {
		return a, false, false
	}
	ap, bp := a.Primitive(), b.Primitive()
	if !ap.IsNumeric() || !bp.IsNumeric() {
		switch {
		case p.Plan(a, b).Kind == ConvNone:
			return a, false, false
		case p.Plan(b, a).Kind == ConvNone:
			return b, false, false
		}
		return a, false, true
	}
	switch {
	case widens(ap, bp):
		return a, false, true
	case widens(bp, ap):
		return b, true, false
	case rank(ap) >= rank(bp):
		return a, false, true
	default:
		return b, true, false
	}
}
