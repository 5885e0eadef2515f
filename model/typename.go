package model

import (
	"strings"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

// keyword aliases accepted in type strings, with their value-kind flag
var typeAliases = map[string]struct {
	name  string
	value bool
}{
	"void":    {"Void", true},
	"bool":    {"Boolean", true},
	"char":    {"Char", true},
	"sbyte":   {"SByte", true},
	"byte":    {"Byte", true},
	"short":   {"Int16", true},
	"ushort":  {"UInt16", true},
	"int":     {"Int32", true},
	"uint":    {"UInt32", true},
	"long":    {"Int64", true},
	"ulong":   {"UInt64", true},
	"nint":    {"IntPtr", true},
	"nuint":   {"UIntPtr", true},
	"float":   {"Single", true},
	"double":  {"Double", true},
	"decimal": {"Decimal", true},
	"string":  {"String", false},
	"object":  {"Object", false},
}

// system value types that may be written without the valuetype prefix
var systemValueTypes = map[string]bool{
	"Void": true, "Boolean": true, "Char": true, "SByte": true, "Byte": true,
	"Int16": true, "UInt16": true, "Int32": true, "UInt32": true, "Int64": true,
	"UInt64": true, "IntPtr": true, "UIntPtr": true, "Single": true,
	"Double": true, "Decimal": true, "Guid": true, "DateTime": true,
	"TimeSpan": true, "RuntimeTypeHandle": true,
}

// ParseTypeName parses the compact type grammar used by the interchange
// format:
//
//	[valuetype ]Ns.Outer`1/Inner<arg, ...>{[]|[,]|*|&}
//	!T
//
// Every call returns freshly allocated references.
func ParseTypeName(s string) (*TypeReference, error) {
	p := &typeParser{src: s}
	r, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errors.NewInvalidModelError("type %q: unexpected %q", s, p.src[p.pos:])
	}
	return r, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) parse() (*TypeReference, error) {
	p.skipSpace()
	valueType := false
	if strings.HasPrefix(p.src[p.pos:], "valuetype ") {
		valueType = true
		p.pos += len("valuetype ")
		p.skipSpace()
	}

	var r *TypeReference
	if p.peek() == '!' {
		p.pos++
		name := p.ident()
		if name == "" {
			return nil, errors.NewInvalidModelError("type %q: empty generic parameter", p.src)
		}
		r = GenericParam(name)
	} else {
		name := p.ident()
		if name == "" {
			return nil, errors.NewInvalidModelError("type %q: missing name at %d", p.src, p.pos)
		}
		r = namedFromPath(name, valueType)
	}

	p.skipSpace()
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			r.GenericArguments = append(r.GenericArguments, arg)
			p.skipSpace()
			c := p.peek()
			if c == 0 {
				return nil, errors.NewInvalidModelError("type %q: unterminated generic arguments", p.src)
			}
			p.pos++
			if c == '>' {
				break
			}
			if c != ',' {
				return nil, errors.NewInvalidModelError("type %q: expected ',' or '>'", p.src)
			}
		}
	}

	for {
		p.skipSpace()
		switch p.peek() {
		case '[':
			p.pos++
			rank := 1
			for p.peek() == ',' {
				rank++
				p.pos++
			}
			if p.peek() != ']' {
				return nil, errors.NewInvalidModelError("type %q: unterminated array rank", p.src)
			}
			p.pos++
			r = ArrayOf(r, rank)
		case '*':
			p.pos++
			r = PointerTo(r)
		case '&':
			p.pos++
			r = ByRefTo(r)
		default:
			return r, nil
		}
	}
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '<', '>', ',', '[', ']', '*', '&', ' ':
			return p.src[start:p.pos]
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func namedFromPath(path string, valueType bool) *TypeReference {
	if a, ok := typeAliases[path]; ok {
		return NewNamed("System", a.name, a.value)
	}
	segments := strings.Split(path, "/")
	var outer *TypeReference
	for i, seg := range segments {
		var r *TypeReference
		if i == 0 {
			ns, name := "", seg
			if dot := strings.LastIndexByte(seg, '.'); dot >= 0 {
				ns, name = seg[:dot], seg[dot+1:]
			}
			r = NewNamed(ns, name, false)
			if ns == "System" && systemValueTypes[name] {
				r.ValueType = true
			}
		} else {
			r = NewNamed("", seg, false)
			r.DeclaringType = outer
		}
		outer = r
	}
	outer.ValueType = outer.ValueType || valueType
	return outer
}
