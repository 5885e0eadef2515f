package model

import (
	"io"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

// DecodeFile reads a module from a YAML or JSON file.
func DecodeFile(path string) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open model %s", path)
	}
	defer f.Close()
	mod, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode model %s", path)
	}
	return mod, nil
}

// Decode reads a module from its YAML (or JSON) interchange form. Expression
// and statement nodes are mappings discriminated by a "kind" key. Type
// references are strings in the grammar accepted by ParseTypeName.
//
// Every type string yields its own TypeReference, so one nominal type is
// typically denoted by many distinct objects. References to types declared in
// the module get their Definition linked after all declarations are read.
func Decode(r io.Reader) (*Module, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, errors.Wrap(err, "failed to parse model document")
	}
	d := &decoder{}
	mod := d.module(&root)
	if d.err != nil {
		return nil, d.err
	}
	idx := Link(mod)
	for _, ref := range d.refs {
		if decl := idx.Resolve(ref); decl != nil {
			ref.Definition = decl
			ref.ValueType = decl.IsValueType()
		}
	}
	return mod, nil
}

// decoder keeps the first error; every method returns zero values once it is
// set, so callers do not check after each step.
type decoder struct {
	err  error
	refs []*TypeReference

	decl   *TypeDecl
	vars   map[string]*Variable
	params map[string]*ParameterDecl
}

func (d *decoder) fail(n *yaml.Node, format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	line := 0
	if n != nil {
		line = n.Line
	}
	d.err = errors.Wrapf(errors.NewInvalidModelError(format, args...), "line %d", line)
}

func mapping(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

func field(n *yaml.Node, key string) *yaml.Node {
	n = mapping(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func (d *decoder) str(n *yaml.Node, key string) string {
	v := field(n, key)
	if v == nil {
		return ""
	}
	if v.Kind != yaml.ScalarNode {
		d.fail(v, "%s: expected a scalar", key)
		return ""
	}
	return v.Value
}

func (d *decoder) flag(n *yaml.Node, key string) bool {
	v := field(n, key)
	if v == nil {
		return false
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		d.fail(v, "%s: expected a boolean", key)
	}
	return b
}

func (d *decoder) seq(n *yaml.Node, key string) []*yaml.Node {
	v := field(n, key)
	if v == nil {
		return nil
	}
	if v.Kind != yaml.SequenceNode {
		d.fail(v, "%s: expected a sequence", key)
		return nil
	}
	return v.Content
}

func (d *decoder) typeRef(n *yaml.Node, key string) *TypeReference {
	s := d.str(n, key)
	if s == "" || d.err != nil {
		return nil
	}
	return d.parseType(field(n, key), s)
}

func (d *decoder) parseType(at *yaml.Node, s string) *TypeReference {
	r, err := ParseTypeName(s)
	if err != nil {
		if d.err == nil {
			d.err = errors.Wrapf(err, "line %d", at.Line)
		}
		return nil
	}
	d.collect(r)
	return r
}

func (d *decoder) collect(r *TypeReference) {
	for ; r != nil; r = r.Element {
		if r.Kind == NamedType {
			d.refs = append(d.refs, r)
			for o := r.DeclaringType; o != nil; o = o.DeclaringType {
				d.refs = append(d.refs, o)
			}
		}
		for _, a := range r.GenericArguments {
			d.collect(a)
		}
	}
}

func (d *decoder) typeList(n *yaml.Node, key string) []*TypeReference {
	var out []*TypeReference
	for _, item := range d.seq(n, key) {
		if item.Kind != yaml.ScalarNode {
			d.fail(item, "%s: expected type names", key)
			return nil
		}
		out = append(out, d.parseType(item, item.Value))
	}
	return out
}

func (d *decoder) requireType(n *yaml.Node, key string) *TypeReference {
	r := d.typeRef(n, key)
	if r == nil {
		d.fail(n, "missing %q", key)
	}
	return r
}

func (d *decoder) module(root *yaml.Node) *Module {
	n := mapping(root)
	if n == nil || n.Kind != yaml.MappingNode {
		d.fail(n, "model document must be a mapping")
		return nil
	}
	mod := &Module{Name: d.str(n, "name")}
	for _, t := range d.seq(n, "types") {
		mod.Types = append(mod.Types, d.typeDecl(t, nil))
	}
	return mod
}

var declKinds = map[string]TypeDeclKind{
	"":          Class,
	"class":     Class,
	"struct":    Struct,
	"interface": Interface,
	"enum":      Enum,
	"delegate":  Delegate,
}

var visibilities = map[string]Visibility{
	"":                   Public,
	"public":             Public,
	"private":            Private,
	"protected":          Protected,
	"internal":           Internal,
	"protected internal": ProtectedInternal,
}

func (d *decoder) visibility(n *yaml.Node) Visibility {
	s := d.str(n, "visibility")
	v, ok := visibilities[s]
	if !ok {
		d.fail(n, "unknown visibility %q", s)
	}
	return v
}

func (d *decoder) typeDecl(n *yaml.Node, outer *TypeDecl) *TypeDecl {
	if d.err != nil {
		return &TypeDecl{}
	}
	kind, ok := declKinds[d.str(n, "kind")]
	if !ok {
		d.fail(n, "unknown type kind %q", d.str(n, "kind"))
	}
	t := &TypeDecl{
		Name:          d.str(n, "name"),
		Namespace:     d.str(n, "namespace"),
		Kind:          kind,
		Visibility:    d.visibility(n),
		Abstract:      d.flag(n, "abstract"),
		Sealed:        d.flag(n, "sealed"),
		Static:        d.flag(n, "static"),
		BaseType:      d.typeRef(n, "base"),
		Interfaces:    d.typeList(n, "interfaces"),
		DeclaringType: outer,
	}
	if t.Name == "" {
		d.fail(n, "type without a name")
	}
	if outer != nil {
		t.Namespace = ""
	}
	t.GenericParameters = d.genericParams(n)

	saved := d.decl
	d.decl = t
	defer func() { d.decl = saved }()

	for _, f := range d.seq(n, "fields") {
		t.Fields = append(t.Fields, d.fieldDecl(f))
	}
	for _, m := range d.seq(n, "methods") {
		t.Methods = append(t.Methods, d.methodDecl(m, nil))
	}
	for _, p := range d.seq(n, "properties") {
		t.Properties = append(t.Properties, d.propertyDecl(p, t))
	}
	for _, e := range d.seq(n, "events") {
		t.Events = append(t.Events, d.eventDecl(e, t))
	}
	for _, nt := range d.seq(n, "nested") {
		t.NestedTypes = append(t.NestedTypes, d.typeDecl(nt, t))
	}
	return t
}

func (d *decoder) genericParams(n *yaml.Node) []*GenericParameter {
	var out []*GenericParameter
	for _, g := range d.seq(n, "generic") {
		if g.Kind == yaml.ScalarNode {
			out = append(out, &GenericParameter{Name: g.Value})
			continue
		}
		out = append(out, &GenericParameter{
			Name:                    d.str(g, "name"),
			Constraints:             d.typeList(g, "constraints"),
			ReferenceTypeConstraint: d.flag(g, "class"),
			ValueTypeConstraint:     d.flag(g, "struct"),
			ConstructorConstraint:   d.flag(g, "new"),
		})
	}
	return out
}

func (d *decoder) fieldDecl(n *yaml.Node) *FieldDecl {
	f := &FieldDecl{
		Name:       d.str(n, "name"),
		Type:       d.requireType(n, "type"),
		Visibility: d.visibility(n),
		Static:     d.flag(n, "static"),
		ReadOnly:   d.flag(n, "readonly"),
		Literal:    d.flag(n, "literal"),
	}
	if v := field(n, "value"); v != nil {
		f.Constant = d.scalarValue(v, f.Type)
	}
	return f
}

func (d *decoder) parameters(n *yaml.Node) []*ParameterDecl {
	var out []*ParameterDecl
	for _, p := range d.seq(n, "params") {
		out = append(out, &ParameterDecl{
			Name:   d.str(p, "name"),
			Type:   d.requireType(p, "type"),
			In:     d.flag(p, "in"),
			Out:    d.flag(p, "out"),
			Params: d.flag(p, "params"),
		})
	}
	return out
}

func (d *decoder) methodDecl(n *yaml.Node, acc *accessorDefaults) *MethodDecl {
	name := d.str(n, "name")
	if name == "" && acc != nil {
		name = acc.name
	}
	m := &MethodDecl{
		Name:              name,
		ReturnType:        d.typeRef(n, "returns"),
		Parameters:        d.parameters(n),
		GenericParameters: d.genericParams(n),
		Visibility:        d.visibility(n),
		Static:            d.flag(n, "static"),
		Virtual:           d.flag(n, "virtual"),
		Abstract:          d.flag(n, "abstract"),
		Override:          d.flag(n, "override"),
		Sealed:            d.flag(n, "sealed"),
		Extern:            d.flag(n, "extern"),
		SpecialName:       d.flag(n, "special") || acc != nil,
		DeclaringType:     d.decl,
	}
	if acc != nil {
		if m.ReturnType == nil {
			m.ReturnType = acc.returns
		}
		if field(n, "params") == nil {
			for _, p := range acc.params {
				c := *p
				m.Parameters = append(m.Parameters, &c)
			}
		}
	}
	if m.ReturnType == nil {
		m.ReturnType = NewNamed("System", "Void", true)
	}
	if field(n, "body") == nil {
		return m
	}

	d.vars = make(map[string]*Variable)
	d.params = make(map[string]*ParameterDecl)
	for _, p := range m.Parameters {
		d.params[p.Name] = p
	}
	for _, l := range d.seq(n, "locals") {
		d.declareVar(l)
	}
	m.Body = d.block(field(n, "body"))
	d.vars, d.params = nil, nil
	return m
}

// accessor decodes a property or event accessor: either the name of a method
// listed under "methods" (same object) or an inline method mapping (a
// distinct object).
func (d *decoder) accessor(n *yaml.Node, key, defaultName string, owner *TypeDecl, returns *TypeReference, implicit []*ParameterDecl) *MethodDecl {
	v := field(n, key)
	if v == nil {
		return nil
	}
	if v.Kind == yaml.ScalarNode {
		for _, m := range owner.Methods {
			if m.Name == v.Value {
				return m
			}
		}
		d.fail(v, "%s: no method named %q", key, v.Value)
		return nil
	}
	return d.methodDecl(v, &accessorDefaults{name: defaultName, returns: returns, params: implicit})
}

// accessorDefaults supplies the signature of an inline accessor that the
// document leaves implicit.
type accessorDefaults struct {
	name    string
	returns *TypeReference
	params  []*ParameterDecl
}

func (d *decoder) propertyDecl(n *yaml.Node, owner *TypeDecl) *PropertyDecl {
	p := &PropertyDecl{
		Name:       d.str(n, "name"),
		Type:       d.requireType(n, "type"),
		Parameters: d.parameters(n),
	}
	p.Getter = d.accessor(n, "get", "get_"+p.Name, owner, p.Type, p.Parameters)
	value := &ParameterDecl{Name: "value", Type: p.Type}
	p.Setter = d.accessor(n, "set", "set_"+p.Name, owner, nil, append(p.Parameters[:len(p.Parameters):len(p.Parameters)], value))
	return p
}

func (d *decoder) eventDecl(n *yaml.Node, owner *TypeDecl) *EventDecl {
	e := &EventDecl{
		Name: d.str(n, "name"),
		Type: d.requireType(n, "type"),
	}
	value := []*ParameterDecl{{Name: "value", Type: e.Type}}
	e.Adder = d.accessor(n, "add", "add_"+e.Name, owner, nil, value)
	e.Remover = d.accessor(n, "remove", "remove_"+e.Name, owner, nil, value)
	if v := field(n, "field"); v != nil {
		e.BackingField = d.backingField(v, owner)
	}
	return e
}

// backingField resolves a field by name among owner's fields (same object),
// or decodes an inline field mapping (a distinct object).
func (d *decoder) backingField(v *yaml.Node, owner *TypeDecl) *FieldDecl {
	if v.Kind != yaml.ScalarNode {
		return d.fieldDecl(v)
	}
	for _, f := range owner.Fields {
		if f.Name == v.Value {
			return f
		}
	}
	d.fail(v, "field: no field named %q", v.Value)
	return nil
}

func (d *decoder) declareVar(n *yaml.Node) *Variable {
	name := d.str(n, "name")
	if v, ok := d.vars[name]; ok {
		return v
	}
	v := &Variable{Name: name, Type: d.requireType(n, "type"), Pinned: d.flag(n, "pinned")}
	if d.vars != nil {
		d.vars[name] = v
	}
	return v
}

func (d *decoder) lookupVar(n *yaml.Node) *Variable {
	name := d.str(n, "name")
	v, ok := d.vars[name]
	if !ok {
		d.fail(n, "reference to undeclared local %q", name)
		return &Variable{Name: name}
	}
	return v
}

// scalarValue converts a YAML scalar to the Go value a Literal of type t
// carries.
func (d *decoder) scalarValue(v *yaml.Node, t *TypeReference) any {
	if v.Tag == "!!null" {
		return nil
	}
	if t == nil || t.Kind != NamedType || t.Namespace != "System" {
		switch v.Tag {
		case "!!bool":
			t = NewNamed("System", "Boolean", true)
		case "!!int":
			t = NewNamed("System", "Int32", true)
		case "!!float":
			t = NewNamed("System", "Double", true)
		default:
			return v.Value
		}
	}
	switch t.Name {
	case "Boolean":
		var b bool
		if err := v.Decode(&b); err != nil {
			d.fail(v, "expected a boolean, got %q", v.Value)
		}
		return b
	case "Char":
		if r := []rune(v.Value); len(r) == 1 && v.Tag == "!!str" {
			return Char(r[0])
		}
		n, err := strconv.ParseUint(v.Value, 0, 16)
		if err != nil {
			d.fail(v, "invalid char literal %q", v.Value)
		}
		return Char(n)
	case "SByte":
		return int8(d.intValue(v, 8))
	case "Byte":
		return uint8(d.uintValue(v, 8))
	case "Int16":
		return int16(d.intValue(v, 16))
	case "UInt16":
		return uint16(d.uintValue(v, 16))
	case "Int32":
		return int32(d.intValue(v, 32))
	case "UInt32":
		return uint32(d.uintValue(v, 32))
	case "Int64", "IntPtr":
		return d.intValue(v, 64)
	case "UInt64", "UIntPtr":
		return d.uintValue(v, 64)
	case "Single":
		return float32(d.floatValue(v, 32))
	case "Double":
		return d.floatValue(v, 64)
	case "Decimal":
		return Decimal(v.Value)
	default:
		return v.Value
	}
}

func (d *decoder) intValue(v *yaml.Node, bits int) int64 {
	n, err := strconv.ParseInt(v.Value, 0, bits)
	if err != nil {
		d.fail(v, "invalid %d-bit integer %q", bits, v.Value)
	}
	return n
}

func (d *decoder) uintValue(v *yaml.Node, bits int) uint64 {
	n, err := strconv.ParseUint(v.Value, 0, bits)
	if err != nil {
		d.fail(v, "invalid %d-bit unsigned integer %q", bits, v.Value)
	}
	return n
}

func (d *decoder) floatValue(v *yaml.Node, bits int) float64 {
	switch v.Value {
	case ".nan", "NaN":
		return math.NaN()
	case ".inf", "+.inf", "Infinity":
		return math.Inf(1)
	case "-.inf", "-Infinity":
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(v.Value, bits)
	if err != nil {
		d.fail(v, "invalid float %q", v.Value)
	}
	return f
}
