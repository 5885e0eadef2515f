package compiler

import (
	"strings"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

// Fragment tags: what produced this fragment
const (
	TagMarker  int = 0
	TagExpr    int = 1
	TagStmt    int = 2
	TagType    int = 3
	TagIdent   int = 4
	TagLiteral int = 5
	// TagAddress marks text that already is the address of a by-ref
	// parameter.
	TagAddress int = 6
)

// AccessKind tells a parent how a member fragment can be re-rendered when it
// turns out to be an assignment target, an event operand or a call target.
type AccessKind int

const (
	AccessNone AccessKind = iota
	AccessField
	AccessProperty
	AccessIndexer
	AccessEvent
	AccessMethod
)

// AccessMode is how the member is reached from its target.
type AccessMode int

const (
	// ModeReference reaches through a reference-kind instance.
	ModeReference AccessMode = iota
	// ModeValue reaches into a value-kind instance.
	ModeValue
	// ModePointer reaches through an unmanaged pointer.
	ModePointer
	// ModeStatic names the member on its owning type.
	ModeStatic
	// ModeBase names the base class implementation.
	ModeBase
	// ModeInterface dispatches through an interface.
	ModeInterface
)

// AccessOp selects the form a member access is rendered in.
type AccessOp int

const (
	OpGet AccessOp = iota
	OpSet
	OpAdd
	OpRemove
)

// MemberAccess records the pieces a member fragment was built from. Owner is
// the owning type name without any reference marker.
type MemberAccess struct {
	Kind   AccessKind
	Mode   AccessMode
	Target string
	Name   string
	Owner  string
	Args   []string
}

// Fragment is generated text plus the semantic type of what it evaluates to.
// Fragments are values: every method returns a modified copy.
type Fragment struct {
	Tag    int
	text   string
	typ    *LocalType
	member *MemberAccess
}

// NewFragment builds a fragment. A nil typ is legal here and faults only
// when the type is read.
func NewFragment(tag int, text string, typ *LocalType) Fragment {
	return Fragment{Tag: tag, text: text, typ: typ}
}

func (f Fragment) String() string { return f.text }

// Text returns the generated text.
func (f Fragment) Text() string { return f.text }

// Type returns the fragment's semantic type.
func (f Fragment) Type() *LocalType {
	if f.typ == nil {
		panic(errors.Internalf("fragment %q has no semantic type", abbreviate(f.text)))
	}
	return f.typ
}

// HasType reports whether a semantic type was attached.
func (f Fragment) HasType() bool { return f.typ != nil }

// WithType returns f carrying t.
func (f Fragment) WithType(t *LocalType) Fragment {
	f.typ = t
	return f
}

// WithText returns f with its text replaced, keeping type and tag. Member
// metadata is dropped since it described the old text.
func (f Fragment) WithText(s string) Fragment {
	f.text = s
	f.member = nil
	return f
}

// Prefix inserts s before the text.
func (f Fragment) Prefix(s string) Fragment {
	f.text = s + f.text
	f.member = nil
	return f
}

// Append adds s after the text.
func (f Fragment) Append(s string) Fragment {
	f.text += s
	f.member = nil
	return f
}

// TrimLast removes one trailing c, reporting whether it was present.
func (f Fragment) TrimLast(c byte) (Fragment, bool) {
	n := len(f.text)
	if n == 0 || f.text[n-1] != c {
		return f, false
	}
	f.text = f.text[:n-1]
	return f, true
}

// WithMember attaches member access metadata.
func (f Fragment) WithMember(m *MemberAccess) Fragment {
	f.member = m
	return f
}

// Member returns the access metadata, or nil.
func (f Fragment) Member() *MemberAccess { return f.member }

func abbreviate(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Writer accumulates lines at an explicit indentation level. Text written
// while indented is re-prefixed on every physical line; blank lines stay
// empty.
type Writer struct {
	sb          strings.Builder
	unit        string
	level       int
	atLineStart bool
}

// NewWriter creates a writer using unit as one indentation step.
func NewWriter(unit string) *Writer {
	return &Writer{unit: unit, atLineStart: true}
}

// Indent raises the level by one and returns the function restoring it.
func (w *Writer) Indent() func() {
	w.level++
	return func() { w.level-- }
}

// Write appends s, indenting each line that starts inside it.
func (w *Writer) Write(s string) {
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		line := s
		if i >= 0 {
			line = s[:i]
		}
		if w.atLineStart && line != "" {
			w.sb.WriteString(strings.Repeat(w.unit, w.level))
		}
		w.sb.WriteString(line)
		if i < 0 {
			w.atLineStart = false
			return
		}
		w.sb.WriteByte('\n')
		w.atLineStart = true
		s = s[i+1:]
	}
}

// Line writes s followed by a newline.
func (w *Writer) Line(s string) {
	w.Write(s)
	w.Write("\n")
}

// Len returns the number of bytes written.
func (w *Writer) Len() int { return w.sb.Len() }

func (w *Writer) String() string { return w.sb.String() }
