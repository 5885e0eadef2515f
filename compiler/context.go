package compiler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// GenericStack threads pending generic arguments into the segments of a
// nested type name. Each frame is consumed left to right.
type GenericStack struct {
	frames []*genericFrame
}

type genericFrame struct {
	args []*model.TypeReference
	next int
}

// Push opens a frame over args and returns its release function.
func (s *GenericStack) Push(args []*model.TypeReference) func() {
	depth := len(s.frames)
	s.frames = append(s.frames, &genericFrame{args: args})
	return func() {
		if len(s.frames) != depth+1 {
			panic(errors.Internalf("generic argument stack released at depth %d, opened at %d", len(s.frames), depth+1))
		}
		s.frames = s.frames[:depth]
	}
}

// Take consumes up to n arguments from the innermost frame.
func (s *GenericStack) Take(n int) []*model.TypeReference {
	if len(s.frames) == 0 || n <= 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	end := f.next + n
	if end > len(f.args) {
		end = len(f.args)
	}
	out := f.args[f.next:end]
	f.next = end
	return out
}

// Rest consumes whatever remains in the innermost frame.
func (s *GenericStack) Rest() []*model.TypeReference {
	if len(s.frames) == 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	return s.Take(len(f.args) - f.next)
}

// Depth returns the number of open frames.
func (s *GenericStack) Depth() int { return len(s.frames) }

// EmissionContext is the scratch state of one body traversal. Scoped
// entries return a release function, normally deferred by the caller.
type EmissionContext struct {
	Type   *model.TypeDecl
	Method *model.MethodDecl
	Body   *model.Block

	// HasClosure is set by the scan pass.
	HasClosure bool

	unsafe           bool
	insideRefOut     int
	insideStackAlloc int

	castTargets    []*model.TypeReference
	generics       GenericStack
	switchTypes    []*LocalType
	interfaceCalls []*TypeInfo

	refArgument bool
	chain       *ChainCall

	labels  map[string]bool
	temps   int
	patches []string
	log     *zap.SugaredLogger
}

// NewEmissionContext creates the context for one body of method in decl.
// method may be nil for declaration-level rendering.
func NewEmissionContext(decl *model.TypeDecl, method *model.MethodDecl, log *zap.SugaredLogger) *EmissionContext {
	if log == nil {
		log = logger.Logger
	}
	ctx := &EmissionContext{Type: decl, Method: method, labels: make(map[string]bool), log: log}
	if method != nil {
		ctx.Body = method.Body
	}
	return ctx
}

// MarkUnsafe records that the body needs an unsafe context. It stays set
// for the rest of the traversal.
func (c *EmissionContext) MarkUnsafe() { c.unsafe = true }

// Unsafe reports whether any handler required an unsafe context.
func (c *EmissionContext) Unsafe() bool { return c.unsafe }

// EnterRefOut marks the traversal of a ref/out argument target.
func (c *EmissionContext) EnterRefOut() func() {
	c.insideRefOut++
	return func() { c.insideRefOut-- }
}

// InsideRefOut reports whether a ref/out target is being rendered.
func (c *EmissionContext) InsideRefOut() bool { return c.insideRefOut > 0 }

// EnterStackAlloc marks the traversal of a stack allocation.
func (c *EmissionContext) EnterStackAlloc() func() {
	c.insideStackAlloc++
	c.unsafe = true
	return func() { c.insideStackAlloc-- }
}

// InsideStackAlloc reports whether a stack allocation is being rendered.
func (c *EmissionContext) InsideStackAlloc() bool { return c.insideStackAlloc > 0 }

// PushCastTarget records the type an operand is being cast to.
func (c *EmissionContext) PushCastTarget(ref *model.TypeReference) func() {
	depth := len(c.castTargets)
	c.castTargets = append(c.castTargets, ref)
	return func() {
		c.checkRelease("cast target", len(c.castTargets), depth)
		c.castTargets = c.castTargets[:depth]
	}
}

// CastTarget returns the innermost pending cast target, or nil.
func (c *EmissionContext) CastTarget() *model.TypeReference {
	if len(c.castTargets) == 0 {
		return nil
	}
	return c.castTargets[len(c.castTargets)-1]
}

// Generics returns the pending generic argument stack.
func (c *EmissionContext) Generics() *GenericStack { return &c.generics }

// PushSwitchType records the discriminant type of the switch being emitted.
func (c *EmissionContext) PushSwitchType(t *LocalType) func() {
	depth := len(c.switchTypes)
	c.switchTypes = append(c.switchTypes, t)
	return func() {
		c.checkRelease("switch type", len(c.switchTypes), depth)
		c.switchTypes = c.switchTypes[:depth]
	}
}

// SwitchType returns the innermost switch discriminant type, or nil.
func (c *EmissionContext) SwitchType() *LocalType {
	if len(c.switchTypes) == 0 {
		return nil
	}
	return c.switchTypes[len(c.switchTypes)-1]
}

// PushInterfaceCall marks that the call being emitted dispatches through
// interface ti.
func (c *EmissionContext) PushInterfaceCall(ti *TypeInfo) func() {
	depth := len(c.interfaceCalls)
	c.interfaceCalls = append(c.interfaceCalls, ti)
	return func() {
		c.checkRelease("interface call", len(c.interfaceCalls), depth)
		c.interfaceCalls = c.interfaceCalls[:depth]
	}
}

// InterfaceCall returns the innermost interface being called through, or nil.
func (c *EmissionContext) InterfaceCall() *TypeInfo {
	if len(c.interfaceCalls) == 0 {
		return nil
	}
	return c.interfaceCalls[len(c.interfaceCalls)-1]
}

func (c *EmissionContext) checkRelease(stack string, got, opened int) {
	if got != opened+1 {
		panic(errors.Internalf("%s stack released at depth %d, opened at %d", stack, got, opened+1))
	}
}

// Mark is a snapshot of every stack depth.
type Mark struct {
	casts, generics, switches, interfaces int
	refOut, stackAlloc                    int
	refArgument                           bool
}

// Mark snapshots the stack depths.
func (c *EmissionContext) Mark() Mark {
	return Mark{
		casts:       len(c.castTargets),
		generics:    c.generics.Depth(),
		switches:    len(c.switchTypes),
		interfaces:  len(c.interfaceCalls),
		refOut:      c.insideRefOut,
		stackAlloc:  c.insideStackAlloc,
		refArgument: c.refArgument,
	}
}

// CheckBalanced faults when any stack differs from the snapshot.
func (c *EmissionContext) CheckBalanced(m Mark) {
	if now := c.Mark(); now != m {
		panic(errors.Internalf("emission context unbalanced: %+v, expected %+v", now, m))
	}
}

// RequestRefArgument makes the next out argument render as a ref argument.
func (c *EmissionContext) RequestRefArgument() { c.refArgument = true }

// ResetStatement clears the one-shot state that must not outlive the
// statement it was requested in.
func (c *EmissionContext) ResetStatement() { c.refArgument = false }

func (c *EmissionContext) takeRefArgument() bool {
	v := c.refArgument
	c.refArgument = false
	return v
}

// SetChain records the constructor chain call lifted out of the body. It
// reports false when one was already recorded.
func (c *EmissionContext) SetChain(ch *ChainCall) bool {
	if c.chain != nil {
		return false
	}
	c.chain = ch
	return true
}

// Chain returns the lifted constructor chain call, or nil.
func (c *EmissionContext) Chain() *ChainCall { return c.chain }

// DefineLabel records a label defined in the body.
func (c *EmissionContext) DefineLabel(name string) { c.labels[name] = true }

// HasLabel reports whether the body defines name.
func (c *EmissionContext) HasLabel(name string) bool { return c.labels[name] }

// TempName returns a fresh identifier with the given prefix.
func (c *EmissionContext) TempName(prefix string) string {
	c.temps++
	return fmt.Sprintf("%s%d", prefix, c.temps)
}

// ApplyPatch records and logs a compatibility patch.
func (c *EmissionContext) ApplyPatch(name string, keysAndValues ...interface{}) {
	c.patches = append(c.patches, name)
	kv := []interface{}{logger.FieldPatch, name}
	if c.Type != nil {
		kv = append(kv, logger.FieldType, c.Type.FullName())
	}
	if c.Method != nil {
		kv = append(kv, logger.FieldMember, c.Method.Name)
	}
	c.log.Debugw("compatibility patch applied", append(kv, keysAndValues...)...)
}

// Patches lists the patches applied so far, in order.
func (c *EmissionContext) Patches() []string { return c.patches }
