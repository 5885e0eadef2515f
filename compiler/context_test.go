package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

func requireInternalPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected an internal fault")
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, errors.ErrInternal))
	}()
	fn()
}

func newTestContext(t *testing.T) *EmissionContext {
	return NewEmissionContext(&model.TypeDecl{Name: "A", Namespace: "Demo"}, nil, zaptest.NewLogger(t).Sugar())
}

func TestScopedEntriesBalance(t *testing.T) {
	ctx := newTestContext(t)
	start := ctx.Mark()

	func() {
		defer ctx.PushCastTarget(model.NewNamed("System", "Byte", true))()
		defer ctx.PushSwitchType(LocalChar)()
		defer ctx.EnterRefOut()()
		defer ctx.Generics().Push(nil)()

		assert.Equal(t, "Byte", ctx.CastTarget().Name)
		assert.Same(t, LocalChar, ctx.SwitchType())
		assert.True(t, ctx.InsideRefOut())
		assert.Equal(t, 1, ctx.Generics().Depth())
		assert.NotEqual(t, start, ctx.Mark())
	}()

	assert.NotPanics(t, func() { ctx.CheckBalanced(start) })
	assert.Nil(t, ctx.CastTarget())
	assert.Nil(t, ctx.SwitchType())
	assert.False(t, ctx.InsideRefOut())
}

func TestCheckBalancedFaults(t *testing.T) {
	ctx := newTestContext(t)
	start := ctx.Mark()
	release := ctx.PushSwitchType(LocalInt32)
	requireInternalPanic(t, func() { ctx.CheckBalanced(start) })
	release()
	ctx.CheckBalanced(start)
}

func TestPendingRefArgumentIsUnbalanced(t *testing.T) {
	ctx := newTestContext(t)
	start := ctx.Mark()
	ctx.RequestRefArgument()
	requireInternalPanic(t, func() { ctx.CheckBalanced(start) })

	ctx.ResetStatement()
	assert.NotPanics(t, func() { ctx.CheckBalanced(start) })
	assert.False(t, ctx.takeRefArgument())
}

func TestOutOfOrderReleaseFaults(t *testing.T) {
	ctx := newTestContext(t)
	outer := ctx.PushCastTarget(model.NewNamed("System", "Int32", true))
	ctx.PushCastTarget(model.NewNamed("System", "Int64", true))
	requireInternalPanic(t, outer)

	stack := &GenericStack{}
	first := stack.Push(nil)
	stack.Push(nil)
	requireInternalPanic(t, first)
}

func TestStackAllocMarksUnsafe(t *testing.T) {
	ctx := newTestContext(t)
	assert.False(t, ctx.Unsafe())
	release := ctx.EnterStackAlloc()
	assert.True(t, ctx.InsideStackAlloc())
	release()
	assert.False(t, ctx.InsideStackAlloc())
	assert.True(t, ctx.Unsafe(), "unsafe stays set")
}

func TestGenericStackConsumesLeftToRight(t *testing.T) {
	a := model.NewNamed("System", "Int32", true)
	b := model.NewNamed("System", "String", false)
	c := model.NewNamed("System", "Object", false)

	var s GenericStack
	assert.Nil(t, s.Take(1))
	release := s.Push([]*model.TypeReference{a, b, c})
	assert.Equal(t, []*model.TypeReference{a}, s.Take(1))
	assert.Equal(t, []*model.TypeReference{b, c}, s.Rest())
	assert.Empty(t, s.Take(1))
	release()
	assert.Zero(t, s.Depth())
}

func TestChainAndLabels(t *testing.T) {
	ctx := newTestContext(t)
	assert.Nil(t, ctx.Chain())
	assert.True(t, ctx.SetChain(&ChainCall{}))
	assert.False(t, ctx.SetChain(&ChainCall{}), "only one chain call per constructor")

	assert.False(t, ctx.HasLabel("done"))
	ctx.DefineLabel("done")
	assert.True(t, ctx.HasLabel("done"))

	assert.NotEqual(t, ctx.TempName("__t"), ctx.TempName("__t"))
}
