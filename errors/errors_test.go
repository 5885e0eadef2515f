package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestIsNotImplemented(t *testing.T) {
	err := Wrapf(ErrNotImplemented, "lambda in %s", "Foo.Bar")

	assert.True(t, IsNotImplemented(err))
	assert.False(t, IsNotImplemented(New("other")))
	assert.False(t, IsNotImplemented(nil))
	assert.Contains(t, err.Error(), "lambda in Foo.Bar")
}

func TestNewInvalidModelError(t *testing.T) {
	err := NewInvalidModelError("unknown kind %q", "frob")

	require.Error(t, err)
	assert.True(t, IsInvalidModel(err))
	assert.Contains(t, err.Error(), `unknown kind "frob"`)
}

func TestInternalf(t *testing.T) {
	err := Internalf("unbalanced stack: %d", 2)

	assert.True(t, Is(err, ErrInternal))
	assert.True(t, HasAssertionFailure(err))
	assert.Contains(t, err.Error(), "unbalanced stack: 2")
}
