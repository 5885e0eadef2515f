// Package errors provides error handling for CrossNet.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Assertion failures for internal consistency faults
//
// Usage:
//
//	// Wrap with context
//	if err := decode(r); err != nil {
//	    return errors.Wrap(err, "failed to decode model")
//	}
//
//	// Unsupported construct
//	return errors.Wrapf(errors.ErrNotImplemented, "anonymous method in %s", name)
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is           = crdb.Is
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Assertions
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinel errors. Wrap these with errors.Wrap() to add context while
// preserving the type for errors.Is().
var (
	// ErrNotImplemented marks a valid construct the emitter deliberately does
	// not support (closures, anonymous methods).
	ErrNotImplemented = New("not implemented")

	// ErrInternal marks an internal consistency violation: an unmatched node
	// variant, an unbalanced context stack, an untyped fragment.
	ErrInternal = New("internal consistency violation")

	// ErrInvalidModel indicates the input model or configuration is malformed.
	ErrInvalidModel = New("invalid model")
)

// IsNotImplemented checks if an error is or wraps ErrNotImplemented.
func IsNotImplemented(err error) bool {
	return err != nil && Is(err, ErrNotImplemented)
}

// IsInvalidModel checks if an error is or wraps ErrInvalidModel.
func IsInvalidModel(err error) bool {
	return err != nil && Is(err, ErrInvalidModel)
}

// NewInvalidModelError creates an ErrInvalidModel with a formatted message.
func NewInvalidModelError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidModel, format, args...)
}

// Internalf builds the value raised for an internal consistency fault. The
// result wraps ErrInternal and carries an assertion failure marker.
func Internalf(format string, args ...interface{}) error {
	return crdb.Mark(AssertionFailedf(format, args...), ErrInternal)
}
