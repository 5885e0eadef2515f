package compiler

import (
	"fmt"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

// NotImplementedError reports a construct the emitter has no rendering for.
// Handlers raise it with panic; the Generator turns it into a returned error
// and discards any partial text.
type NotImplementedError struct {
	Construct string
	Type      string
	Member    string
}

func (e *NotImplementedError) Error() string {
	switch {
	case e.Type != "" && e.Member != "":
		return fmt.Sprintf("%s is not implemented (in %s.%s)", e.Construct, e.Type, e.Member)
	case e.Type != "":
		return fmt.Sprintf("%s is not implemented (in %s)", e.Construct, e.Type)
	}
	return e.Construct + " is not implemented"
}

func (e *NotImplementedError) Unwrap() error { return errors.ErrNotImplemented }

func notImplemented(ctx *EmissionContext, construct string) *NotImplementedError {
	e := &NotImplementedError{Construct: construct}
	if ctx != nil && ctx.Type != nil {
		e.Type = ctx.Type.FullName()
	}
	if ctx != nil && ctx.Method != nil {
		e.Member = ctx.Method.Name
	}
	return e
}

// recoverNotImplemented converts a NotImplementedError panic into *err.
// Every other panic is an internal fault and keeps unwinding.
func recoverNotImplemented(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ni, ok := r.(*NotImplementedError); ok {
		*err = errors.WithStack(ni)
		return
	}
	panic(r)
}
