// Package object provides the function values whose active lines deepcov
// reports.
//
// A host runtime hands deepcov either a script function, represented by a
// *Closure wrapping its compiled prototype, or a native function,
// represented by a *Builtin. Only script functions have line information:
//
//	switch fn := fn.(type) {
//	case *object.Closure:
//		// fn.Prototype() is the compiled function
//	case *object.Builtin:
//		// native code, no prototype
//	}
package object

import (
	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/proto"
)

// Type of a function value as a string.
type Type string

// Type constants
const (
	FUNCTION Type = "function"
	BUILTIN  Type = "builtin"
)

// Function is a callable value of the host runtime.
type Function interface {
	// Type of the function.
	Type() Type

	// Name of the function, or an empty string if anonymous.
	Name() string

	// Inspect returns a string representation of the function.
	Inspect() string
}

// Prototyped is implemented by script functions backed by a compiled
// prototype.
type Prototyped interface {
	Function
	Prototype() *proto.Prototype
}

// PrototypeOf resolves a script function to its prototype. It fails with an
// errz.ErrType error wrapping errz.ErrNativeFunction when fn is a native
// function.
func PrototypeOf(fn Function) (*proto.Prototype, error) {
	switch fn := fn.(type) {
	case nil:
		return nil, errz.NewStructuredError(errz.ErrType, "Lua function expected, got no value")
	case *Builtin:
		if fn == nil {
			return nil, errz.NewStructuredError(errz.ErrType,
				"Lua function expected, got C function").
				WithCause(errz.ErrNativeFunction)
		}
		return nil, errz.NewStructuredErrorf(errz.ErrType,
			"Lua function expected, got C function (%s)", fn.Key()).
			WithCause(errz.ErrNativeFunction)
	case Prototyped:
		p := fn.Prototype()
		if p == nil {
			return nil, errz.NewStructuredErrorf(errz.ErrValue,
				"function %q has no prototype", fn.Name())
		}
		return p, nil
	default:
		return nil, errz.NewStructuredErrorf(errz.ErrType,
			"Lua function expected, got %s", fn.Type())
	}
}
