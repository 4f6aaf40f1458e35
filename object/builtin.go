package object

import (
	"context"
	"fmt"
)

var _ Function = (*Builtin)(nil) // Ensure that *Builtin implements Function

// BuiltinFunction holds the type of a native function.
type BuiltinFunction func(ctx context.Context, args ...any) ([]any, error)

// Builtin wraps a native Go function. It has no prototype and no line
// information.
type Builtin struct {
	// The function that this object wraps.
	fn BuiltinFunction

	// The name of the function.
	name string

	// The name of the library this function originates from (optional).
	moduleName string
}

// NewBuiltin returns a new Builtin with the given name and function.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}

// NewModuleBuiltin returns a new Builtin that belongs to a library.
func NewModuleBuiltin(moduleName, name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name, moduleName: moduleName}
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Key returns the fully-qualified name of the function, e.g. "string.format".
func (b *Builtin) Key() string {
	if b == nil {
		return ""
	}
	if b.moduleName == "" {
		return b.name
	}
	return fmt.Sprintf("%s.%s", b.moduleName, b.name)
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Call(ctx context.Context, args ...any) ([]any, error) {
	return b.fn(ctx, args...)
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin: %s", b.Key())
}

func (b *Builtin) String() string {
	return b.Inspect()
}
