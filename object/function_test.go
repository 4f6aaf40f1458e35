package object

import (
	"context"
	"errors"
	"testing"

	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/proto"
	"github.com/stretchr/testify/require"
)

type otherFunction struct{}

func (otherFunction) Type() Type      { return "userdata" }
func (otherFunction) Name() string    { return "" }
func (otherFunction) Inspect() string { return "userdata" }

func TestPrototypeOfClosure(t *testing.T) {
	p := proto.New(proto.Params{Name: "f", LineDefined: 3})
	c := NewClosure(p)

	got, err := PrototypeOf(c)
	require.NoError(t, err)
	require.Same(t, p, got)
	require.Equal(t, FUNCTION, c.Type())
	require.Equal(t, "f", c.Name())
	require.Equal(t, "function: f", c.Inspect())
	require.Equal(t, "function f() ... end", c.String())
}

func TestPrototypeOfBuiltin(t *testing.T) {
	b := NewModuleBuiltin("string", "format", func(ctx context.Context, args ...any) ([]any, error) {
		return nil, nil
	})
	got, err := PrototypeOf(b)
	require.Nil(t, got)
	require.Error(t, err)
	require.True(t, errors.Is(err, errz.ErrNativeFunction))
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrType, kind)
	require.Contains(t, err.Error(), "Lua function expected, got C function")
	require.Contains(t, err.Error(), "string.format")

	var nilBuiltin *Builtin
	require.NotPanics(t, func() {
		got, err = PrototypeOf(nilBuiltin)
	})
	require.Nil(t, got)
	require.True(t, errors.Is(err, errz.ErrNativeFunction))
	kind, ok = errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrType, kind)
	require.Equal(t, "", nilBuiltin.Key())
	require.Equal(t, "", nilBuiltin.Name())
}

func TestPrototypeOfInvalid(t *testing.T) {
	_, err := PrototypeOf(nil)
	require.Error(t, err)
	require.False(t, errors.Is(err, errz.ErrNativeFunction))

	var nilClosure *Closure
	_, err = PrototypeOf(nilClosure)
	require.Error(t, err)
	require.Equal(t, "function: <nil>", nilClosure.Inspect())

	_, err = PrototypeOf(NewClosure(nil))
	require.Error(t, err)
	kind, _ := errz.KindOf(err)
	require.Equal(t, errz.ErrValue, kind)

	_, err = PrototypeOf(otherFunction{})
	require.EqualError(t, err, "type error: Lua function expected, got userdata")
}

func TestBuiltinCall(t *testing.T) {
	b := NewBuiltin("print", func(ctx context.Context, args ...any) ([]any, error) {
		return args, nil
	})
	out, err := b.Call(context.Background(), 1, "two")
	require.NoError(t, err)
	require.Equal(t, []any{1, "two"}, out)
	require.Equal(t, BUILTIN, b.Type())
	require.Equal(t, "print", b.Key())
	require.Equal(t, "builtin: print", b.Inspect())
	require.NotNil(t, b.Value())
}

func TestClosureUpvalues(t *testing.T) {
	c := NewClosureWithUpvalues(proto.New(proto.Params{}), 2)
	require.Equal(t, 2, c.UpvalueCount())
	require.Equal(t, "function: main chunk", c.Inspect())
	require.Equal(t, "function() ... end", c.String())
}
