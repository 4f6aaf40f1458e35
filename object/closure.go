package object

import (
	"fmt"

	"github.com/deepnoodle-ai/deepcov/proto"
)

var _ Prototyped = (*Closure)(nil) // Ensure that *Closure implements Prototyped

// Closure is a script function instance. It references an immutable
// prototype holding its compiled code and debug information.
type Closure struct {
	proto        *proto.Prototype
	upvalueCount int
}

// NewClosure creates a Closure over the given prototype.
func NewClosure(p *proto.Prototype) *Closure {
	return &Closure{proto: p}
}

// NewClosureWithUpvalues creates a Closure that captures n upvalues.
func NewClosureWithUpvalues(p *proto.Prototype, n int) *Closure {
	return &Closure{proto: p, upvalueCount: n}
}

func (c *Closure) Type() Type {
	return FUNCTION
}

// Name returns the function name (delegates to the prototype).
func (c *Closure) Name() string {
	if c == nil || c.proto == nil {
		return ""
	}
	return c.proto.Name()
}

// Prototype returns the compiled function.
func (c *Closure) Prototype() *proto.Prototype {
	if c == nil {
		return nil
	}
	return c.proto
}

// UpvalueCount returns the number of captured variables.
func (c *Closure) UpvalueCount() int {
	return c.upvalueCount
}

func (c *Closure) Inspect() string {
	if c == nil || c.proto == nil {
		return "function: <nil>"
	}
	return fmt.Sprintf("function: %s", c.proto.DisplayName())
}

func (c *Closure) String() string {
	if name := c.Name(); name != "" {
		return fmt.Sprintf("function %s() ... end", name)
	}
	return "function() ... end"
}
