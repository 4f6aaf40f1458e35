package coverage

import (
	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/lineinfo"
	"github.com/deepnoodle-ai/deepcov/proto"
	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds prototype nesting. It matches LUAI_MAXCCALLS, the
// limit the Lua compiler puts on nested functions.
const DefaultMaxDepth = 200

// Option configures a collection.
type Option func(*collector)

// WithMaxDepth sets the maximum nesting depth visited before Collect fails.
// Values <= 0 are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *collector) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithLogger sets a logger that receives one debug event per prototype.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *collector) {
		c.logger = logger
	}
}

type collector struct {
	maxDepth int
	logger   zerolog.Logger
	lines    ActiveLines
}

// Collect returns the active lines of root and every prototype nested inside
// it. Prototypes without line information contribute no lines, but the
// prototypes nested in them are still visited.
//
// The only error is exceeding the maximum nesting depth, in which case no
// lines are returned.
func Collect(root *proto.Prototype, opts ...Option) (ActiveLines, error) {
	c := &collector{
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
		lines:    ActiveLines{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if err := c.visit(root, 1); err != nil {
		return nil, err
	}
	return c.lines, nil
}

func (c *collector) visit(p *proto.Prototype, depth int) error {
	if depth > c.maxDepth {
		return errz.NewStructuredErrorf(errz.ErrLimit,
			"prototype nesting deeper than %d at %s", c.maxDepth, p.DisplayName()).
			WithCause(errz.ErrDepthExceeded)
	}
	added := addLines(c.lines, p)
	c.logger.Debug().
		Str("function", p.DisplayName()).
		Int("depth", depth).
		Str("encoding", p.LineInfo().Encoding().String()).
		Int("instructions", p.InstructionCount()).
		Int("recorded", added).
		Int("children", p.ChildCount()).
		Msg("collected prototype")
	for i := 0; i < p.ChildCount(); i++ {
		if err := c.visit(p.ChildAt(i), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// CollectPrototype returns the active lines of p alone, ignoring nested
// prototypes.
func CollectPrototype(p *proto.Prototype) ActiveLines {
	lines := ActiveLines{}
	addLines(lines, p)
	return lines
}

// addLines inserts the lines of p into lines and returns how many
// instructions were recorded.
func addLines(lines ActiveLines, p *proto.Prototype) int {
	if !p.HasLineInfo() {
		return 0
	}
	count := 0
	for _, line := range lineinfo.All(p) {
		lines[line] = true
		count++
	}
	return count
}
