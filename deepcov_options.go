package deepcov

import (
	"github.com/deepnoodle-ai/deepcov/coverage"
	"github.com/rs/zerolog"
)

// Option configures a call to Get.
type Option func(*options)

type options struct {
	maxDepth int
	logger   *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) collectorOpts() []coverage.Option {
	var opts []coverage.Option
	if o.maxDepth > 0 {
		opts = append(opts, coverage.WithMaxDepth(o.maxDepth))
	}
	if o.logger != nil {
		opts = append(opts, coverage.WithLogger(*o.logger))
	}
	return opts
}

// WithMaxDepth limits how deeply nested functions may be before Get fails.
// The default is coverage.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger sets a logger that receives a debug event for every visited
// function.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}
