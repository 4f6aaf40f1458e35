// Package deepcov reports the active lines of Lua functions: every source
// line holding at least one instruction, in the function itself and in all
// functions defined inside it.
//
// This is the set of lines a line-coverage tool can report as hit or
// missed:
//
//	lines, err := deepcov.Get(object.NewClosure(mainProto))
//	if err != nil {
//		return err
//	}
//	for _, line := range lines.Sorted() {
//		fmt.Println(line)
//	}
package deepcov

import (
	"fmt"

	"github.com/deepnoodle-ai/deepcov/coverage"
	"github.com/deepnoodle-ai/deepcov/object"
)

// Version of the active lines interface.
const Version = "0.1.0"

// Get returns the active lines of fn and of every function nested inside
// it. It fails when fn is a native function; use errors.Is with
// errz.ErrNativeFunction to detect that case. A script function without
// lines yields an empty, non-nil set.
func Get(fn object.Function, opts ...Option) (coverage.ActiveLines, error) {
	o := collectOptions(opts...)
	p, err := object.PrototypeOf(fn)
	if err != nil {
		return nil, fmt.Errorf("bad argument #1 to 'get': %w", err)
	}
	return coverage.Collect(p, o.collectorOpts()...)
}
