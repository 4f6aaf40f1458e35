// Package coverage collects the active lines of Lua function prototypes.
//
// An active line is a source line that holds at least one instruction and
// can therefore be reported as covered or missed by a coverage tool.
package coverage

import (
	"maps"
	"slices"
)

// ActiveLines is the set of active lines of a prototype tree. Every value
// is true; absent lines are not active.
type ActiveLines map[int]bool

// Add marks line as active.
func (a ActiveLines) Add(line int) {
	a[line] = true
}

// Has returns true if line is active.
func (a ActiveLines) Has(line int) bool {
	return a[line]
}

// Len returns the number of active lines.
func (a ActiveLines) Len() int {
	return len(a)
}

// Union adds every line of other to a.
func (a ActiveLines) Union(other ActiveLines) {
	for line := range other {
		a[line] = true
	}
}

// Sorted returns the active lines in ascending order.
func (a ActiveLines) Sorted() []int {
	return slices.Sorted(maps.Keys(a))
}
