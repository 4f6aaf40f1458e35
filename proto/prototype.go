package proto

import "strconv"

// Prototype represents the compiled form of one function definition.
// It is immutable after creation and safe for concurrent use.
type Prototype struct {
	id       string
	name     string
	source   string
	children []*Prototype

	lineDefined      int
	lastLineDefined  int
	isVararg         bool
	instructionCount int

	// Debug information: maps each instruction to a source line
	lineInfo LineInfo
}

// Params contains parameters for creating a new Prototype.
type Params struct {
	ID               string
	Name             string
	Source           string
	Children         []*Prototype // Pre-built nested prototypes
	LineDefined      int
	LastLineDefined  int
	IsVararg         bool
	InstructionCount int
	LineInfo         LineInfo
}

// New creates a new immutable Prototype from the given parameters.
// The children slice is copied; the children themselves are shared.
func New(params Params) *Prototype {
	var children []*Prototype
	if len(params.Children) > 0 {
		children = make([]*Prototype, len(params.Children))
		copy(children, params.Children)
	}
	return &Prototype{
		id:               params.ID,
		name:             params.Name,
		source:           params.Source,
		children:         children,
		lineDefined:      params.LineDefined,
		lastLineDefined:  params.LastLineDefined,
		isVararg:         params.IsVararg,
		instructionCount: params.InstructionCount,
		lineInfo:         params.LineInfo,
	}
}

// ID returns the identifier of this prototype.
func (p *Prototype) ID() string {
	return p.id
}

// Name returns the function name, or an empty string for anonymous and main
// chunk functions.
func (p *Prototype) Name() string {
	return p.name
}

// Source returns the chunk name the prototype was compiled from.
func (p *Prototype) Source() string {
	return p.source
}

// LineDefined returns the line where the function definition starts.
// It is 0 for a main chunk.
func (p *Prototype) LineDefined() int {
	return p.lineDefined
}

// LastLineDefined returns the line where the function definition ends.
func (p *Prototype) LastLineDefined() int {
	return p.lastLineDefined
}

// IsVararg returns true if the function takes variable arguments.
func (p *Prototype) IsVararg() bool {
	return p.isVararg
}

// InstructionCount returns the number of bytecode instructions.
func (p *Prototype) InstructionCount() int {
	return p.instructionCount
}

// LineInfo returns the line table of the prototype.
func (p *Prototype) LineInfo() LineInfo {
	return p.lineInfo
}

// HasLineInfo returns true if the prototype was compiled with debug
// information.
func (p *Prototype) HasLineInfo() bool {
	return !p.lineInfo.IsZero()
}

// ChildCount returns the number of nested prototypes.
func (p *Prototype) ChildCount() int {
	return len(p.children)
}

// ChildAt returns the nested prototype at the given index.
func (p *Prototype) ChildAt(index int) *Prototype {
	return p.children[index]
}

// Flatten returns this prototype and all descendants in pre-order.
// Note: This returns a newly allocated slice, not internal state.
func (p *Prototype) Flatten() []*Prototype {
	var protos []*Prototype
	protos = append(protos, p)
	for _, child := range p.children {
		protos = append(protos, child.Flatten()...)
	}
	return protos
}

// DisplayName returns the name to show for this prototype in listings.
func (p *Prototype) DisplayName() string {
	if p.name != "" {
		return p.name
	}
	if p.lineDefined == 0 {
		return "main chunk"
	}
	return "function <" + p.source + ":" + strconv.Itoa(p.lineDefined) + ">"
}

// Stats returns statistics about the prototype tree rooted at p.
func (p *Prototype) Stats() Stats {
	var stats Stats
	p.collectStats(&stats, 1)
	return stats
}

func (p *Prototype) collectStats(stats *Stats, depth int) {
	stats.PrototypeCount++
	stats.InstructionCount += p.instructionCount
	if !p.HasLineInfo() {
		stats.WithoutLineInfo++
	}
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	for _, child := range p.children {
		child.collectStats(stats, depth+1)
	}
}
