package proto

// Stats contains statistics about a prototype tree.
type Stats struct {
	// PrototypeCount is the number of prototypes including the root.
	PrototypeCount int

	// InstructionCount is the total number of instructions in the tree.
	InstructionCount int

	// WithoutLineInfo counts prototypes compiled without debug information.
	WithoutLineInfo int

	// MaxDepth is the nesting depth of the tree. A lone root has depth 1.
	MaxDepth int
}
