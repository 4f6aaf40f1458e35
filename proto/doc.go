// Package proto provides immutable representations of compiled Lua function
// prototypes and their line-number debug information.
//
// A [Prototype] is the compiled form of one function definition. It records
// where the function starts in the source, how many instructions it has,
// the nested prototypes defined inside it, and a [LineInfo] table mapping
// each instruction to a source line.
//
// # Line Encodings
//
// The layout of the line table depends on the VM generation that produced
// the prototype. [LineInfo] is a closed set of variants tagged by
// [Encoding]:
//
//   - [EncodingDirect]: one absolute line per instruction (Lua 5.1 to 5.3).
//   - [EncodingDelta]: one signed byte per instruction holding the delta from
//     the previous instruction's line, or [AbsLineInfo] meaning the line is
//     stored in the anchor table (Lua 5.4).
//   - [EncodingPacked]: unsigned offsets from the first line, one per
//     instruction, packed into 1, 2 or 4 byte elements depending on the
//     function's line span (LuaJIT).
//   - [EncodingNone]: the function was compiled without debug information.
//
// This package only stores the tables. Decoding lives in the lineinfo
// package.
//
// # Immutability Guarantees
//
// All types in this package are immutable after construction. Constructors
// copy input slices and index-based accessors are used for all collections:
//
//	p.ChildAt(0)
//	p.LineInfo().DeltaAt(3)
//	p.LineInfo().AnchorAt(1)
//
// Prototypes may therefore be shared safely between goroutines.
package proto
