package proto

import (
	"encoding/binary"
	"fmt"
)

// Encoding identifies the layout of a LineInfo table.
type Encoding uint8

const (
	// EncodingNone means the prototype carries no line information.
	EncodingNone Encoding = iota
	// EncodingDirect stores the absolute line of every instruction.
	EncodingDirect
	// EncodingDelta stores per-instruction deltas plus absolute anchors.
	EncodingDelta
	// EncodingPacked stores offsets from the first line in 1, 2 or 4 byte
	// unsigned elements.
	EncodingPacked
)

var encodingNames = map[Encoding]string{
	EncodingNone:   "none",
	EncodingDirect: "direct",
	EncodingDelta:  "delta",
	EncodingPacked: "packed",
}

// String returns the name of the encoding.
func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("encoding(%d)", uint8(e))
}

// ParseEncoding returns the Encoding with the given name.
func ParseEncoding(name string) (Encoding, bool) {
	for enc, n := range encodingNames {
		if n == name {
			return enc, true
		}
	}
	return EncodingNone, false
}

const (
	// AbsLineInfo marks a delta entry whose line is held in the anchor table.
	AbsLineInfo int8 = -0x80

	// LineDeltaLimit bounds the magnitude of a stored delta. A line change
	// of this size or more is recorded as an anchor instead.
	LineDeltaLimit = 0x80

	// MaxInstructionsWithoutAbs is the maximum number of consecutive
	// instructions that may be encoded without an anchor.
	MaxInstructionsWithoutAbs = 128
)

// Anchor is an absolute line checkpoint in a delta encoded table.
type Anchor struct {
	PC   int // Instruction index
	Line int // Absolute source line of that instruction
}

// String returns a formatted representation of the anchor.
func (a Anchor) String() string {
	return fmt.Sprintf("pc=%d line=%d", a.PC, a.Line)
}

// LineInfo is the line-number debug information of one prototype.
// The zero value has EncodingNone.
type LineInfo struct {
	encoding Encoding

	lines []int // EncodingDirect

	deltas  []int8 // EncodingDelta
	anchors []Anchor

	packed    []byte // EncodingPacked
	firstLine int
	numLine   int
	width     int
}

// NewDirectLineInfo creates a table holding one absolute line per instruction.
func NewDirectLineInfo(lines []int) LineInfo {
	return LineInfo{
		encoding: EncodingDirect,
		lines:    copySlice(lines),
	}
}

// NewDeltaLineInfo creates a delta table. Anchors must be sorted by PC and
// there must be one for every AbsLineInfo entry in deltas.
func NewDeltaLineInfo(deltas []int8, anchors []Anchor) LineInfo {
	return LineInfo{
		encoding: EncodingDelta,
		deltas:   copySlice(deltas),
		anchors:  copySlice(anchors),
	}
}

// NewPackedLineInfo creates a packed table. The element width is derived
// from numLine, the span between the first and last line of the function,
// and data must hold little-endian elements of that width.
func NewPackedLineInfo(firstLine, numLine int, data []byte) LineInfo {
	return LineInfo{
		encoding:  EncodingPacked,
		packed:    copySlice(data),
		firstLine: firstLine,
		numLine:   numLine,
		width:     PackedWidth(numLine),
	}
}

// PackedWidth returns the element size in bytes used to pack the lines of a
// function spanning numLine lines.
func PackedWidth(numLine int) int {
	switch {
	case numLine < 1<<8:
		return 1
	case numLine < 1<<16:
		return 2
	default:
		return 4
	}
}

// Encoding returns the layout of the table.
func (li LineInfo) Encoding() Encoding {
	return li.encoding
}

// IsZero returns true if the table carries no line information.
func (li LineInfo) IsZero() bool {
	return li.encoding == EncodingNone
}

// Len returns the number of per-instruction entries in the table.
func (li LineInfo) Len() int {
	switch li.encoding {
	case EncodingDirect:
		return len(li.lines)
	case EncodingDelta:
		return len(li.deltas)
	case EncodingPacked:
		if li.width == 0 {
			return 0
		}
		return len(li.packed) / li.width
	default:
		return 0
	}
}

// DirectAt returns the absolute line stored for instruction i.
func (li LineInfo) DirectAt(i int) int {
	return li.lines[i]
}

// DeltaAt returns the delta stored for instruction i, which may be
// AbsLineInfo.
func (li LineInfo) DeltaAt(i int) int8 {
	return li.deltas[i]
}

// AnchorCount returns the number of anchors in a delta table.
func (li LineInfo) AnchorCount() int {
	return len(li.anchors)
}

// AnchorAt returns the anchor at the given index.
func (li LineInfo) AnchorAt(index int) Anchor {
	return li.anchors[index]
}

// FirstLine returns the base line of a packed table.
func (li LineInfo) FirstLine() int {
	return li.firstLine
}

// NumLine returns the line span of a packed table.
func (li LineInfo) NumLine() int {
	return li.numLine
}

// Width returns the element size in bytes of a packed table.
func (li LineInfo) Width() int {
	return li.width
}

// PackedAt returns the offset stored in element i of a packed table.
func (li LineInfo) PackedAt(i int) uint32 {
	off := i * li.width
	switch li.width {
	case 1:
		return uint32(li.packed[off])
	case 2:
		return uint32(binary.LittleEndian.Uint16(li.packed[off:]))
	default:
		return binary.LittleEndian.Uint32(li.packed[off:])
	}
}

// PackedBytes returns a copy of the raw buffer of a packed table.
func (li LineInfo) PackedBytes() []byte {
	return copySlice(li.packed)
}
