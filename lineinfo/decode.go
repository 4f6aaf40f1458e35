package lineinfo

import (
	"github.com/deepnoodle-ai/deepcov/proto"
)

// NoLine is returned when an instruction has no line information.
const NoLine = -1

// ResolveLine returns the source line of instruction pc in p. It returns
// NoLine if p carries no line information or pc is outside the decodable
// range reported by Range.
func ResolveLine(p *proto.Prototype, pc int) int {
	start, end := Range(p)
	if p.IsVararg() && p.LineInfo().Encoding() == proto.EncodingDelta {
		// The prologue is skipped by scans but still has a line.
		start = 0
	}
	if pc < start || pc >= end {
		return NoLine
	}
	li := p.LineInfo()
	switch li.Encoding() {
	case proto.EncodingDirect:
		return li.DirectAt(pc)
	case proto.EncodingDelta:
		return funcLine(p.LineDefined(), li, pc)
	case proto.EncodingPacked:
		return li.FirstLine() + int(li.PackedAt(pc))
	default:
		return NoLine
	}
}

// Range returns the half-open interval of instructions whose lines are
// recorded when scanning p.
//
// The table length bounds direct and delta tables. A vararg prototype with
// a delta table starts at 1, skipping the synthetic prologue. Packed tables
// never describe the last instruction slot.
func Range(p *proto.Prototype) (start, end int) {
	li := p.LineInfo()
	switch li.Encoding() {
	case proto.EncodingDirect:
		return 0, li.Len()
	case proto.EncodingDelta:
		end = li.Len()
		if p.IsVararg() && end > 0 {
			start = 1
		}
		return start, end
	case proto.EncodingPacked:
		end = min(p.InstructionCount()-1, li.Len())
		return 0, max(end, 0)
	default:
		return 0, 0
	}
}

// baseLine finds the closest anchor at or before pc. It returns the anchor
// position and line, or -1 and lineDefined when pc precedes every anchor.
func baseLine(lineDefined int, li proto.LineInfo, pc int) (basePC, line int) {
	n := li.AnchorCount()
	if n == 0 || pc < li.AnchorAt(0).PC {
		return -1, lineDefined
	}
	// Anchors are at most MaxInstructionsWithoutAbs apart, so this is a
	// lower bound for tables written by the compiler.
	i := pc/proto.MaxInstructionsWithoutAbs - 1
	i = max(0, min(i, n-1))
	for i > 0 && li.AnchorAt(i).PC > pc {
		i--
	}
	for i+1 < n && li.AnchorAt(i+1).PC <= pc {
		i++
	}
	a := li.AnchorAt(i)
	return a.PC, a.Line
}

// funcLine returns the line of instruction pc in a delta table by walking
// forward from the closest anchor.
func funcLine(lineDefined int, li proto.LineInfo, pc int) int {
	basePC, line := baseLine(lineDefined, li, pc)
	for i := basePC + 1; i <= pc; i++ {
		line += int(li.DeltaAt(i))
	}
	return line
}
