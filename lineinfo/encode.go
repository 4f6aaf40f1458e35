package lineinfo

import (
	"encoding/binary"
	"slices"

	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/proto"
)

// EncodeDirect builds a direct table from per-instruction lines.
func EncodeDirect(lines []int) proto.LineInfo {
	return proto.NewDirectLineInfo(lines)
}

// EncodeDelta builds a delta table from per-instruction lines, relative to
// the line where the function is defined.
func EncodeDelta(lineDefined int, lines []int) proto.LineInfo {
	w := deltaWriter{previousLine: lineDefined}
	deltas := make([]int8, 0, len(lines))
	var anchors []proto.Anchor
	for pc, line := range lines {
		delta := w.next(line)
		deltas = append(deltas, delta)
		if delta == proto.AbsLineInfo {
			anchors = append(anchors, proto.Anchor{PC: pc, Line: line})
		}
	}
	return proto.NewDeltaLineInfo(deltas, anchors)
}

// deltaWriter holds the state needed to append one line at a time.
type deltaWriter struct {
	previousLine int
	// sinceAbs counts instructions added since the last anchor.
	sinceAbs int
}

func (w *deltaWriter) next(line int) int8 {
	delta := line - w.previousLine
	w.previousLine = line
	if delta <= -proto.LineDeltaLimit || delta >= proto.LineDeltaLimit ||
		w.sinceAbs >= proto.MaxInstructionsWithoutAbs {
		w.sinceAbs = 1
		return proto.AbsLineInfo
	}
	w.sinceAbs++
	return int8(delta)
}

// EncodePacked builds a packed table holding lines as offsets from
// firstLine. The element width is chosen from numLine, the span of the
// function. Every line must lie within [firstLine, firstLine+numLine].
func EncodePacked(firstLine, numLine int, lines []int) (proto.LineInfo, error) {
	if numLine < 0 {
		return proto.LineInfo{}, errz.NewStructuredErrorf(errz.ErrValue,
			"negative line span %d", numLine)
	}
	width := proto.PackedWidth(numLine)
	buf := make([]byte, 0, len(lines)*width)
	for pc, line := range lines {
		offset := line - firstLine
		if offset < 0 || offset > numLine {
			return proto.LineInfo{}, errz.NewStructuredErrorf(errz.ErrValue,
				"line %d of instruction %d outside span [%d, %d]", line, pc, firstLine, firstLine+numLine)
		}
		switch width {
		case 1:
			buf = append(buf, byte(offset))
		case 2:
			buf = binary.LittleEndian.AppendUint16(buf, uint16(offset))
		default:
			buf = binary.LittleEndian.AppendUint32(buf, uint32(offset))
		}
	}
	return proto.NewPackedLineInfo(firstLine, numLine, buf), nil
}

// Encoded is a line table together with the instruction count it belongs
// to.
type Encoded struct {
	LineInfo         proto.LineInfo
	InstructionCount int
}

// Encode builds the line table generation gen would produce for a function
// spanning lineDefined to lastLineDefined whose instructions map to lines.
//
// LuaJIT prototypes carry one more instruction than they have line
// entries, so the returned count is len(lines)+1 for that generation.
func Encode(gen Generation, lineDefined, lastLineDefined int, lines []int) (Encoded, error) {
	switch gen.Encoding() {
	case proto.EncodingDirect:
		return Encoded{EncodeDirect(lines), len(lines)}, nil
	case proto.EncodingDelta:
		return Encoded{EncodeDelta(lineDefined, lines), len(lines)}, nil
	case proto.EncodingPacked:
		numLine := max(lastLineDefined-lineDefined, 0)
		if len(lines) > 0 {
			numLine = max(numLine, slices.Max(lines)-lineDefined)
		}
		li, err := EncodePacked(lineDefined, numLine, lines)
		if err != nil {
			return Encoded{}, err
		}
		return Encoded{li, len(lines) + 1}, nil
	default:
		return Encoded{}, errz.NewStructuredErrorf(errz.ErrValue, "unknown VM generation %d", gen)
	}
}
