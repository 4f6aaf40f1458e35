package lineinfo

import (
	"iter"

	"github.com/deepnoodle-ai/deepcov/proto"
)

// Scanner walks the decodable instructions of one prototype in order.
//
// For delta tables the scanner keeps a running line, so each step costs one
// addition except at anchors. The running line never outlives the scanner.
type Scanner struct {
	p       *proto.Prototype
	li      proto.LineInfo
	pc      int
	end     int
	current int
}

// NewScanner creates a scanner positioned at the first recorded instruction
// of p.
func NewScanner(p *proto.Prototype) *Scanner {
	s := &Scanner{
		p:       p,
		li:      p.LineInfo(),
		current: p.LineDefined(),
	}
	s.pc, s.end = Range(p)
	if s.li.Encoding() == proto.EncodingDelta && s.pc == 1 {
		// Resolve the vararg prologue to get the baseline without
		// yielding it.
		s.current = s.nextLine(0)
	}
	return s
}

// Next returns the next instruction and its line. The final return value is
// false once the scan is exhausted.
func (s *Scanner) Next() (pc, line int, ok bool) {
	if s.pc >= s.end {
		return 0, NoLine, false
	}
	pc = s.pc
	s.pc++
	switch s.li.Encoding() {
	case proto.EncodingDirect:
		line = s.li.DirectAt(pc)
	case proto.EncodingDelta:
		s.current = s.nextLine(pc)
		line = s.current
	case proto.EncodingPacked:
		line = s.li.FirstLine() + int(s.li.PackedAt(pc))
	default:
		return 0, NoLine, false
	}
	return pc, line, true
}

func (s *Scanner) nextLine(pc int) int {
	if delta := s.li.DeltaAt(pc); delta != proto.AbsLineInfo {
		return s.current + int(delta)
	}
	return funcLine(s.p.LineDefined(), s.li, pc)
}

// All returns an iterator over the instructions of p and their lines.
func All(p *proto.Prototype) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		s := NewScanner(p)
		for {
			pc, line, ok := s.Next()
			if !ok || !yield(pc, line) {
				return
			}
		}
	}
}

// Lines returns the line of every recorded instruction of p, in order.
func Lines(p *proto.Prototype) []int {
	var lines []int
	for _, line := range All(p) {
		lines = append(lines, line)
	}
	return lines
}
