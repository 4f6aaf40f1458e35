// Package dis lists the line tables of prototypes one instruction at a time.
// Each entry shows the value stored in the table next to the line it
// resolves to, which makes anchors and skipped instructions easy to spot.
package dis

import (
	"fmt"
	"io"
	"strconv"

	"github.com/deepnoodle-ai/deepcov/internal/table"
	"github.com/deepnoodle-ai/deepcov/lineinfo"
	"github.com/deepnoodle-ai/deepcov/proto"
	"github.com/fatih/color"
)

// Entry describes the line table slot of a single instruction.
type Entry struct {
	PC int
	// Raw is the stored value: a line for direct tables, a signed delta
	// for delta tables and an offset from the first line for packed ones.
	// It is empty when the table has no slot for the instruction.
	Raw string
	// Line is the resolved source line, or lineinfo.NoLine.
	Line int
	// Anchor is set for delta entries whose line is stored absolutely.
	Anchor bool
	// Skipped is set for instructions whose line is not reported as active.
	Skipped bool
}

// Disassemble returns one entry per instruction of p. Table slots beyond the
// instruction count are listed as well.
func Disassemble(p *proto.Prototype) []Entry {
	li := p.LineInfo()
	count := max(p.InstructionCount(), li.Len())
	start, end := lineinfo.Range(p)
	entries := make([]Entry, 0, count)
	for pc := 0; pc < count; pc++ {
		entry := Entry{
			PC:      pc,
			Line:    lineinfo.ResolveLine(p, pc),
			Skipped: pc < start || pc >= end,
		}
		if pc < li.Len() {
			switch li.Encoding() {
			case proto.EncodingDirect:
				entry.Raw = strconv.Itoa(li.DirectAt(pc))
			case proto.EncodingDelta:
				delta := li.DeltaAt(pc)
				entry.Raw = strconv.Itoa(int(delta))
				entry.Anchor = delta == proto.AbsLineInfo
			case proto.EncodingPacked:
				entry.Raw = "+" + strconv.FormatUint(uint64(li.PackedAt(pc)), 10)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

var (
	faint   = color.New(color.Faint).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	cyan    = color.New(color.FgCyan).SprintFunc()
	heading = color.New(color.Bold).SprintFunc()
)

// Print writes entries to w as a table.
func Print(entries []Entry, w io.Writer) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		line := "-"
		if e.Line != lineinfo.NoLine {
			line = strconv.Itoa(e.Line)
		}
		var info string
		switch {
		case e.Anchor && e.Skipped:
			info = yellow("anchor") + " " + faint("skipped")
		case e.Anchor:
			info = yellow("anchor")
		case e.Skipped:
			info = faint("skipped")
		}
		if e.Skipped {
			line = faint(line)
		} else if e.Line != lineinfo.NoLine {
			line = cyan(line)
		}
		rows = append(rows, []string{strconv.Itoa(e.PC), e.Raw, line, info})
	}
	return table.NewTable(w).
		WithHeader([]string{"PC", "RAW", "LINE", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(rows).
		Render()
}

// Listing prints the line table of every prototype in the tree rooted at
// root, in pre-order.
func Listing(root *proto.Prototype, w io.Writer) error {
	for i, p := range root.Flatten() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, heading(p.DisplayName()), describe(p)); err != nil {
			return err
		}
		if !p.HasLineInfo() {
			if _, err := fmt.Fprintln(w, faint("no line information")); err != nil {
				return err
			}
			continue
		}
		if err := Print(Disassemble(p), w); err != nil {
			return err
		}
	}
	return nil
}

func describe(p *proto.Prototype) string {
	li := p.LineInfo()
	s := fmt.Sprintf("(%s, %d instructions", li.Encoding(), p.InstructionCount())
	switch li.Encoding() {
	case proto.EncodingDelta:
		s += fmt.Sprintf(", %d anchors", li.AnchorCount())
	case proto.EncodingPacked:
		s += fmt.Sprintf(", first line %d, span %d, width %d", li.FirstLine(), li.NumLine(), li.Width())
	}
	if p.IsVararg() {
		s += ", vararg"
	}
	return s + ")"
}
