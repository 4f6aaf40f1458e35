package chunk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/deepnoodle-ai/deepcov/coverage"
	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/lineinfo"
	"github.com/deepnoodle-ai/deepcov/proto"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

const sourceChunk = `
functions:
  - id: main
    name: main
    source: "@demo.lua"
    vararg: true
    lines: [1, 2, 2, 9, 9, 400, 10]
    child_indices: [1, 3]
  - id: outer
    line_defined: 2
    last_line_defined: 8
    lines: [3, 4, 8]
    child_indices: [2]
  - id: inner
    line_defined: 4
    last_line_defined: 6
    lines: [5, 6]
  - id: stripped
    line_defined: 11
    last_line_defined: 12
    nodebug: true
    instructions: 4
`

func TestUnmarshalSourceForm(t *testing.T) {
	for _, gen := range lineinfo.Generations() {
		t.Run(gen.String(), func(t *testing.T) {
			c, err := Unmarshal([]byte(sourceChunk), FormatYAML, gen)
			require.NoError(t, err)
			require.Equal(t, gen, c.Generation)

			root := c.Root
			require.Equal(t, "main", root.ID())
			require.Equal(t, "@demo.lua", root.Source())
			require.Equal(t, 2, root.ChildCount())
			require.Equal(t, "inner", root.ChildAt(0).ChildAt(0).ID())
			require.False(t, root.ChildAt(1).HasLineInfo())
			require.Equal(t, 4, root.ChildAt(1).InstructionCount())
			require.Equal(t, gen.Encoding(), root.LineInfo().Encoding())

			lines, err := coverage.Collect(root)
			require.NoError(t, err)
			expected := []int{1, 2, 3, 4, 5, 6, 8, 9, 10, 400}
			if gen == lineinfo.Lua54 {
				// The vararg prologue is the only instruction on line 1.
				expected = expected[1:]
			}
			require.Equal(t, expected, lines.Sorted())
		})
	}
}

func TestUnmarshalSourceFormInstructions(t *testing.T) {
	tests := []struct {
		name         string
		doc          string
		instructions int
		lines        []int
	}{
		{
			"luajit default count",
			`{"vm": "luajit", "functions": [{"line_defined": 1, "last_line_defined": 3, "lines": [1, 2, 3]}]}`,
			4,
			[]int{1, 2, 3},
		},
		{
			"luajit explicit count",
			`{"vm": "luajit", "functions": [{"line_defined": 1, "last_line_defined": 3, "lines": [1, 2, 3], "instructions": 3}]}`,
			3,
			[]int{1, 2},
		},
		{
			"direct explicit count",
			`{"vm": "5.2", "functions": [{"lines": [1, 2], "instructions": 5}]}`,
			5,
			[]int{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Unmarshal([]byte(tt.doc), FormatJSON, 0)
			require.NoError(t, err)
			require.Equal(t, tt.instructions, c.Root.InstructionCount())
			require.Equal(t, tt.lines, lineinfo.Lines(c.Root))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, gen := range lineinfo.Generations() {
		for _, format := range []Format{FormatJSON, FormatYAML} {
			t.Run(gen.String()+"/"+format.String(), func(t *testing.T) {
				c, err := Unmarshal([]byte(sourceChunk), FormatYAML, gen)
				require.NoError(t, err)

				data, err := Marshal(c, format)
				require.NoError(t, err)

				// The raw form carries its own generation.
				again, err := Unmarshal(data, format, 0)
				require.NoError(t, err)
				require.Equal(t, gen, again.Generation)

				before := c.Root.Flatten()
				after := again.Root.Flatten()
				require.Len(t, after, len(before))
				for i := range before {
					require.Equal(t, before[i].ID(), after[i].ID())
					require.Equal(t, before[i].InstructionCount(), after[i].InstructionCount())
					require.Equal(t, before[i].LineInfo().Encoding(), after[i].LineInfo().Encoding())
					require.Equal(t, lineinfo.Lines(before[i]), lineinfo.Lines(after[i]))
					require.Equal(t, before[i].IsVararg(), after[i].IsVararg())
				}

				want, err := coverage.Collect(c.Root)
				require.NoError(t, err)
				got, err := coverage.Collect(again.Root)
				require.NoError(t, err)
				require.Equal(t, want, got)
			})
		}
	}
}

func TestUnmarshalRawForm(t *testing.T) {
	doc := `{
  "vm": "5.4",
  "functions": [
    {
      "line_defined": 0,
      "encoding": "delta",
      "lineinfo": [1, 1, -128, 2],
      "anchors": [{"pc": 2, "line": 300}]
    }
  ]
}`
	c, err := Unmarshal([]byte(doc), FormatJSON, 0)
	require.NoError(t, err)
	require.Equal(t, lineinfo.Lua54, c.Generation)
	require.Equal(t, []int{1, 2, 300, 302}, lineinfo.Lines(c.Root))
	require.Equal(t, 4, c.Root.InstructionCount())

	packed := `{
  "vm": "luajit",
  "functions": [
    {"line_defined": 10, "encoding": "packed", "packed": "AAEC", "first_line": 10, "num_line": 3}
  ]
}`
	c, err = Unmarshal([]byte(packed), FormatJSON, 0)
	require.NoError(t, err)
	require.Equal(t, 4, c.Root.InstructionCount())
	require.Equal(t, []int{10, 11, 12}, lineinfo.Lines(c.Root))
}

func TestUnmarshalAssignsIDs(t *testing.T) {
	doc := `
vm: "5.1"
functions:
  - lines: [1]
`
	c, err := Unmarshal([]byte(doc), FormatYAML, 0)
	require.NoError(t, err)
	_, err = uuid.FromString(c.Root.ID())
	require.NoError(t, err)
}

func TestUnmarshalCollectsProblems(t *testing.T) {
	doc := `
vm: "5.4"
functions:
  - lines: [1]
    child_indices: [0, 5]
  - lines: [2]
`
	_, err := Unmarshal([]byte(doc), FormatYAML, 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, errz.ErrBadChunk))
	kind, _ := errz.KindOf(err)
	require.Equal(t, errz.ErrFormat, kind)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 3)
	require.Contains(t, err.Error(), "invalid child index 0")
	require.Contains(t, err.Error(), "invalid child index 5")
	require.Contains(t, err.Error(), "function 1: not reachable")
}

func TestUnmarshalLineInfoProblems(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
	}{
		{
			"source form without generation",
			`{"functions": [{"lines": [1]}]}`,
			"no VM generation",
		},
		{
			"both forms",
			`{"vm": "5.1", "functions": [{"lines": [1], "encoding": "direct", "lineinfo": [1]}]}`,
			"both lines and encoding",
		},
		{
			"encoding mismatch",
			`{"vm": "5.1", "functions": [{"encoding": "delta", "lineinfo": [1]}]}`,
			"does not match VM 5.1",
		},
		{
			"unknown encoding",
			`{"functions": [{"encoding": "zigzag"}]}`,
			"unknown encoding",
		},
		{
			"delta out of range",
			`{"functions": [{"encoding": "delta", "lineinfo": [200]}]}`,
			"out of range",
		},
		{
			"missing anchor",
			`{"functions": [{"encoding": "delta", "lineinfo": [1, -128]}]}`,
			"0 anchors for 1 absolute entries",
		},
		{
			"misplaced anchor",
			`{"functions": [{"encoding": "delta", "lineinfo": [-128, 1], "anchors": [{"pc": 1, "line": 4}]}]}`,
			"has no absolute entry",
		},
		{
			"bad packed width",
			`{"functions": [{"encoding": "packed", "packed": "AAEC", "num_line": 300}]}`,
			"not a multiple of width 2",
		},
		{
			"nodebug with lines",
			`{"vm": "5.3", "functions": [{"nodebug": true, "lines": [1]}]}`,
			"nodebug function carries line information",
		},
		{
			"no line information",
			`{"functions": [{"name": "f"}]}`,
			"set nodebug",
		},
		{
			"negative instructions with lines",
			`{"vm": "5.1", "functions": [{"lines": [1], "instructions": -1}]}`,
			"negative instruction count -1",
		},
		{
			"no functions",
			`{"functions": []}`,
			"no functions",
		},
		{
			"unknown vm",
			`{"vm": "6.0", "functions": [{"lines": [1]}]}`,
			"unknown VM generation",
		},
		{
			"packed line before first line",
			`{"vm": "luajit", "functions": [{"line_defined": 5, "lines": [4]}]}`,
			"outside span",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.doc), FormatJSON, 0)
			require.Error(t, err)
			require.True(t, errors.Is(err, errz.ErrBadChunk))
			require.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestUnmarshalSyntaxError(t *testing.T) {
	_, err := Unmarshal([]byte("{"), FormatJSON, lineinfo.Lua51)
	require.True(t, errors.Is(err, errz.ErrBadChunk))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yml")
	require.NoError(t, os.WriteFile(path, []byte(sourceChunk), 0o644))

	c, err := Load(path, lineinfo.Lua53)
	require.NoError(t, err)
	require.Equal(t, proto.EncodingDirect, c.Root.LineInfo().Encoding())

	_, err = Load(filepath.Join(dir, "missing.json"), lineinfo.Lua53)
	require.Error(t, err)
}

func TestFormats(t *testing.T) {
	require.Equal(t, FormatYAML, FormatFromPath("a/b.YAML"))
	require.Equal(t, FormatYAML, FormatFromPath("b.yml"))
	require.Equal(t, FormatJSON, FormatFromPath("b.json"))
	require.Equal(t, FormatJSON, FormatFromPath("b"))

	f, err := ParseFormat("yml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	require.Error(t, err)
}

func TestParseFormatSuggestion(t *testing.T) {
	_, err := ParseFormat("jsno")
	require.EqualError(t, err, `value error: unknown chunk format "jsno"; did you mean 'json'?`)
}
