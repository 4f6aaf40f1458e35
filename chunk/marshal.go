package chunk

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"

	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/lineinfo"
	"github.com/deepnoodle-ai/deepcov/proto"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Serialization types

type anchorDef struct {
	PC   int `json:"pc" yaml:"pc"`
	Line int `json:"line" yaml:"line"`
}

type functionDef struct {
	ID              string `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	Source          string `json:"source,omitempty" yaml:"source,omitempty"`
	LineDefined     int    `json:"line_defined" yaml:"line_defined"`
	LastLineDefined int    `json:"last_line_defined" yaml:"last_line_defined"`
	Vararg          bool   `json:"vararg,omitempty" yaml:"vararg,omitempty"`
	ChildIndices    []int  `json:"child_indices,omitempty" yaml:"child_indices,omitempty"` // Indices of children in functions array
	Instructions    int    `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	NoDebug         bool   `json:"nodebug,omitempty" yaml:"nodebug,omitempty"`

	// Source form
	Lines []int `json:"lines,omitempty" yaml:"lines,omitempty"`

	// Raw form
	Encoding  string      `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	LineInfo  []int       `json:"lineinfo,omitempty" yaml:"lineinfo,omitempty"`
	Anchors   []anchorDef `json:"anchors,omitempty" yaml:"anchors,omitempty"`
	Packed    string      `json:"packed,omitempty" yaml:"packed,omitempty"` // base64
	FirstLine int         `json:"first_line,omitempty" yaml:"first_line,omitempty"`
	NumLine   int         `json:"num_line,omitempty" yaml:"num_line,omitempty"`
}

type chunkState struct {
	VM        string         `json:"vm,omitempty" yaml:"vm,omitempty"`
	Functions []*functionDef `json:"functions" yaml:"functions"`
}

// Marshal converts a chunk into a document of the given format.
func Marshal(c *Chunk, format Format) ([]byte, error) {
	state := stateFromChunk(c)
	if format == FormatYAML {
		return yaml.Marshal(state)
	}
	return json.MarshalIndent(state, "", "  ")
}

// Unmarshal converts a document into a chunk. Every problem found in the
// document is reported in a single errz.ErrFormat error wrapping
// errz.ErrBadChunk.
func Unmarshal(data []byte, format Format, defaultGen lineinfo.Generation) (*Chunk, error) {
	var state chunkState
	var err error
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &state)
	} else {
		err = json.Unmarshal(data, &state)
	}
	if err != nil {
		return nil, badChunk(err)
	}
	return chunkFromState(&state, defaultGen)
}

func badChunk(err error) error {
	return errz.NewStructuredError(errz.ErrFormat, "").
		WithCause(fmt.Errorf("%w: %w", errz.ErrBadChunk, err))
}

func stateFromChunk(c *Chunk) *chunkState {
	all := c.Root.Flatten()
	indexMap := make(map[*proto.Prototype]int, len(all))
	for i, p := range all {
		indexMap[p] = i
	}
	state := &chunkState{Functions: make([]*functionDef, len(all))}
	if c.Generation != 0 {
		state.VM = c.Generation.String()
	}
	for i, p := range all {
		def := &functionDef{
			ID:              p.ID(),
			Name:            p.Name(),
			Source:          p.Source(),
			LineDefined:     p.LineDefined(),
			LastLineDefined: p.LastLineDefined(),
			Vararg:          p.IsVararg(),
			Instructions:    p.InstructionCount(),
		}
		for j := 0; j < p.ChildCount(); j++ {
			def.ChildIndices = append(def.ChildIndices, indexMap[p.ChildAt(j)])
		}
		li := p.LineInfo()
		switch li.Encoding() {
		case proto.EncodingNone:
			def.NoDebug = true
		case proto.EncodingDirect:
			def.LineInfo = make([]int, li.Len())
			for j := range def.LineInfo {
				def.LineInfo[j] = li.DirectAt(j)
			}
		case proto.EncodingDelta:
			def.LineInfo = make([]int, li.Len())
			for j := range def.LineInfo {
				def.LineInfo[j] = int(li.DeltaAt(j))
			}
			for j := 0; j < li.AnchorCount(); j++ {
				a := li.AnchorAt(j)
				def.Anchors = append(def.Anchors, anchorDef{PC: a.PC, Line: a.Line})
			}
		case proto.EncodingPacked:
			def.Packed = base64.StdEncoding.EncodeToString(li.PackedBytes())
			def.FirstLine = li.FirstLine()
			def.NumLine = li.NumLine()
		}
		if !li.IsZero() {
			def.Encoding = li.Encoding().String()
		}
		state.Functions[i] = def
	}
	return state
}

func chunkFromState(state *chunkState, defaultGen lineinfo.Generation) (*Chunk, error) {
	gen := defaultGen
	if state.VM != "" {
		parsed, err := lineinfo.ParseGeneration(state.VM)
		if err != nil {
			return nil, badChunk(err)
		}
		gen = parsed
	}
	if len(state.Functions) == 0 {
		return nil, badChunk(fmt.Errorf("no functions"))
	}

	var errs *multierror.Error
	parents := make([]int, len(state.Functions))
	for i := range parents {
		parents[i] = -1
	}
	for i, def := range state.Functions {
		if def == nil {
			errs = multierror.Append(errs, fmt.Errorf("function %d: empty entry", i))
			continue
		}
		for _, child := range def.ChildIndices {
			switch {
			case child <= i || child >= len(state.Functions):
				// Children follow their parent, which also rules out cycles.
				errs = multierror.Append(errs, fmt.Errorf("function %d: invalid child index %d", i, child))
			case parents[child] >= 0:
				errs = multierror.Append(errs, fmt.Errorf("function %d: child %d already owned by function %d", i, child, parents[child]))
			default:
				parents[child] = i
			}
		}
	}
	for i := 1; i < len(parents); i++ {
		if parents[i] < 0 && state.Functions[i] != nil {
			errs = multierror.Append(errs, fmt.Errorf("function %d: not reachable from the main function", i))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, badChunk(err)
	}

	// Build bottom-up so children exist before their parents.
	protos := make([]*proto.Prototype, len(state.Functions))
	for i := len(state.Functions) - 1; i >= 0; i-- {
		def := state.Functions[i]
		enc, err := decodeLineInfo(def, gen)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("function %d: %w", i, err))
			continue
		}
		var children []*proto.Prototype
		for _, child := range def.ChildIndices {
			children = append(children, protos[child])
		}
		id := def.ID
		if id == "" {
			id = uuid.Must(uuid.NewV4()).String()
		}
		protos[i] = proto.New(proto.Params{
			ID:               id,
			Name:             def.Name,
			Source:           def.Source,
			Children:         children,
			LineDefined:      def.LineDefined,
			LastLineDefined:  def.LastLineDefined,
			IsVararg:         def.Vararg,
			InstructionCount: enc.InstructionCount,
			LineInfo:         enc.LineInfo,
		})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, badChunk(err)
	}
	return &Chunk{Generation: gen, Root: protos[0]}, nil
}

// decodeLineInfo builds the line table of one function from either its
// source or raw form.
func decodeLineInfo(def *functionDef, gen lineinfo.Generation) (lineinfo.Encoded, error) {
	hasRaw := def.Encoding != ""
	hasSource := def.Lines != nil
	switch {
	case def.NoDebug && (hasRaw || hasSource):
		return lineinfo.Encoded{}, fmt.Errorf("nodebug function carries line information")
	case def.NoDebug:
		if def.Instructions < 0 {
			return lineinfo.Encoded{}, fmt.Errorf("negative instruction count %d", def.Instructions)
		}
		return lineinfo.Encoded{InstructionCount: def.Instructions}, nil
	case hasRaw && hasSource:
		return lineinfo.Encoded{}, fmt.Errorf("both lines and encoding given")
	case hasSource:
		if gen == 0 {
			return lineinfo.Encoded{}, fmt.Errorf("lines given but no VM generation")
		}
		if def.Instructions < 0 {
			return lineinfo.Encoded{}, fmt.Errorf("negative instruction count %d", def.Instructions)
		}
		enc, err := lineinfo.Encode(gen, def.LineDefined, def.LastLineDefined, def.Lines)
		if err != nil {
			return lineinfo.Encoded{}, err
		}
		if def.Instructions > 0 {
			enc.InstructionCount = def.Instructions
		}
		return enc, nil
	case hasRaw:
		return decodeRaw(def, gen)
	default:
		return lineinfo.Encoded{}, fmt.Errorf("no line information; set nodebug for functions without it")
	}
}

func decodeRaw(def *functionDef, gen lineinfo.Generation) (lineinfo.Encoded, error) {
	encoding, ok := proto.ParseEncoding(def.Encoding)
	if !ok || encoding == proto.EncodingNone {
		return lineinfo.Encoded{}, fmt.Errorf("unknown encoding %q", def.Encoding)
	}
	if gen != 0 && gen.Encoding() != encoding {
		return lineinfo.Encoded{}, fmt.Errorf("encoding %s does not match VM %s", encoding, gen)
	}
	if def.Instructions < 0 {
		return lineinfo.Encoded{}, fmt.Errorf("negative instruction count %d", def.Instructions)
	}
	var enc lineinfo.Encoded
	switch encoding {
	case proto.EncodingDirect:
		enc = lineinfo.Encoded{
			LineInfo:         proto.NewDirectLineInfo(def.LineInfo),
			InstructionCount: len(def.LineInfo),
		}
	case proto.EncodingDelta:
		deltas := make([]int8, len(def.LineInfo))
		sentinels := 0
		for pc, v := range def.LineInfo {
			if v < math.MinInt8 || v > math.MaxInt8 {
				return lineinfo.Encoded{}, fmt.Errorf("delta %d at pc %d out of range", v, pc)
			}
			deltas[pc] = int8(v)
			if deltas[pc] == proto.AbsLineInfo {
				sentinels++
			}
		}
		if sentinels != len(def.Anchors) {
			return lineinfo.Encoded{}, fmt.Errorf("%d anchors for %d absolute entries", len(def.Anchors), sentinels)
		}
		anchors := make([]proto.Anchor, len(def.Anchors))
		for j, a := range def.Anchors {
			if j > 0 && a.PC <= anchors[j-1].PC {
				return lineinfo.Encoded{}, fmt.Errorf("anchor pcs not increasing at anchor %d", j)
			}
			if a.PC < 0 || a.PC >= len(deltas) || deltas[a.PC] != proto.AbsLineInfo {
				return lineinfo.Encoded{}, fmt.Errorf("anchor %d at pc %d has no absolute entry", j, a.PC)
			}
			anchors[j] = proto.Anchor{PC: a.PC, Line: a.Line}
		}
		enc = lineinfo.Encoded{
			LineInfo:         proto.NewDeltaLineInfo(deltas, anchors),
			InstructionCount: len(deltas),
		}
	case proto.EncodingPacked:
		buf, err := base64.StdEncoding.DecodeString(def.Packed)
		if err != nil {
			return lineinfo.Encoded{}, fmt.Errorf("packed line info: %w", err)
		}
		if def.NumLine < 0 {
			return lineinfo.Encoded{}, fmt.Errorf("negative line span %d", def.NumLine)
		}
		li := proto.NewPackedLineInfo(def.FirstLine, def.NumLine, buf)
		if len(buf)%li.Width() != 0 {
			return lineinfo.Encoded{}, fmt.Errorf("packed line info of %d bytes is not a multiple of width %d", len(buf), li.Width())
		}
		enc = lineinfo.Encoded{LineInfo: li, InstructionCount: li.Len() + 1}
	}
	if def.Instructions > 0 {
		enc.InstructionCount = def.Instructions
	}
	return enc, nil
}
