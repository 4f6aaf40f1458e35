// Package chunk serializes prototype trees to JSON and YAML documents.
//
// A document lists every prototype of a tree in pre-order; each entry names
// its children by index. Line tables are written in raw form, exactly as
// the VM stores them, but may also be given in source form as a plain list
// of per-instruction lines, which is encoded at load time for the chunk's
// VM generation:
//
//	vm: "5.4"
//	functions:
//	  - name: main
//	    vararg: true
//	    lines: [1, 1, 2, 4]
//	    child_indices: [1]
//	  - line_defined: 2
//	    last_line_defined: 3
//	    lines: [3, 3]
package chunk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/lineinfo"
	"github.com/deepnoodle-ai/deepcov/proto"
)

// Format is a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// String returns the name of the format.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ParseFormat parses "json", "yaml" or "yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	msg := fmt.Sprintf("unknown chunk format %q", name)
	if hint := errz.DidYouMean(name, []string{"json", "yaml"}); hint != "" {
		msg += "; " + hint
	}
	return 0, errz.NewStructuredError(errz.ErrValue, msg)
}

// FormatFromPath picks the format from a file extension. Files without a
// YAML extension are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Chunk is a compiled main function together with the VM generation that
// produced it.
type Chunk struct {
	Generation lineinfo.Generation
	Root       *proto.Prototype
}

// Load reads and decodes the chunk stored at path. The generation is taken
// from the document, or defaultGen when the document does not name one.
func Load(path string, defaultGen lineinfo.Generation) (*Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, FormatFromPath(path), defaultGen)
}
