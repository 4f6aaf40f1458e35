package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
)

var outputFormatsCompletion = []string{"json", "text"}

// Writes result as JSON, or calls text to render it for people.
func writeOutput(w io.Writer, format string, result any, text func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "", "text":
		return text(w)
	case "json":
		output, err := getOutputJSON(w, result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(w io.Writer, result any) ([]byte, error) {
	if color.NoColor || !isTerminal(w) {
		return json.MarshalIndent(result, "", "  ")
	}
	return prettyjson.Marshal(result)
}
