package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	path := writeChunk(t, "chunk.yaml", testChunk)
	out, _, err := execute(t, "lines", path)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n4\n5\n", out)
}

func TestLinesJSON(t *testing.T) {
	path := writeChunk(t, "chunk.yaml", testChunk)
	out, _, err := execute(t, "lines", "-o", "json", path)
	require.NoError(t, err)

	var report linesReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Equal(t, linesReport{
		VM:              "5.1",
		Function:        "main",
		Lines:           []int{1, 2, 3, 4, 5},
		Prototypes:      2,
		Instructions:    6,
		WithoutLineInfo: 0,
		MaxNestingDepth: 2,
	}, report)
}

func TestLinesFunc(t *testing.T) {
	path := writeChunk(t, "chunk.yaml", testChunk)
	out, _, err := execute(t, "lines", "--func", "helper", path)
	require.NoError(t, err)
	require.Equal(t, "3\n4\n", out)

	_, _, err = execute(t, "lines", "--func", "nope", path)
	require.EqualError(t, err, `function "nope" not found`)
}

func TestLinesVMFlag(t *testing.T) {
	path := writeChunk(t, "chunk.yaml", testChunkNoVM)
	out, _, err := execute(t, "--vm", "luajit", "lines", path)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n3\n", out)

	_, _, err = execute(t, "lines", path)
	require.Error(t, err)
	require.True(t, errors.Is(err, errz.ErrBadChunk))

	_, _, err = execute(t, "--vm", "6.1", "lines", path)
	require.Error(t, err)
}

func TestLinesMaxDepth(t *testing.T) {
	path := writeChunk(t, "chunk.yaml", testChunk)
	_, _, err := execute(t, "--max-depth", "1", "lines", path)
	require.Error(t, err)
	require.True(t, errors.Is(err, errz.ErrDepthExceeded))
}

func TestLinesDebugLogging(t *testing.T) {
	path := writeChunk(t, "chunk.yaml", testChunk)
	_, stderr, err := execute(t, "--log-level", "debug", "lines", path)
	require.NoError(t, err)
	require.Contains(t, stderr, "loaded chunk")
	require.Contains(t, stderr, "collected prototype")
}

func TestLinesEmpty(t *testing.T) {
	path := writeChunk(t, "chunk.json", `{"vm": "5.3", "functions": [{"lines": []}]}`)
	out, _, err := execute(t, "lines", "-o", "json", path)
	require.NoError(t, err)
	require.Contains(t, out, `"lines": []`)
}

func TestLinesFuncSuggestion(t *testing.T) {
	path := writeChunk(t, "chunk.yaml", testChunk)
	_, _, err := execute(t, "lines", "--func", "helpr", path)
	require.EqualError(t, err, `function "helpr" not found; did you mean 'helper'?`)
}
