package lineinfo

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/proto"
)

// Generation identifies the VM that produced a prototype. Each generation
// uses exactly one line encoding.
type Generation uint8

const (
	Lua51 Generation = iota + 1
	Lua52
	Lua53
	Lua54
	LuaJIT
)

var generationNames = map[Generation]string{
	Lua51:  "5.1",
	Lua52:  "5.2",
	Lua53:  "5.3",
	Lua54:  "5.4",
	LuaJIT: "luajit",
}

// Generations returns all supported generations, oldest first.
func Generations() []Generation {
	return []Generation{Lua51, Lua52, Lua53, Lua54, LuaJIT}
}

// String returns the canonical name of the generation.
func (g Generation) String() string {
	if name, ok := generationNames[g]; ok {
		return name
	}
	return "unknown"
}

// Encoding returns the line encoding used by the generation.
func (g Generation) Encoding() proto.Encoding {
	switch g {
	case Lua51, Lua52, Lua53:
		return proto.EncodingDirect
	case Lua54:
		return proto.EncodingDelta
	case LuaJIT:
		return proto.EncodingPacked
	default:
		return proto.EncodingNone
	}
}

// ParseGeneration parses names such as "5.4", "lua54", "Lua 5.1" or
// "luajit".
func ParseGeneration(name string) (Generation, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "luajit", "jit", "luajit2", "lj2":
		return LuaJIT, nil
	}
	s = strings.TrimPrefix(s, "lua")
	s = strings.ReplaceAll(s, ".", "")
	switch s {
	case "51":
		return Lua51, nil
	case "52":
		return Lua52, nil
	case "53":
		return Lua53, nil
	case "54":
		return Lua54, nil
	}
	msg := fmt.Sprintf("unknown VM generation %q", name)
	var names []string
	for _, g := range Generations() {
		names = append(names, g.String(), "lua"+g.String())
	}
	if hint := errz.DidYouMean(name, names); hint != "" {
		msg += "; " + hint
	}
	return 0, errz.NewStructuredError(errz.ErrValue, msg)
}
