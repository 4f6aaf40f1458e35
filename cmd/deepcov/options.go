package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/deepnoodle-ai/deepcov/chunk"
	"github.com/deepnoodle-ai/deepcov/errz"
	"github.com/deepnoodle-ai/deepcov/lineinfo"
	"github.com/deepnoodle-ai/deepcov/proto"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Reads the config file named by --config, or .deepcov.yaml from the working
// or home directory when it exists.
func readConfig(v *viper.Viper) error {
	explicit := v.GetString("config")
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(".deepcov")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func getGeneration(v *viper.Viper) (lineinfo.Generation, error) {
	name := v.GetString("vm")
	if name == "" {
		return 0, nil
	}
	return lineinfo.ParseGeneration(name)
}

func getLogger(v *viper.Viper, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), errz.NewStructuredErrorf(errz.ErrValue, "invalid log level %q", v.GetString("log-level"))
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func loadChunk(v *viper.Viper, path string) (*chunk.Chunk, error) {
	gen, err := getGeneration(v)
	if err != nil {
		return nil, err
	}
	return chunk.Load(path, gen)
}

// Returns the first prototype in pre-order whose name or id matches name, or
// root when name is empty.
func findFunction(root *proto.Prototype, name string) (*proto.Prototype, error) {
	if name == "" {
		return root, nil
	}
	var names []string
	for _, p := range root.Flatten() {
		if p.Name() == name || p.ID() == name {
			return p, nil
		}
		names = append(names, p.Name())
	}
	if hint := errz.DidYouMean(name, names); hint != "" {
		return nil, fmt.Errorf("function %q not found; %s", name, hint)
	}
	return nil, fmt.Errorf("function %q not found", name)
}
