package main

import (
	"strings"

	"github.com/deepnoodle-ai/deepcov/coverage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "deepcov",
		Short:         "Report the active lines of compiled Lua chunks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(v); err != nil {
				return err
			}
			processGlobalFlags(v)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default .deepcov.yaml in the working or home directory)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.String("vm", "", "VM generation for chunks that do not name one (5.1, 5.2, 5.3, 5.4, luajit)")
	flags.Int("max-depth", coverage.DefaultMaxDepth, "maximum function nesting depth")
	for _, name := range []string{"config", "no-color", "log-level", "vm", "max-depth"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
	_ = v.BindEnv("no-color", "DEEPCOV_NO_COLOR", "NO_COLOR")
	v.SetEnvPrefix("deepcov")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newLinesCmd(v),
		newDisCmd(v),
		newConvertCmd(v),
		newVersionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}
