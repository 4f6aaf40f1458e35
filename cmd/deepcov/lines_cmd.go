package main

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/deepcov"
	"github.com/deepnoodle-ai/deepcov/object"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type linesReport struct {
	VM              string `json:"vm,omitempty"`
	Function        string `json:"function"`
	Lines           []int  `json:"lines"`
	Prototypes      int    `json:"prototypes"`
	Instructions    int    `json:"instructions"`
	WithoutLineInfo int    `json:"without_line_info"`
	MaxNestingDepth int    `json:"max_depth"`
}

func newLinesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines <chunk>",
		Short: "Print the active lines of a chunk and every function nested in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return linesHandler(cmd, v, args[0])
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (json, text)")
	cmd.Flags().String("func", "", "start from the function with this name or id")
	_ = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func linesHandler(cmd *cobra.Command, v *viper.Viper, path string) error {
	c, err := loadChunk(v, path)
	if err != nil {
		return err
	}
	funcName, _ := cmd.Flags().GetString("func")
	p, err := findFunction(c.Root, funcName)
	if err != nil {
		return err
	}
	logger, err := getLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.Debug().Str("path", path).Str("vm", c.Generation.String()).Msg("loaded chunk")

	lines, err := deepcov.Get(object.NewClosure(p),
		deepcov.WithMaxDepth(v.GetInt("max-depth")),
		deepcov.WithLogger(logger))
	if err != nil {
		return err
	}

	stats := p.Stats()
	report := linesReport{
		Function:        p.DisplayName(),
		Lines:           lines.Sorted(),
		Prototypes:      stats.PrototypeCount,
		Instructions:    stats.InstructionCount,
		WithoutLineInfo: stats.WithoutLineInfo,
		MaxNestingDepth: stats.MaxDepth,
	}
	if c.Generation != 0 {
		report.VM = c.Generation.String()
	}
	if report.Lines == nil {
		report.Lines = []int{}
	}
	format, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd.OutOrStdout(), format, report, func(w io.Writer) error {
		for _, line := range report.Lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}
