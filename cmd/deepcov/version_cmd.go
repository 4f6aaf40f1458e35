package main

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/deepcov"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  versionHandler,
	}
	cmd.Flags().StringP("output", "o", "text", "output format (json, text)")
	_ = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func versionHandler(cmd *cobra.Command, args []string) error {
	info := map[string]any{
		"version":   version,
		"commit":    commit,
		"date":      date,
		"interface": deepcov.Version,
	}
	format, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd.OutOrStdout(), format, info, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, version)
		return err
	})
}
