package main

import (
	"github.com/deepnoodle-ai/deepcov/chunk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newConvertCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <chunk>",
		Short: "Rewrite a chunk with its line tables in raw form",
		Long: `Rewrite a chunk with its line tables in raw form.

Functions given as plain lists of lines are encoded the way the chunk's VM
generation stores them. The result is written to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertHandler(cmd, v, args[0])
		},
	}
	cmd.Flags().StringP("to", "t", "", "output format (json, yaml); defaults to the input format")
	_ = cmd.RegisterFlagCompletionFunc("to",
		cobra.FixedCompletions([]string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func convertHandler(cmd *cobra.Command, v *viper.Viper, path string) error {
	c, err := loadChunk(v, path)
	if err != nil {
		return err
	}
	format := chunk.FormatFromPath(path)
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		if format, err = chunk.ParseFormat(to); err != nil {
			return err
		}
	}
	data, err := chunk.Marshal(c, format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err = out.Write([]byte{'\n'})
	}
	return err
}
