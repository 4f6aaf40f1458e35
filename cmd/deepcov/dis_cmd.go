package main

import (
	"github.com/deepnoodle-ai/deepcov/dis"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDisCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis <chunk>",
		Short: "Print the line table of every function in a chunk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disHandler(cmd, v, args[0])
		},
	}
	cmd.Flags().String("func", "", "function to disassemble, by name or id")
	return cmd
}

func disHandler(cmd *cobra.Command, v *viper.Viper, path string) error {
	c, err := loadChunk(v, path)
	if err != nil {
		return err
	}
	funcName, _ := cmd.Flags().GetString("func")
	p, err := findFunction(c.Root, funcName)
	if err != nil {
		return err
	}
	return dis.Listing(p, cmd.OutOrStdout())
}
