package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/textforge/stages"
)

func newStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the stage kinds usable in a pipeline definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, kind := range stages.NewRegistry().Kinds() {
				fmt.Fprintln(out, kind)
			}
			return nil
		},
	}
}
