package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/textforge/value"
	"github.com/kbukum/textforge/version"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return nil
			}
			data, err := value.Encode(value.Structured(map[string]any{
				"version":    info.Version,
				"commit":     info.Commit,
				"build_time": info.BuildTime,
				"go_version": info.GoVersion,
				"dirty":      info.Dirty,
			}))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
