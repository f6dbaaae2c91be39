package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/maneuver/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "maneuver "+version.String())
		},
	}
}
