package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "0.3.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the graveyard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("graveyard", Version)
		},
	}
}
