package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/able/lsp"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := lsp.NewServer(version)
			if err != nil {
				return err
			}
			return server.RunStdio()
		},
	}
}
