package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/able/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an Able file and print its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				outputFormat = settings.Output.Format
			}
			if !cmd.Flags().Changed("positions") {
				includePositions = settings.Output.Positions
			}

			tree, err := parseFile(args[0])
			if err != nil {
				return err
			}

			enc, err := format.NewEncoder(outputFormat, os.Stdout, format.Options{Positions: includePositions})
			if err != nil {
				return err
			}
			if err := enc.Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if tree.HasErrors() {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "sexp", "output format ("+strings.Join(format.Formats(), ", ")+")")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source positions")

	return cmd
}
