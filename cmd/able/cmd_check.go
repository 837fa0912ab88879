package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dhamidi/able/format"
)

func newCheckCmd() *cobra.Command {
	var maxDiagnostics int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Report syntax errors in Able files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max") {
				maxDiagnostics = settings.Check.MaxDiagnostics
			}
			fd := os.Stdout.Fd()
			color := settings.UseColor(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
			printer := format.NewDiagnosticPrinter(os.Stdout, color)

			var files, failed, total int
			var size uint64
			for _, filename := range args {
				tree, err := parseFile(filename)
				if err != nil {
					return err
				}
				files++
				size += uint64(len(tree.Source))
				if !tree.HasErrors() {
					continue
				}
				failed++
				total += len(tree.Diagnostics)
				if err := printer.Print(tree, maxDiagnostics); err != nil {
					return err
				}
			}

			if !quiet {
				fmt.Fprintln(os.Stderr, summary(files, failed, total, size))
			}
			if failed > 0 {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDiagnostics, "max", 0, "print at most this many diagnostics per file (0 for all)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the summary")

	return cmd
}

// summary describes a check run: files read, their size and the errors
// found in them.
func summary(files, failed, total int, size uint64) string {
	return fmt.Sprintf("checked %s %s (%s), %s %s in %s %s",
		humanize.Comma(int64(files)), plural(files, "file", "files"),
		humanize.Bytes(size),
		humanize.Comma(int64(total)), plural(total, "error", "errors"),
		humanize.Comma(int64(failed)), plural(failed, "file", "files"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
