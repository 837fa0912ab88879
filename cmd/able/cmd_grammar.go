package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dhamidi/able/able"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the Able grammar and parse table",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarStatesCmd())
	cmd.AddCommand(newGrammarMatchCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify able.ebnf and cross-check it against the parse table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			errs := able.CheckGrammar(startProduction)
			for _, err := range errs {
				fmt.Println(err)
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d grammar problems", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "source_file", "start production for verification")

	return cmd
}

func newGrammarStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List parse states with their lex mode and valid terminals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := able.Table()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATE\tMODE\tVALID")
			for _, s := range t.States {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, t.LexModes[s.LexMode], t.Valid(s.ID).Format(t))
			}
			return w.Flush()
		},
	}
}

func newGrammarMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <production> <text>",
		Short: "Report how much of text a lexical production of able.ebnf matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := able.Grammar()
			if err != nil {
				return err
			}
			name, text := args[0], args[1]
			if !g.Has(name) {
				return fmt.Errorf("no production %q in able.ebnf", name)
			}
			n, ok := g.Match(name, []byte(text))
			switch {
			case !ok:
				fmt.Printf("%s: no match\n", name)
			case n == len(text):
				fmt.Printf("%s: matches %q\n", name, text)
			default:
				fmt.Printf("%s: matches prefix %q, rest %q\n", name, text[:n], text[n:])
			}
			if !ok || n != len(text) {
				return errDiagnostics
			}
			return nil
		},
	}
}
