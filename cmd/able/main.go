package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/able/config"
)

const version = "0.1.0"

// errDiagnostics reports that a command printed syntax diagnostics. It
// only sets the exit status.
var errDiagnostics = errors.New("syntax errors found")

// settings is loaded before any subcommand runs.
var settings = config.Default()

func main() {
	var configPath string
	var verbose int

	rootCmd := &cobra.Command{
		Use:           "able",
		Short:         "Parse and check Able source files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				dir = "."
			}
			cfg, err := config.Resolve(configPath, dir)
			if err != nil {
				return err
			}
			if verbose > 0 {
				cfg.Log.Verbosity = verbose
			}
			settings = cfg
			commonlog.Configure(settings.Log.Verbosity, settings.LogPath())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "able:", err)
		}
		os.Exit(1)
	}
}
