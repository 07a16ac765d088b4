// Package cmd implements the coiz command-line interface: running a
// file or a REPL from the bare command, plus lex/parse/version
// subcommands for inspecting the earlier pipeline stages.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set by release build flags; it stays at its
	// development default for a `go build` with no ldflags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "coiz [script]",
	Short: "Coiz scripting language interpreter",
	Long: `coiz runs Coiz programs.

With no arguments it starts an interactive prompt. With one argument it
runs that file. Use the lex and parse subcommands to inspect earlier
pipeline stages without evaluating anything.`,
	Version:       Version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the CLI and returns any error the command itself decided
// should still be reported by main (exit-code-specific failures call
// os.Exit directly and never return).
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace each pipeline stage to standard error")
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runRoot implements the positional-argument contract: zero arguments
// starts the REPL, one argument runs that file (exiting 65 if the
// pipeline reported any error), and two or more is a usage error
// (exiting 64). These exact codes mirror the conventional Unix
// "data error" / "usage error" split the reference CLI follows.
func runRoot(cmd *cobra.Command, args []string) error {
	log := logger()

	switch len(args) {
	case 0:
		runREPL(log)
		return nil
	case 1:
		ok := runFile(args[0], log)
		if !ok {
			os.Exit(65)
		}
		return nil
	default:
		fmt.Fprintln(os.Stderr, "Usage: coiz [script]")
		os.Exit(64)
		return nil
	}
}
