// Package cmd provides the Cobra CLI commands for strata.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataview/strata/internal/cli"
)

var (
	app     *cli.App
	rootCmd = &cobra.Command{
		Use:   "strata",
		Short: "Session-state engine for a spaces-and-tabs browser",
		Long: `Strata manages browsing session state: spaces, tabs, bookmarks,
frecency-ranked history, omnibox search composition, and cached page
summaries.

The engine persists everything in a local SQLite store; the subcommands
inspect and mutate that state.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}
			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app for use by subcommands.
func GetApp() *cli.App {
	return app
}
