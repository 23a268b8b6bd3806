package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/itsmostafa/jseval/internal/version"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jseval",
	Short: "Asynchronous JavaScript evaluation sessions",
	Long: `jseval runs JavaScript in a long-lived worker process and talks to it
over a structured message channel: one request in flight at a time, strict
reply-to-request correlation, and graceful teardown or restart.

The same binary is both the controller CLI and the worker process.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("jseval %s\n", version.String()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
