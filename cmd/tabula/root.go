package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "tabula",
		Short: "SQL Server dialect tools",
		Long: `tabula rewrites LIMIT/OFFSET requests into SQL Server TOP queries and
runs statements through a configured dialect driver.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log connections and statements")

	cmd.AddCommand(newPageCmd())
	cmd.AddCommand(newQueryCmd())
	return cmd
}
