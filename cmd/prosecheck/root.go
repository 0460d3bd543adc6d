package main

import (
	"github.com/spf13/cobra"

	"styleguide/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:   "prosecheck",
		Short: "Find AI-typical patterns in prose",
		Long: "prosecheck compares an AI-generated corpus with human writing, extracts\n" +
			"the patterns that mark the AI side, and scores documents against them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(flags.logLevel)
			if err != nil {
				return err
			}
			logging.Init(level, flags.logFormat, cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newAnalyzeCmd(),
		newCheckCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newServeCmd(),
	)
	return root
}
