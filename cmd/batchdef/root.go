package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose   bool
	logFormat string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "batchdef",
		Short:         "batchdef resolves inherited batch step definitions into effective policies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", logFormatAuto, "Log format: auto, console or json")

	cmd.AddCommand(newResolveCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newExplainCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
