package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <definition-file>",
		Short: "Check a definition file for schema, reference and cycle errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootFlags, args[0])
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, rootFlags *rootFlags, path string) error {
	s, err := openSession(cmd, rootFlags, path)
	if err != nil {
		return err
	}

	// Schema checks do not see cycles; resolving the whole tree does.
	policies, err := s.resolver.ResolveAll()
	if err != nil {
		return newCommandError("validate", fmt.Sprintf("resolving %s", path), err, suggestionFor(err))
	}

	mark := "OK"
	if isTerminal(cmd.OutOrStdout()) {
		mark = "✓"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d steps, %d concrete\n", mark, path, s.tree.Len(), len(policies))
	return nil
}
