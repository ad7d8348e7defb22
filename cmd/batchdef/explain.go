package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/batchdef/pkg/diff"
)

func newExplainCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <definition-file> <step>",
		Short: "Show what a step changes relative to its parent",
		Long: `Explain resolves a step and its direct parent and prints a unified diff of the
two effective policies. Lines prefixed with + are contributed by the step; lines
prefixed with - are inherited members the step excluded or overrode.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, rootFlags, args[0], args[1])
		},
	}

	return cmd
}

func runExplain(cmd *cobra.Command, rootFlags *rootFlags, path, step string) error {
	s, err := openSession(cmd, rootFlags, path)
	if err != nil {
		return err
	}

	child, err := s.resolver.Resolve(step)
	if err != nil {
		return newCommandError("explain", fmt.Sprintf("resolving step %q", step), err, suggestionFor(err))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, heading(out, "Step "+step))

	if child.Parent() == "" {
		fmt.Fprintln(out, "root step: the effective policy is the local declaration")
		fmt.Fprint(out, renderPolicy(child))
		return nil
	}

	parent, err := s.resolver.Resolve(child.Parent())
	if err != nil {
		return newCommandError("explain", fmt.Sprintf("resolving parent %q", child.Parent()), err, suggestionFor(err))
	}

	unified, stats := diff.GenerateWithStats(
		[]byte(renderPolicy(parent)),
		[]byte(renderPolicy(child)),
		parent.Step(),
		child.Step(),
	)
	fmt.Fprint(out, unified)
	fmt.Fprintf(out, "%d added, %d removed\n", stats.Added, stats.Removed)
	return nil
}
