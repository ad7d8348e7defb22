package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/batchdef/internal/inherit"
)

type resolveOptions struct {
	step       string
	jsonOutput bool
}

func newResolveCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <definition-file>",
		Short: "Print the effective policy of every concrete step",
		Long: `Resolve walks each step's inheritance chain and prints the effective skippable
and fatal exception types, streams and retry listeners. Use --step to resolve a
single step, including an abstract one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, rootFlags, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.step, "step", "", "Resolve only the named step")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output policies as JSON")

	return cmd
}

func runResolve(cmd *cobra.Command, rootFlags *rootFlags, path string, opts *resolveOptions) error {
	s, err := openSession(cmd, rootFlags, path)
	if err != nil {
		return err
	}

	var policies []*inherit.Policy
	if opts.step != "" {
		policy, err := s.resolver.Resolve(opts.step)
		if err != nil {
			return newCommandError("resolve", fmt.Sprintf("resolving step %q", opts.step), err, suggestionFor(err))
		}
		policies = append(policies, policy)
	} else {
		all, err := s.resolver.ResolveAll()
		if err != nil {
			return newCommandError("resolve", fmt.Sprintf("resolving %s", path), err, suggestionFor(err))
		}
		for _, name := range s.tree.Names() {
			if policy, ok := all[name]; ok {
				policies = append(policies, policy)
			}
		}
	}

	s.log.WithFields(map[string]any{"policies": len(policies)}).Info("resolution complete")

	if opts.jsonOutput {
		return renderResolveJSON(cmd, policies)
	}
	return renderResolveText(cmd, policies)
}

func renderResolveText(cmd *cobra.Command, policies []*inherit.Policy) error {
	out := cmd.OutOrStdout()
	for i, policy := range policies {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, heading(out, "Step "+policy.Step()))
		fmt.Fprint(out, renderPolicy(policy))
	}
	return nil
}

func renderResolveJSON(cmd *cobra.Command, policies []*inherit.Policy) error {
	payload := make([]policyJSON, 0, len(policies))
	for _, policy := range policies {
		payload = append(payload, newPolicyJSON(policy))
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
