package main

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/batchdef/internal/definition"
	"github.com/alexisbeaulieu97/batchdef/internal/inherit"
)

// renderPolicy formats a policy as indented text, one member per line. The output is
// stable for a given policy so two renderings can be diffed.
func renderPolicy(p *inherit.Policy) string {
	var b strings.Builder

	fmt.Fprintf(&b, "chain: %s\n", strings.Join(p.Chain(), " -> "))
	if p.Abstract() {
		b.WriteString("abstract: true\n")
	}
	writeSection(&b, "skippable", exceptionNames(p.Skippable()))
	writeSection(&b, "fatal", exceptionNames(p.Fatal()))
	writeSection(&b, "streams", refNames(p.Streams()))
	writeSection(&b, "retry_listeners", refNames(p.RetryListeners()))

	return b.String()
}

func writeSection(b *strings.Builder, title string, members []string) {
	fmt.Fprintf(b, "%s:\n", title)
	if len(members) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, m := range members {
		fmt.Fprintf(b, "  - %s\n", m)
	}
}

type policyJSON struct {
	Step           string   `json:"step"`
	Parent         string   `json:"parent,omitempty"`
	Chain          []string `json:"chain"`
	Abstract       bool     `json:"abstract,omitempty"`
	Skippable      []string `json:"skippable"`
	Fatal          []string `json:"fatal"`
	Streams        []string `json:"streams"`
	RetryListeners []string `json:"retry_listeners"`
}

func newPolicyJSON(p *inherit.Policy) policyJSON {
	return policyJSON{
		Step:           p.Step(),
		Parent:         p.Parent(),
		Chain:          p.Chain(),
		Abstract:       p.Abstract(),
		Skippable:      exceptionNames(p.Skippable()),
		Fatal:          exceptionNames(p.Fatal()),
		Streams:        refNames(p.Streams()),
		RetryListeners: refNames(p.RetryListeners()),
	}
}

func exceptionNames(set inherit.ExceptionSet) []string {
	types := set.Types()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func refNames(refs []definition.Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, string(r))
	}
	return out
}
