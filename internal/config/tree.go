package config

import (
	"github.com/alexisbeaulieu97/batchdef/internal/definition"
	"github.com/alexisbeaulieu97/batchdef/internal/inherit"
	"github.com/alexisbeaulieu97/batchdef/internal/merge"
)

// Tree converts the document into an immutable definition tree.
func (d *Document) Tree() (*definition.Tree, error) {
	b := definition.NewBuilder()
	for _, step := range d.Steps {
		b.Add(step.Definition())
	}
	return b.Build()
}

// Baseline returns the document defaults as a resolver baseline.
func (d *Document) Baseline() inherit.Baseline {
	return inherit.Baseline{
		Skippable: exceptionTypes(d.Defaults.Skippable),
		Fatal:     exceptionTypes(d.Defaults.Fatal),
	}
}

// Definition converts a single declaration.
func (s StepDecl) Definition() definition.StepDefinition {
	return definition.StepDefinition{
		Name:           s.Name,
		Parent:         s.Parent,
		Abstract:       s.Abstract,
		Skippable:      s.Skippable.list(),
		Fatal:          s.Fatal.list(),
		Streams:        s.Streams.list(),
		RetryListeners: s.RetryListeners.list(),
	}
}

func (d ExceptionsDecl) list() definition.ExceptionList {
	entries := make([]definition.ExceptionEntry, 0, len(d.Classes))
	for _, c := range d.Classes {
		entries = append(entries, definition.ExceptionEntry{Type: definition.ExceptionType(c.Class), Exclude: c.Exclude})
	}
	return definition.ExceptionList{Entries: entries, Mode: merge.FromBool(d.MergeEnabled())}
}

func (d RefsDecl) list() definition.RefList {
	refs := make([]definition.Ref, 0, len(d.Refs))
	for _, r := range d.Refs {
		refs = append(refs, definition.Ref(r))
	}
	return definition.RefList{Refs: refs, Mode: merge.FromBool(d.MergeEnabled())}
}

func exceptionTypes(names []string) []definition.ExceptionType {
	if len(names) == 0 {
		return nil
	}
	out := make([]definition.ExceptionType, 0, len(names))
	for _, n := range names {
		out = append(out, definition.ExceptionType(n))
	}
	return out
}
