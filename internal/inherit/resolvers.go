package inherit

import (
	"github.com/alexisbeaulieu97/batchdef/internal/definition"
	"github.com/alexisbeaulieu97/batchdef/internal/merge"
)

func exceptionKey(e definition.ExceptionEntry) definition.ExceptionType { return e.Type }

func exceptionExcluded(e definition.ExceptionEntry) bool { return e.Exclude }

func refKey(r definition.Ref) definition.Ref { return r }

// ResolveExceptions merges a classifier collection (skippable or fatal) over the parent's
// effective set. Child exclusions remove inherited members.
func ResolveExceptions(parent ExceptionSet, local definition.ExceptionList) ExceptionSet {
	inherited := make([]definition.ExceptionEntry, 0, parent.Len())
	for _, t := range parent.types {
		inherited = append(inherited, definition.ExceptionEntry{Type: t})
	}

	effective := merge.Apply(inherited, local.Entries, local.Mode, exceptionKey, exceptionExcluded)

	types := make([]definition.ExceptionType, 0, len(effective))
	for _, e := range effective {
		types = append(types, e.Type)
	}
	return NewExceptionSet(types...)
}

// ResolveStreams merges stream references, keeping the parent's order first.
func ResolveStreams(parent []definition.Ref, local definition.RefList) []definition.Ref {
	return merge.Apply(parent, local.Refs, local.Mode, refKey, nil)
}

// ResolveRetryListeners merges retry listener references. Order is invocation order.
func ResolveRetryListeners(parent []definition.Ref, local definition.RefList) []definition.Ref {
	return merge.Apply(parent, local.Refs, local.Mode, refKey, nil)
}

// inertExclusions lists exclusion markers in local that match nothing inherited.
func inertExclusions(parent ExceptionSet, local definition.ExceptionList) []definition.ExceptionType {
	if !local.Mode.Merging() {
		return nil
	}
	inherited := make([]definition.ExceptionEntry, 0, parent.Len())
	for _, t := range parent.types {
		inherited = append(inherited, definition.ExceptionEntry{Type: t})
	}
	return merge.Excluded(inherited, local.Entries, exceptionKey, exceptionExcluded)
}

// resolveStep computes a step's policy from its definition and its parent's policy.
// parent is nil for a root step, which resolves against empty collections.
func resolveStep(def definition.StepDefinition, parent *Policy) *Policy {
	var base Policy
	if parent != nil {
		base = *parent
	}

	chain := append(append([]string(nil), base.chain...), def.Name)

	return &Policy{
		step:           def.Name,
		chain:          chain,
		abstract:       def.Abstract,
		skippable:      ResolveExceptions(base.skippable, def.Skippable),
		fatal:          ResolveExceptions(base.fatal, def.Fatal),
		streams:        ResolveStreams(base.streams, def.Streams),
		retryListeners: ResolveRetryListeners(base.retryListeners, def.RetryListeners),
	}
}
