package inherit

import (
	"github.com/alexisbeaulieu97/batchdef/internal/definition"
)

// ExceptionSet is a duplicate-free set of exception types. Iteration order is first-insertion
// order so output is reproducible; membership is the only semantic guarantee.
type ExceptionSet struct {
	types []definition.ExceptionType
	index map[definition.ExceptionType]struct{}
}

// NewExceptionSet builds a set from types, dropping duplicates.
func NewExceptionSet(types ...definition.ExceptionType) ExceptionSet {
	set := ExceptionSet{index: make(map[definition.ExceptionType]struct{}, len(types))}
	for _, t := range types {
		if _, ok := set.index[t]; ok {
			continue
		}
		set.index[t] = struct{}{}
		set.types = append(set.types, t)
	}
	return set
}

// Contains reports whether t is a member.
func (s ExceptionSet) Contains(t definition.ExceptionType) bool {
	_, ok := s.index[t]
	return ok
}

// Len returns the number of members.
func (s ExceptionSet) Len() int {
	return len(s.types)
}

// Types returns a copy of the members.
func (s ExceptionSet) Types() []definition.ExceptionType {
	return append([]definition.ExceptionType{}, s.types...)
}

// Equal reports set equality, ignoring order.
func (s ExceptionSet) Equal(other ExceptionSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, t := range s.types {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

func (s ExceptionSet) union(types []definition.ExceptionType) ExceptionSet {
	return NewExceptionSet(append(s.Types(), types...)...)
}

// Policy is the effective configuration of one step after inheritance. It is immutable;
// accessors return copies.
type Policy struct {
	step           string
	chain          []string
	abstract       bool
	skippable      ExceptionSet
	fatal          ExceptionSet
	streams        []definition.Ref
	retryListeners []definition.Ref
}

// Step returns the name of the step this policy belongs to.
func (p *Policy) Step() string {
	return p.step
}

// Chain returns the inheritance chain that produced the policy, root first, ending with Step.
func (p *Policy) Chain() []string {
	return append([]string(nil), p.chain...)
}

// Parent returns the direct parent's name, or "" for a root step.
func (p *Policy) Parent() string {
	if len(p.chain) < 2 {
		return ""
	}
	return p.chain[len(p.chain)-2]
}

// Abstract reports whether the policy belongs to a template-only definition.
func (p *Policy) Abstract() bool {
	return p.abstract
}

// Skippable returns the effective skippable exception types.
func (p *Policy) Skippable() ExceptionSet {
	return p.skippable
}

// Fatal returns the effective fatal exception types.
func (p *Policy) Fatal() ExceptionSet {
	return p.fatal
}

// Streams returns the effective stream references in open order.
func (p *Policy) Streams() []definition.Ref {
	return append([]definition.Ref{}, p.streams...)
}

// RetryListeners returns the effective retry listener references in invocation order.
func (p *Policy) RetryListeners() []definition.Ref {
	return append([]definition.Ref{}, p.retryListeners...)
}

// withBaseline returns a copy with the baseline exception types appended. The receiver is
// left untouched so memoized ancestors never see the baseline.
func (p *Policy) withBaseline(b Baseline) *Policy {
	if len(b.Skippable) == 0 && len(b.Fatal) == 0 {
		return p
	}
	out := *p
	out.skippable = p.skippable.union(b.Skippable)
	out.fatal = p.fatal.union(b.Fatal)
	return &out
}
