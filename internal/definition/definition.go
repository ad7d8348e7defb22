// Package definition holds the unresolved step definition tree: each step's locally declared
// collections, its merge modes, and an optional reference to the parent it extends.
package definition

import (
	"sort"

	"github.com/alexisbeaulieu97/batchdef/internal/merge"
)

// ExceptionType identifies an exception classification key, typically a fully qualified type name.
type ExceptionType string

// Ref names a runtime component (stream or retry listener). Two refs with the same name
// denote the same component.
type Ref string

// ExceptionEntry declares an exception type in a classifier collection. An excluded entry
// vetoes an inherited inclusion of the same type.
type ExceptionEntry struct {
	Type    ExceptionType
	Exclude bool
}

// ExceptionList is a classifier collection together with its merge mode.
type ExceptionList struct {
	Entries []ExceptionEntry
	Mode    merge.Mode
}

// Include appends included exception types.
func (l ExceptionList) Include(types ...ExceptionType) ExceptionList {
	for _, t := range types {
		l.Entries = append(l.Entries, ExceptionEntry{Type: t})
	}
	return l
}

// Exclude appends exclusion markers.
func (l ExceptionList) Exclude(types ...ExceptionType) ExceptionList {
	for _, t := range types {
		l.Entries = append(l.Entries, ExceptionEntry{Type: t, Exclude: true})
	}
	return l
}

// RefList is an ordered component reference collection together with its merge mode.
type RefList struct {
	Refs []Ref
	Mode merge.Mode
}

// StepDefinition is one step as declared, before inheritance is applied.
type StepDefinition struct {
	Name     string
	Parent   string
	Abstract bool

	Skippable      ExceptionList
	Fatal          ExceptionList
	Streams        RefList
	RetryListeners RefList
}

// HasParent reports whether the definition extends another definition.
func (d StepDefinition) HasParent() bool {
	return d.Parent != ""
}

// Tree is an immutable set of step definitions addressable by name.
type Tree struct {
	steps map[string]StepDefinition
	order []string
}

// Lookup returns the definition registered under name.
func (t *Tree) Lookup(name string) (StepDefinition, bool) {
	if t == nil {
		return StepDefinition{}, false
	}
	def, ok := t.steps[name]
	return def, ok
}

// Names returns definition names in declaration order.
func (t *Tree) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// SortedNames returns definition names in lexical order.
func (t *Tree) SortedNames() []string {
	names := t.Names()
	sort.Strings(names)
	return names
}

// Len returns the number of definitions.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
