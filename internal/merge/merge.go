package merge

import "fmt"

// Mode selects how a child collection combines with its parent's effective collection.
// The zero value is Merge so that an undeclared flag inherits.
type Mode int

const (
	// Merge unions the child's entries into the parent's effective entries.
	Merge Mode = iota
	// Override replaces the parent's effective entries with the child's.
	Override
)

// FromBool maps a declarative merge flag onto a Mode.
func FromBool(merge bool) Mode {
	if merge {
		return Merge
	}
	return Override
}

// Merging reports whether the mode unions with the parent.
func (m Mode) Merging() bool {
	return m != Override
}

func (m Mode) String() string {
	switch m {
	case Merge:
		return "merge"
	case Override:
		return "override"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Apply computes the effective collection for a child given its parent's effective collection.
//
// Under Override the parent contributes nothing. Under Merge the parent's entries are kept in
// their relative order and novel child entries are appended in declaration order. An entry for
// which excluded returns true removes any entry with the same key from the working set and is
// never emitted itself. A nil excluded func means the collection has no exclusion concept.
//
// The result never aliases parent or child.
func Apply[T any, K comparable](parent, child []T, mode Mode, key func(T) K, excluded func(T) bool) []T {
	if !mode.Merging() {
		return dedup(child, key, excluded)
	}

	set := newOrderedSet[T, K](len(parent) + len(child))
	for _, entry := range parent {
		set.add(key(entry), entry)
	}
	for _, entry := range child {
		if excluded != nil && excluded(entry) {
			set.remove(key(entry))
			continue
		}
		set.add(key(entry), entry)
	}
	return set.values()
}

// Excluded returns the keys in child that are marked for exclusion but have no matching
// entry in parent. Such markers are inert; callers may use this to report them.
func Excluded[T any, K comparable](parent, child []T, key func(T) K, excluded func(T) bool) []K {
	if excluded == nil {
		return nil
	}
	present := make(map[K]struct{}, len(parent))
	for _, entry := range parent {
		present[key(entry)] = struct{}{}
	}
	var inert []K
	for _, entry := range child {
		if !excluded(entry) {
			present[key(entry)] = struct{}{}
			continue
		}
		if _, ok := present[key(entry)]; !ok {
			inert = append(inert, key(entry))
		}
	}
	return inert
}

func dedup[T any, K comparable](entries []T, key func(T) K, excluded func(T) bool) []T {
	set := newOrderedSet[T, K](len(entries))
	for _, entry := range entries {
		if excluded != nil && excluded(entry) {
			continue
		}
		set.add(key(entry), entry)
	}
	return set.values()
}

// orderedSet keeps first-insertion order. Removed slots are tombstoned and skipped on read.
type orderedSet[T any, K comparable] struct {
	index   map[K]int
	entries []T
	live    []bool
}

func newOrderedSet[T any, K comparable](capacity int) *orderedSet[T, K] {
	return &orderedSet[T, K]{
		index:   make(map[K]int, capacity),
		entries: make([]T, 0, capacity),
		live:    make([]bool, 0, capacity),
	}
}

func (s *orderedSet[T, K]) add(k K, entry T) {
	if _, ok := s.index[k]; ok {
		return
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, entry)
	s.live = append(s.live, true)
}

func (s *orderedSet[T, K]) remove(k K) {
	pos, ok := s.index[k]
	if !ok {
		return
	}
	s.live[pos] = false
	delete(s.index, k)
}

func (s *orderedSet[T, K]) values() []T {
	out := make([]T, 0, len(s.index))
	for i, entry := range s.entries {
		if s.live[i] {
			out = append(out, entry)
		}
	}
	return out
}
