package merge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name    string
	exclude bool
}

func entryKey(e entry) string { return e.name }

func entryExcluded(e entry) bool { return e.exclude }

func identity(s string) string { return s }

func include(names ...string) []entry {
	out := make([]entry, 0, len(names))
	for _, n := range names {
		out = append(out, entry{name: n})
	}
	return out
}

func names(entries []entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.name)
	}
	return out
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		parent []entry
		child  []entry
		mode   Mode
		want   []string
	}{
		{
			name:   "merge unions parent and child",
			parent: include("NullPointerException"),
			child:  include("ArithmeticException"),
			mode:   Merge,
			want:   []string{"NullPointerException", "ArithmeticException"},
		},
		{
			name:   "merge drops duplicate keys",
			parent: include("a", "b"),
			child:  include("b", "c", "a"),
			mode:   Merge,
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "override ignores parent",
			parent: include("a", "b"),
			child:  include("c"),
			mode:   Override,
			want:   []string{"c"},
		},
		{
			name:   "override with empty child yields empty",
			parent: include("a"),
			child:  nil,
			mode:   Override,
			want:   []string{},
		},
		{
			name:   "exclusion removes inherited entry",
			parent: include("a", "b", "c"),
			child:  []entry{{name: "b", exclude: true}, {name: "d"}},
			mode:   Merge,
			want:   []string{"a", "c", "d"},
		},
		{
			name:   "exclusion with no target is inert",
			parent: include("a"),
			child:  []entry{{name: "zzz", exclude: true}},
			mode:   Merge,
			want:   []string{"a"},
		},
		{
			name:   "empty child keeps parent",
			parent: include("a", "b"),
			mode:   Merge,
			want:   []string{"a", "b"},
		},
		{
			name:  "empty parent keeps child minus exclusion markers",
			child: []entry{{name: "a"}, {name: "b", exclude: true}, {name: "c"}},
			mode:  Merge,
			want:  []string{"a", "c"},
		},
		{
			name:   "exclusion markers are never emitted under override",
			parent: include("a"),
			child:  []entry{{name: "a", exclude: true}, {name: "b"}},
			mode:   Override,
			want:   []string{"b"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Apply(tt.parent, tt.child, tt.mode, entryKey, entryExcluded)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestApplyPreservesOrderForOrderedCollections(t *testing.T) {
	t.Parallel()

	parent := []string{"reader", "writer", "audit"}
	child := []string{"metrics", "writer", "checkpoint"}

	got := Apply(parent, child, Merge, identity, nil)
	require.Equal(t, []string{"reader", "writer", "audit", "metrics", "checkpoint"}, got)
}

func TestApplyDoesNotAliasInputs(t *testing.T) {
	t.Parallel()

	parent := []string{"a", "b"}
	child := []string{"c"}

	got := Apply(parent, child, Merge, identity, nil)
	got[0] = "mutated"
	require.Equal(t, []string{"a", "b"}, parent)

	overridden := Apply(parent, child, Override, identity, nil)
	overridden[0] = "mutated"
	require.Equal(t, []string{"c"}, child)
}

func TestApplyOverrideIsIndependentOfParent(t *testing.T) {
	t.Parallel()

	child := include("x", "y")
	parents := [][]entry{nil, include("a"), include("x", "y", "z"), include(strings.Split("p,q,r,s", ",")...)}

	for _, parent := range parents {
		assert.Equal(t, []string{"x", "y"}, names(Apply(parent, child, Override, entryKey, entryExcluded)))
	}
}

func TestExcluded(t *testing.T) {
	t.Parallel()

	parent := include("a", "b")
	child := []entry{
		{name: "a", exclude: true},
		{name: "ghost", exclude: true},
		{name: "c"},
		{name: "c", exclude: true},
	}

	require.Equal(t, []string{"ghost"}, Excluded(parent, child, entryKey, entryExcluded))
	require.Nil(t, Excluded(parent, child, entryKey, nil))
}

func TestModeFromBool(t *testing.T) {
	t.Parallel()

	require.Equal(t, Merge, FromBool(true))
	require.Equal(t, Override, FromBool(false))
	require.True(t, Mode(0).Merging(), "zero value must merge")
	require.Equal(t, "override", Override.String())
	require.Equal(t, "mode(7)", Mode(7).String())
}
