package inherit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/batchdef/internal/definition"
	"github.com/alexisbeaulieu97/batchdef/internal/merge"
)

func TestResolveExceptionsUnionsUnderMerge(t *testing.T) {
	t.Parallel()

	parent := NewExceptionSet(npe, ioErr)
	local := definition.ExceptionList{}.Include(arithmetic, npe)

	got := ResolveExceptions(parent, local)
	assert.True(t, got.Equal(NewExceptionSet(npe, ioErr, arithmetic)))
	assert.Equal(t, 3, got.Len())
}

func TestResolveExceptionsOverrideIgnoresParent(t *testing.T) {
	t.Parallel()

	parents := []ExceptionSet{
		{},
		NewExceptionSet(npe),
		NewExceptionSet(npe, ioErr, arithmetic),
	}
	local := definition.ExceptionList{Mode: merge.Override}.Include(cannotAcquireLock)

	for _, parent := range parents {
		got := ResolveExceptions(parent, local)
		assert.Equal(t, []definition.ExceptionType{cannotAcquireLock}, got.Types())
	}
}

func TestResolveExceptionsExclusionWins(t *testing.T) {
	t.Parallel()

	parent := NewExceptionSet(npe, ioErr)
	local := definition.ExceptionList{}.Exclude(npe).Include(arithmetic)

	got := ResolveExceptions(parent, local)
	assert.False(t, got.Contains(npe))
	assert.True(t, got.Contains(ioErr))
	assert.True(t, got.Contains(arithmetic))
}

func TestResolveExceptionsIgnoresExclusionWithoutTarget(t *testing.T) {
	t.Parallel()

	parent := NewExceptionSet(npe)
	local := definition.ExceptionList{}.Exclude("com.example.NeverDeclared")

	got := ResolveExceptions(parent, local)
	assert.True(t, got.Equal(parent))
	assert.Equal(t, []definition.ExceptionType{"com.example.NeverDeclared"}, inertExclusions(parent, local))
	assert.Nil(t, inertExclusions(parent, definition.ExceptionList{Mode: merge.Override}.Exclude("x")))
}

func TestResolveStreamsKeepsParentOrderFirst(t *testing.T) {
	t.Parallel()

	parent := []definition.Ref{"reader", "writer"}
	local := definition.RefList{Refs: []definition.Ref{"checkpoint", "reader", "audit"}}

	got := ResolveStreams(parent, local)
	require.Equal(t, []definition.Ref{"reader", "writer", "checkpoint", "audit"}, got)
}

func TestResolveRetryListenersOverride(t *testing.T) {
	t.Parallel()

	parent := []definition.Ref{"l1"}
	local := definition.RefList{Refs: []definition.Ref{"l2", "l2"}, Mode: merge.Override}

	got := ResolveRetryListeners(parent, local)
	require.Equal(t, []definition.Ref{"l2"}, got)
}

func TestExceptionSet(t *testing.T) {
	t.Parallel()

	set := NewExceptionSet(npe, npe, ioErr)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []definition.ExceptionType{npe, ioErr}, set.Types())
	assert.True(t, set.Equal(NewExceptionSet(ioErr, npe)))
	assert.False(t, set.Equal(NewExceptionSet(npe)))
	assert.False(t, set.Equal(NewExceptionSet(npe, arithmetic)))

	types := set.Types()
	types[0] = "mutated"
	assert.True(t, set.Contains(npe))

	var zero ExceptionSet
	assert.Equal(t, 0, zero.Len())
	assert.False(t, zero.Contains(npe))
	assert.Empty(t, zero.Types())
}
