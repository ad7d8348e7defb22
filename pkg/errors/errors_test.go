package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("steps.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "steps.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "parse error: steps.yaml:12: unexpected token", err.Error())
	require.Equal(t, "parse error: steps.yaml: unexpected token", NewParseError("steps.yaml", 0, underlying).Error())
}

func TestValidationErrorAggregatesFields(t *testing.T) {
	t.Parallel()

	err := NewValidationError("steps[1].parent", "parent must not be blank", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "steps[1].parent", validationErr.Field)
	require.Contains(t, validationErr.Message, "must not be blank")
	require.Equal(t, "validation error: bare", NewValidationError("", "bare", nil).Error())
}

func TestUnresolvedReferenceErrorNamesStepAndRef(t *testing.T) {
	t.Parallel()

	err := NewUnresolvedReferenceError("s1", "missingParent", RefKindParent)

	var refErr *UnresolvedReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "s1", refErr.Step)
	require.Equal(t, "missingParent", refErr.Ref)
	require.Equal(t, `unresolved reference: step "s1" names parent "missingParent" which does not exist`, err.Error())

	streamErr := NewUnresolvedReferenceError("", "reader", RefKindStream)
	require.Equal(t, `unresolved reference: stream "reader" does not exist`, streamErr.Error())
}

func TestCyclicInheritanceErrorRendersPath(t *testing.T) {
	t.Parallel()

	cycle := []string{"a", "b", "a"}
	err := NewCyclicInheritanceError(cycle)
	cycle[0] = "mutated"

	var cycleErr *CyclicInheritanceError
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, []string{"a", "b", "a"}, cycleErr.Cycle)
	require.Equal(t, "inheritance cycle detected: a -> b -> a", err.Error())
	require.Equal(t, "inheritance cycle detected", (&CyclicInheritanceError{}).Error())
}

func TestNilErrorsRenderEmpty(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var validationErr *ValidationError
	var refErr *UnresolvedReferenceError
	var cycleErr *CyclicInheritanceError

	require.Empty(t, parseErr.Error())
	require.Nil(t, parseErr.Unwrap())
	require.Empty(t, validationErr.Error())
	require.Nil(t, validationErr.Unwrap())
	require.Empty(t, refErr.Error())
	require.Empty(t, cycleErr.Error())
}
