package errors

import (
	"fmt"
	"strings"
)

// ParseError represents a definition file parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures definition schema violations.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reference kinds reported by UnresolvedReferenceError.
const (
	RefKindStep          = "step"
	RefKindParent        = "parent"
	RefKindStream        = "stream"
	RefKindRetryListener = "retry listener"
)

// UnresolvedReferenceError reports a reference to a definition or component that does not exist.
type UnresolvedReferenceError struct {
	Step string
	Ref  string
	Kind string
}

// NewUnresolvedReferenceError constructs an UnresolvedReferenceError.
func NewUnresolvedReferenceError(step, ref, kind string) error {
	return &UnresolvedReferenceError{Step: step, Ref: ref, Kind: kind}
}

func (e *UnresolvedReferenceError) Error() string {
	if e == nil {
		return ""
	}
	kind := e.Kind
	if kind == "" {
		kind = RefKindParent
	}
	if e.Step == "" {
		return fmt.Sprintf("unresolved reference: %s %q does not exist", kind, e.Ref)
	}
	return fmt.Sprintf("unresolved reference: step %q names %s %q which does not exist", e.Step, kind, e.Ref)
}

// CyclicInheritanceError reports a step that is reachable from itself through its parent chain.
// Cycle starts and ends with the same step name.
type CyclicInheritanceError struct {
	Cycle []string
}

// NewCyclicInheritanceError constructs a CyclicInheritanceError.
func NewCyclicInheritanceError(cycle []string) error {
	return &CyclicInheritanceError{Cycle: append([]string(nil), cycle...)}
}

func (e *CyclicInheritanceError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Cycle) == 0 {
		return "inheritance cycle detected"
	}
	return fmt.Sprintf("inheritance cycle detected: %s", strings.Join(e.Cycle, " -> "))
}
