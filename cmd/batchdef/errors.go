package main

import (
	"errors"
	"fmt"

	batcherrors "github.com/alexisbeaulieu97/batchdef/pkg/errors"
)

const (
	exitFailure     = 1
	exitConfigError = 2
)

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// exitCode maps definition problems to exitConfigError and anything else to exitFailure.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if isConfigError(err) {
		return exitConfigError
	}
	return exitFailure
}

func isConfigError(err error) bool {
	var (
		parseErr      *batcherrors.ParseError
		validationErr *batcherrors.ValidationError
		refErr        *batcherrors.UnresolvedReferenceError
		cycleErr      *batcherrors.CyclicInheritanceError
	)
	return errors.As(err, &parseErr) ||
		errors.As(err, &validationErr) ||
		errors.As(err, &refErr) ||
		errors.As(err, &cycleErr)
}

// suggestionFor returns the hint printed under a failed command.
func suggestionFor(err error) string {
	var (
		parseErr      *batcherrors.ParseError
		validationErr *batcherrors.ValidationError
		refErr        *batcherrors.UnresolvedReferenceError
		cycleErr      *batcherrors.CyclicInheritanceError
	)
	switch {
	case errors.As(err, &parseErr):
		return "Check the file exists and is valid YAML or JSON."
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Fix the value of %q and try again.", validationErr.Field)
	case errors.As(err, &refErr):
		return "Declare the missing step or correct the reference."
	case errors.As(err, &cycleErr):
		return "Remove one parent reference so the chain ends at a root step."
	default:
		return "Re-run with --verbose for more detail."
	}
}
