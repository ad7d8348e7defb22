package config

import (
	"fmt"

	batcherrors "github.com/alexisbeaulieu97/batchdef/pkg/errors"
)

// ValidateDocument performs structural and cross-field validation on an entire document.
// Parent references must name a step in the same document; inheritance cycles are left to
// resolution.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return batcherrors.NewValidationError("document", "document is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(doc); err != nil {
		return convertValidationError(err)
	}

	stepIndex := make(map[string]int, len(doc.Steps))
	for i, step := range doc.Steps {
		if _, exists := stepIndex[step.Name]; exists {
			return batcherrors.NewValidationError(fieldForStep(i, "name"), fmt.Sprintf("duplicate step name %q", step.Name), nil)
		}
		stepIndex[step.Name] = i
	}

	for i, step := range doc.Steps {
		if err := validateCollections(i, step); err != nil {
			return err
		}
		if step.Parent == "" {
			continue
		}
		if _, ok := stepIndex[step.Parent]; !ok {
			return batcherrors.NewUnresolvedReferenceError(step.Name, step.Parent, batcherrors.RefKindParent)
		}
	}

	return nil
}

// validateCollections rejects a reference listed twice within one collection of a step.
// Repeated classes are allowed: an include followed by an exclude is processed in order.
func validateCollections(index int, step StepDecl) error {
	collections := []struct {
		field string
		refs  []string
	}{
		{field: "streams.refs", refs: step.Streams.Refs},
		{field: "retry_listeners.refs", refs: step.RetryListeners.Refs},
	}

	for _, c := range collections {
		seen := make(map[string]struct{}, len(c.refs))
		for _, ref := range c.refs {
			if _, dup := seen[ref]; dup {
				return batcherrors.NewValidationError(fieldForStep(index, c.field), fmt.Sprintf("duplicate reference %q", ref), nil)
			}
			seen[ref] = struct{}{}
		}
	}
	return nil
}
