package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	batcherrors "github.com/alexisbeaulieu97/batchdef/pkg/errors"
)

// convertValidationError normalizes validator errors into batchdef validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return batcherrors.NewValidationError(field, msg, err)
	}

	return batcherrors.NewValidationError("document", err.Error(), err)
}

// yamlishFieldName drops the root struct name from the namespace: "Document.steps[0].name"
// becomes "steps[0].name".
func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func fieldForStep(index int, field string) string {
	return fmt.Sprintf("steps[%d].%s", index, field)
}
