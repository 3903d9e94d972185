package content

import (
	"fmt"
	"strings"

	"github.com/inkly/inkly/internal/common"
)

// ValidationError reports why a field was rejected. It matches
// common.ErrorValidation under errors.Is.
type ValidationError struct {
	Field   string
	Reasons []Reason
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = string(r)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, strings.Join(parts, ","))
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

// Reject turns a rejected verdict into a *ValidationError for field; it
// returns nil for an accepted verdict.
func Reject(field string, v Verdict) error {
	if v.Accepted {
		return nil
	}
	return &ValidationError{Field: field, Reasons: v.Reasons}
}
