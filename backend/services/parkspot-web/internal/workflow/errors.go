package workflow

import (
	"errors"
	"sort"
	"strings"
)

// ErrValidation matches every ValidationErrors value.
var ErrValidation = errors.New("workflow: validation failed")

// ValidationErrors maps form field names to messages.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "workflow: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
