package errs

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// ValidationErr rejects a request before any state is mutated. Fields maps
// each offending field name to the message shown to the user.
type ValidationErr struct {
	StatusCode int
	Fields     map[string]string
}

func NewValidationError(fields map[string]string) *ValidationErr {
	return &ValidationErr{
		StatusCode: http.StatusUnprocessableEntity,
		Fields:     fields,
	}
}

// NewFieldValidationError is a shorthand for a single-field failure
func NewFieldValidationError(field, message string) *ValidationErr {
	return NewValidationError(map[string]string{field: message})
}

func (e *ValidationErr) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *ValidationErr) Unwrap() error {
	return ErrValidation
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
