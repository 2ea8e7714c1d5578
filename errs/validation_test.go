package errs_test

import (
	"fmt"
	"testing"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/stretchr/testify/assert"
)

func TestValidationErr(t *testing.T) {
	err := errs.NewValidationError(map[string]string{
		"title":       "Il titolo è obbligatorio",
		"description": "La descrizione è obbligatoria",
	})

	assert.Equal(t, "validation failed: description, title", err.Error())
	assert.True(t, errs.IsValidation(err))
	assert.True(t, errs.IsValidation(fmt.Errorf("handling request: %w", err)))
}

func TestFieldValidationError(t *testing.T) {
	err := errs.NewFieldValidationError("title", "Non possono esistere due progetti con lo stesso nome")

	assert.Equal(t, "Non possono esistere due progetti con lo stesso nome", err.Fields["title"])
	assert.Len(t, err.Fields, 1)
}

func TestIsAlreadyExists(t *testing.T) {
	err := errs.NewAlreadyExists("project")

	assert.True(t, errs.IsAlreadyExists(err))
	assert.False(t, errs.IsNotFound(err))
}
