package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	buildschemas "github.com/jonathan/relic-planner/schemas"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["person"],
	"properties": {
		"person": {
			"type": "object",
			"required": ["name"],
			"properties": {
				"name": {"type": "string"}
			}
		}
	}
}`

func TestValidateBytes_BuildSchema(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantError bool
	}{
		{
			name:    "valid build",
			content: `{"name": "Bleed", "character": "Wylder", "tiers": {"required": [7000000]}}`,
		},
		{
			name:    "minimal build",
			content: `{"name": "a", "character": "b"}`,
		},
		{
			name:      "missing required field",
			content:   `{"name": "Bleed"}`,
			wantError: true,
		},
		{
			name:      "wrong type",
			content:   `{"name": "Bleed", "character": "Wylder", "include_deep": "yes"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBytes(buildschemas.BuildDefinition, []byte(tt.content))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %T: %v", err, err)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateBytes_FieldPaths(t *testing.T) {
	assert.NoError(t, ValidateBytes(personSchema, []byte(`{"person": {"name": "test"}}`)))

	err := ValidateBytes(personSchema, []byte(`{"person": {}}`))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "person", validationErr.Errors[0].Field)

	err = ValidateBytes(personSchema, []byte(`[]`))
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidateBytes_MalformedDocument(t *testing.T) {
	err := ValidateBytes(personSchema, []byte("{ invalid json }"))

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Error(t, loadErr.Unwrap())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. name: is required")
	assert.Contains(t, msg, "2. age: must be a number")
}
