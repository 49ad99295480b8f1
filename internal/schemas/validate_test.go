package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const macrosSchema = "testdata/valid_schema.json"

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		fields []string
	}{
		{"valid", "testdata/valid_json.json", nil},
		{"missing fat", "testdata/invalid_json.json", []string{"(root)"}},
		{"protein not a number", "testdata/type_mismatch.json", []string{"protein"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(macrosSchema, tt.file)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.fields, Fields(err))
			assert.Contains(t, err.Error(), tt.file)
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", "testdata/valid_json.json")
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(macrosSchema, "testdata/nonexistent_json.json")
	assert.ErrorContains(t, err, "JSON file not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(path, []byte("{ protein: 32 }"), 0o644))

	err := ValidateJSON(macrosSchema, path)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestValidateJSON_RepoSchemas(t *testing.T) {
	tests := []struct {
		schema string
		file   string
		valid  bool
	}{
		{"dish_catalog", "valid/dishes.json", true},
		{"dish_catalog", "invalid/dish_wrong_type.json", false},
		{"profile", "valid/profile.json", true},
		{"profile", "invalid/profile_missing_field.json", false},
		{"group", "valid/group.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.schema+"/"+tt.file, func(t *testing.T) {
			schemaPath := filepath.Join("..", "..", "schemas", tt.schema+".schema.json")
			err := ValidateJSON(schemaPath, filepath.Join("..", "..", "testdata", tt.file))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

const nameSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"price": {"type": "number", "minimum": 0}
	}
}`

func TestValidateJSONString(t *testing.T) {
	assert.NoError(t, ValidateJSONString(nameSchema, `{"name": "Lentil Soup"}`))

	err := ValidateJSONString(nameSchema, `{"price": -7}`)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"(root)", "price"}, Fields(err))

	assert.ErrorIs(t, ValidateJSONString(nameSchema, `not json`), ErrMalformedDocument)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString_CachesCompiledSchema(t *testing.T) {
	require.NoError(t, ValidateJSONString(nameSchema, `{"name": "Rice"}`))
	first, ok := compiled.Load(nameSchema)
	require.True(t, ok)

	require.NoError(t, ValidateJSONString(nameSchema, `{"name": "Noodles"}`))
	second, _ := compiled.Load(nameSchema)
	assert.Same(t, first, second)
}

func TestCompile_NestedFields(t *testing.T) {
	s, err := Compile(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["name"],
			"properties": {"macros": {"type": "object", "required": ["fat"]}}
		}
	}`)
	require.NoError(t, err)

	err = s.Validate([]byte(`[{"name": "Rice"}, {"macros": {}}]`))
	assert.Equal(t, []string{"1", "1.macros"}, Fields(err))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "price", Message: "must be a number"},
	}}

	assert.Equal(t, "validation failed:\n  1. name: is required\n  2. price: must be a number\n", err.Error())
}

func TestFields(t *testing.T) {
	assert.Nil(t, Fields(assert.AnError))

	wrapped := fmt.Errorf("menu.json: %w", &ValidationError{Errors: []FieldError{
		{Field: "0.price", Message: "a"},
		{Field: "0.price", Message: "b"},
	}})
	assert.Equal(t, []string{"0.price"}, Fields(wrapped))
}
