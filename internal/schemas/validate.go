// Package schemas validates meal planner documents and LLM responses against JSON Schemas.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedDocument is returned when the document is not JSON at all.
var ErrMalformedDocument = errors.New("document is not valid JSON")

// FieldError is one schema violation. Field is a dotted path such as "0.price",
// or "(root)" for the document itself.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every schema violation in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError reports a schema that cannot be read or compiled.
type SchemaLoadError struct {
	Source string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Source, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses schema content.
func Compile(content string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Source: "(inline)", Cause: err}
	}
	return &Schema{schema: s}, nil
}

// CompileFile parses a schema file. Relative $refs resolve against the file's directory.
func CompileFile(path string) (*Schema, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &SchemaLoadError{Source: path, Cause: err}
	}
	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		return nil, &SchemaLoadError{Source: path, Cause: fmt.Errorf("schema file not found: %s", abs)}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs)))
	if err != nil {
		return nil, &SchemaLoadError{Source: path, Cause: err}
	}
	return &Schema{schema: s}, nil
}

// Validate checks a JSON document. It returns ErrMalformedDocument for input
// that does not parse and *ValidationError for schema violations.
func (s *Schema) Validate(doc []byte) error {
	if !json.Valid(doc) {
		return ErrMalformedDocument
	}
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return resultError(result)
}

// compiled caches inline schemas by content; oracle response schemas are checked on every call.
var compiled sync.Map

func compileCached(content string) (*Schema, error) {
	if s, ok := compiled.Load(content); ok {
		return s.(*Schema), nil
	}
	s, err := Compile(content)
	if err != nil {
		return nil, err
	}
	actual, _ := compiled.LoadOrStore(content, s)
	return actual.(*Schema), nil
}

// ValidateJSONString validates JSON content against schema content.
func ValidateJSONString(schemaContent, jsonContent string) error {
	s, err := compileCached(schemaContent)
	if err != nil {
		return err
	}
	return s.Validate([]byte(jsonContent))
}

// ValidateJSON validates a JSON file against a JSON Schema file.
func ValidateJSON(schemaPath, jsonPath string) error {
	s, err := CompileFile(schemaPath)
	if err != nil {
		return err
	}
	doc, err := os.ReadFile(jsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("JSON file not found: %s", jsonPath)
	} else if err != nil {
		return fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", jsonPath, err)
	}
	return nil
}

// Fields returns the distinct failing field paths of a validation error, or nil
// when err does not wrap one.
func Fields(err error) []string {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	var fields []string
	for _, fe := range ve.Errors {
		if !slices.Contains(fields, fe.Field) {
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	slices.SortStableFunc(ve.Errors, func(a, b FieldError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return ve
}
