// Package schemas validates model-generated JSON against embedded JSON
// Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed definitions/*.json
var definitions embed.FS

// Name identifies an embedded schema.
type Name string

const (
	OptimizeResult Name = "optimize_result"
	Email          Name = "email"
	Interview      Name = "interview"
	SkillsGap      Name = "skills_gap"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Schema != "" {
		fmt.Fprintf(&sb, "%s validation failed:\n", ve.Schema)
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema or the
// document itself.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema returns the source of an embedded schema.
func Schema(name Name) (string, error) {
	data, err := definitions.ReadFile("definitions/" + string(name) + ".json")
	if err != nil {
		return "", &SchemaLoadError{Path: string(name), Message: "unknown schema", Cause: err}
	}
	return string(data), nil
}

// Validate checks a JSON document against an embedded schema.
func Validate(name Name, jsonContent string) error {
	schema, err := Schema(name)
	if err != nil {
		return err
	}
	if err := validate(string(name), schema, jsonContent); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Schema = string(name)
		}
		return err
	}
	return nil
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)", schemaContent, jsonContent)
}

func validate(path, schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
	if err != nil {
		return &SchemaLoadError{
			Path:    path,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
