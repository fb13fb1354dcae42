package subgraph

import (
	"fmt"
	"strings"
)

// Error represents a single rule violation found in a schema
type Error struct {
	Extensions map[string]interface{} `json:"extensions"`
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Code returns the code recorded in the extensions, if any
func (e *Error) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// NewError returns an error with the given code and message
func NewError(code string, message string) *Error {
	return &Error{
		Message: message,
		Extensions: map[string]interface{}{
			"code": code,
		},
	}
}

// newErrorf builds an error pointing at the named type (and optionally field)
func newErrorf(code string, path []interface{}, format string, args ...interface{}) *Error {
	err := NewError(code, fmt.Sprintf(format, args...))
	err.Path = path
	return err
}

// ErrorList represents a list of errors
type ErrorList []error

// Error returns a string representation of each error
func (list ErrorList) Error() string {
	acc := []string{}

	for _, error := range list {
		acc = append(acc, error.Error())
	}

	return strings.Join(acc, ". ")
}

// ParseError is returned when the schema text does not follow the grammar
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IdentifierFormatError is returned when a declared subgraph id is not a valid deployment hash
type IdentifierFormatError struct {
	Value string
	// Reason names the rule the value broke
	Reason string
}

func (e *IdentifierFormatError) Error() string {
	return fmt.Sprintf("subgraph id `%s` is not a valid deployment hash: %s", e.Value, e.Reason)
}

// SchemaValidationError carries every rule an input schema violates
type SchemaValidationError struct {
	Errors ErrorList
}

func (e *SchemaValidationError) Error() string {
	return "schema validation failed: " + e.Errors.Error()
}

// Codes returns the code of every violated rule in the order they were found
func (e *SchemaValidationError) Codes() []string {
	codes := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		if ruleErr, ok := err.(*Error); ok {
			codes = append(codes, ruleErr.Code())
		}
	}
	return codes
}

// ApiSchemaError is returned when the consumer facing schema cannot be derived
type ApiSchemaError struct {
	Err error
}

func (e *ApiSchemaError) Error() string {
	return "api schema: " + e.Err.Error()
}

func (e *ApiSchemaError) Unwrap() error {
	return e.Err
}

// IngestionError is fatal for a run: the input could not be read or a record is malformed
type IngestionError struct {
	Path string
	// Line is 1-based; 0 when the failure isn't tied to a line
	Line int
	Err  error
}

func (e *IngestionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
