package subgraph

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSerializeError(t *testing.T) {
	// marshal the 2 kinds of errors
	errWithCode, _ := json.Marshal(NewError("ERROR_CODE", "foo"))
	expected, _ := json.Marshal(map[string]interface{}{
		"extensions": map[string]interface{}{
			"code": "ERROR_CODE",
		},
		"message": "foo",
	})

	assert.Equal(t, string(expected), string(errWithCode))

	withPath, _ := json.Marshal(newErrorf("DUPLICATE_FIELD", []interface{}{"Thing", "name"}, "field `%s` is defined more than once", "name"))
	assert.JSONEq(t, `{
		"extensions": {"code": "DUPLICATE_FIELD"},
		"message": "field `+"`name`"+` is defined more than once",
		"path": ["Thing", "name"]
	}`, string(withPath))
}

func TestErrorList(t *testing.T) {
	list := ErrorList{NewError("A", "first"), NewError("B", "second")}
	assert.Equal(t, "first. second", list.Error())

	validationErr := &SchemaValidationError{Errors: list}
	assert.Equal(t, "schema validation failed: first. second", validationErr.Error())
	assert.Equal(t, []string{"A", "B"}, validationErr.Codes())
}

func TestIngestionError(t *testing.T) {
	err := &IngestionError{Path: "dump.jsonl", Line: 3, Err: errors.New("record is not valid json")}
	assert.Equal(t, "dump.jsonl:3: record is not valid json", err.Error())

	err = &IngestionError{Path: "missing.graphql", Err: fs.ErrNotExist}
	assert.Equal(t, "missing.graphql: file does not exist", err.Error())
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestApiSchemaError(t *testing.T) {
	cause := errors.New("type `Thing_filter` generated twice")
	err := &ApiSchemaError{Err: cause}
	assert.Equal(t, "api schema: type `Thing_filter` generated twice", err.Error())
	assert.True(t, errors.Is(err, cause))
}
