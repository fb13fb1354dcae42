package subgraph

import (
	"encoding/json"
	"fmt"
	"strings"

	invopop "github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders jsonschema failures in English
var printer = message.NewPrinter(language.English)

// Record is one line of a bulk dump: the id of a subgraph manifest row and its schema text
type Record struct {
	ID     int    `json:"id"`
	Schema string `json:"schema"`
}

// Label is how the record is named in reports
func (r Record) Label() string {
	return fmt.Sprintf("sgd%d", r.ID)
}

// UnescapeLine collapses the doubled backslashes the export writes into single ones. It runs
// over the whole line before the line is decoded.
func UnescapeLine(line string) string {
	return strings.ReplaceAll(line, `\\`, `\`)
}

// RecordDecoder turns bulk lines into records. The shape of a record is checked against a
// JSON Schema reflected from Record before the value is decoded.
type RecordDecoder struct {
	schema *jsonschema.Schema
}

// NewRecordDecoder compiles the record contract
func NewRecordDecoder() (*RecordDecoder, error) {
	reflector := &invopop.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	contract, err := json.Marshal(reflector.Reflect(&Record{}))
	if err != nil {
		return nil, errors.Wrap(err, "marshaling record schema")
	}

	var contractValue any
	if err := json.Unmarshal(contract, &contractValue); err != nil {
		return nil, errors.Wrap(err, "unmarshaling record schema")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", contractValue); err != nil {
		return nil, errors.Wrap(err, "adding record schema")
	}
	compiled, err := compiler.Compile("record.json")
	if err != nil {
		return nil, errors.Wrap(err, "compiling record schema")
	}

	return &RecordDecoder{schema: compiled}, nil
}

// Decode parses a single line. The line is taken as is; callers un-escape it first.
func (d *RecordDecoder) Decode(line string) (Record, error) {
	var value any
	if err := json.Unmarshal([]byte(line), &value); err != nil {
		return Record{}, errors.Wrap(err, "record is not valid json")
	}

	if err := d.schema.Validate(value); err != nil {
		return Record{}, errors.WithMessage(flattenValidationError(err), "record does not match the bulk format")
	}

	var record Record
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &record,
	})
	if err != nil {
		return Record{}, err
	}
	if err := decoder.Decode(value); err != nil {
		return Record{}, errors.Wrap(err, "decoding record")
	}
	return record, nil
}

// flattenValidationError puts the leaf causes of a schema validation failure on one line
func flattenValidationError(err error) error {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}
	causes := []string{}
	collectCauses(validationErr, &causes)
	if len(causes) == 0 {
		return err
	}
	return errors.New(strings.Join(causes, "; "))
}

func collectCauses(err *jsonschema.ValidationError, acc *[]string) {
	if len(err.Causes) == 0 {
		location := "/" + strings.Join(err.InstanceLocation, "/")
		*acc = append(*acc, fmt.Sprintf("at '%s': %s", location, err.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, cause := range err.Causes {
		collectCauses(cause, acc)
	}
}
