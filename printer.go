package subgraph

import (
	"bytes"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// PrintSchemaDocument creates the SDL representation of a schema document
func PrintSchemaDocument(document *ast.SchemaDocument) (string, error) {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(document)
	return buf.String(), nil
}
