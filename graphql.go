package subgraph

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseDocument takes raw SDL and returns the parsed document. No type system rules are
// checked here, only the grammar.
func ParseDocument(raw string) (*ast.SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{
		Name:  "schema",
		Input: raw,
	})
	if err = gqlError(err); err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}

// LoadSchema takes an SDL string and returns the parsed version
func LoadSchema(typedef string) (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "api",
		Input: typedef,
	})

	// vektah/gqlparser returns non-nil err all the time
	if schema == nil {
		return nil, err
	}
	return schema, nil
}

// gqlError unboxes the typed nil that gqlparser can hand back as an error
func gqlError(err error) error {
	if gqlErr, ok := err.(*gqlerror.Error); ok && gqlErr == nil {
		return nil
	}
	if list, ok := err.(gqlerror.List); ok && len(list) == 0 {
		return nil
	}
	return err
}
