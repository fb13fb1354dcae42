package subgraph

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
)

// ApiSchema is the schema consumers of a subgraph query: the subgraph's own types plus the
// root fields, filters and sort orders generated for them
type ApiSchema struct {
	schema   *ast.Schema
	document *ast.SchemaDocument
	sdl      string
}

// Schema returns the validated type system
func (s *ApiSchema) Schema() *ast.Schema {
	return s.schema
}

// Document returns the generated schema document the type system was loaded from
func (s *ApiSchema) Document() *ast.SchemaDocument {
	return s.document
}

// SDL returns the printed schema
func (s *ApiSchema) SDL() string {
	return s.sdl
}

// APISchema derives the consumer facing schema. A failure here says nothing about the input
// schema itself, which stays valid.
func (s *InputSchema) APISchema() (*ApiSchema, error) {
	d := newDerivation(s)
	if err := d.derive(); err != nil {
		return nil, &ApiSchemaError{Err: err}
	}

	sdl, err := PrintSchemaDocument(d.document)
	if err != nil {
		return nil, &ApiSchemaError{Err: errors.Wrap(err, "could not print derived schema")}
	}

	// the generated document goes through the full type system validation of gqlparser
	schema, err := LoadSchema(sdl)
	if err = gqlError(err); err != nil {
		return nil, &ApiSchemaError{Err: errors.WithMessage(err, "derived schema is invalid")}
	}
	if schema == nil {
		return nil, &ApiSchemaError{Err: errors.New("derived schema is invalid")}
	}

	return &ApiSchema{
		schema:   schema,
		document: d.document,
		sdl:      sdl,
	}, nil
}

// derivation accumulates the API schema of one input schema and keeps track of which names
// have been handed out, so that collisions surface with a useful message
type derivation struct {
	input    *InputSchema
	document *ast.SchemaDocument

	query        *ast.Definition
	subscription *ast.Definition

	// name -> what it was generated for
	typeNames   map[string]string
	queryFields map[string]string
}

func newDerivation(input *InputSchema) *derivation {
	return &derivation{
		input:        input,
		document:     &ast.SchemaDocument{},
		query:        &ast.Definition{Kind: ast.Object, Name: "Query"},
		subscription: &ast.Definition{Kind: ast.Object, Name: "Subscription"},
		typeNames:    map[string]string{},
		queryFields:  map[string]string{},
	}
}

func (d *derivation) derive() error {
	for _, enum := range d.input.Enums() {
		if err := d.addType(enumCopy(enum), fmt.Sprintf("enum `%s`", enum.Name)); err != nil {
			return err
		}
	}

	for _, typ := range d.input.Types() {
		if err := d.addType(d.objectCopy(typ), fmt.Sprintf("%s `%s`", typ.Kind, typ.Name)); err != nil {
			return err
		}
	}

	for _, definition := range builtinDefinitions() {
		if err := d.addType(definition, "the built-in types"); err != nil {
			return err
		}
	}

	for _, typ := range d.input.Types() {
		origin := fmt.Sprintf("%s `%s`", typ.Kind, typ.Name)
		if err := d.addType(d.filterDefinition(typ), origin); err != nil {
			return err
		}
		if err := d.addType(d.orderByDefinition(typ), origin); err != nil {
			return err
		}
		for _, field := range d.rootFields(typ) {
			if err := d.addRootField(field, origin); err != nil {
				return err
			}
		}
	}

	for _, fulltext := range d.input.Fulltext() {
		if err := d.addRootField(fulltextField(fulltext), fmt.Sprintf("fulltext search `%s`", fulltext.Name)); err != nil {
			return err
		}
	}

	if err := d.addRootField(metaField(), "subgraph metadata"); err != nil {
		return err
	}

	for _, root := range []*ast.Definition{d.query, d.subscription} {
		if err := d.addType(root, "the root types"); err != nil {
			return err
		}
	}
	return nil
}

func (d *derivation) addType(definition *ast.Definition, origin string) error {
	if previous, ok := d.typeNames[definition.Name]; ok {
		return fmt.Errorf("type `%s` generated for %s conflicts with the one from %s", definition.Name, origin, previous)
	}
	d.typeNames[definition.Name] = origin
	d.document.Definitions = append(d.document.Definitions, definition)
	return nil
}

// addRootField adds the field to both Query and Subscription
func (d *derivation) addRootField(field *ast.FieldDefinition, origin string) error {
	if previous, ok := d.queryFields[field.Name]; ok {
		return fmt.Errorf("query field `%s` generated for %s conflicts with the one for %s", field.Name, origin, previous)
	}
	d.queryFields[field.Name] = origin
	d.query.Fields = append(d.query.Fields, field)
	d.subscription.Fields = append(d.subscription.Fields, field)
	return nil
}

// rootFields returns the singular lookup and the plural collection of typ
func (d *derivation) rootFields(typ *ObjectType) ast.FieldList {
	singular := &ast.FieldDefinition{
		Name: SingularFieldName(typ.Name),
		Arguments: append(ast.ArgumentDefinitionList{
			{Name: "id", Type: nonNull("ID")},
		}, blockArguments()...),
		Type: named(typ.Name),
	}

	arguments := ast.ArgumentDefinitionList{}
	if typ.Kind == KindAggregation {
		arguments = append(arguments, &ast.ArgumentDefinition{Name: "interval", Type: nonNull(intervalType)})
	}
	arguments = append(arguments, collectionArguments(typ.Name)...)
	arguments = append(arguments, blockArguments()...)

	plural := &ast.FieldDefinition{
		Name:      PluralFieldName(typ.Name),
		Arguments: arguments,
		Type:      nonNullListOf(typ.Name),
	}

	return ast.FieldList{singular, plural}
}

func fulltextField(fulltext *FulltextDefinition) *ast.FieldDefinition {
	arguments := ast.ArgumentDefinitionList{
		{Name: "text", Type: nonNull("String")},
		{Name: "first", Type: named("Int"), DefaultValue: intValue("100")},
		{Name: "skip", Type: named("Int"), DefaultValue: intValue("0")},
		{Name: "where", Type: named(filterName(fulltext.Entity))},
	}
	return &ast.FieldDefinition{
		Name:      fulltext.Name,
		Arguments: append(arguments, blockArguments()...),
		Type:      nonNullListOf(fulltext.Entity),
	}
}

// objectCopy copies an entity, interface or aggregation into the API schema. Lists of other
// types become collections that can be paged, sorted and filtered.
func (d *derivation) objectCopy(typ *ObjectType) *ast.Definition {
	kind := ast.Object
	if typ.Kind == KindInterface {
		kind = ast.Interface
	}
	definition := &ast.Definition{
		Kind:        kind,
		Name:        typ.Name,
		Description: typ.definition.Description,
		Interfaces:  typ.Interfaces,
	}
	for _, field := range typ.Fields {
		copied := &ast.FieldDefinition{
			Name:        field.Name,
			Description: field.definition.Description,
			Type:        field.Type,
			Directives:  apiDirectives(field.definition.Directives),
		}
		if field.List && d.input.Type(field.BaseType) != nil {
			copied.Arguments = collectionArguments(field.BaseType)
		}
		definition.Fields = append(definition.Fields, copied)
	}
	return definition
}

func enumCopy(enum *EnumType) *ast.Definition {
	definition := &ast.Definition{
		Kind:        ast.Enum,
		Name:        enum.Name,
		Description: enum.definition.Description,
	}
	for _, value := range enum.definition.EnumValues {
		definition.EnumValues = append(definition.EnumValues, &ast.EnumValueDefinition{
			Name:        value.Name,
			Description: value.Description,
			Directives:  apiDirectives(value.Directives),
		})
	}
	return definition
}

// apiDirectives keeps the directives that mean something to API consumers; the subgraph
// specific ones (@entity, @derivedFrom ...) are not part of the API
func apiDirectives(directives ast.DirectiveList) ast.DirectiveList {
	kept := ast.DirectiveList{}
	for _, directive := range directives {
		if directive.Name == deprecatedDirective {
			kept = append(kept, directive)
		}
	}
	return kept
}
