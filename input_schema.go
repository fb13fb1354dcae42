package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"
)

const (
	entityDirective      = "entity"
	derivedFromDirective = "derivedFrom"
	fulltextDirective    = "fulltext"
	aggregationDirective = "aggregation"
	aggregateDirective   = "aggregate"
	deprecatedDirective  = "deprecated"

	// SchemaTypeName is the pseudo type that carries schema wide directives such as @fulltext
	SchemaTypeName = "_Schema_"

	idField        = "id"
	timestampField = "timestamp"
)

// scalars every subgraph schema can use without declaring them
var builtinScalars = map[string]bool{
	"ID":         true,
	"String":     true,
	"Int":        true,
	"Float":      true,
	"Boolean":    true,
	"BigInt":     true,
	"BigDecimal": true,
	"Bytes":      true,
	"Int8":       true,
	"Timestamp":  true,
}

// TypeKind classifies the object-like types of an input schema
type TypeKind int

const (
	KindEntity TypeKind = iota
	KindInterface
	KindAggregation
)

func (k TypeKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindAggregation:
		return "aggregation"
	}
	return "entity"
}

// Field is a field of an entity, interface or aggregation
type Field struct {
	Name string
	Type *ast.Type
	// BaseType is the named type with list and non-null wrappers removed
	BaseType string
	List     bool
	// DerivedFrom names the field on the referenced type this field is derived from
	DerivedFrom string
	// Aggregate is set for the aggregated fields of an aggregation
	Aggregate *Aggregate

	definition *ast.FieldDefinition
}

// IsDerived reports whether the field is computed from the other side of a relationship
func (f *Field) IsDerived() bool {
	return f.DerivedFrom != ""
}

// Definition returns the field as it appears in the schema document
func (f *Field) Definition() *ast.FieldDefinition {
	return f.definition
}

// ObjectType is an entity, an interface or an aggregation of an input schema
type ObjectType struct {
	Name       string
	Kind       TypeKind
	Immutable  bool
	Timeseries bool
	Interfaces []string
	Fields     []*Field
	// Aggregation is set when Kind is KindAggregation
	Aggregation *Aggregation

	definition *ast.Definition
}

// Field returns the named field, or nil
func (t *ObjectType) Field(name string) *Field {
	for _, field := range t.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// IDType returns the base type of the id field
func (t *ObjectType) IDType() string {
	if field := t.Field(idField); field != nil {
		return field.BaseType
	}
	return ""
}

// Definition returns the type as it appears in the schema document
func (t *ObjectType) Definition() *ast.Definition {
	return t.definition
}

// EnumType is an enum declared by the schema
type EnumType struct {
	Name   string
	Values []string

	definition *ast.Definition
}

// InputSchema is a subgraph schema that passed validation under one spec version
type InputSchema struct {
	id       DeploymentHash
	version  SpecVersion
	options  Options
	document *ast.SchemaDocument

	types    []*ObjectType
	enums    []*EnumType
	fulltext []*FulltextDefinition

	typesByName map[string]*ObjectType
	enumsByName map[string]*EnumType
}

// ParseInputSchema parses raw and validates the result against the rules of version
func ParseInputSchema(version SpecVersion, raw string, id DeploymentHash, opts Options) (*InputSchema, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	return NewInputSchema(version, doc, id, opts)
}

// NewInputSchema validates an already parsed document. Either every rule passes and the
// schema is returned, or a *SchemaValidationError lists everything that is wrong.
func NewInputSchema(version SpecVersion, doc *ast.SchemaDocument, id DeploymentHash, opts Options) (*InputSchema, error) {
	if _, err := ParseSpecVersion(string(version)); err != nil {
		return nil, &SchemaValidationError{Errors: ErrorList{NewError("UNKNOWN_SPEC_VERSION", err.Error())}}
	}

	v := newValidation(version, doc, opts)
	if errs := v.run(); len(errs) > 0 {
		return nil, &SchemaValidationError{Errors: errs}
	}

	return buildInputSchema(v, id), nil
}

func buildInputSchema(v *validation, id DeploymentHash) *InputSchema {
	schema := &InputSchema{
		id:          id,
		version:     v.version,
		options:     v.options,
		document:    v.doc,
		typesByName: map[string]*ObjectType{},
		enumsByName: map[string]*EnumType{},
	}

	for _, definition := range v.doc.Definitions {
		switch definition.Kind {
		case ast.Enum:
			enum := &EnumType{Name: definition.Name, definition: definition}
			for _, value := range definition.EnumValues {
				enum.Values = append(enum.Values, value.Name)
			}
			schema.enums = append(schema.enums, enum)
			schema.enumsByName[enum.Name] = enum

		case ast.Object, ast.Interface:
			if definition.Name == SchemaTypeName {
				directives := TypeDefinition{definition}.FindDirectives(fulltextDirective)
				for _, directive := range directives {
					// validation already rejected anything that doesn't parse
					fulltext, _ := parseFulltext(directive)
					schema.fulltext = append(schema.fulltext, fulltext)
				}
				continue
			}
			typ := buildObjectType(definition)
			schema.types = append(schema.types, typ)
			schema.typesByName[typ.Name] = typ
		}
	}

	return schema
}

func buildObjectType(definition *ast.Definition) *ObjectType {
	typ := &ObjectType{
		Name:       definition.Name,
		Kind:       KindEntity,
		Interfaces: definition.Interfaces,
		definition: definition,
	}

	finder := TypeDefinition{definition}
	switch {
	case definition.Kind == ast.Interface:
		typ.Kind = KindInterface
	case finder.FindDirective(aggregationDirective) != nil:
		typ.Kind = KindAggregation
		typ.Immutable = true
		typ.Aggregation, _ = parseAggregation(finder.FindDirective(aggregationDirective))
	default:
		entity := finder.FindDirective(entityDirective)
		typ.Immutable, _ = BooleanValue(DirectiveArgument(entity, "immutable"))
		typ.Timeseries, _ = BooleanValue(DirectiveArgument(entity, "timeseries"))
		if typ.Timeseries {
			typ.Immutable = true
		}
	}

	for _, def := range definition.Fields {
		field := &Field{
			Name:       def.Name,
			Type:       def.Type,
			BaseType:   def.Type.Name(),
			List:       def.Type.Elem != nil,
			definition: def,
		}
		fieldFinder := FieldDefinition{def}
		if derived := fieldFinder.FindDirective(derivedFromDirective); derived != nil {
			field.DerivedFrom, _ = StringValue(DirectiveArgument(derived, "field"))
		}
		if aggregate := fieldFinder.FindDirective(aggregateDirective); aggregate != nil {
			field.Aggregate, _ = parseAggregate(aggregate)
		}
		typ.Fields = append(typ.Fields, field)
	}

	return typ
}

// ID returns the deployment the schema belongs to
func (s *InputSchema) ID() DeploymentHash {
	return s.id
}

// SpecVersion returns the version the schema was validated against
func (s *InputSchema) SpecVersion() SpecVersion {
	return s.version
}

// Document returns the parsed schema document
func (s *InputSchema) Document() *ast.SchemaDocument {
	return s.document
}

// Types returns entities, interfaces and aggregations in declaration order
func (s *InputSchema) Types() []*ObjectType {
	return s.types
}

// Type returns the entity, interface or aggregation with the given name, or nil
func (s *InputSchema) Type(name string) *ObjectType {
	return s.typesByName[name]
}

// Entities returns the entity types in declaration order
func (s *InputSchema) Entities() []*ObjectType {
	return s.typesOfKind(KindEntity)
}

// Interfaces returns the interface types in declaration order
func (s *InputSchema) Interfaces() []*ObjectType {
	return s.typesOfKind(KindInterface)
}

// Aggregations returns the aggregation types in declaration order
func (s *InputSchema) Aggregations() []*ObjectType {
	return s.typesOfKind(KindAggregation)
}

func (s *InputSchema) typesOfKind(kind TypeKind) []*ObjectType {
	result := []*ObjectType{}
	for _, typ := range s.types {
		if typ.Kind == kind {
			result = append(result, typ)
		}
	}
	return result
}

// Implementers returns the entities that implement the named interface
func (s *InputSchema) Implementers(iface string) []*ObjectType {
	result := []*ObjectType{}
	for _, typ := range s.Entities() {
		for _, name := range typ.Interfaces {
			if name == iface {
				result = append(result, typ)
				break
			}
		}
	}
	return result
}

// Enums returns the enum types in declaration order
func (s *InputSchema) Enums() []*EnumType {
	return s.enums
}

// Enum returns the enum with the given name, or nil
func (s *InputSchema) Enum(name string) *EnumType {
	return s.enumsByName[name]
}

// Fulltext returns the fulltext search definitions declared on _Schema_
func (s *InputSchema) Fulltext() []*FulltextDefinition {
	return s.fulltext
}
