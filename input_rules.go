package subgraph

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// names the API schema needs for itself
var reservedTypeNames = map[string]bool{
	"Query":                 true,
	"Subscription":          true,
	"Mutation":              true,
	"_Meta_":                true,
	"_Block_":               true,
	"Block_height":          true,
	"BlockChangedFilter":    true,
	"OrderDirection":        true,
	"_SubgraphErrorPolicy_": true,
	"Aggregation_interval":  true,
}

// types an entity id can have
var idTypes = map[string]bool{
	"ID":     true,
	"String": true,
	"Bytes":  true,
	"Int8":   true,
}

// validation holds what the rules need to look at one schema document
type validation struct {
	version SpecVersion
	options Options
	doc     *ast.SchemaDocument

	// the first definition seen for every name
	definitions map[string]*ast.Definition
}

// rule checks one aspect of a schema and returns every violation it finds
type rule func(v *validation) []error

func inputSchemaRules() []rule {
	return []rule{
		validateDefinitionKinds,
		validateTypeNames,
		validateEntityDirectives,
		validateIDFields,
		validateFields,
		validateInterfaces,
		validateDerivedFrom,
		validateSchemaType,
		validateFulltext,
		validateAggregations,
	}
}

func newValidation(version SpecVersion, doc *ast.SchemaDocument, opts Options) *validation {
	v := &validation{
		version:     version,
		options:     opts,
		doc:         doc,
		definitions: map[string]*ast.Definition{},
	}
	for _, definition := range doc.Definitions {
		if _, ok := v.definitions[definition.Name]; !ok {
			v.definitions[definition.Name] = definition
		}
	}
	return v
}

func (v *validation) run() ErrorList {
	errs := ErrorList{}
	for _, check := range inputSchemaRules() {
		errs = append(errs, check(v)...)
	}
	return errs
}

// objectLike returns the object and interface definitions other than _Schema_
func (v *validation) objectLike() []*ast.Definition {
	result := []*ast.Definition{}
	for _, definition := range v.doc.Definitions {
		if (definition.Kind == ast.Object || definition.Kind == ast.Interface) && definition.Name != SchemaTypeName {
			result = append(result, definition)
		}
	}
	return result
}

func (v *validation) isEntity(name string) bool {
	def, ok := v.definitions[name]
	return ok && def.Kind == ast.Object && def.Directives.ForName(entityDirective) != nil
}

func (v *validation) isInterface(name string) bool {
	def, ok := v.definitions[name]
	return ok && def.Kind == ast.Interface
}

func (v *validation) isAggregation(name string) bool {
	def, ok := v.definitions[name]
	return ok && def.Kind == ast.Object && def.Directives.ForName(aggregationDirective) != nil
}

func (v *validation) isEnum(name string) bool {
	def, ok := v.definitions[name]
	return ok && def.Kind == ast.Enum
}

func (v *validation) isTimeseries(name string) bool {
	if !v.isEntity(name) {
		return false
	}
	timeseries, _ := BooleanValue(DirectiveArgument(v.definitions[name].Directives.ForName(entityDirective), "timeseries"))
	return timeseries
}

func validateDefinitionKinds(v *validation) []error {
	errs := []error{}
	if len(v.doc.Schema) > 0 || len(v.doc.SchemaExtension) > 0 {
		errs = append(errs, NewError("SCHEMA_DEFINITION_NOT_ALLOWED", "subgraph schemas must not contain a schema definition"))
	}
	for _, ext := range v.doc.Extensions {
		errs = append(errs, newErrorf("TYPE_EXTENSION_NOT_ALLOWED", []interface{}{ext.Name},
			"type extension `%s` is not supported", ext.Name))
	}
	for _, definition := range v.doc.Definitions {
		switch definition.Kind {
		case ast.Object, ast.Interface, ast.Enum:
		case ast.Scalar:
			if !builtinScalars[definition.Name] {
				errs = append(errs, newErrorf("UNSUPPORTED_DEFINITION", []interface{}{definition.Name},
					"custom scalar `%s` is not supported", definition.Name))
			}
		default:
			errs = append(errs, newErrorf("UNSUPPORTED_DEFINITION", []interface{}{definition.Name},
				"%s `%s` is not supported in subgraph schemas", strings.ToLower(string(definition.Kind)), definition.Name))
		}
	}
	return errs
}

func validateTypeNames(v *validation) []error {
	errs := []error{}
	seen := map[string]bool{}
	for _, definition := range v.doc.Definitions {
		name := definition.Name
		if seen[name] {
			errs = append(errs, newErrorf("DUPLICATE_TYPE", []interface{}{name}, "type `%s` is defined more than once", name))
			continue
		}
		seen[name] = true

		if reservedTypeNames[name] || strings.HasPrefix(name, "__") {
			errs = append(errs, newErrorf("RESERVED_TYPE_NAME", []interface{}{name}, "type name `%s` is reserved", name))
		}
	}
	return errs
}

func validateEntityDirectives(v *validation) []error {
	errs := []error{}
	for _, definition := range v.objectLike() {
		finder := TypeDefinition{definition}
		entity := finder.FindDirective(entityDirective)
		aggregation := finder.FindDirective(aggregationDirective)
		path := []interface{}{definition.Name}

		if definition.Kind == ast.Interface {
			if entity != nil || aggregation != nil {
				errs = append(errs, newErrorf("INVALID_ENTITY_DIRECTIVE", path,
					"interface `%s` must not be annotated with @entity or @aggregation", definition.Name))
			}
			continue
		}

		switch {
		case entity != nil && aggregation != nil:
			errs = append(errs, newErrorf("INVALID_ENTITY_DIRECTIVE", path,
				"type `%s` can not be both an @entity and an @aggregation", definition.Name))
			continue
		case aggregation != nil:
			// checked by validateAggregations
			continue
		case entity == nil:
			errs = append(errs, newErrorf("ENTITY_DIRECTIVE_MISSING", path,
				"type `%s` is missing the @entity directive", definition.Name))
			continue
		}

		values := map[string]bool{}
		for _, arg := range entity.Arguments {
			value, ok := BooleanValue(arg.Value)
			switch {
			case arg.Name != "immutable" && arg.Name != "timeseries":
				errs = append(errs, newErrorf("INVALID_ENTITY_DIRECTIVE", path,
					"unknown argument `%s` on @entity of `%s`", arg.Name, definition.Name))
			case !ok:
				errs = append(errs, newErrorf("INVALID_ENTITY_DIRECTIVE", path,
					"argument `%s` on @entity of `%s` must be a boolean", arg.Name, definition.Name))
			default:
				values[arg.Name] = value
			}
		}

		timeseries := values["timeseries"]
		if !timeseries {
			continue
		}
		if !v.version.AtLeast(SpecVersion1_1_0) {
			errs = append(errs, newErrorf("TIMESERIES_NOT_SUPPORTED", path,
				"timeseries `%s` requires spec version %s, the schema uses %s", definition.Name, SpecVersion1_1_0, v.version))
			continue
		}
		if immutable, set := values["immutable"]; set && !immutable {
			errs = append(errs, newErrorf("INVALID_TIMESERIES", path,
				"timeseries `%s` can not be mutable", definition.Name))
		}
		errs = append(errs, requireField(definition, timestampField, "Timestamp!", "INVALID_TIMESERIES")...)
		errs = append(errs, requireField(definition, idField, "Int8!", "INVALID_TIMESERIES")...)
	}
	return errs
}

// requireField checks that the definition has a field with exactly the given type
func requireField(definition *ast.Definition, name string, typ string, code string) []error {
	path := []interface{}{definition.Name, name}
	field := definition.Fields.ForName(name)
	if field == nil {
		return []error{newErrorf(code, path, "type `%s` must have a field `%s: %s`", definition.Name, name, typ)}
	}
	if field.Type.String() != typ {
		return []error{newErrorf(code, path, "field `%s` of `%s` must have type `%s`, not `%s`",
			name, definition.Name, typ, field.Type.String())}
	}
	return nil
}

func validateIDFields(v *validation) []error {
	errs := []error{}
	for _, definition := range v.objectLike() {
		if v.isAggregation(definition.Name) {
			continue
		}
		path := []interface{}{definition.Name, idField}
		field := definition.Fields.ForName(idField)
		if field == nil {
			errs = append(errs, newErrorf("ID_FIELD_MISSING", path, "type `%s` is missing an `id` field", definition.Name))
			continue
		}
		if !field.Type.NonNull || field.Type.Elem != nil || !idTypes[field.Type.NamedType] {
			errs = append(errs, newErrorf("INVALID_ID_TYPE", path,
				"the `id` field of `%s` must have type ID!, String!, Bytes! or Int8!, not `%s`",
				definition.Name, field.Type.String()))
		}
	}
	return errs
}

func validateFields(v *validation) []error {
	errs := []error{}
	for _, definition := range v.objectLike() {
		seen := map[string]bool{}
		for _, field := range definition.Fields {
			path := []interface{}{definition.Name, field.Name}
			if seen[field.Name] {
				errs = append(errs, newErrorf("DUPLICATE_FIELD", path,
					"field `%s` is defined more than once on `%s`", field.Name, definition.Name))
				continue
			}
			seen[field.Name] = true

			if strings.HasPrefix(field.Name, "__") {
				errs = append(errs, newErrorf("RESERVED_FIELD_NAME", path,
					"field name `%s` on `%s` is reserved", field.Name, definition.Name))
			}
			if len(field.Arguments) > 0 {
				errs = append(errs, newErrorf("FIELD_ARGUMENTS_NOT_ALLOWED", path,
					"field `%s` of `%s` must not have arguments", field.Name, definition.Name))
			}
			if field.Type.Elem != nil && field.Type.Elem.Elem != nil {
				errs = append(errs, newErrorf("NESTED_LIST", path,
					"field `%s` of `%s` is a list of lists, which is not supported", field.Name, definition.Name))
			}

			base := field.Type.Name()
			switch {
			case builtinScalars[base], v.isEnum(base), v.isEntity(base), v.isInterface(base):
			case v.isAggregation(base):
				if !v.isAggregation(definition.Name) {
					errs = append(errs, newErrorf("INVALID_FIELD_TYPE", path,
						"field `%s` of `%s` can not reference aggregation `%s`", field.Name, definition.Name, base))
				}
			default:
				errs = append(errs, newErrorf("UNKNOWN_TYPE", path,
					"field `%s` of `%s` has unknown type `%s`", field.Name, definition.Name, base))
			}
		}
	}
	return errs
}

func validateInterfaces(v *validation) []error {
	errs := []error{}
	for _, definition := range v.objectLike() {
		for _, name := range definition.Interfaces {
			path := []interface{}{definition.Name}
			if !v.isInterface(name) {
				errs = append(errs, newErrorf("INTERFACE_NOT_FOUND", path,
					"type `%s` implements `%s`, which is not an interface", definition.Name, name))
				continue
			}
			if definition.Kind == ast.Object && !v.isEntity(definition.Name) {
				errs = append(errs, newErrorf("CANNOT_IMPLEMENT", path,
					"only entities can implement interfaces; `%s` implements `%s`", definition.Name, name))
				continue
			}

			missing := []string{}
			for _, ifaceField := range v.definitions[name].Fields {
				field := definition.Fields.ForName(ifaceField.Name)
				if field == nil || field.Type.String() != ifaceField.Type.String() {
					missing = append(missing, ifaceField.Name+": "+ifaceField.Type.String())
				}
			}
			if len(missing) > 0 {
				errs = append(errs, newErrorf("CANNOT_IMPLEMENT", path,
					"type `%s` cannot implement `%s` because it is missing the fields: %s",
					definition.Name, name, strings.Join(missing, ", ")))
			}
		}
	}
	return errs
}

func validateDerivedFrom(v *validation) []error {
	errs := []error{}
	for _, definition := range v.objectLike() {
		for _, field := range definition.Fields {
			directive := FieldDefinition{field}.FindDirective(derivedFromDirective)
			if directive == nil {
				continue
			}
			path := []interface{}{definition.Name, field.Name}

			target, ok := StringValue(DirectiveArgument(directive, "field"))
			if !ok {
				errs = append(errs, newErrorf("INVALID_DERIVED_FROM", path,
					"@derivedFrom on `%s.%s` needs a string argument `field`", definition.Name, field.Name))
				continue
			}

			base := field.Type.Name()
			if !v.isEntity(base) && !v.isInterface(base) {
				errs = append(errs, newErrorf("INVALID_DERIVED_FROM", path,
					"field `%s.%s` is derived but its type `%s` is not an entity or interface", definition.Name, field.Name, base))
				continue
			}

			targetField := v.definitions[base].Fields.ForName(target)
			if targetField == nil {
				errs = append(errs, newErrorf("INVALID_DERIVED_FROM", path,
					"field `%s.%s` is derived from `%s.%s`, which does not exist", definition.Name, field.Name, base, target))
				continue
			}

			// the field we derive from has to point back at us or one of our interfaces
			back := targetField.Type.Name()
			pointsBack := back == definition.Name
			for _, iface := range definition.Interfaces {
				pointsBack = pointsBack || back == iface
			}
			if !pointsBack {
				errs = append(errs, newErrorf("INVALID_DERIVED_FROM", path,
					"field `%s.%s` is derived from `%s.%s`, which has type `%s` instead of referencing `%s`",
					definition.Name, field.Name, base, target, back, definition.Name))
			}
		}
	}
	return errs
}
