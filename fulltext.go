package subgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

var fulltextLanguages = map[string]bool{
	"simple": true,
	"da":     true,
	"nl":     true,
	"en":     true,
	"fi":     true,
	"fr":     true,
	"de":     true,
	"hu":     true,
	"it":     true,
	"no":     true,
	"pt":     true,
	"ro":     true,
	"ru":     true,
	"es":     true,
	"sv":     true,
	"tr":     true,
}

var fulltextAlgorithms = map[string]bool{
	"rank":          true,
	"proximityRank": true,
}

// FulltextDefinition is a fulltext search declared with @fulltext on _Schema_
type FulltextDefinition struct {
	Name      string
	Language  string
	Algorithm string
	Entity    string
	Fields    []string
}

// parseFulltext reads the arguments of a @fulltext directive. It checks the shape of the
// arguments, not whether the entity and fields exist.
func parseFulltext(directive *ast.Directive) (*FulltextDefinition, error) {
	fulltext := &FulltextDefinition{}

	name, ok := StringValue(DirectiveArgument(directive, "name"))
	if !ok || name == "" {
		return nil, fmt.Errorf("@fulltext needs a string argument `name`")
	}
	fulltext.Name = name

	language, ok := EnumValue(DirectiveArgument(directive, "language"))
	if !ok || !fulltextLanguages[language] {
		return nil, fmt.Errorf("@fulltext `%s` has an unsupported language, expected one of %s", name, sortedKeys(fulltextLanguages))
	}
	fulltext.Language = language

	algorithm, ok := EnumValue(DirectiveArgument(directive, "algorithm"))
	if !ok || !fulltextAlgorithms[algorithm] {
		return nil, fmt.Errorf("@fulltext `%s` has an unsupported algorithm, expected rank or proximityRank", name)
	}
	fulltext.Algorithm = algorithm

	include, ok := ListValues(DirectiveArgument(directive, "include"))
	if !ok || len(include) != 1 {
		return nil, fmt.Errorf("@fulltext `%s` must include exactly one entity", name)
	}
	entity, ok := StringValue(ObjectField(include[0], "entity"))
	if !ok {
		return nil, fmt.Errorf("@fulltext `%s` needs a string `entity` in `include`", name)
	}
	fulltext.Entity = entity

	fields, ok := ListValues(ObjectField(include[0], "fields"))
	if !ok || len(fields) == 0 {
		return nil, fmt.Errorf("@fulltext `%s` needs a non empty list of `fields`", name)
	}
	for _, field := range fields {
		fieldName, ok := StringValue(ObjectField(field, "name"))
		if !ok {
			return nil, fmt.Errorf("@fulltext `%s` has a field without a string `name`", name)
		}
		fulltext.Fields = append(fulltext.Fields, fieldName)
	}

	return fulltext, nil
}

func validateSchemaType(v *validation) []error {
	errs := []error{}
	for _, definition := range v.doc.Definitions {
		if definition.Name != SchemaTypeName {
			continue
		}
		path := []interface{}{SchemaTypeName}
		if definition.Kind != ast.Object {
			errs = append(errs, newErrorf("INVALID_SCHEMA_TYPE", path, "`%s` must be an object type", SchemaTypeName))
		}
		if len(definition.Fields) > 0 {
			errs = append(errs, newErrorf("INVALID_SCHEMA_TYPE", path, "`%s` must not have fields", SchemaTypeName))
		}
		for _, directive := range definition.Directives {
			if directive.Name != fulltextDirective && directive.Name != SubgraphIDDirective {
				errs = append(errs, newErrorf("INVALID_SCHEMA_TYPE", path,
					"directive @%s is not allowed on `%s`", directive.Name, SchemaTypeName))
			}
		}
	}
	return errs
}

func validateFulltext(v *validation) []error {
	definition, ok := v.definitions[SchemaTypeName]
	if !ok {
		return nil
	}
	directives := TypeDefinition{definition}.FindDirectives(fulltextDirective)
	if len(directives) == 0 {
		return nil
	}

	path := []interface{}{SchemaTypeName}
	if !v.options.AllowNonDeterministicFulltextSearch {
		return []error{newErrorf("FULLTEXT_NOT_DETERMINISTIC", path,
			"fulltext search is not deterministic and is not allowed")}
	}

	errs := []error{}
	names := map[string]bool{}
	for _, directive := range directives {
		fulltext, err := parseFulltext(directive)
		if err != nil {
			errs = append(errs, newErrorf("INVALID_FULLTEXT", path, "%s", err))
			continue
		}
		if names[fulltext.Name] {
			errs = append(errs, newErrorf("INVALID_FULLTEXT", path, "@fulltext name `%s` is used more than once", fulltext.Name))
		}
		names[fulltext.Name] = true

		if !v.isEntity(fulltext.Entity) {
			errs = append(errs, newErrorf("INVALID_FULLTEXT", path,
				"@fulltext `%s` includes `%s`, which is not an entity", fulltext.Name, fulltext.Entity))
			continue
		}
		entity := v.definitions[fulltext.Entity]
		for _, name := range fulltext.Fields {
			field := entity.Fields.ForName(name)
			if field == nil || field.Type.Elem != nil || field.Type.Name() != "String" {
				errs = append(errs, newErrorf("INVALID_FULLTEXT", path,
					"@fulltext `%s` includes `%s.%s`, which is not a String field", fulltext.Name, fulltext.Entity, name))
			}
		}
	}
	return errs
}

func sortedKeys(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
