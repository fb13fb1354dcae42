package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"
)

var (
	orderOperators  = []string{"_gt", "_lt", "_gte", "_lte"}
	setOperators    = []string{"_in", "_not_in"}
	bytesOperators  = []string{"_contains", "_not_contains"}
	stringOperators = []string{
		"_contains", "_contains_nocase",
		"_not_contains", "_not_contains_nocase",
		"_starts_with", "_starts_with_nocase",
		"_not_starts_with", "_not_starts_with_nocase",
		"_ends_with", "_ends_with_nocase",
		"_not_ends_with", "_not_ends_with_nocase",
	}
	listOperators       = []string{"", "_not", "_contains", "_not_contains"}
	listStringOperators = []string{"", "_not", "_contains", "_contains_nocase", "_not_contains", "_not_contains_nocase"}
)

func filterName(typeName string) string {
	return typeName + "_filter"
}

func orderByName(typeName string) string {
	return typeName + "_orderBy"
}

// filterDefinition builds the input object used in `where` arguments for typ
func (d *derivation) filterDefinition(typ *ObjectType) *ast.Definition {
	name := filterName(typ.Name)
	definition := &ast.Definition{
		Kind: ast.InputObject,
		Name: name,
	}
	for _, field := range typ.Fields {
		definition.Fields = append(definition.Fields, d.fieldFilters(field)...)
	}
	definition.Fields = append(definition.Fields,
		&ast.FieldDefinition{
			Name:        "_change_block",
			Type:        named(blockChangedFilterType),
			Description: "Filter for the block changed event.",
		},
		&ast.FieldDefinition{Name: "and", Type: ast.ListType(named(name), nil)},
		&ast.FieldDefinition{Name: "or", Type: ast.ListType(named(name), nil)},
	)
	return definition
}

func (d *derivation) fieldFilters(field *Field) ast.FieldList {
	if target := d.input.Type(field.BaseType); target != nil {
		return d.referenceFilters(field, target)
	}

	base := field.BaseType
	if field.List {
		operators := listOperators
		if base == "String" {
			operators = listStringOperators
		}
		return operatorFilters(field.Name, operators, listOf(base))
	}

	filters := operatorFilters(field.Name, []string{"", "_not"}, named(base))
	if d.input.Enum(base) != nil || base == "Boolean" {
		return append(filters, operatorFilters(field.Name, setOperators, listOf(base))...)
	}

	filters = append(filters, operatorFilters(field.Name, orderOperators, named(base))...)
	filters = append(filters, operatorFilters(field.Name, setOperators, listOf(base))...)
	switch base {
	case "String":
		filters = append(filters, operatorFilters(field.Name, stringOperators, named(base))...)
	case "Bytes":
		filters = append(filters, operatorFilters(field.Name, bytesOperators, named(base))...)
	}
	return filters
}

// referenceFilters compare the ids stored in a field pointing at another type, and allow
// filtering on the fields of the referenced type through `field_`
func (d *derivation) referenceFilters(field *Field, target *ObjectType) ast.FieldList {
	nested := &ast.FieldDefinition{Name: field.Name + "_", Type: named(filterName(target.Name))}
	if field.IsDerived() {
		return ast.FieldList{nested}
	}

	idType := referenceIDType(target)
	if field.List {
		operators := listOperators
		if idType == "String" {
			operators = listStringOperators
		}
		filters := operatorFilters(field.Name, operators, listOf(idType))
		return append(filters, nested)
	}

	filters := operatorFilters(field.Name, []string{"", "_not"}, named(idType))
	filters = append(filters, operatorFilters(field.Name, orderOperators, named(idType))...)
	filters = append(filters, operatorFilters(field.Name, setOperators, listOf(idType))...)
	switch idType {
	case "String":
		filters = append(filters, operatorFilters(field.Name, stringOperators, named(idType))...)
	case "Bytes":
		filters = append(filters, operatorFilters(field.Name, bytesOperators, named(idType))...)
	}
	return append(filters, nested)
}

// referenceIDType is the type used to hold the id of target in filters
func referenceIDType(target *ObjectType) string {
	switch target.IDType() {
	case "Bytes", "Int8":
		return target.IDType()
	}
	return "String"
}

func operatorFilters(fieldName string, operators []string, typ *ast.Type) ast.FieldList {
	filters := make(ast.FieldList, 0, len(operators))
	for _, operator := range operators {
		filters = append(filters, &ast.FieldDefinition{Name: fieldName + operator, Type: typ})
	}
	return filters
}

// orderByDefinition lists what a collection of typ can be sorted by. Single references to
// other types can also be sorted by their scalar fields, as `field__child`.
func (d *derivation) orderByDefinition(typ *ObjectType) *ast.Definition {
	definition := &ast.Definition{
		Kind: ast.Enum,
		Name: orderByName(typ.Name),
	}
	for _, field := range typ.Fields {
		definition.EnumValues = append(definition.EnumValues, &ast.EnumValueDefinition{Name: field.Name})

		target := d.input.Type(field.BaseType)
		if target == nil || field.List || field.IsDerived() {
			continue
		}
		for _, child := range target.Fields {
			if child.List || d.input.Type(child.BaseType) != nil {
				continue
			}
			definition.EnumValues = append(definition.EnumValues, &ast.EnumValueDefinition{Name: field.Name + "__" + child.Name})
		}
	}
	return definition
}
