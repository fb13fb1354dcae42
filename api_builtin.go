package subgraph

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// names of the types every API schema defines
const (
	blockHeightType        = "Block_height"
	blockChangedFilterType = "BlockChangedFilter"
	blockType              = "_Block_"
	metaType               = "_Meta_"
	orderDirectionType     = "OrderDirection"
	errorPolicyType        = "_SubgraphErrorPolicy_"
	intervalType           = "Aggregation_interval"
)

func named(name string) *ast.Type {
	return ast.NamedType(name, nil)
}

func nonNull(name string) *ast.Type {
	return ast.NonNullNamedType(name, nil)
}

// listOf returns [name!]
func listOf(name string) *ast.Type {
	return ast.ListType(nonNull(name), nil)
}

// nonNullListOf returns [name!]!
func nonNullListOf(name string) *ast.Type {
	return ast.NonNullListType(nonNull(name), nil)
}

func intValue(raw string) *ast.Value {
	return &ast.Value{Kind: ast.IntValue, Raw: raw}
}

func enumValue(raw string) *ast.Value {
	return &ast.Value{Kind: ast.EnumValue, Raw: raw}
}

func enumDefinition(name string, description string, values ...string) *ast.Definition {
	definition := &ast.Definition{
		Kind:        ast.Enum,
		Name:        name,
		Description: description,
	}
	for _, value := range values {
		definition.EnumValues = append(definition.EnumValues, &ast.EnumValueDefinition{Name: value})
	}
	return definition
}

// builtinDefinitions returns fresh copies of the types every API schema includes, regardless
// of what the subgraph declares
func builtinDefinitions() ast.DefinitionList {
	definitions := ast.DefinitionList{}

	for _, scalar := range []string{"BigDecimal", "BigInt", "Bytes", "Int8", "Timestamp"} {
		definitions = append(definitions, &ast.Definition{Kind: ast.Scalar, Name: scalar})
	}

	definitions = append(definitions,
		enumDefinition(orderDirectionType, "Defines the order direction, either ascending or descending", "asc", "desc"),
		enumDefinition(errorPolicyType, "", "allow", "deny"),
		enumDefinition(intervalType, "", aggregationIntervals...),
		&ast.Definition{
			Kind: ast.InputObject,
			Name: blockHeightType,
			Fields: ast.FieldList{
				{Name: "hash", Type: named("Bytes")},
				{Name: "number", Type: named("Int")},
				{Name: "number_gte", Type: named("Int")},
			},
		},
		&ast.Definition{
			Kind: ast.InputObject,
			Name: blockChangedFilterType,
			Fields: ast.FieldList{
				{Name: "number_gte", Type: nonNull("Int")},
			},
		},
		&ast.Definition{
			Kind: ast.Object,
			Name: blockType,
			Fields: ast.FieldList{
				{Name: "hash", Type: named("Bytes"), Description: "The hash of the block"},
				{Name: "number", Type: nonNull("Int"), Description: "The block number"},
				{Name: "timestamp", Type: named("Int"), Description: "Integer representation of the timestamp stored in blocks for the chain"},
				{Name: "parentHash", Type: named("Bytes"), Description: "The hash of the parent block"},
			},
		},
		&ast.Definition{
			Kind:        ast.Object,
			Name:        metaType,
			Description: "The type for the top-level _meta field",
			Fields: ast.FieldList{
				{Name: "block", Type: nonNull(blockType)},
				{Name: "deployment", Type: nonNull("String"), Description: "The deployment ID"},
				{Name: "hasIndexingErrors", Type: nonNull("Boolean"), Description: "If `true`, the subgraph encountered indexing errors at some past block"},
			},
		},
	)

	return definitions
}

// blockArguments are accepted by every root field
func blockArguments() ast.ArgumentDefinitionList {
	return ast.ArgumentDefinitionList{
		{
			Name:        "block",
			Type:        named(blockHeightType),
			Description: "The block at which the query should be executed. Can either be a `{ hash: Bytes }` value containing a block hash, a `{ number: Int }` containing the block number, or a `{ number_gte: Int }` containing the minimum block number. In the case of `number_gte`, the query will be executed on the latest block only if the subgraph has progressed to or past the minimum block number. Defaults to the latest block when omitted.",
		},
		{
			Name:         "subgraphError",
			Type:         nonNull(errorPolicyType),
			DefaultValue: enumValue("deny"),
			Description:  "Set to `allow` to receive data even if the subgraph has skipped over errors while syncing.",
		},
	}
}

// collectionArguments page, sort and filter a list of typeName
func collectionArguments(typeName string) ast.ArgumentDefinitionList {
	return ast.ArgumentDefinitionList{
		{Name: "skip", Type: named("Int"), DefaultValue: intValue("0")},
		{Name: "first", Type: named("Int"), DefaultValue: intValue("100")},
		{Name: "orderBy", Type: named(orderByName(typeName))},
		{Name: "orderDirection", Type: named(orderDirectionType)},
		{Name: "where", Type: named(filterName(typeName))},
	}
}

func metaField() *ast.FieldDefinition {
	return &ast.FieldDefinition{
		Name:        "_meta",
		Description: "Access to subgraph metadata",
		Arguments: ast.ArgumentDefinitionList{
			{Name: "block", Type: named(blockHeightType)},
		},
		Type: named(metaType),
	}
}
