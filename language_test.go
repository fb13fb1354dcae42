package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectiveFinder(t *testing.T) {
	doc, err := ParseDocument(`
		type Thing @entity(immutable: true) @tag(name: "a") @tag(name: "b") {
			id: ID!
			others: [Other!]! @derivedFrom(field: "thing")
		}
		enum Color { RED }
		type Other @entity {
			id: ID!
			thing: Thing!
		}
	`)
	require.NoError(t, err)

	objects := ObjectTypes(doc)
	require.Len(t, objects, 2)
	assert.Equal(t, "Thing", objects[0].Name)
	assert.Equal(t, "Other", objects[1].Name)

	finders := []DirectiveFinder{
		objects[0],
		FieldDefinition{objects[0].Fields.ForName("others")},
	}
	assert.NotNil(t, finders[0].FindDirective("entity"))
	assert.Nil(t, finders[0].FindDirective("derivedFrom"))
	assert.Len(t, finders[0].FindDirectives("tag"), 2)
	assert.NotNil(t, finders[1].FindDirective("derivedFrom"))
	assert.Empty(t, finders[1].FindDirectives("entity"))

	immutable, ok := BooleanValue(DirectiveArgument(finders[0].FindDirective("entity"), "immutable"))
	assert.True(t, ok)
	assert.True(t, immutable)

	tag, ok := StringValue(DirectiveArgument(finders[0].FindDirectives("tag")[1], "name"))
	assert.True(t, ok)
	assert.Equal(t, "b", tag)

	assert.Nil(t, DirectiveArgument(nil, "name"))
	assert.Nil(t, DirectiveArgument(finders[0].FindDirective("entity"), "timeseries"))
}

func TestValueHelpers(t *testing.T) {
	doc, err := ParseDocument(`
		type Thing @config(list: ["a", "b"], object: { key: "value" }, kind: FAST, flag: "true") {
			id: ID!
		}
	`)
	require.NoError(t, err)
	directive := ObjectTypes(doc)[0].FindDirective("config")

	items, ok := ListValues(DirectiveArgument(directive, "list"))
	require.True(t, ok)
	require.Len(t, items, 2)
	first, _ := StringValue(items[0])
	assert.Equal(t, "a", first)

	value, ok := StringValue(ObjectField(DirectiveArgument(directive, "object"), "key"))
	assert.True(t, ok)
	assert.Equal(t, "value", value)
	assert.Nil(t, ObjectField(DirectiveArgument(directive, "object"), "missing"))

	kind, ok := EnumValue(DirectiveArgument(directive, "kind"))
	assert.True(t, ok)
	assert.Equal(t, "FAST", kind)

	// a string is not a boolean, even when it reads like one
	_, ok = BooleanValue(DirectiveArgument(directive, "flag"))
	assert.False(t, ok)

	_, ok = ListValues(DirectiveArgument(directive, "kind"))
	assert.False(t, ok)
}
