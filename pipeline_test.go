package subgraph

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSchema = `type Thing @entity @subgraphId(id: "abc123") { id: ID! name: String }`

func TestPipeline_success(t *testing.T) {
	outcome := NewPipeline(DefaultSpecVersion, Options{}).Run("schema.graphql", validSchema)

	assert.True(t, outcome.OK())
	assert.Equal(t, "abc123", outcome.ID())
	assert.NotNil(t, outcome.Parse.Document)
	assert.NotNil(t, outcome.InputSchema.Schema)
	assert.Equal(t, DeploymentHash("abc123"), outcome.InputSchema.Schema.ID())
	assert.False(t, outcome.ApiSchema.Requested)
	assert.Nil(t, outcome.ApiSchema.Schema)

	stage, err := outcome.Failure()
	assert.Equal(t, Stage(""), stage)
	assert.NoError(t, err)
}

func TestPipeline_parseFailureStopsEarly(t *testing.T) {
	outcome := NewPipeline(DefaultSpecVersion, Options{}, WithAPISchema(true)).Run("broken.graphql", `type Thing @entity { id: ID!`)

	stage, err := outcome.Failure()
	assert.Equal(t, StageParse, stage)
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))

	// nothing after parsing ran
	assert.Equal(t, IdentifierResult{}, outcome.Identifier)
	assert.Equal(t, InputSchemaResult{}, outcome.InputSchema)
	assert.Equal(t, ApiSchemaResult{}, outcome.ApiSchema)
}

func TestPipeline_identifierFailure(t *testing.T) {
	outcome := NewPipeline(DefaultSpecVersion, Options{}).Run("bad.graphql", `type Thing @entity @subgraphId(id: "bad-id") { id: ID! }`)

	stage, err := outcome.Failure()
	assert.Equal(t, StageIdentifier, stage)
	assert.IsType(t, &IdentifierFormatError{}, err)
	assert.Equal(t, "bad-id", outcome.ID())
	assert.Nil(t, outcome.InputSchema.Schema)
}

func TestPipeline_inputSchemaFailure(t *testing.T) {
	outcome := NewPipeline(DefaultSpecVersion, Options{}, WithAPISchema(true)).Run("invalid.graphql", `type Thing { id: ID! }`)

	stage, err := outcome.Failure()
	assert.Equal(t, StageInputSchema, stage)
	assert.IsType(t, &SchemaValidationError{}, err)
	assert.Equal(t, UnknownSubgraphID, outcome.ID())
	assert.False(t, outcome.ApiSchema.Requested)
}

func TestPipeline_apiSchemaFailureKeepsInputSchema(t *testing.T) {
	raw := `
		type Person @entity @subgraphId(id: "QmPeople") { id: ID! }
		type People @entity { id: ID! }
	`
	outcome := NewPipeline(DefaultSpecVersion, Options{}, WithAPISchema(true)).Run("people.graphql", raw)

	assert.NoError(t, outcome.InputSchema.Err)
	assert.NotNil(t, outcome.InputSchema.Schema)

	assert.True(t, outcome.ApiSchema.Requested)
	assert.Nil(t, outcome.ApiSchema.Schema)
	stage, err := outcome.Failure()
	assert.Equal(t, StageApiSchema, stage)
	assert.IsType(t, &ApiSchemaError{}, err)
}

func TestPipeline_apiSchema(t *testing.T) {
	outcome := NewPipeline(DefaultSpecVersion, Options{}, WithAPISchema(true)).Run("schema.graphql", validSchema)

	require.True(t, outcome.OK())
	require.NotNil(t, outcome.ApiSchema.Schema)
	assert.True(t, strings.Contains(outcome.ApiSchema.Schema.SDL(), "Thing_filter"))
}

func TestPipeline_optionsArePerPipeline(t *testing.T) {
	strict := NewPipeline(DefaultSpecVersion, Options{})
	lenient := NewPipeline(DefaultSpecVersion, fulltextEnabled)

	stage, _ := strict.Run("bands", fulltextSchema).Failure()
	assert.Equal(t, StageInputSchema, stage)
	assert.True(t, lenient.Run("bands", fulltextSchema).OK())
}

func TestPipeline_deterministic(t *testing.T) {
	pipeline := NewPipeline(DefaultSpecVersion, Options{}, WithAPISchema(true))

	for _, raw := range []string{validSchema, tokenSchema, `type Thing { id: ID! }`, `type {`} {
		first := pipeline.Run("schema", raw)
		second := pipeline.Run("schema", raw)
		assert.Equal(t, FormatOutcome(first), FormatOutcome(second))
	}
}

func TestPipeline_cache(t *testing.T) {
	cache, err := NewOutcomeCache(16)
	require.NoError(t, err)
	pipeline := NewPipeline(DefaultSpecVersion, Options{}, WithOutcomeCache(cache))

	first := pipeline.Run("sgd1", validSchema)
	second := pipeline.Run("sgd2", validSchema)

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, "sgd1", first.Label)
	assert.Equal(t, "sgd2", second.Label)
	// the cached outcome is reused as is
	assert.Same(t, first.InputSchema.Schema, second.InputSchema.Schema)
}
