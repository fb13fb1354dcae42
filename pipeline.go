package subgraph

import (
	"log/slog"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
)

// Stage names a step of the validation pipeline
type Stage string

const (
	StageParse       Stage = "Parse"
	StageIdentifier  Stage = "Identifier"
	StageInputSchema Stage = "InputSchema"
	StageApiSchema   Stage = "ApiSchema"
)

// ParseResult is the outcome of parsing the schema text
type ParseResult struct {
	Document *ast.SchemaDocument
	Err      error
}

// IdentifierResult is the outcome of extracting the deployment id. Raw holds the declared
// value (or UnknownSubgraphID) even when it failed the format check.
type IdentifierResult struct {
	ID  DeploymentHash
	Raw string
	Err error
}

// InputSchemaResult is the outcome of validating the input schema
type InputSchemaResult struct {
	Schema *InputSchema
	Err    error
}

// ApiSchemaResult is the outcome of deriving the API schema; Requested is false when the
// pipeline was not asked to derive it
type ApiSchemaResult struct {
	Requested bool
	Schema    *ApiSchema
	Err       error
}

// Outcome records what happened to one schema at every stage it reached
type Outcome struct {
	Label       string
	Parse       ParseResult
	Identifier  IdentifierResult
	InputSchema InputSchemaResult
	ApiSchema   ApiSchemaResult
}

// ID returns the deployment id to show for the schema
func (o Outcome) ID() string {
	if o.Identifier.ID != "" {
		return o.Identifier.ID.String()
	}
	return o.Identifier.Raw
}

// Failure returns the first stage that failed and its error, or "" and nil when every stage
// that ran succeeded
func (o Outcome) Failure() (Stage, error) {
	switch {
	case o.Parse.Err != nil:
		return StageParse, o.Parse.Err
	case o.Identifier.Err != nil:
		return StageIdentifier, o.Identifier.Err
	case o.InputSchema.Err != nil:
		return StageInputSchema, o.InputSchema.Err
	case o.ApiSchema.Err != nil:
		return StageApiSchema, o.ApiSchema.Err
	}
	return "", nil
}

// OK reports whether every stage that ran succeeded
func (o Outcome) OK() bool {
	stage, _ := o.Failure()
	return stage == ""
}

// Pipeline runs parse, identify, validate and (optionally) derive for one schema at a time.
// Its configuration is fixed at construction; a Pipeline is safe for concurrent use.
type Pipeline struct {
	version SpecVersion
	options Options
	api     bool
	cache   *OutcomeCache
}

// PipelineOption configures a Pipeline
type PipelineOption func(p *Pipeline)

// WithAPISchema makes the pipeline derive the API schema of every valid input schema
func WithAPISchema(api bool) PipelineOption {
	return func(p *Pipeline) {
		p.api = api
	}
}

// WithOutcomeCache lets the pipeline reuse outcomes for identical schema text
func WithOutcomeCache(cache *OutcomeCache) PipelineOption {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// NewPipeline returns a pipeline validating against version with the given options
func NewPipeline(version SpecVersion, opts Options, pipelineOpts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		version: version,
		options: opts,
	}
	for _, opt := range pipelineOpts {
		opt(p)
	}
	return p
}

// Run takes one schema through the pipeline. It never fails as a whole: whatever goes wrong
// is recorded in the outcome for the stage where it happened.
func (p *Pipeline) Run(label string, raw string) Outcome {
	if p.cache != nil {
		if outcome, ok := p.cache.Get(raw); ok {
			slog.Debug("reusing outcome for identical schema", "label", label, "id", outcome.ID())
			outcome.Label = label
			return outcome
		}
	}

	start := time.Now()
	outcome := p.run(label, raw)
	stage, _ := outcome.Failure()
	slog.Debug("validated schema",
		"label", label,
		"id", outcome.ID(),
		"failed_stage", string(stage),
		"duration", time.Since(start),
	)

	if p.cache != nil {
		p.cache.Put(raw, outcome)
	}
	return outcome
}

func (p *Pipeline) run(label string, raw string) Outcome {
	outcome := Outcome{Label: label}

	doc, err := ParseDocument(raw)
	outcome.Parse = ParseResult{Document: doc, Err: err}
	if err != nil {
		return outcome
	}

	id, declared, err := SubgraphID(doc)
	outcome.Identifier = IdentifierResult{ID: id, Raw: declared, Err: err}
	if err != nil {
		return outcome
	}

	input, err := NewInputSchema(p.version, doc, id, p.options)
	outcome.InputSchema = InputSchemaResult{Schema: input, Err: err}
	if err != nil || !p.api {
		return outcome
	}

	api, err := input.APISchema()
	outcome.ApiSchema = ApiSchemaResult{Requested: true, Schema: api, Err: err}
	return outcome
}
