package subgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkLine(id int, schema string) string {
	return fmt.Sprintf(`{"id": %d, "schema": %q}`, id, schema) + "\n"
}

func newTestRunner(t *testing.T, bulk bool, workers int, out *bytes.Buffer) *Runner {
	mode, err := NewMode(bulk)
	require.NoError(t, err)
	return &Runner{
		Mode:     mode,
		Pipeline: NewPipeline(DefaultSpecVersion, fulltextEnabled),
		Reporter: NewReporter(out),
		Workers:  workers,
	}
}

func TestRunner_single(t *testing.T) {
	valid := writeFile(t, "valid.graphql", validSchema)
	invalid := writeFile(t, "invalid.graphql", `type Thing { id: ID! }`)

	var out bytes.Buffer
	summary, err := newTestRunner(t, false, 1, &out).Run(context.Background(), []string{valid, invalid})
	require.NoError(t, err)

	assert.Equal(t, Summary{Schemas: 2, OK: 1, Failed: 1}, summary)
	assert.Equal(t, strings.Join([]string{
		"Validating schema from " + valid,
		"Schema " + valid + "[abc123]: OK",
		"Validating schema from " + invalid,
		"InputSchema: " + invalid + "[unknown]: schema validation failed: type `Thing` is missing the @entity directive",
	}, "\n")+"\n", out.String())
}

func TestRunner_missingFileStopsTheRun(t *testing.T) {
	valid := writeFile(t, "valid.graphql", validSchema)
	missing := valid + ".missing"

	var out bytes.Buffer
	summary, err := newTestRunner(t, false, 1, &out).Run(context.Background(), []string{valid, missing, valid})

	var ingestionErr *IngestionError
	require.True(t, errors.As(err, &ingestionErr))
	assert.Equal(t, missing, ingestionErr.Path)
	assert.Equal(t, Summary{Schemas: 1, OK: 1}, summary)
	assert.Equal(t, 2, strings.Count(out.String(), "Validating schema from"))
}

func TestRunner_bulk(t *testing.T) {
	path := writeFile(t, "dump.jsonl",
		bulkLine(1, validSchema)+
			bulkLine(2, `type Thing { id: ID! }`)+
			bulkLine(3, `type Thing {`),
	)

	var out bytes.Buffer
	summary, err := newTestRunner(t, true, 1, &out).Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, Summary{Schemas: 3, OK: 1, Failed: 2}, summary)
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Validating schemas from "+path, lines[0])
	assert.Equal(t, "Schema sgd1[abc123]: OK", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "InputSchema: sgd2[unknown]: "), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Parse: sgd3: "), lines[3])
}

func TestRunner_bulkMalformedRecord(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			path := writeFile(t, "dump.jsonl",
				bulkLine(1, validSchema)+
					`{"id": 2, "schema": type Thing}`+"\n"+
					bulkLine(3, validSchema),
			)

			var out bytes.Buffer
			summary, err := newTestRunner(t, true, workers, &out).Run(context.Background(), []string{path})

			var ingestionErr *IngestionError
			require.True(t, errors.As(err, &ingestionErr))
			assert.Equal(t, 2, ingestionErr.Line)

			// the record before the malformed one is still reported
			assert.Equal(t, Summary{Schemas: 1, OK: 1}, summary)
			assert.Equal(t, "Validating schemas from "+path+"\nSchema sgd1[abc123]: OK\n", out.String())
		})
	}
}

func TestRunner_parallelKeepsOrder(t *testing.T) {
	content := ""
	for i := 1; i <= 50; i++ {
		schema := validSchema
		if i%3 == 0 {
			schema = `type Thing { id: ID! }`
		}
		content += bulkLine(i, schema)
	}
	path := writeFile(t, "dump.jsonl", content)

	var sequential, parallel bytes.Buffer
	sequentialSummary, err := newTestRunner(t, true, 1, &sequential).Run(context.Background(), []string{path})
	require.NoError(t, err)
	parallelSummary, err := newTestRunner(t, true, 8, &parallel).Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, sequential.String(), parallel.String())
	assert.Equal(t, sequentialSummary, parallelSummary)
	assert.Equal(t, Summary{Schemas: 50, OK: 34, Failed: 16}, parallelSummary)
}

func TestRunner_canceled(t *testing.T) {
	path := writeFile(t, "dump.jsonl", bulkLine(1, validSchema))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	summary, err := newTestRunner(t, true, 1, &out).Run(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Summary{}, summary)
}

func TestSummary_String(t *testing.T) {
	assert.Equal(t, "12,480 schemas, 12,001 ok, 479 failed", Summary{Schemas: 12480, OK: 12001, Failed: 479}.String())
}
