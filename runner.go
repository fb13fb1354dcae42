package subgraph

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Summary counts what a run did
type Summary struct {
	Schemas int
	OK      int
	Failed  int
}

func (s *Summary) add(outcome Outcome) {
	s.Schemas++
	if outcome.OK() {
		s.OK++
	} else {
		s.Failed++
	}
}

// String renders the counts with grouped digits, e.g. "12,480 schemas, 12,001 ok, 479 failed"
func (s Summary) String() string {
	return printer.Sprintf("%d schemas, %d ok, %d failed", s.Schemas, s.OK, s.Failed)
}

// Runner takes every schema of a list of files through a pipeline and reports them
type Runner struct {
	Mode     Mode
	Pipeline *Pipeline
	Reporter *Reporter
	// Workers is the number of schemas validated at the same time. With 1 or less schemas are
	// validated and reported one after the other.
	Workers int
}

// Run processes the files in order. Schemas that fail a stage are reported and the run goes
// on; the first *IngestionError stops the run and is returned together with the summary of
// everything reported before it.
func (r *Runner) Run(ctx context.Context, paths []string) (Summary, error) {
	start := time.Now()
	summary := Summary{}

	for _, path := range paths {
		slog.Info("validating file", "path", path, "mode", modeName(r.Mode))
		if err := r.Reporter.Banner(r.Mode.Banner(path)); err != nil {
			return summary, err
		}

		var err error
		if r.Workers <= 1 {
			err = r.runSequential(ctx, path, &summary)
		} else {
			err = r.runParallel(ctx, path, &summary)
		}
		if err != nil {
			return summary, err
		}
	}

	slog.Info("run complete", "summary", summary.String(), "duration", time.Since(start))
	return summary, nil
}

func (r *Runner) runSequential(ctx context.Context, path string, summary *Summary) error {
	return r.Mode.Each(path, func(input SchemaInput) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome := r.Pipeline.Run(input.Label, input.Raw)
		summary.add(outcome)
		return r.Reporter.Outcome(outcome)
	})
}

// runParallel validates the schemas of one file concurrently. Outcomes are still reported in
// file order, once the file has been read to the end or reading it failed.
func (r *Runner) runParallel(ctx context.Context, path string, summary *Summary) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)

	outcomes := []*Outcome{}
	readErr := r.Mode.Each(path, func(input SchemaInput) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		slot := &Outcome{}
		outcomes = append(outcomes, slot)

		g.Go(func() error {
			*slot = r.Pipeline.Run(input.Label, input.Raw)
			return nil
		})
		return nil
	})
	// the workers never fail, so Wait only returns once every outcome is filled in
	_ = g.Wait()

	for _, outcome := range outcomes {
		summary.add(*outcome)
		if err := r.Reporter.Outcome(*outcome); err != nil {
			return err
		}
	}
	return readErr
}

func modeName(mode Mode) string {
	if _, ok := mode.(*BulkMode); ok {
		return "bulk"
	}
	return "single"
}
