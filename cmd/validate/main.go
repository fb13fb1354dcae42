// Command validate checks subgraph schemas the way a graph node does when it deploys them.
//
//	validate [-b] [-api] [-spec-version V] [-workers N] schema...
//
// Every schema gets one line on stdout. Schemas that fail validation don't stop the run;
// files that can't be read or bulk records that can't be decoded do.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nautilus/subgraph"
	"github.com/nautilus/subgraph/internal/config"
	"github.com/nautilus/subgraph/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var bulk bool
	fs.BoolVar(&bulk, "b", false, "read files with one JSON record {id, schema} per line")
	fs.BoolVar(&bulk, "batch", false, "same as -b")
	api := fs.Bool("api", false, "also derive the API schema of valid schemas")
	specVersion := fs.String("spec-version", cfg.SpecVersion, "spec version to validate against")
	workers := fs.Int("workers", cfg.Workers, "number of schemas validated at the same time")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [-b] [-api] [-spec-version V] [-workers N] schema...\n\n", fs.Name()),
			writeln(stderr, "Validates subgraph schemas and reports one line per schema."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return 1
	}

	version, err := subgraph.ParseSpecVersion(*specVersion)
	if err != nil {
		_ = writef(stderr, "error: %v\n", err)
		return 2
	}

	cleanup, err := logging.Setup(logging.FromConfig(cfg), stderr)
	if err != nil {
		_ = writef(stderr, "error setting up logging: %v\n", err)
		return 1
	}
	defer func() {
		_ = cleanup()
	}()

	mode, err := subgraph.NewMode(bulk)
	if err != nil {
		slog.Error("could not prepare input mode", "error", err)
		return 1
	}

	pipelineOpts := []subgraph.PipelineOption{subgraph.WithAPISchema(*api)}
	if cfg.CacheSize > 0 {
		cache, err := subgraph.NewOutcomeCache(cfg.CacheSize)
		if err != nil {
			slog.Error("could not create outcome cache", "error", err)
			return 1
		}
		pipelineOpts = append(pipelineOpts, subgraph.WithOutcomeCache(cache))
	}

	// graph nodes that index these schemas run with fulltext search enabled
	opts := subgraph.Options{AllowNonDeterministicFulltextSearch: true}

	runner := &subgraph.Runner{
		Mode:     mode,
		Pipeline: subgraph.NewPipeline(version, opts, pipelineOpts...),
		Reporter: subgraph.NewReporter(stdout),
		Workers:  *workers,
	}

	if _, err := runner.Run(context.Background(), paths); err != nil {
		slog.Error("validation aborted", "error", err)
		_ = writef(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
