package subgraph

import (
	"fmt"
	"io"
)

// FormatOutcome returns the report line for a schema. The first stage that failed decides
// the line; an outcome without failures is reported as OK.
func FormatOutcome(outcome Outcome) string {
	stage, err := outcome.Failure()
	switch stage {
	case "":
		return fmt.Sprintf("Schema %s[%s]: OK", outcome.Label, outcome.ID())
	case StageParse:
		// nothing was identified yet
		return fmt.Sprintf("%s: %s: %s", stage, outcome.Label, err)
	case StageIdentifier:
		return fmt.Sprintf("%s: %s[%s]: %s", stage, outcome.Label, outcome.Identifier.Raw, err)
	default:
		return fmt.Sprintf("%s: %s[%s]: %s", stage, outcome.Label, outcome.ID(), err)
	}
}

// Reporter writes the result of a run, one line per schema
type Reporter struct {
	out io.Writer
}

// NewReporter returns a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Banner announces the schemas of a file
func (r *Reporter) Banner(line string) error {
	_, err := fmt.Fprintln(r.out, line)
	return err
}

// Outcome reports a single schema
func (r *Reporter) Outcome(outcome Outcome) error {
	_, err := fmt.Fprintln(r.out, FormatOutcome(outcome))
	return err
}
