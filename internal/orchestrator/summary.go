package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"colorder/internal/output"
)

// RunSummary describes one successful run.
type RunSummary struct {
	RunID      string
	Input      string
	Rows       int
	Mapped     int      // canonical columns filled from a source column
	Unmapped   []string // canonical headers left empty, in schema order
	Strategy   string   // "oracle" or "exact"
	Fallback   error    // oracle failure that forced the exact match, if any
	OutputPath string
	BackupPath string
	Duration   time.Duration
}

// Report prints the summary as indented fields.
func (s *RunSummary) Report(out *output.Output) {
	out.Info("Reformatted %s", s.Input)
	out.Field("Rows", s.Rows)
	out.Field("Columns", fmt.Sprintf("%d mapped, %d empty", s.Mapped, len(s.Unmapped)))
	if len(s.Unmapped) > 0 {
		out.Field("Empty", strings.Join(s.Unmapped, ", "))
	}
	strategy := s.Strategy
	if s.Fallback != nil {
		strategy += " (oracle failed)"
	}
	out.Field("Matching", strategy)
	out.Field("Output", s.OutputPath)
	out.Field("Backup", s.BackupPath)
	out.Verbose("  Run id:      %s (%s)", s.RunID, s.Duration.Round(time.Millisecond))
}

// Failure records an input that could not be reformatted.
type Failure struct {
	Path string
	Err  error
}

// BatchSummary collects the results of RunBatch.
type BatchSummary struct {
	Runs     []*RunSummary
	Failures []Failure
	Duration time.Duration
}

// HasErrors returns true if any input failed.
func (b *BatchSummary) HasErrors() bool {
	return len(b.Failures) > 0
}

// Fallbacks counts runs that fell back to the exact match.
func (b *BatchSummary) Fallbacks() int {
	n := 0
	for _, r := range b.Runs {
		if r.Fallback != nil {
			n++
		}
	}
	return n
}

// String returns a one-line summary.
func (b *BatchSummary) String() string {
	return fmt.Sprintf("Reformatted %d of %d files (%d failed, %d used exact fallback) in %s",
		len(b.Runs), len(b.Runs)+len(b.Failures), len(b.Failures), b.Fallbacks(), b.Duration.Round(time.Millisecond))
}
