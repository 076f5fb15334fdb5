// Package orchestrator coordinates one reformatting run: read the export,
// resolve the header mapping, write the reordered copy, then the backup.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"colorder/internal/artifact"
	"colorder/internal/matcher"
	"colorder/internal/output"
	"colorder/internal/schema"
	"colorder/internal/sheet"
	"colorder/internal/table"
)

// RunErrorType represents the type of a fatal run error.
type RunErrorType string

const (
	InputNotFound RunErrorType = "INPUT_NOT_FOUND"
	EmptyInput    RunErrorType = "EMPTY_INPUT"
	InputRead     RunErrorType = "INPUT_READ"
	OutputWrite   RunErrorType = "OUTPUT_WRITE"
)

// RunError aborts a run. Oracle failures are never RunErrors.
type RunError struct {
	Type RunErrorType
	Path string
	Err  error
}

func (e *RunError) Error() string {
	switch e.Type {
	case InputNotFound:
		return fmt.Sprintf("input file not found: %s", e.Path)
	case EmptyInput:
		return fmt.Sprintf("input file has no data rows: %s", e.Path)
	case InputRead:
		return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
	case OutputWrite:
		return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("run failed for %s: %v", e.Path, e.Err)
	}
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Options configures a Reformatter.
type Options struct {
	Schema schema.Schema
	Naming artifact.Naming
	// Primary is consulted before the exact header match. Nil means exact only.
	Primary matcher.Strategy
	Output  *output.Output
}

// Reformatter runs the pipeline for one input at a time. Its fields are
// fixed at construction and shared by every run.
type Reformatter struct {
	schema  schema.Schema
	naming  artifact.Naming
	primary matcher.Strategy
	out     *output.Output
}

// New creates a Reformatter. Zero options fall back to the default schema,
// default naming, exact matching and silent output.
func New(opts Options) *Reformatter {
	if opts.Schema.Len() == 0 {
		opts.Schema = schema.Default()
	}
	if opts.Naming.ReformattedSuffix == "" || opts.Naming.BackupSuffix == "" {
		opts.Naming = artifact.DefaultNaming()
	}
	if opts.Output == nil {
		opts.Output = output.Discard()
	}
	return &Reformatter{
		schema:  opts.Schema,
		naming:  opts.Naming,
		primary: opts.Primary,
		out:     opts.Output,
	}
}

// Run reformats input. The output file is written before the backup, and
// input itself is only ever read.
func (r *Reformatter) Run(ctx context.Context, input string) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{
		RunID: uuid.NewString(),
		Input: input,
	}
	r.out.Verbose("[%s] reading %s", summary.RunID, input)

	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &RunError{Type: InputNotFound, Path: input, Err: err}
		}
		return nil, &RunError{Type: InputRead, Path: input, Err: err}
	}
	if info.IsDir() {
		return nil, &RunError{Type: InputRead, Path: input, Err: errors.New("is a directory")}
	}

	t, err := sheet.Read(input)
	if err != nil {
		return nil, &RunError{Type: InputRead, Path: input, Err: err}
	}
	if len(t.Rows) == 0 {
		return nil, &RunError{Type: EmptyInput, Path: input}
	}

	headers := t.SourceHeaderSet()
	raw := table.RawHeaders(headers)
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = h.Normalized
	}
	canonical := r.schema.Headers()

	outcome := matcher.Resolve(ctx, r.primary, normalized, canonical)
	if outcome.UsedFallback() {
		r.out.Warn("oracle mapping failed, using exact header match: %v", outcome.Fallback)
	}
	r.logMapping(summary.RunID, outcome, raw, canonical)

	reordered := table.Reorder(t, outcome.Mapping, raw, canonical)

	paths := r.naming.Plan(input)
	if err := sheet.Write(paths.Output, reordered); err != nil {
		return nil, &RunError{Type: OutputWrite, Path: paths.Output, Err: err}
	}
	if err := artifact.Backup(input, paths.Backup); err != nil {
		return nil, &RunError{Type: OutputWrite, Path: paths.Backup, Err: err}
	}

	summary.Rows = len(reordered.Rows)
	summary.Strategy = outcome.Strategy
	summary.Fallback = outcome.Fallback
	summary.Mapped = outcome.Mapping.MappedCount()
	summary.Unmapped = unmappedHeaders(outcome.Mapping, canonical)
	summary.OutputPath = paths.Output
	summary.BackupPath = paths.Backup
	summary.Duration = time.Since(start)
	return summary, nil
}

// RunBatch runs every input in order. A failed input is recorded and the
// batch continues; cancellation stops before the next input.
func (r *Reformatter) RunBatch(ctx context.Context, inputs []string) *BatchSummary {
	start := time.Now()
	batch := &BatchSummary{}

	r.out.StartProgress(len(inputs))
	for i, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		r.out.UpdateProgress(i+1, "")

		summary, err := r.Run(ctx, input)
		if err != nil {
			batch.Failures = append(batch.Failures, Failure{Path: input, Err: err})
			continue
		}
		batch.Runs = append(batch.Runs, summary)
	}
	r.out.EndProgress()

	batch.Duration = time.Since(start)
	return batch
}

func (r *Reformatter) logMapping(runID string, outcome matcher.Outcome, source, canonical []string) {
	if !r.out.IsVerbose() {
		return
	}
	r.out.Verbose("[%s] %s mapping:", runID, outcome.Strategy)
	for c, header := range canonical {
		if src, ok := outcome.Mapping.Source(c); ok {
			r.out.Verbose("  %2d %-20s <- %q", c+1, header, source[src])
		} else {
			r.out.Verbose("  %2d %-20s    (empty)", c+1, header)
		}
	}
}

func unmappedHeaders(mapping matcher.Mapping, canonical []string) []string {
	var unmapped []string
	for c, header := range canonical {
		if _, ok := mapping.Source(c); !ok {
			unmapped = append(unmapped, header)
		}
	}
	return unmapped
}
