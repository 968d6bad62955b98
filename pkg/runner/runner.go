package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/goxref/internal/logging"
	"github.com/yaklabco/goxref/pkg/pipeline"
)

// Runner orchestrates multi-file rewriting using a pipeline.
type Runner struct {
	// Pipeline handles per-file processing.
	Pipeline *pipeline.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(p *pipeline.Pipeline) *Runner {
	return &Runner{Pipeline: p}
}

// Run discovers files under opts.Paths and processes them with a bounded
// worker pool. Outcomes are returned in discovery order regardless of
// completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("discovered files",
		logging.FieldFilesDiscovered, len(files))

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	type work struct {
		index int
		path  string
	}
	workCh := make(chan work)
	outcomes := make([]*FileOutcome, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				if ctx.Err() != nil {
					return
				}
				outcome := r.process(ctx, item.path, opts)
				outcomes[item.index] = &outcome
			}
		}()
	}

feed:
	for i, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case workCh <- work{index: i, path: path}:
		}
	}
	close(workCh)
	wg.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.Add(*outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path string, opts Options) FileOutcome {
	pr, err := r.Pipeline.ProcessFile(ctx, path, opts.Pipeline)
	if err != nil {
		logging.FromContext(ctx).Debug("file failed",
			logging.FieldPath, path,
			logging.FieldError, err)
		return FileOutcome{Path: path, Error: err}
	}
	return FileOutcome{Path: path, Result: pr}
}
