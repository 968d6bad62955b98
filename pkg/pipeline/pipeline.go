// Package pipeline runs one file through goxref: read, optional Markdown
// rendering, reference rewriting, diffing and a guarded in-place write.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/goxref/internal/logging"
	"github.com/yaklabco/goxref/pkg/config"
	"github.com/yaklabco/goxref/pkg/diff"
	"github.com/yaklabco/goxref/pkg/fsutil"
	"github.com/yaklabco/goxref/pkg/render"
	"github.com/yaklabco/goxref/pkg/xref"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRenderFailure indicates Markdown rendering failed.
	ErrRenderFailure = errors.New("render failure")

	// ErrRewriteFailure indicates a catalog lookup failed while rewriting.
	ErrRewriteFailure = errors.New("rewrite failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Result is the outcome of processing a single file.
type Result struct {
	// Path is the input file path.
	Path string

	// OutputPath is where the rewritten content belongs. It differs from
	// Path for Markdown input, which is written as HTML next to the source.
	OutputPath string

	// Stamp is the input file state before processing (nil for in-memory content).
	Stamp *fsutil.Stamp

	// Rendered is true if the input was converted from Markdown.
	Rendered bool

	// Source is the text handed to the resolver (the rendered HTML for Markdown).
	Source []byte

	// Output is the rewritten text.
	Output []byte

	// Changed is true if rewriting altered Source.
	Changed bool

	// References lists every reference found in Source with its resolution.
	References []xref.Reference

	// Diff is the change from Source to Output; nil when unchanged.
	Diff *diff.File

	// Skipped is true if the file was left alone (e.g., concurrent modification).
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was written.
	BackupCreated bool

	// Written is true if Output was written to OutputPath.
	Written bool
}

// Resolved counts the references that resolved.
func (r *Result) Resolved() int {
	n := 0
	for _, ref := range r.References {
		if ref.Resolved {
			n++
		}
	}
	return n
}

// Unresolved counts the references left as written, escaped ones excluded.
func (r *Result) Unresolved() int {
	n := 0
	for _, ref := range r.References {
		if !ref.Resolved && !ref.Escaped {
			n++
		}
	}
	return n
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "rewritten (backup created)"
	case r.Written:
		return "rewritten"
	case r.Changed:
		return "changes pending"
	default:
		return "unchanged"
	}
}

// Options controls pipeline behavior.
type Options struct {
	// Write stores the output on disk.
	Write bool

	// Diff computes a unified diff of the changes.
	Diff bool

	// Input selects whether files are rendered from Markdown.
	Input config.InputMode

	// Backup configures backups taken before an in-place write.
	Backup fsutil.BackupMode
}

// OptionsFromConfig derives pipeline options from the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{Input: config.InputAuto, Backup: fsutil.BackupModeSidecar}
	}
	backup := fsutil.BackupModeNone
	if cfg.BackupsEnabled() {
		backup = fsutil.BackupMode(cfg.Backups.Mode)
	}
	return Options{
		Write:  cfg.Write && !cfg.DryRun,
		Diff:   cfg.DryRun || cfg.Format == config.FormatDiff,
		Input:  cfg.Input,
		Backup: backup,
	}
}

// Pipeline processes files against one resolver and rendering context.
// It is safe for concurrent use.
type Pipeline struct {
	Resolver *xref.Resolver
	Renderer *render.Renderer
	Context  *xref.Context
}

// New creates a pipeline.
func New(resolver *xref.Resolver, renderer *render.Renderer, rc *xref.Context) *Pipeline {
	if renderer == nil {
		renderer = render.New(render.FlavorGFM)
	}
	return &Pipeline{Resolver: resolver, Renderer: renderer, Context: rc}
}

// ProcessFile runs the full pipeline for a single file:
//  1. Read and stamp the file.
//  2. Render Markdown input to HTML.
//  3. Rewrite references and list them.
//  4. Diff the result.
//  5. When writing: check for concurrent modification, back up, write atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	content, stamp, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.Stamp = stamp

	if !opts.Write || (!result.Changed && !result.Rendered) {
		return result, nil
	}

	if err := p.write(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessContent runs the in-memory steps of the pipeline. Nothing is written.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	result := &Result{Path: path, OutputPath: path, Source: content}

	if p.shouldRender(path, opts.Input) {
		html, err := p.Renderer.Render(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailure, path, err)
		}
		result.Rendered = true
		result.Source = html
		if path != "" {
			result.OutputPath = render.OutputPath(path)
		}
	}

	text := string(result.Source)

	output, err := p.Resolver.Rewrite(ctx, text, p.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRewriteFailure, path, err)
	}
	result.Output = []byte(output)
	result.Changed = output != text

	result.References, err = p.Resolver.Inspect(ctx, text, p.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRewriteFailure, path, err)
	}

	if opts.Diff && result.Changed {
		result.Diff = diff.Compute(result.OutputPath, result.Source, result.Output)
	}

	logging.FromContext(ctx).Debug("processed file",
		logging.FieldPath, path,
		logging.FieldReferences, len(result.References),
		logging.FieldResolved, result.Resolved(),
		logging.FieldUnresolved, result.Unresolved())

	return result, nil
}

func (p *Pipeline) shouldRender(path string, mode config.InputMode) bool {
	switch mode {
	case config.InputMarkdown:
		return true
	case config.InputHTML:
		return false
	default:
		return render.IsMarkdown(path)
	}
}

// write stores the output. In-place rewrites are guarded against concurrent
// modification; rendered output goes to a separate file.
func (p *Pipeline) write(ctx context.Context, result *Result, opts Options) error {
	mode := fsutil.DefaultFileMode
	if result.Stamp != nil {
		mode = result.Stamp.Mode.Perm()
	}

	if result.OutputPath == result.Path {
		modified, err := fsutil.Changed(ctx, result.Stamp)
		if err != nil {
			return fmt.Errorf("check modified: %w", err)
		}
		if modified {
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return nil
		}
	} else if existing, err := os.ReadFile(result.OutputPath); err == nil && bytes.Equal(existing, result.Output) {
		return nil
	}

	created, err := fsutil.Backup(ctx, result.OutputPath, opts.Backup)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.BackupCreated = created

	if err := fsutil.WriteAtomic(ctx, result.OutputPath, result.Output, mode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logging.FromContext(ctx).Debug("wrote file",
		logging.FieldOutput, result.OutputPath,
		logging.FieldPath, result.Path)

	return nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrRenderFailure) ||
		errors.Is(err, ErrRewriteFailure) ||
		errors.Is(err, ErrWriteFailure)
}
