package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/goxref/pkg/runner"
	"github.com/yaklabco/goxref/pkg/xref"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string          `json:"path"`
	OutputPath string          `json:"outputPath,omitempty"`
	Rendered   bool            `json:"rendered,omitempty"`
	Changed    bool            `json:"changed"`
	Written    bool            `json:"written,omitempty"`
	Backup     bool            `json:"backup,omitempty"`
	Skipped    string          `json:"skipped,omitempty"`
	Error      string          `json:"error,omitempty"`
	References []JSONReference `json:"references,omitempty"`
	Output     *string         `json:"output,omitempty"`
}

// JSONReference represents a single reference and its resolution.
type JSONReference struct {
	Kind     xref.Kind `json:"kind"`
	Raw      string    `json:"raw"`
	Text     string    `json:"text"`
	Line     int       `json:"line"`
	Column   int       `json:"column"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
	Escaped  bool      `json:"escaped,omitempty"`
	Resolved bool      `json:"resolved"`
	Href     string    `json:"href,omitempty"`
	Class    string    `json:"class,omitempty"`
	Title    string    `json:"title,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesProcessed int `json:"filesProcessed"`
	FilesChanged   int `json:"filesChanged"`
	FilesModified  int `json:"filesModified"`
	FilesSkipped   int `json:"filesSkipped"`
	FilesErrored   int `json:"filesErrored"`
	References     int `json:"references"`
	Resolved       int `json:"resolved"`
	Unresolved     int `json:"unresolved"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Unresolved, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesProcessed: stats.FilesProcessed,
		FilesChanged:   stats.FilesChanged,
		FilesModified:  stats.FilesModified,
		FilesSkipped:   stats.FilesSkipped,
		FilesErrored:   stats.FilesErrored,
		References:     stats.References,
		Resolved:       stats.Resolved,
		Unresolved:     stats.Unresolved,
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{Path: displayPath(file.Path, r.opts.WorkingDir)}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}

		if pr := file.Result; pr != nil {
			if pr.OutputPath != pr.Path {
				fileResult.OutputPath = displayPath(pr.OutputPath, r.opts.WorkingDir)
			}
			fileResult.Rendered = pr.Rendered
			fileResult.Changed = pr.Changed
			fileResult.Written = pr.Written
			fileResult.Backup = pr.BackupCreated
			if pr.Skipped {
				fileResult.Skipped = pr.SkipReason
			}

			if r.opts.ShowReferences {
				source := string(pr.Source)
				fileResult.References = make([]JSONReference, 0, len(pr.References))
				for _, ref := range pr.References {
					fileResult.References = append(fileResult.References, toJSONReference(source, ref))
				}
			}

			if r.opts.ShowContent {
				content := string(pr.Output)
				fileResult.Output = &content
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

func toJSONReference(source string, ref xref.Reference) JSONReference {
	line, col := xref.LineColumn(source, ref.Start)
	return JSONReference{
		Kind:     ref.Kind,
		Raw:      ref.Raw,
		Text:     ref.Text(),
		Line:     line,
		Column:   col,
		Start:    ref.Start,
		End:      ref.End,
		Escaped:  ref.Escaped,
		Resolved: ref.Resolved,
		Href:     ref.Href,
		Class:    ref.Class,
		Title:    ref.Title,
	}
}
