package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/goxref/internal/ui/pretty"
	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/runner"
)

// TextReporter writes rewritten content, reference listings or per-file
// status lines as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to process."))
		}
		return 0, nil
	}

	multiple := len(result.Files) > 1
	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Failure.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Result == nil {
			continue
		}

		switch {
		case r.opts.ShowContent:
			r.writeContent(path, file.Result, multiple)
		case r.opts.ShowReferences:
			r.writeReferences(path, file.Result)
		default:
			r.writeStatus(path, file.Result)
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return unresolved(result), nil
}

// writeContent prints the rewritten text, with a header per file when
// several files are printed.
func (r *TextReporter) writeContent(path string, result *pipeline.Result, multiple bool) {
	if multiple {
		fmt.Fprintln(r.bw, r.styles.Dim.Render(fmt.Sprintf("==> %s <==", path)))
	}
	r.bw.Write(result.Output) //nolint:errcheck // Flush reports the error.
	if multiple && len(result.Output) > 0 && result.Output[len(result.Output)-1] != '\n' {
		fmt.Fprintln(r.bw)
	}
}

// writeReferences prints one "path:line:col: kind reference -> target" line
// per reference.
func (r *TextReporter) writeReferences(path string, result *pipeline.Result) {
	source := string(result.Source)
	for _, ref := range result.References {
		row := pretty.ReferenceToTableRow(path, source, ref)

		target := r.styles.Target.Render(row.Target)
		switch row.State {
		case pretty.StateUnresolved:
			target = r.styles.Unresolved.Render(row.Target)
		case pretty.StateEscaped:
			target = r.styles.Escaped.Render(row.Target)
		case pretty.StateResolved:
		}

		fmt.Fprintf(r.bw, "%s:%s: %s %s -> %s\n",
			r.styles.FilePath.Render(row.File),
			r.styles.Location.Render(row.Location),
			r.styles.Kind.Render(row.Kind),
			r.styles.Reference.Render(row.Reference),
			target,
		)
	}
}

// writeStatus prints a status line for files that changed or were skipped.
func (r *TextReporter) writeStatus(path string, result *pipeline.Result) {
	if !result.Changed && !result.Written && !result.Skipped {
		return
	}

	status := result.Summary()
	switch {
	case result.Skipped:
		status = r.styles.Warning.Render(status)
	case result.Written:
		status = r.styles.Success.Render(status)
	default:
		status = r.styles.Dim.Render(status)
	}

	target := path
	if result.OutputPath != "" && result.OutputPath != result.Path {
		target = path + " -> " + displayPath(result.OutputPath, r.opts.WorkingDir)
	}
	fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(target), status)
}
