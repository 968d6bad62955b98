package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/runner"
	"github.com/yaklabco/goxref/pkg/xref"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 5 // FILE, LOC, KIND, REFERENCE, TARGET
	minFileWidth     = 16
	minLocWidth      = 6
	minKindWidth     = 10
	minRefWidth      = 16
	minTargetWidth   = 24
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100

	targetUnresolved = "(unresolved)"
	targetEscaped    = "(escaped)"
	targetNoLink     = "(no link)"
)

// RefState is the outcome of a reference, used to style its row.
type RefState int

const (
	// StateResolved rows link to a target (or render without one).
	StateResolved RefState = iota

	// StateUnresolved rows are left as written.
	StateUnresolved

	// StateEscaped rows were prefixed with "!".
	StateEscaped
)

// TableRow represents a single row in the references table.
type TableRow struct {
	File      string
	Location  string
	Kind      string
	Reference string
	Target    string
	State     RefState
}

// ReferenceToTableRow converts an inspected reference to a table row.
// source is the text the reference offsets point into.
func ReferenceToTableRow(path, source string, ref xref.Reference) TableRow {
	line, col := xref.LineColumn(source, ref.Start)
	row := TableRow{
		File:      path,
		Location:  fmt.Sprintf("%d:%d", line, col),
		Kind:      ref.Kind.String(),
		Reference: strings.TrimSpace(ref.Raw),
	}

	switch {
	case ref.Escaped:
		row.State = StateEscaped
		row.Target = targetEscaped
	case !ref.Resolved:
		row.State = StateUnresolved
		row.Target = targetUnresolved
	case ref.Href == "":
		row.Target = targetNoLink
	default:
		row.Target = ref.Href
	}
	return row
}

// TableFormatter formats references as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats the references of a run as a table grouped by file.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	groups := collectRows(result)
	if len(groups) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(groups)

	var builder strings.Builder
	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for i, group := range groups {
		if i > 0 {
			builder.WriteString(t.formatSeparator(widths, lightSeparator))
			builder.WriteString("\n")
		}
		for _, row := range group {
			builder.WriteString(t.formatRow(row, widths))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// FormatTableSummary formats the line printed under the table.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats) string {
	parts := []string{
		plural(stats.FilesProcessed, "file", "files") + " scanned",
		t.styles.Resolved.Render(fmt.Sprintf("%d resolved", stats.Resolved)),
	}
	if stats.Unresolved > 0 {
		parts = append(parts, t.styles.Unresolved.Render(fmt.Sprintf("%d unresolved", stats.Unresolved)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Failure.Render(plural(stats.FilesErrored, "file", "files")+" failed"))
	}
	return " " + strings.Join(parts, " | ")
}

func collectRows(result *runner.Result) [][]TableRow {
	var groups [][]TableRow
	for _, file := range result.Files {
		rows := fileRows(file.Path, file.Result)
		if len(rows) > 0 {
			groups = append(groups, rows)
		}
	}
	return groups
}

func fileRows(path string, result *pipeline.Result) []TableRow {
	if result == nil || len(result.References) == 0 {
		return nil
	}
	source := string(result.Source)
	rows := make([]TableRow, 0, len(result.References))
	for _, ref := range result.References {
		rows = append(rows, ReferenceToTableRow(path, source, ref))
	}
	return rows
}

type columnWidths struct {
	file   int
	loc    int
	kind   int
	ref    int
	target int
}

func (w columnWidths) total() int {
	return w.file + w.loc + w.kind + w.ref + w.target + tablePadding*tableColumnCount
}

// calculateColumnWidths sizes columns to their content, then shrinks the
// target and file columns to fit the terminal.
func (t *TableFormatter) calculateColumnWidths(groups [][]TableRow) columnWidths {
	widths := columnWidths{
		file:   minFileWidth,
		loc:    minLocWidth,
		kind:   minKindWidth,
		ref:    minRefWidth,
		target: minTargetWidth,
	}

	for _, group := range groups {
		for _, row := range group {
			widths.file = max(widths.file, len(row.File))
			widths.loc = max(widths.loc, len(row.Location))
			widths.kind = max(widths.kind, len(row.Kind))
			widths.ref = max(widths.ref, len(row.Reference))
			widths.target = max(widths.target, len(row.Target))
		}
	}

	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.target = max(minTargetWidth, widths.target-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}
	if excess := widths.total() - t.termWidth; excess > 0 {
		widths.ref = max(minRefWidth, widths.ref-excess)
	}

	return widths
}

func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.loc, "LOC",
		widths.kind, "KIND",
		widths.ref, "REFERENCE",
		widths.target, "TARGET",
	)
	return t.styles.TableHeader.Render(header)
}

func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, widths.total()))
}

func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.loc, truncateString(row.Location, widths.loc),
		widths.kind, truncateString(row.Kind, widths.kind),
		widths.ref, truncateString(row.Reference, widths.ref),
		widths.target, truncateString(row.Target, widths.target),
	)
	return t.rowStyle(row.State).Render(content)
}

func (t *TableFormatter) rowStyle(state RefState) lipgloss.Style {
	switch state {
	case StateUnresolved:
		return t.styles.Unresolved
	case StateEscaped:
		return t.styles.Escaped
	default:
		return t.styles.Reference
	}
}

func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(
			fmt.Sprintf(" Legend: %s = not found  %s = written with \"!\"", targetUnresolved, targetEscaped),
		)
	}

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s  %s",
			t.styles.Unresolved.Render(" unresolved "),
			t.styles.Escaped.Render(" escaped ")),
	)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
