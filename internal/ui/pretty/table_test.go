package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/internal/ui/pretty"
	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/runner"
	"github.com/yaklabco/goxref/pkg/xref"
)

func sampleResult() *runner.Result {
	source := "<p>See #1\nand #9, !#2 or project#archived</p>"
	refs := []xref.Reference{
		{
			ReferenceMatch: xref.ReferenceMatch{Kind: xref.KindIssue, Start: 6, End: 9, Raw: " #1", Separator: "#", Identifier: "1"},
			Resolved:       true,
			Href:           "/issues/1",
		},
		{
			ReferenceMatch: xref.ReferenceMatch{Kind: xref.KindIssue, Start: 13, End: 16, Raw: " #9", Separator: "#", Identifier: "9"},
		},
		{
			ReferenceMatch: xref.ReferenceMatch{Kind: xref.KindIssue, Start: 17, End: 21, Raw: " !#2", Escaped: true},
		},
		{
			ReferenceMatch: xref.ReferenceMatch{Kind: xref.KindProject, Start: 24, End: 41, Raw: " project#archived"},
			Resolved:       true,
		},
	}

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "docs/index.html", Result: &pipeline.Result{Path: "docs/index.html", Source: []byte(source), References: refs}},
			{Path: "docs/empty.html", Result: &pipeline.Result{Path: "docs/empty.html"}},
		},
		Stats: runner.Stats{FilesProcessed: 2, References: 4, Resolved: 2, Unresolved: 2},
	}
}

func TestReferenceToTableRow(t *testing.T) {
	t.Parallel()

	result := sampleResult()
	file := result.Files[0]
	source := string(file.Result.Source)

	tests := []struct {
		name   string
		ref    xref.Reference
		loc    string
		target string
		state  pretty.RefState
	}{
		{"resolved", file.Result.References[0], "1:7", "/issues/1", pretty.StateResolved},
		{"unresolved", file.Result.References[1], "2:4", "(unresolved)", pretty.StateUnresolved},
		{"escaped", file.Result.References[2], "2:8", "(escaped)", pretty.StateEscaped},
		{"no link", file.Result.References[3], "2:15", "(no link)", pretty.StateResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			row := pretty.ReferenceToTableRow(file.Path, source, tt.ref)
			assert.Equal(t, file.Path, row.File)
			assert.Equal(t, tt.loc, row.Location)
			assert.Equal(t, tt.target, row.Target)
			assert.Equal(t, tt.state, row.State)
			assert.Equal(t, strings.TrimSpace(tt.ref.Raw), row.Reference)
		})
	}
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	out := formatter.FormatTable(sampleResult())
	require.NotEmpty(t, out)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Contains(t, lines[0], "FILE")
	assert.Contains(t, lines[0], "TARGET")
	assert.True(t, strings.HasPrefix(lines[1], "==="))
	assert.Contains(t, out, "/issues/1")
	assert.Contains(t, out, "project#archived")
	assert.NotContains(t, out, "docs/empty.html", "files without references have no rows")
	assert.Contains(t, lines[len(lines)-1], "Legend")
}

func TestFormatTable_Empty(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 80)
	assert.Empty(t, formatter.FormatTable(nil))
	assert.Empty(t, formatter.FormatTable(&runner.Result{}))
	assert.Empty(t, formatter.FormatTable(&runner.Result{
		Files: []runner.FileOutcome{{Path: "a.html", Result: &pipeline.Result{}}},
	}))
}

func TestFormatTable_TruncatesToTerminal(t *testing.T) {
	t.Parallel()

	result := sampleResult()
	long := result.Files[0].Result.References[0]
	long.Href = "/projects/" + strings.Repeat("x", 200) + "/wiki"
	result.Files[0].Result.References[0] = long

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 100)
	out := formatter.FormatTable(result)
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, strings.Repeat("x", 200))
}

func TestFormatTableSummary(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	summary := formatter.FormatTableSummary(runner.Stats{FilesProcessed: 2, Resolved: 3, Unresolved: 1, FilesErrored: 1})
	assert.Equal(t, " 2 files scanned | 3 resolved | 1 unresolved | 1 file failed", summary)
}
