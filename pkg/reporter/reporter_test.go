package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/pkg/diff"
	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/reporter"
	"github.com/yaklabco/goxref/pkg/runner"
	"github.com/yaklabco/goxref/pkg/xref"
)

const (
	sampleSource = "<p>Fixes #1 and #9.</p>\n"
	sampleOutput = "<p>Fixes <a href=\"/issues/1\" class=\"issue status-1 priority-2\">#1</a> and #9.</p>\n"
)

func sampleResult() *runner.Result {
	rewritten := &pipeline.Result{
		Path:       "docs/index.html",
		OutputPath: "docs/index.html",
		Source:     []byte(sampleSource),
		Output:     []byte(sampleOutput),
		Changed:    true,
		Written:    true,
		References: []xref.Reference{
			{
				ReferenceMatch: xref.ReferenceMatch{Kind: xref.KindIssue, Start: 8, End: 11, Raw: " #1", Separator: "#", Identifier: "1"},
				Resolved:       true,
				Href:           "/issues/1",
				Class:          "issue status-1 priority-2",
			},
			{
				ReferenceMatch: xref.ReferenceMatch{Kind: xref.KindIssue, Start: 15, End: 18, Raw: " #9", Separator: "#", Identifier: "9"},
			},
		},
		Diff: diff.Compute("docs/index.html", []byte(sampleSource), []byte(sampleOutput)),
	}
	unchanged := &pipeline.Result{
		Path:       "docs/plain.html",
		OutputPath: "docs/plain.html",
		Source:     []byte("<p>nothing</p>\n"),
		Output:     []byte("<p>nothing</p>\n"),
	}

	result := &runner.Result{}
	result.Add(runner.FileOutcome{Path: rewritten.Path, Result: rewritten})
	result.Add(runner.FileOutcome{Path: unchanged.Path, Result: unchanged})
	result.Add(runner.FileOutcome{Path: "docs/locked.html", Error: errors.New("permission denied")})
	return result
}

func report(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), count
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{reporter.FormatText, reporter.FormatJSON, reporter.FormatDiff, reporter.FormatTable, ""} {
		rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: format})
		require.NoError(t, err, "format %q", format)
		assert.NotNil(t, rep)
	}

	rep, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
	assert.Nil(t, rep)
}

func TestTextReporter_Status(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatText, ShowSummary: true}, sampleResult())

	assert.Equal(t, 1, count)
	assert.Contains(t, out, "docs/index.html: rewritten\n")
	assert.NotContains(t, out, "docs/plain.html", "unchanged files are not listed")
	assert.Contains(t, out, "docs/locked.html: error: permission denied")
	assert.Contains(t, out, "2 references (1 resolved, 1 unresolved) in 2 files, 1 file rewritten, 1 file failed")
}

func TestTextReporter_Content(t *testing.T) {
	t.Parallel()

	result := &runner.Result{}
	result.Add(runner.FileOutcome{Path: "-", Result: &pipeline.Result{Path: "-", Output: []byte(sampleOutput)}})

	out, _ := report(t, reporter.Options{Format: reporter.FormatText, ShowContent: true}, result)
	assert.Equal(t, sampleOutput, out, "a single file is printed without a header")

	out, _ = report(t, reporter.Options{Format: reporter.FormatText, ShowContent: true}, sampleResult())
	assert.Contains(t, out, "==> docs/index.html <==\n"+sampleOutput)
	assert.Contains(t, out, "==> docs/plain.html <==\n")
}

func TestTextReporter_References(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatText, ShowReferences: true}, sampleResult())

	assert.Contains(t, out, "docs/index.html:1:9: issue #1 -> /issues/1\n")
	assert.Contains(t, out, "docs/index.html:1:16: issue #9 -> (unresolved)\n")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatText, ShowSummary: true}, nil)
	assert.Equal(t, 0, count)
	assert.Contains(t, out, "No files to process")
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatDiff, ShowSummary: true}, sampleResult())

	assert.Equal(t, 1, count)
	assert.Contains(t, out, "diff --git a/docs/index.html b/docs/index.html\n--- a/docs/index.html\n+++ b/docs/index.html\n@@")
	assert.Contains(t, out, "-"+strings.TrimSuffix(sampleSource, "\n")+"\n")
	assert.Contains(t, out, "+"+strings.TrimSuffix(sampleOutput, "\n")+"\n")
	assert.NotContains(t, out, "plain.html")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatJSON, ShowReferences: true, Compact: true}, sampleResult())
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, strings.Count(out, "\n"), "compact output is a single line")

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "1.0.0", decoded.Version)
	require.Len(t, decoded.Files, 3)

	first := decoded.Files[0]
	assert.Equal(t, "docs/index.html", first.Path)
	assert.True(t, first.Changed)
	assert.True(t, first.Written)
	assert.Nil(t, first.Output)
	require.Len(t, first.References, 2)
	assert.Equal(t, xref.KindIssue, first.References[0].Kind)
	assert.Equal(t, "#1", first.References[0].Text)
	assert.Equal(t, 9, first.References[0].Column)
	assert.Equal(t, "/issues/1", first.References[0].Href)
	assert.False(t, first.References[1].Resolved)

	assert.Equal(t, "permission denied", decoded.Files[2].Error)
	assert.Equal(t, reporter.JSONSummary{
		FilesProcessed: 2, FilesChanged: 1, FilesModified: 1, FilesErrored: 1,
		References: 2, Resolved: 1, Unresolved: 1,
	}, decoded.Summary)
	assert.Contains(t, out, `"kind":"issue"`)
}

func TestJSONReporter_Content(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatJSON, ShowContent: true}, sampleResult())

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.NotNil(t, decoded.Files[0].Output)
	assert.Equal(t, sampleOutput, *decoded.Files[0].Output)
	assert.Empty(t, decoded.Files[0].References)
	assert.Contains(t, out, `<a href=`, "HTML is not escaped")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	out, count := report(t, reporter.Options{Format: reporter.FormatTable, ShowSummary: true}, sampleResult())

	assert.Equal(t, 1, count)
	assert.Contains(t, out, "docs/locked.html: error: permission denied")
	assert.Contains(t, out, "REFERENCE")
	assert.Contains(t, out, "/issues/1")
	assert.Contains(t, out, "(unresolved)")
	assert.Contains(t, out, "2 files scanned | 1 resolved | 1 unresolved | 1 file failed")
}

func TestTableReporter_NoReferences(t *testing.T) {
	t.Parallel()

	result := &runner.Result{}
	result.Add(runner.FileOutcome{Path: "a.html", Result: &pipeline.Result{Path: "a.html"}})

	out, count := report(t, reporter.Options{Format: reporter.FormatTable, ShowSummary: true}, result)
	assert.Equal(t, 0, count)
	assert.Contains(t, out, "No references found.")
	assert.Contains(t, out, "1 files scanned")
}

func TestWorkingDirPaths(t *testing.T) {
	t.Parallel()

	result := &runner.Result{}
	result.Add(runner.FileOutcome{
		Path:   "/work/site/index.html",
		Result: &pipeline.Result{Path: "/work/site/index.html", OutputPath: "/work/site/index.html", Changed: true},
	})

	out, _ := report(t, reporter.Options{Format: reporter.FormatText, WorkingDir: "/work"}, result)
	assert.Equal(t, "site/index.html: changes pending\n", out)
}
