package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yaklabco/goxref/pkg/config"
	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/runner"
)

const testCatalog = `
projects:
  - {id: 1, identifier: ecookbook, name: eCookbook}
issues:
  - id: 1
    project: ecookbook
    subject: Cannot print
    status: {name: New, position: 1}
    priority: {name: Normal, position: 2}
`

func newRunner(t *testing.T, dir string) *runner.Runner {
	t.Helper()

	catalogPath := filepath.Join(t.TempDir(), "catalog.yml")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewConfig()
	cfg.Catalog = catalogPath
	cfg.Project = "ecookbook"

	s, err := pipeline.FromConfig(cfg, func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	return runner.New(s.Pipeline)
}

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := newRunner(t, dir).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("expected no files, got %+v", result.Stats)
	}
}

func TestRunner_Run_Stats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.html":       "<p>#1 and #2</p>",
		"b.txt":        "nothing",
		"sub/c.htm":    "#1",
		"sub/skip.css": "#1",
	})

	result, err := newRunner(t, dir).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := result.Stats
	if stats.FilesDiscovered != 3 || stats.FilesProcessed != 3 {
		t.Errorf("files discovered/processed = %d/%d, want 3/3", stats.FilesDiscovered, stats.FilesProcessed)
	}
	if stats.FilesChanged != 2 {
		t.Errorf("FilesChanged = %d, want 2", stats.FilesChanged)
	}
	if stats.References != 3 || stats.Resolved != 2 || stats.Unresolved != 1 {
		t.Errorf("references = %d/%d/%d, want 3/2/1", stats.References, stats.Resolved, stats.Unresolved)
	}
	if stats.FilesModified != 0 {
		t.Errorf("FilesModified = %d, want 0 without write", stats.FilesModified)
	}
	if !result.HasUnresolved() || result.HasErrors() {
		t.Error("unexpected HasUnresolved/HasErrors")
	}

	want := []string{"a.html", "b.txt", filepath.Join("sub", "c.htm")}
	for i, outcome := range result.Files {
		if outcome.Path != filepath.Join(dir, want[i]) {
			t.Errorf("Files[%d] = %s, want %s", i, outcome.Path, want[i])
		}
	}
}

func TestRunner_Run_Write(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.html": "#1"})

	opts := runner.Options{WorkingDir: dir}
	opts.Pipeline.Write = true

	result, err := newRunner(t, dir).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesModified != 1 {
		t.Fatalf("FilesModified = %d, want 1", result.Stats.FilesModified)
	}

	content, err := os.ReadFile(filepath.Join(dir, "a.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `href="/issues/1"`) {
		t.Errorf("file not rewritten: %s", content)
	}
}

func TestRunner_Run_FileError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.html": "#1"})

	_, err := newRunner(t, dir).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"missing.html"},
	})
	if err == nil {
		t.Fatal("expected an error for a missing explicit path")
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.html": "#1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, dir).Run(ctx, runner.Options{WorkingDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"vendor/**"}
	cfg.Jobs = 3
	cfg.Write = true

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})
	if opts.Jobs != 3 || len(opts.Ignore) != 1 || opts.Paths[0] != "docs" {
		t.Errorf("unexpected options: %+v", opts)
	}
	if !opts.Pipeline.Write {
		t.Error("write flag not carried to the pipeline")
	}
}
