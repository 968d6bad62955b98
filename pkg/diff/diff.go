// Package diff renders line based unified diffs of rewritten files.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	// Equal is an unchanged context line.
	Equal Op = iota

	// Insert is a line present only in the new content.
	Insert

	// Delete is a line present only in the old content.
	Delete
)

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// Line is one line of a hunk, without its trailing newline.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a group of changes with surrounding context. Start lines are 1-based.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// File is the diff of one file.
type File struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Compute diffs old and new content line by line. It returns nil when the
// contents are equal.
func Compute(path string, oldContent, newContent []byte) *File {
	if string(oldContent) == string(newContent) {
		return nil
	}

	lines := lineOps(string(oldContent), string(newContent))
	file := &File{Path: path, Hunks: hunks(lines)}
	for _, line := range lines {
		switch line.Op {
		case Insert:
			file.Additions++
		case Delete:
			file.Deletions++
		case Equal:
		}
	}
	if len(file.Hunks) == 0 {
		return nil
	}
	return file
}

// HasChanges reports whether the diff contains any hunk.
func (f *File) HasChanges() bool {
	return f != nil && len(f.Hunks) > 0
}

// Header returns the "diff --git" header line.
func (f *File) Header() string {
	if f == nil {
		return ""
	}
	path := strings.TrimPrefix(f.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified format, without the git header.
func (f *File) String() string {
	if !f.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(f.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", path)
	fmt.Fprintf(&sb, "+++ b/%s\n", path)
	for _, hunk := range f.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		for _, line := range hunk.Lines {
			sb.WriteByte(line.Op.prefix())
			sb.WriteString(line.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FullString returns the diff with its git header.
func (f *File) FullString() string {
	if !f.HasChanges() {
		return ""
	}
	return f.Header() + "\n" + f.String()
}

func (o Op) prefix() byte {
	switch o {
	case Insert:
		return '+'
	case Delete:
		return '-'
	default:
		return ' '
	}
}

// lineOps computes a line level edit script.
func lineOps(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lineArray)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = Insert
		case diffmatchpatch.DiffDelete:
			op = Delete
		case diffmatchpatch.DiffEqual:
		}
		for _, text := range splitLines(d.Text) {
			out = append(out, Line{Op: op, Text: text})
		}
	}
	return out
}

// hunks groups an edit script into hunks; changes separated by at most
// 2*ContextLines unchanged lines share a hunk.
func hunks(lines []Line) []Hunk {
	type span struct{ start, end int }

	var changes []span
	for i := 0; i < len(lines); {
		if lines[i].Op == Equal {
			i++
			continue
		}
		start := i
		for i < len(lines) && lines[i].Op != Equal {
			i++
		}
		if n := len(changes); n > 0 && start-changes[n-1].end <= 2*ContextLines {
			changes[n-1].end = i
			continue
		}
		changes = append(changes, span{start, i})
	}

	out := make([]Hunk, 0, len(changes))
	for _, change := range changes {
		start := max(change.start-ContextLines, 0)
		end := min(change.end+ContextLines, len(lines))

		hunk := Hunk{OldStart: 1, NewStart: 1}
		for _, line := range lines[:start] {
			if line.Op != Insert {
				hunk.OldStart++
			}
			if line.Op != Delete {
				hunk.NewStart++
			}
		}
		for _, line := range lines[start:end] {
			if line.Op != Insert {
				hunk.OldCount++
			}
			if line.Op != Delete {
				hunk.NewCount++
			}
		}
		hunk.Lines = append([]Line(nil), lines[start:end]...)
		out = append(out, hunk)
	}
	return out
}

// splitLines splits text into lines, dropping the final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
