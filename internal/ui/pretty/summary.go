package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/goxref/pkg/runner"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "7 references (5 resolved, 2 unresolved) in 3 files, 2 files rewritten".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	files := plural(stats.FilesProcessed, "file", "files")

	if stats.References == 0 {
		return s.Success.Render("No references found") + s.Dim.Render(fmt.Sprintf(" (%s)", files)) + "\n"
	}

	breakdown := []string{s.Resolved.Render(fmt.Sprintf("%d resolved", stats.Resolved))}
	if stats.Unresolved > 0 {
		breakdown = append(breakdown, s.Unresolved.Render(fmt.Sprintf("%d unresolved", stats.Unresolved)))
	}
	parts := []string{
		fmt.Sprintf("%s (%s) in %s",
			plural(stats.References, "reference", "references"),
			strings.Join(breakdown, ", "),
			files),
	}

	if stats.FilesModified > 0 {
		parts = append(parts, s.Success.Render(plural(stats.FilesModified, "file", "files")+" rewritten"))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(plural(stats.FilesSkipped, "file", "files")+" skipped"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(plural(stats.FilesErrored, "file", "files")+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
