package reporter

import (
	"path/filepath"
	"strings"
)

// displayPath makes path relative to workDir when that does not climb out
// more than two levels; otherwise it returns path unchanged.
func displayPath(path, workDir string) string {
	if workDir == "" || path == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	if strings.Count(rel, "..") > 2 {
		return path
	}
	return filepath.ToSlash(rel)
}
