package runner

import "github.com/yaklabco/goxref/pkg/pipeline"

// FileOutcome is the result of one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil if the file could not be processed.
	Result *pipeline.Result

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int

	// FilesChanged counts files whose rewrite differs from the input.
	FilesChanged int

	// FilesModified counts files written to disk.
	FilesModified int

	References int
	Resolved   int
	Unresolved int
}

// Result is the overall runner result.
type Result struct {
	// Files is ordered like the discovered paths.
	Files []FileOutcome

	Stats Stats
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasUnresolved reports whether any reference was left unresolved.
func (r *Result) HasUnresolved() bool {
	return r != nil && r.Stats.Unresolved > 0
}

// Add appends an outcome and folds it into Stats.
func (r *Result) Add(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	pr := outcome.Result
	r.Stats.FilesProcessed++
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Changed {
		r.Stats.FilesChanged++
	}
	if pr.Written {
		r.Stats.FilesModified++
	}
	r.Stats.References += len(pr.References)
	r.Stats.Resolved += pr.Resolved()
	r.Stats.Unresolved += pr.Unresolved()
}
