package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/goxref/internal/configloader"
	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/runner"
)

// Exit codes for goxref.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitUnresolved indicates unresolved references were found in strict mode.
	ExitUnresolved = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration or catalog errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrUnresolvedReferences is returned by refs --strict when a reference
	// did not resolve. It only signals the exit code and is not logged.
	ErrUnresolvedReferences = errors.New("unresolved references found")

	// ErrUsage marks command-line usage errors.
	ErrUsage = errors.New("invalid usage")

	// ErrFilesFailed is returned when at least one file could not be processed.
	ErrFilesFailed = errors.New("some files could not be processed")
)

// ExitCodeFromResult determines the exit code of a completed run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasErrors():
		return ExitIOError
	case strict && result.HasUnresolved():
		return ExitUnresolved
	default:
		return ExitSuccess
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUnresolvedReferences):
		return ExitUnresolved
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrInvalidConfig),
		errors.Is(err, pipeline.ErrUnknownProject),
		errors.Is(err, pipeline.ErrUnknownObject),
		errors.Is(err, pipeline.ErrCatalog):
		return ExitConfigError
	case errors.Is(err, ErrFilesFailed),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		pipeline.IsPipelineError(err):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only carries an exit status and should not be logged.
func IsSilent(err error) bool {
	return errors.Is(err, ErrUnresolvedReferences)
}
