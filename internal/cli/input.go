package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/goxref/internal/logging"
	"github.com/yaklabco/goxref/pkg/config"
	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/runner"
)

// stdinPath names standard input in results and on the command line.
const stdinPath = "-"

// readsStdin reports whether the command should read standard input: either
// "-" was given, or no paths were given and stdin is not a terminal.
func readsStdin(cmd *cobra.Command, args []string) bool {
	if len(args) == 1 && args[0] == stdinPath {
		return true
	}
	if len(args) > 0 {
		return false
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return true
}

// process runs the pipeline over stdin or the given paths.
func process(
	cmd *cobra.Command,
	setup *pipeline.Setup,
	cfg *config.Config,
	workDir string,
	args []string,
	opts pipeline.Options,
) (*runner.Result, error) {
	ctx := cmd.Context()

	if readsStdin(cmd, args) {
		if opts.Write {
			return nil, fmt.Errorf("%w: --write needs file paths, not standard input", ErrUsage)
		}
		return processStdin(ctx, cmd.InOrStdin(), setup.Pipeline, opts)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir
	runOpts.Pipeline = opts

	logging.FromContext(ctx).Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(setup.Pipeline).Run(ctx, runOpts)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return result, nil
}

func processStdin(ctx context.Context, in io.Reader, p *pipeline.Pipeline, opts pipeline.Options) (*runner.Result, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read standard input: %w", err)
	}

	pr, err := p.ProcessContent(ctx, stdinPath, content, opts)
	if err != nil {
		return nil, err
	}

	result := &runner.Result{}
	result.Stats.FilesDiscovered = 1
	result.Add(runner.FileOutcome{Path: stdinPath, Result: pr})
	return result, nil
}

// logStats logs the statistics of a finished run at debug level.
func logStats(ctx context.Context, result *runner.Result) {
	stats := result.Stats
	logging.FromContext(ctx).Debug("run complete",
		logging.FieldFilesDiscovered, stats.FilesDiscovered,
		logging.FieldFilesProcessed, stats.FilesProcessed,
		logging.FieldFilesModified, stats.FilesModified,
		logging.FieldReferences, stats.References,
		logging.FieldResolved, stats.Resolved,
		logging.FieldUnresolved, stats.Unresolved,
	)
}

// failedFiles returns ErrFilesFailed when some files errored.
func failedFiles(result *runner.Result) error {
	if !result.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrFilesFailed,
		result.Stats.FilesErrored, result.Stats.FilesErrored+result.Stats.FilesProcessed)
}
