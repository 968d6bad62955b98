package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/reporter"
)

type refsFlags struct {
	config  configFlags
	format  string
	strict  bool
	compact bool
}

func newRefsCommand() *cobra.Command {
	flags := &refsFlags{}

	cmd := &cobra.Command{
		Use:   "refs [paths...]",
		Short: "List references and how they resolve",
		Long: `List every reference found outside <pre> and <code> together with the link
it resolves to. Nothing is written.

Examples:
  goxref refs docs/                     # Table of references
  goxref refs --format json page.html   # Machine-readable listing
  goxref refs --strict docs/            # Exit 1 if a reference does not resolve`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefs(cmd, args, flags)
		},
	}

	addConfigFlags(cmd, &flags.config)
	cmd.Flags().StringVar(&flags.format, "format", string(reporter.FormatTable), "output format: table, text, json")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 1 when a reference does not resolve")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")

	return cmd
}

func runRefs(cmd *cobra.Command, args []string, flags *refsFlags) error {
	ctx := cmd.Context()

	format, err := reporter.ParseFormat(flags.format)
	if err != nil || format == reporter.FormatDiff {
		return fmt.Errorf("%w: refs does not support format %q", ErrUsage, flags.format)
	}

	cfg, workDir, err := loadConfig(cmd, flags.config.layer(cmd))
	if err != nil {
		return err
	}

	setup, err := pipeline.FromConfig(cfg, nil)
	if err != nil {
		return err
	}
	opts := setup.Options
	opts.Write = false
	opts.Diff = false

	result, err := process(cmd, setup, cfg, workDir, args, opts)
	if err != nil {
		return err
	}
	logStats(ctx, result)

	rep, err := reporter.New(reporter.Options{
		Writer:         cmd.OutOrStdout(),
		ErrorWriter:    cmd.ErrOrStderr(),
		Format:         format,
		Color:          colorMode(cmd),
		ShowReferences: true,
		ShowSummary:    format != reporter.FormatJSON,
		Compact:        flags.compact,
		WorkingDir:     workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if err := failedFiles(result); err != nil {
		return err
	}
	if ExitCodeFromResult(result, flags.strict) == ExitUnresolved {
		return ErrUnresolvedReferences
	}
	return nil
}
