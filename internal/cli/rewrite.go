package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxref/pkg/config"
	"github.com/yaklabco/goxref/pkg/pipeline"
	"github.com/yaklabco/goxref/pkg/reporter"
)

type rewriteFlags struct {
	config    configFlags
	write     bool
	dryRun    bool
	format    string
	noBackups bool
	compact   bool
}

func newRewriteCommand() *cobra.Command {
	flags := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "rewrite [paths...]",
		Short: "Rewrite references into links",
		Long:  rewriteLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args, flags)
		},
	}

	addConfigFlags(cmd, &flags.config)
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place (Markdown is written to a sibling .html file)")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "show the changes as a diff without writing")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, diff, json, table")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "do not keep a backup when rewriting in place")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")

	return cmd
}

const rewriteLongDescription = `Rewrite the references in HTML, text and Markdown files into links.

Without --write the rewritten content is printed to standard output. With no
paths, standard input is read when it is not a terminal; otherwise the current
directory is walked for .html, .htm, .txt, .md and .markdown files.
Markdown input is rendered to HTML first.

Examples:
  echo 'Fixes #12' | goxref rewrite --catalog tracker.yml
  goxref rewrite page.html                 # Print the rewritten page
  goxref rewrite --write docs/             # Rewrite files in place
  goxref rewrite --dry-run docs/           # Show a diff of the changes
  goxref rewrite -p ecookbook notes.md     # Render Markdown in a project context`

func runRewrite(cmd *cobra.Command, args []string, flags *rewriteFlags) error {
	ctx := cmd.Context()

	layer := flags.config.layer(cmd)
	if cmd.Flags().Changed("format") {
		format := config.OutputFormat(flags.format)
		layer.Format = &format
	}
	if cmd.Flags().Changed("no-backups") {
		layer.NoBackups = &flags.noBackups
	}

	cfg, workDir, err := loadConfig(cmd, layer)
	if err != nil {
		return err
	}
	cfg.Write = flags.write
	cfg.DryRun = flags.dryRun

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if cfg.DryRun && format == reporter.FormatText {
		format = reporter.FormatDiff
	}

	setup, err := pipeline.FromConfig(cfg, nil)
	if err != nil {
		return err
	}
	opts := setup.Options

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
		ShowContent:    !opts.Write && !cfg.DryRun,
		ShowReferences: format == reporter.FormatJSON,
		ShowSummary:    opts.Write || format != reporter.FormatText,
		Compact:        flags.compact,
		WorkingDir:     workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return failedFiles(result)
}
