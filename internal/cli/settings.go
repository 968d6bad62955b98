package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxref/internal/configloader"
	"github.com/yaklabco/goxref/internal/logging"
	"github.com/yaklabco/goxref/pkg/config"
)

// configFlags are the configuration flags shared by rewrite and refs.
type configFlags struct {
	catalog      string
	project      string
	object       string
	baseURL      string
	absoluteURLs bool
	wikiLinks    string
	input        string
	flavor       string
	extensions   []string
	ignore       []string
	jobs         int
}

func addConfigFlags(cmd *cobra.Command, flags *configFlags) {
	cmd.Flags().StringVar(&flags.catalog, "catalog", "", "path of the YAML entity catalog")
	cmd.Flags().StringVarP(&flags.project, "project", "p", "", "identifier of the current project")
	cmd.Flags().StringVar(&flags.object, "object", "", "attachment container of the rendered object, e.g. issue#1")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "base URL for absolute links")
	cmd.Flags().BoolVar(&flags.absoluteURLs, "absolute-urls", false, "produce absolute URLs using --base-url")
	cmd.Flags().StringVar(&flags.wikiLinks, "wiki-links", config.WikiLinksNormal, "wiki link mode: normal, local, anchor")
	cmd.Flags().StringVar(&flags.input, "input", string(config.InputAuto), "input mode: auto, html, markdown")
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorGFM), "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process when walking directories")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
}

// layer returns the configuration set by flags given on the command line.
func (f *configFlags) layer(cmd *cobra.Command) *configloader.Layer {
	changed := cmd.Flags().Changed
	layer := &configloader.Layer{}

	if changed("catalog") {
		layer.Catalog = &f.catalog
	}
	if changed("project") {
		layer.Project = &f.project
	}
	if changed("object") {
		layer.Object = &f.object
	}
	if changed("base-url") {
		layer.BaseURL = &f.baseURL
	}
	if changed("absolute-urls") {
		layer.AbsoluteURLs = &f.absoluteURLs
	}
	if changed("wiki-links") {
		layer.WikiLinks = &f.wikiLinks
	}
	if changed("input") {
		input := config.InputMode(f.input)
		layer.Input = &input
	}
	if changed("flavor") {
		flavor := config.Flavor(f.flavor)
		layer.Flavor = &flavor
	}
	if changed("ext") {
		layer.Extensions = f.extensions
	}
	if changed("ignore") {
		layer.Ignore = f.ignore
	}
	if changed("jobs") {
		layer.Jobs = &f.jobs
	}
	return layer
}

// loadConfig resolves the configuration for cmd with cli as the top layer.
func loadConfig(cmd *cobra.Command, cli *configloader.Layer) (*config.Config, string, error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLI:          cli,
	})
	if err != nil {
		return nil, "", fmt.Errorf("load configuration: %w", err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration resolved",
		logging.FieldCatalog, cfg.Catalog,
		logging.FieldProject, cfg.Project,
		logging.FieldWikiLinks, cfg.WikiLinks,
		logging.FieldWrite, cfg.Write,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}

// colorMode returns the --color flag, defaulting to auto.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}
