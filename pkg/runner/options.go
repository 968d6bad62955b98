// Package runner rewrites many files concurrently through a pipeline.
package runner

import (
	"github.com/yaklabco/goxref/pkg/config"
	"github.com/yaklabco/goxref/pkg/pipeline"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and
	// to match Ignore patterns. Empty means the process working directory.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) processed
	// when walking directories. Defaults to config.DefaultExtensions().
	Extensions []string

	// Ignore holds glob patterns, relative to WorkingDir, for files or
	// directories to skip. "**" crosses directories.
	Ignore []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Pipeline is passed to every file.
	Pipeline pipeline.Options
}

// OptionsFromConfig derives run options for paths from the configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:      paths,
		Extensions: cfg.Extensions,
		Ignore:     cfg.Ignore,
		Jobs:       cfg.Jobs,
		Pipeline:   pipeline.OptionsFromConfig(cfg),
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
