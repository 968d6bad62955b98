// Package config defines core configuration types for goxref.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

import "slices"

// BackupsConfig controls backup behavior when rewriting files in place.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// OutputFormat specifies how results are printed.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatDiff  OutputFormat = "diff"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
)

// IsValid reports whether the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatDiff, FormatJSON, FormatTable:
		return true
	default:
		return false
	}
}

// InputMode selects how input files are interpreted.
type InputMode string

const (
	// InputAuto treats Markdown extensions as Markdown and everything else as HTML.
	InputAuto     InputMode = "auto"
	InputHTML     InputMode = "html"
	InputMarkdown InputMode = "markdown"
)

// IsValid reports whether the mode is known.
func (m InputMode) IsValid() bool {
	switch m {
	case InputAuto, InputHTML, InputMarkdown:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor used to render Markdown input.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Backup modes.
const (
	BackupModeSidecar = "sidecar"
	BackupModeNone    = "none"
)

// WikiLinks modes.
const (
	WikiLinksNormal = "normal"
	WikiLinksLocal  = "local"
	WikiLinksAnchor = "anchor"
)

// DefaultExtensions are the file extensions processed when none are configured.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".txt", ".md", ".markdown"}
}

// Config is the root configuration structure for goxref.
type Config struct {
	// Catalog is the path of the YAML entity catalog.
	Catalog string `yaml:"catalog"`

	// Project is the identifier of the current project.
	Project string `yaml:"project"`

	// Object is the attachment container key of the rendered object, e.g. "issue#1".
	Object string `yaml:"object"`

	// BaseURL is prefixed to links when AbsoluteURLs is set.
	BaseURL string `yaml:"base_url"`

	// AbsoluteURLs produces full URLs instead of host-relative paths.
	AbsoluteURLs bool `yaml:"absolute_urls"`

	// WikiLinks is the wiki link mode: normal, local or anchor.
	WikiLinks string `yaml:"wiki_links"`

	// Input selects how files are interpreted.
	Input InputMode `yaml:"input"`

	// Flavor is the Markdown flavor for Markdown input.
	Flavor Flavor `yaml:"flavor"`

	// Extensions lists the file extensions processed during discovery.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// Backups configures backups when rewriting in place.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Write rewrites files in place.
	Write bool `yaml:"-"`

	// DryRun shows the changes as a diff without writing.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `yaml:"-"`

	// NoBackups disables backups regardless of Backups.
	NoBackups bool `yaml:"-"`

	// Strict makes unresolved references a failure.
	Strict bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		WikiLinks:  WikiLinksNormal,
		Input:      InputAuto,
		Flavor:     FlavorGFM,
		Extensions: DefaultExtensions(),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    BackupModeSidecar,
		},
		Format: FormatText,
	}
}

// BackupsEnabled reports whether in-place rewrites keep a backup.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != BackupModeNone
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)
	return &clone
}
