package configloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/goxref/pkg/config"
)

// Layer is one source of configuration. Nil fields are unset and leave the
// lower layers alone, so a higher layer can switch a boolean off.
type Layer struct {
	Catalog      *string           `yaml:"catalog"`
	Project      *string           `yaml:"project"`
	Object       *string           `yaml:"object"`
	BaseURL      *string           `yaml:"base_url"`
	AbsoluteURLs *bool             `yaml:"absolute_urls"`
	WikiLinks    *string           `yaml:"wiki_links"`
	Input        *config.InputMode `yaml:"input"`
	Flavor       *config.Flavor    `yaml:"flavor"`
	Extensions   []string          `yaml:"extensions"`
	Ignore       []string          `yaml:"ignore"`
	Backups      *BackupsLayer     `yaml:"backups"`

	// Not read from files.
	Format    *config.OutputFormat `yaml:"-"`
	Jobs      *int                 `yaml:"-"`
	NoBackups *bool                `yaml:"-"`

	// baseDir resolves a relative catalog path; empty means the working directory.
	baseDir string
}

// BackupsLayer is the backups section of a Layer.
type BackupsLayer struct {
	Enabled *bool   `yaml:"enabled"`
	Mode    *string `yaml:"mode"`
}

// ParseLayer decodes a YAML configuration document. Unknown keys are errors.
// Relative catalog paths are resolved against baseDir.
func ParseLayer(data []byte, baseDir string) (*Layer, error) {
	layer := &Layer{baseDir: baseDir}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(layer); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return layer, nil
}

// loadLayerFile reads and parses a configuration file.
func loadLayerFile(path string) (*Layer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	layer, err := ParseLayer(content, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return layer, nil
}

// Apply overlays the set fields of the layer onto cfg.
// Slices replace the lower value entirely.
func (l *Layer) Apply(cfg *config.Config) {
	if l == nil || cfg == nil {
		return
	}

	if l.Catalog != nil {
		cfg.Catalog = *l.Catalog
		if cfg.Catalog != "" && l.baseDir != "" && !filepath.IsAbs(cfg.Catalog) {
			cfg.Catalog = filepath.Join(l.baseDir, cfg.Catalog)
		}
	}
	setIf(&cfg.Project, l.Project)
	setIf(&cfg.Object, l.Object)
	setIf(&cfg.BaseURL, l.BaseURL)
	setIf(&cfg.AbsoluteURLs, l.AbsoluteURLs)
	setIf(&cfg.WikiLinks, l.WikiLinks)
	setIf(&cfg.Input, l.Input)
	setIf(&cfg.Flavor, l.Flavor)
	setIf(&cfg.Format, l.Format)
	setIf(&cfg.Jobs, l.Jobs)
	setIf(&cfg.NoBackups, l.NoBackups)

	if l.Extensions != nil {
		cfg.Extensions = append([]string(nil), l.Extensions...)
	}
	if l.Ignore != nil {
		cfg.Ignore = append([]string(nil), l.Ignore...)
	}
	if l.Backups != nil {
		setIf(&cfg.Backups.Enabled, l.Backups.Enabled)
		setIf(&cfg.Backups.Mode, l.Backups.Mode)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// MergeAll applies layers over the defaults in order, later layers winning.
func MergeAll(layers ...*Layer) *config.Config {
	cfg := config.NewConfig()
	for _, layer := range layers {
		layer.Apply(cfg)
	}
	return cfg
}
