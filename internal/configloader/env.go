package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/goxref/pkg/config"
)

// envVarPrefix is the prefix for all goxref environment variables.
const envVarPrefix = "GOXREF_"

// envVar binds one environment variable to a layer field.
type envVar struct {
	suffix      string
	description string
	apply       func(l *Layer, value string) error
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"CATALOG", "Path of the entity catalog", stringVar(func(l *Layer) **string { return &l.Catalog })},
	{"PROJECT", "Identifier of the current project", stringVar(func(l *Layer) **string { return &l.Project })},
	{"OBJECT", "Attachment container of the rendered object, e.g. issue#1", stringVar(func(l *Layer) **string { return &l.Object })},
	{"BASE_URL", "Base URL for absolute links", stringVar(func(l *Layer) **string { return &l.BaseURL })},
	{"ABSOLUTE_URLS", "Produce absolute URLs: true or false", boolVar(func(l *Layer) **bool { return &l.AbsoluteURLs })},
	{"WIKI_LINKS", "Wiki link mode: normal, local or anchor", stringVar(func(l *Layer) **string { return &l.WikiLinks })},
	{"INPUT", "Input mode: auto, html or markdown", func(l *Layer, v string) error {
		mode := config.InputMode(v)
		l.Input = &mode
		return nil
	}},
	{"FLAVOR", "Markdown flavor: commonmark or gfm", func(l *Layer, v string) error {
		flavor := config.Flavor(v)
		l.Flavor = &flavor
		return nil
	}},
	{"EXTENSIONS", "Comma-separated list of file extensions", func(l *Layer, v string) error {
		l.Extensions = parseSliceValue(v)
		return nil
	}},
	{"IGNORE", "Comma-separated list of ignore patterns", func(l *Layer, v string) error {
		l.Ignore = parseSliceValue(v)
		return nil
	}},
	{"BACKUPS_ENABLED", "Keep backups when rewriting: true or false", func(l *Layer, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		l.backups().Enabled = &b
		return nil
	}},
	{"BACKUPS_MODE", "Backup mode: sidecar or none", func(l *Layer, v string) error {
		l.backups().Mode = &v
		return nil
	}},
	{"FORMAT", "Output format: text, diff, json or table", func(l *Layer, v string) error {
		format := config.OutputFormat(v)
		l.Format = &format
		return nil
	}},
	{"JOBS", "Number of parallel workers (0 = auto)", func(l *Layer, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		l.Jobs = &n
		return nil
	}},
	{"NO_BACKUPS", "Disable backups: true or false", boolVar(func(l *Layer) **bool { return &l.NoBackups })},
}

func stringVar(field func(*Layer) **string) func(*Layer, string) error {
	return func(l *Layer, v string) error {
		*field(l) = &v
		return nil
	}
}

func boolVar(field func(*Layer) **bool) func(*Layer, string) error {
	return func(l *Layer, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(l) = &b
		return nil
	}
}

func (l *Layer) backups() *BackupsLayer {
	if l.Backups == nil {
		l.Backups = &BackupsLayer{}
	}
	return l.Backups
}

// LoadFromEnv builds a layer from GOXREF_* variables read through lookup.
// Empty variables are ignored.
func LoadFromEnv(lookup func(string) (string, bool)) (*Layer, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	layer := &Layer{}
	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := ev.apply(layer, value); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q: %w", name, value, err)
		}
	}
	return layer, nil
}

// parseSliceValue splits a comma-separated list, trimming and dropping blanks.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns the supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for _, ev := range envVars {
		out[envVarPrefix+ev.suffix] = ev.description
	}
	return out
}
