package config

import (
	"bytes"
	"fmt"
)

// TemplateHeader opens every generated configuration file.
const TemplateHeader = `# goxref configuration
# See: https://github.com/yaklabco/goxref
`

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value instead of the
	// commented starter template.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		data, err := NewConfig().ToYAML()
		if err != nil {
			return nil, fmt.Errorf("generate template: %w", err)
		}
		var buf bytes.Buffer
		buf.WriteString(TemplateHeader)
		buf.WriteByte('\n')
		buf.Write(data)
		return buf.Bytes(), nil
	}

	return []byte(TemplateHeader + `
# Entity catalog (YAML) that references resolve against.
# Relative paths are resolved from this file's directory.
catalog: catalog.yml

# Identifier of the current project. Bare references such as
# "document:Guide" or "[[Page]]" are looked up in this project.
# project: ecookbook

# Attachment container of the rendered object, used by inline images
# and attachment:name references.
# object: "issue#1"

# Absolute links: set absolute_urls and base_url.
# absolute_urls: false
# base_url: https://tracker.example.com

# Wiki link style: normal, local (Page.html) or anchor (#Page).
wiki_links: normal

# Input handling: auto (by extension), html or markdown.
input: auto

# Markdown flavor for Markdown input: commonmark or gfm.
flavor: gfm

# File extensions processed when a directory is given.
# extensions: [".html", ".htm", ".txt", ".md", ".markdown"]

# File patterns to ignore (glob patterns).
# ignore:
#   - "vendor/**"
#   - "**/generated/**"

# Backups written before files are rewritten in place.
backups:
  enabled: true
  mode: sidecar
`), nil
}
