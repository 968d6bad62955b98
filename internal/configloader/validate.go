package configloader

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/yaklabco/goxref/pkg/config"
	"github.com/yaklabco/goxref/pkg/runner"
	"github.com/yaklabco/goxref/pkg/xref"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if _, err := xref.ParseWikiLinkMode(cfg.WikiLinks); err != nil {
		result.fail("wiki_links", cfg.WikiLinks, "invalid mode %q; must be one of: normal, local, anchor", cfg.WikiLinks)
	}
	if cfg.Input != "" && !cfg.Input.IsValid() {
		result.fail("input", cfg.Input, "invalid input %q; must be one of: auto, html, markdown", cfg.Input)
	}
	if cfg.Flavor != "" && cfg.Flavor != config.FlavorCommonMark && cfg.Flavor != config.FlavorGFM {
		result.fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, diff, json, table", cfg.Format)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	if mode := cfg.Backups.Mode; mode != "" && mode != config.BackupModeSidecar && mode != config.BackupModeNone {
		result.fail("backups.mode", mode, "invalid backup mode %q; must be one of: sidecar, none", mode)
	}

	validateBaseURL(cfg, result)
	validateCatalog(cfg, result)

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.fail(fmt.Sprintf("extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}
	for i, pattern := range cfg.Ignore {
		if _, err := runner.CompileGlob(pattern); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "%v", err)
		}
	}

	return result
}

func validateBaseURL(cfg *config.Config, result *ValidationResult) {
	if cfg.BaseURL == "" {
		if cfg.AbsoluteURLs {
			result.fail("base_url", "", "absolute_urls requires base_url")
		}
		return
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		result.fail("base_url", cfg.BaseURL, "base_url %q must be an absolute URL", cfg.BaseURL)
		return
	}
	if !cfg.AbsoluteURLs {
		result.warn("base_url", cfg.BaseURL, "base_url is ignored unless absolute_urls is set")
	}
}

func validateCatalog(cfg *config.Config, result *ValidationResult) {
	if cfg.Catalog == "" {
		result.warn("catalog", "", "no catalog configured; no reference will resolve")
		if cfg.Project != "" {
			result.fail("project", cfg.Project, "project %q set without a catalog", cfg.Project)
		}
		return
	}
	if _, err := os.Stat(cfg.Catalog); err != nil {
		result.fail("catalog", cfg.Catalog, "catalog %s: %v", cfg.Catalog, err)
	}
}
