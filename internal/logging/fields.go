// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldSource     = "source"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldCatalog   = "catalog"
	FieldProject   = "project"
	FieldBaseURL   = "base_url"
	FieldWikiLinks = "wiki_links"
	FieldWrite     = "write"
	FieldDryRun    = "dry_run"
	FieldJobs      = "jobs"

	// Reference fields.
	FieldKind      = "kind"
	FieldReference = "reference"
	FieldRevision  = "revision"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesModified   = "files_modified"
	FieldReferences      = "references"
	FieldResolved        = "resolved"
	FieldUnresolved      = "unresolved"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
