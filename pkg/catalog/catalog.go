// Package catalog provides a YAML backed entity catalog for the resolver.
//
// A catalog is immutable once loaded and safe for concurrent use. Entities
// of private projects are invisible; archived projects stay visible so that
// references to them render as plain names.
package catalog

import (
	"context"
	"strings"

	"github.com/yaklabco/goxref/pkg/entity"
	"github.com/yaklabco/goxref/pkg/xref"
)

// DefaultStartPage is the wiki start page when none is configured.
const DefaultStartPage = "Wiki"

// ChangesetSource looks up the changesets of one project repository.
type ChangesetSource interface {
	FindByRevision(ctx context.Context, revision string) (*entity.Changeset, error)
	FindByScmidPrefix(ctx context.Context, prefix string) (*entity.Changeset, error)
}

type projectEntry struct {
	project    *entity.Project
	private    bool
	startPage  string
	pages      map[string]*entity.WikiPage
	changesets ChangesetSource
}

type messageEntry struct {
	message   *entity.Message
	projectID int
}

// Catalog implements xref.Catalog over entities loaded from YAML.
type Catalog struct {
	projects     []*projectEntry
	byID         map[int]*projectEntry
	byIdentifier map[string]*projectEntry

	issues      map[int]*entity.Issue
	documents   []*entity.Document
	versions    []*entity.Version
	messages    map[int]messageEntry
	attachments map[string][]entity.Attachment
}

var _ xref.Catalog = (*Catalog)(nil)

// Project returns the project with the given identifier, regardless of visibility.
func (c *Catalog) Project(identifier string) (*entity.Project, bool) {
	entry, ok := c.byIdentifier[identifier]
	if !ok {
		return nil, false
	}
	return entry.project, true
}

// Projects returns every project in catalog order.
func (c *Catalog) Projects() []*entity.Project {
	out := make([]*entity.Project, 0, len(c.projects))
	for _, entry := range c.projects {
		out = append(out, entry.project)
	}
	return out
}

// Attachments returns the attachments registered under container key
// (for example "issue#1"), or nil.
func (c *Catalog) Attachments(key string) xref.AttachmentList {
	list, ok := c.attachments[key]
	if !ok {
		return nil
	}
	return xref.AttachmentList(list)
}

func (c *Catalog) visible(projectID int) bool {
	entry, ok := c.byID[projectID]
	return ok && !entry.private
}

// FindProject implements xref.ProjectFinder.
func (c *Catalog) FindProject(_ context.Context, key string) (*entity.Project, error) {
	for _, entry := range c.projects {
		if entry.project.Name == key {
			return entry.project, nil
		}
	}
	if entry, ok := c.byIdentifier[key]; ok {
		return entry.project, nil
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindVisibleProject implements xref.ProjectFinder.
func (c *Catalog) FindVisibleProject(_ context.Context, id int) (*entity.Project, error) {
	if entry, ok := c.byID[id]; ok && !entry.private {
		return entry.project, nil
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindVisibleProjectByKey implements xref.ProjectFinder.
func (c *Catalog) FindVisibleProjectByKey(_ context.Context, key string) (*entity.Project, error) {
	for _, entry := range c.projects {
		if entry.private {
			continue
		}
		if entry.project.Identifier == key || strings.ToLower(entry.project.Name) == key {
			return entry.project, nil
		}
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindWikiPage implements xref.WikiFinder. Titles are compared after
// titleizing, ignoring case.
func (c *Catalog) FindWikiPage(_ context.Context, project *entity.Project, title string) (*entity.WikiPage, error) {
	entry, ok := c.byID[project.ID]
	if !ok || entry.pages == nil {
		return nil, nil //nolint:nilnil // No wiki.
	}
	if title == "" {
		title = entry.startPage
	}
	return entry.pages[pageKey(title)], nil
}

// FindVisibleIssue implements xref.IssueFinder.
func (c *Catalog) FindVisibleIssue(_ context.Context, id int) (*entity.Issue, error) {
	if issue, ok := c.issues[id]; ok && c.visible(issue.ProjectID) {
		return issue, nil
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindChangesetByRevision implements xref.ChangesetFinder.
func (c *Catalog) FindChangesetByRevision(ctx context.Context, project *entity.Project, revision string) (*entity.Changeset, error) {
	entry, ok := c.byID[project.ID]
	if !ok || entry.changesets == nil {
		return nil, nil //nolint:nilnil // No repository.
	}
	return entry.changesets.FindByRevision(ctx, revision)
}

// FindChangesetByScmidPrefix implements xref.ChangesetFinder.
func (c *Catalog) FindChangesetByScmidPrefix(ctx context.Context, project *entity.Project, prefix string) (*entity.Changeset, error) {
	entry, ok := c.byID[project.ID]
	if !ok || entry.changesets == nil {
		return nil, nil //nolint:nilnil // No repository.
	}
	return entry.changesets.FindByScmidPrefix(ctx, prefix)
}

// FindVisibleDocument implements xref.DocumentFinder.
func (c *Catalog) FindVisibleDocument(_ context.Context, id int) (*entity.Document, error) {
	for _, doc := range c.documents {
		if doc.ID == id && c.visible(doc.ProjectID) {
			return doc, nil
		}
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindDocumentByTitle implements xref.DocumentFinder.
func (c *Catalog) FindDocumentByTitle(_ context.Context, project *entity.Project, title string) (*entity.Document, error) {
	for _, doc := range c.documents {
		if doc.ProjectID == project.ID && doc.Title == title {
			return doc, nil
		}
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindVisibleVersion implements xref.VersionFinder.
func (c *Catalog) FindVisibleVersion(_ context.Context, id int) (*entity.Version, error) {
	for _, version := range c.versions {
		if version.ID == id && c.visible(version.ProjectID) {
			return version, nil
		}
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindVersionByName implements xref.VersionFinder.
func (c *Catalog) FindVersionByName(_ context.Context, project *entity.Project, name string) (*entity.Version, error) {
	for _, version := range c.versions {
		if version.ProjectID == project.ID && version.Name == name {
			return version, nil
		}
	}
	return nil, nil //nolint:nilnil // Not found.
}

// FindVisibleMessage implements xref.MessageFinder.
func (c *Catalog) FindVisibleMessage(_ context.Context, id int) (*entity.Message, error) {
	if entry, ok := c.messages[id]; ok && c.visible(entry.projectID) {
		return entry.message, nil
	}
	return nil, nil //nolint:nilnil // Not found.
}

// staticChangesets serves changesets listed in the catalog file.
type staticChangesets []*entity.Changeset

func (s staticChangesets) FindByRevision(_ context.Context, revision string) (*entity.Changeset, error) {
	for _, cs := range s {
		if cs.Revision == revision {
			return cs, nil
		}
	}
	return nil, nil //nolint:nilnil // Not found.
}

func (s staticChangesets) FindByScmidPrefix(_ context.Context, prefix string) (*entity.Changeset, error) {
	if prefix == "" {
		return nil, nil //nolint:nilnil // Not found.
	}
	for _, cs := range s {
		if strings.HasPrefix(cs.Scmid, prefix) {
			return cs, nil
		}
	}
	return nil, nil //nolint:nilnil // Not found.
}

func pageKey(title string) string {
	return strings.ToLower(xref.Titleize(title))
}
