package xref

import (
	"context"

	"github.com/yaklabco/goxref/pkg/entity"
)

// Lookups return (nil, nil) when the entity does not exist or is not visible.
// A non-nil error aborts the rewrite.

// ProjectFinder looks up projects.
type ProjectFinder interface {
	// FindProject finds a project by exact name, then by identifier,
	// regardless of visibility. Used for cross-project wiki links.
	FindProject(ctx context.Context, nameOrIdentifier string) (*entity.Project, error)

	// FindVisibleProject finds a visible project by id.
	FindVisibleProject(ctx context.Context, id int) (*entity.Project, error)

	// FindVisibleProjectByKey finds a visible project whose identifier equals
	// key or whose lower-cased name equals key. Key is lower-cased by the caller.
	FindVisibleProjectByKey(ctx context.Context, key string) (*entity.Project, error)
}

// WikiFinder looks up wiki pages.
type WikiFinder interface {
	// FindWikiPage finds a page of the project wiki. An empty title means the
	// wiki start page.
	FindWikiPage(ctx context.Context, project *entity.Project, title string) (*entity.WikiPage, error)
}

// IssueFinder looks up issues.
type IssueFinder interface {
	FindVisibleIssue(ctx context.Context, id int) (*entity.Issue, error)
}

// ChangesetFinder looks up repository changesets of a project.
type ChangesetFinder interface {
	FindChangesetByRevision(ctx context.Context, project *entity.Project, revision string) (*entity.Changeset, error)
	FindChangesetByScmidPrefix(ctx context.Context, project *entity.Project, prefix string) (*entity.Changeset, error)
}

// DocumentFinder looks up documents.
type DocumentFinder interface {
	FindVisibleDocument(ctx context.Context, id int) (*entity.Document, error)
	FindDocumentByTitle(ctx context.Context, project *entity.Project, title string) (*entity.Document, error)
}

// VersionFinder looks up versions.
type VersionFinder interface {
	FindVisibleVersion(ctx context.Context, id int) (*entity.Version, error)
	FindVersionByName(ctx context.Context, project *entity.Project, name string) (*entity.Version, error)
}

// MessageFinder looks up forum messages.
type MessageFinder interface {
	FindVisibleMessage(ctx context.Context, id int) (*entity.Message, error)
}

// Catalog is the full set of lookups the resolver needs.
type Catalog interface {
	ProjectFinder
	WikiFinder
	IssueFinder
	ChangesetFinder
	DocumentFinder
	VersionFinder
	MessageFinder
}

// RouteKind names a link target.
type RouteKind int

const (
	RouteIssue RouteKind = iota
	RouteChangeset
	RouteDocument
	RouteVersion
	RouteMessage
	RouteProject
	RouteAttachment
	RouteSource
	RouteRaw
	RouteWiki
)

// Route describes a link target independently of URL layout.
type Route struct {
	Kind RouteKind

	// ID is the entity id (issue, document, version, message, attachment).
	ID int

	// Project is the project identifier for project scoped routes.
	Project string

	// Revision is the changeset revision, or the optional revision of a source route.
	Revision string

	// Path is the repository path of a source route, without leading slashes.
	Path string

	// Filename is the attachment filename.
	Filename string

	// Page is the titleized wiki page; empty links the wiki root.
	Page string

	// BoardID and TopicID locate a message.
	BoardID int
	TopicID int

	// Anchor is the URL fragment, without "#".
	Anchor string
}

// URLBuilder turns routes into URLs.
type URLBuilder interface {
	URL(route Route, onlyPath bool) string
}
