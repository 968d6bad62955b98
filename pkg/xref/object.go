package xref

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/yaklabco/goxref/pkg/entity"
)

const (
	issueTitleLength     = 100
	changesetTitleLength = 100
	messageSubjectLength = 60
)

// sourceNamePattern splits path[@rev][#Lline], dropping leading slashes.
var (
	sourceNamePattern = regexp.MustCompile(`(?s)^[/\\]*(.*?)(?:@([0-9a-f]+))?(?:#(L\d+))?$`)
	pathSeparators    = regexp.MustCompile(`[/\\]+`)
)

// parseSourceName extracts the path, revision and line anchor of a
// source: or export: name.
func parseSourceName(name string) (map[string]string, bool) {
	sub := sourceNamePattern.FindStringSubmatch(name)
	if sub == nil {
		return nil, false
	}

	var parts []string
	for _, part := range pathSeparators.Split(sub[1], -1) {
		if !isBlank(part) {
			parts = append(parts, part)
		}
	}

	mods := map[string]string{ModPath: strings.Join(parts, "/")}
	if sub[2] != "" {
		mods[ModRevision] = sub[2]
	}
	if sub[3] != "" {
		mods[ModAnchor] = sub[3]
	}
	return mods, true
}

// resolveObjectRef links an object reference. The leading character is
// always kept; escaped references lose their "!".
func (r *Resolver) resolveObjectRef(ctx context.Context, m ReferenceMatch, sc *scope) (resolution, error) {
	plain := resolution{replacement: m.Leading + m.Text()}
	if m.Escaped {
		return plain, nil
	}

	target, err := r.lookupObject(ctx, m, sc)
	if err != nil {
		return resolution{}, err
	}
	if target == nil {
		return plain, nil
	}

	return resolution{replacement: m.Leading + target.HTML(), target: target}, nil
}

func (r *Resolver) lookupObject(ctx context.Context, m ReferenceMatch, sc *scope) (*link, error) {
	switch m.Separator {
	case "#", "r":
		id, err := strconv.Atoi(m.Identifier)
		if err != nil {
			// Too many digits to be an id.
			return nil, nil //nolint:nilnil // Not found.
		}
		return r.lookupByID(ctx, m, id, sc)
	default:
		return r.lookupByName(ctx, m, sc)
	}
}

//nolint:nilnil // (nil, nil) means not found.
func (r *Resolver) lookupByID(ctx context.Context, m ReferenceMatch, id int, sc *scope) (*link, error) {
	switch m.Kind {
	case KindIssue:
		issue, err := r.catalog.FindVisibleIssue(ctx, id)
		if err != nil || issue == nil {
			return nil, wrapLookup(err, "issue", id)
		}
		return &link{
			Href:  r.urls.URL(Route{Kind: RouteIssue, ID: issue.ID}, sc.rc.OnlyPath),
			Class: issue.CSSClasses(r.now()),
			Title: truncate(issue.Subject, issueTitleLength) + " (" + issue.Status.Name + ")",
			Text:  "#" + strconv.Itoa(id),
		}, nil

	case KindChangeset:
		project := sc.rc.Project
		if project == nil {
			return nil, nil
		}
		changeset, err := r.catalog.FindChangesetByRevision(ctx, project, m.Identifier)
		if err != nil || changeset == nil {
			return nil, wrapLookup(err, "changeset", m.Identifier)
		}
		return r.changesetLink(project, changeset, "r"+m.Identifier, sc), nil

	case KindDocument:
		doc, err := r.catalog.FindVisibleDocument(ctx, id)
		if err != nil || doc == nil {
			return nil, wrapLookup(err, "document", id)
		}
		return r.documentLink(doc, sc), nil

	case KindVersion:
		version, err := r.catalog.FindVisibleVersion(ctx, id)
		if err != nil || version == nil {
			return nil, wrapLookup(err, "version", id)
		}
		return r.versionLink(version, sc), nil

	case KindMessage:
		msg, err := r.catalog.FindVisibleMessage(ctx, id)
		if err != nil || msg == nil {
			return nil, wrapLookup(err, "message", id)
		}
		route := Route{Kind: RouteMessage, ID: msg.ID, BoardID: msg.BoardID, TopicID: msg.RootID()}
		if msg.IsReply() {
			route.Anchor = "message-" + strconv.Itoa(msg.ID)
		}
		return &link{
			Href:  r.urls.URL(route, sc.rc.OnlyPath),
			Class: "message",
			Text:  html.EscapeString(truncate(msg.Subject, messageSubjectLength)),
		}, nil

	case KindProject:
		project, err := r.catalog.FindVisibleProject(ctx, id)
		if err != nil || project == nil {
			return nil, wrapLookup(err, "project", id)
		}
		return r.projectLink(project, sc), nil
	}

	return nil, nil
}

//nolint:nilnil // (nil, nil) means not found.
func (r *Resolver) lookupByName(ctx context.Context, m ReferenceMatch, sc *scope) (*link, error) {
	project := sc.rc.Project

	switch m.Kind {
	case KindDocument:
		if project == nil {
			return nil, nil
		}
		doc, err := r.catalog.FindDocumentByTitle(ctx, project, m.Name)
		if err != nil || doc == nil {
			return nil, wrapLookup(err, "document", m.Name)
		}
		return r.documentLink(doc, sc), nil

	case KindVersion:
		if project == nil {
			return nil, nil
		}
		version, err := r.catalog.FindVersionByName(ctx, project, m.Name)
		if err != nil || version == nil {
			return nil, wrapLookup(err, "version", m.Name)
		}
		return r.versionLink(version, sc), nil

	case KindChangeset:
		if project == nil {
			return nil, nil
		}
		changeset, err := r.catalog.FindChangesetByScmidPrefix(ctx, project, m.Name)
		if err != nil || changeset == nil {
			return nil, wrapLookup(err, "commit", m.Name)
		}
		return r.changesetLink(project, changeset, html.EscapeString(m.Name), sc), nil

	case KindSource, KindExport:
		if project == nil || !project.HasRepository || m.Modifiers == nil {
			return nil, nil
		}
		route := Route{
			Kind:     RouteSource,
			Project:  project.Identifier,
			Path:     m.Modifiers[ModPath],
			Revision: m.Modifiers[ModRevision],
			Anchor:   m.Modifiers[ModAnchor],
		}
		class := "source"
		if m.Kind == KindExport {
			route.Kind = RouteRaw
			route.Anchor = ""
			class = "source download"
		}
		return &link{
			Href:  r.urls.URL(route, sc.rc.OnlyPath),
			Class: class,
			Text:  html.EscapeString(m.Prefix + ":" + m.Name),
		}, nil

	case KindAttachment:
		attachments, ok := sc.rc.attachments()
		if !ok {
			return nil, nil
		}
		for _, att := range attachments {
			if att.Filename != m.Name {
				continue
			}
			return &link{
				Href:  r.urls.URL(Route{Kind: RouteAttachment, ID: att.ID, Filename: att.Filename}, sc.rc.OnlyPath),
				Class: "attachment",
				Text:  html.EscapeString(att.Filename),
			}, nil
		}
		return nil, nil

	case KindProject:
		found, err := r.catalog.FindVisibleProjectByKey(ctx, strings.ToLower(m.Name))
		if err != nil || found == nil {
			return nil, wrapLookup(err, "project", m.Name)
		}
		return r.projectLink(found, sc), nil
	}

	return nil, nil
}

func (r *Resolver) changesetLink(project *entity.Project, cs *entity.Changeset, text string, sc *scope) *link {
	return &link{
		Href:  r.urls.URL(Route{Kind: RouteChangeset, Project: project.Identifier, Revision: cs.Revision}, sc.rc.OnlyPath),
		Class: "changeset",
		Title: truncateSingleLine(cs.Comments, changesetTitleLength),
		Text:  text,
	}
}

func (r *Resolver) documentLink(doc *entity.Document, sc *scope) *link {
	return &link{
		Href:  r.urls.URL(Route{Kind: RouteDocument, ID: doc.ID}, sc.rc.OnlyPath),
		Class: "document",
		Text:  html.EscapeString(doc.Title),
	}
}

func (r *Resolver) versionLink(version *entity.Version, sc *scope) *link {
	return &link{
		Href:  r.urls.URL(Route{Kind: RouteVersion, ID: version.ID}, sc.rc.OnlyPath),
		Class: "version",
		Text:  html.EscapeString(version.Name),
	}
}

// projectLink links a project; archived projects render as their name only.
func (r *Resolver) projectLink(project *entity.Project, sc *scope) *link {
	name := html.EscapeString(project.Name)
	if project.Archived {
		return &link{Text: name}
	}
	return &link{
		Href:  r.urls.URL(Route{Kind: RouteProject, Project: project.Identifier}, sc.rc.OnlyPath),
		Class: "project",
		Text:  name,
	}
}

// wrapLookup annotates a collaborator error; a nil error stays nil.
func wrapLookup(err error, what string, key any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("find %s %v: %w", what, key, err)
}
