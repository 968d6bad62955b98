package xref_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/pkg/entity"
	"github.com/yaklabco/goxref/pkg/route"
	"github.com/yaklabco/goxref/pkg/xref"
)

// fakeCatalog is an in-memory xref.Catalog. Every lookup fails with err when set.
type fakeCatalog struct {
	projects   []*entity.Project
	hidden     map[int]bool
	wikiPages  map[int][]string
	issues     map[int]*entity.Issue
	changesets map[int][]*entity.Changeset
	documents  []*entity.Document
	versions   []*entity.Version
	messages   map[int]*entity.Message
	err        error
}

var (
	ecookbook = &entity.Project{ID: 1, Identifier: "ecookbook", Name: "eCookbook", HasWiki: true, HasRepository: true}
	onlinest  = &entity.Project{ID: 2, Identifier: "onlinestore", Name: "OnlineStore", HasWiki: true}
	nowiki    = &entity.Project{ID: 3, Identifier: "nowiki", Name: "No Wiki"}
	archived  = &entity.Project{ID: 4, Identifier: "attic", Name: "Old <Attic>", Archived: true}
	private   = &entity.Project{ID: 5, Identifier: "private", Name: "Private"}
)

// fixedNow is the clock used by the resolver in tests.
var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		projects: []*entity.Project{ecookbook, onlinest, nowiki, archived, private},
		hidden:   map[int]bool{private.ID: true},
		wikiPages: map[int][]string{
			ecookbook.ID: {"Wiki", "Another_page", "CookBook_documentation"},
			onlinest.ID:  {"Start_page", "Products"},
		},
		issues: map[int]*entity.Issue{
			1: {
				ID: 1, ProjectID: 1, Subject: "Cannot print recipes",
				Status:   entity.IssueStatus{Name: "New", Position: 1},
				Priority: entity.IssuePriority{Name: "Normal", Position: 2},
			},
			2: {
				ID: 2, ProjectID: 1, Subject: "Add ingredients categories",
				Status:   entity.IssueStatus{Name: "Closed", Position: 5, Closed: true},
				Priority: entity.IssuePriority{Name: "High", Position: 3},
			},
			3: {
				ID: 3, ProjectID: 1, Subject: strings.Repeat("x", 120),
				Status:   entity.IssueStatus{Name: "New", Position: 1},
				Priority: entity.IssuePriority{Name: "Low", Position: 1},
				DueDate:  fixedNow.AddDate(0, 0, -3),
			},
			9: {ID: 9, ProjectID: private.ID, Subject: "secret"},
		},
		changesets: map[int][]*entity.Changeset{
			ecookbook.ID: {
				{ProjectID: 1, Revision: "1", Scmid: "1", Comments: "My very first commit"},
				{ProjectID: 1, Revision: "3", Scmid: "3", Comments: "Line one\nline two"},
				{ProjectID: 1, Revision: "abcd1234", Scmid: "abcd1234ef", Comments: "git commit"},
			},
		},
		documents: []*entity.Document{
			{ID: 1, ProjectID: 1, Title: "Test document"},
			{ID: 2, ProjectID: 1, Title: "An \"important\" <doc>"},
			{ID: 7, ProjectID: private.ID, Title: "Hidden"},
		},
		versions: []*entity.Version{
			{ID: 2, ProjectID: 1, Name: "1.0"},
			{ID: 3, ProjectID: 1, Name: "2.0 beta"},
		},
		messages: map[int]*entity.Message{
			4: {ID: 4, BoardID: 1, Subject: "Post 4"},
			5: {ID: 5, BoardID: 1, ParentID: 4, Subject: "RE: Post 4"},
		},
	}
}

func (c *fakeCatalog) visible(projectID int) bool {
	return !c.hidden[projectID]
}

func (c *fakeCatalog) FindProject(_ context.Context, key string) (*entity.Project, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, p := range c.projects {
		if p.Name == key {
			return p, nil
		}
	}
	for _, p := range c.projects {
		if p.Identifier == key {
			return p, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindVisibleProject(_ context.Context, id int) (*entity.Project, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, p := range c.projects {
		if p.ID == id && c.visible(p.ID) {
			return p, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindVisibleProjectByKey(_ context.Context, key string) (*entity.Project, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, p := range c.projects {
		if (p.Identifier == key || strings.ToLower(p.Name) == key) && c.visible(p.ID) {
			return p, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindWikiPage(_ context.Context, project *entity.Project, title string) (*entity.WikiPage, error) {
	if c.err != nil {
		return nil, c.err
	}
	pages := c.wikiPages[project.ID]
	if title == "" && len(pages) > 0 {
		return &entity.WikiPage{ProjectID: project.ID, Title: pages[0]}, nil
	}
	for _, page := range pages {
		if strings.EqualFold(page, xref.Titleize(title)) {
			return &entity.WikiPage{ProjectID: project.ID, Title: page}, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindVisibleIssue(_ context.Context, id int) (*entity.Issue, error) {
	if c.err != nil {
		return nil, c.err
	}
	if issue, ok := c.issues[id]; ok && c.visible(issue.ProjectID) {
		return issue, nil
	}
	return nil, nil
}

func (c *fakeCatalog) FindChangesetByRevision(_ context.Context, project *entity.Project, rev string) (*entity.Changeset, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, cs := range c.changesets[project.ID] {
		if cs.Revision == rev {
			return cs, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindChangesetByScmidPrefix(_ context.Context, project *entity.Project, prefix string) (*entity.Changeset, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, cs := range c.changesets[project.ID] {
		if strings.HasPrefix(cs.Scmid, prefix) {
			return cs, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindVisibleDocument(_ context.Context, id int) (*entity.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, d := range c.documents {
		if d.ID == id && c.visible(d.ProjectID) {
			return d, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindDocumentByTitle(_ context.Context, project *entity.Project, title string) (*entity.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, d := range c.documents {
		if d.ProjectID == project.ID && d.Title == title {
			return d, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindVisibleVersion(_ context.Context, id int) (*entity.Version, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, v := range c.versions {
		if v.ID == id && c.visible(v.ProjectID) {
			return v, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindVersionByName(_ context.Context, project *entity.Project, name string) (*entity.Version, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, v := range c.versions {
		if v.ProjectID == project.ID && v.Name == name {
			return v, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindVisibleMessage(_ context.Context, id int) (*entity.Message, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.messages[id], nil
}

// newTestResolver returns a resolver over catalog with host-relative URLs.
func newTestResolver(t testing.TB, catalog xref.Catalog) *xref.Resolver {
	t.Helper()

	router, err := route.New("https://tracker.example.com")
	require.NoError(t, err)

	return xref.New(catalog, router, xref.WithClock(func() time.Time { return fixedNow }))
}

// rewrite rewrites text in the ecookbook project with only-path URLs.
func rewrite(t *testing.T, text string) string {
	t.Helper()

	out, err := newTestResolver(t, newFakeCatalog()).Rewrite(context.Background(), text, &xref.Context{
		Project:  ecookbook,
		OnlyPath: true,
	})
	require.NoError(t, err)
	return out
}
