package xref_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/pkg/entity"
	"github.com/yaklabco/goxref/pkg/xref"
)

func TestRewriteObjectReferences(t *testing.T) {
	t.Parallel()

	longTitle := strings.Repeat("x", 97) + "... (New)"

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "issue",
			text: "#1",
			want: `<a href="/issues/1" class="issue status-1 priority-2" title="Cannot print recipes (New)">#1</a>`,
		},
		{
			name: "closed issue",
			text: "see #2. Done",
			want: `see <a href="/issues/2" class="issue status-5 priority-3 closed" title="Add ingredients categories (Closed)">#2</a>. Done`,
		},
		{
			name: "overdue issue with long subject",
			text: "(#3) ok",
			want: `(<a href="/issues/3" class="issue status-1 priority-1 overdue" title="` + longTitle + `">#3</a>) ok`,
		},
		{
			name: "invisible issue",
			text: "#9 and #99",
			want: "#9 and #99",
		},
		{
			name: "changeset",
			text: "r1",
			want: `<a href="/projects/ecookbook/repository/revisions/1" class="changeset" title="My very first commit">r1</a>`,
		},
		{
			name: "changeset comments on one line",
			text: "r3",
			want: `<a href="/projects/ecookbook/repository/revisions/3" class="changeset" title="Line one line two">r3</a>`,
		},
		{
			name: "commit prefix",
			text: "commit:abcd",
			want: `<a href="/projects/ecookbook/repository/revisions/abcd1234" class="changeset" title="git commit">abcd</a>`,
		},
		{
			name: "document by id",
			text: "document#1",
			want: `<a href="/documents/1" class="document">Test document</a>`,
		},
		{
			name: "document title is escaped",
			text: "document#2",
			want: `<a href="/documents/2" class="document">An &#34;important&#34; &lt;doc&gt;</a>`,
		},
		{
			name: "document by title",
			text: `document:"Test document"`,
			want: `<a href="/documents/1" class="document">Test document</a>`,
		},
		{
			name: "invisible document",
			text: "document#7",
			want: "document#7",
		},
		{
			name: "version by id and name",
			text: `version#2, version:"2.0 beta"`,
			want: `<a href="/versions/2" class="version">1.0</a>, <a href="/versions/3" class="version">2.0 beta</a>`,
		},
		{
			name: "message topic",
			text: "message#4",
			want: `<a href="/boards/1/topics/4" class="message">Post 4</a>`,
		},
		{
			name: "message reply",
			text: "message#5",
			want: `<a href="/boards/1/topics/4#message-5" class="message">RE: Post 4</a>`,
		},
		{
			name: "project by id",
			text: "project#2",
			want: `<a href="/projects/onlinestore" class="project">OnlineStore</a>`,
		},
		{
			name: "project by identifier and name",
			text: `project:onlinestore project:"No Wiki"`,
			want: `<a href="/projects/onlinestore" class="project">OnlineStore</a> <a href="/projects/nowiki" class="project">No Wiki</a>`,
		},
		{
			name: "archived project renders name only",
			text: "project#4",
			want: "Old &lt;Attic&gt;",
		},
		{
			name: "private project",
			text: "project#5 project:private",
			want: "project#5 project:private",
		},
		{
			name: "source with revision and line",
			text: "source:lib/app.rb@a1b2#L10",
			want: `<a href="/projects/ecookbook/repository/entry/lib/app.rb?rev=a1b2#L10" class="source">source:lib/app.rb@a1b2#L10</a>`,
		},
		{
			name: "export",
			text: "export:/README",
			want: `<a href="/projects/ecookbook/repository/raw/README" class="source download">export:/README</a>`,
		},
		{
			name: "escaped references drop the marker",
			text: "!#1 !r1 (!document#1",
			want: "#1 r1 (document#1",
		},
		{
			name: "unknown combination is unchanged",
			text: "commit#1 source#2",
			want: "commit#1 source#2",
		},
		{
			name: "attachment without list is unchanged",
			text: "attachment:logo.png",
			want: "attachment:logo.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rewrite(t, tt.text))
		})
	}
}

func TestRewriteProjectScopedReferencesNeedProject(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, newFakeCatalog())
	text := `r1 commit:abcd document:"Test document" version:1.0 source:README`

	out, err := resolver.Rewrite(context.Background(), text, &xref.Context{OnlyPath: true})
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestRewriteSourceNeedsRepository(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, newFakeCatalog())
	out, err := resolver.Rewrite(context.Background(), "source:README", &xref.Context{Project: onlinest, OnlyPath: true})
	require.NoError(t, err)
	assert.Equal(t, "source:README", out)
}

func TestRewriteAttachmentReference(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, newFakeCatalog())
	rc := &xref.Context{
		Project:  ecookbook,
		OnlyPath: true,
		Object: xref.AttachmentList{
			{ID: 10, Filename: "logo.png", CreatedOn: time.Now()},
			{ID: 11, Filename: "notes <draft>.txt", CreatedOn: time.Now()},
		},
	}

	out, err := resolver.Rewrite(context.Background(), `attachment:logo.png attachment:Logo.png attachment:"notes <draft>.txt"`, rc)
	require.NoError(t, err)
	assert.Equal(t,
		`<a href="/attachments/download/10/logo.png" class="attachment">logo.png</a> attachment:Logo.png `+
			`<a href="/attachments/download/11/notes%20%3Cdraft%3E.txt" class="attachment">notes &lt;draft&gt;.txt</a>`,
		out)
}

func TestRewriteAbsoluteURLs(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, newFakeCatalog())
	out, err := resolver.Rewrite(context.Background(), "#1 source:README", &xref.Context{Project: ecookbook})
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://tracker.example.com/issues/1"`)
	assert.Contains(t, out, `href="https://tracker.example.com/projects/ecookbook/repository/entry/README"`)
}

func TestIssueCSSClasses(t *testing.T) {
	t.Parallel()

	issue := &entity.Issue{
		Status:   entity.IssueStatus{Position: 2},
		Priority: entity.IssuePriority{Position: 4},
		DueDate:  fixedNow,
	}
	assert.Equal(t, "issue status-2 priority-4", issue.CSSClasses(fixedNow))
	assert.Equal(t, "issue status-2 priority-4 overdue", issue.CSSClasses(fixedNow.AddDate(0, 0, 1)))

	issue.Status.Closed = true
	assert.Equal(t, "issue status-2 priority-4 closed", issue.CSSClasses(fixedNow.AddDate(0, 0, 1)))
}
