package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/pkg/route"
	"github.com/yaklabco/goxref/pkg/xref"
)

func TestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		route xref.Route
		want  string
	}{
		{"issue", xref.Route{Kind: xref.RouteIssue, ID: 12}, "/issues/12"},
		{"changeset", xref.Route{Kind: xref.RouteChangeset, Project: "ecookbook", Revision: "42"}, "/projects/ecookbook/repository/revisions/42"},
		{"document", xref.Route{Kind: xref.RouteDocument, ID: 1}, "/documents/1"},
		{"version", xref.Route{Kind: xref.RouteVersion, ID: 2}, "/versions/2"},
		{"message topic", xref.Route{Kind: xref.RouteMessage, ID: 4, BoardID: 1, TopicID: 4}, "/boards/1/topics/4"},
		{"message reply", xref.Route{Kind: xref.RouteMessage, ID: 5, BoardID: 1, TopicID: 4, Anchor: "message-5"}, "/boards/1/topics/4#message-5"},
		{"project", xref.Route{Kind: xref.RouteProject, Project: "ecookbook"}, "/projects/ecookbook"},
		{"attachment", xref.Route{Kind: xref.RouteAttachment, ID: 3, Filename: "logo one.png"}, "/attachments/download/3/logo%20one.png"},
		{"source", xref.Route{Kind: xref.RouteSource, Project: "ecookbook", Path: "lib/app.rb"}, "/projects/ecookbook/repository/entry/lib/app.rb"},
		{"source rev and line", xref.Route{Kind: xref.RouteSource, Project: "ecookbook", Path: "lib/app.rb", Revision: "a1b2", Anchor: "L10"}, "/projects/ecookbook/repository/entry/lib/app.rb?rev=a1b2#L10"},
		{"raw", xref.Route{Kind: xref.RouteRaw, Project: "ecookbook", Path: "README", Revision: "7"}, "/projects/ecookbook/repository/raw/README?rev=7"},
		{"wiki root", xref.Route{Kind: xref.RouteWiki, Project: "ecookbook"}, "/projects/ecookbook/wiki"},
		{"wiki page", xref.Route{Kind: xref.RouteWiki, Project: "ecookbook", Page: "Getting_Started", Anchor: "Install"}, "/projects/ecookbook/wiki/Getting_Started#Install"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, route.Path(tt.route))
		})
	}
}

func TestRouterURL(t *testing.T) {
	t.Parallel()

	router, err := route.New("https://tracker.example.com/")
	require.NoError(t, err)

	issue := xref.Route{Kind: xref.RouteIssue, ID: 1}
	assert.Equal(t, "https://tracker.example.com/issues/1", router.URL(issue, false))
	assert.Equal(t, "/issues/1", router.URL(issue, true))
	assert.Equal(t, "https://tracker.example.com", router.BaseURL())
}

func TestRouterWithoutBase(t *testing.T) {
	t.Parallel()

	router, err := route.New("")
	require.NoError(t, err)
	assert.Equal(t, "/versions/3", router.URL(xref.Route{Kind: xref.RouteVersion, ID: 3}, false))
}

func TestNewRejectsRelativeBase(t *testing.T) {
	t.Parallel()

	_, err := route.New("tracker.example.com")
	require.Error(t, err)
}
