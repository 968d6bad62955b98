// Package route builds tracker URLs for resolved references.
package route

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yaklabco/goxref/pkg/xref"
)

// Router implements xref.URLBuilder with the tracker's URL layout.
type Router struct {
	base string
}

// New returns a router. baseURL is prepended to paths when absolute URLs are
// requested; it may be empty, in which case all URLs are host-relative.
func New(baseURL string) (*Router, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return &Router{}, nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute (scheme and host)", baseURL)
	}

	return &Router{base: baseURL}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (r *Router) BaseURL() string {
	return r.base
}

// URL implements xref.URLBuilder.
func (r *Router) URL(route xref.Route, onlyPath bool) string {
	path := Path(route)
	if onlyPath || r.base == "" {
		return path
	}
	return r.base + path
}

// Path returns the host-relative URL of route.
func Path(route xref.Route) string {
	var sb strings.Builder
	query := url.Values{}

	switch route.Kind {
	case xref.RouteIssue:
		sb.WriteString("/issues/")
		sb.WriteString(strconv.Itoa(route.ID))
	case xref.RouteChangeset:
		writeProject(&sb, route.Project)
		sb.WriteString("/repository/revisions/")
		sb.WriteString(url.PathEscape(route.Revision))
	case xref.RouteDocument:
		sb.WriteString("/documents/")
		sb.WriteString(strconv.Itoa(route.ID))
	case xref.RouteVersion:
		sb.WriteString("/versions/")
		sb.WriteString(strconv.Itoa(route.ID))
	case xref.RouteMessage:
		sb.WriteString("/boards/")
		sb.WriteString(strconv.Itoa(route.BoardID))
		sb.WriteString("/topics/")
		sb.WriteString(strconv.Itoa(route.TopicID))
	case xref.RouteProject:
		writeProject(&sb, route.Project)
	case xref.RouteAttachment:
		sb.WriteString("/attachments/download/")
		sb.WriteString(strconv.Itoa(route.ID))
		if route.Filename != "" {
			sb.WriteString("/")
			sb.WriteString(url.PathEscape(route.Filename))
		}
	case xref.RouteSource, xref.RouteRaw:
		writeProject(&sb, route.Project)
		if route.Kind == xref.RouteSource {
			sb.WriteString("/repository/entry")
		} else {
			sb.WriteString("/repository/raw")
		}
		if route.Path != "" {
			sb.WriteString("/")
			sb.WriteString(escapePath(route.Path))
		}
		if route.Revision != "" {
			query.Set("rev", route.Revision)
		}
	case xref.RouteWiki:
		writeProject(&sb, route.Project)
		sb.WriteString("/wiki")
		if route.Page != "" {
			sb.WriteString("/")
			sb.WriteString(url.PathEscape(route.Page))
		}
	}

	if len(query) > 0 {
		sb.WriteString("?")
		sb.WriteString(query.Encode())
	}
	if route.Anchor != "" {
		sb.WriteString("#")
		sb.WriteString(route.Anchor)
	}
	return sb.String()
}

func writeProject(sb *strings.Builder, identifier string) {
	sb.WriteString("/projects/")
	sb.WriteString(url.PathEscape(identifier))
}

// escapePath escapes each segment of a slash separated path.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
