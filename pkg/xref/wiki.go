package xref

import (
	"context"
	"fmt"
	"regexp"

	"github.com/yaklabco/goxref/pkg/entity"
)

var (
	wikiLinkPattern  = regexp.MustCompile(`(!)?(\[\[([^\]\n|]+)(\|([^\]\n|]+))?\]\])`)
	wikiProjectQual  = regexp.MustCompile(`^([^:]+):(.*)$`)
	wikiPageAnchored = regexp.MustCompile(`^(.+?)#(.+)$`)
)

func lexWikiLinks(text string) []ReferenceMatch {
	locs := wikiLinkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]ReferenceMatch, 0, len(locs))
	for _, loc := range locs {
		page := text[loc[6]:loc[7]]
		m := ReferenceMatch{
			Kind:       KindWikiLink,
			Start:      loc[0],
			End:        loc[1],
			Raw:        text[loc[0]:loc[1]],
			Escaped:    loc[2] >= 0,
			Identifier: page,
			Modifiers:  map[string]string{},
		}
		if loc[10] >= 0 {
			m.Modifiers[ModTitle] = text[loc[10]:loc[11]]
		}
		if sub := wikiProjectQual.FindStringSubmatch(page); sub != nil {
			m.Modifiers[ModProject] = sub[1]
			page = sub[2]
		}
		if sub := wikiPageAnchored.FindStringSubmatch(page); sub != nil {
			page = sub[1]
			m.Modifiers[ModAnchor] = sub[2]
		}
		m.Name = page
		m.Modifiers[ModPage] = page
		matches = append(matches, m)
	}
	return matches
}

// resolveWikiLink links a wiki page of the current or a named project.
// Escaped links are left as written, "!" included.
func (r *Resolver) resolveWikiLink(ctx context.Context, m ReferenceMatch, sc *scope) (resolution, error) {
	if m.Escaped {
		return unresolved(m), nil
	}

	project := sc.rc.Project
	qualifier, qualified := m.Modifiers[ModProject]
	if qualified {
		var err error
		project, err = r.catalog.FindProject(ctx, qualifier)
		if err != nil {
			return resolution{}, fmt.Errorf("find project %q: %w", qualifier, err)
		}
	}
	if project == nil || !project.HasWiki {
		return unresolved(m), nil
	}

	page := m.Modifiers[ModPage]
	anchor := m.Modifiers[ModAnchor]
	title, hasTitle := m.Modifiers[ModTitle]
	if !hasTitle && qualified && isBlank(page) {
		title, hasTitle = qualifier, true
	}

	existing, err := r.catalog.FindWikiPage(ctx, project, page)
	if err != nil {
		return resolution{}, fmt.Errorf("find wiki page %q in %s: %w", page, project.Identifier, err)
	}

	class := "wiki-page"
	if existing == nil {
		class += " new"
	}

	text := page
	if hasTitle {
		text = title
	}

	target := &link{
		Href:  r.wikiURL(project, page, anchor, title, sc.rc),
		Class: class,
		Text:  text,
	}
	return resolution{replacement: target.HTML(), target: target}, nil
}

func (r *Resolver) wikiURL(project *entity.Project, page, anchor, title string, rc *Context) string {
	pageID := ""
	if !isBlank(page) {
		pageID = titleize(page)
	}

	switch rc.WikiLinks {
	case WikiLinksLocal:
		url := pageID + ".html"
		if anchor != "" {
			url += "#" + anchor
		}
		return url
	case WikiLinksAnchor:
		fragment := pageID
		if fragment == "" {
			fragment = title
		}
		if anchor != "" {
			fragment += "_" + anchor
		}
		return "#" + fragment
	default:
		return r.urls.URL(Route{
			Kind:    RouteWiki,
			Project: project.Identifier,
			Page:    pageID,
			Anchor:  anchor,
		}, rc.OnlyPath)
	}
}
