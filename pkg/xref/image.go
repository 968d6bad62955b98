package xref

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// inlineImagePattern matches an image source naming a bare file, optionally
// followed by an alt attribute.
var inlineImagePattern = regexp.MustCompile(`(?i)src="([^/"]+\.(?:bmp|gif|jpg|jpeg|png))"(\s+alt="([^"]*)")?`)

func lexInlineImages(text string) []ReferenceMatch {
	locs := inlineImagePattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]ReferenceMatch, 0, len(locs))
	for _, loc := range locs {
		m := ReferenceMatch{
			Kind:       KindImage,
			Start:      loc[0],
			End:        loc[1],
			Raw:        text[loc[0]:loc[1]],
			Identifier: text[loc[2]:loc[3]],
			Name:       text[loc[2]:loc[3]],
		}
		if loc[4] >= 0 {
			m.Modifiers = map[string]string{ModAlt: text[loc[6]:loc[7]]}
		}
		matches = append(matches, m)
	}
	return matches
}

// resolveInlineImage points the image source at the most recent attachment
// with the same filename.
func (r *Resolver) resolveInlineImage(_ context.Context, m ReferenceMatch, sc *scope) (resolution, error) {
	attachments, ok := sc.recentAttachments()
	if !ok {
		return unresolved(m), nil
	}

	idx := -1
	for i := range attachments {
		if strings.EqualFold(attachments[i].Filename, m.Name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return unresolved(m), nil
	}
	att := attachments[idx]

	href := r.urls.URL(Route{Kind: RouteAttachment, ID: att.ID, Filename: att.Filename}, sc.rc.OnlyPath)
	desc := strings.ReplaceAll(att.Description, `"`, "")

	var sb strings.Builder
	sb.WriteString(`src="`)
	sb.WriteString(html.EscapeString(href))
	sb.WriteString(`"`)
	if alt, hasAlt := m.Modifiers[ModAlt]; !isBlank(desc) && (!hasAlt || isBlank(alt)) {
		escaped := html.EscapeString(desc)
		sb.WriteString(` title="`)
		sb.WriteString(escaped)
		sb.WriteString(`" alt="`)
		sb.WriteString(escaped)
		sb.WriteString(`"`)
	} else {
		// Keep the original alt attribute, whitespace included.
		sb.WriteString(m.Raw[len(`src="`)+len(m.Identifier)+len(`"`):])
	}

	return resolution{
		replacement: sb.String(),
		target:      &link{Href: href, Class: "attachment", Title: desc, Text: html.EscapeString(att.Filename)},
	}, nil
}
