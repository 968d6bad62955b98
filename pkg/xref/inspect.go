package xref

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Reference is a reference found by Inspect together with its resolution.
type Reference struct {
	ReferenceMatch

	// Resolved is false when the reference would be left as written.
	Resolved bool

	// Href, Class and Title describe the link the reference resolves to.
	// Href is empty for references rendered without a link (archived projects).
	Href  string
	Class string
	Title string
}

// Extract returns the references written in the open regions of text,
// without resolving them. Offsets are relative to text.
func Extract(text string) []ReferenceMatch {
	var out []ReferenceMatch
	for _, chunk := range Scan(text) {
		if chunk.Protected {
			continue
		}
		for _, lex := range []func(string) []ReferenceMatch{lexInlineImages, lexWikiLinks, lexObjectRefs} {
			for _, m := range lex(chunk.Content) {
				out = append(out, shift(m, chunk.Offset))
			}
		}
	}
	sortByOffset(out, func(m ReferenceMatch) int { return m.Start })
	return out
}

// Inspect lists the references in the open regions of text and how each one
// resolves. Every pass looks at the original text, so references produced by
// an earlier pass are not reported again. Escaped references are listed as
// unresolved.
func (r *Resolver) Inspect(ctx context.Context, text string, rc *Context) ([]Reference, error) {
	sc := newScope(rc)

	var refs []Reference
	for _, chunk := range Scan(text) {
		if chunk.Protected {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, p := range r.passes {
			for _, m := range p.lex(chunk.Content) {
				res, err := p.resolve(ctx, m, sc)
				if err != nil {
					return nil, fmt.Errorf("resolve %s reference %q: %w", m.Kind, m.Raw, err)
				}
				ref := Reference{ReferenceMatch: shift(m, chunk.Offset)}
				if res.target != nil {
					ref.Resolved = true
					ref.Href = res.target.Href
					ref.Class = res.target.Class
					ref.Title = res.target.Title
				}
				refs = append(refs, ref)
			}
		}
	}

	sortByOffset(refs, func(ref Reference) int { return ref.Start })
	return refs, nil
}

// LineColumn converts a byte offset of text to a 1-based line and rune column.
func LineColumn(text string, offset int) (line, column int) {
	offset = min(max(offset, 0), len(text))
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[lineStart:]) + 1
}

func shift(m ReferenceMatch, offset int) ReferenceMatch {
	m.Start += offset
	m.End += offset
	return m
}

func sortByOffset[T any](items []T, start func(T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		return start(a) - start(b)
	})
}
