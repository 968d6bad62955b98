package xref

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// link is a resolved reference. An empty Href renders Text without an anchor.
type link struct {
	Href  string
	Class string
	Title string

	// Text is HTML and is written as is.
	Text string
}

// HTML renders the link as an anchor element.
func (l link) HTML() string {
	if l.Href == "" {
		return l.Text
	}

	var sb strings.Builder
	sb.WriteString(`<a href="`)
	sb.WriteString(html.EscapeString(l.Href))
	sb.WriteString(`"`)
	if l.Class != "" {
		sb.WriteString(` class="`)
		sb.WriteString(html.EscapeString(l.Class))
		sb.WriteString(`"`)
	}
	if l.Title != "" {
		sb.WriteString(` title="`)
		sb.WriteString(html.EscapeString(l.Title))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	sb.WriteString(l.Text)
	sb.WriteString("</a>")
	return sb.String()
}

const ellipsis = "..."

// truncate shortens s to at most n runes, ending with "..." when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	keep := n - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(s)
	return string(runes[:keep]) + ellipsis
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// truncateSingleLine truncates s and folds line breaks into spaces.
func truncateSingleLine(s string, n int) string {
	return lineBreaks.ReplaceAllString(truncate(s, n), " ")
}

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	titleRemovedChar = strings.NewReplacer(",", "", ".", "", "/", "", "?", "", ";", "", "|", "", ":", "")
)

// titleize converts a wiki page name into its canonical title: whitespace
// runs become "_", the characters ,./?;|: are removed and the first letter is
// upper-cased.
func titleize(s string) string {
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = titleRemovedChar.Replace(s)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// isBlank reports whether s is empty or whitespace only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Titleize exposes the wiki title normalization used for page URLs.
func Titleize(s string) string {
	return titleize(s)
}
