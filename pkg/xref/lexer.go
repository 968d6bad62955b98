package xref

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// objectPrefixes are the named reference prefixes, in match priority order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var objectPrefixes = []string{
	"attachment", "document", "version", "commit", "source", "export", "message", "project",
}

// lexObjectRefs finds object references such as #12, r34, document#5,
// version:"1.0" or source:path@rev#L10.
//
// A reference starts at the beginning of a line or after one of the leading
// characters (whitespace ( , - [ >), which belongs to the match. It must be
// followed by a boundary: end of line, whitespace , ] < or a punctuation
// character that is itself followed by a non-word character. Bare ":" names
// are as short as the boundary allows.
func lexObjectRefs(text string) []ReferenceMatch {
	var matches []ReferenceMatch

	for p := 0; p < len(text); p++ {
		if isLeadingByte(text[p]) {
			if m, ok := lexObjectToken(text, p+1); ok {
				m.Start = p
				m.Leading = text[p : p+1]
				m.Raw = text[p:m.End]
				matches = append(matches, m)
				p = m.End - 1
				continue
			}
		}
		if p == 0 || text[p-1] == '\n' {
			if m, ok := lexObjectToken(text, p); ok {
				m.Start = p
				m.Raw = text[p:m.End]
				matches = append(matches, m)
				p = m.End - 1
			}
		}
	}

	return matches
}

// lexObjectToken lexes a reference token starting exactly at pos.
func lexObjectToken(text string, pos int) (ReferenceMatch, bool) {
	if pos >= len(text) {
		return ReferenceMatch{}, false
	}

	var m ReferenceMatch
	i := pos
	if text[i] == '!' {
		m.Escaped = true
		i++
	}

	for _, prefix := range objectPrefixes {
		if !strings.HasPrefix(text[i:], prefix) {
			continue
		}
		if sep, ident, end, ok := lexObjectBody(text, i+len(prefix)); ok {
			m.Prefix, m.Separator, m.Identifier, m.End = prefix, sep, ident, end
			return finishObjectMatch(m), true
		}
	}

	if sep, ident, end, ok := lexObjectBody(text, i); ok {
		m.Separator, m.Identifier, m.End = sep, ident, end
		return finishObjectMatch(m), true
	}

	return ReferenceMatch{}, false
}

// lexObjectBody lexes the separator and identifier at pos.
func lexObjectBody(text string, pos int) (sep, ident string, end int, ok bool) {
	if pos >= len(text) {
		return "", "", 0, false
	}

	switch text[pos] {
	case '#', 'r':
		end = pos + 1
		for end < len(text) && isASCIIDigit(text[end]) {
			end++
		}
		if end == pos+1 || !isTrailingBoundary(text, end) {
			return "", "", 0, false
		}
		return text[pos : pos+1], text[pos+1 : end], end, true

	case ':':
		start := pos + 1
		if start >= len(text) {
			return "", "", 0, false
		}
		if text[start] == '"' {
			closing := strings.IndexByte(text[start+1:], '"')
			if closing <= 0 {
				return "", "", 0, false
			}
			end = start + 1 + closing + 1
			if !isTrailingBoundary(text, end) {
				return "", "", 0, false
			}
			return ":", text[start:end], end, true
		}
		if isNameStop(text[start]) {
			return "", "", 0, false
		}
		for end = start + 1; end <= len(text); end++ {
			if isNameStop(text[end-1]) {
				return "", "", 0, false
			}
			if end < len(text) && !utf8.RuneStart(text[end]) {
				continue
			}
			if isTrailingBoundary(text, end) {
				return ":", text[start:end], end, true
			}
		}
	}

	return "", "", 0, false
}

func finishObjectMatch(m ReferenceMatch) ReferenceMatch {
	m.Name = unquote(m.Identifier)
	m.Kind = classifyObject(m.Prefix, m.Separator)
	if m.Kind == KindSource || m.Kind == KindExport {
		if mods, ok := parseSourceName(m.Name); ok {
			m.Modifiers = mods
		}
	}
	return m
}

// classifyObject maps a prefix and separator to the kind of reference.
func classifyObject(prefix, sep string) Kind {
	switch sep {
	case "r":
		if prefix == "" {
			return KindChangeset
		}
	case "#":
		switch prefix {
		case "":
			return KindIssue
		case "document":
			return KindDocument
		case "version":
			return KindVersion
		case "message":
			return KindMessage
		case "project":
			return KindProject
		}
	case ":":
		switch prefix {
		case "document":
			return KindDocument
		case "version":
			return KindVersion
		case "commit":
			return KindChangeset
		case "source":
			return KindSource
		case "export":
			return KindExport
		case "attachment":
			return KindAttachment
		case "project":
			return KindProject
		}
	}
	return KindUnknown
}

// unquote removes one pair of surrounding double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// isTrailingBoundary reports whether a reference may end right before pos.
func isTrailingBoundary(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}

	switch c := text[pos]; {
	case c == '\n', isASCIISpace(c), c == ',', c == ']', c == '<':
		return true
	}

	r, size := utf8.DecodeRuneInString(text[pos:])
	if !isPunctRune(r) {
		return false
	}
	if pos+size >= len(text) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(text[pos+size:])
	return !isWordRune(next)
}

func isLeadingByte(c byte) bool {
	switch c {
	case '(', ',', '-', '[', '>':
		return true
	}
	return isASCIISpace(c)
}

func isNameStop(c byte) bool {
	return isASCIISpace(c) || c == '<' || c == '>'
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isPunctRune(r rune) bool {
	if r < utf8.RuneSelf {
		return r > ' ' && r < 0x7f && !isAlnum(r)
	}
	return unicode.IsPunct(r)
}

func isWordRune(r rune) bool {
	return r == '_' || isAlnum(r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
