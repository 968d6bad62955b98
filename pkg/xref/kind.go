package xref

import "strings"

// Kind identifies the family of a recognized reference.
type Kind int

const (
	// KindUnknown is a grammatical match with no resolution rule (e.g. "commit#5").
	KindUnknown Kind = iota
	KindIssue
	KindChangeset
	KindDocument
	KindVersion
	KindMessage
	KindProject
	KindAttachment
	KindSource
	KindExport
	KindWikiLink
	KindImage
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindIssue:      "issue",
	KindChangeset:  "changeset",
	KindDocument:   "document",
	KindVersion:    "version",
	KindMessage:    "message",
	KindProject:    "project",
	KindAttachment: "attachment",
	KindSource:     "source",
	KindExport:     "export",
	KindWikiLink:   "wiki",
	KindImage:      "image",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind parses a kind name as returned by String.
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, true
		}
	}
	return KindUnknown, false
}

// Modifier keys used in ReferenceMatch.Modifiers.
const (
	ModProject  = "project"
	ModPage     = "page"
	ModTitle    = "title"
	ModAnchor   = "anchor"
	ModPath     = "path"
	ModRevision = "rev"
	ModAlt      = "alt"
)

// ReferenceMatch is a reference recognized by one of the passes.
type ReferenceMatch struct {
	Kind Kind

	// Start and End are byte offsets of Raw in the scanned text.
	Start int
	End   int

	// Raw is the full matched text, including the leading character and the
	// escape marker.
	Raw string

	// Leading is the boundary character consumed in front of an object
	// reference ("" at the start of a line).
	Leading string

	// Escaped is true when the reference was prefixed with "!".
	Escaped bool

	// Prefix is the object prefix ("document", "source", ...), empty for bare
	// issue and changeset references.
	Prefix string

	// Separator is "#", "r" or ":" for object references.
	Separator string

	// Identifier is the identifier as written (quotes kept).
	Identifier string

	// Name is Identifier with surrounding double quotes removed.
	Name string

	Modifiers map[string]string
}

// Text returns the reference without its leading character and escape marker.
// Unresolved and escaped object references are rendered as this text.
func (m ReferenceMatch) Text() string {
	return m.Prefix + m.Separator + m.Identifier
}

// Modifier returns the named modifier or "".
func (m ReferenceMatch) Modifier(key string) string {
	if m.Modifiers == nil {
		return ""
	}
	return m.Modifiers[key]
}
