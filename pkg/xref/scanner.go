package xref

import (
	"regexp"
	"strings"
)

// protectedTagPattern matches an opening or closing pre/code tag. The name
// must be followed by whitespace, "/" or ">" so that <prefix> or <codec> do not count.
var protectedTagPattern = regexp.MustCompile(`(?i)<(/?)(pre|code)(?:[\s/][^>]*)?>`)

// Chunk is a contiguous piece of scanned text.
type Chunk struct {
	Content string

	// Protected chunks lie inside pre/code elements (or are tags themselves)
	// and must not be rewritten.
	Protected bool

	// Offset is the byte offset of Content in the scanned text.
	Offset int
}

// TagStack holds the lower-cased names of the currently open protected elements,
// outermost first.
type TagStack []string

// Push opens an element.
func (s *TagStack) Push(name string) {
	*s = append(*s, name)
}

// Pop closes the innermost element if it is named name. Mismatched closers
// are ignored.
func (s *TagStack) Pop(name string) bool {
	n := len(*s)
	if n == 0 || (*s)[n-1] != name {
		return false
	}
	*s = (*s)[:n-1]
	return true
}

// Empty reports whether no protected element is open.
func (s TagStack) Empty() bool {
	return len(s) == 0
}

// Closers returns the closing tags for every open element, innermost first.
func (s TagStack) Closers() string {
	var sb strings.Builder
	for i := len(s) - 1; i >= 0; i-- {
		sb.WriteString("</")
		sb.WriteString(s[i])
		sb.WriteString(">")
	}
	return sb.String()
}

type tagMatch struct {
	start, end int
	name       string
	closing    bool
}

// Scanner partitions text into open and protected chunks.
type Scanner struct {
	src   string
	pos   int
	stack TagStack

	// next caches the first tag at or after nextFrom.
	next      tagMatch
	nextFound bool
	nextFrom  int
	nextValid bool
}

// NewScanner returns a scanner over text.
func NewScanner(text string) *Scanner {
	return &Scanner{src: text}
}

// Next returns the next chunk, or false once the input is exhausted.
// Consecutive protected pieces (tags and the text between them) are returned
// as a single chunk.
func (s *Scanner) Next() (Chunk, bool) {
	if s.pos >= len(s.src) {
		return Chunk{}, false
	}

	start := s.pos
	if s.stack.Empty() {
		tag, ok := s.peek()
		if !ok {
			s.pos = len(s.src)
			return Chunk{Content: s.src[start:], Offset: start}, true
		}
		if tag.start > start {
			s.pos = tag.start
			return Chunk{Content: s.src[start:tag.start], Offset: start}, true
		}
	}

	for s.pos < len(s.src) {
		tag, ok := s.peek()
		if !ok {
			if !s.stack.Empty() {
				s.pos = len(s.src)
			}
			break
		}
		if s.stack.Empty() && tag.start > s.pos {
			break
		}
		s.apply(tag)
		s.pos = tag.end
	}

	return Chunk{Content: s.src[start:s.pos], Protected: true, Offset: start}, true
}

// Unclosed returns the elements still open at the current position. After the
// last chunk it lists the elements that were never closed.
func (s *Scanner) Unclosed() TagStack {
	out := make(TagStack, len(s.stack))
	copy(out, s.stack)
	return out
}

func (s *Scanner) apply(tag tagMatch) {
	if tag.closing {
		s.stack.Pop(tag.name)
		return
	}
	s.stack.Push(tag.name)
}

func (s *Scanner) peek() (tagMatch, bool) {
	if s.nextValid && s.nextFrom == s.pos {
		return s.next, s.nextFound
	}
	s.nextFrom = s.pos
	s.nextValid = true

	loc := protectedTagPattern.FindStringSubmatchIndex(s.src[s.pos:])
	if loc == nil {
		s.nextFound = false
		return tagMatch{}, false
	}
	s.next = tagMatch{
		start:   s.pos + loc[0],
		end:     s.pos + loc[1],
		closing: loc[3] > loc[2],
		name:    strings.ToLower(s.src[s.pos+loc[4] : s.pos+loc[5]]),
	}
	s.nextFound = true
	return s.next, true
}

// Scan returns every chunk of text in order. Concatenating the Content of
// the chunks reproduces text.
func Scan(text string) []Chunk {
	var chunks []Chunk
	sc := NewScanner(text)
	for {
		chunk, ok := sc.Next()
		if !ok {
			return chunks
		}
		chunks = append(chunks, chunk)
	}
}

// RewriteOpen applies fn to every open chunk of text and reassembles the
// result. Protected chunks are copied verbatim and elements left open at the
// end of the input are closed, innermost first.
func RewriteOpen(text string, fn func(chunk Chunk) (string, error)) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	sc := NewScanner(text)
	for {
		chunk, ok := sc.Next()
		if !ok {
			break
		}
		if chunk.Protected {
			out.WriteString(chunk.Content)
			continue
		}
		rewritten, err := fn(chunk)
		if err != nil {
			return "", err
		}
		out.WriteString(rewritten)
	}
	out.WriteString(sc.Unclosed().Closers())

	return out.String(), nil
}
