package xref

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/yaklabco/goxref/internal/logging"
	"github.com/yaklabco/goxref/pkg/entity"
)

// Resolver rewrites references into links. It holds no per call state and is
// safe for concurrent use when its collaborators are.
type Resolver struct {
	catalog Catalog
	urls    URLBuilder
	now     func() time.Time
	passes  []pass
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the clock used to flag overdue issues.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a resolver backed by catalog for lookups and urls for link targets.
func New(catalog Catalog, urls URLBuilder, opts ...Option) *Resolver {
	r := &Resolver{
		catalog: catalog,
		urls:    urls,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Order matters: each pass sees the output of the previous one.
	r.passes = []pass{
		{kind: KindImage, lex: lexInlineImages, resolve: r.resolveInlineImage},
		{kind: KindWikiLink, lex: lexWikiLinks, resolve: r.resolveWikiLink},
		{kind: KindUnknown, lex: lexObjectRefs, resolve: r.resolveObjectRef},
	}

	return r
}

// pass recognizes one family of references and substitutes them.
type pass struct {
	// kind is informational; the object pass produces several kinds.
	kind    Kind
	lex     func(text string) []ReferenceMatch
	resolve func(ctx context.Context, m ReferenceMatch, sc *scope) (resolution, error)
}

// resolution is the outcome for a single match.
type resolution struct {
	// replacement is written in place of the match.
	replacement string

	// target is nil when the reference could not be resolved.
	target *link
}

// scope is the state of a single Rewrite or Inspect call.
type scope struct {
	rc *Context

	recent       []entity.Attachment
	recentLoaded bool
}

func newScope(rc *Context) *scope {
	if rc == nil {
		rc = &Context{}
	}
	return &scope{rc: rc}
}

// recentAttachments returns the attachments in effect, most recent first.
// Attachments created at the same time keep the reverse of their input order.
func (s *scope) recentAttachments() ([]entity.Attachment, bool) {
	list, ok := s.rc.attachments()
	if !ok {
		return nil, false
	}
	if !s.recentLoaded {
		s.recent = slices.Clone(list)
		slices.SortStableFunc(s.recent, func(a, b entity.Attachment) int {
			return a.CreatedOn.Compare(b.CreatedOn)
		})
		slices.Reverse(s.recent)
		s.recentLoaded = true
	}
	return s.recent, true
}

// Rewrite returns text with every resolvable reference outside pre/code
// elements replaced by a link.
func (r *Resolver) Rewrite(ctx context.Context, text string, rc *Context) (string, error) {
	sc := newScope(rc)
	return RewriteOpen(text, func(chunk Chunk) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return r.rewriteChunk(ctx, chunk.Content, sc)
	})
}

func (r *Resolver) rewriteChunk(ctx context.Context, text string, sc *scope) (string, error) {
	var err error
	for _, p := range r.passes {
		text, err = r.apply(ctx, p, text, sc)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

func (r *Resolver) apply(ctx context.Context, p pass, text string, sc *scope) (string, error) {
	matches := p.lex(text)
	if len(matches) == 0 {
		return text, nil
	}

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, m := range matches {
		res, err := p.resolve(ctx, m, sc)
		if err != nil {
			logging.FromContext(ctx).Debug("reference lookup failed",
				logging.FieldKind, m.Kind.String(),
				logging.FieldReference, m.Raw,
				logging.FieldError, err)
			return "", fmt.Errorf("resolve %s reference %q: %w", m.Kind, m.Raw, err)
		}
		if res.target == nil && !m.Escaped {
			logging.FromContext(ctx).Debug("reference unresolved",
				logging.FieldKind, m.Kind.String(),
				logging.FieldReference, m.Raw)
		}
		out.WriteString(text[last:m.Start])
		out.WriteString(res.replacement)
		last = m.End
	}
	out.WriteString(text[last:])

	return out.String(), nil
}

// unresolved leaves the match as written.
func unresolved(m ReferenceMatch) resolution {
	return resolution{replacement: m.Raw}
}
