package xref

import (
	"fmt"
	"strings"

	"github.com/yaklabco/goxref/pkg/entity"
)

// WikiLinkMode selects how wiki link URLs are generated.
type WikiLinkMode string

const (
	// WikiLinksNormal produces routed URLs to the wiki page.
	WikiLinksNormal WikiLinkMode = "normal"

	// WikiLinksLocal produces relative "Page.html" URLs, for static exports.
	WikiLinksLocal WikiLinkMode = "local"

	// WikiLinksAnchor produces in-document "#Page" fragments, for single page exports.
	WikiLinksAnchor WikiLinkMode = "anchor"
)

// ParseWikiLinkMode parses a wiki link mode. The empty string selects WikiLinksNormal.
func ParseWikiLinkMode(s string) (WikiLinkMode, error) {
	switch mode := WikiLinkMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "", WikiLinksNormal:
		return WikiLinksNormal, nil
	case WikiLinksLocal, WikiLinksAnchor:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid wiki link mode %q (want normal, local or anchor)", s)
	}
}

// AttachmentContainer is the object being rendered (an issue, a wiki page...)
// when it carries attachments.
type AttachmentContainer interface {
	Attachments() []entity.Attachment
}

// Context carries the per call inputs of a rewrite. The engine never stores it.
type Context struct {
	// Project is the current project; nil when rendering outside a project.
	Project *entity.Project

	// Object is the object being rendered, if it has attachments.
	Object AttachmentContainer

	// Attachments overrides the attachments of Object when non-nil.
	Attachments []entity.Attachment

	// OnlyPath produces host-relative URLs when true.
	OnlyPath bool

	// WikiLinks selects the wiki link URL mode; empty means WikiLinksNormal.
	WikiLinks WikiLinkMode
}

// attachments returns the attachment list in effect and whether one is available.
func (c *Context) attachments() ([]entity.Attachment, bool) {
	if c.Attachments != nil {
		return c.Attachments, true
	}
	if c.Object != nil {
		list := c.Object.Attachments()
		return list, list != nil
	}
	return nil, false
}

// AttachmentList is a plain slice usable as an AttachmentContainer.
type AttachmentList []entity.Attachment

// Attachments implements AttachmentContainer.
func (l AttachmentList) Attachments() []entity.Attachment {
	return l
}
