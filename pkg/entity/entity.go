// Package entity defines the tracker records that inline references point at.
// The types are plain values; lookups live behind the interfaces declared in
// package xref.
package entity

import (
	"strconv"
	"strings"
	"time"
)

// Project is a tracker project.
type Project struct {
	ID         int
	Identifier string
	Name       string

	// HasWiki reports whether the project has a wiki module.
	HasWiki bool

	// HasRepository reports whether the project has a source repository.
	HasRepository bool

	// Archived projects are rendered by name without a link.
	Archived bool
}

// String returns the display name of the project.
func (p *Project) String() string {
	if p == nil {
		return ""
	}
	return p.Name
}

// WikiPage is an existing page of a project wiki.
type WikiPage struct {
	ProjectID int
	Title     string
}

// IssueStatus is the workflow status of an issue.
type IssueStatus struct {
	Name     string
	Position int
	Closed   bool
}

// IssuePriority is the priority of an issue.
type IssuePriority struct {
	Name     string
	Position int
}

// Issue is a tracker issue.
type Issue struct {
	ID        int
	ProjectID int
	Tracker   string
	Subject   string
	Status    IssueStatus
	Priority  IssuePriority

	// DueDate is the zero time when the issue has no due date.
	DueDate time.Time
}

// Overdue reports whether the issue is open and past its due date.
func (i *Issue) Overdue(now time.Time) bool {
	if i.Status.Closed || i.DueDate.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return i.DueDate.Before(today)
}

// CSSClasses returns the space separated classes used to style links to the issue.
func (i *Issue) CSSClasses(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("issue status-")
	sb.WriteString(strconv.Itoa(i.Status.Position))
	sb.WriteString(" priority-")
	sb.WriteString(strconv.Itoa(i.Priority.Position))
	if i.Status.Closed {
		sb.WriteString(" closed")
	}
	if i.Overdue(now) {
		sb.WriteString(" overdue")
	}
	return sb.String()
}

// Changeset is a repository revision.
type Changeset struct {
	ProjectID int

	// Revision is the identifier used in URLs (a number for centralized
	// repositories, the commit hash for git).
	Revision string

	// Scmid is the SCM specific identifier used for prefix lookups.
	Scmid string

	Comments string
}

// Document is a project document.
type Document struct {
	ID        int
	ProjectID int
	Title     string
}

// Version is a project version (milestone).
type Version struct {
	ID        int
	ProjectID int
	Name      string
}

// Message is a forum message. Topics have no parent; replies point at their topic.
type Message struct {
	ID       int
	BoardID  int
	ParentID int
	Subject  string
}

// IsReply reports whether the message answers a topic.
func (m *Message) IsReply() bool {
	return m.ParentID != 0
}

// RootID returns the id of the topic the message belongs to.
func (m *Message) RootID() int {
	if m.ParentID != 0 {
		return m.ParentID
	}
	return m.ID
}

// Attachment is a file attached to an issue, wiki page or other container.
type Attachment struct {
	ID          int
	Filename    string
	Description string
	CreatedOn   time.Time
}
