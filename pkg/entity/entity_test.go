package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/goxref/pkg/entity"
)

func TestIssueOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		issue entity.Issue
		want  bool
	}{
		{"no due date", entity.Issue{}, false},
		{"due yesterday", entity.Issue{DueDate: now.AddDate(0, 0, -1)}, true},
		{"due today", entity.Issue{DueDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)}, false},
		{"due tomorrow", entity.Issue{DueDate: now.AddDate(0, 0, 1)}, false},
		{
			"closed and late",
			entity.Issue{DueDate: now.AddDate(0, 0, -10), Status: entity.IssueStatus{Closed: true}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.issue.Overdue(now))
		})
	}
}

func TestIssueCSSClasses(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	open := &entity.Issue{
		Status:   entity.IssueStatus{Position: 1},
		Priority: entity.IssuePriority{Position: 2},
	}
	assert.Equal(t, "issue status-1 priority-2", open.CSSClasses(now))

	closed := &entity.Issue{
		Status:   entity.IssueStatus{Position: 5, Closed: true},
		Priority: entity.IssuePriority{Position: 3},
	}
	assert.Equal(t, "issue status-5 priority-3 closed", closed.CSSClasses(now))

	late := &entity.Issue{
		Status:   entity.IssueStatus{Position: 2},
		Priority: entity.IssuePriority{Position: 4},
		DueDate:  now.AddDate(0, 0, -2),
	}
	assert.Equal(t, "issue status-2 priority-4 overdue", late.CSSClasses(now))
}

func TestMessageRoot(t *testing.T) {
	t.Parallel()

	topic := &entity.Message{ID: 4}
	reply := &entity.Message{ID: 5, ParentID: 4}

	assert.False(t, topic.IsReply())
	assert.Equal(t, 4, topic.RootID())
	assert.True(t, reply.IsReply())
	assert.Equal(t, 4, reply.RootID())
}

func TestProjectString(t *testing.T) {
	t.Parallel()

	var nilProject *entity.Project
	assert.Empty(t, nilProject.String())
	assert.Equal(t, "eCookbook", (&entity.Project{Name: "eCookbook"}).String())
}
