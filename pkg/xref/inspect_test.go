package xref_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/pkg/xref"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, newFakeCatalog())
	text := "#1 #99 [[Another page]] !r1 <pre>#2</pre> project#4"

	refs, err := resolver.Inspect(context.Background(), text, &xref.Context{Project: ecookbook, OnlyPath: true})
	require.NoError(t, err)
	require.Len(t, refs, 5)

	assert.Equal(t, xref.KindIssue, refs[0].Kind)
	assert.True(t, refs[0].Resolved)
	assert.Equal(t, "/issues/1", refs[0].Href)
	assert.Equal(t, "Cannot print recipes (New)", refs[0].Title)

	assert.Equal(t, " #99", refs[1].Raw)
	assert.False(t, refs[1].Resolved)

	assert.Equal(t, xref.KindWikiLink, refs[2].Kind)
	assert.True(t, refs[2].Resolved)
	assert.Equal(t, "wiki-page", refs[2].Class)
	assert.Equal(t, 7, refs[2].Start)

	assert.Equal(t, xref.KindChangeset, refs[3].Kind)
	assert.True(t, refs[3].Escaped)
	assert.False(t, refs[3].Resolved)

	assert.Equal(t, xref.KindProject, refs[4].Kind)
	assert.True(t, refs[4].Resolved)
	assert.Empty(t, refs[4].Href)

	for _, ref := range refs {
		assert.Equal(t, ref.Raw, text[ref.Start:ref.End])
	}
}

func TestInspectPropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	catalog := newFakeCatalog()
	catalog.err = boom

	_, err := newTestResolver(t, catalog).Inspect(context.Background(), "#1", nil)
	require.ErrorIs(t, err, boom)
}

func TestLineColumn(t *testing.T) {
	t.Parallel()

	text := "first\nsécond #1\n"
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{5, 1, 6},
		{6, 2, 1},
		{len("first\nsécond "), 2, 8},
		{-4, 1, 1},
		{1000, 3, 1},
	}

	for _, tt := range tests {
		line, col := xref.LineColumn(text, tt.offset)
		assert.Equal(t, tt.line, line, "line of offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "column of offset %d", tt.offset)
	}
}
