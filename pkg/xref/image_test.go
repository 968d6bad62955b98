package xref_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/pkg/entity"
	"github.com/yaklabco/goxref/pkg/xref"
)

func rewriteImages(t *testing.T, text string, attachments []entity.Attachment) string {
	t.Helper()

	out, err := newTestResolver(t, newFakeCatalog()).Rewrite(context.Background(), text, &xref.Context{
		Project:     ecookbook,
		OnlyPath:    true,
		Attachments: attachments,
	})
	require.NoError(t, err)
	return out
}

func TestRewriteInlineImages(t *testing.T) {
	t.Parallel()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	attachments := []entity.Attachment{
		{ID: 11, Filename: "Logo.PNG", Description: `Our "logo"`, CreatedOn: newer},
		{ID: 10, Filename: "logo.png", Description: "old logo", CreatedOn: older},
		{ID: 12, Filename: "plain.gif", CreatedOn: older},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "most recent case-insensitive match with description",
			text: `<img src="logo.png" />`,
			want: `<img src="/attachments/download/11/Logo.PNG" title="Our logo" alt="Our logo" />`,
		},
		{
			name: "blank alt replaced by description",
			text: `<img src="LOGO.png" alt="" />`,
			want: `<img src="/attachments/download/11/Logo.PNG" title="Our logo" alt="Our logo" />`,
		},
		{
			name: "explicit alt kept",
			text: `<img src="logo.png"  alt="mine" />`,
			want: `<img src="/attachments/download/11/Logo.PNG"  alt="mine" />`,
		},
		{
			name: "no description keeps source",
			text: `<img src="plain.gif" alt="x">`,
			want: `<img src="/attachments/download/12/plain.gif" alt="x">`,
		},
		{
			name: "no description no alt",
			text: `<img src="plain.gif">`,
			want: `<img src="/attachments/download/12/plain.gif">`,
		},
		{
			name: "unknown file is unchanged",
			text: `<img src="missing.png" alt="">`,
			want: `<img src="missing.png" alt="">`,
		},
		{
			name: "paths are not attachments",
			text: `<img src="images/logo.png">`,
			want: `<img src="images/logo.png">`,
		},
		{
			name: "other extensions are ignored",
			text: `<img src="logo.svg">`,
			want: `<img src="logo.svg">`,
		},
		{
			name: "inside pre is untouched",
			text: `<pre><img src="logo.png"></pre>`,
			want: `<pre><img src="logo.png"></pre>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rewriteImages(t, tt.text, attachments))
		})
	}
}

func TestRewriteInlineImagesTieBreak(t *testing.T) {
	t.Parallel()

	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	attachments := []entity.Attachment{
		{ID: 20, Filename: "shot.jpg", CreatedOn: same},
		{ID: 21, Filename: "shot.jpg", CreatedOn: same},
	}

	out := rewriteImages(t, `<img src="shot.jpg">`, attachments)
	assert.Equal(t, `<img src="/attachments/download/21/shot.jpg">`, out)
}

func TestRewriteInlineImagesWithoutAttachments(t *testing.T) {
	t.Parallel()

	text := `<img src="logo.png">`
	assert.Equal(t, text, rewriteImages(t, text, nil))
}

func TestRewriteInlineImagesFromObject(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, newFakeCatalog())
	out, err := resolver.Rewrite(context.Background(), `<img src="a.jpeg">`, &xref.Context{
		OnlyPath: true,
		Object:   xref.AttachmentList{{ID: 3, Filename: "a.jpeg"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `<img src="/attachments/download/3/a.jpeg">`, out)
}

func TestRewriteInlineImagesOverrideWinsOverObject(t *testing.T) {
	t.Parallel()

	resolver := newTestResolver(t, newFakeCatalog())
	out, err := resolver.Rewrite(context.Background(), `<img src="a.jpeg">`, &xref.Context{
		OnlyPath:    true,
		Object:      xref.AttachmentList{{ID: 3, Filename: "a.jpeg"}},
		Attachments: []entity.Attachment{},
	})
	require.NoError(t, err)
	assert.Equal(t, `<img src="a.jpeg">`, out)
}
