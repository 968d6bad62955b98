package gitscm_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxref/pkg/catalog/gitscm"
)

// initRepo creates a repository with one commit per message and returns the
// commit hashes in order.
func initRepo(t *testing.T, messages ...string) (string, []plumbing.Hash) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hashes := make([]plumbing.Hash, 0, len(messages))
	for i, msg := range messages {
		name := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(name, []byte(msg), 0o644))
		_, err := worktree.Add("file.txt")
		require.NoError(t, err)

		hash, err := worktree.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com", When: when.Add(time.Duration(i) * time.Minute)},
		})
		require.NoError(t, err)
		hashes = append(hashes, hash)
	}

	return dir, hashes
}

func TestFindByRevision(t *testing.T) {
	t.Parallel()

	dir, hashes := initRepo(t, "first commit\n", "second commit\n\nwith body\n", "third")
	repo, err := gitscm.Open(dir, 7)
	require.NoError(t, err)

	ctx := context.Background()

	cs, err := repo.FindByRevision(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, hashes[0].String(), cs.Revision)
	assert.Equal(t, hashes[0].String(), cs.Scmid)
	assert.Equal(t, "first commit", cs.Comments)
	assert.Equal(t, 7, cs.ProjectID)

	cs, err = repo.FindByRevision(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, "second commit\n\nwith body", cs.Comments)

	for _, rev := range []string{"0", "4", "abc"} {
		cs, err = repo.FindByRevision(ctx, rev)
		require.NoError(t, err)
		assert.Nil(t, cs, rev)
	}
}

func TestFindByScmidPrefix(t *testing.T) {
	t.Parallel()

	dir, hashes := initRepo(t, "one", "two")
	repo, err := gitscm.Open(dir, 1)
	require.NoError(t, err)

	ctx := context.Background()
	prefix := hashes[0].String()[:8]

	cs, err := repo.FindByScmidPrefix(ctx, prefix)
	require.NoError(t, err)
	require.NotNil(t, cs)
	assert.Equal(t, hashes[0].String(), cs.Revision)

	cs, err = repo.FindByScmidPrefix(ctx, "ABC")
	require.NoError(t, err)
	assert.Nil(t, cs, "too short")

	cs, err = repo.FindByScmidPrefix(ctx, "master")
	require.NoError(t, err)
	assert.Nil(t, cs, "branch names are not hashes")
}

func TestEmptyRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	repo, err := gitscm.Open(dir, 1)
	require.NoError(t, err)

	cs, err := repo.FindByRevision(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, cs)

	cs, err = repo.FindByScmidPrefix(context.Background(), "abcd")
	require.NoError(t, err)
	assert.Nil(t, cs)
}

func TestOpenMissing(t *testing.T) {
	t.Parallel()

	_, err := gitscm.Open(filepath.Join(t.TempDir(), "missing"), 1)
	require.Error(t, err)
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	dir, _ := initRepo(t, "one")
	repo, err := gitscm.Open(dir, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.FindByRevision(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)
}
