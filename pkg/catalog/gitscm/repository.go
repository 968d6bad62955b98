// Package gitscm looks up changesets in a local git repository.
//
// Git has no revision numbers, so numbered revisions (r1, r2, ...) count the
// commits on the first-parent history of HEAD, oldest first, starting at 1.
// Prefix lookups match the hexadecimal commit hash.
package gitscm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/yaklabco/goxref/pkg/entity"
)

// minPrefixLength is the shortest hash prefix accepted by FindByScmidPrefix.
const minPrefixLength = 4

// Repository is a read-only view of a git repository. It is safe for
// concurrent use.
type Repository struct {
	path      string
	projectID int

	mu      sync.Mutex
	repo    *git.Repository
	history []plumbing.Hash
	loaded  bool
}

// Open opens the repository at path on behalf of project projectID.
func Open(path string, projectID int) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("open repo %s: %w", path, err)
	}
	return &Repository{path: path, projectID: projectID, repo: repo}, nil
}

// Path returns the path the repository was opened from.
func (r *Repository) Path() string {
	return r.path
}

// FindByRevision returns the changeset with the given revision number.
func (r *Repository) FindByRevision(ctx context.Context, revision string) (*entity.Changeset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(revision)
	if err != nil || n < 1 {
		return nil, nil //nolint:nilnil // Not a revision number.
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history, err := r.firstParentHistory()
	if err != nil {
		return nil, err
	}
	if n > len(history) {
		return nil, nil //nolint:nilnil // No such revision.
	}

	commit, err := r.repo.CommitObject(history[n-1])
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", history[n-1], err)
	}
	return r.changeset(commit), nil
}

// FindByScmidPrefix returns the first commit reachable from HEAD whose hash
// starts with prefix.
func (r *Repository) FindByScmidPrefix(ctx context.Context, prefix string) (*entity.Changeset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix = strings.ToLower(prefix)
	if len(prefix) < minPrefixLength || !isHex(prefix) {
		return nil, nil //nolint:nilnil // Not a hash prefix.
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil //nolint:nilnil // Empty repository.
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	var found *object.Commit
	err = iter.ForEach(func(commit *object.Commit) error {
		if strings.HasPrefix(commit.Hash.String(), prefix) {
			found = commit
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	if found == nil {
		return nil, nil //nolint:nilnil // No match.
	}
	return r.changeset(found), nil
}

// firstParentHistory returns the first-parent chain of HEAD, oldest first.
// The caller holds r.mu.
func (r *Repository) firstParentHistory() ([]plumbing.Hash, error) {
	if r.loaded {
		return r.history, nil
	}

	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			r.loaded = true
			return nil, nil
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", head.Hash(), err)
	}

	var history []plumbing.Hash
	for {
		history = append(history, commit.Hash)
		if commit.NumParents() == 0 {
			break
		}
		commit, err = commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("read parent of %s: %w", history[len(history)-1], err)
		}
	}

	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	r.history = history
	r.loaded = true
	return history, nil
}

func (r *Repository) changeset(commit *object.Commit) *entity.Changeset {
	hash := commit.Hash.String()
	return &entity.Changeset{
		ProjectID: r.projectID,
		Revision:  hash,
		Scmid:     hash,
		Comments:  strings.TrimRight(commit.Message, "\n"),
	}
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
