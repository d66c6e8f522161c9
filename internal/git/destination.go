package git

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/docpreview/internal/logfields"
)

// Signature is the commit identity for destination repository commits.
type Signature struct {
	Name  string
	Email string
}

// Destination is a fresh clone of the shared preview repository, scoped to
// one workflow invocation.
type Destination struct {
	dir    string
	branch string
	auth   transport.AuthMethod
	repo   *git.Repository
}

// OpenDestination clones the destination repository's branch into dir.
func OpenDestination(url, dir, branch, token string) (*Destination, error) {
	slog.Debug("Cloning destination repository", logfields.URL(url), slog.String("branch", branch), logfields.Path(dir))

	auth := tokenAuth(url, token)
	repo, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL:           url,
		Auth:          auth,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone destination repository %s: %w", url, err)
	}

	return &Destination{
		dir:    dir,
		branch: branch,
		auth:   auth,
		repo:   repo,
	}, nil
}

// Root returns the checkout directory.
func (d *Destination) Root() string {
	return d.dir
}

// Stage adds the given path (file or subtree) to the index.
func (d *Destination) Stage(path string) error {
	worktree, err := d.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if _, err := worktree.Add(path); err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	return nil
}

// StageAll stages every change in the worktree, deletions included.
func (d *Destination) StageAll() error {
	worktree, err := d.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// Commit records the staged changes. A clean index yields ErrNoChanges.
func (d *Destination) Commit(message string, sig Signature) error {
	worktree, err := d.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  sig.Name,
			Email: sig.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return ErrNoChanges
		}
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("Committed", logfields.Commit(hash.String()[:8]), slog.String("message", message))
	return nil
}

// Push publishes the branch to origin. Already-up-to-date is success.
func (d *Destination) Push() error {
	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", d.branch, d.branch))
	err := d.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       d.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %s: %w", d.branch, err)
	}
	return nil
}
