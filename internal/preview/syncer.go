// Package preview applies file-tree mutations to the shared destination
// repository: publishing a PR's rendered documentation under its preview
// path, or removing that subtree when the PR closes.
package preview

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpreview/internal/config"
	"git.home.luguber.info/inful/docpreview/internal/git"
	"git.home.luguber.info/inful/docpreview/internal/logfields"
)

// File maps one discovered artifact onto its destination location. Target is
// relative to the destination repository root and always starts with the
// preview path.
type File struct {
	Source string
	Target string
}

// Result summarizes a sync operation.
type Result struct {
	Copied  int
	Skipped int
	NoOp    bool
}

// Syncer performs publish and cleanup operations against the destination
// repository. Every invocation clones fresh; concurrent invocations racing on
// push are not retried here (see DESIGN.md).
type Syncer struct {
	cfg   *config.Config
	token string
}

// NewSyncer creates a Syncer for the configured destination repository.
func NewSyncer(cfg *config.Config, token string) *Syncer {
	return &Syncer{cfg: cfg, token: token}
}

func (s *Syncer) signature() git.Signature {
	return git.Signature{
		Name:  s.cfg.CommitAuthor.Name,
		Email: s.cfg.CommitAuthor.Email,
	}
}

// Publish clones the destination into dir, copies the artifact set under the
// preview path, stages exactly that subtree, commits and pushes. Artifacts
// that vanished between discovery and copy are skipped with a warning.
// Byte-identical output yields a no-op result, not an error.
func (s *Syncer) Publish(dir, previewPath, message string, files []File) (*Result, error) {
	dest, err := git.OpenDestination(s.cfg.PreviewCloneURL(), dir, s.cfg.Branch, s.token)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(dest.Root(), filepath.FromSlash(previewPath)), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create preview path: %w", err)
	}

	result := &Result{}
	for _, f := range files {
		target := filepath.Join(dest.Root(), filepath.FromSlash(f.Target))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", f.Target, err)
		}

		if err := copyFile(f.Source, target); err != nil {
			if os.IsNotExist(err) {
				slog.Warn("Artifact vanished before copy, skipping", logfields.File(f.Source))
				result.Skipped++
				continue
			}
			return nil, fmt.Errorf("failed to copy %s: %w", f.Source, err)
		}
		result.Copied++
	}

	if err := dest.Stage(filepath.FromSlash(previewPath)); err != nil {
		return nil, err
	}

	if err := dest.Commit(message, s.signature()); err != nil {
		if errors.Is(err, git.ErrNoChanges) {
			slog.Info("Preview unchanged, nothing to commit", logfields.Path(previewPath))
			result.NoOp = true
			return result, nil
		}
		return nil, err
	}

	if err := dest.Push(); err != nil {
		return nil, err
	}

	slog.Info("Preview published", logfields.Path(previewPath), logfields.Count(result.Copied))
	return result, nil
}

// Cleanup clones the destination into dir and removes the preview subtree.
// A missing subtree is an idempotent no-op success.
func (s *Syncer) Cleanup(dir, previewPath, message string) (*Result, error) {
	dest, err := git.OpenDestination(s.cfg.PreviewCloneURL(), dir, s.cfg.Branch, s.token)
	if err != nil {
		return nil, err
	}

	subtree := filepath.Join(dest.Root(), filepath.FromSlash(previewPath))
	if _, err := os.Stat(subtree); os.IsNotExist(err) {
		slog.Info("Preview path already absent", logfields.Path(previewPath))
		return &Result{NoOp: true}, nil
	}

	if err := os.RemoveAll(subtree); err != nil {
		return nil, fmt.Errorf("failed to remove preview subtree: %w", err)
	}

	if err := dest.StageAll(); err != nil {
		return nil, err
	}

	result := &Result{}
	if err := dest.Commit(message, s.signature()); err != nil {
		if errors.Is(err, git.ErrNoChanges) {
			result.NoOp = true
			return result, nil
		}
		return nil, err
	}

	if err := dest.Push(); err != nil {
		return nil, err
	}

	slog.Info("Preview removed", logfields.Path(previewPath))
	return result, nil
}

// copyFile copies src to dst. The caller handles a vanished source.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
