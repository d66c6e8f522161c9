package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSig = Signature{Name: "docpreview", Email: "docpreview@noreply"}

// initRepoWithMain initializes a repository whose first commit lands on main.
func initRepoWithMain(t *testing.T, dir string) *gogit.Repository {
	t.Helper()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))
	require.NoError(t, repo.Storer.SetReference(head))
	return repo
}

func commitFile(t *testing.T, repo *gogit.Repository, dir, rel, content string) plumbing.Hash {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(rel)
	require.NoError(t, err)

	hash, err := worktree.Commit("add "+rel, &gogit.CommitOptions{
		Author: &object.Signature{Name: "seed", Email: "seed@test", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

// seedBareRepo creates a bare repository with one commit on main, standing in
// for the remote destination repository.
func seedBareRepo(t *testing.T) string {
	t.Helper()
	bareDir := filepath.Join(t.TempDir(), "previews.git")
	bare, err := gogit.PlainInit(bareDir, true)
	require.NoError(t, err)
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))
	require.NoError(t, bare.Storer.SetReference(head))

	seedDir := t.TempDir()
	repo := initRepoWithMain(t, seedDir)
	commitFile(t, repo, seedDir, "README.md", "# previews\n")

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{bareDir}})
	require.NoError(t, err)
	require.NoError(t, repo.Push(&gogit.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{"refs/heads/main:refs/heads/main"},
	}))

	return bareDir
}

// freshClone clones the bare repository for post-push verification.
func freshClone(t *testing.T, bareDir string) string {
	t.Helper()
	dir := t.TempDir()
	_, err := gogit.PlainClone(dir, false, &gogit.CloneOptions{
		URL:           bareDir,
		ReferenceName: plumbing.NewBranchReferenceName("main"),
		SingleBranch:  true,
	})
	require.NoError(t, err)
	return dir
}

func TestDestinationPublishFlow(t *testing.T) {
	bareDir := seedBareRepo(t)

	dest, err := OpenDestination(bareDir, t.TempDir(), "main", "")
	require.NoError(t, err)

	target := filepath.Join(dest.Root(), "libx", "42", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("<html></html>"), 0o644))

	require.NoError(t, dest.Stage("libx/42"))
	require.NoError(t, dest.Commit("Update preview for libx#42 (abc1234)", testSig))
	require.NoError(t, dest.Push())

	verify := freshClone(t, bareDir)
	assert.FileExists(t, filepath.Join(verify, "libx", "42", "index.html"))
	assert.FileExists(t, filepath.Join(verify, "README.md"))
}

func TestDestinationCommitNoChanges(t *testing.T) {
	bareDir := seedBareRepo(t)

	dest, err := OpenDestination(bareDir, t.TempDir(), "main", "")
	require.NoError(t, err)

	err = dest.Commit("Update preview for libx#42 (abc1234)", testSig)
	require.ErrorIs(t, err, ErrNoChanges)

	// A no-op push afterwards is also fine.
	require.NoError(t, dest.Push())
}

func TestDestinationStageAllDeletions(t *testing.T) {
	bareDir := seedBareRepo(t)

	// First publish a subtree.
	dest, err := OpenDestination(bareDir, t.TempDir(), "main", "")
	require.NoError(t, err)
	target := filepath.Join(dest.Root(), "libx", "42", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("<html></html>"), 0o644))
	require.NoError(t, dest.Stage("libx/42"))
	require.NoError(t, dest.Commit("Update preview for libx#42 (abc1234)", testSig))
	require.NoError(t, dest.Push())

	// Then remove it from a fresh clone.
	dest2, err := OpenDestination(bareDir, t.TempDir(), "main", "")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(dest2.Root(), "libx", "42")))
	require.NoError(t, dest2.StageAll())
	require.NoError(t, dest2.Commit("Remove preview for libx#42", testSig))
	require.NoError(t, dest2.Push())

	verify := freshClone(t, bareDir)
	assert.NoFileExists(t, filepath.Join(verify, "libx", "42", "index.html"))
	assert.FileExists(t, filepath.Join(verify, "README.md"))
}

func TestCloneAtCommit(t *testing.T) {
	srcDir := t.TempDir()
	repo := initRepoWithMain(t, srcDir)
	first := commitFile(t, repo, srcDir, "doc/index.adoc", "= v1\n")
	commitFile(t, repo, srcDir, "doc/extra.adoc", "= v2\n")

	client := NewClient("")
	dir := filepath.Join(t.TempDir(), "checkout")
	require.NoError(t, client.CloneAtCommit(srcDir, dir, first.String()))

	assert.FileExists(t, filepath.Join(dir, "doc", "index.adoc"))
	assert.NoFileExists(t, filepath.Join(dir, "doc", "extra.adoc"))
}

func TestCloneAtCommitBadURL(t *testing.T) {
	client := NewClient("")
	err := client.CloneAtCommit(filepath.Join(t.TempDir(), "missing"), t.TempDir(), "")
	require.Error(t, err)
}
