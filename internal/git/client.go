package git

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/docpreview/internal/logfields"
)

// Client handles read-only Git operations against source repositories.
type Client struct {
	token string
}

// NewClient creates a new Git client. An empty token means anonymous access.
func NewClient(token string) *Client {
	return &Client{token: token}
}

// CloneAtCommit clones a repository into dir and checks out the given commit.
// An empty sha leaves the default branch head checked out.
func (c *Client) CloneAtCommit(url, dir, sha string) error {
	slog.Debug("Cloning source repository", logfields.URL(url), logfields.Commit(sha), logfields.Path(dir))

	repo, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL:  url,
		Auth: tokenAuth(url, c.token),
	})
	if err != nil {
		return fmt.Errorf("failed to clone repository %s: %w", url, err)
	}

	if sha != "" {
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
		if err := worktree.Checkout(&git.CheckoutOptions{
			Hash:  plumbing.NewHash(sha),
			Force: true,
		}); err != nil {
			return fmt.Errorf("failed to checkout commit %s: %w", sha, err)
		}
	}

	slog.Info("Source repository cloned", logfields.URL(url), logfields.Commit(shortHash(sha)), logfields.Path(dir))
	return nil
}

// tokenAuth builds HTTP basic auth from a token, the way forges expect it.
// BasicAuth only applies to http(s) endpoints; local and ssh URLs get none.
func tokenAuth(url, token string) transport.AuthMethod {
	if token == "" || !strings.HasPrefix(url, "http") {
		return nil
	}
	return &http.BasicAuth{
		Username: "token", // GitHub/GitLab use "token" as username
		Password: token,
	}
}

func shortHash(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
