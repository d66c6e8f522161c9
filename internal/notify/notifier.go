// Package notify posts the preview link back to the pull request as a
// marker-tagged comment, updated in place on re-publish.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"
)

// marker identifies the comment this tool owns on a pull request.
const marker = "<!-- docpreview -->"

// Notifier upserts preview comments on pull requests.
type Notifier struct {
	client  *github.Client
	baseURL string
}

// New creates a Notifier using the provided access token and the public base
// URL under which previews are served.
func New(token, previewBaseURL string) *Notifier {
	var httpClient *http.Client
	if token != "" {
		httpClient = &http.Client{
			Transport: &github.BasicAuthTransport{
				Username: "token",
				Password: token,
			},
		}
	}

	return &Notifier{
		client:  github.NewClient(httpClient),
		baseURL: strings.TrimSuffix(previewBaseURL, "/"),
	}
}

// WithAPIBaseURL points the notifier at a different API endpoint. Used for
// GitHub Enterprise deployments and in tests.
func (n *Notifier) WithAPIBaseURL(apiBaseURL string) (*Notifier, error) {
	client, err := n.client.WithEnterpriseURLs(apiBaseURL, apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to set API base URL: %w", err)
	}
	n.client = client
	return n, nil
}

// PreviewURL returns the public URL for a preview path.
func (n *Notifier) PreviewURL(previewPath string) string {
	return fmt.Sprintf("%s/%s/", n.baseURL, previewPath)
}

// PublishComment creates or updates the preview comment on the pull request.
func (n *Notifier) PublishComment(ctx context.Context, owner, repo string, number int, previewPath string) error {
	body := fmt.Sprintf("%s\nDocumentation preview: %s", marker, n.PreviewURL(previewPath))

	existing, err := n.findComment(ctx, owner, repo, number)
	if err != nil {
		return err
	}

	if existing != nil {
		_, _, err = n.client.Issues.EditComment(ctx, owner, repo, existing.GetID(), &github.IssueComment{
			Body: github.String(body),
		})
		if err != nil {
			return fmt.Errorf("failed to update preview comment: %w", err)
		}
		return nil
	}

	_, _, err = n.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to create preview comment: %w", err)
	}
	return nil
}

// findComment locates the marker-tagged comment, if present.
func (n *Notifier) findComment(ctx context.Context, owner, repo string, number int) (*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := n.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list PR comments: %w", err)
		}

		for _, c := range comments {
			if strings.Contains(c.GetBody(), marker) {
				return c, nil
			}
		}

		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}
