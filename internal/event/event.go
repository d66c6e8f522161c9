// Package event parses and routes pull-request lifecycle events.
package event

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"git.home.luguber.info/inful/docpreview/internal/errors"
)

// EnvPayload is the environment variable consulted for the event payload when
// none is passed on the command line.
const EnvPayload = "DOCPREVIEW_EVENT"

// Actions understood by the router. Any other action is skipped.
const (
	ActionOpened      = "opened"
	ActionSynchronize = "synchronize"
	ActionClosed      = "closed"
	ActionMerged      = "merged"
)

// Workflow is the routing decision for an event.
type Workflow int

const (
	WorkflowNone Workflow = iota
	WorkflowPublish
	WorkflowCleanup
)

func (w Workflow) String() string {
	switch w {
	case WorkflowPublish:
		return "publish"
	case WorkflowCleanup:
		return "cleanup"
	default:
		return "none"
	}
}

// Event is a pull_request lifecycle event. Constructed once per invocation
// and immutable afterwards.
type Event struct {
	Action       string        `json:"action"`
	Repository   *Repository   `json:"repository"`
	PullRequest  *PullRequest  `json:"pull_request"`
	Organization *Organization `json:"organization,omitempty"`
}

// Repository contains source repository metadata.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    Owner  `json:"owner"`
}

// Slug returns the owner/name path of the repository, preferring the
// payload's full_name when present.
func (r *Repository) Slug() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Owner.Login + "/" + r.Name
}

// Owner represents the repository owner.
type Owner struct {
	Login string `json:"login"`
}

// PullRequest contains PR metadata.
type PullRequest struct {
	Number int `json:"number"`
	Head   Ref `json:"head"`
}

// Ref represents a git reference.
type Ref struct {
	SHA string `json:"sha"`
}

// Organization represents the owning organization, when present.
type Organization struct {
	Login string `json:"login"`
}

// Parse decodes and validates a raw event payload. Absent action, repository
// or pull_request fields are fatal validation errors.
func Parse(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, errors.SeverityFatal, "event payload is not valid JSON")
	}

	if ev.Action == "" {
		return nil, errors.ValidationFailed("action", "missing or empty")
	}
	if ev.Repository == nil {
		return nil, errors.ValidationFailed("repository", "missing")
	}
	if ev.PullRequest == nil {
		return nil, errors.ValidationFailed("pull_request", "missing")
	}

	return &ev, nil
}

// Route maps the event action onto one of the two terminal workflows. Unknown
// actions map to WorkflowNone, an expected non-error terminal state.
func (e *Event) Route() Workflow {
	switch e.Action {
	case ActionOpened, ActionSynchronize:
		return WorkflowPublish
	case ActionClosed, ActionMerged:
		return WorkflowCleanup
	default:
		return WorkflowNone
	}
}

// ShortSHA returns the abbreviated head commit hash for commit messages.
func (e *Event) ShortSHA() string {
	sha := e.PullRequest.Head.SHA
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// ResolvePayload returns the raw event payload. A non-empty argument wins:
// "@path" reads a file, anything else is taken as the literal JSON payload.
// Otherwise the DOCPREVIEW_EVENT environment variable is consulted.
func ResolvePayload(arg string) ([]byte, error) {
	if arg != "" {
		if strings.HasPrefix(arg, "@") {
			data, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
			if err != nil {
				return nil, fmt.Errorf("failed to read event payload file: %w", err)
			}
			return data, nil
		}
		return []byte(arg), nil
	}

	if payload := os.Getenv(EnvPayload); payload != "" {
		return []byte(payload), nil
	}

	return nil, fmt.Errorf("no event payload: pass one as an argument or set %s", EnvPayload)
}
