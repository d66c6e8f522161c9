package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpreview/internal/errors"
)

const validPayload = `{
	"action": "opened",
	"repository": {"name": "libx", "full_name": "inful/libx", "owner": {"login": "inful"}},
	"pull_request": {"number": 42, "head": {"sha": "abc1234def5678900000000000000000000000ff"}},
	"organization": {"login": "inful"}
}`

func TestParseValid(t *testing.T) {
	ev, err := Parse([]byte(validPayload))
	require.NoError(t, err)

	assert.Equal(t, "opened", ev.Action)
	assert.Equal(t, "libx", ev.Repository.Name)
	assert.Equal(t, "inful/libx", ev.Repository.FullName)
	assert.Equal(t, 42, ev.PullRequest.Number)
	assert.Equal(t, "abc1234", ev.ShortSHA())
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"not json", `{`},
		{"missing action", `{"repository": {"name": "libx"}, "pull_request": {"number": 1}}`},
		{"missing repository", `{"action": "opened", "pull_request": {"number": 1}}`},
		{"missing pull_request", `{"action": "opened", "repository": {"name": "libx"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.payload))
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryValidation), "expected validation error, got %v", err)
		})
	}
}

func TestRoute(t *testing.T) {
	cases := []struct {
		action string
		want   Workflow
	}{
		{"opened", WorkflowPublish},
		{"synchronize", WorkflowPublish},
		{"closed", WorkflowCleanup},
		{"merged", WorkflowCleanup},
		{"labeled", WorkflowNone},
		{"review_requested", WorkflowNone},
	}

	for _, tc := range cases {
		ev := &Event{Action: tc.action}
		assert.Equal(t, tc.want, ev.Route(), "action %s", tc.action)
	}
}

func TestShortSHA(t *testing.T) {
	ev := &Event{PullRequest: &PullRequest{Head: Ref{SHA: "abc"}}}
	assert.Equal(t, "abc", ev.ShortSHA())
}

func TestResolvePayload(t *testing.T) {
	t.Run("literal argument", func(t *testing.T) {
		raw, err := ResolvePayload(`{"action":"opened"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"action":"opened"}`, string(raw))
	})

	t.Run("file argument", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(path, []byte(validPayload), 0o644))

		raw, err := ResolvePayload("@" + path)
		require.NoError(t, err)
		assert.JSONEq(t, validPayload, string(raw))
	})

	t.Run("environment fallback", func(t *testing.T) {
		t.Setenv(EnvPayload, validPayload)
		raw, err := ResolvePayload("")
		require.NoError(t, err)
		assert.JSONEq(t, validPayload, string(raw))
	})

	t.Run("nothing provided", func(t *testing.T) {
		t.Setenv(EnvPayload, "")
		os.Unsetenv(EnvPayload)
		_, err := ResolvePayload("")
		require.Error(t, err)
	})
}
