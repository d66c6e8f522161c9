package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T, handler http.Handler) *Notifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n, err := New("tok", "https://previews.example.com/").WithAPIBaseURL(srv.URL + "/api/v3/")
	require.NoError(t, err)
	return n
}

func TestPreviewURL(t *testing.T) {
	n := New("", "https://previews.example.com/")
	assert.Equal(t, "https://previews.example.com/libx/42/", n.PreviewURL("libx/42"))
}

func TestPublishCommentCreates(t *testing.T) {
	var created map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/inful/libx/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[{"id": 1, "body": "unrelated comment"}]`))
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 2}`))
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	n := newTestNotifier(t, mux)
	require.NoError(t, n.PublishComment(context.Background(), "inful", "libx", 42, "libx/42"))

	require.NotNil(t, created)
	assert.Contains(t, created["body"], "<!-- docpreview -->")
	assert.Contains(t, created["body"], "https://previews.example.com/libx/42/")
}

func TestPublishCommentUpdatesExisting(t *testing.T) {
	var edited map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/inful/libx/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"id": 7, "body": "<!-- docpreview -->\nDocumentation preview: old"}]`))
	})
	mux.HandleFunc("/api/v3/repos/inful/libx/issues/comments/7", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&edited))
		_, _ = w.Write([]byte(`{"id": 7}`))
	})

	n := newTestNotifier(t, mux)
	require.NoError(t, n.PublishComment(context.Background(), "inful", "libx", 42, "libx/42"))

	require.NotNil(t, edited)
	assert.Contains(t, edited["body"], "https://previews.example.com/libx/42/")
}

func TestPublishCommentListError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	n := newTestNotifier(t, mux)
	err := n.PublishComment(context.Background(), "inful", "libx", 42, "libx/42")
	require.Error(t, err)
}
