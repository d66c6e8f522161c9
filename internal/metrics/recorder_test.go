package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncOutcome(OutcomePublished)
	r.ObserveWorkflowDuration("publish", time.Second)
	r.AddPublishedFiles(3)
	require.NoError(t, r.Flush())
}

func TestPrometheusRecorderTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docpreview.prom")
	r := NewPrometheusRecorder(path)

	r.IncOutcome(OutcomePublished)
	r.IncOutcome(OutcomeFailed)
	r.ObserveWorkflowDuration("publish", 1500*time.Millisecond)
	r.AddPublishedFiles(12)
	require.NoError(t, r.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `docpreview_invocations_total{outcome="published"} 1`)
	assert.Contains(t, out, `docpreview_invocations_total{outcome="failed"} 1`)
	assert.Contains(t, out, "docpreview_published_files_total 12")
	assert.Contains(t, out, "docpreview_workflow_duration_seconds")
}

func TestPrometheusRecorderFlushError(t *testing.T) {
	r := NewPrometheusRecorder(filepath.Join(t.TempDir(), "missing", "nested", "docpreview.prom"))
	r.IncOutcome(OutcomeSkipped)
	require.Error(t, r.Flush())
}
