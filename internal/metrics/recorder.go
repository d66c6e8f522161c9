// Package metrics provides observability hooks for workflow runs.
//
// The default NoopRecorder does nothing, so components never need nil checks.
// When a textfile path is configured, PrometheusRecorder collects the run's
// metrics and writes them in Prometheus text format on Flush, suitable for
// node_exporter's textfile collector (the natural sink for a one-shot job).
package metrics

import "time"

// OutcomeLabel enumerates terminal invocation outcomes.
type OutcomeLabel string

const (
	OutcomePublished OutcomeLabel = "published"
	OutcomeCleaned   OutcomeLabel = "cleaned"
	OutcomeNoOp      OutcomeLabel = "noop"
	OutcomeSkipped   OutcomeLabel = "skipped"
	OutcomeFailed    OutcomeLabel = "failed"
)

// Recorder defines observability hooks for workflow metrics.
type Recorder interface {
	IncOutcome(outcome OutcomeLabel)
	ObserveWorkflowDuration(workflow string, d time.Duration)
	AddPublishedFiles(n int)
	Flush() error
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncOutcome(OutcomeLabel)                      {}
func (NoopRecorder) ObserveWorkflowDuration(string, time.Duration) {}
func (NoopRecorder) AddPublishedFiles(int)                        {}
func (NoopRecorder) Flush() error                                 { return nil }
