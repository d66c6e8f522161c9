package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics, written to
// a textfile on Flush.
type PrometheusRecorder struct {
	registry     *prom.Registry
	textfilePath string

	outcomes         *prom.CounterVec
	workflowDuration *prom.HistogramVec
	publishedFiles   prom.Counter
}

// NewPrometheusRecorder constructs and registers the run's metrics.
func NewPrometheusRecorder(textfilePath string) *PrometheusRecorder {
	pr := &PrometheusRecorder{
		registry:     prom.NewRegistry(),
		textfilePath: textfilePath,
	}

	pr.outcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "docpreview",
		Name:      "invocations_total",
		Help:      "Invocation outcomes by terminal status",
	}, []string{"outcome"})
	pr.workflowDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "docpreview",
		Name:      "workflow_duration_seconds",
		Help:      "Duration of publish/cleanup workflows",
		Buckets:   prom.DefBuckets,
	}, []string{"workflow"})
	pr.publishedFiles = prom.NewCounter(prom.CounterOpts{
		Namespace: "docpreview",
		Name:      "published_files_total",
		Help:      "HTML files copied into the preview repository",
	})

	pr.registry.MustRegister(pr.outcomes, pr.workflowDuration, pr.publishedFiles)
	return pr
}

func (p *PrometheusRecorder) IncOutcome(outcome OutcomeLabel) {
	p.outcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveWorkflowDuration(workflow string, d time.Duration) {
	p.workflowDuration.WithLabelValues(workflow).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddPublishedFiles(n int) {
	p.publishedFiles.Add(float64(n))
}

// Flush writes the collected metrics to the configured textfile.
func (p *PrometheusRecorder) Flush() error {
	return prom.WriteToTextfile(p.textfilePath, p.registry)
}
