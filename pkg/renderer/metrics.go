package renderer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports job progress to Prometheus. A nil *Metrics records nothing.
type Metrics struct {
	TasksIssued    prometheus.Counter
	TasksSubmitted prometheus.Counter
	TasksAbandoned prometheus.Counter
	PassesMerged   prometheus.Counter
	Connections    *prometheus.CounterVec
	Anomalies      prometheus.Counter
	TaskDuration   prometheus.Histogram
}

// NewMetrics registers the job metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TasksIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "bidi_tasks_issued_total",
			Help: "Tasks handed out to workers, re-issues included",
		}),
		TasksSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "bidi_tasks_submitted_total",
			Help: "Task rasters merged into the job",
		}),
		TasksAbandoned: f.NewCounter(prometheus.CounterOpts{
			Name: "bidi_tasks_abandoned_total",
			Help: "Tasks returned unfinished for re-issue",
		}),
		PassesMerged: f.NewCounter(prometheus.CounterOpts{
			Name: "bidi_passes_merged_total",
			Help: "Eye paths per pixel merged into the job raster",
		}),
		// Labels: "weighted", "contributed", "splatted"
		Connections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bidi_connections_total",
			Help: "Vertex connections by outcome",
		}, []string{"outcome"}),
		Anomalies: f.NewCounter(prometheus.CounterOpts{
			Name: "bidi_numerical_anomalies_total",
			Help: "NaN or negative values rejected during tracing",
		}),
		TaskDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bidi_task_duration_seconds",
			Help:    "Time spent tracing one task",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

func (m *Metrics) issued() {
	if m == nil {
		return
	}
	m.TasksIssued.Inc()
}

func (m *Metrics) abandoned() {
	if m == nil {
		return
	}
	m.TasksAbandoned.Inc()
}

func (m *Metrics) submitted(stats TaskStats) {
	if m == nil {
		return
	}
	m.TasksSubmitted.Inc()
	m.PassesMerged.Add(float64(stats.Passes))
	m.Connections.WithLabelValues("weighted").Add(float64(stats.Connections))
	m.Connections.WithLabelValues("contributed").Add(float64(stats.Contributions))
	m.Connections.WithLabelValues("splatted").Add(float64(stats.Splats))
	m.Anomalies.Add(float64(stats.Anomalies))
	m.TaskDuration.Observe(stats.Elapsed.Seconds())
}
