package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SchedulerMetrics counts background refresh job outcomes.
type SchedulerMetrics struct {
	runs     *prometheus.CounterVec
	errors   *prometheus.CounterVec
	timeouts *prometheus.CounterVec
}

func NewSchedulerMetrics(cfg Config) *SchedulerMetrics {
	labels := cfg.constLabels()
	return &SchedulerMetrics{
		runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "homebuyer_scheduler_job_runs_total",
			Help:        "Scheduler job runs by job name.",
			ConstLabels: labels,
		}, []string{"job"}),
		errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "homebuyer_scheduler_job_errors_total",
			Help:        "Scheduler job errors by job name and reason.",
			ConstLabels: labels,
		}, []string{"job", "reason"}),
		timeouts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "homebuyer_scheduler_job_timeouts_total",
			Help:        "Scheduler jobs cancelled by their deadline.",
			ConstLabels: labels,
		}, []string{"job"}),
	}
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) IncJobError(job, reason string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(job, reason).Inc()
}

func (m *SchedulerMetrics) IncJobTimeout(job string) {
	if m == nil {
		return
	}
	m.timeouts.WithLabelValues(job).Inc()
}
