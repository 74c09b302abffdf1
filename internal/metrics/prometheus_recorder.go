package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "alacarte"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg              *prom.Registry
	stageDuration    *prom.HistogramVec
	stageResults     *prom.CounterVec
	runDuration      prom.Histogram
	runOutcome       *prom.CounterVec
	subsetDuration   *prom.HistogramVec
	subsetResults    *prom.CounterVec
	buildConcurrency prom.Gauge
	artifacts        prom.Counter
}

// NewPrometheusRecorder constructs and registers the release metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of release pipeline stages",
			Buckets:   prom.ExponentialBuckets(0.05, 2, 14),
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total release run duration",
			Buckets:   prom.ExponentialBuckets(1, 2, 12),
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Release runs by final status",
		}, []string{"result"}),
		subsetDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "subset_build_duration_seconds",
			Help:      "Duration of individual subset package builds",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		subsetResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "subset_build_results_total",
			Help:      "Subset package builds by outcome",
		}, []string{"result"}),
		buildConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "build_concurrency",
			Help:      "Worker pool size used for subset builds",
		}),
		artifacts: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_total",
			Help:      "Artifacts moved into the output directory",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.runDuration, pr.runOutcome,
		pr.subsetDuration, pr.subsetResults, pr.buildConcurrency, pr.artifacts)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(result ResultLabel) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveSubsetDuration(d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.subsetDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSubsetResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.subsetResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetBuildConcurrency(n int) {
	if p == nil {
		return
	}
	p.buildConcurrency.Set(float64(n))
}

func (p *PrometheusRecorder) AddArtifacts(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.artifacts.Add(float64(n))
}
