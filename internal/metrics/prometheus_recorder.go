package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stageDuration    *prom.HistogramVec
	buildDuration    prom.Histogram
	stageResults     *prom.CounterVec
	buildOutcome     *prom.CounterVec
	references       *prom.CounterVec
	pagesRendered    prom.Counter
	sectionsComposed prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "w3docs",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "w3docs",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "w3docs",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "w3docs",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.references = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "w3docs",
			Name:      "references_total",
			Help:      "Symbol references by resolution result",
		}, []string{"result"})
		pr.pagesRendered = prom.NewCounter(prom.CounterOpts{
			Namespace: "w3docs",
			Name:      "pages_rendered_total",
			Help:      "Pages rendered by successful builds",
		})
		pr.sectionsComposed = prom.NewGauge(prom.GaugeOpts{
			Namespace: "w3docs",
			Name:      "sections_composed",
			Help:      "Navigation sections composed by the last build",
		})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.references, pr.pagesRendered, pr.sectionsComposed)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveReferences(resolved, failed int) {
	if p == nil || p.references == nil {
		return
	}
	p.references.WithLabelValues("resolved").Add(float64(resolved))
	p.references.WithLabelValues("failed").Add(float64(failed))
}

func (p *PrometheusRecorder) AddPagesRendered(n int) {
	if p == nil || p.pagesRendered == nil {
		return
	}
	p.pagesRendered.Add(float64(n))
}

func (p *PrometheusRecorder) SetSectionsComposed(n int) {
	if p == nil || p.sectionsComposed == nil {
		return
	}
	p.sectionsComposed.Set(float64(n))
}

// HTTPHandler serves reg in the Prometheus exposition format, or the default
// registry when reg is nil.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
