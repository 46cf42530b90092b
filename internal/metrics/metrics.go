// Package metrics exports answer pipeline measurements to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PipelineMetrics = (*Pipeline)(nil)

// Pipeline records answer pipeline metrics on its own registry
type Pipeline struct {
	registry      *prometheus.Registry
	answers       *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	toolCalls     *prometheus.CounterVec
	rerankFalls   prometheus.Counter
}

// New creates the pipeline collectors plus the Go runtime and process collectors
func New() *Pipeline {
	p := &Pipeline{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assist_answers_total",
				Help: "Answers returned, by the pipeline branch that produced them",
			},
			[]string{"outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assist_stage_duration_seconds",
				Help:    "Duration of each pipeline stage in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~41s
			},
			[]string{"stage"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assist_tool_calls_total",
				Help: "Tool invocation attempts by tool name and status",
			},
			[]string{"tool", "status"},
		),
		rerankFalls: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "assist_rerank_fallbacks_total",
				Help: "Reranks that fell back to retrieval order",
			},
		),
	}

	p.registry.MustRegister(
		p.answers,
		p.stageDuration,
		p.toolCalls,
		p.rerankFalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Pipeline) ObserveStage(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *Pipeline) CountAnswer(outcome domain.Outcome) {
	p.answers.WithLabelValues(string(outcome)).Inc()
}

func (p *Pipeline) CountToolCall(tool, status string) {
	p.toolCalls.WithLabelValues(tool, status).Inc()
}

func (p *Pipeline) CountRerankFallback() {
	p.rerankFalls.Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (p *Pipeline) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
