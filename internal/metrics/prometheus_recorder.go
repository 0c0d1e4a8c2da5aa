package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	generationDuration prom.Histogram
	stageResults       *prom.CounterVec
	outcomes           *prom.CounterVec
	pagesRendered      prom.Counter
	thumbnails         prom.Counter
	warnings           prom.Counter
}

// NewPrometheusRecorder constructs and registers the generation metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "ssg",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		generationDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "ssg",
			Name:      "generation_duration_seconds",
			Help:      "Total site generation duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ssg",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ssg",
			Name:      "generation_outcomes_total",
			Help:      "Generation outcomes by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: "ssg",
			Name:      "pages_rendered_total",
			Help:      "Pages rendered across all generations",
		}),
		thumbnails: prom.NewCounter(prom.CounterOpts{
			Namespace: "ssg",
			Name:      "thumbnails_generated_total",
			Help:      "Gallery thumbnails generated across all generations",
		}),
		warnings: prom.NewCounter(prom.CounterOpts{
			Namespace: "ssg",
			Name:      "warnings_total",
			Help:      "Per-input warnings across all generations",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.generationDuration, pr.stageResults,
		pr.outcomes, pr.pagesRendered, pr.thumbnails, pr.warnings)
	return pr
}

func (pr *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	pr.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveGenerationDuration(d time.Duration) {
	pr.generationDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	pr.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (pr *PrometheusRecorder) IncGenerationOutcome(outcome string) {
	pr.outcomes.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) AddPagesRendered(n int) { pr.pagesRendered.Add(float64(n)) }
func (pr *PrometheusRecorder) AddThumbnails(n int)    { pr.thumbnails.Add(float64(n)) }
func (pr *PrometheusRecorder) AddWarnings(n int)      { pr.warnings.Add(float64(n)) }

// HTTPHandler serves the registry for scraping.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
