// Package metrics provides observability hooks for site generation.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay zero-cost until a real implementation is
// wired in (the preview server wires Prometheus).
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for generation and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveGenerationDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncGenerationOutcome(outcome string) // success|warning|failed|canceled
	AddPagesRendered(n int)
	AddThumbnails(n int)
	AddWarnings(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveGenerationDuration(time.Duration)    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncGenerationOutcome(string)                {}
func (NoopRecorder) AddPagesRendered(int)                       {}
func (NoopRecorder) AddThumbnails(int)                          {}
func (NoopRecorder) AddWarnings(int)                            {}
