// Package metrics records build metrics. Components receive a Recorder and
// default to NoopRecorder; the CLI swaps in a PrometheusRecorder when
// metrics.textfile or metrics.listen is configured.
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

// Recorder defines observability hooks for build and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(lang string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // success|warning|failed|canceled
	SetPages(lang string, n int)
	SetAssociations(lang string, n int)
	AddBrokenLinks(lang string, n int)
	IncEventPublish(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) SetPages(string, int)                       {}
func (NoopRecorder) SetAssociations(string, int)                {}
func (NoopRecorder) AddBrokenLinks(string, int)                 {}
func (NoopRecorder) IncEventPublish(bool)                       {}
