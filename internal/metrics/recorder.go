package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
	ResultSkipped  ResultLabel = "skipped"
)

// Recorder defines observability hooks for release runs, their stages and the
// individual subset builds. Implementations must be safe for concurrent use;
// subset hooks are called from orchestrator workers.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(result ResultLabel)
	ObserveSubsetDuration(d time.Duration, result ResultLabel)
	IncSubsetResult(result ResultLabel)
	SetBuildConcurrency(n int)
	AddArtifacts(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) IncStageResult(string, ResultLabel)               {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                 {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                        {}
func (NoopRecorder) ObserveSubsetDuration(time.Duration, ResultLabel) {}
func (NoopRecorder) IncSubsetResult(ResultLabel)                      {}
func (NoopRecorder) SetBuildConcurrency(int)                          {}
func (NoopRecorder) AddArtifacts(int)                                 {}

// ResultOf maps an operation error to its result label.
func ResultOf(err error, canceled bool) ResultLabel {
	switch {
	case err == nil:
		return ResultSuccess
	case canceled:
		return ResultCanceled
	default:
		return ResultFailed
	}
}
