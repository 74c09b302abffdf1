// Package metrics records release run metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics never
// need nil checks at call sites. The CLI swaps in a PrometheusRecorder when
// --metrics-file is set and writes the registry as a textfile at the end of
// the run; alacarte is a batch job and serves no HTTP endpoint.
package metrics
