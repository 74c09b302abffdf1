package release

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/metrics"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Report summarizes a release run.
type Report struct {
	RunID     string        `yaml:"run_id"`
	Version   string        `yaml:"version"`
	Start     time.Time     `yaml:"start"`
	End       time.Time     `yaml:"end"`
	Outcome   Outcome       `yaml:"outcome"`
	Commit    string        `yaml:"commit,omitempty"`
	Services  []string      `yaml:"services"`
	Artifacts []string      `yaml:"artifacts"`
	Published []string      `yaml:"published,omitempty"`
	Stages    []StageReport `yaml:"stages"`
	Error     string        `yaml:"error,omitempty"`
	// FailedStage is set when Outcome is not success.
	FailedStage StageName `yaml:"failed_stage,omitempty"`
}

// StageReport is the timing and result of one stage.
type StageReport struct {
	Name       StageName           `yaml:"name"`
	DurationMS int64               `yaml:"duration_ms"`
	Result     metrics.ResultLabel `yaml:"result"`
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// WriteFile writes the report as YAML.
func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return rerrors.InternalError("encode run report", err)
	}
	// #nosec G306 -- the report carries no secrets
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return rerrors.FileSystem("write run report", path, err)
	}
	return nil
}
