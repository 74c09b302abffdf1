package release

import (
	"context"
	"fmt"
)

// StageName is a strongly-typed identifier for a release stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePreflight    StageName = "preflight"
	StageDiscover     StageName = "discover"
	StageBuildSubsets StageName = "build_subsets"
	StagePatchBase    StageName = "patch_base"
	StageBuildBase    StageName = "build_base"
	StagePublish      StageName = "publish"
)

// Stage is a discrete unit of work in a release run.
type Stage func(ctx context.Context, rs *runState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageError records which stage a run failed in.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }
