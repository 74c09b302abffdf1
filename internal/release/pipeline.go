// Package release sequences a full a-la-carte release: preflight checks,
// service discovery, the subset builds, the base package patch and build,
// and the upload.
package release

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/thejcannon/alacarte/internal/basepkg"
	"github.com/thejcannon/alacarte/internal/build"
	"github.com/thejcannon/alacarte/internal/config"
	"github.com/thejcannon/alacarte/internal/discovery"
	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/git"
	"github.com/thejcannon/alacarte/internal/logfields"
	"github.com/thejcannon/alacarte/internal/metrics"
	"github.com/thejcannon/alacarte/internal/pkgtemplate"
	"github.com/thejcannon/alacarte/internal/publish"
	"github.com/thejcannon/alacarte/internal/toolchain"
)

// Request holds the per-run inputs.
type Request struct {
	Version string
	// Readme is the file copied over the base package README.
	Readme      string
	SkipPublish bool
	// RunID identifies the run in logs and the report; generated when empty.
	RunID string
}

// Pipeline runs release requests against one configured base package.
type Pipeline struct {
	cfg          *config.Config
	paths        config.Paths
	runner       toolchain.Runner
	recorder     metrics.Recorder
	buildArgv    []string
	publishArgv  []string
	renderer     *pkgtemplate.Renderer
	orchestrator *build.Orchestrator
	patcher      *basepkg.Patcher
	publisher    *publish.Publisher
}

// New wires the release components for cfg. Commands run through runner.
func New(cfg *config.Config, runner toolchain.Runner) (*Pipeline, error) {
	paths, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	buildArgv, err := toolchain.ParseCommand(cfg.Build.Command)
	if err != nil {
		return nil, rerrors.Wrap(err, rerrors.CategoryConfig, rerrors.SeverityFatal, "invalid build command").
			WithContext("field", "build.command")
	}
	var publishArgv []string
	if !cfg.Publish.Skip {
		publishArgv, err = toolchain.ParseCommand(cfg.Publish.Command)
		if err != nil {
			return nil, rerrors.Wrap(err, rerrors.CategoryConfig, rerrors.SeverityFatal, "invalid publish command").
				WithContext("field", "publish.command")
		}
	}
	renderer, err := pkgtemplate.FromConfig(cfg, paths)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:         cfg,
		paths:       paths,
		runner:      runner,
		recorder:    metrics.NoopRecorder{},
		buildArgv:   buildArgv,
		publishArgv: publishArgv,
		renderer:    renderer,
	}
	p.orchestrator = build.NewOrchestrator(build.NewSubsetBuilder(paths, renderer, runner, buildArgv), cfg.Build.Jobs)
	p.patcher = basepkg.NewPatcher(cfg, paths, runner, buildArgv)
	p.publisher = publish.NewPublisher(paths.OutputDir, runner, publishArgv)
	return p, nil
}

// WithRecorder injects a metrics recorder (nil keeps the current one).
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline {
	if r != nil {
		p.recorder = r
		p.orchestrator.WithRecorder(r)
	}
	return p
}

// Paths returns the resolved paths the pipeline operates on.
func (p *Pipeline) Paths() config.Paths {
	return p.paths
}

// ValidateVersion rejects versions that cannot be used verbatim in package
// names and requirement pins.
func ValidateVersion(v string) error {
	if v == "" {
		return rerrors.ValidationFailed("version", "must not be empty")
	}
	if strings.IndexFunc(v, unicode.IsSpace) >= 0 {
		return rerrors.ValidationFailed("version", "must not contain whitespace")
	}
	return nil
}

type runState struct {
	req       Request
	report    *Report
	services  []string
	publish   bool
	artifacts []string
}

// Run executes every stage in order and stops at the first failure. The
// returned report is populated on success and failure alike.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	report := &Report{RunID: req.RunID, Version: req.Version, Start: time.Now()}

	if err := p.validate(req); err != nil {
		p.finish(report, "", err)
		return report, err
	}

	rs := &runState{req: req, report: report, publish: !req.SkipPublish && !p.cfg.Publish.Skip}
	stages := []StageDef{
		{StagePreflight, p.stagePreflight},
		{StageDiscover, p.stageDiscover},
		{StageBuildSubsets, p.stageBuildSubsets},
		{StagePatchBase, p.stagePatchBase},
		{StageBuildBase, p.stageBuildBase},
		{StagePublish, p.stagePublish},
	}

	slog.Info("Starting release", logfields.Version(req.Version), logfields.Path(p.paths.Root))
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			p.finish(report, st.Name, err)
			return report, &StageError{Stage: st.Name, Err: err}
		}
		if st.Name == StagePublish && !rs.publish {
			p.recordStage(report, st.Name, 0, metrics.ResultSkipped)
			slog.Info("Skipping publish", logfields.Stage(string(st.Name)))
			continue
		}

		t0 := time.Now()
		slog.Debug("Stage started", logfields.Stage(string(st.Name)))
		err := st.Fn(ctx, rs)
		result := metrics.ResultOf(err, errors.Is(err, context.Canceled))
		p.recordStage(report, st.Name, time.Since(t0), result)
		if err != nil {
			p.finish(report, st.Name, err)
			return report, &StageError{Stage: st.Name, Err: err}
		}
		slog.Info("Stage completed", logfields.Stage(string(st.Name)), logfields.Since(t0))
	}

	p.finish(report, "", nil)
	slog.Info("Release complete",
		logfields.Version(req.Version),
		logfields.Services(len(report.Services)),
		logfields.Artifacts(len(report.Artifacts)),
		logfields.Since(report.Start))
	return report, nil
}

func (p *Pipeline) validate(req Request) error {
	if err := ValidateVersion(req.Version); err != nil {
		return err
	}
	if req.Readme == "" {
		return rerrors.ValidationFailed("readme", "must not be empty")
	}
	info, err := os.Stat(req.Readme)
	if err != nil {
		return rerrors.FileSystem("stat readme", req.Readme, err)
	}
	if info.IsDir() {
		return rerrors.ValidationFailed("readme", "is a directory")
	}
	return nil
}

func (p *Pipeline) recordStage(report *Report, name StageName, d time.Duration, result metrics.ResultLabel) {
	report.Stages = append(report.Stages, StageReport{Name: name, DurationMS: d.Milliseconds(), Result: result})
	p.recorder.ObserveStageDuration(string(name), d)
	p.recorder.IncStageResult(string(name), result)
}

func (p *Pipeline) finish(report *Report, failed StageName, err error) {
	report.End = time.Now()
	switch {
	case err == nil:
		report.Outcome = OutcomeSuccess
	case errors.Is(err, context.Canceled):
		report.Outcome = OutcomeCanceled
	default:
		report.Outcome = OutcomeFailed
	}
	if err != nil {
		report.Error = err.Error()
		report.FailedStage = failed
	}
	p.recorder.ObserveRunDuration(report.Duration())
	p.recorder.IncRunOutcome(metrics.ResultOf(err, report.Outcome == OutcomeCanceled))
}

func (p *Pipeline) stagePreflight(_ context.Context, rs *runState) error {
	state, err := git.Inspect(p.paths.Root)
	switch {
	case errors.Is(err, git.ErrNotRepository):
		slog.Info("Base root is not a git repository; skipping work tree checks", logfields.Path(p.paths.Root))
	case err != nil:
		return rerrors.InternalError("inspect base repository", err)
	default:
		rs.report.Commit = state.Head
		slog.Info("Base repository", logfields.Commit(state.Head), slog.String("branch", state.Branch))
		if p.cfg.Base.RequireClean {
			if err := state.RequireClean(p.paths.Descriptor, p.paths.SetupConfig); err != nil {
				return err
			}
		}
	}

	for _, dir := range []string{p.paths.OutputDir, p.paths.WorkDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return rerrors.FileSystem("create directory", dir, err)
		}
	}
	return nil
}

func (p *Pipeline) stageDiscover(_ context.Context, rs *runState) error {
	services, err := discovery.ListServices(p.paths.DataRoot)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		slog.Warn("No services found; only the base package will be built", logfields.Path(p.paths.DataRoot))
	}
	rs.services = services
	rs.report.Services = services
	slog.Info("Discovered services", logfields.Services(len(services)))
	return nil
}

func (p *Pipeline) stageBuildSubsets(ctx context.Context, rs *runState) error {
	artifacts, err := p.orchestrator.BuildAll(ctx, rs.services, rs.req.Version)
	if err != nil {
		return err
	}
	rs.artifacts = append(rs.artifacts, artifacts...)
	rs.report.Artifacts = rs.artifacts
	return nil
}

func (p *Pipeline) stagePatchBase(_ context.Context, rs *runState) error {
	return p.patcher.Patch(rs.services, rs.req.Version, rs.req.Readme)
}

func (p *Pipeline) stageBuildBase(ctx context.Context, rs *runState) error {
	artifacts, err := p.patcher.Build(ctx)
	if err != nil {
		return err
	}
	rs.artifacts = append(rs.artifacts, artifacts...)
	rs.report.Artifacts = rs.artifacts
	p.recorder.AddArtifacts(len(artifacts))
	return nil
}

func (p *Pipeline) stagePublish(ctx context.Context, rs *runState) error {
	files, err := p.publisher.Publish(ctx)
	if err != nil {
		return err
	}
	rs.report.Published = files
	return nil
}
