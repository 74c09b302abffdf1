package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/thejcannon/alacarte/internal/config"
	"github.com/thejcannon/alacarte/internal/logfields"
	"github.com/thejcannon/alacarte/internal/metrics"
	"github.com/thejcannon/alacarte/internal/release"
	"github.com/thejcannon/alacarte/internal/toolchain"
)

// ReleaseCmd implements the default 'release' command.
type ReleaseCmd struct {
	Version string `arg:"" help:"Upstream version; every produced package carries it"`
	Readme  string `arg:"" help:"README copied over the base package README" type:"path"`

	Jobs        int    `short:"j" help:"Concurrent subset builds (overrides build.jobs; 0 keeps the configured value)"`
	SkipPublish bool   `name:"skip-publish" help:"Stop after building the base package"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" type:"path"`
	ReportFile  string `name:"report-file" help:"Write the run report as YAML to this file" type:"path"`
}

func (r *ReleaseCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if r.Jobs > 0 {
		cfg.Build.Jobs = r.Jobs
	}
	_, err = RunRelease(g.ctx(), cfg, toolchain.NewExecRunner(), r.Options())
	return err
}

// Options converts the parsed flags into release options.
func (r *ReleaseCmd) Options() ReleaseOptions {
	return ReleaseOptions{
		Request: release.Request{
			Version:     r.Version,
			Readme:      r.Readme,
			SkipPublish: r.SkipPublish,
		},
		MetricsFile: r.MetricsFile,
		ReportFile:  r.ReportFile,
	}
}

// ReleaseOptions are the inputs of one release run.
type ReleaseOptions struct {
	Request     release.Request
	MetricsFile string
	ReportFile  string
}

// RunRelease runs the pipeline with runner and writes the metrics and report
// files when requested. Both files are written on failure as well; a write
// error only surfaces when the run itself succeeded.
func RunRelease(ctx context.Context, cfg *config.Config, runner toolchain.Runner, opts ReleaseOptions) (*release.Report, error) {
	req := opts.Request
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	prev := slog.Default()
	slog.SetDefault(prev.With(logfields.RunID(req.RunID)))
	defer slog.SetDefault(prev)

	p, err := release.New(cfg, runner)
	if err != nil {
		return nil, err
	}
	rec := metrics.NewPrometheusRecorder(nil)
	p.WithRecorder(rec)

	report, runErr := p.Run(ctx, req)

	if opts.MetricsFile != "" {
		if err := rec.WriteTextfile(opts.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(opts.MetricsFile), logfields.Error(err))
			if runErr == nil {
				runErr = err
			}
		}
	}
	if opts.ReportFile != "" {
		if err := report.WriteFile(opts.ReportFile); err != nil {
			slog.Warn("Failed to write report", logfields.Path(opts.ReportFile), logfields.Error(err))
			if runErr == nil {
				runErr = err
			}
		}
	}
	return report, runErr
}
