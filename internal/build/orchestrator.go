package build

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/logfields"
	"github.com/thejcannon/alacarte/internal/metrics"
)

// Orchestrator runs one Builder invocation per service over a bounded pool.
//
// After the first failure no further services are dispatched and the shared
// context is cancelled; BuildAll still waits for every in-flight build (and
// its tree cleanup) before returning the first error.
type Orchestrator struct {
	builder  Builder
	jobs     int
	recorder metrics.Recorder
}

// NewOrchestrator returns an orchestrator running at most jobs builds at a
// time. jobs <= 0 means one per CPU.
func NewOrchestrator(builder Builder, jobs int) *Orchestrator {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Orchestrator{builder: builder, jobs: jobs, recorder: metrics.NoopRecorder{}}
}

// WithRecorder injects a metrics recorder (nil keeps the current one).
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// Jobs returns the configured pool size.
func (o *Orchestrator) Jobs() int {
	return o.jobs
}

// BuildAll builds every service at version and returns the collected
// artifacts in sorted order.
func (o *Orchestrator) BuildAll(ctx context.Context, services []string, version string) ([]string, error) {
	if len(services) == 0 {
		return nil, nil
	}
	workers := min(o.jobs, len(services))
	o.recorder.SetBuildConcurrency(workers)
	slog.Info("Building subset packages",
		logfields.Services(len(services)),
		logfields.Workers(workers),
		logfields.Version(version))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu        sync.Mutex
		artifacts []string
	)
	for _, svc := range services {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Dispatch may have raced with a failure elsewhere.
			if err := gctx.Err(); err != nil {
				o.recorder.IncSubsetResult(metrics.ResultSkipped)
				return err
			}

			start := time.Now()
			out, err := o.builder.Build(gctx, svc, version)
			result := metrics.ResultOf(err, errors.Is(err, context.Canceled))
			o.recorder.ObserveSubsetDuration(time.Since(start), result)
			o.recorder.IncSubsetResult(result)
			if err != nil {
				if re, ok := rerrors.As(err); ok {
					err = re.WithContext("service", svc)
				}
				slog.Error("Subset build failed", logfields.Service(svc), logfields.Error(err))
				return err
			}

			mu.Lock()
			artifacts = append(artifacts, out...)
			mu.Unlock()
			o.recorder.AddArtifacts(len(out))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The parent context may have been cancelled between dispatches.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(artifacts)
	return artifacts, nil
}
