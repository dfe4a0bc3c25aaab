package observability

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/nil-marketplace/internal/config"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

// Runtime owns the process-wide telemetry: tracing export, continuous
// profiling and the optional pprof listener.
type Runtime struct {
	logger       *logging.Logger
	stopTracing  func(context.Context) error
	stopProfiler func() error
	pprof        *http.Server
}

// Start brings up every enabled telemetry component. Components that fail to
// start roll back the ones already running.
func Start(cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Default()
	}
	rt := &Runtime{
		logger:       logger,
		stopTracing:  func(context.Context) error { return nil },
		stopProfiler: func() error { return nil },
	}

	stopTracing, err := initTracing(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "init tracing")
	}
	rt.stopTracing = stopTracing

	stopProfiler, err := initProfiler(cfg, logger)
	if err != nil {
		_ = rt.Shutdown(context.Background())
		return nil, errors.Wrap(err, "init profiler")
	}
	rt.stopProfiler = stopProfiler

	rt.pprof = startPprof(cfg, logger)
	return rt, nil
}

// Shutdown stops pprof, then the profiler, then flushes pending spans.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs error
	if r.pprof != nil {
		if err := r.pprof.Shutdown(ctx); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrap(err, "stop pprof"))
		}
	}
	if err := r.stopProfiler(); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "stop pyroscope"))
	}
	if err := r.stopTracing(ctx); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "flush uptrace"))
	}
	if errs == nil {
		r.logger.Info("telemetry stopped")
	}
	return errs
}
