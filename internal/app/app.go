// Package app wires configuration, metrics, tracing, and the
// discovery/conformance pipelines into one orchestrator.
//
// App owns the long-lived infrastructure a discovery run needs — the
// metrics HTTP server, the OTel tracer, the phase task tracker, and a
// worker pool sized off the configured concurrency — and exposes
// pipeline entry points (DiscoverProcessModel, DiscoverOCDeclare) that
// each run under tracing.Phase/task_manager bookkeeping and report
// their results to internal/metrics.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ssw-process-mining/internal/config"
	"ssw-process-mining/internal/metrics"
	"ssw-process-mining/pkg/alphappp"
	"ssw-process-mining/pkg/errors"
	"ssw-process-mining/pkg/eventlog/projection"
	"ssw-process-mining/pkg/ocdeclare"
	"ssw-process-mining/pkg/ocel"
	"ssw-process-mining/pkg/ocel/linked"
	"ssw-process-mining/pkg/petrinet"
	"ssw-process-mining/pkg/pmtypes"
	"ssw-process-mining/pkg/task_manager"
	"ssw-process-mining/pkg/tracing"
	"ssw-process-mining/pkg/types"
	"ssw-process-mining/pkg/workerpool"

	"github.com/sirupsen/logrus"
)

// App is the orchestrator: one per process, holding everything a
// discovery/conformance run needs that outlives any single call.
type App struct {
	config *types.Config
	logger *logrus.Logger

	tracingManager *tracing.Manager
	metricsServer  *metrics.Server
	taskManager    task_manager.Manager
	workerPool     *workerpool.WorkerPool

	ctx    context.Context
	cancel context.CancelFunc
}

// New loads configuration from configFile and wires the ambient stack.
// It does not start anything; call Run or DiscoverOCDeclare/
// DiscoverProcessModel directly.
func New(configFile string) (*App, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.App.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	tracingCfg := tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Tracing.ServiceVersion,
		Environment:    cfg.App.Environment,
		Exporter:       cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		BatchTimeout:   5 * time.Second,
		MaxBatchSize:   512,
	}
	tracingManager, err := tracing.NewManager(tracingCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	tm := task_manager.New(task_manager.Config{
		HeartbeatInterval: cfg.TaskManager.HeartbeatInterval,
		TaskTimeout:       cfg.TaskManager.TaskTimeout,
		CleanupInterval:   cfg.TaskManager.CleanupInterval,
	}, logger)

	wp := workerpool.NewWorkerPool(workerpool.WorkerPoolConfig{
		MaxWorkers:      cfg.Workers.MaxWorkers,
		QueueSize:       cfg.Workers.QueueSize,
		WorkerTimeout:   cfg.Workers.WorkerTimeout,
		IdleTimeout:     cfg.Workers.IdleTimeout,
		EnableMetrics:   true,
		ShutdownTimeout: cfg.Workers.ShutdownTimeout,
	}, logger)

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port), logger)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		config:         cfg,
		logger:         logger,
		tracingManager: tracingManager,
		metricsServer:  metricsServer,
		taskManager:    tm,
		workerPool:     wp,
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// Start brings up the metrics server, the worker pool, and a periodic
// snapshot of worker pool stats into Prometheus gauges.
func (app *App) Start() error {
	if err := app.workerPool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}
	go app.sampleWorkerPoolMetrics()
	app.logger.Info("pmcore started")
	return nil
}

func (app *App) sampleWorkerPoolMetrics() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	var lastCompleted, lastFailed uint64
	for {
		select {
		case <-ticker.C:
			stats := app.workerPool.GetStats()
			metrics.WorkerPoolActiveTasks.Set(float64(stats.ActiveTasks))

			completed, failed := uint64(stats.CompletedTasks), uint64(stats.FailedTasks)
			if completed > lastCompleted {
				metrics.WorkerPoolCompletedTotal.Add(float64(completed - lastCompleted))
			}
			if failed > lastFailed {
				metrics.WorkerPoolFailedTotal.Add(float64(failed - lastFailed))
			}
			lastCompleted, lastFailed = completed, failed

			app.logger.WithFields(logrus.Fields{
				"completed": stats.CompletedTasks,
				"failed":    stats.FailedTasks,
				"queued":    stats.QueuedTasks,
			}).Debug("worker pool stats")
		case <-app.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down every component Start brought up.
func (app *App) Stop() error {
	app.logger.Info("stopping pmcore")
	app.cancel()

	if app.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.metricsServer.Stop(ctx); err != nil {
			app.logger.WithError(err).Error("failed to stop metrics server")
		}
	}
	if err := app.workerPool.Stop(); err != nil {
		app.logger.WithError(err).Error("failed to stop worker pool")
	}

	tctx, tcancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer tcancel()
	if err := app.tracingManager.Shutdown(tctx); err != nil {
		app.logger.WithError(err).Error("failed to shut down tracing")
	}

	app.taskManager.Cleanup()
	app.logger.Info("pmcore stopped")
	return nil
}

// Run starts the app and blocks until a shutdown signal arrives.
func (app *App) Run() error {
	if err := app.Start(); err != nil {
		return err
	}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	app.logger.Info("shutdown signal received")
	return app.Stop()
}

// DiscoverProcessModel runs the Alpha+++ pipeline over log, returning
// the assembled Petri net. Each internal phase is reported to the
// phase duration histogram; the assembled net's place count is
// recorded as a gauge.
func (app *App) DiscoverProcessModel(ctx context.Context, log pmtypes.EventLog) (*petrinet.PetriNet, error) {
	tr := app.tracingManager.Tracer()

	var pn *petrinet.PetriNet
	var dur alphappp.AlgoDuration
	err := app.runTrackedPhase(ctx, "discover_process_model", func(taskCtx context.Context) error {
		return tracing.Phase(taskCtx, tr, "discover_process_model", func(spanCtx context.Context) error {
			proj := projection.Build(log)
			proj.AddStartEnd(app.logger)

			cfg := alphappp.Config{
				BalanceThresh:            app.config.Discovery.BalanceThresh,
				FitnessThresh:            app.config.Discovery.FitnessThresh,
				ReplayThresh:             app.config.Discovery.ReplayThresh,
				LogRepairSkipDfThreshRel: app.config.Discovery.LogRepairSkipDfThreshRel,
				LogRepairLoopDfThreshRel: app.config.Discovery.LogRepairLoopDfThreshRel,
				AbsoluteDfCleanThresh:    app.config.Discovery.AbsoluteDfCleanThresh,
				RelativeDfCleanThresh:    app.config.Discovery.RelativeDfCleanThresh,
			}
			pn, dur = alphappp.Discover(proj, cfg)
			return nil
		})
	})
	if err != nil {
		return nil, errors.IOError("app", "discover_process_model", err.Error()).Wrap(err)
	}

	metrics.RecordPhase("loop_repair", time.Duration(dur.LoopRepair*float64(time.Second)), nil)
	metrics.RecordPhase("skip_repair", time.Duration(dur.SkipRepair*float64(time.Second)), nil)
	metrics.RecordPhase("filter_dfg", time.Duration(dur.FilterDFG*float64(time.Second)), nil)
	metrics.RecordPhase("candidate_building", time.Duration(dur.CandBuilding*float64(time.Second)), nil)
	metrics.RecordPhase("prune_candidates", time.Duration(dur.PruneCand*float64(time.Second)), nil)
	metrics.RecordPhase("net_assembly", time.Duration(dur.BuildNet*float64(time.Second)), nil)
	metrics.PetriNetPlaces.Set(float64(len(pn.Places)))

	return pn, nil
}

// DiscoverOCDeclare runs OC-DECLARE discovery over o, returning the
// discovered arcs. Arc counts per type and, for each discovered arc,
// its violation fraction are reported to Prometheus.
func (app *App) DiscoverOCDeclare(ctx context.Context, o ocel.OCEL) ([]ocdeclare.Arc, error) {
	tr := app.tracingManager.Tracer()

	opts, err := app.ocDeclareOptions()
	if err != nil {
		return nil, err
	}

	var arcs []ocdeclare.Arc
	var l *linked.LinkedOCEL
	err = app.runTrackedPhase(ctx, "oc_declare_discovery", func(taskCtx context.Context) error {
		return tracing.Phase(taskCtx, tr, "oc_declare_discovery", func(spanCtx context.Context) error {
			l = linked.FromOCEL(o, app.logger)
			arcs = ocdeclare.Discover(l, opts)
			if opts.Reduction != ocdeclare.ReductionNone {
				arcs = ocdeclare.ReduceArcs(arcs, opts.Reduction == ocdeclare.ReductionLossless)
			}
			return nil
		})
	})
	if err != nil {
		return nil, errors.IOError("app", "discover_oc_declare", err.Error()).Wrap(err)
	}

	counts := make(map[string]int, 5)
	for _, arc := range arcs {
		counts[arc.ArcType.String()]++
		metrics.SetOCDeclareViolationFraction(arc.From, arc.To, ocdeclare.ViolationFraction(l, arc))
	}
	metrics.SetOCDeclareArcsDiscovered(counts)

	return arcs, nil
}

// runTrackedPhase starts fn as a named task_manager phase and blocks
// until it reaches a terminal state, surfacing its error (if any).
// task_manager tasks run asynchronously by design (they heartbeat over
// an unbounded lifetime); a one-shot discovery run instead wants to
// wait for the phase it just started, so this polls GetTaskStatus
// rather than fire-and-forget.
func (app *App) runTrackedPhase(ctx context.Context, phase string, fn func(context.Context) error) error {
	if err := app.taskManager.StartTask(ctx, phase, fn); err != nil {
		return err
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			status := app.taskManager.GetTaskStatus(phase)
			metrics.TaskManagerPhaseState.WithLabelValues(phase, string(status.State)).Set(1)
			switch status.State {
			case task_manager.TaskStateCompleted:
				return nil
			case task_manager.TaskStateFailed:
				return fmt.Errorf("phase %s failed: %s", phase, status.LastError)
			case task_manager.TaskStateStopped:
				return fmt.Errorf("phase %s was stopped", phase)
			}
		case <-ctx.Done():
			app.taskManager.StopTask(phase)
			return ctx.Err()
		}
	}
}

func (app *App) ocDeclareOptions() (ocdeclare.DiscoveryOptions, error) {
	cfg := app.config.OCDeclare
	opts := ocdeclare.DefaultDiscoveryOptions()
	opts.NoiseThreshold = cfg.NoiseThreshold
	opts.ActsToUse = cfg.ActsToUse

	o2o, ok := ocdeclare.ParseO2OMode(cfg.O2OMode)
	if !ok {
		return opts, errors.ConfigError("parse_o2o_mode", fmt.Sprintf("invalid o2o mode: %s", cfg.O2OMode))
	}
	opts.O2OMode = o2o

	reduction, ok := ocdeclare.ParseReductionMode(cfg.Reduction)
	if !ok {
		return opts, errors.ConfigError("parse_reduction_mode", fmt.Sprintf("invalid reduction mode: %s", cfg.Reduction))
	}
	opts.Reduction = reduction

	considered := make(map[ocdeclare.ArcType]bool, len(cfg.ConsideredArcTypes))
	for _, at := range cfg.ConsideredArcTypes {
		arcType, ok := ocdeclare.ParseArcType(at)
		if !ok {
			return opts, errors.ConfigError("parse_arc_type", fmt.Sprintf("invalid arc type: %s", at))
		}
		considered[arcType] = true
	}
	if len(considered) > 0 {
		opts.ConsideredArcTypes = considered
	}

	return opts, nil
}
