package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samvad-hq/samvad-post-curator/internal/config"
	"github.com/samvad-hq/samvad-post-curator/internal/dispatch"
	"github.com/samvad-hq/samvad-post-curator/internal/logger"
	"github.com/samvad-hq/samvad-post-curator/internal/metrics"
	"github.com/samvad-hq/samvad-post-curator/internal/storage"
	"github.com/samvad-hq/samvad-post-curator/pkg/publishers"
)

// Dispatcher is the long-running runtime that publishes due posts. The bbolt
// store is opened only for the length of each tick so the CLI can use it in
// between; the memory store is held for the life of the process.
type Dispatcher struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	service  *dispatch.Service
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	log      logger.Logger

	shared *Workspace
}

// DispatcherOptions overrides collaborators, mostly for tests.
type DispatcherOptions struct {
	Publisher dispatch.EventPublisher
	Store     storage.Options
}

// NewDispatcher builds the dispatch runtime from config files.
func NewDispatcher(ctx context.Context, cfg *config.Config, log logger.Logger, opts DispatcherOptions) (*Dispatcher, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	log = logger.Ensure(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	d := &Dispatcher{cfg: cfg, metrics: m, gatherer: reg, log: log}

	pub := opts.Publisher
	if pub == nil {
		fanout, err := buildFanout(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		d.fanout = fanout
		pub = fanout
	}

	wsOpts := WorkspaceOptions{Store: opts.Store, Recorder: m}
	open := d.perTickOpener(cfg, wsOpts)
	if cfg.StorageType == "" || cfg.StorageType == storage.TypeMemory {
		ws, err := OpenWorkspace(ctx, cfg, log, wsOpts)
		if err != nil {
			d.closeFanout()
			return nil, err
		}
		d.shared = ws
		open = dispatch.Static(ws.Schedule)
	}

	svc, err := dispatch.NewService(open, pub, log, dispatch.Options{
		Interval:    cfg.DispatchInterval,
		Concurrency: cfg.DispatchConcurrency,
		Now:         opts.Store.Now,
		Recorder:    m,
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("init dispatch: %w", err)
	}
	d.service = svc
	return d, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, errors.New("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]any, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]any{
			"id":        c.ID,
			"type":      c.Type,
			"platforms": c.Platforms,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

func (d *Dispatcher) perTickOpener(cfg *config.Config, opts WorkspaceOptions) dispatch.Opener {
	return func(ctx context.Context) (dispatch.PostQueue, func() error, error) {
		ws, err := OpenWorkspace(ctx, cfg, d.log, opts)
		if err != nil {
			return nil, nil, err
		}
		return ws.Schedule, ws.Close, nil
	}
}

// RunOnce performs a single dispatch pass.
func (d *Dispatcher) RunOnce(ctx context.Context) (dispatch.TickResult, error) {
	return d.service.RunOnce(ctx)
}

// Run serves metrics when configured and dispatches until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d == nil || d.service == nil {
		return errors.New("dispatcher is not initialized")
	}
	defer d.Close()

	if d.cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              d.cfg.MetricsAddr,
			Handler:           d.MetricsHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.log.ErrorObj("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		d.log.InfoObj("metrics server listening", "metrics_addr", d.cfg.MetricsAddr)
	}

	return d.service.Run(ctx)
}

// MetricsHandler exposes the dispatcher's registry.
func (d *Dispatcher) MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))
	return mux
}

// Close releases publishers and any store held across ticks.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeFanout()
	if d.shared != nil {
		_ = d.shared.Close()
		d.shared = nil
	}
}

func (d *Dispatcher) closeFanout() {
	if d.fanout == nil {
		return
	}
	if err := d.fanout.Close(); err != nil {
		d.log.ErrorObj("publisher close failed", "error", err)
	}
	d.fanout = nil
}
