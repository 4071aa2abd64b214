package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/filtergrid/internal/builder"
	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/executor"
	"github.com/vk/filtergrid/internal/metrics"
	"github.com/vk/filtergrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	ctx      context.Context
	config   *Config
	registry *registry.Registry
	loader   *config.MultiLoader

	mu       sync.Mutex
	pipeline *config.Pipeline

	tracer     trace.Tracer
	promReg    *prometheus.Registry
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// metrics registry. Failing to load the pipeline description is a fatal
// startup error and panics.
func NewApp(outW io.Writer, cfg *Config, loader *config.MultiLoader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with Go filters.
	if len(modules) == 0 {
		modules = CoreModules
	}
	reg := registry.NewWithModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", reg.Kinds())

	// Validate the integrity of the registry.
	if err := reg.ValidateRegistry(ctx); err != nil {
		// This is a programmer error (a broken filter module), so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	// Load the description into the format-agnostic model.
	pipeline, err := loader.Load(ctx, cfg.PipelinePaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load pipeline: %w", err))
	}
	logger.Debug("Pipeline loaded into unified model.", "stages", len(pipeline.Stages))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &App{
		outW:     outW,
		logger:   logger,
		ctx:      ctx,
		config:   cfg,
		registry: reg,
		loader:   loader,
		pipeline: pipeline,
		promReg:  promReg,
		metrics:  metrics.New(promReg),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Pipeline returns the currently loaded description.
func (a *App) Pipeline() *config.Pipeline {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pipeline
}

// reload reads the description files again. The previous description is
// kept when loading fails.
func (a *App) reload(ctx context.Context) (*config.Pipeline, error) {
	p, err := a.loader.Load(ctx, a.config.PipelinePaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload pipeline: %w", err)
	}
	a.mu.Lock()
	a.pipeline = p
	a.mu.Unlock()
	return p, nil
}

func (a *App) executorOptions() []executor.Option {
	opts := []executor.Option{executor.WithMetrics(a.metrics)}
	if a.tracer != nil {
		opts = append(opts, executor.WithTracer(a.tracer))
	}
	return opts
}

func (a *App) buildOptions() []builder.Option {
	if a.config.GridRows > 0 && a.config.GridCols > 0 {
		return []builder.Option{builder.WithGridSize(a.config.GridRows, a.config.GridCols)}
	}
	return nil
}
