package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/vk/filtergrid/internal/builder"
	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/executor"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/imageio"
	"github.com/vk/filtergrid/internal/watch"
)

// Run executes the application: a single pass over the pipeline, followed by
// watching the description files or serving an editor when configured.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	if a.config.Trace {
		tracer, shutdown, err := a.initTracer()
		if err != nil {
			return err
		}
		a.tracer = tracer
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				a.logger.Error("Tracer shutdown failed.", "error", err)
			}
		}()
	}

	sources, err := a.loadSources(ctx)
	if err != nil {
		return err
	}

	if a.config.EditorURL != "" {
		return a.runEditor(ctx, sources)
	}

	if _, err := a.RunOnce(ctx, a.Pipeline(), sources); err != nil {
		if !a.config.Watch {
			return err
		}
		a.logger.Error("Pipeline run failed, waiting for changes.", "error", err)
	}
	if !a.config.Watch {
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	w, err := a.newWatcher(func(ctx context.Context) error {
		p, err := a.reload(ctx)
		if err != nil {
			return err
		}
		_, err = a.RunOnce(ctx, p, sources)
		return err
	})
	if err != nil {
		return err
	}
	a.logger.Info("Watching pipeline description for changes.")
	return w.Run(ctx)
}

// RunOnce builds p, evaluates it when sources are given and writes the
// terminal outputs when an output directory is configured.
func (a *App) RunOnce(ctx context.Context, p *config.Pipeline, sources *imageio.Sources) (*graph.Graph, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctx, logger := ctxlog.With(ctx, "run", uuid.NewString())

	g, err := builder.Build(ctx, p, a.registry, a.buildOptions()...)
	a.metrics.ObserveRebuild(len(p.Stages), err)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline graph: %w", err)
	}
	logger.Info("Pipeline graph built.", "stages", g.Len(), "order", g.Order())

	if sources == nil {
		logger.Warn("No source image configured, evaluation skipped.")
		return g, nil
	}
	if err := sources.Attach(ctx, g); err != nil {
		return nil, err
	}

	logger.Info("Starting evaluation...")
	done, err := executor.New(g, a.executorOptions()...).EvaluateAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	logger.Info("Evaluation finished.", "evaluated", len(done))

	if err := a.writeOutputs(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (a *App) writeOutputs(ctx context.Context, g *graph.Graph) error {
	if a.config.OutputDir == "" {
		return nil
	}
	if _, err := imageio.WriteTerminals(ctx, g, a.config.OutputDir); err != nil {
		return fmt.Errorf("failed to write outputs: %w", err)
	}
	return nil
}

func (a *App) loadSources(ctx context.Context) (*imageio.Sources, error) {
	if a.config.ImagePath == "" {
		return nil, nil
	}
	s, err := imageio.LoadSources(ctx, a.config.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load source image: %w", err)
	}
	return s, nil
}

// newWatcher watches every description file plus each configured directory,
// so files added to a directory are picked up too.
func (a *App) newWatcher(onChange func(ctx context.Context) error) (*watch.Watcher, error) {
	files, err := a.loader.Files(a.config.PipelinePaths...)
	if err != nil {
		return nil, err
	}
	var opts []watch.Option
	for _, path := range a.config.PipelinePaths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if info.IsDir() {
			opts = append(opts, watch.WithDirectory(path, a.loader.Extensions()...))
		}
	}
	if len(files) == 0 && len(opts) == 0 {
		return nil, errors.New("nothing to watch")
	}
	return watch.New(files, onChange, opts...)
}
