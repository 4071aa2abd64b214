package app

import (
	"context"
	"fmt"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/editor"
	"github.com/vk/filtergrid/internal/editorlink"
	"github.com/vk/filtergrid/internal/imageio"
	"github.com/vk/filtergrid/internal/stage"
)

// NewSession creates an editor session preloaded with the current
// description and the source images.
func (a *App) NewSession(ctx context.Context, sources *imageio.Sources) (*editor.Session, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	opts := []editor.Option{
		editor.WithMetrics(a.metrics),
		editor.WithExecutorOptions(a.executorOptions()...),
	}
	if a.config.GridRows > 0 && a.config.GridCols > 0 {
		opts = append(opts, editor.WithGridSize(a.config.GridRows, a.config.GridCols))
	}
	s := editor.New(a.registry, opts...)
	if sources != nil {
		if err := s.SetSourceImage(stage.Color, sources.Color); err != nil {
			return nil, err
		}
		if err := s.SetSourceImage(stage.Gray, sources.Gray); err != nil {
			return nil, err
		}
	}
	if err := s.Load(ctx, a.Pipeline()); err != nil {
		return nil, fmt.Errorf("failed to load pipeline into editor: %w", err)
	}
	return s, nil
}

func (a *App) runEditor(ctx context.Context, sources *imageio.Sources) error {
	s, err := a.NewSession(ctx, sources)
	if err != nil {
		return err
	}
	ctx, logger := ctxlog.With(ctx, "session", s.ID())

	if sources != nil {
		if _, err := s.EvaluateAll(ctx); err != nil {
			logger.Error("Initial evaluation failed.", "error", err)
		} else if err := a.writeOutputs(ctx, s.Graph()); err != nil {
			logger.Error("Writing outputs failed.", "error", err)
		}
	}

	if a.config.Watch {
		w, err := a.newWatcher(func(ctx context.Context) error {
			p, err := a.reload(ctx)
			if err != nil {
				return err
			}
			return s.Load(ctx, p)
		})
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("Watcher stopped.", "error", err)
			}
		}()
	}

	cfg := editorlink.Config{URL: a.config.EditorURL, Namespace: a.config.EditorNamespace}
	return editorlink.Dial(ctx, cfg, s, editorlink.WithEvaluatedHook(
		func(ctx context.Context, s *editor.Session, _ []string) {
			if err := a.writeOutputs(ctx, s.Graph()); err != nil {
				ctxlog.FromContext(ctx).Error("Writing outputs failed.", "error", err)
			}
		},
	))
}
