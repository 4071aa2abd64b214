package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/graph"
	"github.com/vk/filtergrid/internal/metrics"
	"github.com/vk/filtergrid/internal/stage"
)

// Executor evaluates the stages of one graph.
type Executor struct {
	g       *graph.Graph
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures an Executor.
type Option func(*Executor)

// WithMetrics records evaluations in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithTracer replaces the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) { e.tracer = t }
}

// New creates an executor for g.
func New(g *graph.Graph, opts ...Option) *Executor {
	e := &Executor{g: g, tracer: otel.Tracer("filtergrid.executor")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph the executor evaluates.
func (e *Executor) Graph() *graph.Graph { return e.g }

// EvaluateAll evaluates every stage in the graph's order. It returns the
// names evaluated, in call order, including a failing stage.
func (e *Executor) EvaluateAll(ctx context.Context) ([]string, error) {
	order := e.g.Order()
	ctx, span := e.tracer.Start(ctx, "executor.EvaluateAll",
		trace.WithAttributes(attribute.Int("pipeline.stages", len(order))),
	)
	defer span.End()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Full evaluation started.", "stages", len(order))

	var done []string
	for _, name := range order {
		s, ok := e.g.Stage(ctx, name)
		if !ok {
			err := fmt.Errorf("%w: %q", ErrUnknownStage, name)
			return done, e.finish(span, metrics.ModeFull, err)
		}
		done = append(done, name)
		if err := e.evaluate(ctx, s); err != nil {
			return done, e.finish(span, metrics.ModeFull, err)
		}
	}

	logger.Debug("Full evaluation finished.", "evaluated", len(done))
	return done, e.finish(span, metrics.ModeFull, nil)
}

// EvaluateIncremental evaluates name and then recurses depth-first into its
// dependents, in the order they are listed. It returns the names evaluated,
// in call order; a stage reached twice appears twice.
func (e *Executor) EvaluateIncremental(ctx context.Context, name string) ([]string, error) {
	ctx, span := e.tracer.Start(ctx, "executor.EvaluateIncremental",
		trace.WithAttributes(attribute.String("pipeline.changed", name)),
	)
	defer span.End()

	if _, ok := e.g.Stage(ctx, name); !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownStage, name)
		return nil, e.finish(span, metrics.ModeIncremental, err)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Incremental evaluation started.", "changed", name)

	var done []string
	var visit func(string) error
	visit = func(n string) error {
		s, ok := e.g.Stage(ctx, n)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStage, n)
		}
		done = append(done, n)
		if err := e.evaluate(ctx, s); err != nil {
			return err
		}
		for _, d := range e.g.Dependents(n) {
			if err := visit(d); err != nil {
				return err
			}
		}
		return nil
	}

	err := visit(name)
	logger.Debug("Incremental evaluation finished.", "changed", name, "evaluated", len(done), "error", err)
	return done, e.finish(span, metrics.ModeIncremental, err)
}

// evaluate runs the filter of one stage against its inputs' current output.
func (e *Executor) evaluate(ctx context.Context, s *stage.Stage) error {
	ctx, span := e.tracer.Start(ctx, "executor.Stage",
		trace.WithAttributes(
			attribute.String("stage.name", s.Name),
			attribute.String("stage.kind", s.Kind),
		),
	)
	defer span.End()

	start := time.Now()
	err := e.invoke(ctx, s)
	e.metrics.ObserveStage(s.Kind, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ctxlog.FromContext(ctx).Error("Stage evaluation failed.", "stage", s.Name, "error", err)
		return err
	}
	ctxlog.FromContext(ctx).Debug("Stage evaluated.", "stage", s.Name, "duration", time.Since(start))
	return nil
}

func (e *Executor) invoke(ctx context.Context, s *stage.Stage) error {
	if s.Filter == nil {
		return &FilterError{Stage: s.Name, Kind: s.Kind, Err: errors.New("stage has no filter")}
	}
	inputs, err := e.g.Inputs(ctx, s)
	if err != nil {
		return &FilterError{Stage: s.Name, Kind: s.Kind, Err: err}
	}
	inv := &stage.Invocation{Stage: s.Name, Inputs: inputs, Output: s.Output()}
	if err := s.Filter.Evaluate(ctx, inv); err != nil {
		return &FilterError{Stage: s.Name, Kind: s.Kind, Err: err}
	}
	return nil
}

func (e *Executor) finish(span trace.Span, mode string, err error) error {
	e.metrics.ObserveRun(mode, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
