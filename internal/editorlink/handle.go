package editorlink

import (
	"context"
	"fmt"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/json_adapter"
)

// Handle applies one event to the session and returns the reply event and
// its body. Failures are answered with EventError.
func (l *Link) Handle(ctx context.Context, event string, payload any) (string, any) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Editor event received.", "event", event)

	reply, body, err := l.apply(ctx, event, payload)
	if err != nil {
		logger.Warn("Editor event rejected.", "event", event, "error", err)
		return EventError, errorReply{Event: event, Error: err.Error()}
	}
	return reply, body
}

func (l *Link) apply(ctx context.Context, event string, payload any) (string, any, error) {
	s := l.session
	switch event {
	case EventAdd:
		var req addRequest
		if err := decode(payload, &req); err != nil {
			return "", nil, err
		}
		name, err := s.AddStage(ctx, req.Kind, req.Row, req.Col)
		if err != nil {
			return "", nil, err
		}
		return EventAdded, addedReply{Name: name, Kind: req.Kind, Row: req.Row, Col: req.Col}, nil

	case EventRemove:
		var req nameRequest
		if err := decode(payload, &req); err != nil {
			return "", nil, err
		}
		if err := s.RemoveStage(ctx, req.Name); err != nil {
			return "", nil, err
		}
		return EventGraph, l.snapshot(), nil

	case EventMove:
		var req moveRequest
		if err := decode(payload, &req); err != nil {
			return "", nil, err
		}
		if err := s.MoveStage(ctx, req.Name, req.Row, req.Col); err != nil {
			return "", nil, err
		}
		return EventGraph, l.snapshot(), nil

	case EventConnect:
		var req connectRequest
		if err := decode(payload, &req); err != nil {
			return "", nil, err
		}
		c, err := s.Connect(ctx, req.Producer, req.Consumer, req.Slot)
		if err != nil {
			return "", nil, err
		}
		return EventConnected, c, nil

	case EventDisconnect:
		var req disconnectRequest
		if err := decode(payload, &req); err != nil {
			return "", nil, err
		}
		if err := s.Disconnect(ctx, req.ID); err != nil {
			return "", nil, err
		}
		return EventGraph, l.snapshot(), nil

	case EventParams:
		var req paramsRequest
		if err := decode(payload, &req); err != nil {
			return "", nil, err
		}
		if len(req.Params) == 0 {
			return "", nil, fmt.Errorf("stage %q: no parameters given", req.Name)
		}
		params, err := json_adapter.ParamsFromJSON(req.Params)
		if err != nil {
			return "", nil, err
		}
		if err := s.SetParameters(ctx, req.Name, params); err != nil {
			return "", nil, err
		}
		done, err := s.OnParameterChanged(ctx, req.Name)
		if err != nil {
			return "", nil, err
		}
		l.evaluated(ctx, done)
		return EventEvaluated, evaluatedReply{Stages: done}, nil

	case EventRebuild:
		if _, err := s.Rebuild(ctx); err != nil {
			return "", nil, err
		}
		return EventGraph, l.snapshot(), nil

	case EventEvaluate:
		done, err := s.EvaluateAll(ctx)
		if err != nil {
			return "", nil, err
		}
		l.evaluated(ctx, done)
		return EventEvaluated, evaluatedReply{Stages: done}, nil
	}
	return "", nil, fmt.Errorf("unknown event %q", event)
}

func (l *Link) snapshot() graphReply {
	r := graphReply{
		Stages:      l.session.Layout(),
		Connections: l.session.Connections(),
	}
	if g := l.session.Graph(); g != nil {
		r.Order = g.Order()
	}
	return r
}

func (l *Link) evaluated(ctx context.Context, done []string) {
	if l.onEvalFn != nil {
		l.onEvalFn(ctx, l.session, done)
	}
}
