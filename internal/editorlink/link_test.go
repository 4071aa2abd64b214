package editorlink

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/filtergrid/internal/editor"
	"github.com/vk/filtergrid/internal/stage"
	"github.com/vk/filtergrid/internal/testutil"
)

type sent struct {
	event   string
	payload any
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recorder) emit(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{event, payload})
}

func (r *recorder) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

func newLink(t *testing.T, opts ...Option) (*Link, *recorder) {
	t.Helper()
	s := editor.New(testutil.NewRecorder().Registry())
	require.NoError(t, s.SetSourceImage(stage.Gray, testutil.GrayImage(1, 1, 7)))
	require.NoError(t, s.SetSourceImage(stage.Color, testutil.ColorImage(1, 1, 1, 2, 3, 255)))
	rec := &recorder{}
	return New(s, rec.emit, opts...), rec
}

func TestHandle_EditingFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var hooked []string
	l, _ := newLink(t, WithEvaluatedHook(func(_ context.Context, _ *editor.Session, done []string) {
		hooked = done
	}))

	// Payloads arrive as decoded JSON objects.
	event, body := l.Handle(ctx, EventAdd, map[string]any{"kind": testutil.UnaryKind, "row": 4.0, "col": 4.0})
	require.Equal(t, EventAdded, event, body)
	added := body.(addedReply)
	assert.Equal(t, "unary_1", added.Name)

	event, body = l.Handle(ctx, EventConnect, `{"producer":"GRAY","consumer":"unary_1","slot":0}`)
	require.Equal(t, EventConnected, event, body)
	assert.Equal(t, stage.Gray, body.(editor.Connection).Producer)

	event, body = l.Handle(ctx, EventRebuild, nil)
	require.Equal(t, EventGraph, event, body)
	assert.Equal(t, []string{stage.Color, stage.Gray, "unary_1"}, body.(graphReply).Order)

	event, body = l.Handle(ctx, EventEvaluate, nil)
	require.Equal(t, EventEvaluated, event, body)
	assert.Equal(t, []string{stage.Color, stage.Gray, "unary_1"}, body.(evaluatedReply).Stages)

	event, body = l.Handle(ctx, EventParams, map[string]any{"name": "unary_1", "params": map[string]any{"offset": 3}})
	require.Equal(t, EventEvaluated, event, body)
	assert.Equal(t, []string{"unary_1"}, body.(evaluatedReply).Stages)
	assert.Equal(t, []string{"unary_1"}, hooked)
}

func TestHandle_ErrorsAreReported(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, _ := newLink(t)

	tests := []struct {
		name    string
		event   string
		payload any
		want    string
	}{
		{"unknown event", "stage:explode", nil, "unknown event"},
		{"missing payload", EventAdd, nil, "missing payload"},
		{"malformed payload", EventMove, "{", "malformed payload"},
		{"unknown kind", EventAdd, map[string]any{"kind": "nope"}, "unknown filter kind"},
		{"source removal", EventRemove, map[string]any{"name": stage.Gray}, "source stages"},
		{"evaluate before build", EventEvaluate, nil, "not been built"},
		{"empty params", EventParams, map[string]any{"name": "x"}, "no parameters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			event, body := l.Handle(ctx, tc.event, tc.payload)
			require.Equal(t, EventError, event)
			reply := body.(errorReply)
			assert.Equal(t, tc.event, reply.Event)
			assert.Contains(t, reply.Error, tc.want)
		})
	}
}

func TestServe_RepliesInArrivalOrder(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	l, rec := newLink(t)

	l.Deliver(EventAdd, map[string]any{"kind": testutil.UnaryKind, "row": 3, "col": 3})
	l.Deliver(EventAdd, map[string]any{"kind": testutil.UnaryKind, "row": 3, "col": 3})
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()

	require.Eventually(t, func() bool { return len(rec.all()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	got := rec.all()
	assert.Equal(t, EventAdded, got[0].event)
	assert.Equal(t, EventError, got[1].event, "second add hits the occupied cell")
}
