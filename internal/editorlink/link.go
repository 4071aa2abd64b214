// Package editorlink connects an editor Session to an external presentation
// layer over socket.io. Events from the presentation layer are applied to the
// session one at a time and answered with reply events.
package editorlink

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/editor"
)

// DefaultConnectTimeout bounds the wait for the initial connection.
const DefaultConnectTimeout = 15 * time.Second

// Config describes the presentation layer endpoint.
type Config struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// EvaluatedHook runs after every successful evaluation triggered by the
// presentation layer.
type EvaluatedHook func(ctx context.Context, s *editor.Session, evaluated []string)

// Link dispatches presentation layer events to one session.
type Link struct {
	session  *editor.Session
	emit     func(event string, payload any)
	inbox    chan message
	onEvalFn EvaluatedHook
}

type message struct {
	event   string
	payload any
}

// Option configures a Link.
type Option func(*Link)

// WithEvaluatedHook registers fn to run after each successful evaluation.
func WithEvaluatedHook(fn EvaluatedHook) Option {
	return func(l *Link) { l.onEvalFn = fn }
}

// New creates a link for session that sends replies through emit.
func New(session *editor.Session, emit func(event string, payload any), opts ...Option) *Link {
	l := &Link{
		session: session,
		emit:    emit,
		inbox:   make(chan message, 64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dial connects to the presentation layer and serves its events until ctx is
// cancelled.
func Dial(ctx context.Context, cfg Config, session *editor.Session, opts ...Option) error {
	logger := ctxlog.FromContext(ctx).With("component", "editorlink", "url", cfg.URL)
	ctx = ctxlog.WithLogger(ctx, logger)

	io, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info("Disconnecting from editor.", "sid", io.Id())
		io.Disconnect()
	}()

	l := New(session, func(event string, payload any) {
		io.Emit(event, payload)
	}, opts...)
	for _, event := range Events {
		event := event
		io.On(types.EventName(event), func(args ...any) {
			var payload any
			if len(args) > 0 {
				payload = args[0]
			}
			l.Deliver(event, payload)
		})
	}
	logger.Info("Editor link established.", "sid", io.Id(), "session", session.ID())
	return l.Serve(ctx)
}

func connect(ctx context.Context, cfg Config) (*socket.Socket, error) {
	logger := ctxlog.FromContext(ctx)

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse editor URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("editor URL %q needs a scheme and a host", cfg.URL)
	}

	opts := socket.DefaultOptions()
	if parsed.Path != "" {
		opts.SetPath(parsed.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Editor link connected.", "sid", io.Id())
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})

	logger.Debug("Connecting to editor...")
	io.Connect()

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for editor connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for editor connection", timeout)
	}
}

// Deliver queues an event for Serve. It never blocks the socket callback;
// when the inbox is full the event is dropped and reported.
func (l *Link) Deliver(event string, payload any) {
	select {
	case l.inbox <- message{event: event, payload: payload}:
	default:
		l.emit(EventError, errorReply{Event: event, Error: "editor link is busy, event dropped"})
	}
}

// Serve applies queued events in arrival order until ctx is cancelled.
func (l *Link) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-l.inbox:
			reply, body := l.Handle(ctx, m.event, m.payload)
			if reply != "" {
				l.emit(reply, body)
			}
		}
	}
}
