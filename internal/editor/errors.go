package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrConnect is returned when a connection request is invalid.
	ErrConnect = errors.New("connect error")
	// ErrUnknownStage is returned for a name the session does not hold.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrUnknownKind is returned when no filter is registered for a kind.
	ErrUnknownKind = errors.New("unknown filter kind")
	// ErrSourceStage is returned when an edit targets COLOR or GRAY.
	ErrSourceStage = errors.New("source stages cannot be edited")
	// ErrUnknownConnection is returned for an unknown connection id.
	ErrUnknownConnection = errors.New("unknown connection")
	// ErrNoGraph is returned when evaluating before the first successful
	// rebuild.
	ErrNoGraph = errors.New("pipeline has not been built")
	// ErrStaleGraph is returned when evaluating after structural edits that
	// have not been rebuilt yet.
	ErrStaleGraph = errors.New("pipeline changed since the last rebuild")
)

// ConnectError describes a rejected connection.
type ConnectError struct {
	Producer string
	Consumer string
	Slot     int
	Reason   string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%s: %s -> %s[%d]: %s", ErrConnect, e.Producer, e.Consumer, e.Slot, e.Reason)
}

func (e *ConnectError) Unwrap() error { return ErrConnect }
