package editorlink

import (
	"encoding/json"
	"fmt"

	"github.com/vk/filtergrid/internal/editor"
)

// Events received from the presentation layer.
const (
	EventAdd        = "stage:add"
	EventRemove     = "stage:remove"
	EventMove       = "stage:move"
	EventConnect    = "stage:connect"
	EventDisconnect = "stage:disconnect"
	EventParams     = "stage:params"
	EventRebuild    = "pipeline:rebuild"
	EventEvaluate   = "pipeline:evaluate"
)

// Events sent back.
const (
	EventAdded     = "stage:added"
	EventConnected = "connection:added"
	EventGraph     = "pipeline:graph"
	EventEvaluated = "pipeline:evaluated"
	EventError     = "editor:error"
)

// Events lists every event a Link listens for.
var Events = []string{
	EventAdd, EventRemove, EventMove, EventConnect,
	EventDisconnect, EventParams, EventRebuild, EventEvaluate,
}

type addRequest struct {
	Kind string `json:"kind"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type moveRequest struct {
	Name string `json:"name"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type connectRequest struct {
	Producer string `json:"producer"`
	Consumer string `json:"consumer"`
	Slot     int    `json:"slot"`
}

type disconnectRequest struct {
	ID string `json:"id"`
}

type paramsRequest struct {
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params"`
}

type addedReply struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

type graphReply struct {
	Stages      []editor.StageView  `json:"stages"`
	Connections []editor.Connection `json:"connections"`
	Order       []string            `json:"order,omitempty"`
}

type evaluatedReply struct {
	Stages []string `json:"stages"`
}

type errorReply struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// decode converts a socket.io payload into v. Payloads arrive either as
// decoded JSON values or as raw JSON text.
func decode(payload any, v any) error {
	var raw []byte
	switch p := payload.(type) {
	case nil:
		return fmt.Errorf("missing payload")
	case []byte:
		raw = p
	case string:
		raw = []byte(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("unreadable payload: %w", err)
		}
		raw = b
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}
