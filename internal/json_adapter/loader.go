// Package json_adapter reads pipeline descriptions in JSON.
//
// The document is either {"stages": [...]} or a bare array of records. A
// record carries kind, name, input_0 and input_1; every other key is an
// opaque filter parameter. A record naming COLOR or GRAY stands for the
// implicit source and needs no other field.
package json_adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/stage"
)

// Loader is the JSON implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new JSON pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

var reserved = map[string]bool{"kind": true, "name": true, "input_0": true, "input_1": true}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".json"}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	p, err := l.LoadBytes(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadBytes decodes an in-memory JSON description.
func (l *Loader) LoadBytes(ctx context.Context, raw []byte) (*config.Pipeline, error) {
	records, err := splitRecords(raw)
	if err != nil {
		return nil, err
	}

	p := &config.Pipeline{}
	for i, rec := range records {
		d, err := translate(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		p.Stages = append(p.Stages, d)
	}
	ctxlog.FromContext(ctx).Debug("Decoded JSON pipeline.", "stages", len(p.Stages))
	return p, nil
}

func splitRecords(raw []byte) ([]map[string]json.RawMessage, error) {
	var records []map[string]json.RawMessage
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("invalid pipeline array: %w", err)
		}
		return records, nil
	}
	var doc struct {
		Stages []map[string]json.RawMessage `json:"stages"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("invalid pipeline document: %w", err)
	}
	return doc.Stages, nil
}

func translate(rec map[string]json.RawMessage) (*config.StageDescription, error) {
	d := &config.StageDescription{Input0: stage.NoInput, Input1: stage.NoInput}
	fields := map[string]*string{"kind": &d.Kind, "name": &d.Name, "input_0": &d.Input0, "input_1": &d.Input1}
	for key, dst := range fields {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("field %q must be a string: %w", key, err)
		}
	}

	params := make(map[string]json.RawMessage)
	for key, raw := range rec {
		if !reserved[key] {
			params[key] = raw
		}
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	d.Params, err = ParamsFromJSON(encoded)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", d.Name, err)
	}
	return d, nil
}

// ParamsFromJSON converts a JSON object into a parameter set, inferring the
// cty type of every value.
func ParamsFromJSON(raw []byte) (map[string]cty.Value, error) {
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if !ty.IsObjectType() {
		return nil, fmt.Errorf("parameters must be an object, got %s", ty.FriendlyName())
	}
	val, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	out := make(map[string]cty.Value, len(ty.AttributeTypes()))
	for k, v := range val.AsValueMap() {
		out[k] = v
	}
	return out, nil
}
