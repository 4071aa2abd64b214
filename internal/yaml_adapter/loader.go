// Package yaml_adapter reads pipeline descriptions in YAML:
//
//	stages:
//	  - kind: box_blur
//	    name: soft
//	    input_0: GRAY
//	    params:
//	      radius: 2
package yaml_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/json_adapter"
	"github.com/vk/filtergrid/internal/stage"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

type document struct {
	Stages []record `yaml:"stages"`
}

type record struct {
	Kind   string         `yaml:"kind"`
	Name   string         `yaml:"name"`
	Input0 string         `yaml:"input_0"`
	Input1 string         `yaml:"input_1"`
	Params map[string]any `yaml:"params"`
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
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

// LoadBytes decodes an in-memory YAML description.
func (l *Loader) LoadBytes(ctx context.Context, raw []byte) (*config.Pipeline, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML pipeline: %w", err)
	}

	p := &config.Pipeline{}
	for _, r := range doc.Stages {
		d := &config.StageDescription{
			Kind:   r.Kind,
			Name:   r.Name,
			Input0: orNull(r.Input0),
			Input1: orNull(r.Input1),
		}
		// YAML values take the JSON route into cty so both formats infer
		// parameter types the same way.
		params := r.Params
		if params == nil {
			params = map[string]any{}
		}
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("stage %q: unsupported parameter value: %w", r.Name, err)
		}
		if d.Params, err = json_adapter.ParamsFromJSON(encoded); err != nil {
			return nil, fmt.Errorf("stage %q: %w", r.Name, err)
		}
		p.Stages = append(p.Stages, d)
	}
	ctxlog.FromContext(ctx).Debug("Decoded YAML pipeline.", "stages", len(p.Stages))
	return p, nil
}

func orNull(s string) string {
	if s == "" {
		return stage.NoInput
	}
	return s
}
