package config

import (
	"github.com/zclconf/go-cty/cty"
)

// Pipeline is the unified, format-agnostic representation of a persisted
// pipeline description.
type Pipeline struct {
	Stages []*StageDescription
}

// StageDescription is one persisted stage record. Input0 and Input1 hold
// producer names or "NULL". Params are passed to the filter untouched.
type StageDescription struct {
	Kind   string
	Name   string
	Input0 string
	Input1 string
	Params map[string]cty.Value
}

// Names returns the stage names in description order.
func (p *Pipeline) Names() []string {
	out := make([]string, 0, len(p.Stages))
	for _, s := range p.Stages {
		out = append(out, s.Name)
	}
	return out
}

// Append adds the stages of other after the stages of p.
func (p *Pipeline) Append(other *Pipeline) {
	if other == nil {
		return
	}
	p.Stages = append(p.Stages, other.Stages...)
}
