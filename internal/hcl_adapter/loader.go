package hcl_adapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/ctxlog"
	"github.com/vk/filtergrid/internal/stage"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// fileRoot decodes the top-level blocks of a description file.
type fileRoot struct {
	Stages []*stageBlock `hcl:"stage,block"`
}

type stageBlock struct {
	Kind   string   `hcl:"kind,label"`
	Name   string   `hcl:"name,label"`
	Input0 *string  `hcl:"input_0,optional"`
	Input1 *string  `hcl:"input_1,optional"`
	Params hcl.Body `hcl:",remain"`
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return l.decode(ctx, file, path)
}

// LoadBytes parses an in-memory description; filename is used in
// diagnostics only.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename string) (*config.Pipeline, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, file, filename)
}

func (l *Loader) decode(ctx context.Context, file *hcl.File, filename string) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	p := &config.Pipeline{}
	for _, blk := range root.Stages {
		d, err := translateStage(blk)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		logger.Debug("Translated stage block.", "stage", d.Name, "kind", d.Kind, "params", len(d.Params))
		p.Stages = append(p.Stages, d)
	}
	return p, nil
}

func translateStage(blk *stageBlock) (*config.StageDescription, error) {
	d := &config.StageDescription{
		Kind:   blk.Kind,
		Name:   blk.Name,
		Input0: stage.NoInput,
		Input1: stage.NoInput,
		Params: map[string]cty.Value{},
	}
	if blk.Input0 != nil {
		d.Input0 = *blk.Input0
	}
	if blk.Input1 != nil {
		d.Input1 = *blk.Input1
	}

	attrs, diags := blk.Params.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("stage %q: %w", blk.Name, diags)
	}
	// Sorted so that the first reported error does not depend on map order.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("stage %q, parameter %q: %w", blk.Name, name, diags)
		}
		d.Params[name] = val
	}
	return d, nil
}
