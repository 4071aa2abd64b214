package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/stage"
)

const sample = `
stage "box_blur" "soft" {
  input_0 = "GRAY"
  radius  = 2
}

stage "blend" "mix" {
  input_0 = "soft"
  input_1 = "COLOR"
  alpha   = 0.25
}

stage "invert" "orphan" {
}
`

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := NewLoader().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, p.Stages, 3)
	soft := p.Stages[0]
	assert.Equal(t, "box_blur", soft.Kind)
	assert.Equal(t, "soft", soft.Name)
	assert.Equal(t, stage.Gray, soft.Input0)
	assert.Equal(t, stage.NoInput, soft.Input1)
	assert.True(t, soft.Params["radius"].Equals(cty.NumberIntVal(2)).True())

	mix := p.Stages[1]
	assert.Equal(t, stage.Color, mix.Input1)
	assert.True(t, mix.Params["alpha"].Equals(cty.NumberFloatVal(0.25)).True())

	assert.Equal(t, stage.NoInput, p.Stages[2].Input0)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := NewLoader()

	_, err := l.LoadBytes(ctx, []byte(`stage "x" {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL file broken.hcl")

	_, err = l.LoadBytes(ctx, []byte(`stage "x" {}`), "labels.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL file labels.hcl")

	_, err = l.LoadBytes(ctx, []byte("stage \"x\" \"y\" {\n  level = var.level\n}\n"), "vars.hcl")
	assert.ErrorContains(t, err, `parameter "level"`)
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p, err := NewLoader().LoadBytes(ctx, []byte(sample), "in.hcl")
	require.NoError(t, err)
	p.Stages = append([]*config.StageDescription{{Name: stage.Gray}}, p.Stages...)

	out := Write(p)
	again, err := NewLoader().LoadBytes(ctx, out, "out.hcl")

	require.NoError(t, err)
	assert.Equal(t, []string{"soft", "mix", "orphan"}, again.Names(), "sources are not serialized")
	assert.Equal(t, p.Stages[2].Input1, again.Stages[1].Input1)
	assert.True(t, again.Stages[0].Params["radius"].Equals(cty.NumberIntVal(2)).True())
	assert.Contains(t, string(out), `stage "box_blur" "soft" {`)
}
