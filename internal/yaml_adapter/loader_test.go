package yaml_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/filtergrid/internal/stage"
)

const sample = `
stages:
  - kind: box_blur
    name: soft
    input_0: GRAY
    params:
      radius: 2
  - kind: blend
    name: mix
    input_0: soft
    input_1: COLOR
    params:
      alpha: 0.5
      tags: [a, b]
`

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	p, err := NewLoader().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, p.Stages, 2)
	assert.Equal(t, stage.NoInput, p.Stages[0].Input1)
	assert.True(t, p.Stages[0].Params["radius"].Equals(cty.NumberIntVal(2)).True())
	assert.Equal(t, "COLOR", p.Stages[1].Input1)
	assert.True(t, p.Stages[1].Params["tags"].Type().IsTupleType())
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()
	_, err := NewLoader().LoadBytes(context.Background(), []byte("stages: {"))
	assert.ErrorContains(t, err, "invalid YAML pipeline")
}
