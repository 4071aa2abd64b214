package hcl_adapter

import (
	"sort"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/stage"
)

// Write renders p as canonical HCL. Source records are omitted and
// parameters are written in lexical order.
func Write(p *config.Pipeline) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	first := true
	for _, d := range p.Stages {
		if stage.IsSourceName(d.Name) {
			continue
		}
		if !first {
			body.AppendNewline()
		}
		first = false

		blk := body.AppendNewBlock("stage", []string{d.Kind, d.Name}).Body()
		if d.Input0 != "" {
			blk.SetAttributeValue("input_0", cty.StringVal(d.Input0))
		}
		if d.Input1 != "" && d.Input1 != stage.NoInput {
			blk.SetAttributeValue("input_1", cty.StringVal(d.Input1))
		}

		keys := make([]string, 0, len(d.Params))
		for k := range d.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			blk.SetAttributeValue(k, d.Params[k])
		}
	}
	return f.Bytes()
}
