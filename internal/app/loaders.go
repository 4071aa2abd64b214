package app

import (
	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/hcl_adapter"
	"github.com/vk/filtergrid/internal/json_adapter"
	"github.com/vk/filtergrid/internal/yaml_adapter"
)

// DefaultLoader reads HCL, YAML and JSON pipeline descriptions.
func DefaultLoader() *config.MultiLoader {
	return config.NewMultiLoader(
		hcl_adapter.NewLoader(),
		yaml_adapter.NewLoader(),
		json_adapter.NewLoader(),
	)
}
