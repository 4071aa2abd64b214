package app

import (
	"github.com/vk/filtergrid/internal/registry"
	"github.com/vk/filtergrid/modules/blend"
	"github.com/vk/filtergrid/modules/box_blur"
	"github.com/vk/filtergrid/modules/difference"
	"github.com/vk/filtergrid/modules/invert"
	"github.com/vk/filtergrid/modules/scale"
	"github.com/vk/filtergrid/modules/threshold"
)

// CoreModules is the definitive list of all filter modules that are compiled
// into the filtergrid binary.
var CoreModules = []registry.Module{
	&invert.Module{},
	&threshold.Module{},
	&box_blur.Module{},
	&scale.Module{},
	&blend.Module{},
	&difference.Module{},
}
