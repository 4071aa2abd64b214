package testutil

import (
	"github.com/vk/filtergrid/internal/config"
	"github.com/vk/filtergrid/internal/stage"
)

// Desc is a shorthand for a stage description. Missing inputs are "NULL".
func Desc(name, kind string, inputs ...string) *config.StageDescription {
	d := &config.StageDescription{Kind: kind, Name: name, Input0: stage.NoInput, Input1: stage.NoInput}
	if len(inputs) > 0 {
		d.Input0 = inputs[0]
	}
	if len(inputs) > 1 {
		d.Input1 = inputs[1]
	}
	return d
}

// Pipeline wraps descriptions into a pipeline.
func Pipeline(descs ...*config.StageDescription) *config.Pipeline {
	return &config.Pipeline{Stages: descs}
}

// Diamond returns A→B, A→C, B→D, C→D with A reading GRAY.
func Diamond() *config.Pipeline {
	return Pipeline(
		Desc("A", UnaryKind, stage.Gray),
		Desc("B", UnaryKind, "A"),
		Desc("C", UnaryKind, "A"),
		Desc("D", BinaryKind, "B", "C"),
	)
}

// GrayImage returns a w×h single-channel buffer filled with v.
func GrayImage(w, h int, v uint8) *stage.Buffer {
	b := &stage.Buffer{}
	b.Reset(w, h, 1)
	for i := range b.Pix {
		b.Pix[i] = v
	}
	return b
}

// ColorImage returns a w×h RGBA buffer filled with the given color.
func ColorImage(w, h int, r, g, bl, a uint8) *stage.Buffer {
	b := &stage.Buffer{}
	b.Reset(w, h, 4)
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = r, g, bl, a
	}
	return b
}
