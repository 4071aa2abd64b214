package stage

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is an interleaved 8-bit image owned by exactly one stage.
// Channels is 1 for gray data and 4 for RGBA data.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// Reset resizes the buffer, reusing the backing array when it is large
// enough. The pixel contents are unspecified afterwards.
func (b *Buffer) Reset(width, height, channels int) {
	n := width * height * channels
	if cap(b.Pix) < n {
		b.Pix = make([]uint8, n)
	}
	b.Pix = b.Pix[:n]
	b.Width, b.Height, b.Channels = width, height, channels
}

// Empty reports whether the buffer holds no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.Width == 0 || b.Height == 0
}

// CopyFrom makes b an exact copy of src.
func (b *Buffer) CopyFrom(src *Buffer) {
	b.Reset(src.Width, src.Height, src.Channels)
	copy(b.Pix, src.Pix)
}

// Offset returns the index of the first channel of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * b.Channels
}

// Luma returns the gray value of pixel (x, y).
func (b *Buffer) Luma(x, y int) uint8 {
	i := b.Offset(x, y)
	if b.Channels == 1 {
		return b.Pix[i]
	}
	return luma(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
}

// RGBA returns pixel (x, y) expanded to four channels.
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	if b.Channels == 1 {
		v := b.Pix[i]
		return v, v, v, 0xff
	}
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Image wraps the buffer in an image.Image without copying.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Channels == 1 {
		return &image.Gray{Pix: b.Pix, Stride: b.Width, Rect: rect}
	}
	return &image.NRGBA{Pix: b.Pix, Stride: b.Width * 4, Rect: rect}
}

// FromImage converts any image into a buffer with the given channel count.
func FromImage(img image.Image, channels int) (*Buffer, error) {
	if channels != 1 && channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	bounds := img.Bounds()
	buf := &Buffer{}
	buf.Reset(bounds.Dx(), bounds.Dy(), channels)
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := buf.Offset(x, y)
			if channels == 1 {
				buf.Pix[i] = luma(c.R, c.G, c.B)
				continue
			}
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return buf, nil
}

// luma uses the Rec. 601 weights in 16.16 fixed point.
func luma(r, g, b uint8) uint8 {
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16)
}
