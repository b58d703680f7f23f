/*
Package depth reduces full color rasters to the MEGA65 palette resolution
of four bits per channel.

Each 8-bit channel value is mapped onto the nearest lower of 16 evenly
spaced levels, all multiples of 17, so an already reduced image passes
through the reduction unchanged.
*/
package depth

import (
	"image"
	"image/color"
)

// Levels is the number of intensity levels each channel can hold after
// reduction.
const Levels = 16

const step = 255 / (Levels - 1)

// Quantize maps a single 8-bit channel value onto the reduced scale.
func Quantize(v uint8) uint8 {
	return uint8(int(v) * (Levels - 1) / 255 * step)
}

// Reduce returns a copy of m with every channel of every pixel quantized.
// The source image is left untouched; images in other color models are
// converted to RGB first.
func Reduce(m image.Image) *image.RGBA {
	b := m.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := m.At(x, y).RGBA()
			dst.SetRGBA(x, y, color.RGBA{
				R: Quantize(uint8(r >> 8)),
				G: Quantize(uint8(g >> 8)),
				B: Quantize(uint8(bl >> 8)),
				A: uint8(a >> 8),
			})
		}
	}
	return dst
}
