/*
Package raster is the in-process counterpart to the ImageMagick
conversion step. It scales an arbitrary image to fit the MEGA65 bitmap
screen, centers it on a black canvas and caps the palette, producing the
same class of PPM raster the external tool would.
*/
package raster

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/jbuchbinder/gopnm"
	"github.com/pkg/errors"
)

const (
	defaultWidth  = 320
	defaultHeight = 200
	defaultColors = 128
)

// Converter renders images without shelling out. The zero value targets
// the 320x200 screen with a 128 color ceiling.
type Converter struct {
	Width  int
	Height int
	Colors int
	Blur   float32 // pre-quantization smoothing sigma, 0 disables
	Logger *log.Logger
}

func (c Converter) width() int {
	if c.Width != 0 {
		return c.Width
	}
	return defaultWidth
}

func (c Converter) height() int {
	if c.Height != 0 {
		return c.Height
	}
	return defaultHeight
}

func (c Converter) colors() int {
	if c.Colors != 0 {
		return c.Colors
	}
	return defaultColors
}

// Convert reads the image at src and writes the composed raster to dest
// as a PPM.
func (c Converter) Convert(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	m, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return errors.Wrapf(err, "raster: decoding %s", src)
	}

	if c.Logger != nil {
		c.Logger.Printf("rendering %s in process\n", src)
	}

	g, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := pnm.Encode(g, c.compose(m), pnm.PPM); err != nil {
		g.Close()
		return err
	}
	return g.Close()
}

func (c Converter) compose(m image.Image) image.Image {
	var out image.Image = c.fitScreen(m)

	if c.Blur > 0 {
		g := gift.New(gift.GaussianBlur(c.Blur))
		dst := image.NewRGBA(g.Bounds(out.Bounds()))
		g.Draw(dst, out)
		out = dst
	}

	canvas := imaging.New(c.width(), c.height(), color.NRGBA{A: 0xff})
	return c.palette(imaging.PasteCenter(canvas, out))
}

// fitScreen scales m to the largest size that fits the screen while
// keeping its aspect ratio, growing undersized images as well as
// shrinking large ones.
func (c Converter) fitScreen(m image.Image) image.Image {
	b := m.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return m
	}

	sx := float64(c.width()) / float64(b.Dx())
	sy := float64(c.height()) / float64(b.Dy())
	s := sx
	if sy < sx {
		s = sy
	}

	w := int(float64(b.Dx())*s + 0.5)
	if w < 1 {
		w = 1
	} else if w > c.width() {
		w = c.width()
	}
	h := int(float64(b.Dy())*s + 0.5)
	if h < 1 {
		h = 1
	} else if h > c.height() {
		h = c.height()
	}

	return imaging.Resize(m, w, h, imaging.Lanczos)
}

func (c Converter) palette(m image.Image) image.Image {
	// Images already under the ceiling are left untouched, matching the
	// external tool which only quantizes when it has to.
	if countColors(m, c.colors()) <= c.colors() {
		return m
	}

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(m.Bounds(), q.Quantize(make(color.Palette, 0, c.colors()), m))
	draw.Draw(pm, m.Bounds(), m, m.Bounds().Min, draw.Src)
	return pm
}

// countColors walks the image counting distinct colors, giving up once
// the count passes max.
func countColors(m image.Image, max int) int {
	colors := make(map[color.Color]struct{})
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[m.At(x, y)] = struct{}{}
			if len(colors) > max {
				return len(colors)
			}
		}
	}
	return len(colors)
}
