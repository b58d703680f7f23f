package toolchain

import (
	"fmt"
	"log"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
)

// Defaults for the raster produced by Magick. The geometry matches the
// MEGA65 320x200 bitmap screen and the color ceiling its 7 bitplane IFF
// output.
const (
	defaultWidth  = 320
	defaultHeight = 200
	defaultColors = 128
)

// Magick shells out to ImageMagick's convert to resize and recolor an
// arbitrary image into a PPM raster. Undersized images are centered on a
// black canvas so the output geometry is always exact.
type Magick struct {
	Bin    string
	Width  int
	Height int
	Colors int
	Logger *log.Logger
}

func (m Magick) bin() string {
	if m.Bin != "" {
		return m.Bin
	}
	return "convert"
}

func (m Magick) geometry() string {
	w, h := m.Width, m.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return fmt.Sprintf("%dx%d", w, h)
}

func (m Magick) colors() int {
	if m.Colors != 0 {
		return m.Colors
	}
	return defaultColors
}

func (m Magick) args(src, dest string) []string {
	return []string{
		"-units", "PixelsPerInch",
		src,
		"-resize", m.geometry(),
		"-background", "black",
		"-gravity", "center",
		"-extent", m.geometry(),
		"+dither",
		"-colors", strconv.Itoa(m.colors()),
		"-depth", "7",
		"-density", "72",
		dest,
	}
}

// Convert renders src into dest.
func (m Magick) Convert(src, dest string) error {
	args := m.args(src, dest)
	logCommand(m.Logger, m.bin(), args)

	if out, err := exec.Command(m.bin(), args...).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "toolchain: convert: %s", firstLine(out))
	}
	return nil
}
