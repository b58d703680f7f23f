/*
Package mega65 converts arbitrary images into MEGA65-ready IFF bitmaps
and packages them onto D81 disk images, optionally together with a
BASIC65 loader program.

The heavy lifting is delegated to the classic conversion toolchain
behind narrow interfaces so any step can be swapped for an in-process
implementation or a test double.
*/
package mega65

import (
	"io"
	"io/ioutil"
	"log"
)

// Geometry and palette ceiling of the MEGA65 bitmap screen the converted
// images target.
const (
	ScreenWidth  = 320
	ScreenHeight = 200
	Bitplanes    = 7
	MaxColors    = 1 << Bitplanes
)

// RasterConverter renders an arbitrary source image into a PPM raster
// sized for the bitmap screen with at most MaxColors colors.
type RasterConverter interface {
	Convert(src, dest string) error
}

// BitmapEncoder encodes a PPM raster into an IFF ILBM bitmap, returning
// whatever diagnostics the encoder printed.
type BitmapEncoder interface {
	Encode(src, dest string) (string, error)
}

// DiskAuthor writes a file into a D81 disk image under the given
// directory entry, creating the image when it does not exist yet.
type DiskAuthor interface {
	Add(image, name, entry, file string) error
}

// Tokenizer converts BASIC source into a runnable PRG.
type Tokenizer interface {
	Tokenize(src, dest string) error
}

// Toolchain groups the four capabilities a conversion needs.
type Toolchain struct {
	Raster    RasterConverter
	Bitmap    BitmapEncoder
	Disk      DiskAuthor
	Tokenizer Tokenizer
}

// Converter drives images through the conversion pipeline.
type Converter struct {
	tools   Toolchain
	history *History
	logger  *log.Logger
	out     io.Writer
}

// New returns a Converter using the given toolchain. history may be nil
// to skip cataloguing; logger and out, which receive diagnostics and
// user-facing progress, may each be nil to silence them.
func New(tools Toolchain, history *History, logger *log.Logger, out io.Writer) *Converter {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	if out == nil {
		out = ioutil.Discard
	}
	return &Converter{
		tools:   tools,
		history: history,
		logger:  logger,
		out:     out,
	}
}

// Close releases the history catalog, if one is attached.
func (c *Converter) Close() error {
	if c.history == nil {
		return nil
	}
	return c.history.Close()
}
