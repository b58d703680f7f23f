/*
Package ppm reads the binary P6 rasters exchanged with the conversion
toolchain.

The reader is strict about the header boundary: the single whitespace
byte after the maxval ends the header and everything following it is
payload. General purpose PNM readers that keep scanning for comments
past that point swallow raster bytes that happen to match '#'.
*/
package ppm

import (
	"bufio"
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
)

var (
	errNotP6     = errors.New("ppm: not a binary P6 raster")
	errBadHeader = errors.New("ppm: malformed header")
	errBadSize   = errors.New("ppm: implausible dimensions")
	errMaxval    = errors.New("ppm: unsupported maxval")
)

// maxDimension bounds the accepted geometry so a corrupt header cannot
// ask for an absurd allocation.
const maxDimension = 1 << 14

// Decode reads a binary P6 raster from r. Header comments are honored
// up to the maxval; only a maxval of 255 is accepted, which is what the
// toolchain produces.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)

	var magic [2]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, errors.Wrap(err, "ppm: short header")
	}
	if magic[0] != 'P' || magic[1] != '6' {
		return nil, errNotP6
	}

	width, err := readNumber(br)
	if err != nil {
		return nil, err
	}
	height, err := readNumber(br)
	if err != nil {
		return nil, err
	}
	maxval, err := readNumber(br)
	if err != nil {
		return nil, err
	}

	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, errBadSize
	}
	if maxval != 255 {
		return nil, errMaxval
	}

	// The byte after the maxval ends the header, even when the payload
	// starts with '#' or whitespace.
	c, err := br.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "ppm: short header")
	}
	if !isSpace(c) {
		return nil, errBadHeader
	}

	payload := make([]byte, 3*width*height)
	if _, err := io.ReadFull(br, payload); err != nil {
		return nil, errors.Wrap(err, "ppm: short raster")
	}

	m := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := 3 * (y*width + x)
			m.SetRGBA(x, y, color.RGBA{
				R: payload[i],
				G: payload[i+1],
				B: payload[i+2],
				A: 0xff,
			})
		}
	}

	return m, nil
}

// readNumber skips whitespace and comments, then reads a decimal
// number, leaving its terminating byte unconsumed.
func readNumber(br *bufio.Reader) (int, error) {
	if err := skipSpace(br); err != nil {
		return 0, errors.Wrap(err, "ppm: short header")
	}

	n, digits := 0, 0
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "ppm: short header")
		}
		if c < '0' || c > '9' {
			br.UnreadByte()
			break
		}
		n = n*10 + int(c-'0')
		digits++
		if n > 1<<20 {
			return 0, errBadHeader
		}
	}
	if digits == 0 {
		return 0, errBadHeader
	}

	return n, nil
}

func skipSpace(br *bufio.Reader) error {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return err
		}
		if c == '#' {
			for c != '\n' && c != '\r' {
				if c, err = br.ReadByte(); err != nil {
					return err
				}
			}
			continue
		}
		if !isSpace(c) {
			return br.UnreadByte()
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
