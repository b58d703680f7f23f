/*
Package ilbm reads just enough of the IFF ILBM container to validate the
bitmaps produced by ppmtoilbm, and understands the diagnostics the tool
prints while encoding.
*/
package ilbm

import (
	"encoding/binary"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	errNotIFF  = errors.New("ilbm: not an IFF FORM")
	errNotILBM = errors.New("ilbm: FORM does not contain an ILBM")
	errNoBMHD  = errors.New("ilbm: missing BMHD chunk")
	errBadBMHD = errors.New("ilbm: short BMHD chunk")
)

// bmhdSize is the fixed payload size of the BMHD chunk.
const bmhdSize = 20

// Config holds the dimensions and plane count declared by a bitmap's BMHD
// chunk.
type Config struct {
	Width  int
	Height int
	Planes int
}

// Colors returns the palette size implied by the plane count.
func (c Config) Colors() int {
	return 1 << uint(c.Planes)
}

// DecodeConfig reads the FORM header and BMHD chunk from r without
// decoding any image data.
func DecodeConfig(r io.Reader) (Config, error) {
	var form [12]byte
	if _, err := io.ReadFull(r, form[:]); err != nil {
		return Config{}, errors.Wrap(err, "ilbm: short header")
	}
	if string(form[0:4]) != "FORM" {
		return Config{}, errNotIFF
	}
	if string(form[8:12]) != "ILBM" {
		return Config{}, errNotILBM
	}

	remaining := int64(binary.BigEndian.Uint32(form[4:8])) - 4
	for remaining >= 8 {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return Config{}, errors.Wrap(err, "ilbm: truncated chunk")
		}
		size := int64(binary.BigEndian.Uint32(chunk[4:8]))

		if string(chunk[0:4]) == "BMHD" {
			if size < bmhdSize {
				return Config{}, errBadBMHD
			}
			var bmhd [bmhdSize]byte
			if _, err := io.ReadFull(r, bmhd[:]); err != nil {
				return Config{}, errors.Wrap(err, "ilbm: truncated chunk")
			}
			return Config{
				Width:  int(binary.BigEndian.Uint16(bmhd[0:2])),
				Height: int(binary.BigEndian.Uint16(bmhd[2:4])),
				Planes: int(bmhd[8]),
			}, nil
		}

		// Chunks are word aligned
		if size&1 == 1 {
			size++
		}
		if _, err := io.CopyN(ioutil.Discard, r, size); err != nil {
			return Config{}, errors.Wrap(err, "ilbm: truncated chunk")
		}
		remaining -= 8 + size
	}

	return Config{}, errNoBMHD
}

// countMarker is the phrase ppmtoilbm prints alongside the size of the
// palette it built.
const countMarker = "colors found"

// ParseColorCount extracts the palette size from ppmtoilbm's diagnostic
// output. The token immediately before the marker is taken as the count;
// the second return is false when the output carries no usable count.
func ParseColorCount(diag string) (int, bool) {
	i := strings.Index(diag, countMarker)
	if i < 0 {
		return 0, false
	}
	fields := strings.Fields(diag[:i])
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
