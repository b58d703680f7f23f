package mega65

import (
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/mega65-c65/MEGA65-image-converter/ppm"
)

// previewScale doubles the raster so modern displays show it at a
// sensible size.
const previewScale = 2

// writePreview renders the final raster as an upscaled PNG. Nearest
// neighbor sampling keeps the reduced palette exact.
func writePreview(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	m, err := ppm.Decode(f)
	f.Close()
	if err != nil {
		return errors.Wrapf(err, "decoding %s", src)
	}

	b := m.Bounds()
	up := resize.Resize(uint(b.Dx()*previewScale), uint(b.Dy()*previewScale), m, resize.NearestNeighbor)

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := png.Encode(out, up); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
