package toolchain

import (
	"bytes"
	"log"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// PPMToILBM shells out to netpbm's ppmtoilbm to encode a PPM raster as an
// IFF ILBM bitmap. The tool writes the bitmap to stdout and its color
// census to stderr, so the encoded file is assembled here and the
// diagnostics handed back to the caller.
type PPMToILBM struct {
	Bin    string
	Logger *log.Logger
}

func (p PPMToILBM) bin() string {
	if p.Bin != "" {
		return p.Bin
	}
	return "ppmtoilbm"
}

func (p PPMToILBM) args(src string) []string {
	return []string{"-aga", "-normal", "-fixplanes", "7", src}
}

// Encode converts src into dest and returns whatever the tool printed to
// stderr, whether or not it succeeded.
func (p PPMToILBM) Encode(src, dest string) (string, error) {
	args := p.args(src)
	logCommand(p.Logger, p.bin(), args)

	f, err := os.Create(dest)
	if err != nil {
		return "", err
	}

	var stderr bytes.Buffer
	cmd := exec.Command(p.bin(), args...)
	cmd.Stdout = f
	cmd.Stderr = &stderr

	err = cmd.Run()
	diag := stderr.String()

	if err != nil {
		f.Close()
		return diag, errors.Wrapf(err, "toolchain: ppmtoilbm: %s", firstLine(stderr.Bytes()))
	}
	if err := f.Close(); err != nil {
		return diag, err
	}

	return diag, nil
}
