package mega65

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jbuchbinder/gopnm"
	"github.com/pkg/errors"

	"github.com/mega65-c65/MEGA65-image-converter/basic"
	"github.com/mega65-c65/MEGA65-image-converter/d81"
	"github.com/mega65-c65/MEGA65-image-converter/depth"
	"github.com/mega65-c65/MEGA65-image-converter/ilbm"
	"github.com/mega65-c65/MEGA65-image-converter/ppm"
)

// Job describes one conversion.
type Job struct {
	Image   string // source image path
	Disk    string // disk name, extended with .d81 for the image path
	Loader  bool   // generate and ship the BASIC loader
	Preview bool   // render an upscaled preview PNG
}

// Run drives one image through the pipeline: raster conversion, bitmap
// encoding with the conditional depth reduction, disk authoring and the
// optional loader and preview.
func (c *Converter) Run(job Job) error {
	if job.Image == "" {
		return errors.New("no input image")
	}
	if job.Disk == "" {
		return errors.New("no disk name")
	}

	names := DeriveFilenames(job.Image)
	if job.Loader && names.LoaderEntry() == names.BitmapEntry() {
		return errors.Errorf("bitmap and loader would share the directory entry %s", names.BitmapEntry())
	}

	fmt.Fprintf(c.out, "Converting %s to a %dx%d raster...\n", job.Image, ScreenWidth, ScreenHeight)
	if err := c.tools.Raster.Convert(job.Image, names.PPM); err != nil {
		return errors.Wrap(err, "raster conversion failed")
	}
	if err := ensureFile(names.PPM); err != nil {
		return err
	}

	count, counted, err := c.encodeBitmap(names)
	if err != nil {
		return err
	}

	reduced := false
	if counted {
		fmt.Fprintf(c.out, "Encoder found %d colors.\n", count)
		if count >= MaxColors {
			fmt.Fprintf(c.out, "Reducing to %d levels per channel...\n", depth.Levels)
			if err := c.reduceDepth(names.PPM); err != nil {
				return err
			}
			if _, _, err := c.encodeBitmap(names); err != nil {
				return err
			}
			reduced = true
		}
	} else {
		c.logger.Printf("no color count in encoder diagnostics\n")
	}

	disk := DiskImage(job.Disk)
	fmt.Fprintf(c.out, "Writing %s to %s...\n", names.BitmapEntry(), disk)
	if err := c.tools.Disk.Add(disk, DiskName(job.Disk), names.BitmapEntry(), names.IFF); err != nil {
		return errors.Wrap(err, "disk authoring failed")
	}
	if err := c.verifyDisk(disk); err != nil {
		return err
	}

	if job.Loader {
		if err := c.writeLoader(names, filepath.Base(job.Disk)); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Writing %s to %s...\n", names.LoaderEntry(), disk)
		if err := c.tools.Disk.Add(disk, DiskName(job.Disk), names.LoaderEntry(), names.PRG); err != nil {
			return errors.Wrap(err, "disk authoring failed")
		}
	}

	if job.Preview {
		if err := writePreview(names.PPM, names.Preview); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Preview written to %s.\n", names.Preview)
	}

	if c.history != nil {
		if err := c.recordRun(job, names, count, counted, reduced); err != nil {
			// The conversion itself succeeded, so a catalog problem is
			// only worth a warning.
			c.logger.Printf("history: %v\n", err)
		}
	}

	fmt.Fprintf(c.out, "Done. %s is ready.\n", disk)
	return nil
}

// encodeBitmap runs the IFF encoder, checks the result is a plausible
// bitmap and extracts the color count from the encoder's diagnostics.
func (c *Converter) encodeBitmap(names Filenames) (int, bool, error) {
	fmt.Fprintf(c.out, "Encoding %s as IFF...\n", names.PPM)
	diag, err := c.tools.Bitmap.Encode(names.PPM, names.IFF)
	if err != nil {
		return 0, false, errors.Wrap(err, "bitmap encoding failed")
	}
	if err := ensureFile(names.IFF); err != nil {
		return 0, false, err
	}

	f, err := os.Open(names.IFF)
	if err != nil {
		return 0, false, err
	}
	cfg, err := ilbm.DecodeConfig(f)
	f.Close()
	if err != nil {
		return 0, false, errors.Wrapf(err, "%s is not a usable bitmap", names.IFF)
	}
	if cfg.Width != ScreenWidth || cfg.Height != ScreenHeight || cfg.Planes != Bitplanes {
		return 0, false, errors.Errorf("%s is %dx%d with %d planes instead of %dx%d with %d",
			names.IFF, cfg.Width, cfg.Height, cfg.Planes, ScreenWidth, ScreenHeight, Bitplanes)
	}
	c.logger.Printf("%s: %dx%d, %d planes\n", names.IFF, cfg.Width, cfg.Height, cfg.Planes)

	count, counted := ilbm.ParseColorCount(diag)
	return count, counted, nil
}

// reduceDepth rewrites the raster with every channel quantized to the
// MEGA65 palette resolution.
func (c *Converter) reduceDepth(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	m, err := ppm.Decode(f)
	f.Close()
	if err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pnm.Encode(out, depth.Reduce(m), pnm.PPM); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (c *Converter) writeLoader(names Filenames, disk string) error {
	fmt.Fprintf(c.out, "Generating BASIC loader %s...\n", names.BAS)
	f, err := os.Create(names.BAS)
	if err != nil {
		return err
	}
	l := basic.Loader{
		Bitmap: names.BitmapEntry(),
		Disk:   disk,
	}
	if _, err := l.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := c.tools.Tokenizer.Tokenize(names.BAS, names.PRG); err != nil {
		return errors.Wrap(err, "loader tokenization failed")
	}
	return ensureFile(names.PRG)
}

func (c *Converter) verifyDisk(path string) error {
	if err := ensureFile(path); err != nil {
		return err
	}
	info, err := d81.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "%s is not a usable disk image", path)
	}
	fmt.Fprintf(c.out, "Disk image %s is labelled \"%s\".\n", path, info.Name)
	return nil
}

func (c *Converter) recordRun(job Job, names Filenames, count int, counted, reduced bool) error {
	sha, err := hashFile(job.Image)
	if err != nil {
		return err
	}

	var colors sql.NullInt64
	if counted {
		colors.Int64 = int64(count)
		colors.Valid = true
	}

	conv := Conversion{
		SHA1:    sha,
		Source:  job.Image,
		Colors:  colors,
		Reduced: reduced,
		Bitmap:  names.IFF,
		Disk:    DiskImage(job.Disk),
	}
	if job.Loader {
		conv.Loader = names.PRG
	}
	return c.history.Record(conv)
}

// ensureFile guards against tools that exit zero without producing their
// output.
func ensureFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "%s was not created", path)
	}
	if info.Size() == 0 {
		return errors.Errorf("%s is empty", path)
	}
	return nil
}
