package mega65

import (
	"path/filepath"
	"strings"

	"github.com/mega65-c65/MEGA65-image-converter/petscii"
)

// Filenames is the set of artifact paths derived from one source image.
// Every artifact lives alongside the source.
type Filenames struct {
	Image   string // source image as given
	PPM     string // intermediate raster
	IFF     string // encoded bitmap
	BAS     string // loader source
	PRG     string // tokenized loader
	Preview string // upscaled preview PNG

	base string
}

// DeriveFilenames maps a source image path onto the paths of everything
// the pipeline can produce from it. The final extension is stripped; a
// source without one keeps its whole name as the stem.
func DeriveFilenames(image string) Filenames {
	base := strings.TrimSuffix(image, filepath.Ext(image))
	return Filenames{
		Image:   image,
		PPM:     base + ".ppm",
		IFF:     base + ".iff",
		BAS:     base + ".bas",
		PRG:     base + ".prg",
		Preview: base + "_preview.png",
		base:    base,
	}
}

// BitmapEntry is the directory entry the encoded bitmap is stored under
// on disk. Long stems are cut back far enough for the extension to
// survive the directory's length limit, keeping the entry distinct from
// the bare-stem loader entry.
func (f Filenames) BitmapEntry() string {
	return entryName(f.base, ".IFF")
}

// LoaderEntry is the directory entry the tokenized loader is stored
// under on disk.
func (f Filenames) LoaderEntry() string {
	return petscii.Name(filepath.Base(f.base))
}

// entryName builds a directory entry from a path stem and an extension,
// truncating the stem rather than the extension when the two together
// exceed the limit.
func entryName(base, ext string) string {
	stem := petscii.Name(filepath.Base(base))
	if len(stem) > petscii.NameLength-len(ext) {
		stem = stem[:petscii.NameLength-len(ext)]
	}
	return stem + ext
}

// DiskImage appends the D81 extension to a disk name.
func DiskImage(disk string) string {
	return disk + ".d81"
}

// DiskName is the label recorded in the disk header. Only the final
// element of the name is used so host paths stay out of the directory.
func DiskName(disk string) string {
	return petscii.Name(filepath.Base(disk))
}
