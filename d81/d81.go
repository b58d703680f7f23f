/*
Package d81 validates the 3.5" disk images produced by cc1541.

A D81 file is a raw dump of a 1581 disk: 80 tracks of 40 sectors of 256
bytes each. The header sector on track 40 carries the disk name padded
with shifted spaces and the DOS format marker.
*/
package d81

import (
	"os"

	"github.com/pkg/errors"
)

const (
	Tracks          = 80
	SectorsPerTrack = 40
	SectorSize      = 256

	// Size is the exact byte size of every D81 image.
	Size = Tracks * SectorsPerTrack * SectorSize

	headerTrack  = 40
	headerOffset = (headerTrack - 1) * SectorsPerTrack * SectorSize

	nameOffset = 0x04
	nameLength = 16

	formatMarker = 'D'
	padByte      = 0xa0
)

var (
	errWrongSize = errors.New("d81: image is wrong size")
	errBadHeader = errors.New("d81: malformed header sector")
)

// Info describes the header sector of a disk image.
type Info struct {
	Name string
}

// Stat reads the header sector of the image at path and returns the disk
// name recorded there.
func Stat(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	if fi.Size() != Size {
		return Info{}, errWrongSize
	}

	var header [SectorSize]byte
	if _, err := f.ReadAt(header[:], headerOffset); err != nil {
		return Info{}, err
	}

	if header[0x02] != formatMarker {
		return Info{}, errBadHeader
	}

	name := header[nameOffset : nameOffset+nameLength]
	n := len(name)
	for n > 0 && (name[n-1] == padByte || name[n-1] == 0) {
		n--
	}

	return Info{
		Name: string(name[:n]),
	}, nil
}
