/*
Package basic generates the BASIC65 source for the loader program that
accompanies each converted bitmap. The source is plain text; petcat turns
it into a runnable PRG.
*/
package basic

import (
	"fmt"
	"io"
	"strings"
)

// Unit is the drive number the loader expects the disk image to be
// mounted on.
const Unit = 9

// Loader describes the four line BASIC65 program that opens the bitmap
// screen, displays an IFF file from disk and waits for a key before
// restoring the text screen.
type Loader struct {
	Bitmap string // directory entry of the IFF bitmap
	Disk   string // name of the D81 image the bitmap ships on
}

// WriteTo writes the untokenized BASIC source to w.
func (l Loader) WriteTo(w io.Writer) (int64, error) {
	lines := []string{
		"10 screen 320,200,7",
		fmt.Sprintf("20 loadiff \"%s\",u%d: rem considering %s.d81 is mounted on unit %d", l.Bitmap, Unit, l.Disk, Unit),
		"30 getkey a$",
		"40 screen close",
	}

	var n int64
	for _, line := range lines {
		m, err := fmt.Fprintln(w, line)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// String returns the loader source as a single string.
func (l Loader) String() string {
	var b strings.Builder
	l.WriteTo(&b)
	return b.String()
}
