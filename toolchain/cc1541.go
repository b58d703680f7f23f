package toolchain

import (
	"log"
	"os/exec"

	"github.com/pkg/errors"
)

// CC1541 shells out to cc1541 to author D81 disk images. The tool
// creates the image on first use and appends on subsequent calls, so one
// disk can collect several files.
type CC1541 struct {
	Bin    string
	Logger *log.Logger
}

func (c CC1541) bin() string {
	if c.Bin != "" {
		return c.Bin
	}
	return "cc1541"
}

func (c CC1541) args(image, name, entry, file string) []string {
	return []string{
		"-n", name,
		"-f", entry,
		"-w", file,
		image,
	}
}

// Add writes file into the disk image under the given directory entry,
// labelling the disk with name.
func (c CC1541) Add(image, name, entry, file string) error {
	args := c.args(image, name, entry, file)
	logCommand(c.Logger, c.bin(), args)

	if out, err := exec.Command(c.bin(), args...).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "toolchain: cc1541: %s", firstLine(out))
	}
	return nil
}
