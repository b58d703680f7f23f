package toolchain

import (
	"log"
	"os/exec"

	"github.com/pkg/errors"
)

// Petcat shells out to VICE's petcat to tokenize BASIC65 source into a
// runnable PRG.
type Petcat struct {
	Bin    string
	Logger *log.Logger
}

func (p Petcat) bin() string {
	if p.Bin != "" {
		return p.Bin
	}
	return "petcat"
}

func (p Petcat) args(src, dest string) []string {
	// -w65 selects the BASIC 65 dialect understood by the MEGA65.
	return []string{"-w65", "-o", dest, "--", src}
}

// Tokenize converts the BASIC source at src into the PRG at dest.
func (p Petcat) Tokenize(src, dest string) error {
	args := p.args(src, dest)
	logCommand(p.Logger, p.bin(), args)

	if out, err := exec.Command(p.bin(), args...).CombinedOutput(); err != nil {
		return errors.Wrapf(err, "toolchain: petcat: %s", firstLine(out))
	}
	return nil
}
