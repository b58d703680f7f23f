/*
Package toolchain wraps the external programs the converter drives:
ImageMagick's convert, the netpbm ppmtoilbm encoder, cc1541 and VICE's
petcat.

Each wrapper is a small struct holding the binary name so callers and
tests can substitute their own. Invocations inherit the parent
environment and run without a timeout; the tools either finish or the
user interrupts them.
*/
package toolchain

import (
	"log"
	"strings"
)

func logCommand(logger *log.Logger, name string, args []string) {
	if logger != nil {
		logger.Printf("exec: %s %s\n", name, strings.Join(args, " "))
	}
}

// firstLine reduces captured tool output to something that fits in an
// error message.
func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		s = "no output"
	}
	return s
}
