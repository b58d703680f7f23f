package mega65

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompts shown by the interactive session.
const (
	promptImage = "Enter the input image file name (e.g., mega65.jpg): "
	promptDisk  = "Enter the name for the D81 disk (e.g., mega65club): "
	promptAgain = "Do you want to run the script again? (Y/N): "
)

type sessionState int

const (
	statePrompting sessionState = iota
	stateConverting
)

// Session runs the interactive prompt loop, reading answers from in. The
// Loader and Preview settings of opts carry into every run; the image
// and disk name are asked for each round. The loop ends when the user
// declines another round or in runs dry.
func (c *Converter) Session(in io.Reader, opts Job) error {
	scanner := bufio.NewScanner(in)
	job := opts
	state := statePrompting

	for {
		switch state {
		case statePrompting:
			image, ok := c.prompt(scanner, promptImage)
			if !ok {
				return scanner.Err()
			}
			disk, ok := c.prompt(scanner, promptDisk)
			if !ok {
				return scanner.Err()
			}
			job.Image = image
			job.Disk = disk
			state = stateConverting

		case stateConverting:
			if err := c.Run(job); err != nil {
				fmt.Fprintf(c.out, "Conversion failed: %v\n", err)
				c.logger.Printf("%+v\n", err)
			}

			answer, ok := c.prompt(scanner, promptAgain)
			if !ok || !affirmative(answer) {
				fmt.Fprintln(c.out, "Exiting. Goodbye!")
				return scanner.Err()
			}
			state = statePrompting
		}
	}
}

func (c *Converter) prompt(scanner *bufio.Scanner, msg string) (string, bool) {
	fmt.Fprint(c.out, msg)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

// affirmative reports whether an answer means yes. Anything other than a
// lone y, of either case, is a no.
func affirmative(answer string) bool {
	return strings.ToLower(answer) == "y"
}
