// Package terminal detects whether prompts can be shown interactively.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

var isTerminal = term.IsTerminal

// IsInteractive reports whether the process stdin and stdout are both terminals.
func IsInteractive() bool {
	return Streams(os.Stdin, os.Stdout)
}

// Streams reports whether in and out are both terminals. Streams that are not
// backed by a file (buffers, pipes wrapped in readers) never are.
func Streams(in io.Reader, out io.Writer) bool {
	inFile, ok := in.(*os.File)
	if !ok {
		return false
	}
	outFile, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(int(inFile.Fd())) && isTerminal(int(outFile.Fd()))
}
