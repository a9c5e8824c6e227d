// Package terminal provides small terminal helpers such as clearing
// previously printed lines.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines clears text that was previously printed, accounting
// for line wrapping at the current terminal width. Useful for cleaning up
// input prompts after the user pressed Enter.
func ClearPreviousLines(textLength int) {
	termWidth := 80 // fallback when not a TTY
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}

	// After Enter the cursor sits on a fresh line below the input.
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
