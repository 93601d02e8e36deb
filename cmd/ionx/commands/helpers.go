package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status line colors. fatih/color drops the codes when stdout is not a
// terminal or NO_COLOR is set.
var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
)

// fprintf writes to w, ignoring write errors on terminal output.
func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// success prints a green check line.
func success(w io.Writer, format string, args ...any) {
	fprintf(w, "%s %s\n", successColor.Sprint("✓"), fmt.Sprintf(format, args...))
}
