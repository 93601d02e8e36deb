// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"os"
	"strings"

	"github.com/thoreinstein/ionx/internal/errors"
	"github.com/thoreinstein/ionx/internal/shell"
)

// Open runs the user's editor on path attached to the terminal and waits for
// it to exit.
func Open(ctx context.Context, runner shell.Runner, path string) error {
	name, args, err := shell.ParseCommandLine(Detect(shell.LookPath))
	if err != nil {
		return errors.Wrap(err, "parsing editor command")
	}

	res, err := runner.Run(ctx, shell.Command{
		Name:   name,
		Args:   append(args, path),
		Stream: true,
	})
	if err != nil {
		return errors.Wrap(err, "running editor")
	}
	if !res.Success() {
		return errors.Newf("editor %s exited with code %d", name, res.ExitCode)
	}
	return nil
}

// Detect returns the editor command line to use.
// Fallback chain: $EDITOR → $VISUAL → nano → vi
func Detect(lookPath func(string) (string, bool)) string {
	if editor := getenv("EDITOR"); editor != "" {
		return editor
	}

	// Then $VISUAL (for full-screen editors)
	if visual := getenv("VISUAL"); visual != "" {
		return visual
	}

	// User-friendly fallback (nano is easier for beginners)
	if _, ok := lookPath("nano"); ok {
		return "nano"
	}

	// POSIX standard fallback (vi is available on all Unix systems)
	return "vi"
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
