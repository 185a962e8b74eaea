// Package editor launches the user's text editor on a file.
package editor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/duplifolder/internal/errors"
)

// Open launches the user's preferred editor for path and waits for it to
// exit. The command comes from $DUPLIFOLDER_EDITOR, $EDITOR or $VISUAL and
// may carry arguments ("code --wait"); nano, then vi, are the fallbacks.
func Open(ctx context.Context, path string) error {
	name, args := splitCommand(detectEditor())

	cmd := exec.CommandContext(ctx, name, append(args, path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", name)
	}

	return nil
}

// detectEditor returns the editor command line to use.
// Fallback chain: $DUPLIFOLDER_EDITOR → $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	for _, env := range []string{"DUPLIFOLDER_EDITOR", "EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	return "vi"
}

func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "vi", nil
	}
	return fields[0], fields[1:]
}
