package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/dotcommander/yap/internal/present"
)

func drainStdin() {
	if present.IsInputTTY() {
		return
	}
	_, _ = io.Copy(io.Discard, os.Stdin)
}

// readStdin returns piped input, or "" when stdin is a TTY.
func readStdin() string {
	if present.IsInputTTY() {
		return ""
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
