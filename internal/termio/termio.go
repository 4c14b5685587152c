// SPDX-License-Identifier: MPL-2.0

// Package termio answers small questions about the controlling terminal:
// whether a stream is interactive and how wide the terminal is.
package termio

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is the fallback terminal width when the size cannot be
// determined (output redirected, dumb terminal, etc.).
const DefaultWidth = 79

// IsInteractive reports whether f is attached to a terminal.
// Cygwin/MSYS pseudo terminals on Windows count as interactive.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Width returns the current width of the terminal attached to stdout,
// or fallback when it cannot be determined. A fallback of 0 or less
// uses DefaultWidth.
func Width(fallback int) int {
	if fallback <= 0 {
		fallback = DefaultWidth
	}

	if !IsInteractive(os.Stdout) {
		return fallback
	}

	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
