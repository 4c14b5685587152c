// SPDX-License-Identifier: MPL-2.0

// Package prompt implements a blocking, line-oriented yes/no confirmation.
//
// The reader loops until it sees a recognized token. Empty input applies
// the configured default, when there is one; otherwise the question is
// asked again. The whole tool is single-threaded, so a synchronous read
// from the given stream is all that is needed.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// DefaultNone repeats the prompt until an explicit answer is given.
	DefaultNone Default = iota
	// DefaultYes treats empty input as confirmation.
	DefaultYes
	// DefaultNo treats empty input as refusal.
	DefaultNo
)

// Default selects how empty input is interpreted.
type Default int

// ErrNoInput is returned when the input stream ends before a recognized
// answer (or applicable default) was read.
var ErrNoInput = errors.New("no input available for confirmation")

var (
	yesTokens = map[string]struct{}{
		"y": {}, "yes": {}, "t": {}, "true": {}, "on": {}, "1": {},
	}
	noTokens = map[string]struct{}{
		"n": {}, "no": {}, "f": {}, "false": {}, "off": {}, "0": {},
	}
)

// suffix returns the answer hint rendered after the question.
func (d Default) suffix() string {
	switch d {
	case DefaultYes:
		return "[Y/n]"
	case DefaultNo:
		return "[y/N]"
	default:
		return "[y/n]"
	}
}

// Confirm writes "<question> [y/n] " to w and reads lines from r until one
// matches a yes/no token. Tokens are case-insensitive with surrounding
// whitespace ignored. Empty input resolves to the default when def is
// DefaultYes or DefaultNo.
func Confirm(r io.Reader, w io.Writer, question string, def Default) (bool, error) {
	scanner := bufio.NewScanner(r)
	suffix := def.suffix()

	for {
		if _, err := fmt.Fprintf(w, "%s %s ", question, suffix); err != nil {
			return false, err
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			return false, ErrNoInput
		}

		reply := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if reply == "" {
			switch def {
			case DefaultYes:
				return true, nil
			case DefaultNo:
				return false, nil
			}
			fmt.Fprintln(w, "Please respond with 'yes' or 'no'.")
			continue
		}

		if _, ok := yesTokens[reply]; ok {
			return true, nil
		}
		if _, ok := noTokens[reply]; ok {
			return false, nil
		}

		fmt.Fprintln(w, "Please respond with 'yes' or 'no'.")
	}
}
