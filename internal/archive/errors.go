// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSourceDir is the sentinel error wrapped by InvalidSourceDirError.
	ErrInvalidSourceDir = errors.New("invalid source directory")
	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid archive name")
	// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

type (
	// InvalidSourceDirError is returned when the source path does not exist
	// or is not a directory. It wraps ErrInvalidSourceDir for errors.Is().
	InvalidSourceDirError struct {
		Path string
	}

	// InvalidNameError is returned when the archive name contains path
	// separators. It wraps ErrInvalidName for errors.Is().
	InvalidNameError struct {
		Name string
	}

	// UnsupportedFormatError is returned when the requested format is not in
	// the packer registry. It wraps ErrUnsupportedFormat for errors.Is().
	UnsupportedFormatError struct {
		Format    string
		Supported []string
	}

	// InvalidPatternError is returned when a glob pattern cannot be parsed.
	// It wraps ErrInvalidPattern for errors.Is().
	InvalidPatternError struct {
		Pattern string
	}
)

// Error implements the error interface for InvalidSourceDirError.
func (e *InvalidSourceDirError) Error() string {
	return fmt.Sprintf("%q does not exist or is not a directory", e.Path)
}

// Unwrap returns ErrInvalidSourceDir for errors.Is() compatibility.
func (e *InvalidSourceDirError) Unwrap() error { return ErrInvalidSourceDir }

// Error implements the error interface for InvalidNameError.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("archive name %q must not contain path separators", e.Name)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface for UnsupportedFormatError.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("invalid archive format %q; supported formats: %s",
		e.Format, strings.Join(e.Supported, ", "))
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface for InvalidPatternError.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q", e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }
