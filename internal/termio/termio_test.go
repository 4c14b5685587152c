// SPDX-License-Identifier: MPL-2.0

package termio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsInteractive_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "plain"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if IsInteractive(f) {
		t.Error("a regular file should not be interactive")
	}
}

func TestWidth_FallbackNormalization(t *testing.T) {
	// Under 'go test' stdout is typically not a terminal, so Width returns
	// the fallback; the interesting part is the <=0 normalization.
	if got := Width(-1); got != DefaultWidth && got <= 0 {
		t.Errorf("Width(-1) = %d, want a positive width", got)
	}
	if got := Width(120); got <= 0 {
		t.Errorf("Width(120) = %d, want a positive width", got)
	}
}
