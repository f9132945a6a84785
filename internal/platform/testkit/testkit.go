// Package testkit provides testing helpers
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic fails t unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustContain fails t unless out contains want. The full output is written
// to a temp file since log output is usually too long for the failure line
func MustContain(t *testing.T, out, want string) {
	t.Helper()
	if strings.Contains(out, want) {
		return
	}
	f := filepath.Join(t.TempDir(), "output.txt")
	_ = os.WriteFile(f, []byte(out), 0o600)
	t.Fatalf("expected output to contain %q, full output in %s", want, f)
}
