// Package golden compares multi-line test output against checked-in golden
// files. Run tests with -update to rewrite them.
package golden

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "update golden files")

// TestdataDir returns the testdata directory next to the calling test file.
func TestdataDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(1)
	if !ok {
		t.Fatalf("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// Assert compares got against the named golden file, rewriting the file
// instead when -update is set.
func Assert(t *testing.T, testdataDir, name, got string) {
	t.Helper()
	safeName(t, name)

	path := filepath.Join(testdataDir, name+".golden")
	if *update {
		if err := os.MkdirAll(testdataDir, 0o750); err != nil {
			t.Fatalf("mkdir testdata: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o600); err != nil {
			t.Fatalf("write golden %s: %v", path, err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s (run with -update to create): %v", path, err)
	}
	if got != string(data) {
		t.Errorf("output does not match %s:\n--- want ---\n%s\n--- got ---\n%s", path, data, got)
	}
}

func safeName(t *testing.T, name string) {
	t.Helper()
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		t.Fatalf("invalid golden name %q", name)
	}
}
