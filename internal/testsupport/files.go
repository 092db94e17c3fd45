package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteImage creates path (and any missing parents) with a few placeholder
// bytes. Classification never reads pixel data, so content is irrelevant.
func WriteImage(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte{0xff, 0xd8, 0xff}, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// BuildTree creates every relative path as a file under root, building the
// intermediate directories as needed.
func BuildTree(t testing.TB, root string, relpaths ...string) {
	t.Helper()

	for _, rel := range relpaths {
		WriteImage(t, filepath.Join(root, filepath.FromSlash(rel)))
	}
}

// MkdirAll creates the directory and any missing parents.
func MkdirAll(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
