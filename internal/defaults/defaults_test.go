package defaults

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDirOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("NOVA_DATA_DIR", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir failed: %v", err)
	}
	if dir != tmp {
		t.Errorf("expected %s, got %s", tmp, dir)
	}
}

func TestEnsureDataDirCreatesSubdirs(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("NOVA_DATA_DIR", filepath.Join(tmp, "nested"))

	dir, err := EnsureDataDir()
	if err != nil {
		t.Fatalf("EnsureDataDir failed: %v", err)
	}

	for _, sub := range []string{"data", "screenshots"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("expected %s subdirectory to exist", sub)
		}
	}
}
