package importer

import (
	"os"
	"path/filepath"
	"testing"
)

// TestStateDBRoundTrip verifies that imported files are remembered across
// opens and that a changed hash is treated as a new file.
func TestStateDBRoundTrip(t *testing.T) {
	dir := t.TempDir()

	state, err := OpenStateDB(dir)
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}

	done, err := state.IsImported("export.csv", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("fresh state should not know the file")
	}

	if err := state.MarkImported("export.csv", 100, "abc"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen: the record must persist.
	state, err = OpenStateDB(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer state.Close()

	done, err = state.IsImported("export.csv", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("file should be remembered after reopen")
	}

	// Same path, different content → not imported.
	done, err = state.IsImported("export.csv", 100, "different")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("changed hash should not count as imported")
	}
}

// TestHashFile verifies the hash is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("hash should be deterministic")
	}

	if err := os.WriteFile(path, []byte("hello!"), 0o644); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h3 == h1 {
		t.Error("hash should change with content")
	}
}
