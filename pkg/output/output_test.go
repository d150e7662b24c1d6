package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetCommit(t *testing.T) {
	dir := t.TempDir()

	set := NewSet()
	set.Add("board.sch", []byte("schematic"))
	set.Add("board.kicad_pcb", []byte("layout"))
	set.Add("board.pro", []byte("project"))

	paths, err := set.Commit(dir)
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Commit() wrote %d files, want 3", len(paths))
	}

	data, err := os.ReadFile(filepath.Join(dir, "board.kicad_pcb"))
	if err != nil {
		t.Fatalf("read committed file: %v", err)
	}
	if string(data) != "layout" {
		t.Errorf("committed content = %q, want %q", data, "layout")
	}

	// No staging leftovers.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestSetCommitCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	set := NewSet()
	set.Add("a.txt", []byte("a"))
	if _, err := set.Commit(dir); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); err != nil {
		t.Errorf("committed file missing: %v", err)
	}
}

func TestSetCommitWriteFailureKeepsExisting(t *testing.T) {
	dir := t.TempDir()

	// A staged name that collides with a directory makes the write fail.
	if err := os.Mkdir(filepath.Join(dir, "board.sch.tmp"), 0755); err != nil {
		t.Fatal(err)
	}

	// A previously committed file must survive the failed run intact.
	if err := os.WriteFile(filepath.Join(dir, "first.txt"), []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	set := NewSet()
	set.Add("first.txt", []byte("first"))
	set.Add("board.sch", []byte("schematic"))

	if _, err := set.Commit(dir); err == nil {
		t.Fatal("Commit() should fail when staging is blocked")
	}

	data, err := os.ReadFile(filepath.Join(dir, "first.txt"))
	if err != nil {
		t.Fatalf("existing file lost after failed commit: %v", err)
	}
	if string(data) != "previous" {
		t.Errorf("existing file content = %q, want %q untouched", data, "previous")
	}
	if _, err := os.Stat(filepath.Join(dir, "first.txt.tmp")); !os.IsNotExist(err) {
		t.Error("failed commit must clean up temp files")
	}
}

func TestSetAddReplaces(t *testing.T) {
	set := NewSet()
	set.Add("a", []byte("one"))
	set.Add("a", []byte("two"))

	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}

	dir := t.TempDir()
	if _, err := set.Commit(dir); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "a"))
	if string(data) != "two" {
		t.Errorf("staged content = %q, want latest %q", data, "two")
	}
}

func TestSetUnchanged(t *testing.T) {
	dir := t.TempDir()

	set := NewSet()
	set.Add("same.txt", []byte("stable"))
	set.Add("new.txt", []byte("fresh"))
	if _, err := set.Commit(dir); err != nil {
		t.Fatal(err)
	}

	regen := NewSet()
	regen.Add("same.txt", []byte("stable"))
	regen.Add("new.txt", []byte("different now"))

	same := regen.Unchanged(dir)
	if len(same) != 1 || same[0] != "same.txt" {
		t.Errorf("Unchanged() = %v, want [same.txt]", same)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("data"))
	h2 := Hash([]byte("data"))
	h3 := Hash([]byte("other"))

	if len(h1) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(h1))
	}
	if h1 != h2 {
		t.Error("Hash() must be deterministic")
	}
	if h1 == h3 {
		t.Error("Hash() must differ for different input")
	}
}
