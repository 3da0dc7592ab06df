package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLines_MissingFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "grunts.txt"))
	lines, err := l.Lines()
	if err != nil {
		t.Fatalf("Lines error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("missing file produced lines: %v", lines)
	}
}

func TestLines_SkipsBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grunts.txt")
	if err := os.WriteFile(path, []byte("zug zug\n\n  \nlok'tar\n"), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := New(path).Lines()
	if err != nil {
		t.Fatalf("Lines error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "zug zug" || lines[1] != "lok'tar" {
		t.Errorf("lines = %v", lines)
	}
}

func TestAppend_CreatesAndGrows(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "sub", "grunts.txt"))

	if err := l.Append("dabu"); err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if err := l.Append("swobu"); err != nil {
		t.Fatalf("Append error: %v", err)
	}

	lines, err := l.Lines()
	if err != nil {
		t.Fatalf("Lines error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "dabu" || lines[1] != "swobu" {
		t.Errorf("lines = %v", lines)
	}
}

func TestRandom_Empty(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "grunts.txt"))
	if _, err := l.Random(); err == nil {
		t.Error("expected error for empty list")
	}
}

func TestRandom_PicksExistingLine(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "grunts.txt"))
	want := map[string]bool{"zug zug": true, "dabu": true}
	for line := range want {
		if err := l.Append(line); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 20; i++ {
		got, err := l.Random()
		if err != nil {
			t.Fatalf("Random error: %v", err)
		}
		if !want[got] {
			t.Fatalf("Random returned %q, not in list", got)
		}
	}
}

func TestLines_ReadFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grunts.txt")
	l := New(path)
	if err := l.Append("zug zug"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Lines(); err != nil {
		t.Fatal(err)
	}

	// Out-of-band edit must be visible on the next read.
	if err := os.WriteFile(path, []byte("replaced\n"), 0644); err != nil {
		t.Fatal(err)
	}
	lines, err := l.Lines()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "replaced" {
		t.Errorf("stale read: %v", lines)
	}
}
