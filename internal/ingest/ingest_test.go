package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func collect(s interface{ Next() (string, bool) }) []string {
	var out []string
	for {
		tok, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func TestScanner(t *testing.T) {
	input := "book rook\n\tnooks   boon\n\n"
	s := NewScanner(strings.NewReader(input), Options{})

	got := collect(s)
	want := []string{"book", "rook", "nooks", "boon"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("tokens = %v, want %v", got, want)
	}
	if s.Read() != 4 {
		t.Errorf("Read() = %d, want 4", s.Read())
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestScannerCleanup(t *testing.T) {
	input := "Hello, Çare! ... Größe"
	s := NewScanner(strings.NewReader(input), Options{Fold: true, StripPunct: true})

	got := collect(s)
	want := []string{"hello", "care", "grosse"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("tokens = %v, want %v", got, want)
	}
	if s.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", s.Skipped())
	}
}

func TestScannerPeek(t *testing.T) {
	s := NewScanner(strings.NewReader("one two"), Options{})

	if !s.Peek() || !s.Peek() {
		t.Fatal("Peek() = false, want true")
	}
	if tok, _ := s.Next(); tok != "one" {
		t.Errorf("Next() after Peek = %q, want one", tok)
	}
	if tok, _ := s.Next(); tok != "two" {
		t.Errorf("Next() = %q, want two", tok)
	}
	if s.Peek() {
		t.Error("Peek() at end = true, want false")
	}
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	dictPath := filepath.Join(tmpDir, "words.txt")
	if err := os.WriteFile(dictPath, []byte("book\nrook\nnooks\nboon\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	d, err := Open(dictPath, Options{})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	if !filepath.IsAbs(d.Path) {
		t.Errorf("Path = %q, want absolute", d.Path)
	}

	got := collect(d)
	if len(got) != 4 || got[0] != "book" {
		t.Errorf("tokens = %v, want 4 words starting with book", got)
	}
}

func TestOpenEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	dictPath := filepath.Join(tmpDir, "empty.txt")
	if err := os.WriteFile(dictPath, []byte("  \n\t\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := Open(dictPath, Options{})
	if !errors.Is(err, ErrEmptyDictionary) {
		t.Errorf("Open(empty) error = %v, want ErrEmptyDictionary", err)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want not-exist", err)
	}
}

func TestWords(t *testing.T) {
	got := collect(Words("a", "b", "c"))
	if strings.Join(got, "") != "abc" {
		t.Errorf("Words() yielded %v", got)
	}
	if got := collect(Words()); len(got) != 0 {
		t.Errorf("Words() on empty list yielded %v", got)
	}
}
