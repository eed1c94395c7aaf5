// Package ingest turns dictionaries and user input into word tokens.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyDictionary is returned when a dictionary holds no words.
var ErrEmptyDictionary = errors.New("dictionary has no words")

// Options configures token cleanup.
type Options struct {
	// Fold lowercases words and strips diacritics.
	Fold bool
	// StripPunct cuts each token at its first punctuation character.
	StripPunct bool
}

// Scanner yields whitespace-delimited tokens from a reader one at a time.
type Scanner struct {
	scanner *bufio.Scanner
	opts    Options
	pending *string
	read    int
	skipped int
}

// NewScanner creates a Scanner over r.
func NewScanner(r io.Reader, opts Options) *Scanner {
	sc := bufio.NewScanner(r)

	// Set a larger buffer for dictionaries without line breaks
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 1024*1024)
	sc.Split(bufio.ScanWords)

	return &Scanner{scanner: sc, opts: opts}
}

// Next returns the next cleaned token. Tokens that clean up to nothing are skipped.
func (s *Scanner) Next() (string, bool) {
	if s.pending != nil {
		tok := *s.pending
		s.pending = nil
		return tok, true
	}

	for s.scanner.Scan() {
		s.read++
		tok := Clean(s.scanner.Text(), s.opts)
		if tok == "" {
			s.skipped++
			continue
		}
		return tok, true
	}
	return "", false
}

// Peek reports whether another token is available without consuming it.
func (s *Scanner) Peek() bool {
	if s.pending != nil {
		return true
	}
	tok, ok := s.Next()
	if ok {
		s.pending = &tok
	}
	return ok
}

// Err returns the first read error, if any.
func (s *Scanner) Err() error {
	return s.scanner.Err()
}

// Read returns the number of raw tokens read so far.
func (s *Scanner) Read() int {
	return s.read
}

// Skipped returns the number of tokens dropped by cleanup.
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Clean applies opts to a single token.
func Clean(tok string, opts Options) string {
	if opts.StripPunct {
		tok = CutAtPunct(tok)
	}
	if opts.Fold {
		tok = Fold(tok)
	}
	return tok
}

// Dictionary is an open dictionary file.
type Dictionary struct {
	*Scanner
	Path string
	file *os.File
}

// Open opens a dictionary file and checks that it holds at least one word.
func Open(path string, opts Options) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}

	absPath, _ := filepath.Abs(path)
	d := &Dictionary{
		Scanner: NewScanner(file, opts),
		Path:    absPath,
		file:    file,
	}

	if !d.Peek() {
		err := d.Err()
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading dictionary: %w", err)
		}
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDictionary)
	}

	return d, nil
}

// Close closes the underlying file.
func (d *Dictionary) Close() error {
	return d.file.Close()
}

// SliceSource yields words from a fixed list.
type SliceSource struct {
	words []string
	next  int
}

// Words creates a token source over a word list.
func Words(words ...string) *SliceSource {
	return &SliceSource{words: words}
}

// Next returns the next word in the list.
func (s *SliceSource) Next() (string, bool) {
	if s.next >= len(s.words) {
		return "", false
	}
	w := s.words[s.next]
	s.next++
	return w, true
}
