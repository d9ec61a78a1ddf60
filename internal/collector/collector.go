// Package collector enumerates response example files in a directory and
// exposes them as a lazy, ordered sequence for the generation pipeline.
package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrInputNotFound indicates the input directory does not exist or is not a
// directory.
var ErrInputNotFound = errors.New("input directory not found")

// Example is the verbatim content of one input file.
type Example struct {
	// Name is the base filename, used in logs and failure reports.
	Name string
	// Path is the full path the content was read from.
	Path string
	// Text is the complete file content, untouched.
	Text string
}

// Scanner iterates over the matching files of a directory in lexical
// filename order, reading each file lazily. It follows the bufio.Scanner
// usage pattern: call Next until it returns false, then check Err.
type Scanner struct {
	dir   string
	names []string
	idx   int
	cur   Example
	err   error
}

// NewScanner lists dir and prepares iteration over regular files whose name
// ends in ext. ext must include the leading dot, e.g. ".txt". Entries with
// other extensions and subdirectories are skipped.
func NewScanner(dir, ext string) (*Scanner, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInputNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by filename, which gives the run a
	// deterministic processing order.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			log.Debug().
				Str("entry", entry.Name()).
				Str("dir", dir).
				Msg("skipping non-matching entry")
			continue
		}
		names = append(names, entry.Name())
	}

	return &Scanner{dir: dir, names: names}, nil
}

// Len reports how many matching files the scanner will yield in total.
func (s *Scanner) Len() int {
	return len(s.names)
}

// Next advances to the next example, reading its file content. It returns
// false when the sequence is exhausted or a read fails; distinguish the two
// with Err.
func (s *Scanner) Next() bool {
	if s.err != nil || s.idx >= len(s.names) {
		return false
	}

	name := s.names[s.idx]
	s.idx++

	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		s.err = fmt.Errorf("reading %s: %w", name, err)
		return false
	}

	s.cur = Example{Name: name, Path: path, Text: string(data)}
	return true
}

// Example returns the example read by the last successful call to Next.
func (s *Scanner) Example() Example {
	return s.cur
}

// Err returns the first error encountered while reading files, if any.
func (s *Scanner) Err() error {
	return s.err
}

// IsNotFound reports whether err stems from a missing input directory.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInputNotFound) || errors.Is(err, fs.ErrNotExist)
}
