package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Writer appends training records to a JSONL file, one record per line.
// Each record is flushed as soon as it is written, so an interrupted run
// still leaves a well-formed file with every completed record intact.
type Writer struct {
	path  string
	f     *os.File
	w     *bufio.Writer
	count int
}

// NewWriter creates (or truncates) the output file and takes ownership of
// the handle for the duration of the run.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", path, err)
	}

	return &Writer{
		path: path,
		f:    f,
		w:    bufio.NewWriter(f),
	}, nil
}

// Write serializes one record and appends it followed by a newline. The
// line is flushed before Write returns.
func (w *Writer) Write(record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("writing to %s: %w", w.path, err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing to %s: %w", w.path, err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", w.path, err)
	}

	w.count++
	return nil
}

// Count reports how many records have been written so far.
func (w *Writer) Count() int {
	return w.count
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes any buffered data and closes the file. Safe to call once on
// every exit path.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("flushing %s: %w", w.path, err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", w.path, err)
	}
	return nil
}
