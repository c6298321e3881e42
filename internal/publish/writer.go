package publish

import (
	"fmt"
	"io"
)

// Writer prints each status line on its own line. Useful with bars that
// read stdin, and for running without an X server.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Publish writes line followed by a newline.
func (w *Writer) Publish(line string) error {
	if _, err := fmt.Fprintln(w.w, line); err != nil {
		return fmt.Errorf("failed to write status line: %w", err)
	}
	return nil
}

// Close does nothing; the underlying writer belongs to the caller.
func (w *Writer) Close() error {
	return nil
}
