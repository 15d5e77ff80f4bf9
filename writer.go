package altsv

import (
	"bufio"
	"fmt"
	"io"
)

// Writer writes one encoded line per value. Output is buffered; call Flush
// when done.
type Writer struct {
	w     *bufio.Writer
	lines int
}

// NewWriter returns a Writer buffering into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write encodes v and appends it as a line. Nothing is written when
// encoding fails.
func (w *Writer) Write(v any) error {
	line, err := Encode(v)
	if err != nil {
		return fmt.Errorf("altsv: line %d: %w", w.lines+1, err)
	}
	if _, err := w.w.WriteString(line); err != nil {
		return fmt.Errorf("altsv: line %d: %w", w.lines+1, err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("altsv: line %d: %w", w.lines+1, err)
	}
	w.lines++
	return nil
}

// Flush writes any buffered lines to the underlying io.Writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// Lines returns the number of lines written so far.
func (w *Writer) Lines() int { return w.lines }

// Dump writes every value as a line to w.
func Dump(w io.Writer, values ...any) error {
	aw := NewWriter(w)
	for _, v := range values {
		if err := aw.Write(v); err != nil {
			return err
		}
	}
	return aw.Flush()
}
