package dsv

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Writer emits records as delimited text, one line per record. A field is
// wrapped in double quotes, with internal double quotes doubled, exactly
// when it contains a quote, the separator, a single quote, a carriage
// return or a line feed; everything else is written bare, so parsing the
// output reproduces the logical values.
//
// The first line written (header or record) fixes the width of the
// output: shorter records are padded with empty fields, longer records
// are written in full. Errors are sticky; once a write fails every later
// call returns the same error.
type Writer struct {
	dst *bufio.Writer

	// Separator is the field separator. Default is ','.
	Separator byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool

	width int
	err   error
}

// NewWriter returns a buffered Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{dst: bufio.NewWriter(w)}
}

// NewEncodingWriter wraps w so that text written to it is encoded into
// enc, for emitting output in legacy code pages such as
// charmap.Windows1252. The counterpart of NewDecodingSource.
func NewEncodingWriter(w io.Writer, enc encoding.Encoding) io.Writer {
	return transform.NewWriter(w, enc.NewEncoder())
}

// WriteHeader writes the column names as the first line and fixes the
// output width to their count.
func (w *Writer) WriteHeader(names []string) error {
	debugf("Writing header with %d columns", len(names))
	return w.writeLine(names)
}

// WriteRow writes one record. The first line written fixes the output
// width.
func (w *Writer) WriteRow(values []string) error {
	return w.writeLine(values)
}

// WriteAll writes an optional header and all rows, then flushes. A nil
// headers slice writes no header line.
func (w *Writer) WriteAll(headers []string, rows [][]string) error {
	if headers != nil {
		if err := w.WriteHeader(headers); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered output through to the destination.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = newError("dsv-writer-flush-1", err)
		return w.err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	return w.err
}

func (w *Writer) writeLine(fields []string) error {
	if w.err != nil {
		return w.err
	}
	if w.dst == nil {
		w.err = newErrorf("dsv-writer-write-1", "missing destination")
		return w.err
	}
	sep := w.Separator
	if sep == 0 {
		sep = defaultSeparator
	}
	if w.width == 0 {
		w.width = len(fields)
	}
	for i := 0; i < len(fields) || i < w.width; i++ {
		if i > 0 {
			if err := w.dst.WriteByte(sep); err != nil {
				w.err = newError("dsv-writer-write-2", err)
				return w.err
			}
		}
		if i >= len(fields) {
			continue // padded empty field
		}
		if err := w.writeField(fields[i], sep); err != nil {
			w.err = newError("dsv-writer-write-3", err)
			return w.err
		}
	}
	var err error
	if w.UseCRLF {
		_, err = w.dst.WriteString("\r\n")
	} else {
		err = w.dst.WriteByte('\n')
	}
	if err != nil {
		w.err = newError("dsv-writer-write-4", err)
		return w.err
	}
	return nil
}

func (w *Writer) writeField(field string, sep byte) error {
	if !fieldNeedsQuoting(field, sep) {
		_, err := w.dst.WriteString(field)
		return err
	}
	if err := w.dst.WriteByte(quoteDouble); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(field); i++ {
		if field[i] == quoteDouble {
			if start < i {
				if _, err := w.dst.WriteString(field[start:i]); err != nil {
					return err
				}
			}
			if _, err := w.dst.WriteString(`""`); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if start < len(field) {
		if _, err := w.dst.WriteString(field[start:]); err != nil {
			return err
		}
	}
	return w.dst.WriteByte(quoteDouble)
}

func fieldNeedsQuoting(field string, sep byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quoteDouble, sep, quoteSingle, '\r', '\n':
			return true
		}
	}
	return false
}
