// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	"bufio"
	"io"
	"strings"
)

// Writer renders rows in the wire format a Cursor reads: the names line, the
// type tags line, then one line per row.
type Writer struct {
	w       *bufio.Writer
	columns []*Column
	header  bool
	rows    int64
}

// NewWriter creates a writer for rows of the given columns.
func NewWriter(w io.Writer, columns []*Column) *Writer {
	return &Writer{
		w:       bufio.NewWriterSize(w, defaultBufferSize),
		columns: columns,
	}
}

// WriteHeader writes the two header lines. WriteRow writes them first when
// they were not written yet.
func (w *Writer) WriteHeader() error {
	if w.header {
		return nil
	}
	names := make([]string, len(w.columns))
	tags := make([]string, len(w.columns))
	for i, col := range w.columns {
		names[i] = escape(col.Name)
		tags[i] = col.Type.String()
		if col.Nullable && col.Type.Kind != NothingKind {
			tags[i] = "nullable(" + tags[i] + ")"
		}
	}
	w.header = true
	if err := w.writeLine(names); err != nil {
		return err
	}
	return w.writeLine(tags)
}

func (w *Writer) writeLine(fields []string) error {
	if _, err := w.w.WriteString(strings.Join(fields, string(fieldDelimiter))); err != nil {
		return errStream(err)
	}
	if err := w.w.WriteByte(lineTerminator); err != nil {
		return errStream(err)
	}
	return nil
}

// WriteRow writes one row of decoded values, nil for null, in column order.
func (w *Writer) WriteRow(values []any) error {
	if !w.header {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	if len(values) != len(w.columns) {
		return errFormat(errMsgFieldCount, w.rows+1, len(values), len(w.columns))
	}
	fields := make([]string, len(values))
	for i, v := range values {
		token, err := encodeValue(v, w.columns[i].Type)
		if err != nil {
			return err
		}
		fields[i] = token
	}
	w.rows++
	return w.writeLine(fields)
}

// WriteCursor writes the header and every remaining row of c, returning the
// number of rows written.
func (w *Writer) WriteCursor(c *Cursor) (int64, error) {
	if err := w.WriteHeader(); err != nil {
		return 0, err
	}
	var n int64
	values := make([]any, c.ColumnCount())
	for {
		ok, err := c.Next()
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		for i := range values {
			if values[i], err = c.Value(i + 1); err != nil {
				return n, err
			}
		}
		if err = w.WriteRow(values); err != nil {
			return n, err
		}
		n++
	}
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errStream(err)
	}
	return nil
}
