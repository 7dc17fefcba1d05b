// Package delimited writes delimited (CSV-style) files described by a
// fwfconv.CSVSpec.
package delimited

import (
	"bufio"
	"io"
	"iter"
	"strings"

	"github.com/dck-problem/fwfconv"
	"github.com/dck-problem/fwfconv/charset"
	"github.com/dck-problem/fwfconv/internal/atomicfile"
)

// Writer writes records with minimal quoting: a field is quoted only when it
// contains the delimiter, the quote character, '\r' or '\n'. Quote characters
// inside a quoted field are doubled. A record consisting of one empty field is
// written as two quote characters so that it is not read back as a blank
// line.
type Writer struct {
	Delimiter rune
	QuoteChar rune
	UseCRLF   bool // terminate records with "\r\n" instead of "\n"

	w *bufio.Writer
}

// NewWriter returns a Writer using the delimiter and quote character of spec.
func NewWriter(w io.Writer, spec *fwfconv.CSVSpec) *Writer {
	d, q := spec.Delimiter, spec.QuoteChar
	if d == 0 {
		d = fwfconv.DefaultDelimiter
	}
	if q == 0 {
		q = fwfconv.DefaultQuoteChar
	}
	return &Writer{Delimiter: d, QuoteChar: q, w: bufio.NewWriter(w)}
}

// Write writes a single record. Output is buffered; call Flush.
func (w *Writer) Write(record []string) error {
	if len(record) == 1 && record[0] == "" {
		if _, err := w.w.WriteRune(w.QuoteChar); err != nil {
			return err
		}
		if _, err := w.w.WriteRune(w.QuoteChar); err != nil {
			return err
		}
		return w.terminate()
	}
	for i, field := range record {
		if i > 0 {
			if _, err := w.w.WriteRune(w.Delimiter); err != nil {
				return err
			}
		}
		if err := w.writeField(field); err != nil {
			return err
		}
	}
	return w.terminate()
}

// WriteAll writes every record and flushes.
func (w *Writer) WriteAll(records [][]string) error {
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes buffered output to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

func (w *Writer) writeField(field string) error {
	if !w.needsQuotes(field) {
		_, err := w.w.WriteString(field)
		return err
	}
	q := string(w.QuoteChar)
	if _, err := w.w.WriteString(q); err != nil {
		return err
	}
	if _, err := w.w.WriteString(strings.ReplaceAll(field, q, q+q)); err != nil {
		return err
	}
	_, err := w.w.WriteString(q)
	return err
}

func (w *Writer) needsQuotes(field string) bool {
	return strings.ContainsRune(field, w.Delimiter) ||
		strings.ContainsRune(field, w.QuoteChar) ||
		strings.ContainsAny(field, "\r\n")
}

func (w *Writer) terminate() error {
	if w.UseCRLF {
		_, err := w.w.WriteString("\r\n")
		return err
	}
	return w.w.WriteByte('\n')
}

// WriteFile writes rows to path encoded with the spec's codec, preceded by
// the column names when spec.Header is set. Parent directories are created
// and the file appears only when every row was written. The first error
// yielded by rows aborts the write and is returned.
func WriteFile(spec *fwfconv.CSVSpec, rows iter.Seq2[[]string, error], path string) error {
	codec, err := charset.Lookup(spec.Encoding)
	if err != nil {
		return err
	}
	return atomicfile.Write(path, func(out io.Writer) error {
		enc := codec.NewEncoder(out)
		w := NewWriter(enc, spec)
		if spec.Header {
			if err := w.Write(spec.ColumnNames); err != nil {
				return err
			}
		}
		for rec, err := range rows {
			if err != nil {
				return err
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return enc.Close()
	})
}
