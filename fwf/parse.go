package fwf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/dck-problem/fwfconv"
	"github.com/dck-problem/fwfconv/charset"
)

// Reader reads records from fixed-width input.
type Reader struct {
	// SkipHeader drops the first line. It is initialised from spec.Header
	// and may be changed before the first call to Read.
	SkipHeader bool

	spec    *fwfconv.FWFSpec
	codec   *charset.Codec
	src     *errReader
	sc      *bufio.Scanner
	line    int
	started bool
	err     error
}

// NewReader returns a Reader decoding r with the spec's codec. It fails only
// when the codec cannot be resolved.
func NewReader(r io.Reader, spec *fwfconv.FWFSpec) (*Reader, error) {
	codec, err := charset.Lookup(spec.Encoding)
	if err != nil {
		return nil, err
	}
	src := &errReader{r: r}
	sc := bufio.NewScanner(codec.NewReader(src))
	sc.Buffer(nil, MaxLineSize)
	sc.Split(scanLines)
	return &Reader{
		SkipHeader: spec.Header,
		spec:       spec,
		codec:      codec,
		src:        src,
		sc:         sc,
	}, nil
}

// MaxLineSize is the longest decoded line, in bytes, a Reader accepts.
const MaxLineSize = 16 << 20

// Line returns the physical line number of the most recently read line.
func (r *Reader) Line() int { return r.line }

// Read returns the next record, one trimmed value per column. Lines shorter
// than the layout yield empty trailing values. At end of input Read returns
// nil, io.EOF. Decoding failures are *charset.EncodingError.
func (r *Reader) Read() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if !r.started {
		r.started = true
		if r.SkipHeader {
			if _, err := r.readLine(); err != nil {
				r.err = err
				return nil, err
			}
		}
	}
	text, err := r.readLine()
	if err != nil {
		r.err = err
		return nil, err
	}
	return r.slice(text), nil
}

// Records returns the remaining records as a single-pass sequence. The
// sequence ends at end of input or after yielding the first error.
func (r *Reader) Records() iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		for {
			rec, err := r.Read()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// readLine returns the next line without its terminator.
func (r *Reader) readLine() (string, error) {
	if !r.sc.Scan() {
		err := r.sc.Err()
		switch {
		case err == nil:
			return "", io.EOF
		case r.src.err != nil:
			return "", r.src.err
		case errors.Is(err, bufio.ErrTooLong):
			return "", fmt.Errorf("line %d: longer than %d bytes: %w", r.line+1, MaxLineSize, err)
		}
		return "", r.decodeError(r.line+1, err)
	}
	r.line++
	text := r.sc.Text()
	if cerr := r.codec.CheckDecoded(text); cerr != nil {
		return "", r.decodeError(r.line, cerr)
	}
	return text, nil
}

func (r *Reader) decodeError(line int, err error) error {
	return &charset.EncodingError{Charset: r.codec.Name(), Op: "decode", Line: line, Err: err}
}

// scanLines splits on "\n", "\r\n" and a lone "\r".
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2, data[:i], nil
		case i+1 < len(data) || atEOF:
			return i + 1, data[:i], nil
		}
		// a trailing '\r' may be the first half of "\r\n"
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// errReader records the first non-EOF error of r so that I/O failures are
// not mistaken for decoding failures.
type errReader struct {
	r   io.Reader
	err error
}

func (e *errReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF && e.err == nil {
		e.err = err
	}
	return n, err
}

// slice cuts text by character offsets and trims surrounding whitespace.
func (r *Reader) slice(text string) []string {
	runes := []rune(text)
	rec := make([]string, len(r.spec.Columns))
	for i, col := range r.spec.Columns {
		lo := min(col.Offset, len(runes))
		hi := min(col.Offset+col.Length, len(runes))
		rec[i] = strings.TrimSpace(string(runes[lo:hi]))
	}
	return rec
}

// ParseFile returns the records of the file at path. The file is opened when
// iteration starts and closed when it stops, including on early break. A
// failure to open the file is yielded as the only element.
func ParseFile(spec *fwfconv.FWFSpec, path string) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("opening fixed-width file: %w", err))
			return
		}
		defer f.Close()
		r, err := NewReader(f, spec)
		if err != nil {
			yield(nil, err)
			return
		}
		for rec, err := range r.Records() {
			if !yield(rec, err) {
				return
			}
		}
	}
}
