package fwf

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/dck-problem/fwfconv"
	"github.com/dck-problem/fwfconv/charset"
	"github.com/dck-problem/fwfconv/internal/atomicfile"
)

// GenerateLines returns a lazy, single-pass sequence of count data lines,
// preceded by HeaderLine when spec.Header is set. A nil gen selects
// RandomValue. The first generator error is yielded and ends the sequence.
func GenerateLines(spec *fwfconv.FWFSpec, count int, gen ValueFunc) (iter.Seq2[string, error], error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: number of lines must be > 0, got %d", fwfconv.ErrInvalidArgument, count)
	}
	if gen == nil {
		gen = RandomValue
	}
	return func(yield func(string, error) bool) {
		if spec.Header {
			if !yield(HeaderLine(spec), nil) {
				return
			}
		}
		var b strings.Builder
		for range count {
			b.Reset()
			for _, col := range spec.Columns {
				v, err := gen(col)
				if err != nil {
					yield("", err)
					return
				}
				b.WriteString(v)
			}
			if !yield(b.String(), nil) {
				return
			}
		}
	}, nil
}

// WriteFile generates count lines and writes them to path, each followed by
// "\n", encoded with the spec's codec. Parent directories are created. The
// file appears only when every line was written; a character the codec cannot
// represent fails with *charset.EncodingError.
func WriteFile(spec *fwfconv.FWFSpec, count int, path string, gen ValueFunc) error {
	lines, err := GenerateLines(spec, count, gen)
	if err != nil {
		return err
	}
	codec, err := charset.Lookup(spec.Encoding)
	if err != nil {
		return err
	}
	return atomicfile.Write(path, func(w io.Writer) error {
		return writeLines(codec, w, lines)
	})
}

func writeLines(codec *charset.Codec, w io.Writer, lines iter.Seq2[string, error]) error {
	enc := codec.NewEncoder(w)
	for line, err := range lines {
		if err != nil {
			return err
		}
		if _, err := io.WriteString(enc, line+"\n"); err != nil {
			return err
		}
	}
	return enc.Close()
}
