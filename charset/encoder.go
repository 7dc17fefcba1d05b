package charset

import (
	"bytes"
	"io"
)

// Encoder is a strict encoding writer that reports codec failures as
// *EncodingError carrying the physical line being written. Errors of the
// underlying writer are returned unchanged.
type Encoder struct {
	codec *Codec
	sink  *errWriter
	enc   io.WriteCloser
	lines int
}

// NewEncoder returns an Encoder writing the codec's bytes to w.
func (c *Codec) NewEncoder(w io.Writer) *Encoder {
	sink := &errWriter{w: w}
	return &Encoder{codec: c, sink: sink, enc: c.NewWriter(sink)}
}

func (e *Encoder) Write(p []byte) (int, error) {
	n, err := e.enc.Write(p)
	if err != nil {
		return n, e.wrap(err, e.lines+bytes.Count(p[:n], []byte{'\n'})+1)
	}
	e.lines += bytes.Count(p, []byte{'\n'})
	return n, nil
}

// WriteString writes s; it lets io.WriteString skip a copy.
func (e *Encoder) WriteString(s string) (int, error) { return e.Write([]byte(s)) }

// Close flushes pending output. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return e.wrap(err, e.lines)
	}
	return nil
}

// Lines reports the number of complete lines written so far.
func (e *Encoder) Lines() int { return e.lines }

func (e *Encoder) wrap(err error, line int) error {
	if e.sink.err != nil {
		return e.sink.err
	}
	return &EncodingError{Charset: e.codec.name, Op: "encode", Line: line, Err: err}
}

// errWriter records the first error of w.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil && e.err == nil {
		e.err = err
	}
	return n, err
}
