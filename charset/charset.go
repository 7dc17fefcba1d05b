// Package charset resolves codec names used in specification documents and
// provides strict encoders and validating decoders for them.
//
// Names are matched case-insensitively against the IANA registry first, so
// registered spellings such as Shift_JIS resolve as-is. Otherwise '_' and ' '
// are treated as '-' and common Python-style aliases (utf8, utf-8-sig,
// latin-1, cp1252, sjis, ascii) are tried before the registry again.
package charset

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// ErrUnknown is returned by Lookup for names that do not resolve to a codec.
var ErrUnknown = errors.New("charset: unknown encoding")

// Codec is a resolved text encoding.
type Codec struct {
	name string
	enc  encoding.Encoding
	// passthrough codecs are plain UTF-8: bytes are not transformed on read so
	// that invalid sequences can be detected by CheckDecoded.
	passthrough bool
	// bom codecs are passthrough on read after a leading BOM is dropped.
	bom        bool
	singleByte bool
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

var usASCII = mustIANA("us-ascii")

var aliases = map[string]encoding.Encoding{
	"utf-16":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf16":      unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"u16":        unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16-le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16le":   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf16le":    unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16-be":  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-16be":   unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf16be":    unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-32":     utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
	"utf32":      utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
	"utf-32-le":  utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf-32le":   utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf-32-be":  utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"utf-32be":   utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
	"latin-1":    charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"l1":         charmap.ISO8859_1,
	"iso8859-1":  charmap.ISO8859_1,
	"cp819":      charmap.ISO8859_1,
	"cp437":      charmap.CodePage437,
	"cp850":      charmap.CodePage850,
	"cp852":      charmap.CodePage852,
	"cp866":      charmap.CodePage866,
	"mac-roman":  charmap.Macintosh,
	"macroman":   charmap.Macintosh,
	"koi8-r":     charmap.KOI8R,
	"koi8-u":     charmap.KOI8U,
	"iso8859-2":  charmap.ISO8859_2,
	"iso8859-15": charmap.ISO8859_15,
	"ascii":      usASCII,
	"646":        usASCII,
	"sjis":       japanese.ShiftJIS,
	"s-jis":      japanese.ShiftJIS,
	"shift-jis":  japanese.ShiftJIS,
	"shiftjis":   japanese.ShiftJIS,
	"cp932":      japanese.ShiftJIS,
	"ms932":      japanese.ShiftJIS,
	"eucjp":      japanese.EUCJP,
	"ujis":       japanese.EUCJP,
	"u-jis":      japanese.EUCJP,
	"iso2022-jp": japanese.ISO2022JP,
	"gb2312":     simplifiedchinese.GBK,
	"euc-cn":     simplifiedchinese.GBK,
	"euccn":      simplifiedchinese.GBK,
	"cp936":      simplifiedchinese.GBK,
	"ms936":      simplifiedchinese.GBK,
	"big5-tw":    traditionalchinese.Big5,
	"cp950":      traditionalchinese.Big5,
	"euckr":      korean.EUCKR,
	"cp949":      korean.EUCKR,
	"uhc":        korean.EUCKR,
}

var utf8Names = map[string]bool{
	"utf-8": true, "utf8": true, "u8": true, "utf": true, "cp65001": true,
}

var utf8SigNames = map[string]bool{"utf-8-sig": true, "utf8-sig": true}

func mustIANA(name string) encoding.Encoding {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		panic("charset: " + name + " missing from IANA index")
	}
	return enc
}

// Lookup resolves name to a Codec. It returns an error wrapping ErrUnknown
// when the name is not recognised.
func Lookup(name string) (*Codec, error) {
	raw := strings.ToLower(strings.TrimSpace(name))
	key := normalize(name)
	if key == "" {
		return nil, &lookupError{name: name}
	}
	switch {
	case utf8Names[key]:
		return &Codec{name: key, enc: unicode.UTF8, passthrough: true}, nil
	case utf8SigNames[key]:
		return &Codec{name: key, enc: unicode.UTF8BOM, passthrough: true, bom: true}, nil
	}
	if enc, ok := aliases[key]; ok {
		return newCodec(key, enc), nil
	}
	if enc, err := ianaindex.IANA.Encoding(raw); err == nil && enc != nil {
		return newCodec(raw, enc), nil
	}
	// cp125x is Python's spelling of windows-125x.
	if strings.HasPrefix(key, "cp125") && len(key) == 6 {
		key = "windows-" + key[2:]
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return nil, &lookupError{name: name}
	}
	return newCodec(key, enc), nil
}

func newCodec(name string, enc encoding.Encoding) *Codec {
	if enc == unicode.UTF8 {
		return &Codec{name: name, enc: enc, passthrough: true}
	}
	_, single := enc.(*charmap.Charmap)
	return &Codec{name: name, enc: enc, singleByte: single}
}

// Known reports whether name resolves to a codec.
func Known(name string) bool {
	_, err := Lookup(name)
	return err == nil
}

func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "-", " ", "-").Replace(n)
}

type lookupError struct{ name string }

func (e *lookupError) Error() string { return "Encoding " + e.name + " not found" }
func (e *lookupError) Unwrap() error { return ErrUnknown }

// Name returns the normalised name the codec was resolved from.
func (c *Codec) Name() string { return c.name }

// NewReader returns a reader yielding UTF-8 text decoded from r.
func (c *Codec) NewReader(r io.Reader) io.Reader {
	if c.bom {
		return &bomSkipper{r: bufio.NewReader(r)}
	}
	if c.passthrough {
		return r
	}
	return transform.NewReader(r, c.enc.NewDecoder())
}

// NewWriter returns a WriteCloser that encodes UTF-8 text into w. Writes fail
// when a character is not representable; nothing is substituted. Close flushes
// buffered output but does not close w.
func (c *Codec) NewWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, c.enc.NewEncoder())
}

type bomSkipper struct {
	r       *bufio.Reader
	checked bool
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		if pre, _ := b.r.Peek(len(utf8BOM)); bytes.Equal(pre, utf8BOM) {
			_, _ = b.r.Discard(len(utf8BOM))
		}
	}
	return b.r.Read(p)
}

// CheckDecoded reports whether s, read through NewReader, came from a valid
// byte sequence for this codec.
//
// Decoders other than UTF-8 substitute U+FFFD for undecodable input, so any
// U+FFFD in their output is rejected, including one that was encoded
// literally in the source.
func (c *Codec) CheckDecoded(s string) error {
	switch {
	case c.passthrough:
		if !utf8.ValidString(s) {
			return errors.New("invalid utf-8 byte sequence")
		}
	case c.singleByte:
		if strings.ContainsRune(s, utf8.RuneError) {
			return errors.New("byte has no mapping in " + c.name)
		}
	case strings.ContainsRune(s, utf8.RuneError):
		return errors.New("invalid byte sequence for " + c.name)
	}
	return nil
}

// EncodingError reports a character that could not be encoded, or input
// bytes that are invalid for the declared codec.
type EncodingError struct {
	Charset string
	Op      string // "encode" or "decode"
	Line    int    // 1-based physical line; 0 when unknown
	Err     error
}

func (e *EncodingError) Error() string {
	var b strings.Builder
	b.WriteString("charset ")
	b.WriteString(e.Charset)
	b.WriteString(": cannot ")
	b.WriteString(e.Op)
	if e.Line > 0 {
		b.WriteString(" line ")
		b.WriteString(strconv.Itoa(e.Line))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *EncodingError) Unwrap() error { return e.Err }
