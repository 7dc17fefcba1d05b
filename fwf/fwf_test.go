package fwf_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dck-problem/fwfconv"
	"github.com/dck-problem/fwfconv/charset"
	"github.com/dck-problem/fwfconv/fwf"
)

func abcSpec(header bool) *fwfconv.FWFSpec {
	return &fwfconv.FWFSpec{
		Columns:  fwfconv.DeriveColumns([]string{"a", "b", "c"}, []int{4, 5, 6}, nil),
		Header:   header,
		Encoding: "utf-8",
	}
}

func firstLetter(col fwfconv.FWFColumnSpec) (string, error) {
	return strings.Repeat(col.Name[:1], col.Length), nil
}

func collect(t *testing.T, spec *fwfconv.FWFSpec, n int, gen fwf.ValueFunc) []string {
	t.Helper()
	seq, err := fwf.GenerateLines(spec, n, gen)
	require.NoError(t, err)
	var out []string
	for line, err := range seq {
		require.NoError(t, err)
		out = append(out, line)
	}
	return out
}

func TestGenerateLines_LineLength(t *testing.T) {
	lines := collect(t, abcSpec(false), 1, nil)
	require.Len(t, lines, 1, "number of lines should be correct")
	assert.Len(t, lines[0], 15, "line length should equal the total width of all columns")
	for _, r := range lines[0] {
		assert.True(t, r >= 'a' && r <= 'z', "random values are lowercase letters")
	}
}

func TestGenerateLines_Header(t *testing.T) {
	lines := collect(t, abcSpec(true), 1, nil)
	require.Len(t, lines, 2)
	assert.Equal(t, "a   b    c     ", lines[0], "header should be present")
}

func TestGenerateLines_CustomGenerator(t *testing.T) {
	lines := collect(t, abcSpec(false), 2, firstLetter)
	assert.Equal(t, []string{"aaaabbbbbcccccc", "aaaabbbbbcccccc"}, lines)
}

func TestGenerateLines_InvalidCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := fwf.GenerateLines(abcSpec(false), n, nil)
		assert.ErrorIs(t, err, fwfconv.ErrInvalidArgument)
	}
}

func TestGenerateLines_Lazy(t *testing.T) {
	calls := 0
	gen := func(col fwfconv.FWFColumnSpec) (string, error) {
		calls++
		return "x", nil
	}
	seq, err := fwf.GenerateLines(abcSpec(false), 1000, gen)
	require.NoError(t, err)
	assert.Zero(t, calls)
	for range seq {
		break
	}
	assert.Equal(t, 3, calls, "only the first line is generated")
}

func TestGenerateLines_UnknownType(t *testing.T) {
	spec := &fwfconv.FWFSpec{
		Columns:  fwfconv.DeriveColumns([]string{"amount"}, []int{3}, []string{"decimal"}),
		Encoding: "utf-8",
	}
	seq, err := fwf.GenerateLines(spec, 3, nil)
	require.NoError(t, err)
	var errs []error
	for _, err := range seq {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], fwf.ErrUnknownType)
	assert.EqualError(t, errs[0], "Unexpected datatype decimal for column amount")
}

func TestHeaderLine(t *testing.T) {
	spec := &fwfconv.FWFSpec{Columns: fwfconv.DeriveColumns([]string{"wyjście", "longname", "b"}, []int{8, 4, 2}, nil)}
	assert.Equal(t, "wyjście longnameb ", fwf.HeaderLine(spec))
}

func TestWriteFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out.txt")
	spec := &fwfconv.FWFSpec{Columns: fwfconv.DeriveColumns([]string{"a"}, []int{10}, nil), Encoding: "utf-8"}
	err := fwf.WriteFile(spec, 4, out, func(col fwfconv.FWFColumnSpec) (string, error) {
		return strings.Repeat("s", col.Length), nil
	})
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ssssssssss\nssssssssss\nssssssssss\nssssssssss\n", string(got))
}

func TestWriteFile_InvalidEncoding(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	spec := &fwfconv.FWFSpec{Columns: fwfconv.DeriveColumns([]string{"a"}, []int{5}, nil), Encoding: "windows-1252"}
	err := fwf.WriteFile(spec, 1, out, func(fwfconv.FWFColumnSpec) (string, error) { return "Mořic", nil })
	require.Error(t, err)
	var ee *charset.EncodingError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "encode", ee.Op)
	assert.Equal(t, 1, ee.Line)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no partial output")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file removed")
}

func TestWriteFile_GeneratorError(t *testing.T) {
	dir := t.TempDir()
	spec := &fwfconv.FWFSpec{Columns: fwfconv.DeriveColumns([]string{"n"}, []int{2}, []string{"int"}), Encoding: "utf-8"}
	err := fwf.WriteFile(spec, 2, filepath.Join(dir, "x.txt"), nil)
	assert.ErrorIs(t, err, fwf.ErrUnknownType)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func parseSpec() *fwfconv.FWFSpec {
	return &fwfconv.FWFSpec{
		Columns:  fwfconv.DeriveColumns([]string{"a", "b", "c", "d", "e"}, []int{4, 5, 9, 8, 4}, nil),
		Encoding: "utf-8",
	}
}

func TestParseFile_UTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("aaa bbbb ccccc    ddddd   eeee\n", 10)), 0o644))

	var recs [][]string
	for rec, err := range fwf.ParseFile(parseSpec(), path) {
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	require.Len(t, recs, 10)
	assert.Equal(t, []string{"aaa", "bbbb", "ccccc", "ddddd", "eeee"}, recs[0])
	assert.Equal(t, []string{"aaa", "bbbb", "ccccc", "ddddd", "eeee"}, recs[9])
}

func TestParseFile_UTF16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	units := utf16.Encode([]rune("\ufeffwyjście bbbb\n"))
	raw := make([]byte, 0, len(units)*2)
	for _, u := range units {
		raw = append(raw, byte(u), byte(u>>8))
	}
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	spec := &fwfconv.FWFSpec{
		Columns:  fwfconv.DeriveColumns([]string{"a", "b"}, []int{8, 4}, nil),
		Encoding: "utf-16",
	}
	var recs [][]string
	for rec, err := range fwf.ParseFile(spec, path) {
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"wyjście", "bbbb"}, recs[0])
}

func TestReader_HeaderShortLinesAndCRLF(t *testing.T) {
	spec := abcSpec(true)
	in := "a   b    c     \r\naaaabbbbbcccccc\r\naa\n\nxxxxyy"
	r, err := fwf.NewReader(strings.NewReader(in), spec)
	require.NoError(t, err)
	assert.True(t, r.SkipHeader)

	var recs [][]string
	for rec, err := range r.Records() {
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	assert.Equal(t, [][]string{
		{"aaaa", "bbbbb", "cccccc"},
		{"aa", "", ""},
		{"", "", ""},
		{"xxxx", "yy", ""},
	}, recs)
	assert.Equal(t, 5, r.Line())
}

func TestReader_SkipHeaderOverride(t *testing.T) {
	r, err := fwf.NewReader(strings.NewReader("a   b    c     \n"), abcSpec(true))
	require.NoError(t, err)
	r.SkipHeader = false
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, rec)
	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReader_HeaderOnlyAndEmpty(t *testing.T) {
	for _, in := range []string{"", "a   b    c     \n"} {
		r, err := fwf.NewReader(strings.NewReader(in), abcSpec(true))
		require.NoError(t, err)
		_, err = r.Read()
		assert.Equal(t, io.EOF, err, "input %q", in)
	}
}

func TestReader_InvalidBytes(t *testing.T) {
	r, err := fwf.NewReader(strings.NewReader("aaaabbbbbcccccc\nab\xffd\n"), abcSpec(false))
	require.NoError(t, err)
	_, err = r.Read()
	require.NoError(t, err)
	_, err = r.Read()
	var ee *charset.EncodingError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "decode", ee.Op)
	assert.Equal(t, 2, ee.Line)
}

func TestReader_InvalidBytesPerCodec(t *testing.T) {
	tests := []struct {
		enc string
		in  string
	}{
		{"utf-8", "ab\xffcdef\n"},
		{"utf-8-sig", "\xef\xbb\xbfab\xffcdef\n"},
		{"windows-1252", "ab\x81c\n"},
		{"ascii", "ab\x80c\n"},
		{"euc-jp", "ab\x8e\x20\n"},
		{"Shift_JIS", "ab\x81\x20\n"},
		{"gb18030", "ab\x81\x20\n"},
		{"big5", "ab\xa4\x20\n"},
		{"utf-16", "\xff\xfea\x00\x00\xd8b\x00\n\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.enc, func(t *testing.T) {
			spec := abcSpec(false)
			spec.Encoding = tt.enc
			r, err := fwf.NewReader(strings.NewReader(tt.in), spec)
			require.NoError(t, err)
			_, err = r.Read()
			var ee *charset.EncodingError
			require.True(t, errors.As(err, &ee), "got %v", err)
			assert.Equal(t, "decode", ee.Op)
			assert.Equal(t, 1, ee.Line)
		})
	}
}

func TestReader_UTF8SigStripsBOM(t *testing.T) {
	spec := abcSpec(false)
	spec.Encoding = "utf-8-sig"
	r, err := fwf.NewReader(strings.NewReader("\xef\xbb\xbfżółbbbbbcc\n"), spec)
	require.NoError(t, err)
	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"żółb", "bbbbc", "c"}, rec)
}

func TestReader_BareCarriageReturn(t *testing.T) {
	r, err := fwf.NewReader(strings.NewReader("abc\rdefg\rhij\n"), abcSpec(false))
	require.NoError(t, err)
	var recs [][]string
	for rec, err := range r.Records() {
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	assert.Equal(t, [][]string{{"abc", "", ""}, {"defg", "", ""}, {"hij", "", ""}}, recs)
	assert.Equal(t, 3, r.Line())

	r, err = fwf.NewReader(strings.NewReader("aa\r\r\nbb\r"), abcSpec(false))
	require.NoError(t, err)
	recs = nil
	for rec, err := range r.Records() {
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	assert.Equal(t, [][]string{{"aa", "", ""}, {"", "", ""}, {"bb", "", ""}}, recs)
}

func TestParseFile_Missing(t *testing.T) {
	var errs []error
	for _, err := range fwf.ParseFile(parseSpec(), filepath.Join(t.TempDir(), "none.txt")) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

// cycling returns a generator that fills each column with runes taken in
// turn from alphabet, remembering every value it produced.
func cycling(alphabet string, produced *[]string) fwf.ValueFunc {
	runes := []rune(alphabet)
	k := 0
	return func(col fwfconv.FWFColumnSpec) (string, error) {
		out := make([]rune, col.Length)
		for i := range out {
			out[i] = runes[k%len(runes)]
			k++
		}
		*produced = append(*produced, string(out))
		return string(out), nil
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		enc      string
		alphabet string
	}{
		{"utf-8", "żółćé日本"},
		{"utf-16", "żółćé日本"},
		{"windows-1250", "żółćŁę"},
		{"latin-1", "éàüßø"},
		{"euc-jp", "日本語テスト"},
		{"shift_jis", "日本語テスト"},
	}
	for _, tt := range tests {
		t.Run(tt.enc, func(t *testing.T) {
			spec := abcSpec(true)
			spec.Encoding = tt.enc
			path := filepath.Join(t.TempDir(), "rt.txt")
			var produced []string
			require.NoError(t, fwf.WriteFile(spec, 25, path, cycling(tt.alphabet, &produced)))
			require.Len(t, produced, 25*3)

			var parsed []string
			for rec, err := range fwf.ParseFile(spec, path) {
				require.NoError(t, err)
				parsed = append(parsed, rec...)
			}
			assert.Equal(t, produced, parsed)
		})
	}
}
