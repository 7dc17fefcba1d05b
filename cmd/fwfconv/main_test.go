package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
}

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data.txt")
	code, stdout, stderr := runCLI(t, "generate", "--spec_file", "testdata/spec.json", "--fwf_file", out, "-n", "10")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Fixed width file is generated : "+out+"\n", stdout)
	assert.Len(t, readLines(t, out), 11, "number of lines + header")
}

func TestConvert(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data.csv")
	code, stdout, stderr := runCLI(t, "convert", "--spec_file", "testdata/spec.json", "--fwf_file", "testdata/test_fwf.txt", "--csv_file", out)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "CSV file is generated : "+out+"\n", stdout)
	lines := readLines(t, out)
	require.Len(t, lines, 3)
	assert.Equal(t, "f1,f2,f3,f4,f5,f6,f7,f8,f9,f10", lines[0])
	assert.Equal(t, "esz,ycidpyopum,z,,gdpamntyyaw,oixzh,sdkaaaur,amvgnxaqhyo,prhlhvhyojanrudfux,jdxkxwqnqvg", lines[1])
}

func TestXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "data.xlsx")
	code, stdout, stderr := runCLI(t, "xlsx", "--spec_file", "testdata/spec.json", "--fwf_file", "testdata/test_fwf.txt", "--xlsx_file", out, "-sheet", "data")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, out)
	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestSchema(t *testing.T) {
	code, stdout, _ := runCLI(t, "schema", "-side", "fwf")
	require.Equal(t, 0, code)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "object", got["type"])

	code, _, _ = runCLI(t, "schema", "-side", "xml")
	assert.Equal(t, 2, code)
}

func TestUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"no subcommand", nil, "Usage:"},
		{"unknown subcommand", []string{"explode"}, "Usage:"},
		{"convert missing csv_file", []string{"convert", "--spec_file", "s.json", "--fwf_file", "f.txt"}, "-csv_file"},
		{"generate missing n", []string{"generate", "--spec_file", "s.json", "--fwf_file", "f.txt"}, "-n"},
		{"xlsx missing everything", []string{"xlsx"}, "-spec_file"},
		{"bad flag", []string{"convert", "--nope"}, "flag provided but not defined"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tc.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tc.want)
		})
	}
}

func TestFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"ColumnNames":["f1"],"Offsets":[3],"IncludeHeader":"True","FixedWidthEncoding":"HHH","DelimitedEncoding":"utf-8"}`), 0o644))

	code, stdout, stderr := runCLI(t, "generate", "--spec_file", bad, "--fwf_file", filepath.Join(dir, "x.txt"), "-n", "1")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Encoding HHH not found")

	code, _, stderr = runCLI(t, "generate", "--spec_file", "testdata/spec.json", "--fwf_file", filepath.Join(dir, "x.txt"), "-n", "0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid argument")

	code, _, _ = runCLI(t, "convert", "--spec_file", "testdata/spec.json", "--fwf_file", filepath.Join(dir, "missing.txt"), "--csv_file", filepath.Join(dir, "x.csv"))
	assert.Equal(t, 1, code)
}

func TestVerboseLogging(t *testing.T) {
	t.Setenv(envLogLevel, "")
	out := filepath.Join(t.TempDir(), "data.txt")
	code, _, stderr := runCLI(t, "generate", "-v", "--spec_file", "testdata/spec.json", "--fwf_file", out, "-n", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "DEBUG")
	assert.Contains(t, stderr, "fixed-width file written")
}

func TestLogLevelEnv(t *testing.T) {
	t.Setenv(envLogLevel, "chatty")
	code, _, stderr := runCLI(t, "generate", "--spec_file", "testdata/spec.json", "--fwf_file", filepath.Join(t.TempDir(), "x.txt"), "-n", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, envLogLevel)
}

func TestDuplicateKeys(t *testing.T) {
	t.Setenv(envLogLevel, "")
	t.Setenv(envLang, "")
	dir := t.TempDir()
	spec := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(spec, []byte(`{"ColumnNames":["f1"],"Offsets":[3],"Offsets":[4],"IncludeHeader":"False","FixedWidthEncoding":"utf-8","DelimitedEncoding":"utf-8"}`), 0o644))
	out := filepath.Join(dir, "x.txt")

	code, _, stderr := runCLI(t, "generate", "--spec_file", spec, "--fwf_file", out, "-n", "1")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "Duplicate key Offsets.")
	assert.Len(t, readLines(t, out)[0], 4, "last value wins")

	code, _, stderr = runCLI(t, "generate", "-strict_keys", "--spec_file", spec, "--fwf_file", out, "-n", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "/Offsets: Duplicate key Offsets.")
}

func TestLanguage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"ColumnNames":["f1"],"Offsets":[3],"IncludeHeader":"True","FixedWidthEncoding":"HHH","DelimitedEncoding":"utf-8"}`), 0o644))

	code, _, stderr := runCLI(t, "generate", "-lang", "ja", "--spec_file", bad, "--fwf_file", filepath.Join(dir, "x.txt"), "-n", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "エンコーディング HHH が見つかりません")

	t.Setenv(envLang, "ja_JP.UTF-8")
	code, _, stderr = runCLI(t, "generate", "--spec_file", bad, "--fwf_file", filepath.Join(dir, "x.txt"), "-n", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "エンコーディング HHH が見つかりません")

	t.Setenv(envLang, "")
	_, _, stderr = runCLI(t, "generate", "--spec_file", bad, "--fwf_file", filepath.Join(dir, "x.txt"), "-n", "1")
	assert.Contains(t, stderr, "Encoding HHH not found")
}

func TestLangTag(t *testing.T) {
	for in, want := range map[string]string{"ja": "ja", "ja_JP.UTF-8": "ja", "EN-us": "en", "": ""} {
		assert.Equal(t, want, langTag(in), in)
	}
}
