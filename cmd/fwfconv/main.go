package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dck-problem/fwfconv/convert"
	"github.com/dck-problem/fwfconv/i18n"
	"github.com/dck-problem/fwfconv/jsonschema"
	_ "github.com/dck-problem/fwfconv/source" // installs the go-json driver
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "convert":
		return convertCmd(args[1:], stdout, stderr)
	case "generate":
		return generateCmd(args[1:], stdout, stderr)
	case "xlsx":
		return xlsxCmd(args[1:], stdout, stderr)
	case "schema":
		return schemaCmd(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "fwfconv CLI\n\nUsage:\n  fwfconv convert  --spec_file spec.json --fwf_file data.txt --csv_file out.csv\n  fwfconv generate --spec_file spec.json --fwf_file data.txt -n 100\n  fwfconv xlsx     --spec_file spec.json --fwf_file data.txt --xlsx_file out.xlsx [-sheet name]\n  fwfconv schema   [-side fwf|csv|both]\n\nNotes:\n  - Spec files may be JSON or YAML (.yaml/.yml).\n  - -v enables debug logs; "+envLogLevel+" sets the log level.\n  - Duplicate spec keys keep the last value with a warning; -strict_keys rejects them.\n  - -lang (default $"+envLang+") selects en or ja validation messages.")
}

const envLang = "FWFCONV_LANG"

// common flags of the file subcommands
type fileFlags struct {
	spec    string
	fwf     string
	verbose bool
	strict  bool
	lang    string
}

func (f *fileFlags) register(fs *flag.FlagSet, fwfHelp string) {
	fs.StringVar(&f.spec, "spec_file", "", "fixed width and delimited spec file path (JSON or YAML)")
	fs.StringVar(&f.fwf, "fwf_file", "", fwfHelp)
	fs.BoolVar(&f.verbose, "v", false, "enable verbose logs")
	fs.BoolVar(&f.strict, "strict_keys", false, "reject spec files with duplicate keys")
	fs.StringVar(&f.lang, "lang", os.Getenv(envLang), "language of validation messages (en, ja)")
}

// langTag reduces locale names such as ja_JP.UTF-8 to their language.
func langTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "_-."); i >= 0 {
		s = s[:i]
	}
	return s
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse returns the exit code to use when parsing did not succeed.
func parse(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

// missing reports unset required string flags and prints usage.
func missing(fs *flag.FlagSet, stderr io.Writer, required map[string]string) bool {
	var names []string
	fs.VisitAll(func(f *flag.Flag) {
		if v, ok := required[f.Name]; ok && v == "" {
			names = append(names, "-"+f.Name)
		}
	})
	if len(names) == 0 {
		return false
	}
	fmt.Fprintf(stderr, "missing required flag(s): %s\n", strings.Join(names, ", "))
	fs.Usage()
	return true
}

func converter(ff fileFlags, stderr io.Writer) (*convert.Converter, func(), error) {
	log, err := newLogger(stderr, ff.verbose)
	if err != nil {
		return nil, nil, err
	}
	i18n.SetLanguage(langTag(ff.lang))
	restore := zap.ReplaceGlobals(log.Desugar())
	done := func() {
		_ = log.Sync()
		restore()
		i18n.SetLanguage("en")
	}
	return &convert.Converter{Log: log, StrictKeys: ff.strict}, done, nil
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func convertCmd(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("convert", stderr)
	var ff fileFlags
	var csvFile string
	ff.register(fs, "fixed width data file path")
	fs.StringVar(&csvFile, "csv_file", "", "output CSV file path")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if missing(fs, stderr, map[string]string{"spec_file": ff.spec, "fwf_file": ff.fwf, "csv_file": csvFile}) {
		return 2
	}
	c, done, err := converter(ff, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer done()
	if _, err := c.ConvertFWFToCSV(ff.spec, ff.fwf, csvFile); err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintf(stdout, "CSV file is generated : %s\n", csvFile)
	return 0
}

func generateCmd(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("generate", stderr)
	var ff fileFlags
	var n int
	ff.register(fs, "output fixed width file path")
	fs.IntVar(&n, "n", 0, "number of lines (> 0)")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	// -n has no usable default; an explicit value <= 0 is rejected later.
	nVal := ""
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "n" {
			nVal = f.Value.String()
		}
	})
	if missing(fs, stderr, map[string]string{"spec_file": ff.spec, "fwf_file": ff.fwf, "n": nVal}) {
		return 2
	}
	c, done, err := converter(ff, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer done()
	if _, err := c.GenerateFWFFile(ff.spec, n, ff.fwf); err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintf(stdout, "Fixed width file is generated : %s\n", ff.fwf)
	return 0
}

func xlsxCmd(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("xlsx", stderr)
	var ff fileFlags
	var xlsxFile, sheet string
	ff.register(fs, "fixed width data file path")
	fs.StringVar(&xlsxFile, "xlsx_file", "", "output Excel workbook path")
	fs.StringVar(&sheet, "sheet", "", "worksheet name (default Sheet1)")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if missing(fs, stderr, map[string]string{"spec_file": ff.spec, "fwf_file": ff.fwf, "xlsx_file": xlsxFile}) {
		return 2
	}
	c, done, err := converter(ff, stderr)
	if err != nil {
		return fail(stderr, err)
	}
	defer done()
	c.Sheet = sheet
	if _, err := c.ConvertFWFToXLSX(ff.spec, ff.fwf, xlsxFile); err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintf(stdout, "XLSX file is generated : %s\n", xlsxFile)
	return 0
}

func schemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("schema", stderr)
	var side string
	fs.StringVar(&side, "side", string(jsonschema.SideBoth), "layout to describe: fwf, csv or both")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	s, err := jsonschema.ForSide(jsonschema.Side(side))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		fs.Usage()
		return 2
	}
	b, err := jsonschema.Marshal(s)
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintln(stdout, string(b))
	return 0
}
