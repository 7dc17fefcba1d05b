// Package convert wires specification loading, fixed-width parsing and
// generation, and the output sinks into the operations exposed by the CLI.
package convert

import (
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/dck-problem/fwfconv"
	"github.com/dck-problem/fwfconv/delimited"
	"github.com/dck-problem/fwfconv/fwf"
	"github.com/dck-problem/fwfconv/xlsx"
)

// Converter runs conversions. The zero value is ready to use: it logs through
// zap.S() and generates values with fwf.RandomValue.
type Converter struct {
	Log *zap.SugaredLogger
	// Gen produces cell values for GenerateFWFFile; nil selects
	// fwf.RandomValue.
	Gen fwf.ValueFunc
	// Sheet names the worksheet written by ConvertFWFToXLSX.
	Sheet string
	// Opts are passed to the specification loaders. Unless StrictKeys is
	// set, Opts.DuplicateKeys is overridden so that a repeated key keeps its
	// last value and is logged as a warning.
	Opts fwfconv.LoadOpt
	// StrictKeys rejects specification documents with duplicate keys.
	StrictKeys bool
}

// Result summarises a finished operation.
type Result struct {
	Records int // data records read or generated, header excluded
}

func (c *Converter) log() *zap.SugaredLogger {
	if c.Log != nil {
		return c.Log
	}
	return zap.S()
}

// ConvertFWFToCSV loads both layouts from specPath, parses fwfPath and
// writes the records to csvPath.
func (c *Converter) ConvertFWFToCSV(specPath, fwfPath, csvPath string) (Result, error) {
	fwfSpec, csvSpec, err := c.loadSpecs(specPath)
	if err != nil {
		return Result{}, err
	}
	var res Result
	rows := counted(fwf.ParseFile(fwfSpec, fwfPath), &res.Records)
	if err := delimited.WriteFile(csvSpec, rows, csvPath); err != nil {
		return Result{}, fmt.Errorf("converting %s to %s: %w", fwfPath, csvPath, err)
	}
	c.log().Infow("CSV file written", "input", fwfPath, "output", csvPath, "records", res.Records, "encoding", csvSpec.Encoding)
	return res, nil
}

// ConvertFWFToXLSX is like ConvertFWFToCSV but writes an Excel workbook.
// The delimited layout still supplies the header row.
func (c *Converter) ConvertFWFToXLSX(specPath, fwfPath, xlsxPath string) (Result, error) {
	fwfSpec, csvSpec, err := c.loadSpecs(specPath)
	if err != nil {
		return Result{}, err
	}
	var res Result
	rows := counted(fwf.ParseFile(fwfSpec, fwfPath), &res.Records)
	if err := xlsx.WriteFile(csvSpec, rows, xlsxPath, c.Sheet); err != nil {
		return Result{}, fmt.Errorf("converting %s to %s: %w", fwfPath, xlsxPath, err)
	}
	c.log().Infow("XLSX file written", "input", fwfPath, "output", xlsxPath, "records", res.Records)
	return res, nil
}

// GenerateFWFFile loads the fixed-width layout from specPath and writes n
// generated data lines to fwfPath.
func (c *Converter) GenerateFWFFile(specPath string, n int, fwfPath string) (Result, error) {
	spec, err := fwfconv.LoadFixedWidthSpecFile(specPath, c.loadOpt(specPath))
	if err != nil {
		return Result{}, fmt.Errorf("loading %s: %w", specPath, err)
	}
	c.log().Debugw("fixed-width spec loaded", "spec", specPath, "columns", len(spec.Columns), "lineLength", spec.LineLength())
	if err := fwf.WriteFile(spec, n, fwfPath, c.Gen); err != nil {
		return Result{}, fmt.Errorf("generating %s: %w", fwfPath, err)
	}
	c.log().Infow("fixed-width file written", "output", fwfPath, "records", n, "encoding", spec.Encoding)
	return Result{Records: n}, nil
}

func (c *Converter) loadSpecs(specPath string) (*fwfconv.FWFSpec, *fwfconv.CSVSpec, error) {
	fwfSpec, csvSpec, err := fwfconv.LoadSpecFile(specPath, c.loadOpt(specPath))
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", specPath, err)
	}
	c.log().Debugw("spec loaded", "spec", specPath, "columns", len(fwfSpec.Columns),
		"fwfEncoding", fwfSpec.Encoding, "csvEncoding", csvSpec.Encoding, "header", fwfSpec.Header)
	if len(csvSpec.ColumnNames) != len(fwfSpec.Columns) {
		c.log().Warnw("column count differs between layouts",
			"fixedWidth", len(fwfSpec.Columns), "delimited", len(csvSpec.ColumnNames))
	}
	return fwfSpec, csvSpec, nil
}

func (c *Converter) loadOpt(specPath string) fwfconv.LoadOpt {
	opt := c.Opts
	if c.StrictKeys {
		opt.DuplicateKeys = fwfconv.DuplicateReject
		return opt
	}
	opt.DuplicateKeys = fwfconv.DuplicateWarn
	next := opt.OnWarning
	opt.OnWarning = func(is fwfconv.Issue) {
		c.log().Warnw(is.Message, "spec", specPath, "path", is.Path, "code", is.Code)
		if next != nil {
			next(is)
		}
	}
	return opt
}

// counted passes rows through, incrementing *n for each successful record.
func counted(rows iter.Seq2[[]string, error], n *int) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		for rec, err := range rows {
			if err == nil {
				*n++
			}
			if !yield(rec, err) {
				return
			}
		}
	}
}
