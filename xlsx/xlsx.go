// Package xlsx writes parsed records into an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"iter"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/dck-problem/fwfconv"
	"github.com/dck-problem/fwfconv/internal/atomicfile"
)

// DefaultSheet is the sheet name used when none is given.
const DefaultSheet = "Sheet1"

const minColWidth = 12

// WriteFile streams rows into a single-sheet workbook at path. When
// spec.Header is set the column names form a bold first row. Every value is
// stored as a string. The first error yielded by rows aborts the write and no
// file is created.
func WriteFile(spec *fwfconv.CSVSpec, rows iter.Seq2[[]string, error], path, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	// Approximate auto-fit from the column names.
	for i, name := range spec.ColumnNames {
		width := float64(max(utf8.RuneCountInString(name)+4, minColWidth))
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	row := 1
	if spec.Header {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
		})
		if err != nil {
			return fmt.Errorf("failed to create header style: %w", err)
		}
		cells := make([]any, len(spec.ColumnNames))
		for i, name := range spec.ColumnNames {
			cells[i] = excelize.Cell{StyleID: style, Value: name}
		}
		if err := setRow(sw, row, cells); err != nil {
			return err
		}
		row++
	}

	for rec, err := range rows {
		if err != nil {
			return err
		}
		cells := make([]any, len(rec))
		for i, v := range rec {
			cells[i] = v
		}
		if err := setRow(sw, row, cells); err != nil {
			return err
		}
		row++
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	return atomicfile.Write(path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("failed to write Excel file: %w", err)
		}
		return nil
	})
}

func setRow(sw *excelize.StreamWriter, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := sw.SetRow(cell, cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
