package fwf

import (
	"strings"
	"unicode/utf8"

	"github.com/dck-problem/fwfconv"
)

// HeaderLine returns the header row of spec: every column name right-padded
// with spaces to the column length. A name longer than its column is written
// as is, without truncation.
func HeaderLine(spec *fwfconv.FWFSpec) string {
	var b strings.Builder
	b.Grow(spec.LineLength())
	for _, col := range spec.Columns {
		b.WriteString(col.Name)
		if pad := col.Length - utf8.RuneCountInString(col.Name); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}
