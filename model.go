package fwfconv

// Document keys recognised in a specification document. Unknown keys are
// ignored.
const (
	KeyIncludeHeader      = "IncludeHeader"
	KeyFixedWidthEncoding = "FixedWidthEncoding"
	KeyDelimitedEncoding  = "DelimitedEncoding"
	// KeyOffsets holds column widths, not offsets. The name is kept for
	// compatibility with existing specification documents.
	KeyOffsets     = "Offsets"
	KeyColumnNames = "ColumnNames"
	KeyColumnTypes = "ColumnTypes"
	KeyDelimiter   = "Delimiter"
	KeyQuoteChar   = "QuoteChar"
)

// Bounds enforced by the loaders.
const (
	MaxColumns     = 128
	MinColumnWidth = 1
	MaxColumnWidth = 128
)

// Defaults applied when optional keys are absent.
const (
	DefaultColumnType = "str"
	DefaultDelimiter  = ','
	DefaultQuoteChar  = '"'
)

// FWFColumnSpec describes one fixed-width column. Offset and Length count
// characters, not bytes.
type FWFColumnSpec struct {
	Name   string
	Offset int
	Length int
	Type   string
}

// FWFSpec describes a fixed-width layout.
type FWFSpec struct {
	Columns  []FWFColumnSpec
	Header   bool
	Encoding string
}

// LineLength is the number of characters in a well-formed data line.
func (s *FWFSpec) LineLength() int {
	n := 0
	for _, c := range s.Columns {
		n += c.Length
	}
	return n
}

// ColumnNames returns the column names in order.
func (s *FWFSpec) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// CSVSpec describes a delimited layout.
type CSVSpec struct {
	ColumnNames []string
	Header      bool
	Encoding    string
	Delimiter   rune
	QuoteChar   rune
}

// PrefixOffsets returns the exclusive prefix sums of widths: the starting
// offset of every column.
func PrefixOffsets(widths []int) []int {
	offsets := make([]int, len(widths))
	sum := 0
	for i, w := range widths {
		offsets[i] = sum
		sum += w
	}
	return offsets
}

// DeriveColumns pairs names with widths and derived offsets. types may be nil,
// in which case every column gets DefaultColumnType. The slices must have
// equal length when non-nil.
func DeriveColumns(names []string, widths []int, types []string) []FWFColumnSpec {
	offsets := PrefixOffsets(widths)
	cols := make([]FWFColumnSpec, len(names))
	for i := range names {
		typ := DefaultColumnType
		if types != nil {
			typ = types[i]
		}
		cols[i] = FWFColumnSpec{Name: names[i], Offset: offsets[i], Length: widths[i], Type: typ}
	}
	return cols
}
