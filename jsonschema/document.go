package jsonschema

import (
	"fmt"
	"slices"

	"github.com/goccy/go-json"

	"github.com/dck-problem/fwfconv"
)

// Draft is the dialect announced by exported schemas.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Side selects which layout of a specification document a schema covers.
type Side string

const (
	SideFixedWidth Side = "fwf"
	SideDelimited  Side = "csv"
	SideBoth       Side = "both"
)

func ptr(n int) *int { return &n }

// booleanLike accepts what the loaders accept for IncludeHeader.
func booleanLike() *Schema {
	return &Schema{OneOf: []*Schema{
		{Type: "boolean"},
		{Type: "string", Description: "t, true, on, y, yes, 1 or f, false, off, n, no, 0 in any case"},
		{Type: "integer", Enum: []any{0, 1}},
	}}
}

func columnList(item *Schema) *Schema {
	return &Schema{Type: "array", Items: item, MinItems: ptr(1), MaxItems: ptr(fwfconv.MaxColumns)}
}

func singleChar(def string) *Schema {
	return &Schema{Type: "string", MinLength: ptr(1), MaxLength: ptr(1), Default: def}
}

func properties(side Side) (map[string]*Schema, []string) {
	props := map[string]*Schema{
		fwfconv.KeyIncludeHeader: booleanLike(),
		fwfconv.KeyColumnNames:   columnList(&Schema{Type: "string"}),
	}
	required := []string{fwfconv.KeyIncludeHeader, fwfconv.KeyColumnNames}
	if side == SideFixedWidth || side == SideBoth {
		props[fwfconv.KeyFixedWidthEncoding] = &Schema{Type: "string", Description: "codec of the fixed-width file"}
		props[fwfconv.KeyOffsets] = columnList(&Schema{
			Description: "column widths in characters",
			OneOf: []*Schema{
				{Type: "integer", Minimum: ptr(fwfconv.MinColumnWidth), Maximum: ptr(fwfconv.MaxColumnWidth)},
				{Type: "string", Pattern: "^[0-9]+$"},
			},
		})
		props[fwfconv.KeyColumnTypes] = columnList(&Schema{Type: "string", Default: fwfconv.DefaultColumnType})
		required = append(required, fwfconv.KeyFixedWidthEncoding, fwfconv.KeyOffsets)
	}
	if side == SideDelimited || side == SideBoth {
		props[fwfconv.KeyDelimitedEncoding] = &Schema{Type: "string", Description: "codec of the delimited file"}
		props[fwfconv.KeyDelimiter] = singleChar(string(fwfconv.DefaultDelimiter))
		props[fwfconv.KeyQuoteChar] = singleChar(string(fwfconv.DefaultQuoteChar))
		required = append(required, fwfconv.KeyDelimitedEncoding)
	}
	slices.Sort(required)
	return props, required
}

// ForSide returns the schema of a specification document for side.
func ForSide(side Side) (*Schema, error) {
	switch side {
	case SideFixedWidth, SideDelimited, SideBoth:
	default:
		return nil, fmt.Errorf("unknown side %q", side)
	}
	props, required := properties(side)
	return &Schema{
		Schema:               Draft,
		Title:                "fwfconv specification (" + string(side) + ")",
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: true,
	}, nil
}

// Marshal renders s as indented JSON.
func Marshal(s *Schema) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
