// Package fwf reads and writes fixed-width field files described by a
// fwfconv.FWFSpec.
//
// Columns are addressed by character offsets, never bytes: a line is decoded
// with the codec named by the spec before it is sliced, and generated lines
// are encoded with the same codec when written.
//
// Generation
//
//	lines, err := fwf.GenerateLines(spec, 100, nil) // nil selects RandomValue
//	for line, err := range lines { ... }
//	err = fwf.WriteFile(spec, 100, "out/data.txt", nil)
//
// Parsing
//
//	for rec, err := range fwf.ParseFile(spec, "out/data.txt") { ... }
package fwf
