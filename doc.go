// Package fwfconv loads and validates the specification documents that drive
// fixed-width (FWF) to delimited (CSV) conversion.
//
// It provides:
//
// - The specification model: FWFSpec (ordered columns with derived offsets),
//   CSVSpec (column names, delimiter, quote character)
// - Loaders that validate a decoded Document with discrete checks and report
//   failures as Issues (JSON Pointer, code, message)
// - A token Source SPI for JSON documents with duplicate-key and depth
//   enforcement; YAML documents are supported through source/yaml
//
// Design policy:
// - Keep only the model, loaders and error model in the root package.
// - Codecs live under charset/, the fixed-width engine under fwf/, writers
//   under delimited/ and xlsx/, orchestration under convert/ and the CLI under
//   cmd/fwfconv.
//
// Typical usage:
//
//	fwfSpec, csvSpec, err := fwfconv.LoadSpecFile("spec.json")
//	doc, err := fwfconv.ParseJSON(data)
//	spec, err := fwfconv.LoadFixedWidthSpec(doc)
//	if iss, ok := fwfconv.AsIssues(err); ok { ... }
package fwfconv
