package fwfconv

// LoadFixedWidthSpec validates doc and builds the fixed-width layout it
// declares. Offsets in the document are column widths; true offsets are
// derived as their exclusive prefix sum. On failure the error is Issues and
// no spec is returned.
func LoadFixedWidthSpec(doc Document, opts ...LoadOpt) (*FWFSpec, error) {
	v := newValidator(doc, resolveOpt(opts))
	v.require(KeyIncludeHeader, KeyFixedWidthEncoding, KeyOffsets, KeyColumnNames)

	header, _ := v.boolField(KeyIncludeHeader)
	enc, encOK := v.stringField(KeyFixedWidthEncoding)
	widths, widthsOK := v.widths(KeyOffsets)
	names, namesOK := v.stringList(KeyColumnNames)
	var types []string
	typesOK := true
	if _, present := doc[KeyColumnTypes]; present {
		types, typesOK = v.stringList(KeyColumnTypes)
	}

	if encOK {
		v.encoding(KeyFixedWidthEncoding, enc)
	}
	if widthsOK && namesOK {
		v.sameLength(KeyOffsets, len(widths), KeyColumnNames, len(names))
	}
	if types != nil && typesOK && namesOK {
		v.sameLength(KeyColumnTypes, len(types), KeyColumnNames, len(names))
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return &FWFSpec{
		Columns:  DeriveColumns(names, widths, types),
		Header:   header,
		Encoding: enc,
	}, nil
}

// LoadDelimitedSpec validates doc and builds the delimited layout it declares.
func LoadDelimitedSpec(doc Document, opts ...LoadOpt) (*CSVSpec, error) {
	v := newValidator(doc, resolveOpt(opts))
	v.require(KeyIncludeHeader, KeyDelimitedEncoding, KeyColumnNames)

	header, _ := v.boolField(KeyIncludeHeader)
	enc, encOK := v.stringField(KeyDelimitedEncoding)
	names, _ := v.stringList(KeyColumnNames)
	delim, delimOK := v.char(KeyDelimiter, DefaultDelimiter)
	quote, quoteOK := v.char(KeyQuoteChar, DefaultQuoteChar)

	if encOK {
		v.encoding(KeyDelimitedEncoding, enc)
	}
	if delimOK && quoteOK && delim == quote && !v.stopped() {
		v.report(KeyQuoteChar, Root().Field(KeyQuoteChar).Issue(CodeInvalidFormat, "reason", "QuoteChar must differ from Delimiter."))
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return &CSVSpec{
		ColumnNames: names,
		Header:      header,
		Encoding:    enc,
		Delimiter:   delim,
		QuoteChar:   quote,
	}, nil
}

// LoadFixedWidthSpecJSON decodes a JSON document and loads the fixed-width
// spec from it.
func LoadFixedWidthSpecJSON(data []byte, opts ...LoadOpt) (*FWFSpec, error) {
	doc, err := ParseJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return LoadFixedWidthSpec(doc, opts...)
}

// LoadDelimitedSpecJSON decodes a JSON document and loads the delimited spec
// from it.
func LoadDelimitedSpecJSON(data []byte, opts ...LoadOpt) (*CSVSpec, error) {
	doc, err := ParseJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return LoadDelimitedSpec(doc, opts...)
}

// LoadFixedWidthSpecFile reads path (JSON or YAML) and loads the fixed-width
// spec from it.
func LoadFixedWidthSpecFile(path string, opts ...LoadOpt) (*FWFSpec, error) {
	doc, err := ReadDocumentFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return LoadFixedWidthSpec(doc, opts...)
}

// LoadDelimitedSpecFile reads path (JSON or YAML) and loads the delimited spec
// from it.
func LoadDelimitedSpecFile(path string, opts ...LoadOpt) (*CSVSpec, error) {
	doc, err := ReadDocumentFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return LoadDelimitedSpec(doc, opts...)
}

// LoadSpecFile reads path once and loads both layouts from the same
// document.
func LoadSpecFile(path string, opts ...LoadOpt) (*FWFSpec, *CSVSpec, error) {
	doc, err := ReadDocumentFile(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	fwfSpec, err := LoadFixedWidthSpec(doc, opts...)
	if err != nil {
		return nil, nil, err
	}
	csvSpec, err := LoadDelimitedSpec(doc, opts...)
	if err != nil {
		return nil, nil, err
	}
	return fwfSpec, csvSpec, nil
}
