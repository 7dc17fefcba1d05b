package fwfconv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	eng "github.com/dck-problem/fwfconv/internal/engine"
	yamlsrc "github.com/dck-problem/fwfconv/source/yaml"
)

// Document is a decoded specification document: the generic value tree of a
// single JSON (or YAML) object.
type Document map[string]any

// DecodeDocument drains src into a Document, enforcing duplicate-key and
// depth policies. Malformed input is reported as Issues.
func DecodeDocument(src Source, opts ...LoadOpt) (Document, error) {
	opt := resolveOpt(opts)
	eo := eng.EnforceOptions{OnDuplicate: eng.DupError, MaxDepth: opt.maxDepth()}
	switch opt.DuplicateKeys {
	case DuplicateWarn:
		eo.OnDuplicate = eng.DupWarn
		eo.IssueSink = func(si eng.SimpleIssue) {
			if opt.OnWarning != nil {
				opt.OnWarning(duplicateIssue(si.Path))
			}
		}
	case DuplicateAllow:
		eo.OnDuplicate = eng.DupIgnore
	}
	enforced := eng.WrapWithEnforcement(src, eo)
	v, err := eng.DecodeAnyFromSource(enforced)
	if err != nil {
		return nil, documentError(err, opt)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, Issues{Root().Issue(CodeInvalidType, "expected", "object")}
	}
	return Document(m), nil
}

func documentError(err error, opt LoadOpt) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		at := pointerRef(ie.Path)
		switch ie.Code {
		case CodeDuplicateKey:
			return Issues{duplicateIssue(ie.Path)}
		case CodeTooDeep:
			return Issues{at.Issue(CodeTooDeep, "max", strconv.Itoa(opt.maxDepth()))}
		}
	}
	return Issues{Root().Issue(CodeParseError, "detail", err.Error())}
}

func duplicateIssue(ptr string) Issue {
	return pointerRef(ptr).Issue(CodeDuplicateKey, "key", lastSegment(ptr))
}

// ParseJSON decodes a JSON specification document using the current driver.
func ParseJSON(data []byte, opts ...LoadOpt) (Document, error) {
	return DecodeDocument(JSONBytes(data), opts...)
}

// ParseYAML decodes a YAML specification document.
func ParseYAML(data []byte) (Document, error) {
	m, err := yamlsrc.Decode(data)
	if err != nil {
		if errors.Is(err, yamlsrc.ErrNotMapping) {
			return nil, Issues{Root().Issue(CodeInvalidType, "expected", "object")}
		}
		return nil, Issues{Root().Issue(CodeParseError, "detail", err.Error())}
	}
	return Document(m), nil
}

// ReadDocumentFile reads a specification document from path. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. I/O errors are
// returned wrapped, not as Issues.
func ReadDocumentFile(path string, opts ...LoadOpt) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data, opts...)
	}
}

func pointerRef(ptr string) PathRef {
	ref := Root()
	for _, part := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		if part == "" {
			continue
		}
		ref = ref.Field(unescapePointer(part))
	}
	return ref
}

func lastSegment(ptr string) string {
	i := strings.LastIndexByte(ptr, '/')
	return unescapePointer(ptr[i+1:])
}

func unescapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
