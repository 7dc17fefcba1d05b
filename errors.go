package fwfconv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dck-problem/fwfconv/charset"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType     = "invalid_type"
	CodeRequired        = "required"
	CodeDuplicateKey    = "duplicate_key"
	CodeTooSmall        = "too_small"
	CodeTooBig          = "too_big"
	CodeTooShort        = "too_short"
	CodeTooLong         = "too_long"
	CodeTooDeep         = "too_deep"
	CodeMismatch        = "mismatch"
	CodeInvalidEncoding = "invalid_encoding"
	CodeInvalidFormat   = "invalid_format"
	CodeParseError      = "parse_error"
)

var (
	// ErrSpecValidation matches (via errors.Is) every Issues value returned by
	// the loaders.
	ErrSpecValidation = errors.New("specification validation failed")
	// ErrInvalidArgument reports a caller-supplied argument outside its domain,
	// such as a non-positive line count.
	ErrInvalidArgument = errors.New("invalid argument")
)

// EncodingError is returned when text cannot be encoded to, or decoded from,
// the codec declared by a specification.
type EncodingError = charset.EncodingError

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /Offsets/2).
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"min":1, "max":128})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error. It is
// the SpecValidationError of this package.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. /IncludeHeader: Missing data for required field.
		fmt.Fprintf(b, "%s: %s", it.Path, it.Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrSpecValidation) hold for any non-empty Issues.
func (iss Issues) Is(target error) bool {
	return target == ErrSpecValidation && len(iss) > 0
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
