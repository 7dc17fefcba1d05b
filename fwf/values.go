package fwf

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/dck-problem/fwfconv"
)

// ValueFunc produces the text of one cell for col. The returned string is
// written verbatim; it is neither padded nor truncated to col.Length.
type ValueFunc func(col fwfconv.FWFColumnSpec) (string, error)

// ErrUnknownType matches (via errors.Is) the error RandomValue returns for a
// column type it has no generator for.
var ErrUnknownType = errors.New("fwf: unknown column type")

// UnknownTypeError names the column whose type tag is not registered.
type UnknownTypeError struct {
	Type   string
	Column string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("Unexpected datatype %s for column %s", e.Type, e.Column)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

const lowercase = "abcdefghijklmnopqrstuvwxyz"

// generators is closed: only the listed type tags can be generated.
var generators = map[string]func(col fwfconv.FWFColumnSpec) string{
	"str": randomLower,
}

// RandomValue is the default ValueFunc. A "str" column gets exactly
// col.Length random lowercase ASCII letters.
func RandomValue(col fwfconv.FWFColumnSpec) (string, error) {
	gen, ok := generators[col.Type]
	if !ok {
		return "", &UnknownTypeError{Type: col.Type, Column: col.Name}
	}
	return gen(col), nil
}

func randomLower(col fwfconv.FWFColumnSpec) string {
	b := make([]byte, col.Length)
	for i := range b {
		b[i] = lowercase[rand.IntN(len(lowercase))]
	}
	return string(b)
}
