package fwfconv

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dck-problem/fwfconv/charset"
)

// validator collects issues from discrete checks over a Document. In
// fail-fast mode every check becomes a no-op after the first issue.
type validator struct {
	doc      Document
	failFast bool
	issues   Issues
	bad      map[string]bool // keys that already produced an issue
}

func newValidator(doc Document, opt LoadOpt) *validator {
	return &validator{doc: doc, failFast: opt.FailFast, bad: map[string]bool{}}
}

func (v *validator) stopped() bool { return v.failFast && len(v.issues) > 0 }

func (v *validator) report(key string, is ...Issue) {
	if len(is) == 0 || v.stopped() {
		return
	}
	if v.failFast {
		is = is[:1]
	}
	v.bad[key] = true
	v.issues = AppendIssues(v.issues, is...)
}

func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return v.issues
}

// require reports every missing key. It runs before any value check.
func (v *validator) require(keys ...string) {
	for _, k := range keys {
		if _, ok := v.doc[k]; !ok {
			v.report(k, Root().Field(k).Issue(CodeRequired))
		}
	}
}

// lookup returns the raw value for key when it is present and has not failed
// an earlier check.
func (v *validator) lookup(key string) (any, bool) {
	if v.stopped() || v.bad[key] {
		return nil, false
	}
	raw, ok := v.doc[key]
	return raw, ok
}

func (v *validator) boolField(key string) (bool, bool) {
	raw, ok := v.lookup(key)
	if !ok {
		return false, false
	}
	b, ok := asBool(raw)
	if !ok {
		v.report(key, Root().Field(key).Issue(CodeInvalidType, "expected", "boolean"))
		return false, false
	}
	return b, true
}

func (v *validator) stringField(key string) (string, bool) {
	raw, ok := v.lookup(key)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		v.report(key, Root().Field(key).Issue(CodeInvalidType, "expected", "string"))
		return "", false
	}
	return s, true
}

// list checks that key holds an array with 1..MaxColumns entries.
func (v *validator) list(key string) ([]any, bool) {
	raw, ok := v.lookup(key)
	if !ok {
		return nil, false
	}
	p := Root().Field(key)
	arr, ok := raw.([]any)
	if !ok {
		v.report(key, p.Issue(CodeInvalidType, "expected", "list"))
		return nil, false
	}
	if is := lengthBetween(p, len(arr), 1, MaxColumns); is != nil {
		v.report(key, *is)
		return nil, false
	}
	return arr, true
}

func (v *validator) stringList(key string) ([]string, bool) {
	arr, ok := v.list(key)
	if !ok {
		return nil, false
	}
	p := Root().Field(key)
	out := make([]string, len(arr))
	var iss Issues
	for i, e := range arr {
		s, ok := e.(string)
		if !ok {
			iss = append(iss, p.Index(i).Issue(CodeInvalidType, "expected", "string"))
			continue
		}
		out[i] = s
	}
	if len(iss) > 0 {
		v.report(key, iss...)
		return nil, false
	}
	return out, true
}

// widths checks that key holds column widths within the allowed range.
func (v *validator) widths(key string) ([]int, bool) {
	arr, ok := v.list(key)
	if !ok {
		return nil, false
	}
	p := Root().Field(key)
	out := make([]int, len(arr))
	var iss Issues
	for i, e := range arr {
		n, ok := asInt(e)
		if !ok {
			iss = append(iss, p.Index(i).Issue(CodeInvalidType, "expected", "integer"))
			continue
		}
		if is := rangeBetween(p.Index(i), n, MinColumnWidth, MaxColumnWidth); is != nil {
			iss = append(iss, *is)
			continue
		}
		out[i] = n
	}
	if len(iss) > 0 {
		v.report(key, iss...)
		return nil, false
	}
	return out, true
}

// encoding checks that the named codec resolves.
func (v *validator) encoding(key, name string) bool {
	if v.stopped() {
		return false
	}
	if !charset.Known(name) {
		v.report(key, Root().Field(key).Issue(CodeInvalidEncoding, "name", name))
		return false
	}
	return true
}

// sameLength is the cross-field check between two list keys.
func (v *validator) sameLength(key string, n int, other string, m int) {
	if v.stopped() || n == m {
		return
	}
	v.report(key, Root().Field(key).Issue(CodeMismatch, "field", key, "other", other, "got", n, "want", m))
}

// char checks an optional single-character key, returning def when absent.
func (v *validator) char(key string, def rune) (rune, bool) {
	if _, present := v.doc[key]; !present {
		return def, true
	}
	s, ok := v.stringField(key)
	if !ok {
		return 0, false
	}
	if utf8.RuneCountInString(s) != 1 {
		v.report(key, Root().Field(key).Issue(CodeInvalidFormat, "reason", "Must be a single character."))
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\r' || r == '\n' {
		v.report(key, Root().Field(key).Issue(CodeInvalidFormat, "reason", "Must not be a line break."))
		return 0, false
	}
	return r, true
}

func lengthBetween(p PathRef, n, lo, hi int) *Issue {
	var is Issue
	switch {
	case n < lo:
		is = p.Issue(CodeTooShort, "min", lo, "max", hi, "got", n)
	case n > hi:
		is = p.Issue(CodeTooLong, "min", lo, "max", hi, "got", n)
	default:
		return nil
	}
	return &is
}

func rangeBetween(p PathRef, n, lo, hi int) *Issue {
	var is Issue
	switch {
	case n < lo:
		is = p.Issue(CodeTooSmall, "min", lo, "max", hi, "got", n)
	case n > hi:
		is = p.Issue(CodeTooBig, "min", lo, "max", hi, "got", n)
	default:
		return nil
	}
	return &is
}

var (
	truthy = map[string]bool{"t": true, "true": true, "on": true, "y": true, "yes": true, "1": true}
	falsy  = map[string]bool{"f": true, "false": true, "off": true, "n": true, "no": true, "0": true}
)

// asBool accepts JSON booleans, the usual truthy/falsy words in any case and
// the numbers 1 and 0.
func asBool(raw any) (bool, bool) {
	switch t := raw.(type) {
	case bool:
		return t, true
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if truthy[s] {
			return true, true
		}
		if falsy[s] {
			return false, true
		}
	case json.Number:
		switch t.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	}
	return false, false
}

// asInt accepts integral numbers and numeric strings.
func asInt(raw any) (int, bool) {
	var s string
	switch t := raw.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
