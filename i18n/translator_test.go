package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("required", nil); msg != "Missing data for required field." {
		t.Fatalf("unexpected default message %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "Missing data for required field." {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Interpolation(t *testing.T) {
	got := T("too_short", map[string]string{"min": "1", "max": "128"})
	if got != "Length must be between 1 and 128." {
		t.Fatalf("got %q", got)
	}
	got = T("invalid_encoding", map[string]string{"name": "HHH"})
	if got != "Encoding HHH not found" {
		t.Fatalf("got %q", got)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if got := T("required", nil); got != "X:required" {
		t.Fatalf("got %q", got)
	}
	if got := T("unknown_code", nil); got != "X:unknown_code" {
		t.Fatalf("got %q", got)
	}
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("got %q", got)
	}
}
