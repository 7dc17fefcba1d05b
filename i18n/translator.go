package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional values to embed in the message (for example,
// "min", "max", "expected" or "name").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":         "Missing data for required field.",
		"invalid_type":     "Not a valid {expected}.",
		"too_short":        "Length must be between {min} and {max}.",
		"too_long":         "Length must be between {min} and {max}.",
		"too_small":        "Must be greater than or equal to {min} and less than or equal to {max}.",
		"too_big":          "Must be greater than or equal to {min} and less than or equal to {max}.",
		"mismatch":         "{field} length must be the same as {other} length",
		"invalid_encoding": "Encoding {name} not found",
		"invalid_format":   "{reason}",
		"duplicate_key":    "Duplicate key {key}.",
		"too_deep":         "Document nesting exceeds {max} levels.",
		"parse_error":      "Invalid document: {detail}",
	},
	"ja": {
		"required":         "必須フィールドが不足しています。",
		"invalid_type":     "{expected} として不正です。",
		"too_short":        "長さは {min} 以上 {max} 以下である必要があります。",
		"too_long":         "長さは {min} 以上 {max} 以下である必要があります。",
		"too_small":        "{min} 以上 {max} 以下である必要があります。",
		"too_big":          "{min} 以上 {max} 以下である必要があります。",
		"mismatch":         "{field} の長さは {other} の長さと一致する必要があります",
		"invalid_encoding": "エンコーディング {name} が見つかりません",
		"invalid_format":   "{reason}",
		"duplicate_key":    "キー {key} が重複しています。",
		"too_deep":         "ドキュメントのネストが {max} 階層を超えています。",
		"parse_error":      "ドキュメントが不正です: {detail}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
