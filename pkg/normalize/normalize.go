// Package normalize folds scientific name strings into comparable forms.
// All functions are pure and never fail; characters without a mapping are
// passed through unchanged.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ligatures have no Unicode decomposition, so they are substituted
// before diacritics are stripped.
var ligatures = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"ð", "d", "Ð", "D", "Đ", "D", "đ", "d",
	"ł", "l", "Ł", "L",
	"ŧ", "t", "Ŧ", "T",
)

var quotes = strings.NewReplacer(
	"'", "", "\"", "", "‘", "", "’", "", "“", "", "”", "", "`", "",
)

// Normalize converts an epithet or uninomial to its comparable form. It
// folds ligatures and diacritics to ASCII, lower-cases the string,
// removes hybrid signs, quotes and hyphens, and collapses whitespace.
//
//	Normalize("Œnanthe") == "oenanthe"
//	Normalize("×Agropogon") == "agropogon"
//	Normalize("novae-angliae") == "novaeangliae"
func Normalize(s string) string {
	s = Fold(s)
	s = strings.ReplaceAll(s, "×", " ")
	s = quotes.Replace(s)
	s = strings.ReplaceAll(s, "-", "")
	return collapse(s)
}

// Verbatim converts a raw name string that cannot be decomposed into a
// comparable form. It folds and lower-cases the string and collapses
// whitespace, but keeps hybrid signs and punctuation, so different
// hybrid formulas stay different.
func Verbatim(s string) string {
	s = Fold(s)
	s = strings.ReplaceAll(s, "×", " × ")
	return collapse(s)
}

// Fold applies ASCII folding and lower-casing only.
func Fold(s string) string {
	if s == "" {
		return s
	}
	s = ligatures.Replace(s)
	if !isASCII(s) {
		t := transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		)
		if res, _, err := transform.String(t, s); err == nil {
			s = res
		}
	}
	return strings.ToLower(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
