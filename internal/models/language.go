package models

import "strings"

// Language is an ISO 639-1 code from a closed set. Anything the platform
// doesn't carry translations for is rejected at the boundary; lookups for
// supported languages other than English degrade straight to EN.
type Language string

const (
	LanguageEN Language = "EN"
	LanguageES Language = "ES"
	LanguageFR Language = "FR"
)

const DefaultLanguage = LanguageEN

func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToUpper(s)) {
	case LanguageEN, LanguageES, LanguageFR:
		return Language(strings.ToUpper(s)), true
	}
	return "", false
}
