// Package i18n holds the localized UI strings and resolves the active language.
package i18n

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
)

// Language is a UI language as named by the backend's set_language endpoint.
type Language string

// Supported languages.
const (
	English Language = "English"
	German  Language = "German"
)

// Default is used when nothing else is configured.
const Default = English

// Languages lists the supported languages in display order.
var Languages = []Language{English, German}

var matcher = language.NewMatcher([]language.Tag{language.English, language.German})

// ParseLanguage accepts a backend language name ("German") or a BCP 47 / POSIX
// locale ("de", "de_DE.UTF-8").
func ParseLanguage(s string) (Language, error) {
	trimmed := strings.TrimSpace(s)
	for _, lang := range Languages {
		if strings.EqualFold(trimmed, string(lang)) {
			return lang, nil
		}
	}

	if i := strings.IndexAny(trimmed, ".@"); i >= 0 {
		trimmed = trimmed[:i]
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return Default, fmt.Errorf("unsupported language %q", s)
	}

	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return Default, fmt.Errorf("unsupported language %q", s)
	}
	return Languages[idx], nil
}

// Strings is one language's string table.
type Strings struct {
	lang  Language
	table map[string]string
}

// For returns the string table for lang, falling back to English.
func For(lang Language) Strings {
	table, ok := catalog[lang]
	if !ok {
		slog.Warn("Language not supported, falling back", "language", lang, "fallback", Default)
		lang = Default
		table = catalog[Default]
	}
	return Strings{lang: lang, table: table}
}

// Language returns the language of the table.
func (s Strings) Language() Language {
	if s.lang == "" {
		return Default
	}
	return s.lang
}

// Get returns the localized string for key, or the key itself when missing.
func (s Strings) Get(key string) string {
	table := s.table
	if table == nil {
		table = catalog[Default]
	}
	if v, ok := table[key]; ok {
		return v
	}
	return key
}

// Format looks up key and applies fmt.Sprintf with args.
func (s Strings) Format(key string, args ...any) string {
	return fmt.Sprintf(s.Get(key), args...)
}
