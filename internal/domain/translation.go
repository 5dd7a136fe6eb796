package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Language is one of the closed set of languages a translation can be written in.
type Language string

// Supported languages. The declaration order is also the order in which
// translations for a key are listed.
const (
	LanguageNL Language = "nl"
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
	LanguageDE Language = "de"
)

var (
	ErrEmptyTranslationKey = errors.New("translation key cannot be empty")
	ErrInvalidLanguage     = errors.New("invalid language")
	ErrEmptyTranslation    = errors.New("translation cannot be empty")
)

// Languages returns every supported language in listing order.
func Languages() []Language {
	return []Language{LanguageNL, LanguageEN, LanguageFR, LanguageDE}
}

// ParseLanguage converts a raw language code into a Language.
func ParseLanguage(raw string) (Language, error) {
	lang := Language(raw)
	if !lang.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, raw)
	}
	return lang, nil
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguageNL, LanguageEN, LanguageFR, LanguageDE:
		return true
	}
	return false
}

// Rank is the position of l in listing order, or -1 for unknown languages.
func (l Language) Rank() int {
	for i, lang := range Languages() {
		if lang == l {
			return i
		}
	}
	return -1
}

func (l Language) String() string {
	return string(l)
}

// Translation is one localized string. Translations sharing a Key are the same
// logical text in different languages; at most one exists per (Key, Language).
type Translation struct {
	ID        int64     `json:"id"`
	Key       string    `json:"translationKey"`
	Language  Language  `json:"language"`
	Text      string    `json:"translation"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTranslation builds an unsaved translation. ID and timestamps are set by the store.
func NewTranslation(key string, language Language, text string) (*Translation, error) {
	t := &Translation{
		Key:      key,
		Language: language,
		Text:     text,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks if the Translation has valid data.
func (t *Translation) Validate() error {
	if strings.TrimSpace(t.Key) == "" {
		return ErrEmptyTranslationKey
	}
	if !t.Language.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, string(t.Language))
	}
	if t.Text == "" {
		return ErrEmptyTranslation
	}
	return nil
}
