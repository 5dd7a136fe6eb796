package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	for _, lang := range Languages() {
		got, err := ParseLanguage(string(lang))
		require.NoError(t, err)
		assert.Equal(t, lang, got)
	}

	for _, raw := range []string{"xx", "", "EN", "english"} {
		_, err := ParseLanguage(raw)
		assert.ErrorIs(t, err, ErrInvalidLanguage, "language %q", raw)
	}
}

func TestLanguageRank(t *testing.T) {
	assert.Equal(t, 0, LanguageNL.Rank())
	assert.Equal(t, 1, LanguageEN.Rank())
	assert.Equal(t, 2, LanguageFR.Rank())
	assert.Equal(t, 3, LanguageDE.Rank())
	assert.Equal(t, -1, Language("xx").Rank())
}

func TestNewTranslation(t *testing.T) {
	tr, err := NewTranslation("greeting", LanguageEN, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "greeting", tr.Key)
	assert.Equal(t, LanguageEN, tr.Language)
	assert.Equal(t, "Hello", tr.Text)
	assert.Zero(t, tr.ID)

	tests := []struct {
		name     string
		key      string
		language Language
		text     string
		want     error
	}{
		{"empty key", "", LanguageEN, "Hello", ErrEmptyTranslationKey},
		{"blank key", "   ", LanguageEN, "Hello", ErrEmptyTranslationKey},
		{"unknown language", "greeting", Language("xx"), "Hello", ErrInvalidLanguage},
		{"empty text", "greeting", LanguageEN, "", ErrEmptyTranslation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTranslation(tt.key, tt.language, tt.text)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("language", "unsupported language", ErrInvalidLanguage)

	assert.Equal(t, "language: unsupported language", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidLanguage)

	var target *ValidationError
	require.ErrorAs(t, error(err), &target)
	assert.Equal(t, "language", target.Field)
}
