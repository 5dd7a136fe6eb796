package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/store"
)

type translationID struct {
	key      string
	language domain.Language
}

// MockTranslationStore implements store.TranslationStore in memory for testing.
// It enforces the (key, language) uniqueness rule the way the database does.
type MockTranslationStore struct {
	// Function fields for customizable behavior
	LockKeyFn           func(ctx context.Context, key string) error
	ExistingLanguagesFn func(ctx context.Context, key string, languages []domain.Language) ([]domain.Language, error)
	CreateFn            func(ctx context.Context, translation *domain.Translation) error
	CreateMultipleFn    func(ctx context.Context, translations []*domain.Translation) error
	GetByKeyFn          func(ctx context.Context, key string) ([]*domain.Translation, error)
	GetFn               func(ctx context.Context, key string, language domain.Language) (*domain.Translation, error)
	DeleteByKeyFn       func(ctx context.Context, key string) (int64, error)
	DeleteFn            func(ctx context.Context, key string, language domain.Language) (int64, error)

	// Call records for verification
	LockedKeys  []string
	CreateCalls int

	translations map[translationID]*domain.Translation
	nextID       int64
	mu           sync.Mutex
}

// NewMockTranslationStore creates an empty in-memory translation store.
func NewMockTranslationStore() *MockTranslationStore {
	return &MockTranslationStore{
		translations: make(map[translationID]*domain.Translation),
	}
}

// Ensure MockTranslationStore implements store.TranslationStore interface
var _ store.TranslationStore = (*MockTranslationStore)(nil)

// Len reports how many translations are stored.
func (m *MockTranslationStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.translations)
}

// LockKey implements the TranslationStore interface
func (m *MockTranslationStore) LockKey(ctx context.Context, key string) error {
	if m.LockKeyFn != nil {
		return m.LockKeyFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockedKeys = append(m.LockedKeys, key)
	return nil
}

// ExistingLanguages implements the TranslationStore interface
func (m *MockTranslationStore) ExistingLanguages(
	ctx context.Context,
	key string,
	languages []domain.Language,
) ([]domain.Language, error) {
	if m.ExistingLanguagesFn != nil {
		return m.ExistingLanguagesFn(ctx, key, languages)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := []domain.Language{}
	for _, lang := range languages {
		if _, ok := m.translations[translationID{key, lang}]; ok {
			existing = append(existing, lang)
		}
	}
	sort.Slice(existing, func(i, j int) bool { return existing[i].Rank() < existing[j].Rank() })
	return existing, nil
}

// Create implements the TranslationStore interface
func (m *MockTranslationStore) Create(ctx context.Context, translation *domain.Translation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, translation)
	}
	return m.CreateMultiple(ctx, []*domain.Translation{translation})
}

// CreateMultiple implements the TranslationStore interface. Nothing is
// stored when any translation conflicts.
func (m *MockTranslationStore) CreateMultiple(ctx context.Context, translations []*domain.Translation) error {
	if m.CreateMultipleFn != nil {
		return m.CreateMultipleFn(ctx, translations)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	for _, t := range translations {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, ok := m.translations[translationID{t.Key, t.Language}]; ok {
			return store.ErrTranslationExists
		}
	}

	now := time.Now().UTC()
	for _, t := range translations {
		m.nextID++
		t.ID = m.nextID
		t.CreatedAt, t.UpdatedAt = now, now
		stored := *t
		m.translations[translationID{t.Key, t.Language}] = &stored
	}
	return nil
}

// GetByKey implements the TranslationStore interface
func (m *MockTranslationStore) GetByKey(ctx context.Context, key string) ([]*domain.Translation, error) {
	if m.GetByKeyFn != nil {
		return m.GetByKeyFn(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*domain.Translation{}
	for _, lang := range domain.Languages() {
		if t, ok := m.translations[translationID{key, lang}]; ok {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

// Get implements the TranslationStore interface
func (m *MockTranslationStore) Get(
	ctx context.Context,
	key string,
	language domain.Language,
) (*domain.Translation, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key, language)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.translations[translationID{key, language}]
	if !ok {
		return nil, store.ErrTranslationNotFound
	}
	copied := *t
	return &copied, nil
}

// DeleteByKey implements the TranslationStore interface
func (m *MockTranslationStore) DeleteByKey(ctx context.Context, key string) (int64, error) {
	if m.DeleteByKeyFn != nil {
		return m.DeleteByKeyFn(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for id := range m.translations {
		if id.key == key {
			delete(m.translations, id)
			deleted++
		}
	}
	return deleted, nil
}

// Delete implements the TranslationStore interface
func (m *MockTranslationStore) Delete(ctx context.Context, key string, language domain.Language) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, key, language)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := translationID{key, language}
	if _, ok := m.translations[id]; !ok {
		return 0, nil
	}
	delete(m.translations, id)
	return 1, nil
}

// WithTx implements the TranslationStore interface for transaction support.
// The mock has no transactions, so it returns itself.
func (m *MockTranslationStore) WithTx(tx *sql.Tx) store.TranslationStore {
	return m
}
