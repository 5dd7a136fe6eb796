package store

import (
	"context"
	"database/sql"

	"github.com/blokmap/blokmap-api/internal/domain"
)

// TranslationStore defines the interface for translation data persistence.
//
// The store does not enforce the one-translation-per-(key, language) rule on
// its own beyond the schema's unique constraint; callers run the existence
// check and the insert inside one transaction:
//
//	err := transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
//	    txStore := translationStore.WithTx(tx)
//	    if err := txStore.LockKey(ctx, key); err != nil {
//	        return err
//	    }
//	    existing, err := txStore.ExistingLanguages(ctx, key, languages)
//	    ...
//	    return txStore.CreateMultiple(ctx, translations)
//	})
type TranslationStore interface {
	// LockKey serializes writers for one translation key until the current
	// transaction ends. It is a no-op outside a transaction.
	LockKey(ctx context.Context, key string) error

	// ExistingLanguages returns which of the given languages already have a
	// translation stored under key.
	ExistingLanguages(ctx context.Context, key string, languages []domain.Language) ([]domain.Language, error)

	// Create inserts one translation and writes back its ID and timestamps.
	// Returns ErrTranslationExists on a unique violation.
	Create(ctx context.Context, translation *domain.Translation) error

	// CreateMultiple inserts all translations and writes back IDs and timestamps.
	// It MUST run within a transaction to be atomic.
	// Returns ErrTranslationExists on a unique violation.
	CreateMultiple(ctx context.Context, translations []*domain.Translation) error

	// GetByKey lists every translation stored under key in language order.
	// An unknown key yields an empty slice, not an error.
	GetByKey(ctx context.Context, key string) ([]*domain.Translation, error)

	// Get retrieves the translation for (key, language).
	// Returns ErrTranslationNotFound if it does not exist.
	Get(ctx context.Context, key string, language domain.Language) (*domain.Translation, error)

	// DeleteByKey removes every translation under key and reports how many rows went away.
	DeleteByKey(ctx context.Context, key string) (int64, error)

	// Delete removes the translation for (key, language) and reports how many rows went away.
	Delete(ctx context.Context, key string, language domain.Language) (int64, error)

	// WithTx returns a new TranslationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TranslationStore
}
