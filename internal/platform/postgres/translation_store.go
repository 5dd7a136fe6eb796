package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/blokmap/blokmap-api/internal/store"
)

const insertTranslationQuery = `
	INSERT INTO translation (translation_key, language, translation)
	VALUES ($1, $2, $3)
	RETURNING id, created_at, updated_at
`

// PostgresTranslationStore implements the store.TranslationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTranslationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTranslationStore creates a new PostgreSQL implementation of the TranslationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTranslationStore(db store.DBTX, logger *slog.Logger) *PostgresTranslationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTranslationStore{
		db:     db,
		logger: logger.With(slog.String("component", "translation_store")),
	}
}

// Ensure PostgresTranslationStore implements store.TranslationStore interface
var _ store.TranslationStore = (*PostgresTranslationStore)(nil)

// WithTx implements store.TranslationStore.WithTx
func (s *PostgresTranslationStore) WithTx(tx *sql.Tx) store.TranslationStore {
	return &PostgresTranslationStore{
		db:     tx,
		logger: s.logger,
	}
}

// LockKey implements store.TranslationStore.LockKey using a transaction-scoped advisory lock.
func (s *PostgresTranslationStore) LockKey(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to lock translation key",
			slog.String("error", err.Error()),
			slog.String("translation_key", key))
		return MapError(err)
	}
	return nil
}

// ExistingLanguages implements store.TranslationStore.ExistingLanguages
func (s *PostgresTranslationStore) ExistingLanguages(
	ctx context.Context,
	key string,
	languages []domain.Language,
) ([]domain.Language, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	codes := make([]string, len(languages))
	for i, lang := range languages {
		codes[i] = string(lang)
	}

	query := `
		SELECT language::text
		FROM translation
		WHERE translation_key = $1 AND language::text = ANY($2::text[])
		ORDER BY language
	`
	rows, err := s.db.QueryContext(ctx, query, key, codes)
	if err != nil {
		log.Error("failed to query existing languages",
			slog.String("error", err.Error()),
			slog.String("translation_key", key))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	existing := []domain.Language{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			log.Error("failed to scan language", slog.String("error", err.Error()))
			return nil, err
		}
		existing = append(existing, domain.Language(code))
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return existing, nil
}

// Create implements store.TranslationStore.Create
func (s *PostgresTranslationStore) Create(ctx context.Context, translation *domain.Translation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validate(ctx, translation); err != nil {
		return err
	}

	row := s.db.QueryRowContext(ctx, insertTranslationQuery,
		translation.Key, string(translation.Language), translation.Text)
	if err := s.scanInserted(ctx, row, translation); err != nil {
		return err
	}

	log.Info("translation created successfully",
		slog.Int64("translation_id", translation.ID),
		slog.String("translation_key", translation.Key),
		slog.String("language", translation.Language.String()))
	return nil
}

// CreateMultiple implements store.TranslationStore.CreateMultiple
func (s *PostgresTranslationStore) CreateMultiple(ctx context.Context, translations []*domain.Translation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(translations) == 0 {
		return nil
	}
	for _, t := range translations {
		if err := s.validate(ctx, t); err != nil {
			return err
		}
	}

	stmt, err := s.db.PrepareContext(ctx, insertTranslationQuery)
	if err != nil {
		log.Error("failed to prepare translation insert", slog.String("error", err.Error()))
		return MapError(err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close statement", slog.String("error", err.Error()))
		}
	}()

	for _, t := range translations {
		row := stmt.QueryRowContext(ctx, t.Key, string(t.Language), t.Text)
		if err := s.scanInserted(ctx, row, t); err != nil {
			return err
		}
	}

	log.Info("translations created successfully",
		slog.String("translation_key", translations[0].Key),
		slog.Int("count", len(translations)))
	return nil
}

func (s *PostgresTranslationStore) validate(ctx context.Context, t *domain.Translation) error {
	if err := t.Validate(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("translation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("translation_key", t.Key))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return nil
}

// scanInserted reads the RETURNING columns into t and maps insert failures.
func (s *PostgresTranslationStore) scanInserted(ctx context.Context, row *sql.Row, t *domain.Translation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		switch {
		case IsUniqueViolation(err):
			log.Debug("duplicate translation on create",
				slog.String("translation_key", t.Key),
				slog.String("language", t.Language.String()))
		case IsCheckConstraintViolation(err):
			log.Warn("translation rejected by check constraint",
				slog.String("error", err.Error()),
				slog.String("translation_key", t.Key),
				slog.String("language", t.Language.String()))
		default:
			log.Error("failed to create translation",
				slog.String("error", err.Error()),
				slog.String("translation_key", t.Key),
				slog.String("language", t.Language.String()))
		}
		return MapError(err)
	}
	return nil
}

// GetByKey implements store.TranslationStore.GetByKey
func (s *PostgresTranslationStore) GetByKey(ctx context.Context, key string) ([]*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, translation_key, language::text, translation, created_at, updated_at
		FROM translation
		WHERE translation_key = $1
		ORDER BY language
	`
	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		log.Error("failed to query translations by key",
			slog.String("error", err.Error()),
			slog.String("translation_key", key))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	translations := []*domain.Translation{}
	for rows.Next() {
		var t domain.Translation
		if err := scanTranslation(rows, &t); err != nil {
			log.Error("failed to scan translation row", slog.String("error", err.Error()))
			return nil, err
		}
		translations = append(translations, &t)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("found translations by key",
		slog.String("translation_key", key),
		slog.Int("count", len(translations)))
	return translations, nil
}

// Get implements store.TranslationStore.Get
func (s *PostgresTranslationStore) Get(
	ctx context.Context,
	key string,
	language domain.Language,
) (*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, translation_key, language::text, translation, created_at, updated_at
		FROM translation
		WHERE translation_key = $1 AND language::text = $2
	`
	var t domain.Translation
	if err := scanTranslation(s.db.QueryRowContext(ctx, query, key, string(language)), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("translation not found",
				slog.String("translation_key", key),
				slog.String("language", language.String()))
			return nil, store.ErrTranslationNotFound
		}
		log.Error("failed to get translation",
			slog.String("error", err.Error()),
			slog.String("translation_key", key))
		return nil, MapError(err)
	}

	return &t, nil
}

// DeleteByKey implements store.TranslationStore.DeleteByKey
func (s *PostgresTranslationStore) DeleteByKey(ctx context.Context, key string) (int64, error) {
	return s.delete(ctx,
		`DELETE FROM translation WHERE translation_key = $1`,
		[]any{key},
		slog.String("translation_key", key))
}

// Delete implements store.TranslationStore.Delete
func (s *PostgresTranslationStore) Delete(ctx context.Context, key string, language domain.Language) (int64, error) {
	return s.delete(ctx,
		`DELETE FROM translation WHERE translation_key = $1 AND language::text = $2`,
		[]any{key, string(language)},
		slog.String("translation_key", key),
		slog.String("language", language.String()))
}

func (s *PostgresTranslationStore) delete(ctx context.Context, query string, args []any, attrs ...any) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete translations",
			append([]any{slog.String("error", err.Error())}, attrs...)...)
		return 0, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", slog.String("error", err.Error()))
		return 0, err
	}

	log.Info("translations deleted", append(attrs, slog.Int64("rows_affected", rowsAffected))...)
	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranslation(row rowScanner, t *domain.Translation) error {
	var language string
	if err := row.Scan(&t.ID, &t.Key, &language, &t.Text, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	t.Language = domain.Language(language)
	return nil
}
