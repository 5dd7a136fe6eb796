package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/blokmap/blokmap-api/internal/platform/metrics"
	"github.com/blokmap/blokmap-api/internal/store"
	"github.com/google/uuid"
)

// NewTranslation is one language/text pair of a bulk create.
type NewTranslation struct {
	Language domain.Language
	Text     string
}

// TranslationService manages translations grouped by translation key.
// At most one translation exists per (key, language).
type TranslationService interface {
	// CreateTranslation stores one translation. A nil or empty key is replaced
	// by a freshly generated one.
	CreateTranslation(ctx context.Context, key *string, language domain.Language, text string) (*domain.Translation, error)

	// CreateTranslations stores a batch under one key, all or nothing, and
	// returns the key that was used. Translations come back in request order.
	CreateTranslations(ctx context.Context, key *string, items []NewTranslation) (string, []*domain.Translation, error)

	// GetTranslations lists every translation of key in language order.
	GetTranslations(ctx context.Context, key string) ([]*domain.Translation, error)

	// GetTranslation returns the translation of key in one language.
	GetTranslation(ctx context.Context, key string, language domain.Language) (*domain.Translation, error)

	// DeleteTranslations removes every translation of key. Deleting an unknown key succeeds.
	DeleteTranslations(ctx context.Context, key string) error

	// DeleteTranslation removes the translation of key in one language. Deleting a missing one succeeds.
	DeleteTranslation(ctx context.Context, key string, language domain.Language) error
}

// translationServiceImpl implements the TranslationService interface
type translationServiceImpl struct {
	translationStore store.TranslationStore
	transactor       store.Transactor
	logger           *slog.Logger
}

// NewTranslationService creates a new TranslationService.
func NewTranslationService(
	translationStore store.TranslationStore,
	transactor store.Transactor,
	logger *slog.Logger,
) (TranslationService, error) {
	if translationStore == nil {
		return nil, NewServiceError("translation", "create_service", errors.New("translationStore cannot be nil"))
	}
	if transactor == nil {
		return nil, NewServiceError("translation", "create_service", errors.New("transactor cannot be nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &translationServiceImpl{
		translationStore: translationStore,
		transactor:       transactor,
		logger:           logger.With(slog.String("component", "translation_service")),
	}, nil
}

// resolveKey returns the key to write under and whether it was supplied by the caller.
func resolveKey(key *string) (string, bool) {
	if key == nil || *key == "" {
		return uuid.NewString(), false
	}
	return *key, true
}

// CreateTranslation implements TranslationService.CreateTranslation
func (s *translationServiceImpl) CreateTranslation(
	ctx context.Context,
	key *string,
	language domain.Language,
	text string,
) (*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	resolved, supplied := resolveKey(key)
	translation, err := domain.NewTranslation(resolved, language, text)
	if err != nil {
		metrics.RecordTranslationOperation("create", metrics.ResultInvalid)
		return nil, toValidationError("", err)
	}

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.translationStore.WithTx(tx)

		if supplied {
			if err := txStore.LockKey(ctx, resolved); err != nil {
				return err
			}
			existing, err := txStore.ExistingLanguages(ctx, resolved, []domain.Language{language})
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return newAlreadyExistsError(store.ErrTranslationExists,
					"Translation for key '%s' and language '%s' already exists", resolved, language)
			}
		}

		return txStore.Create(ctx, translation)
	})
	if err != nil {
		return nil, s.mapWriteError(log, "create", err, func() error {
			return newAlreadyExistsError(err,
				"Translation for key '%s' and language '%s' already exists", resolved, language)
		})
	}

	metrics.RecordTranslationOperation("create", metrics.ResultSuccess)
	log.Info("translation created",
		slog.String("translation_key", resolved),
		slog.String("language", language.String()))
	return translation, nil
}

// CreateTranslations implements TranslationService.CreateTranslations
func (s *translationServiceImpl) CreateTranslations(
	ctx context.Context,
	key *string,
	items []NewTranslation,
) (string, []*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(items) == 0 {
		metrics.RecordTranslationOperation("create_bulk", metrics.ResultInvalid)
		return "", nil, domain.NewValidationError("translations", "at least one translation is required", nil)
	}

	resolved, supplied := resolveKey(key)
	translations := make([]*domain.Translation, 0, len(items))
	languages := make([]domain.Language, 0, len(items))
	seen := make(map[domain.Language]bool, len(items))
	for i, item := range items {
		translation, err := domain.NewTranslation(resolved, item.Language, item.Text)
		if err != nil {
			metrics.RecordTranslationOperation("create_bulk", metrics.ResultInvalid)
			return "", nil, toValidationError(fmt.Sprintf("translations.%d.", i), err)
		}
		if seen[item.Language] {
			metrics.RecordTranslationOperation("create_bulk", metrics.ResultInvalid)
			return "", nil, domain.NewValidationError(
				fmt.Sprintf("translations.%d.language", i),
				fmt.Sprintf("duplicate language '%s' in batch", item.Language),
				domain.ErrInvalidLanguage,
			)
		}
		seen[item.Language] = true
		languages = append(languages, item.Language)
		translations = append(translations, translation)
	}

	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.translationStore.WithTx(tx)

		if supplied {
			if err := txStore.LockKey(ctx, resolved); err != nil {
				return err
			}
			existing, err := txStore.ExistingLanguages(ctx, resolved, languages)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return newAlreadyExistsError(store.ErrTranslationExists,
					"Translations for key '%s' already exist in languages: %s", resolved, joinLanguages(existing))
			}
		}

		return txStore.CreateMultiple(ctx, translations)
	})
	if err != nil {
		return "", nil, s.mapWriteError(log, "create_bulk", err, func() error {
			return s.batchConflict(ctx, log, resolved, languages, err)
		})
	}

	metrics.RecordTranslationOperation("create_bulk", metrics.ResultSuccess)
	log.Info("translations created",
		slog.String("translation_key", resolved),
		slog.Int("count", len(translations)))
	return resolved, translations, nil
}

// mapWriteError converts a failed create into the error returned to callers.
// A unique violation that slipped past the existence check becomes the
// conflict built by onDuplicate.
func (s *translationServiceImpl) mapWriteError(log *slog.Logger, op string, err error, onDuplicate func() error) error {
	var entityErr *EntityError
	switch {
	case errors.As(err, &entityErr):
		metrics.RecordTranslationOperation(op, metrics.ResultConflict)
		log.Debug("translation conflict", slog.String("operation", op), slog.String("error", err.Error()))
		return entityErr
	case errors.Is(err, store.ErrTranslationExists):
		metrics.RecordTranslationOperation(op, metrics.ResultConflict)
		log.Debug("translation conflict at insert", slog.String("operation", op))
		return onDuplicate()
	case errors.Is(err, store.ErrInvalidEntity):
		metrics.RecordTranslationOperation(op, metrics.ResultInvalid)
		return toValidationError("", err)
	default:
		metrics.RecordTranslationOperation(op, metrics.ResultError)
		log.Error("failed to create translations", slog.String("operation", op), slog.String("error", err.Error()))
		return NewServiceError("translation", op, err)
	}
}

// batchConflict builds the conflict for a batch whose insert hit the unique
// constraint. The transaction has rolled back, so the stored languages are
// looked up again to name only the ones that collided.
func (s *translationServiceImpl) batchConflict(
	ctx context.Context,
	log *slog.Logger,
	key string,
	languages []domain.Language,
	err error,
) error {
	existing, lookupErr := s.translationStore.ExistingLanguages(ctx, key, languages)
	if lookupErr != nil {
		log.Warn("failed to look up conflicting languages",
			slog.String("translation_key", key),
			slog.String("error", lookupErr.Error()))
	}
	if lookupErr != nil || len(existing) == 0 {
		return newAlreadyExistsError(err, "Translations for key '%s' already exist", key)
	}
	return newAlreadyExistsError(err,
		"Translations for key '%s' already exist in languages: %s", key, joinLanguages(existing))
}

// GetTranslations implements TranslationService.GetTranslations
func (s *translationServiceImpl) GetTranslations(ctx context.Context, key string) ([]*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	translations, err := s.translationStore.GetByKey(ctx, key)
	if err != nil {
		metrics.RecordTranslationOperation("get", metrics.ResultError)
		log.Error("failed to get translations",
			slog.String("translation_key", key),
			slog.String("error", err.Error()))
		return nil, NewServiceError("translation", "get_translations", err)
	}
	if len(translations) == 0 {
		metrics.RecordTranslationOperation("get", metrics.ResultNotFound)
		return nil, newDoesNotExistError(store.ErrTranslationNotFound, "Translations with key '%s' not found", key)
	}

	metrics.RecordTranslationOperation("get", metrics.ResultSuccess)
	sortByLanguage(translations)
	return translations, nil
}

// GetTranslation implements TranslationService.GetTranslation
func (s *translationServiceImpl) GetTranslation(
	ctx context.Context,
	key string,
	language domain.Language,
) (*domain.Translation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !language.Valid() {
		metrics.RecordTranslationOperation("get_one", metrics.ResultInvalid)
		return nil, toValidationError("", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, string(language)))
	}

	translation, err := s.translationStore.Get(ctx, key, language)
	if err != nil {
		if errors.Is(err, store.ErrTranslationNotFound) {
			metrics.RecordTranslationOperation("get_one", metrics.ResultNotFound)
			return nil, newDoesNotExistError(err,
				"Translation for key '%s' and language '%s' not found", key, language)
		}
		metrics.RecordTranslationOperation("get_one", metrics.ResultError)
		log.Error("failed to get translation",
			slog.String("translation_key", key),
			slog.String("language", language.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("translation", "get_translation", err)
	}

	metrics.RecordTranslationOperation("get_one", metrics.ResultSuccess)
	return translation, nil
}

// DeleteTranslations implements TranslationService.DeleteTranslations
func (s *translationServiceImpl) DeleteTranslations(ctx context.Context, key string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deleted, err := s.translationStore.DeleteByKey(ctx, key)
	if err != nil {
		metrics.RecordTranslationOperation("delete", metrics.ResultError)
		log.Error("failed to delete translations",
			slog.String("translation_key", key),
			slog.String("error", err.Error()))
		return NewServiceError("translation", "delete_translations", err)
	}

	metrics.RecordTranslationOperation("delete", metrics.ResultSuccess)
	log.Info("translations deleted",
		slog.String("translation_key", key),
		slog.Int64("deleted", deleted))
	return nil
}

// DeleteTranslation implements TranslationService.DeleteTranslation
func (s *translationServiceImpl) DeleteTranslation(ctx context.Context, key string, language domain.Language) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !language.Valid() {
		return toValidationError("", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, string(language)))
	}

	deleted, err := s.translationStore.Delete(ctx, key, language)
	if err != nil {
		metrics.RecordTranslationOperation("delete", metrics.ResultError)
		log.Error("failed to delete translation",
			slog.String("translation_key", key),
			slog.String("language", language.String()),
			slog.String("error", err.Error()))
		return NewServiceError("translation", "delete_translation", err)
	}

	metrics.RecordTranslationOperation("delete", metrics.ResultSuccess)
	log.Info("translation deleted",
		slog.String("translation_key", key),
		slog.String("language", language.String()),
		slog.Int64("deleted", deleted))
	return nil
}

// toValidationError names the offending field of a domain validation error.
// prefix locates the item inside a batch, e.g. "translations.1.".
func toValidationError(prefix string, err error) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}

	field := "body"
	switch {
	case errors.Is(err, domain.ErrEmptyTranslationKey):
		field = "translationKey"
	case errors.Is(err, domain.ErrInvalidLanguage):
		field = "language"
	case errors.Is(err, domain.ErrEmptyTranslation):
		field = "translation"
	}
	if field != "translationKey" {
		field = prefix + field
	}

	return domain.NewValidationError(field, err.Error(), err)
}

func joinLanguages(languages []domain.Language) string {
	sorted := make([]domain.Language, len(languages))
	copy(sorted, languages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	codes := make([]string, len(sorted))
	for i, lang := range sorted {
		codes[i] = string(lang)
	}
	return strings.Join(codes, ", ")
}

func sortByLanguage(translations []*domain.Translation) {
	sort.SliceStable(translations, func(i, j int) bool {
		return translations[i].Language.Rank() < translations[j].Language.Rank()
	})
}
