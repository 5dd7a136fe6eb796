package api

import (
	"log/slog"
	"net/http"

	"github.com/blokmap/blokmap-api/internal/api/shared"
	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/blokmap/blokmap-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// TranslationHandler handles translation HTTP requests
type TranslationHandler struct {
	translationService service.TranslationService
	logger             *slog.Logger
}

// NewTranslationHandler creates a new TranslationHandler
func NewTranslationHandler(translationService service.TranslationService, logger *slog.Logger) *TranslationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationHandler{
		translationService: translationService,
		logger:             logger.With(slog.String("component", "translation_handler")),
	}
}

// CreateTranslation handles POST /translations/
func (h *TranslationHandler) CreateTranslation(w http.ResponseWriter, r *http.Request) {
	var req CreateTranslationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	translation, err := h.translationService.CreateTranslation(
		r.Context(), req.TranslationKey, domain.Language(req.Language), req.Translation)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, translation)
}

// CreateTranslations handles POST /translations/bulk/
func (h *TranslationHandler) CreateTranslations(w http.ResponseWriter, r *http.Request) {
	var req CreateTranslationsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	items := make([]service.NewTranslation, len(req.Translations))
	for i, item := range req.Translations {
		items[i] = service.NewTranslation{Language: domain.Language(item.Language), Text: item.Translation}
	}

	key, translations, err := h.translationService.CreateTranslations(r.Context(), req.TranslationKey, items)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TranslationsResponse{
		TranslationKey: key,
		Translations:   translations,
	})
}

// GetTranslations handles GET /translations/{key}/
func (h *TranslationHandler) GetTranslations(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	translations, err := h.translationService.GetTranslations(r.Context(), key)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TranslationsResponse{
		TranslationKey: key,
		Translations:   translations,
	})
}

// GetTranslation handles GET /translations/{key}/{language}/
func (h *TranslationHandler) GetTranslation(w http.ResponseWriter, r *http.Request) {
	language, ok := pathLanguage(w, r)
	if !ok {
		return
	}

	translation, err := h.translationService.GetTranslation(r.Context(), chi.URLParam(r, "key"), language)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, translation)
}

// DeleteTranslations handles DELETE /translations/{key}/
func (h *TranslationHandler) DeleteTranslations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	if err := h.translationService.DeleteTranslations(r.Context(), key); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("translations deleted by user",
		slog.Int64("user_id", user.ID),
		slog.String("translation_key", key))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTranslation handles DELETE /translations/{key}/{language}/
func (h *TranslationHandler) DeleteTranslation(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	language, ok := pathLanguage(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	if err := h.translationService.DeleteTranslation(r.Context(), key, language); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("translation deleted by user",
		slog.Int64("user_id", user.ID),
		slog.String("translation_key", key),
		slog.String("language", language.String()))
	w.WriteHeader(http.StatusNoContent)
}
