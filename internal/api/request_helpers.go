package api

import (
	"log/slog"
	"net/http"

	"github.com/blokmap/blokmap-api/internal/api/shared"
	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// decodeAndValidate reads a JSON body into v and validates it. On failure it
// writes the 422 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		logger.FromContext(r.Context()).Debug("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithValidationErrors(w, r, decodeErrorDetails(err))
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}

// parseForm reads a form-encoded body. On failure it writes the 422
// response and returns false.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, shared.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		shared.RespondWithValidationErrors(w, r, []shared.ValidationErrorDetail{{
			Loc:  []any{"body"},
			Msg:  "request body is not a valid form",
			Type: "value_error",
		}})
		return false
	}
	return true
}

// pathLanguage extracts the {language} path parameter. An unsupported code
// is answered with 422 located at the path.
func pathLanguage(w http.ResponseWriter, r *http.Request) (domain.Language, bool) {
	raw := chi.URLParam(r, "language")
	language, err := domain.ParseLanguage(raw)
	if err != nil {
		shared.RespondWithValidationErrors(w, r, []shared.ValidationErrorDetail{{
			Loc:  []any{"path", "language"},
			Msg:  "value is not a valid enumeration member; permitted: 'nl', 'en', 'fr', 'de'",
			Type: "type_error.enum",
		}})
		return "", false
	}
	return language, true
}

// currentUser returns the user the auth middleware attached to the request.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("user not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized)
		return nil, false
	}
	return user, true
}
