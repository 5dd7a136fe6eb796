package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/blokmap/blokmap-api/internal/api/shared"
	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/service"
	"github.com/blokmap/blokmap-api/internal/service/auth"
	"github.com/blokmap/blokmap-api/internal/store"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Session errors: a token that cannot be read at all is a bad request
	case errors.Is(err, auth.ErrMalformedToken):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrEntityDoesNotExist),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrEntityAlreadyExists),
		store.IsDuplicateError(err):
		return http.StatusConflict

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Entity errors carry a message built for clients
	var entityErr *service.EntityError
	if errors.As(err, &entityErr) {
		return entityErr.Message
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, auth.ErrMissingToken):
		return "Not authenticated"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Session has expired"
	case errors.Is(err, auth.ErrMalformedToken):
		return "Malformed session token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Could not validate credentials"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already registered"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err. Validation failures get the
// 422 envelope; everything else gets {"detail": ...} with a safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	if details, ok := validationDetails(err); ok {
		shared.RespondWithValidationErrors(w, r, details)
		return
	}

	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// validationDetails converts request and domain validation failures into
// located error entries.
func validationDetails(err error) ([]shared.ValidationErrorDetail, bool) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]shared.ValidationErrorDetail, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msg, typ := describeFieldError(fe)
			details = append(details, shared.ValidationErrorDetail{
				Loc:  locFromNamespace(fe.Namespace()),
				Msg:  msg,
				Type: typ,
			})
		}
		return details, true
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return []shared.ValidationErrorDetail{{
			Loc:  locFromField(validationErr.Field),
			Msg:  validationErr.Message,
			Type: domainErrorType(validationErr),
		}}, true
	}

	return nil, false
}

// decodeErrorDetails describes a request body that could not be decoded.
func decodeErrorDetails(err error) []shared.ValidationErrorDetail {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []shared.ValidationErrorDetail{{
			Loc:  locFromField(typeErr.Field),
			Msg:  fmt.Sprintf("value is not a valid %s", typeErr.Type.Kind()),
			Type: "type_error",
		}}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return []shared.ValidationErrorDetail{{
			Loc:  []any{"body"},
			Msg:  fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit),
			Type: "value_error.body_too_large",
		}}
	}

	return []shared.ValidationErrorDetail{{
		Loc:  []any{"body"},
		Msg:  "request body is not valid JSON",
		Type: "value_error.jsondecode",
	}}
}

func describeFieldError(fe validator.FieldError) (string, string) {
	switch fe.Tag() {
	case "required":
		return "field required", "value_error.missing"
	case "oneof":
		permitted := strings.Fields(fe.Param())
		for i, p := range permitted {
			permitted[i] = "'" + p + "'"
		}
		return "value is not a valid enumeration member; permitted: " + strings.Join(permitted, ", "),
			"type_error.enum"
	case "email":
		return "value is not a valid email address", "value_error.email"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("ensure this value has at least %s items", fe.Param()), "value_error.list.min_items"
		}
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param()), "value_error.any_str.min_length"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("ensure this value has at most %s items", fe.Param()), "value_error.list.max_items"
		}
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param()), "value_error.any_str.max_length"
	default:
		return "invalid value", "value_error"
	}
}

func domainErrorType(err *domain.ValidationError) string {
	switch {
	case errors.Is(err, domain.ErrInvalidLanguage):
		return "type_error.enum"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "value_error.email"
	case errors.Is(err, domain.ErrUsernameTooLong),
		errors.Is(err, domain.ErrPasswordTooLong):
		return "value_error.any_str.max_length"
	case errors.Is(err, domain.ErrEmptyTranslationKey),
		errors.Is(err, domain.ErrEmptyTranslation),
		errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrEmptyPassword):
		return "value_error.missing"
	default:
		return "value_error"
	}
}

// locFromField turns "translations.1.language" into
// ["body", "translations", 1, "language"].
func locFromField(field string) []any {
	loc := []any{"body"}
	if field == "" || field == "body" {
		return loc
	}
	for _, part := range strings.Split(field, ".") {
		if n, err := strconv.Atoi(part); err == nil {
			loc = append(loc, n)
			continue
		}
		loc = append(loc, part)
	}
	return loc
}

// locFromNamespace turns a validator namespace such as
// "CreateTranslationsRequest.translations[1].language" into
// ["body", "translations", 1, "language"].
func locFromNamespace(namespace string) []any {
	// drop the struct name
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.NewReplacer("[", ".", "]", "").Replace(namespace)
	return locFromField(namespace)
}
