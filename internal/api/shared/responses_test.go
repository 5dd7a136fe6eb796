package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blokmap/blokmap-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(rec, req, http.StatusCreated, map[string]string{"translationKey": "k"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"translationKey":"k"}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/translations/x", nil)

	RespondWithError(rec, req, http.StatusNotFound, "Translations with key 'x' not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Translations with key 'x' not found"}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"server error logs at error", http.StatusInternalServerError, "ERROR"},
		{"client error logs at debug", http.StatusConflict, "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			req := httptest.NewRequest(http.MethodPost, "/translations/", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))
			rec := httptest.NewRecorder()

			err := errors.New("connect postgres://blokmap:hunter22@db:5432/blokmap failed")
			RespondWithErrorAndLog(rec, req, tt.status, "An unexpected error occurred", err)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, `{"detail":"An unexpected error occurred"}`, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "postgres")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.NotContains(t, entry["error"], "hunter22")
		})
	}
}

func TestRespondWithValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/translations/", nil)

	RespondWithValidationErrors(rec, req, []ValidationErrorDetail{{
		Loc:  []any{"body", "translations", 1, "language"},
		Msg:  "duplicate language 'en' in batch",
		Type: "type_error.enum",
	}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t,
		`{"detail":[{"loc":["body","translations",1,"language"],"msg":"duplicate language 'en' in batch","type":"type_error.enum"}]}`,
		rec.Body.String())
}

func TestSessionCookie(t *testing.T) {
	cookie := SessionCookie{Name: "access_token", Secure: true}
	expiresAt := time.Now().Add(30 * time.Minute)

	rec := httptest.NewRecorder()
	cookie.Set(rec, "signed-token", expiresAt)
	set := rec.Result().Cookies()
	require.Len(t, set, 1)
	assert.Equal(t, "signed-token", set[0].Value)
	assert.True(t, set[0].HttpOnly)
	assert.True(t, set[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, set[0].SameSite)
	assert.WithinDuration(t, expiresAt, set[0].Expires, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, cookie.Read(req))
	req.AddCookie(set[0])
	assert.Equal(t, "signed-token", cookie.Read(req))

	rec = httptest.NewRecorder()
	cookie.Clear(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)
}
