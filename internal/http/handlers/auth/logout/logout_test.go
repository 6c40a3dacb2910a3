package logout

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blogapp/internal/lib/cookie"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLogoutHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name         string
		production   bool
		withCookie   bool
		wantSameSite http.SameSite
	}{
		{name: "with session cookie", withCookie: true, wantSameSite: http.SameSiteStrictMode},
		{name: "without session cookie", wantSameSite: http.SameSiteStrictMode},
		{name: "production", production: true, withCookie: true, wantSameSite: http.SameSiteNoneMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := New(newNoopLogger(), tt.production)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			if tt.withCookie {
				req.AddCookie(&http.Cookie{Name: cookie.Name, Value: "some-token"})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, true, got["success"])
			assert.Equal(t, "Logged out successfully", got["message"])

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, cookie.Name, cookies[0].Name)
			assert.Empty(t, cookies[0].Value)
			assert.Equal(t, -1, cookies[0].MaxAge)
			assert.True(t, cookies[0].HttpOnly)
			assert.Equal(t, tt.production, cookies[0].Secure)
			assert.Equal(t, tt.wantSameSite, cookies[0].SameSite)
		})
	}
}
