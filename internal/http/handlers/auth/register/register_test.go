package register

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blogapp/internal/lib/apperr"
	"github.com/magabrotheeeer/blogapp/internal/lib/cookie"
	"github.com/magabrotheeeer/blogapp/internal/lib/jwt"
	"github.com/magabrotheeeer/blogapp/internal/models"
	services "github.com/magabrotheeeer/blogapp/internal/services/auth"
)

// Mock for AuthService
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, name, email, password string) (*services.Session, error) {
	args := m.Called(ctx, name, email, password)
	resp, _ := args.Get(0).(*services.Session)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]any
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&got))
	return rec, got
}

func TestRegisterHandler_Failures(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock, false)

	tests := []struct {
		name        string
		body        string
		setupMock   func(m *AuthServiceMock)
		wantMessage string
	}{
		{
			name:        "invalid json body",
			body:        "not a json",
			setupMock:   func(_ *AuthServiceMock) {},
			wantMessage: "invalid request body",
		},
		{
			name:        "missing name",
			body:        `{"email":"a@b.c","password":"pw"}`,
			setupMock:   func(_ *AuthServiceMock) {},
			wantMessage: "All fields are required",
		},
		{
			name:        "all fields missing",
			body:        `{}`,
			setupMock:   func(_ *AuthServiceMock) {},
			wantMessage: "All fields are required",
		},
		{
			name: "email taken",
			body: `{"name":"alice","email":"alice@example.com","password":"pw"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "alice", "alice@example.com", "pw").
					Return(nil, fmt.Errorf("services.auth.Register: %w", apperr.Conflict(services.MsgUserExists))).Once()
			},
			wantMessage: "User already exists",
		},
		{
			name: "storage failure",
			body: `{"name":"alice","email":"alice@example.com","password":"pw"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "alice", "alice@example.com", "pw").
					Return(nil, apperr.Storage(services.MsgStorageFailure, fmt.Errorf("timeout"))).Once()
			},
			wantMessage: services.MsgStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil
			tt.setupMock(authMock)

			rec, got := doRequest(t, handler, tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, false, got["success"])
			assert.Equal(t, tt.wantMessage, got["message"])
			assert.Empty(t, rec.Result().Cookies())
			authMock.AssertExpectations(t)
		})
	}

	// валидация не должна доходить до сервиса
	authMock.ExpectedCalls = nil
	authMock.Calls = nil
	_, _ = doRequest(t, handler, `{"name":"","email":"","password":""}`)
	authMock.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterHandler_SetsSessionCookie(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", services.SessionTTL)
	token, expiresAt, err := maker.GenerateToken("user-7")
	require.NoError(t, err)

	authMock := new(AuthServiceMock)
	authMock.On("Register", mock.Anything, "bob", "bob@example.com", "pw").
		Return(&services.Session{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      models.Profile{ID: "user-7", Name: "bob", Email: "bob@example.com"},
		}, nil).Once()

	handler := New(newNoopLogger(), authMock, false)
	rec, got := doRequest(t, handler, `{"name":"bob","email":"bob@example.com","password":"pw"}`)

	assert.Equal(t, true, got["success"])
	data := got["data"].(map[string]any)
	assert.Equal(t, token, data["token"])
	assert.Equal(t, "user-7", data["user"].(map[string]any)["id"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookie.Name, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)

	claims, err := maker.ParseToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "user-7", claims.UserID())
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	authMock.AssertExpectations(t)
}
