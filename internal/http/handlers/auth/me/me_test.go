package me

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blogapp/internal/http/middlewarectx"
	"github.com/magabrotheeeer/blogapp/internal/lib/apperr"
	"github.com/magabrotheeeer/blogapp/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*models.Profile)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestMeHandler_ServeHTTP(t *testing.T) {
	svc := new(ServiceMock)
	handler := New(newNoopLogger(), svc)

	tests := []struct {
		name        string
		userID      string
		mockResp    *models.Profile
		mockErr     error
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "profile found",
			userID:      "user-1",
			mockResp:    &models.Profile{ID: "user-1", Name: "alice", Email: "alice@example.com"},
			wantStatus:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name:        "no user in context",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "user identification missing",
		},
		{
			name:        "user deleted",
			userID:      "user-2",
			mockErr:     apperr.Auth("User not found"),
			wantStatus:  http.StatusOK,
			wantMessage: "User not found",
		},
		{
			name:        "unexpected error",
			userID:      "user-3",
			mockErr:     errors.New("boom"),
			wantStatus:  http.StatusOK,
			wantMessage: "failed to load profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.ExpectedCalls = nil
			svc.Calls = nil
			if tt.mockResp != nil || tt.mockErr != nil {
				svc.On("Profile", mock.Anything, tt.userID).Return(tt.mockResp, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.userID != "" {
				req = req.WithContext(middlewarectx.WithUserID(req.Context(), tt.userID))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantSuccess, got["success"])
			if tt.wantSuccess {
				assert.Equal(t, map[string]any{"id": "user-1", "name": "alice", "email": "alice@example.com"}, got["data"])
			} else {
				assert.Equal(t, tt.wantMessage, got["message"])
			}
			svc.AssertExpectations(t)
		})
	}
}
