package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/middlewarectx"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/services/characters"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) CreateCharacter(ctx context.Context, accountID string, ch models.Character) (string, error) {
	args := m.Called(ctx, accountID, ch)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	cases := []struct {
		name         string
		body         string
		serviceErr   error
		expectStatus int
		expectCall   bool
	}{
		{
			name:         "character is created",
			body:         `{"name": "Luna", "description": "a moon spirit", "visibility": "private", "is_nsfw": false}`,
			expectStatus: http.StatusOK,
			expectCall:   true,
		},
		{
			name:         "free account is denied",
			body:         `{"name": "Luna", "description": "a moon spirit"}`,
			serviceErr:   characters.ErrPremiumRequired,
			expectStatus: http.StatusForbidden,
			expectCall:   true,
		},
		{
			name:         "missing name is rejected",
			body:         `{"description": "a moon spirit"}`,
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "unknown visibility is rejected",
			body:         `{"name": "Luna", "description": "a moon spirit", "visibility": "unlisted"}`,
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := new(ServiceMock)
			if tc.expectCall {
				service.On("CreateCharacter", mock.Anything, "u1", mock.AnythingOfType("models.Character")).
					Return("char-1", tc.serviceErr)
			}

			handler := New(newNoopLogger(), service)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/characters", bytes.NewBufferString(tc.body))
			ctx := context.WithValue(req.Context(), middlewarectx.AccountID, "u1")
			req = req.WithContext(ctx)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectStatus, rec.Code)
			if tc.expectStatus == http.StatusOK {
				var result Result
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
				assert.Equal(t, "char-1", result.ID)
			}
			if !tc.expectCall {
				service.AssertNotCalled(t, "CreateCharacter", mock.Anything, mock.Anything, mock.Anything)
			}
			service.AssertExpectations(t)
		})
	}
}
