package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/storage/repository"
)

// Хранилище обязано удовлетворять Pinger: именно им обработчик
// конструируется при сборке маршрутов.
var _ Pinger = (*repository.Storage)(nil)

type PingerMock struct {
	mock.Mock
}

func (m *PingerMock) CheckDatabaseReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	cases := []struct {
		name         string
		pingErr      error
		expectStatus int
	}{
		{
			name:         "ready database reports ok",
			expectStatus: http.StatusOK,
		},
		{
			name:         "unavailable database reports 503",
			pingErr:      errors.New("connection refused"),
			expectStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pinger := new(PingerMock)
			pinger.On("CheckDatabaseReady", mock.Anything).Return(tc.pingErr)

			handler := New(newNoopLogger(), pinger)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectStatus, rec.Code)
			pinger.AssertExpectations(t)
		})
	}
}
