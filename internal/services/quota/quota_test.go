package quota

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) TryConsumeQuota(ctx context.Context, accountID string, day time.Time, limit int) (bool, error) {
	args := m.Called(ctx, accountID, day, limit)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_TryConsume(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		repoAllowed bool
		repoErr     error
		wantAllowed bool
		wantErr     bool
	}{
		{
			name:        "under limit",
			repoAllowed: true,
			wantAllowed: true,
		},
		{
			name:        "limit reached",
			repoAllowed: false,
			wantAllowed: false,
		},
		{
			name:        "storage error denies, not allows",
			repoErr:     errors.New("connection refused"),
			wantAllowed: false,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepositoryMock)
			repo.On("TryConsumeQuota", mock.Anything, "user-1", day, DailyMessageLimit).
				Return(tt.repoAllowed, tt.repoErr).Once()

			svc := New(repo, newNoopLogger())
			svc.now = func() time.Time { return day.Add(13 * time.Hour) }

			allowed, err := svc.TryConsume(context.Background(), "user-1")

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantAllowed, allowed)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_TryConsume_DayBoundary(t *testing.T) {
	repo := new(RepositoryMock)
	svc := New(repo, newNoopLogger())

	// Запрос в 23:59 UTC относится к текущим суткам, в 00:01 — к следующим.
	before := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	after := time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)

	repo.On("TryConsumeQuota", mock.Anything, "user-1",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), DailyMessageLimit).
		Return(false, nil).Once()
	repo.On("TryConsumeQuota", mock.Anything, "user-1",
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), DailyMessageLimit).
		Return(true, nil).Once()

	svc.now = func() time.Time { return before }
	allowed, err := svc.TryConsume(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	svc.now = func() time.Time { return after }
	allowed, err = svc.TryConsume(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)

	repo.AssertExpectations(t)
}
