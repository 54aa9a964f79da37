package billing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/models"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
)

type AccountRepositoryMock struct {
	mock.Mock
}

func (m *AccountRepositoryMock) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*models.Account)
	return acc, args.Error(1)
}

func (m *AccountRepositoryMock) ApplyUpgrade(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AccountRepositoryMock) UpdateAccount(ctx context.Context, id string, patch models.AccountPatch) (int64, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AccountRepositoryMock) ListAccounts(ctx context.Context, limit, offset int) ([]models.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishUpgraded(event UpgradedEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func payfastConfig() payfast.Config {
	return payfast.Config{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Sandbox:     true,
		SiteURL:     "https://mineai.example",
		Amount:      "10.00",
		ItemName:    "MineAI Premium Subscription",
	}
}

func TestService_BuildCheckout(t *testing.T) {
	repo := new(AccountRepositoryMock)
	repo.On("GetAccount", mock.Anything, "user-1").
		Return(&models.Account{ID: "user-1", Plan: models.PlanFree}, nil).Once()

	svc := New(repo, payfastConfig(), nil, newNoopLogger())

	checkout, err := svc.BuildCheckout(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", checkout.Fields[payfast.AccountIDField])
	assert.NotEmpty(t, checkout.Fields[payfast.SignatureField])
}

func TestService_BuildCheckout_MissingCredentials(t *testing.T) {
	repo := new(AccountRepositoryMock)
	repo.On("GetAccount", mock.Anything, "user-1").
		Return(&models.Account{ID: "user-1"}, nil).Once()

	cfg := payfastConfig()
	cfg.MerchantKey = ""
	svc := New(repo, cfg, nil, newNoopLogger())

	assert.False(t, svc.Configured())

	_, err := svc.BuildCheckout(context.Background(), "user-1")
	assert.ErrorIs(t, err, payfast.ErrMissingCredentials)
}

func TestService_ApplyUpgrade(t *testing.T) {
	tests := []struct {
		name        string
		rows        int64
		repoErr     error
		wantErr     bool
		wantPublish bool
	}{
		{
			name:        "upgrade applied",
			rows:        1,
			wantPublish: true,
		},
		{
			name: "unknown account acknowledged without event",
			rows: 0,
		},
		{
			name:    "storage error is reported",
			repoErr: errors.New("write failed"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AccountRepositoryMock)
			publisher := new(PublisherMock)

			repo.On("ApplyUpgrade", mock.Anything, "user-1").Return(tt.rows, tt.repoErr).Once()
			if tt.wantPublish {
				publisher.On("PublishUpgraded", UpgradedEvent{
					AccountID: "user-1",
					Reference: "mineai_1",
				}).Return(nil).Once()
			}

			svc := New(repo, payfastConfig(), publisher, newNoopLogger())
			err := svc.ApplyUpgrade(context.Background(), "user-1", "mineai_1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestService_ApplyUpgrade_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(AccountRepositoryMock)
	publisher := new(PublisherMock)

	repo.On("ApplyUpgrade", mock.Anything, "user-1").Return(int64(1), nil).Once()
	publisher.On("PublishUpgraded", mock.Anything).Return(errors.New("broker down")).Once()

	svc := New(repo, payfastConfig(), publisher, newNoopLogger())

	// Апгрейд уже применён: ошибка публикации события не должна
	// превращать доставку в DB_ERROR.
	assert.NoError(t, svc.ApplyUpgrade(context.Background(), "user-1", "ref"))
}
