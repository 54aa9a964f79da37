package checkout

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

	"github.com/debeerphilip63-prog/Mineaiclean/internal/http/middlewarectx"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
	"github.com/debeerphilip63-prog/Mineaiclean/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) BuildCheckout(ctx context.Context, accountID string) (*payfast.Checkout, error) {
	args := m.Called(ctx, accountID)
	checkout, _ := args.Get(0).(*payfast.Checkout)
	return checkout, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	checkout := &payfast.Checkout{
		ActionURL: "https://sandbox.payfast.co.za/eng/process",
		Fields: map[string]string{
			"merchant_id":  "10000100",
			"m_payment_id": "mineai_1_abc",
			"custom_str1":  "u1",
			"signature":    "deadbeef",
		},
	}

	cases := []struct {
		name         string
		accountID    string
		serviceErr   error
		expectStatus int
		expectOK     bool
		expectError  string
	}{
		{
			name:         "authorized user gets signed fields",
			accountID:    "u1",
			expectStatus: http.StatusOK,
			expectOK:     true,
		},
		{
			name:         "missing session is unauthorized",
			expectStatus: http.StatusUnauthorized,
			expectError:  "not signed in",
		},
		{
			name:         "missing credentials return 500",
			accountID:    "u1",
			serviceErr:   payfast.ErrMissingCredentials,
			expectStatus: http.StatusInternalServerError,
			expectError:  "billing is not configured",
		},
		{
			name:         "vanished account is unauthorized",
			accountID:    "u1",
			serviceErr:   repository.ErrNotFound,
			expectStatus: http.StatusUnauthorized,
			expectError:  "not signed in",
		},
		{
			name:         "storage failure returns 500",
			accountID:    "u1",
			serviceErr:   errors.New("connection refused"),
			expectStatus: http.StatusInternalServerError,
			expectError:  "internal error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := new(ServiceMock)
			if tc.accountID != "" {
				var result *payfast.Checkout
				if tc.serviceErr == nil {
					result = checkout
				}
				service.On("BuildCheckout", mock.Anything, tc.accountID).Return(result, tc.serviceErr)
			}

			handler := New(newNoopLogger(), service)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/checkout", nil)
			if tc.accountID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.AccountID, tc.accountID)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectStatus, rec.Code)

			var body Body
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.expectOK, body.OK)
			if tc.expectOK {
				assert.Equal(t, checkout.ActionURL, body.ActionURL)
				assert.Equal(t, checkout.Fields, body.Fields)
			} else {
				assert.Equal(t, tc.expectError, body.Error)
			}
			service.AssertExpectations(t)
		})
	}
}
