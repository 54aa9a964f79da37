package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/payfast"
)

type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) Verify(ctx context.Context, rawBody []byte) payfast.Result {
	args := m.Called(ctx, rawBody)
	return args.Get(0).(payfast.Result)
}

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *ServiceMock) ApplyUpgrade(ctx context.Context, accountID, reference string) error {
	args := m.Called(ctx, accountID, reference)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_ServeHTTP(t *testing.T) {
	body := []byte("m_payment_id=mineai_1_abc&payment_status=COMPLETE&custom_str1=u1&signature=deadbeef")

	cases := []struct {
		name         string
		configured   bool
		result       payfast.Result
		upgradeErr   error
		expectStatus int
		expectBody   string
		expectApply  bool
	}{
		{
			name:       "complete notification upgrades account",
			configured: true,
			result: payfast.Result{
				Status:    payfast.StatusUpgrade,
				AccountID: "u1",
				Reference: "mineai_1_abc",
			},
			expectStatus: http.StatusOK,
			expectBody:   "OK",
			expectApply:  true,
		},
		{
			name:       "signature mismatch is rejected",
			configured: true,
			result: payfast.Result{
				Status: payfast.StatusBadSignature,
			},
			expectStatus: http.StatusBadRequest,
			expectBody:   "INVALID_SIGNATURE",
		},
		{
			name:       "unconfirmed notification is rejected",
			configured: true,
			result: payfast.Result{
				Status:    payfast.StatusNotConfirmed,
				Reference: "mineai_1_abc",
			},
			expectStatus: http.StatusBadRequest,
			expectBody:   "INVALID",
		},
		{
			name:       "pending payment is acknowledged without upgrade",
			configured: true,
			result: payfast.Result{
				Status:        payfast.StatusIgnore,
				PaymentStatus: "PENDING",
				Reference:     "mineai_1_abc",
			},
			expectStatus: http.StatusOK,
			expectBody:   "IGNORED",
		},
		{
			name:       "missing account id is rejected",
			configured: true,
			result: payfast.Result{
				Status:    payfast.StatusMissingAccount,
				Reference: "mineai_1_abc",
			},
			expectStatus: http.StatusBadRequest,
			expectBody:   "MISSING_USER",
		},
		{
			name:       "storage failure returns 500 so payfast retries",
			configured: true,
			result: payfast.Result{
				Status:    payfast.StatusUpgrade,
				AccountID: "u1",
				Reference: "mineai_1_abc",
			},
			upgradeErr:   errors.New("connection refused"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "DB_ERROR",
			expectApply:  true,
		},
		{
			name:         "missing credentials short-circuit verification",
			configured:   false,
			expectStatus: http.StatusInternalServerError,
			expectBody:   "SERVER_MISCONFIG",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := new(VerifierMock)
			service := new(ServiceMock)
			service.On("Configured").Return(tc.configured)
			if tc.configured {
				verifier.On("Verify", mock.Anything, body).Return(tc.result)
			}
			if tc.expectApply {
				service.On("ApplyUpgrade", mock.Anything, tc.result.AccountID, tc.result.Reference).
					Return(tc.upgradeErr)
			}

			handler := New(newNoopLogger(), verifier, service)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/notify", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectStatus, rec.Code)
			assert.Equal(t, tc.expectBody, rec.Body.String())
			if !tc.expectApply {
				service.AssertNotCalled(t, "ApplyUpgrade", mock.Anything, mock.Anything, mock.Anything)
			}
			verifier.AssertExpectations(t)
			service.AssertExpectations(t)
		})
	}
}

// Проверяет, что обработчику передаётся сырое тело запроса без изменений:
// подпись и серверное подтверждение считаются от исходных байт.
func TestHandler_ServeHTTP_PassesRawBody(t *testing.T) {
	raw := []byte("amount=10.00&custom_str1=u1&payment_status=COMPLETE&signature=cafe")

	verifier := new(VerifierMock)
	service := new(ServiceMock)
	service.On("Configured").Return(true)

	var seen []byte
	verifier.On("Verify", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen = args.Get(1).([]byte)
		}).
		Return(payfast.Result{Status: payfast.StatusBadSignature})

	handler := New(newNoopLogger(), verifier, service)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/notify", bytes.NewReader(raw))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, raw, seen)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
