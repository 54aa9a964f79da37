package payfast

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/debeerphilip63-prog/Mineaiclean/internal/lib/sl"
)

// PaymentStatusField и paymentStatusComplete — поле статуса платежа в ITN
// и единственное его значение, дающее право на апгрейд.
const (
	PaymentStatusField    = "payment_status"
	paymentStatusComplete = "COMPLETE"
)

// Status — исход проверки одного ITN-уведомления.
type Status int

const (
	// StatusUpgrade — уведомление подлинное, платёж завершён, аккаунт
	// из custom_str1 подлежит апгрейду.
	StatusUpgrade Status = iota
	// StatusIgnore — уведомление подлинное, но статус платежа не COMPLETE;
	// подтверждаем получение, ничего не меняя (для подписок это штатные
	// промежуточные события, не ошибки).
	StatusIgnore
	// StatusBadSignature — подпись не совпала с пересчитанной.
	StatusBadSignature
	// StatusNotConfirmed — провайдер не подтвердил уведомление ответом VALID
	// (либо подтверждающий вызов не удался).
	StatusNotConfirmed
	// StatusMissingAccount — в уведомлении нет id аккаунта.
	StatusMissingAccount
)

// Result — результат проверки уведомления. AccountID заполнен только
// при StatusUpgrade.
type Result struct {
	Status        Status
	AccountID     string
	PaymentStatus string
	Reference     string // m_payment_id из уведомления, для логов
}

// Verifier проверяет входящие ITN-уведомления. Verifier ничего не пишет
// в хранилище: решение об апгрейде исполняет вызывающая сторона.
type Verifier struct {
	passphrase  string
	validateURL string
	client      *http.Client
	log         *slog.Logger
}

// NewVerifier создаёт Verifier для конфигурации мерчанта. Подтверждающий
// вызов к провайдеру ограничен коротким таймаутом: зависшее подтверждение
// равносильно неподтверждённому, провайдер доставит уведомление повторно.
func NewVerifier(cfg Config, log *slog.Logger) *Verifier {
	return &Verifier{
		passphrase:  cfg.Passphrase,
		validateURL: cfg.ValidateURL(),
		client:      &http.Client{Timeout: 5 * time.Second},
		log:         log,
	}
}

// Verify прогоняет сырое form-encoded тело уведомления через все шаги
// проверки: разбор, пересчёт подписи, подтверждение у провайдера,
// статус платежа, наличие id аккаунта. Не паникует и не возвращает
// ошибок — любой сбой отображается в отклоняющий Status.
func (v *Verifier) Verify(ctx context.Context, rawBody []byte) Result {
	const op = "payfast.Verify"
	log := v.log.With(slog.String("op", op))

	fields, err := ParseNotification(rawBody)
	if err != nil {
		log.Error("failed to parse ITN body", sl.Err(err))
		return Result{Status: StatusBadSignature}
	}

	res := Result{
		PaymentStatus: fields[PaymentStatusField],
		Reference:     fields["m_payment_id"],
	}

	got := strings.TrimSpace(fields[SignatureField])
	if got == "" || got != Sign(fields, v.passphrase) {
		log.Error("ITN signature mismatch", slog.String("m_payment_id", res.Reference))
		res.Status = StatusBadSignature
		return res
	}

	// Совпавшей подписи недостаточно: провайдер требует живое
	// подтверждение тем же телом, что защищает от повторно
	// проигранных и поддельных уведомлений.
	if !v.confirm(ctx, rawBody) {
		res.Status = StatusNotConfirmed
		return res
	}

	if !strings.EqualFold(fields[PaymentStatusField], paymentStatusComplete) {
		res.Status = StatusIgnore
		return res
	}

	accountID := strings.TrimSpace(fields[AccountIDField])
	if accountID == "" {
		log.Error("ITN without account id", slog.String("m_payment_id", res.Reference))
		res.Status = StatusMissingAccount
		return res
	}

	res.Status = StatusUpgrade
	res.AccountID = accountID
	return res
}

// confirm отправляет исходное тело уведомления обратно провайдеру
// и требует буквальный ответ VALID.
func (v *Verifier) confirm(ctx context.Context, rawBody []byte) bool {
	const op = "payfast.confirm"
	log := v.log.With(slog.String("op", op))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.validateURL, bytes.NewReader(rawBody))
	if err != nil {
		log.Error("failed to build validate request", sl.Err(err))
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		log.Error("validate call failed", sl.Err(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("validate call returned non-2xx", slog.Int("status", resp.StatusCode))
		return false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		log.Error("failed to read validate response", sl.Err(err))
		return false
	}
	return strings.TrimSpace(string(body)) == "VALID"
}

// ParseNotification разбирает form-encoded тело ITN в плоский набор
// полей. Набор ключей контролирует провайдер; у повторяющихся ключей
// берётся первое значение.
func ParseNotification(rawBody []byte) (map[string]string, error) {
	values, err := url.ParseQuery(string(rawBody))
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}
