package payfast

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Адреса PayFast: страница оплаты и эндпоинт подтверждения ITN.
const (
	processURLSandbox = "https://sandbox.payfast.co.za/eng/process"
	processURLLive    = "https://www.payfast.co.za/eng/process"

	validateURLSandbox = "https://sandbox.payfast.co.za/eng/query/validate"
	validateURLLive    = "https://www.payfast.co.za/eng/query/validate"
)

// AccountIDField — свободное поле провайдера (custom_str1), в котором
// передаётся id аккаунта; по нему ITN находит, кого апгрейдить.
const AccountIDField = "custom_str1"

// ErrMissingCredentials возвращается, если merchant_id или merchant_key
// не заданы в конфигурации. Ошибка конфигурации, а не пользовательского ввода.
var ErrMissingCredentials = errors.New("payfast merchant credentials are not configured")

// Config — параметры мерчанта и тарифа, приходят из конфигурации сервиса.
type Config struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Sandbox     bool
	SiteURL     string // Базовый публичный URL, из него строятся return/cancel/notify

	Amount          string // Сумма в формате "10.00"
	ItemName        string
	ItemDescription string
}

// Checkout — подписанный набор полей для автосабмита формы на actionUrl.
type Checkout struct {
	ActionURL string            `json:"actionUrl"`
	Fields    map[string]string `json:"fields"`
}

// ProcessURL возвращает адрес страницы оплаты с учётом песочницы.
func (c Config) ProcessURL() string {
	if c.Sandbox {
		return processURLSandbox
	}
	return processURLLive
}

// ValidateURL возвращает адрес подтверждения ITN с учётом песочницы.
func (c Config) ValidateURL() string {
	if c.Sandbox {
		return validateURLSandbox
	}
	return validateURLLive
}

// BuildCheckout собирает платёжный запрос на подписку для аккаунта:
// фиксированный набор полей мерчанта, уникальный m_payment_id, параметры
// рекуррентного платежа (ежемесячно, cycles=0 — до отмены) и id аккаунта
// в custom_str1. Поля подписываются по схеме провайдера.
//
// Входных данных пользователя здесь нет, единственная возможная ошибка —
// отсутствие учётных данных мерчанта.
func BuildCheckout(cfg Config, accountID string) (*Checkout, error) {
	if cfg.MerchantID == "" || cfg.MerchantKey == "" {
		return nil, ErrMissingCredentials
	}

	base := strings.TrimRight(cfg.SiteURL, "/")

	// Уникальность ссылки на платёж: метка времени плюс короткий суффикс,
	// чтобы одновременные попытки оплаты не получили одинаковый id.
	reference := fmt.Sprintf("mineai_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])

	fields := map[string]string{
		"merchant_id":  cfg.MerchantID,
		"merchant_key": cfg.MerchantKey,
		"return_url":   base + "/billing/success",
		"cancel_url":   base + "/billing/cancel",
		"notify_url":   base + "/api/v1/billing/notify",

		"m_payment_id":     reference,
		"amount":           cfg.Amount,
		"item_name":        cfg.ItemName,
		"item_description": cfg.ItemDescription,

		// Подписка: type=1, frequency=3 — ежемесячно, cycles=0 — до отмены.
		"subscription_type": "1",
		"recurring_amount":  cfg.Amount,
		"frequency":         "3",
		"cycles":            "0",

		AccountIDField: accountID,
	}
	fields[SignatureField] = Sign(fields, cfg.Passphrase)

	return &Checkout{
		ActionURL: cfg.ProcessURL(),
		Fields:    fields,
	}, nil
}
