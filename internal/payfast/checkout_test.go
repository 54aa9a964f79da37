package payfast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		MerchantID:      "10000100",
		MerchantKey:     "46f0cd694581a",
		Passphrase:      "jt7NOE43FZPn",
		Sandbox:         true,
		SiteURL:         "https://mineai.example",
		Amount:          "10.00",
		ItemName:        "MineAI Premium Subscription",
		ItemDescription: "Premium monthly subscription",
	}
}

func TestBuildCheckout(t *testing.T) {
	cfg := testConfig()

	checkout, err := BuildCheckout(cfg, "user-1")
	require.NoError(t, err)

	assert.Equal(t, processURLSandbox, checkout.ActionURL)

	f := checkout.Fields
	assert.Equal(t, "10000100", f["merchant_id"])
	assert.Equal(t, "46f0cd694581a", f["merchant_key"])
	assert.Equal(t, "https://mineai.example/billing/success", f["return_url"])
	assert.Equal(t, "https://mineai.example/billing/cancel", f["cancel_url"])
	assert.Equal(t, "https://mineai.example/api/v1/billing/notify", f["notify_url"])
	assert.Equal(t, "10.00", f["amount"])
	assert.Equal(t, "10.00", f["recurring_amount"])
	assert.Equal(t, "1", f["subscription_type"])
	assert.Equal(t, "3", f["frequency"])
	assert.Equal(t, "0", f["cycles"])
	assert.Equal(t, "user-1", f[AccountIDField])
	assert.NotEmpty(t, f["m_payment_id"])

	// Подпись набора полей сходится при обратной проверке тем же алгоритмом.
	assert.Equal(t, Sign(f, cfg.Passphrase), f[SignatureField])
}

func TestBuildCheckout_UniqueReference(t *testing.T) {
	cfg := testConfig()

	a, err := BuildCheckout(cfg, "user-1")
	require.NoError(t, err)
	b, err := BuildCheckout(cfg, "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, a.Fields["m_payment_id"], b.Fields["m_payment_id"])
}

func TestBuildCheckout_ProductionURL(t *testing.T) {
	cfg := testConfig()
	cfg.Sandbox = false

	checkout, err := BuildCheckout(cfg, "user-1")
	require.NoError(t, err)
	assert.Equal(t, processURLLive, checkout.ActionURL)
}

func TestBuildCheckout_MissingCredentials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no merchant id", func(c *Config) { c.MerchantID = "" }},
		{"no merchant key", func(c *Config) { c.MerchantKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := BuildCheckout(cfg, "user-1")
			assert.ErrorIs(t, err, ErrMissingCredentials)
		})
	}
}
