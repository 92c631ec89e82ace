package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlippageToBps(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want int
	}{
		{"one percent", 1.0, 100},
		{"minimum", 0.01, 1},
		{"maximum", 99.99, 9999},
		{"half percent", 0.5, 50},
		{"two decimals", 2.55, 255},
		{"float artifact resolves cleanly", 0.29, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SlippageToBps(tt.pct)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlippageToBpsRejections(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
	}{
		{"zero", 0},
		{"below minimum", 0.005},
		{"above maximum", 100},
		{"negative", -1},
		{"three decimals", 1.005},
		{"nan", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SlippageToBps(tt.pct)
			assert.Error(t, err)
		})
	}
}

func validConfig() Config {
	cfg := Defaults()
	cfg.Wallet.PrivateKey = "0xabc123"
	return cfg
}

func TestValidateAcceptsDefaultsWithKey(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresKeySource(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private_key or encrypted_key_path")
}

func TestValidateEncryptedKeyNeedsPassword(t *testing.T) {
	cfg := Defaults()
	cfg.Wallet.EncryptedKeyPath = "/tmp/key.json"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key_password")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Chain.RPCURL = ""
	cfg.Chain.ChainID = 0
	cfg.Swap.SlippagePercent = 150
	cfg.Swap.DeadlineSeconds = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc_url")
	assert.Contains(t, err.Error(), "chain_id")
	assert.Contains(t, err.Error(), "slippage_percent")
	assert.Contains(t, err.Error(), "deadline_seconds")
}

func TestValidateOptionalSectionsOnlyWhenConfigured(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Addr = ""
	cfg.Redis.PoolSize = 0
	cfg.Database.DSN = ""
	cfg.Database.MaxConns = 0
	assert.NoError(t, cfg.Validate(), "unset redis and database sections are not validated")

	cfg.Redis.Addr = "localhost:6379"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool_size")
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}
