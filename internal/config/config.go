// Package config defines the swapbot configuration and its validation.
package config

import (
	"fmt"
	"math"
	"strings"
)

// Config is the root configuration. Fields are populated from a TOML file
// and then optionally overridden by SWAPBOT_* environment variables.
type Config struct {
	Wallet    WalletConfig    `toml:"wallet"`
	Chain     ChainConfig     `toml:"chain"`
	Discovery DiscoveryConfig `toml:"discovery"`
	Swap      SwapConfig      `toml:"swap"`
	Redis     RedisConfig     `toml:"redis"`
	Database  DatabaseConfig  `toml:"database"`
	Notify    NotifyConfig    `toml:"notify"`
	LogLevel  string          `toml:"log_level"`
}

// WalletConfig holds the signing-key source. Either a raw hex key or an
// encrypted key file plus password must be provided.
type WalletConfig struct {
	PrivateKey       string `toml:"private_key"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// ChainConfig holds the RPC endpoint and chain identifiers.
type ChainConfig struct {
	RPCURL string `toml:"rpc_url"`
	// ChainID is the EVM chain id used for transaction signing.
	ChainID int64 `toml:"chain_id"`
	// DiscoveryChain is the chain identifier the discovery API uses for
	// the same network (e.g. "base").
	DiscoveryChain string `toml:"discovery_chain"`
}

// DiscoveryConfig holds pool-discovery API parameters.
type DiscoveryConfig struct {
	BaseURL string `toml:"base_url"`
	// CacheTTLSeconds controls how long fetched listings stay cached in
	// Redis. Zero disables caching even when Redis is configured.
	CacheTTLSeconds int `toml:"cache_ttl_seconds"`
}

// SwapConfig holds the swap parameters.
type SwapConfig struct {
	// SlippagePercent is the default slippage tolerance, 0.01-99.99 with
	// at most two decimal places.
	SlippagePercent float64 `toml:"slippage_percent"`
	// DeadlineSeconds is the window after which the chain-side contract
	// must reject the swap.
	DeadlineSeconds int `toml:"deadline_seconds"`
	// MinLiquidityUSD filters out thin pools during selection.
	MinLiquidityUSD float64 `toml:"min_liquidity_usd"`
	// UseUniversalRouter switches from the per-version legacy routers to
	// the single multi-command router.
	UseUniversalRouter bool `toml:"use_universal_router"`
}

// RedisConfig holds the optional listing-cache connection. An empty Addr
// disables the cache entirely.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
}

// DatabaseConfig holds the optional swap-history store. An empty DSN
// disables persistence.
type DatabaseConfig struct {
	DSN           string `toml:"dsn"`
	MaxConns      int    `toml:"max_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Chain: ChainConfig{
			RPCURL:         "https://mainnet.base.org",
			ChainID:        8453,
			DiscoveryChain: "base",
		},
		Discovery: DiscoveryConfig{
			BaseURL:         "https://api.dexscreener.com/latest/dex",
			CacheTTLSeconds: 30,
		},
		Swap: SwapConfig{
			SlippagePercent:    1.0,
			DeadlineSeconds:    30,
			MinLiquidityUSD:    1000,
			UseUniversalRouter: false,
		},
		Redis: RedisConfig{
			PoolSize: 10,
		},
		Database: DatabaseConfig{
			MaxConns:      5,
			RunMigrations: true,
		},
		Notify: NotifyConfig{
			Events: []string{"swap_submitted", "swap_failed"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// SlippageToBps converts a human slippage percentage to basis points by
// floor(pct * 100) after validating the bounds: 0.01-99.99 inclusive, at
// most two decimal places, NaN rejected. Validation happens here, once,
// at configuration resolution; the quote engine only range-checks bps.
func SlippageToBps(pct float64) (int, error) {
	if math.IsNaN(pct) {
		return 0, fmt.Errorf("slippage_percent: must be a number")
	}
	if pct < 0.01 || pct > 99.99 {
		return 0, fmt.Errorf("slippage_percent: must be between 0.01 and 99.99, got %g", pct)
	}
	scaled := pct * 100
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		return 0, fmt.Errorf("slippage_percent: at most 2 decimal places, got %g", pct)
	}
	return int(math.Round(scaled)), nil
}

// Validate checks the configuration and returns a combined error naming
// every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Wallet: at least one credential source.
	if c.Wallet.PrivateKey == "" && c.Wallet.EncryptedKeyPath == "" {
		errs = append(errs, "wallet: either private_key or encrypted_key_path must be set")
	}
	if c.Wallet.EncryptedKeyPath != "" && c.Wallet.KeyPassword == "" {
		errs = append(errs, "wallet: key_password is required when encrypted_key_path is set")
	}

	// Chain
	if c.Chain.RPCURL == "" {
		errs = append(errs, "chain: rpc_url must not be empty")
	}
	if c.Chain.ChainID <= 0 {
		errs = append(errs, "chain: chain_id must be positive")
	}
	if c.Chain.DiscoveryChain == "" {
		errs = append(errs, "chain: discovery_chain must not be empty")
	}

	// Discovery
	if c.Discovery.BaseURL == "" {
		errs = append(errs, "discovery: base_url must not be empty")
	}
	if c.Discovery.CacheTTLSeconds < 0 {
		errs = append(errs, "discovery: cache_ttl_seconds must be >= 0")
	}

	// Swap
	if _, err := SlippageToBps(c.Swap.SlippagePercent); err != nil {
		errs = append(errs, "swap: "+err.Error())
	}
	if c.Swap.DeadlineSeconds <= 0 {
		errs = append(errs, "swap: deadline_seconds must be > 0")
	}
	if c.Swap.MinLiquidityUSD < 0 {
		errs = append(errs, "swap: min_liquidity_usd must be >= 0")
	}

	// Redis (only when configured)
	if c.Redis.Addr != "" && c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	// Database (only when configured)
	if c.Database.DSN != "" && c.Database.MaxConns < 1 {
		errs = append(errs, "database: max_conns must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
