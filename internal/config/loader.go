package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SWAPBOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. A missing config file
// is not an error: defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SWAPBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "SWAPBOT_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.EncryptedKeyPath, "SWAPBOT_WALLET_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Wallet.KeyPassword, "SWAPBOT_WALLET_KEY_PASSWORD")

	// ── Chain ──
	setStr(&cfg.Chain.RPCURL, "SWAPBOT_CHAIN_RPC_URL")
	setInt64(&cfg.Chain.ChainID, "SWAPBOT_CHAIN_ID")
	setStr(&cfg.Chain.DiscoveryChain, "SWAPBOT_CHAIN_DISCOVERY_CHAIN")

	// ── Discovery ──
	setStr(&cfg.Discovery.BaseURL, "SWAPBOT_DISCOVERY_BASE_URL")
	setInt(&cfg.Discovery.CacheTTLSeconds, "SWAPBOT_DISCOVERY_CACHE_TTL_SECONDS")

	// ── Swap ──
	setFloat64(&cfg.Swap.SlippagePercent, "SWAPBOT_SWAP_SLIPPAGE_PERCENT")
	setInt(&cfg.Swap.DeadlineSeconds, "SWAPBOT_SWAP_DEADLINE_SECONDS")
	setFloat64(&cfg.Swap.MinLiquidityUSD, "SWAPBOT_SWAP_MIN_LIQUIDITY_USD")
	setBool(&cfg.Swap.UseUniversalRouter, "SWAPBOT_SWAP_USE_UNIVERSAL_ROUTER")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "SWAPBOT_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SWAPBOT_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SWAPBOT_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SWAPBOT_REDIS_POOL_SIZE")

	// ── Database ──
	setStr(&cfg.Database.DSN, "SWAPBOT_DATABASE_DSN")
	setInt(&cfg.Database.MaxConns, "SWAPBOT_DATABASE_MAX_CONNS")
	setBool(&cfg.Database.RunMigrations, "SWAPBOT_DATABASE_RUN_MIGRATIONS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "SWAPBOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "SWAPBOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "SWAPBOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "SWAPBOT_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "SWAPBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
