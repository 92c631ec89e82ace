package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swapbotlabs/swapbot/internal/cache/redis"
	"github.com/swapbotlabs/swapbot/internal/chain"
	"github.com/swapbotlabs/swapbot/internal/config"
	"github.com/swapbotlabs/swapbot/internal/crypto"
	"github.com/swapbotlabs/swapbot/internal/encoder"
	"github.com/swapbotlabs/swapbot/internal/executor"
	"github.com/swapbotlabs/swapbot/internal/gas"
	"github.com/swapbotlabs/swapbot/internal/notify"
	"github.com/swapbotlabs/swapbot/internal/platform/dexscreener"
	"github.com/swapbotlabs/swapbot/internal/quote"
	"github.com/swapbotlabs/swapbot/internal/selector"
	"github.com/swapbotlabs/swapbot/internal/service"
	"github.com/swapbotlabs/swapbot/internal/store/postgres"
)

// Wire constructs the fully-assembled swap service from the configuration
// and returns it together with a cleanup function that releases every
// acquired resource. Redis, PostgreSQL, and notification channels are
// attached only when configured.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.SwapService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Signing key and chain client ---
	key, err := crypto.ResolveKey(crypto.KeySource{
		RawPrivateKey:    cfg.Wallet.PrivateKey,
		EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
		KeyPassword:      cfg.Wallet.KeyPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wire: resolve signing key: %w", err)
	}

	chainClient, err := chain.Dial(ctx, cfg.Chain.RPCURL, key, cfg.Chain.ChainID, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: chain: %w", err)
	}
	closers = append(closers, chainClient.Close)

	// --- Pipeline stages ---
	discovery := dexscreener.NewClient(cfg.Discovery.BaseURL, logger)
	picker := selector.New(cfg.Chain.DiscoveryChain, logger)

	quoter, err := quote.NewEngine(chainClient, encoder.QuoteRouter(), logger)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: quote engine: %w", err)
	}

	pricer := gas.NewPricer(chainClient, logger)
	exec := executor.NewExecutor(chainClient, logger)

	slippageBps, err := config.SlippageToBps(cfg.Swap.SlippagePercent)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: %w", err)
	}

	svc := service.NewSwapService(discovery, picker, quoter, pricer, exec, service.Params{
		SlippageBps:        slippageBps,
		DeadlineSeconds:    cfg.Swap.DeadlineSeconds,
		MinLiquidityUSD:    cfg.Swap.MinLiquidityUSD,
		UseUniversalRouter: cfg.Swap.UseUniversalRouter,
		Recipient:          chainClient.Sender(),
	}, logger)

	// --- Redis listing cache (optional) ---
	if cfg.Redis.Addr != "" && cfg.Discovery.CacheTTLSeconds > 0 {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		ttl := time.Duration(cfg.Discovery.CacheTTLSeconds) * time.Second
		svc.SetPoolCache(redis.NewPoolCache(redisClient, ttl))
	}

	// --- PostgreSQL swap history (optional) ---
	if cfg.Database.DSN != "" {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Database.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}
		svc.SetStore(postgres.NewSwapStore(pgClient.Pool()))
	}

	// --- Notifications (optional) ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if len(senders) > 0 {
		svc.SetNotifier(notify.NewNotifier(senders, cfg.Notify.Events, logger))
	}

	return svc, cleanup, nil
}
