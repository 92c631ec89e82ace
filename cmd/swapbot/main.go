// Command swapbot buys an ERC-20 token with the chain's native asset. It
// loads configuration, validates it, wires the swap pipeline, and submits
// one swap per invocation.
//
// Usage:
//
//	swapbot swap <token-address> <amount-eth> [-slippage <percent>] [-config <path>]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/swapbotlabs/swapbot/internal/app"
	"github.com/swapbotlabs/swapbot/internal/config"
)

// weiDecimals is the native asset's decimal precision.
const weiDecimals = 18

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "swap":
		os.Exit(runSwap(os.Args[2:]))
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: swapbot swap <token-address> <amount-eth> [flags]

Buys the given token with the native asset.

Flags:
  -slippage <percent>   slippage tolerance override (0.01-99.99)
  -config <path>        path to configuration file (default "config.toml")
`)
}

func runSwap(args []string) int {
	configPath := "config.toml"
	slippageBps := -1

	var positional []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-slippage", "--slippage":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "swap: -slippage requires a value")
				return 2
			}
			pct, err := parsePercent(args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "swap: %v\n", err)
				return 2
			}
			bps, err := config.SlippageToBps(pct)
			if err != nil {
				fmt.Fprintf(os.Stderr, "swap: %v\n", err)
				return 2
			}
			slippageBps = bps
		case "-config", "--config":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "swap: -config requires a value")
				return 2
			}
			configPath = args[i]
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) != 2 {
		usage()
		return 2
	}
	tokenAddress := positional[0]

	amountWei, err := parseEther(positional[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "swap: %v\n", err)
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "swap: load config %s: %v\n", configPath, err)
		return 1
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, logger)
	defer application.Close()

	hash, err := application.Swap(ctx, tokenAddress, amountWei, slippageBps)
	if err != nil {
		logger.Error("swap failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "swap: %v\n", err)
		return 1
	}

	fmt.Println(hash.Hex())
	return 0
}

// newLogger builds the structured JSON logger at the configured level.
func newLogger(levelName string) *slog.Logger {
	var level slog.Level
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// parsePercent parses a positive decimal percentage from the command line.
func parsePercent(s string) (float64, error) {
	var pct float64
	if _, err := fmt.Sscanf(s, "%f", &pct); err != nil {
		return 0, fmt.Errorf("invalid slippage %q", s)
	}
	return pct, nil
}

// parseEther converts a decimal native-asset amount (e.g. "0.05") into wei
// using integer arithmetic only, so amounts never pass through a float.
func parseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("amount must not be empty")
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > weiDecimals {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, weiDecimals)
	}
	// Right-pad the fraction to exactly 18 digits.
	frac += strings.Repeat("0", weiDecimals-len(frac))

	wei, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if wei.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	return wei, nil
}
