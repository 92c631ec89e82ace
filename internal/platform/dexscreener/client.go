// Package dexscreener is an HTTP client for the DexScreener pair-listing
// API, used to discover candidate liquidity pools for a token. Transient
// failures are classified and retried with exponential backoff.
package dexscreener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/swapbotlabs/swapbot/internal/domain"
	"github.com/swapbotlabs/swapbot/internal/retry"
)

const (
	// DefaultBaseURL is the public DexScreener API host.
	DefaultBaseURL = "https://api.dexscreener.com/latest/dex"
	// attemptTimeout bounds each individual fetch attempt.
	attemptTimeout = 5 * time.Second
)

// Client fetches pool listings for a token with classified retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	logger     *slog.Logger
}

// NewClient creates a DexScreener client. An empty baseURL falls back to
// the public API host.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: attemptTimeout,
		},
		retryCfg: retry.DefaultConfig(),
		logger:   logger.With(slog.String("component", "dexscreener")),
	}
}

// SetRetryConfig overrides the retry policy. Tests use this to inject a
// recording sleeper.
func (c *Client) SetRetryConfig(cfg retry.Config) {
	c.retryCfg = cfg
}

// pairsResponse is the envelope of GET /tokens/{address}.
type pairsResponse struct {
	Pairs []domain.PoolListing `json:"pairs"`
}

// FetchPools returns all pool listings for tokenAddress. Transient failures
// (timeouts, 429, 5xx, DNS and connection errors) are retried up to the
// configured budget; any other HTTP status fails immediately. An absent or
// null pairs field is normalized to an empty slice.
func (c *Client) FetchPools(ctx context.Context, tokenAddress string) ([]domain.PoolListing, error) {
	listings, err := retry.Do(ctx, c.retryCfg, isRetryable, func(ctx context.Context) ([]domain.PoolListing, error) {
		return c.fetchOnce(ctx, tokenAddress)
	})
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "fetched pool listings",
		slog.String("token", tokenAddress),
		slog.Int("count", len(listings)),
	)
	return listings, nil
}

// fetchOnce performs a single GET /tokens/{address} attempt.
func (c *Client) fetchOnce(ctx context.Context, tokenAddress string) ([]domain.PoolListing, error) {
	url := fmt.Sprintf("%s/tokens/%s", c.baseURL, tokenAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.DiscoveryError{Retryable: true, Message: "network error", Err: err}
	}

	if de := classifyStatus(resp.StatusCode, body); de != nil {
		return nil, de
	}

	var payload pairsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("dexscreener: decode response: %w", err)
	}

	if payload.Pairs == nil {
		return []domain.PoolListing{}, nil
	}
	return payload.Pairs, nil
}

// classifyStatus maps a non-200 HTTP status onto the discovery error
// taxonomy. Returns nil for 200.
func classifyStatus(status int, body []byte) *domain.DiscoveryError {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return &domain.DiscoveryError{Retryable: true, StatusCode: status, Message: "rate limited"}
	case status >= 500:
		return &domain.DiscoveryError{Retryable: true, StatusCode: status, Message: "server error"}
	default:
		return &domain.DiscoveryError{
			Retryable:  false,
			StatusCode: status,
			Message:    fmt.Sprintf("unexpected status: %s", strings.TrimSpace(string(body))),
		}
	}
}

// classifyTransportError maps transport-level failures (no HTTP response)
// onto the taxonomy. Timeouts and connection/DNS failures are retryable.
func classifyTransportError(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &domain.DiscoveryError{Retryable: true, Message: "timeout", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.DiscoveryError{Retryable: true, Message: "timeout", Err: err}
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) || errors.Is(err, io.EOF) {
		return &domain.DiscoveryError{Retryable: true, Message: "network error", Err: err}
	}

	// Unknown kind: surface unmodified so programming errors are not retried.
	return err
}

// isRetryable is the classifier handed to the retry helper: only tagged
// discovery errors marked retryable go around again.
func isRetryable(err error) bool {
	var de *domain.DiscoveryError
	return errors.As(err, &de) && de.Retryable
}
