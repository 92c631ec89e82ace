package dexscreener

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapbotlabs/swapbot/internal/domain"
	"github.com/swapbotlabs/swapbot/internal/retry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noSleep removes backoff waits from the retry loop.
func noSleep(context.Context, time.Duration) error { return nil }

func newTestClient(serverURL string) *Client {
	c := NewClient(serverURL, testLogger())
	c.SetRetryConfig(retry.Config{MaxRetries: 3, BaseDelay: time.Second, Sleep: noSleep})
	return c
}

func TestFetchPoolsDecodesListings(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"pairs": [
			{"chainId": "base", "dexId": "uniswap", "pairAddress": "0xabc",
			 "labels": ["v3"], "liquidity": {"usd": 120000.5}},
			{"chainId": "base", "dexId": "pancakeswap", "pairAddress": "0xdef",
			 "labels": ["v2"]}
		]}`))
	}))
	defer srv.Close()

	listings, err := newTestClient(srv.URL).FetchPools(context.Background(), "0xToken")
	require.NoError(t, err)

	assert.Equal(t, "/tokens/0xToken", gotPath)
	require.Len(t, listings, 2)
	assert.Equal(t, "0xabc", listings[0].PairAddress)
	assert.Equal(t, []string{"v3"}, listings[0].Labels)
	assert.Equal(t, 120000.5, listings[0].LiquidityUSD())
	assert.Equal(t, 0.0, listings[1].LiquidityUSD(), "missing liquidity reads as zero")
}

func TestFetchPoolsNullPairsBecomesEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": null}`))
	}))
	defer srv.Close()

	listings, err := newTestClient(srv.URL).FetchPools(context.Background(), "0xToken")
	require.NoError(t, err)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestFetchPoolsRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPools(context.Background(), "0xToken")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestFetchPoolsRetriesRateLimiting(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"pairs": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPools(context.Background(), "0xToken")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchPoolsClientErrorFailsImmediately(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`bad token address`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPools(context.Background(), "0xToken")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx other than 429 must not consume retries")

	var de *domain.DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.False(t, de.Retryable)
	assert.Equal(t, http.StatusBadRequest, de.StatusCode)
	assert.Contains(t, de.Message, "bad token address")
}

func TestFetchPoolsExhaustedRetriesReturnTaggedError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPools(context.Background(), "0xToken")
	require.Error(t, err)
	assert.Equal(t, 4, calls, "initial attempt plus three retries")

	var de *domain.DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.True(t, de.Retryable)
	assert.Equal(t, http.StatusBadGateway, de.StatusCode)
}

func TestFetchPoolsConnectionErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(srv.URL, testLogger())
	c.SetRetryConfig(retry.Config{MaxRetries: 1, BaseDelay: time.Millisecond, Sleep: noSleep})

	_, err := c.FetchPools(context.Background(), "0xToken")
	require.Error(t, err)

	var de *domain.DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.True(t, de.Retryable)
}

func TestClassifyStatusTaxonomy(t *testing.T) {
	assert.Nil(t, classifyStatus(http.StatusOK, nil))

	de := classifyStatus(http.StatusTooManyRequests, nil)
	require.NotNil(t, de)
	assert.True(t, de.Retryable)
	assert.Equal(t, "rate limited", de.Message)

	de = classifyStatus(http.StatusServiceUnavailable, nil)
	require.NotNil(t, de)
	assert.True(t, de.Retryable)

	de = classifyStatus(http.StatusNotFound, []byte("missing"))
	require.NotNil(t, de)
	assert.False(t, de.Retryable)
}
