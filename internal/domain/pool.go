// Package domain defines the data model shared across the swap pipeline:
// pool listings from the discovery API, the selected pool, quotes, gas
// estimates, and the fully-resolved swap order.
package domain

// TokenInfo describes one side of a trading pair as reported by the
// discovery API.
type TokenInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity is the liquidity snapshot attached to a pool listing. The USD
// value is the only field the selector consumes; base/quote are kept for
// logging and the swap-history record.
type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// PoolListing is a raw pair record from the discovery API. It is immutable
// once fetched; the Liquidity pointer is nil when the API omits the field,
// and LiquidityUSD normalizes that absence to 0 exactly once.
type PoolListing struct {
	ChainID     string     `json:"chainId"`
	DexID       string     `json:"dexId"`
	URL         string     `json:"url"`
	PairAddress string     `json:"pairAddress"`
	BaseToken   TokenInfo  `json:"baseToken"`
	QuoteToken  TokenInfo  `json:"quoteToken"`
	Labels      []string   `json:"labels"`
	Liquidity   *Liquidity `json:"liquidity"`
}

// LiquidityUSD returns the listing's USD liquidity, treating a missing
// snapshot as zero so downstream code never re-checks for absence.
func (p PoolListing) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}

// PoolVersion identifies the AMM calling convention of a pool.
type PoolVersion string

const (
	// PoolVersionV2 is a constant-product pool.
	PoolVersionV2 PoolVersion = "v2"
	// PoolVersionV3 is a concentrated-liquidity pool.
	PoolVersionV3 PoolVersion = "v3"
)

// ParsePoolVersion scans labels in order and returns the first one that is
// a known pool version. The bool reports whether any version label was
// found. When both v2 and v3 appear, whichever occurs first wins; the
// ordering carries no meaning beyond determinism.
func ParsePoolVersion(labels []string) (PoolVersion, bool) {
	for _, l := range labels {
		switch PoolVersion(l) {
		case PoolVersionV2, PoolVersionV3:
			return PoolVersion(l), true
		}
	}
	return "", false
}

// SelectedPool is the winning listing reduced to the fields the rest of
// the pipeline needs. Created once per swap request, never mutated.
type SelectedPool struct {
	PairAddress  string
	Version      PoolVersion
	DexID        string
	LiquidityUSD float64
}
