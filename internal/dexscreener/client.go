// Package dexscreener fetches trading pair data from the DexScreener
// public API.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rugscreen/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.dexscreener.com"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// Client talks to the DexScreener REST API.
type Client struct {
	baseURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new DexScreener API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenProfile is an entry from the latest token profiles feed.
type TokenProfile struct {
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	URL          string `json:"url"`
}

// LatestProfiles fetches the latest promoted token profiles feed.
// This is the discovery source for new token candidates.
func (c *Client) LatestProfiles(ctx context.Context) ([]TokenProfile, error) {
	var profiles []TokenProfile
	if err := c.get(ctx, "/token-profiles/latest/v1", &profiles); err != nil {
		return nil, fmt.Errorf("fetch token profiles: %w", err)
	}
	return profiles, nil
}

// TokenPairs fetches all trading pairs for a token address and maps them
// into the domain model. A token with no pairs returns an empty slice,
// not an error.
func (c *Client) TokenPairs(ctx context.Context, tokenAddress string) ([]domain.Pair, error) {
	var resp tokenPairsResponse
	if err := c.get(ctx, "/latest/dex/tokens/"+tokenAddress, &resp); err != nil {
		return nil, fmt.Errorf("fetch pairs for %s: %w", tokenAddress, err)
	}

	pairs := make([]domain.Pair, 0, len(resp.Pairs))
	for _, p := range resp.Pairs {
		pairs = append(pairs, domain.Pair{
			ChainID:      p.ChainID,
			DexID:        p.DexID,
			PairAddress:  p.PairAddress,
			BaseSymbol:   p.BaseToken.Symbol,
			QuoteSymbol:  p.QuoteToken.Symbol,
			PriceUSD:     parseFloat(p.PriceUSD),
			LiquidityUSD: p.Liquidity.USD,
			Volume24hUSD: p.Volume.H24,
			CreatedAt:    p.PairCreatedAt,
		})
	}
	return pairs, nil
}

// FilterChains keeps only pairs on the given chains. An empty chain list
// keeps everything.
func FilterChains(pairs []domain.Pair, chains []string) []domain.Pair {
	if len(chains) == 0 {
		return pairs
	}
	allowed := make(map[string]bool, len(chains))
	for _, c := range chains {
		allowed[strings.ToLower(c)] = true
	}
	out := make([]domain.Pair, 0, len(pairs))
	for _, p := range pairs {
		if allowed[strings.ToLower(p.ChainID)] {
			out = append(out, p)
		}
	}
	return out
}

// get performs a GET request with retries and exponential backoff.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	url := c.baseURL + path

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			continue
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// parseFloat tolerates the API returning prices as strings.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// tokenPairsResponse is the raw API response for /latest/dex/tokens.
type tokenPairsResponse struct {
	Pairs []rawPair `json:"pairs"`
}

type rawPair struct {
	ChainID       string       `json:"chainId"`
	DexID         string       `json:"dexId"`
	PairAddress   string       `json:"pairAddress"`
	BaseToken     rawToken     `json:"baseToken"`
	QuoteToken    rawToken     `json:"quoteToken"`
	PriceUSD      string       `json:"priceUsd"`
	Liquidity     rawLiquidity `json:"liquidity"`
	Volume        rawVolume    `json:"volume"`
	PairCreatedAt int64        `json:"pairCreatedAt"`
}

type rawToken struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

type rawLiquidity struct {
	USD float64 `json:"usd"`
}

type rawVolume struct {
	H24 float64 `json:"h24"`
}
