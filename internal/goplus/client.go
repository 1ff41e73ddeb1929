// Package goplus fetches token security reports from the GoPlus Labs
// token_security API and maps them into security profiles.
//
// GoPlus encodes booleans as the strings "0" and "1" and taxes as
// fractional strings ("0.05" means a 5% tax). Absent or malformed
// fields map to nil pointers in the profile so callers can tell
// "known safe" apart from "unknown".
package goplus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"rugscreen/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.gopluslabs.io/api/v1"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 10 * time.Second

	// The free tier allows roughly 30 calls a minute.
	DefaultRateLimit = rate.Limit(0.5)
	DefaultBurst     = 1
)

// chainNumericIDs maps DexScreener chain names to GoPlus numeric chain IDs.
var chainNumericIDs = map[string]string{
	"bsc":      "56",
	"ethereum": "1",
	"base":     "8453",
	"arbitrum": "42161",
	"optimism": "10",
	"polygon":  "137",
}

// ErrUnsupportedChain is returned for chains GoPlus does not cover.
var ErrUnsupportedChain = fmt.Errorf("goplus: unsupported chain")

// Client talks to the GoPlus token_security API.
type Client struct {
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithRateLimit overrides the request rate limit.
func WithRateLimit(limit rate.Limit, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
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

// NewClient creates a new GoPlus API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(DefaultRateLimit, DefaultBurst),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenSecurity fetches the security report for a token. A report GoPlus
// has not indexed yet returns an empty profile with every safety field
// nil, which downstream filtering treats as PENDING.
func (c *Client) TokenSecurity(ctx context.Context, chain, tokenAddress string) (domain.SecurityProfile, error) {
	chainID, ok := chainNumericIDs[strings.ToLower(chain)]
	if !ok {
		return domain.SecurityProfile{}, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.SecurityProfile{}, err
	}

	url := fmt.Sprintf("%s/token_security/%s?contract_addresses=%s", c.baseURL, chainID, tokenAddress)

	var resp securityResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return domain.SecurityProfile{}, fmt.Errorf("token security for %s: %w", tokenAddress, err)
	}

	// The result map is keyed by lowercase contract address.
	raw, ok := resp.Result[strings.ToLower(tokenAddress)]
	if !ok {
		return domain.SecurityProfile{FetchedAt: time.Now().UnixMilli()}, nil
	}

	return mapProfile(raw), nil
}

func mapProfile(raw rawSecurity) domain.SecurityProfile {
	profile := domain.SecurityProfile{
		IsHoneypot: parseBoolFlag(raw.IsHoneypot),
		IsMintable: parseBoolFlag(raw.IsMintable),
		BuyTaxPct:  parseTaxPct(raw.BuyTax),
		SellTaxPct: parseTaxPct(raw.SellTax),
		IsProxy:    parseBoolFlag(raw.IsProxy),
		FetchedAt:  time.Now().UnixMilli(),
	}

	// Ownership is renounced when the owner is the zero address or empty.
	if raw.OwnerAddress != nil {
		renounced := isNullAddress(*raw.OwnerAddress)
		profile.OwnerRenounced = &renounced
	}

	if raw.HolderCount != nil {
		if n, err := strconv.Atoi(*raw.HolderCount); err == nil {
			profile.HolderCount = &n
		}
	}

	if len(raw.Holders) > 0 {
		if pct, err := strconv.ParseFloat(raw.Holders[0].Percent, 64); err == nil {
			top := pct * 100
			profile.TopHolderPct = &top
		}
	}

	// LP locked percent: sum of lp_holders entries that are locked or
	// burned, as a fraction of LP supply.
	var locked float64
	for _, h := range raw.LPHolders {
		pct, err := strconv.ParseFloat(h.Percent, 64)
		if err != nil {
			continue
		}
		if h.IsLocked == 1 || isNullAddress(h.Address) {
			locked += pct
		}
	}
	profile.LPLockedPct = locked * 100
	if profile.LPLockedPct > 100 {
		profile.LPLockedPct = 100
	}

	return profile
}

// get performs a GET request with retries and exponential backoff.
func (c *Client) get(ctx context.Context, url string, result interface{}) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
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

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			lastErr = fmt.Errorf("upstream throttled (%d)", resp.StatusCode)
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

// parseBoolFlag maps GoPlus "0"/"1" strings to booleans, anything else to nil.
func parseBoolFlag(s *string) *bool {
	if s == nil {
		return nil
	}
	switch *s {
	case "0":
		v := false
		return &v
	case "1":
		v := true
		return &v
	}
	return nil
}

// parseTaxPct converts a fractional tax string ("0.05") to a percentage (5.0).
func parseTaxPct(s *string) *float64 {
	if s == nil || *s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil
	}
	pct := f * 100
	return &pct
}

func isNullAddress(addr string) bool {
	a := strings.ToLower(addr)
	return a == "" ||
		a == "0x0000000000000000000000000000000000000000" ||
		strings.HasSuffix(a, "dead")
}

// securityResponse is the raw API envelope.
type securityResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Result  map[string]rawSecurity `json:"result"`
}

type rawSecurity struct {
	IsHoneypot   *string     `json:"is_honeypot"`
	IsMintable   *string     `json:"is_mintable"`
	IsProxy      *string     `json:"is_proxy"`
	BuyTax       *string     `json:"buy_tax"`
	SellTax      *string     `json:"sell_tax"`
	OwnerAddress *string     `json:"owner_address"`
	HolderCount  *string     `json:"holder_count"`
	Holders      []rawHolder `json:"holders"`
	LPHolders    []rawHolder `json:"lp_holders"`
}

type rawHolder struct {
	Address  string `json:"address"`
	Percent  string `json:"percent"`
	IsLocked int    `json:"is_locked"`
}
