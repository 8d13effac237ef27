// Package yahoo implements the upstream market-data BarSource against a
// Yahoo-Finance-style chart API: one GET per (symbol, interval, range)
// returning parallel timestamp/quote arrays.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"QuantPro/internal/domain/models"
	domrepo "QuantPro/internal/domain/repository"
	"QuantPro/internal/service/ratelimit"
	applogger "QuantPro/pkg/logger"
)

const limiterKey = "upstream"

// Client fetches raw bar tables over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.Limiter
	log     *applogger.Logger

	rateCapacity float64
	rateRefill   float64
}

// Option configures Client.
type Option func(*Client)

// WithRateLimit sets the token-bucket parameters for upstream calls.
func WithRateLimit(capacity, refillPerSec float64) Option {
	return func(c *Client) {
		c.rateCapacity = capacity
		c.rateRefill = refillPerSec
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates an upstream chart client.
func New(baseURL string, timeout time.Duration, log *applogger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		http:         &http.Client{Timeout: timeout},
		limiter:      ratelimit.New(),
		log:          log,
		rateCapacity: 10,
		rateRefill:   2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- wire format ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// Quote arrays use pointers: the provider emits null for halted rows.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// Fetch requests one symbol spelling and returns its provider-shaped table.
// Unknown symbols map to models.ErrSymbolNotFound, network/5xx/throttling
// to models.ErrUpstream, and undecodable payloads to
// models.ErrMalformedPayload.
func (c *Client) Fetch(ctx context.Context, symbol string, interval domrepo.Interval, lookback domrepo.Lookback) (*models.RawTable, error) {
	if !c.limiter.Allow(limiterKey, c.rateCapacity, c.rateRefill) {
		return nil, fmt.Errorf("%w: rate limited", models.ErrUpstream)
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, symbol, wireInterval(interval), wireRange(lookback))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", models.ErrUpstream, err)
	}
	req.Header.Set("User-Agent", "quantpro/1.0")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.log.Debug("upstream fetch",
		applogger.String("symbol", symbol),
		applogger.Int("status", resp.StatusCode),
		applogger.Duration("latency_ms", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", models.ErrSymbolNotFound, symbol)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", models.ErrUpstream, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", models.ErrMalformedPayload, resp.StatusCode)
	}

	var cr chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", models.ErrMalformedPayload, err)
	}

	if cr.Chart.Error != nil {
		if cr.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", models.ErrSymbolNotFound, symbol)
		}
		return nil, fmt.Errorf("%w: %s: %s", models.ErrMalformedPayload, cr.Chart.Error.Code, cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrSymbolNotFound, symbol)
	}

	return toRawTable(symbol, &cr.Chart.Result[0])
}

// toRawTable converts parallel quote arrays into a provider-shaped table.
// Columns keep the ticker nesting level the provider implies; the
// normalizer is responsible for flattening it. Rows with a missing OHLC
// value (trading halts) are dropped.
func toRawTable(symbol string, r *chartResult) (*models.RawTable, error) {
	if len(r.Timestamp) == 0 {
		return &models.RawTable{}, nil
	}
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: missing quote arrays", models.ErrMalformedPayload)
	}
	q := r.Indicators.Quote[0]
	n := len(r.Timestamp)
	if len(q.Open) != n || len(q.High) != n || len(q.Low) != n || len(q.Close) != n {
		return nil, fmt.Errorf("%w: ragged quote arrays", models.ErrMalformedPayload)
	}

	t := &models.RawTable{
		Index: make([]string, 0, n),
		Columns: []models.RawColumn{
			{Field: models.FieldOpen, Ticker: symbol, Values: make([]float64, 0, n)},
			{Field: models.FieldHigh, Ticker: symbol, Values: make([]float64, 0, n)},
			{Field: models.FieldLow, Ticker: symbol, Values: make([]float64, 0, n)},
			{Field: models.FieldClose, Ticker: symbol, Values: make([]float64, 0, n)},
			{Field: models.FieldVolume, Ticker: symbol, Values: make([]float64, 0, n)},
		},
	}

	for i := 0; i < n; i++ {
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}
		vol := 0.0
		if i < len(q.Volume) && q.Volume[i] != nil {
			vol = *q.Volume[i]
		}
		t.Index = append(t.Index, strconv.FormatInt(r.Timestamp[i], 10))
		t.Columns[0].Values = append(t.Columns[0].Values, *q.Open[i])
		t.Columns[1].Values = append(t.Columns[1].Values, *q.High[i])
		t.Columns[2].Values = append(t.Columns[2].Values, *q.Low[i])
		t.Columns[3].Values = append(t.Columns[3].Values, *q.Close[i])
		t.Columns[4].Values = append(t.Columns[4].Values, vol)
	}

	return t, nil
}

func wireInterval(iv domrepo.Interval) string {
	// The chart API spells hourly bars "60m".
	if iv == domrepo.IV1Hour {
		return "60m"
	}
	return string(iv)
}

func wireRange(lb domrepo.Lookback) string {
	if lb.Max() {
		return "max"
	}
	return fmt.Sprintf("%dd", lb.Days)
}
