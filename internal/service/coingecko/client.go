package coingecko

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"TargetCast/internal/domain/models"
	drepo "TargetCast/internal/domain/repository"
	xhttp "TargetCast/pkg/http"
	"TargetCast/pkg/logger"
	xutil "TargetCast/pkg/util"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Option configures Client.
type Option func(*Client)

// Client implements PriceProvider against the CoinGecko market_chart endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	vsCurrency string
	timeout    time.Duration
	http       *xhttp.Client
	log        *logger.Logger
}

// New creates a CoinGecko price provider.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		vsCurrency: "usd",
		timeout:    15 * time.Second,
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithAPIKey sends key as the demo API key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithVsCurrency sets the quote currency.
func WithVsCurrency(cur string) Option {
	return func(c *Client) {
		if cur != "" {
			c.vsCurrency = cur
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *xhttp.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

type marketChart struct {
	Prices [][]float64 `json:"prices"`
}

// FetchHistory returns daily closing prices for coinID over the last days days,
// oldest first.
func (c *Client) FetchHistory(ctx context.Context, coinID string, days int) ([]models.PriceSample, error) {
	id := xutil.CanonicalCoinID(coinID)
	if id == "" {
		return nil, models.InvalidInput("coin_id is required")
	}
	if days < 1 {
		return nil, models.InvalidInput("days must be positive, got %d", days)
	}

	opts := &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, url.PathEscape(id)),
		QueryParams: map[string][]string{
			"vs_currency": {c.vsCurrency},
			"days":        {strconv.Itoa(days)},
			"interval":    {"daily"},
		},
	}
	if c.apiKey != "" {
		opts.Headers = map[string]string{"x-cg-demo-api-key": c.apiKey}
	}

	var chart marketChart
	if err := c.http.SendAndParse(ctx, opts, &chart); err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			c.log.Warn("coingecko: non-2xx response",
				logger.String("coin_id", id),
				logger.Int("status", se.StatusCode),
			)
			return nil, models.DataProviderFailure(nil, "API request failed with status code: %d", se.StatusCode)
		}
		c.log.Error("coingecko: request failed", logger.String("coin_id", id), logger.Error(err))
		return nil, models.DataProviderFailure(err, "Error fetching data from CoinGecko")
	}

	if len(chart.Prices) == 0 {
		return nil, models.DataProviderFailure(nil, "No price data received from API")
	}

	samples := make([]models.PriceSample, 0, len(chart.Prices))
	for i, p := range chart.Prices {
		if len(p) < 2 {
			return nil, models.DataProviderFailure(nil, "Error processing API response: price entry %d has %d fields", i, len(p))
		}
		if !(p[1] > 0) || math.IsInf(p[1], 0) {
			return nil, models.DataProviderFailure(nil, "Error processing API response: price entry %d is %g", i, p[1])
		}
		samples = append(samples, models.PriceSample{Time: xutil.FromUnixMillis(p[0]), Price: p[1]})
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Time.Before(samples[j].Time) })

	c.log.Debug("coingecko: fetched history",
		logger.String("coin_id", id),
		logger.Int("days", days),
		logger.Int("samples", len(samples)),
	)
	return samples, nil
}

var _ drepo.PriceProvider = (*Client)(nil)
