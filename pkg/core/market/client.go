// Package market fetches current quotes for a ticker from the Yahoo Finance chart API.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fcf_analysis/pkg/core/retry"

	"github.com/guregu/null/v6"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	DefaultTimeout = 15 * time.Second
	userAgent      = "Mozilla/5.0"
)

// Quote is a point-in-time market snapshot. Fields the source did not provide
// stay null.
type Quote struct {
	Ticker        string      `json:"ticker"`
	Name          null.String `json:"name"`
	Currency      null.String `json:"currency"`
	Price         null.Float  `json:"price"`
	PreviousClose null.Float  `json:"previous_close"`
	MarketTime    null.Time   `json:"market_time"`
}

// HasPrice reports whether the quote carries a usable price.
func (q Quote) HasPrice() bool { return q.Price.Valid && q.Price.Float64 > 0 }

// StatusError is a non-200 reply from the quote service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("yahoo: status %d: %s", e.Code, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   retry.Policy  `yaml:"retry"`
}

// Client fetches quotes with retries on transient failures.
type Client struct {
	baseURL string
	http    *http.Client
	policy  retry.Policy
	logger  zerolog.Logger
}

// NewClient builds a client; zero options take the defaults.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultPolicy()
	}
	opts.Retry.Retryable = IsTransient

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		policy:  opts.Retry,
		logger:  logger.With().Str("component", "market").Logger(),
	}
}

// IsTransient reports whether a fetch error may succeed on retry: transport
// failures, 429 and 5xx replies.
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return !errors.Is(err, context.Canceled)
}

// chartResponse is the subset of the v8 chart reply that is read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				Currency           string   `json:"currency"`
				LongName           string   `json:"longName"`
				ShortName          string   `json:"shortName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
				RegularMarketTime  int64    `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuote returns the latest quote for ticker.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Quote{}, errors.New("market: empty ticker")
	}

	q, err := retry.Do(ctx, c.policy, func(ctx context.Context) (Quote, error) {
		q, err := c.fetchOnce(ctx, ticker)
		if err != nil {
			c.logger.Debug().Err(err).Str("ticker", ticker).Msg("quote attempt failed")
		}
		return q, err
	})
	if err != nil {
		return Quote{}, fmt.Errorf("fetch quote %s: %w", ticker, err)
	}
	return q, nil
}

// QuoteOrFallback never fails: on error it logs and returns a quote with null
// price fields.
func (c *Client) QuoteOrFallback(ctx context.Context, ticker string) Quote {
	q, err := c.FetchQuote(ctx, ticker)
	if err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("market data unavailable, continuing without price")
		return Quote{Ticker: strings.ToUpper(strings.TrimSpace(ticker))}
	}
	return q
}

func (c *Client) fetchOnce(ctx context.Context, ticker string) (Quote, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Quote{}, retry.Permanent(err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Quote{}, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return Quote{}, retry.Permanent(fmt.Errorf("yahoo decode: %w", err))
	}
	if chart.Chart.Error != nil {
		return Quote{}, retry.Permanent(fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 {
		return Quote{}, retry.Permanent(errors.New("yahoo: no data returned"))
	}

	meta := chart.Chart.Result[0].Meta
	q := Quote{
		Ticker:        ticker,
		Name:          null.NewString(firstNonEmpty(meta.LongName, meta.ShortName), meta.LongName != "" || meta.ShortName != ""),
		Currency:      null.NewString(meta.Currency, meta.Currency != ""),
		Price:         null.FloatFromPtr(meta.RegularMarketPrice),
		PreviousClose: null.FloatFromPtr(meta.ChartPreviousClose),
	}
	if meta.RegularMarketTime > 0 {
		q.MarketTime = null.TimeFrom(time.Unix(meta.RegularMarketTime, 0).UTC())
	}
	return normalizeAgorot(q), nil
}

// normalizeAgorot converts Tel Aviv quotes in agorot (ILA) to shekels.
func normalizeAgorot(q Quote) Quote {
	if !q.Currency.Valid || !strings.EqualFold(q.Currency.String, "ILA") {
		return q
	}
	q.Currency = null.StringFrom("ILS")
	if q.Price.Valid {
		q.Price = null.FloatFrom(q.Price.Float64 / 100)
	}
	if q.PreviousClose.Valid {
		q.PreviousClose = null.FloatFrom(q.PreviousClose.Float64 / 100)
	}
	return q
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
