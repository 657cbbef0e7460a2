// Package currencyfreaks fetches live USD->UZS quotes from the CurrencyFreaks API.
package currencyfreaks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/middleware"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the latest-rates endpoint.
const DefaultBaseURL = "https://api.currencyfreaks.com/v2.0/rates/latest"

// DefaultTimeout bounds a single quote request.
const DefaultTimeout = 10 * time.Second

const targetSymbol = "UZS"

// Client implements portssvc.RateQuoteProvider.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint, mostly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client. An empty apiKey is accepted here and reported on every fetch.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		timeout:    DefaultTimeout,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portssvc.RateQuoteProvider = (*Client)(nil)

type latestRatesResponse struct {
	Date  string            `json:"date"`
	Base  string            `json:"base"`
	Rates map[string]string `json:"rates"`
}

// FetchUSDToUZS asks the provider for the latest USD->UZS rate.
// Every failure is returned as an *apperrors.RateFetchError.
func (c *Client) FetchUSDToUZS(ctx context.Context) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if c.apiKey == "" {
		return decimal.Zero, apperrors.NewRateFetchError(0, "API key is not configured", nil)
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return decimal.Zero, apperrors.NewRateFetchError(0, "invalid base URL", err)
	}
	q := endpoint.Query()
	q.Set("apikey", c.apiKey)
	q.Set("symbols", targetSymbol)
	endpoint.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return decimal.Zero, apperrors.NewRateFetchError(0, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Rate provider request failed", slog.String("error", err.Error()))
		return decimal.Zero, apperrors.NewRateFetchError(0, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return decimal.Zero, apperrors.NewRateFetchError(resp.StatusCode, "invalid API key", nil)
	case resp.StatusCode == http.StatusForbidden:
		return decimal.Zero, apperrors.NewRateFetchError(resp.StatusCode, "plan or usage limit restriction", nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Warn("Rate provider returned an error status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return decimal.Zero, apperrors.NewRateFetchError(resp.StatusCode, "unexpected response status", nil)
	}

	var payload latestRatesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return decimal.Zero, apperrors.NewRateFetchError(resp.StatusCode, "malformed response body", err)
	}

	raw, ok := payload.Rates[targetSymbol]
	if !ok || raw == "" {
		return decimal.Zero, apperrors.NewRateFetchError(resp.StatusCode, fmt.Sprintf("%s rate missing from response", targetSymbol), nil)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewRateFetchError(resp.StatusCode, fmt.Sprintf("unparseable %s rate %q", targetSymbol, raw), err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, apperrors.NewRateFetchError(resp.StatusCode, fmt.Sprintf("non-positive %s rate %s", targetSymbol, raw), nil)
	}

	logger.Info("Fetched live exchange rate", slog.String("rate", rate.String()), slog.String("date", payload.Date))
	return rate, nil
}
