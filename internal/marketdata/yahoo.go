package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stockwatch/internal/errors"
	"stockwatch/internal/models"
	"stockwatch/pkg/utils"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider fetches quotes from the Yahoo Finance chart API.
type YahooProvider struct {
	baseURL string
	client  *http.Client
	retry   utils.RetryConfig
}

// YahooConfig holds provider settings.
type YahooConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
}

// NewYahooProvider creates a Yahoo Finance backed provider.
func NewYahooProvider(cfg YahooConfig) *YahooProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	retry := utils.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}

	return &YahooProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		retry:   retry,
	}
}

// Name returns the provider name.
func (p *YahooProvider) Name() string {
	return "yahoo"
}

// chartResponse is the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetPriceInfo fetches the current price and previous close for a symbol.
// Unresolvable symbols return (nil, nil); transport failures return an error
// after bounded retries.
func (p *YahooProvider) GetPriceInfo(ctx context.Context, symbol string) (*models.PriceInfo, error) {
	if symbol == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=2d",
		p.baseURL, url.PathEscape(symbol))

	body, err := utils.RetryWithResult(ctx, p.retry, func() ([]byte, error) {
		return p.fetch(ctx, endpoint)
	})
	if err != nil {
		return nil, errors.NewQuoteError(symbol, err)
	}
	if body == nil {
		// Resolved to "symbol not found", which is not an error.
		return nil, nil
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.NewQuoteError(symbol, fmt.Errorf("decoding response: %w", err))
	}

	if resp.Chart.Error != nil || len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, nil
	}

	info := &models.PriceInfo{
		Symbol:       symbol,
		CurrentPrice: meta.RegularMarketPrice,
		Timestamp:    time.Now(),
	}

	prevClose := meta.PreviousClose
	if prevClose <= 0 {
		prevClose = meta.ChartPreviousClose
	}
	if prevClose > 0 {
		info.PreviousClose = &prevClose
	}

	return info, nil
}

// fetch performs one HTTP round trip. A 404 means the symbol does not exist;
// it is reported as a nil body so the retry loop stops immediately.
func (p *YahooProvider) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stockwatch/1.0)")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
