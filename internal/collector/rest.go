package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"OilLens/internal/model"
)

// RESTQuoteFetcher reads quotes from a JSON quote endpoint of the form
// GET {base}/api/v1/quote?symbol=... returning {"price": n}.
type RESTQuoteFetcher struct {
	BaseURL string
	APIKey  string
	Symbol  string
	Client  *http.Client
}

// NewRESTQuoteFetcher creates a new fetcher with optional proxy support.
func NewRESTQuoteFetcher(baseURL, apiKey, symbol, proxyURL string) *RESTQuoteFetcher {
	return &RESTQuoteFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Symbol:  symbol,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTQuoteFetcher) Name() string { return "rest" }

func (f *RESTQuoteFetcher) FetchQuote(ctx context.Context) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(f.Symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Quote{}, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.Quote{}, fmt.Errorf("fetch quote: status %d, body: %s", resp.StatusCode, string(body))
	}
	var result struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	return model.Quote{
		Source:    f.Name(),
		Symbol:    f.Symbol,
		Display:   fmt.Sprintf("%.2f USD", result.Price),
		Price:     result.Price,
		FetchedAt: time.Now(),
	}, nil
}
