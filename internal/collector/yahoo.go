package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"OilLens/internal/model"
)

// DefaultYahooURL is the public chart endpoint.
const DefaultYahooURL = "https://query1.finance.yahoo.com"

// ErrNoChartData is returned when the chart API answers without bars.
var ErrNoChartData = errors.New("yahoo: no data returned")

// YahooQuoteFetcher reads Brent futures from the Yahoo Finance chart API.
type YahooQuoteFetcher struct {
	Client  *http.Client
	BaseURL string
	Symbol  string
}

// NewYahooQuoteFetcher creates a fetcher for symbol (BZ=F when empty).
func NewYahooQuoteFetcher(symbol, proxyURL string) *YahooQuoteFetcher {
	if symbol == "" {
		symbol = "BZ=F"
	}
	return &YahooQuoteFetcher{
		Client:  newHTTPClient(proxyURL),
		BaseURL: DefaultYahooURL,
		Symbol:  symbol,
	}
}

func (f *YahooQuoteFetcher) Name() string { return "yahoo" }

// chartEnvelope mirrors the parts of /v8/finance/chart the fetcher reads.
// Closes are pointers because the API emits null for empty bars.
type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Currency           string  `json:"currency"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// bars pairs timestamps with closes, skipping null and non-positive values.
func (r chartResult) bars() []model.PricePoint {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	closes := r.Indicators.Quote[0].Close
	out := make([]model.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) {
			break
		}
		if c := closes[i]; c != nil && *c > 0 {
			out = append(out, model.PricePoint{Date: time.Unix(ts, 0).UTC(), Price: *c})
		}
	}
	return out
}

func (f *YahooQuoteFetcher) chart(ctx context.Context, rng string) (chartResult, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.Symbol),
		url.Values{"interval": {"1d"}, "range": {rng}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return chartResult{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return chartResult{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return chartResult{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, snippet)
	}

	var env chartEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return chartResult{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if e := env.Chart.Error; e != nil {
		return chartResult{}, fmt.Errorf("yahoo api error %s: %s", e.Code, e.Description)
	}
	if len(env.Chart.Result) == 0 {
		return chartResult{}, ErrNoChartData
	}
	return env.Chart.Result[0], nil
}

// FetchQuote returns the regular market price, falling back to the most
// recent non-null close.
func (f *YahooQuoteFetcher) FetchQuote(ctx context.Context) (model.Quote, error) {
	res, err := f.chart(ctx, "5d")
	if err != nil {
		return model.Quote{}, err
	}
	price := res.Meta.RegularMarketPrice
	if price <= 0 {
		if bars := res.bars(); len(bars) > 0 {
			price = bars[len(bars)-1].Price
		}
	}
	if price <= 0 {
		return model.Quote{}, fmt.Errorf("yahoo: no price data for %s", f.Symbol)
	}
	currency := res.Meta.Currency
	if currency == "" {
		currency = "USD"
	}
	return model.Quote{
		Source:    f.Name(),
		Symbol:    f.Symbol,
		Display:   fmt.Sprintf("%.2f %s", price, currency),
		Price:     price,
		FetchedAt: time.Now(),
	}, nil
}

// FetchHistory returns daily closes over rng (e.g. "1mo", "10y") as a
// Series keyed by calendar date.
func (f *YahooQuoteFetcher) FetchHistory(ctx context.Context, rng string) (model.Series, error) {
	res, err := f.chart(ctx, rng)
	if err != nil {
		return model.Series{}, err
	}
	bars := res.bars()
	if len(bars) == 0 {
		return model.Series{}, ErrNoChartData
	}

	byDay := make(map[time.Time]bool, len(bars))
	pts := bars[:0]
	for _, b := range bars {
		b.Date = model.Day(b.Date)
		if byDay[b.Date] {
			continue
		}
		byDay[b.Date] = true
		pts = append(pts, b)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
	return model.Series{Name: f.Symbol, Points: pts}, nil
}
