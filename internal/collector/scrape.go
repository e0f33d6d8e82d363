package collector

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"OilLens/internal/model"
)

// ScrapeQuoteFetcher reads the quote as text from an HTML page. The text at
// Selector is returned verbatim as the display value.
type ScrapeQuoteFetcher struct {
	URL      string
	Selector string
	Client   *http.Client
}

// NewScrapeQuoteFetcher creates a scraper for pageURL.
func NewScrapeQuoteFetcher(pageURL, selector, proxyURL string) *ScrapeQuoteFetcher {
	return &ScrapeQuoteFetcher{
		URL:      pageURL,
		Selector: selector,
		Client:   newHTTPClient(proxyURL),
	}
}

func (f *ScrapeQuoteFetcher) Name() string { return "scrape" }

func (f *ScrapeQuoteFetcher) FetchQuote(ctx context.Context) (model.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return model.Quote{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "text/html")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.Quote{}, fmt.Errorf("scrape fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Quote{}, fmt.Errorf("scrape: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse quote HTML: %w", err)
	}
	text := strings.TrimSpace(doc.Find(f.Selector).First().Text())
	if text == "" {
		return model.Quote{}, fmt.Errorf("scrape: selector %q matched no text", f.Selector)
	}
	return model.Quote{
		Source:    f.Name(),
		Display:   text,
		Price:     parseDisplayPrice(text),
		FetchedAt: time.Now(),
	}, nil
}

// parseDisplayPrice extracts a number from text such as "US$ 82,45" or
// "82.45 USD". It returns 0 when none is found.
func parseDisplayPrice(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		} else if b.Len() > 0 {
			break
		}
	}
	s := b.String()
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
