package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/model"
)

const chartJSON = `{"chart":{"result":[{"meta":{"currency":"USD","regularMarketPrice":%s},
"timestamp":[1716163200,1716249600,1716336000],
"indicators":{"quote":[{"close":[82.1,null,83.4]}]}}],"error":null}}`

func newYahoo(t *testing.T, body string, status int) *YahooQuoteFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BZ=F", r.URL.Path)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	f := NewYahooQuoteFetcher("", "")
	f.BaseURL = srv.URL
	return f
}

func TestYahoo_FetchQuote(t *testing.T) {
	f := newYahoo(t, fmt.Sprintf(chartJSON, "84.05"), http.StatusOK)
	q, err := f.FetchQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 84.05, q.Price)
	assert.Equal(t, "84.05 USD", q.Display)
	assert.Equal(t, "BZ=F", q.Symbol)
	assert.Equal(t, "yahoo", q.Source)
}

func TestYahoo_FetchQuoteFallsBackToClose(t *testing.T) {
	f := newYahoo(t, fmt.Sprintf(chartJSON, "0"), http.StatusOK)
	q, err := f.FetchQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 83.4, q.Price)
}

func TestYahoo_FetchHistorySkipsNullBars(t *testing.T) {
	f := newYahoo(t, fmt.Sprintf(chartJSON, "84.05"), http.StatusOK)
	s, err := f.FetchHistory(context.Background(), "5d")
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, model.MustDate("2024-05-20"), s.Points[0].Date)
	assert.Equal(t, model.MustDate("2024-05-22"), s.Points[1].Date)
}

func TestYahoo_Errors(t *testing.T) {
	_, err := newYahoo(t, "boom", http.StatusInternalServerError).FetchQuote(context.Background())
	assert.ErrorContains(t, err, "status 500")

	_, err = newYahoo(t, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, http.StatusOK).
		FetchQuote(context.Background())
	assert.ErrorContains(t, err, "No data found")
}

func TestREST_FetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/quote", r.URL.Path)
		assert.Equal(t, "BRENT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"price": 79.5}`)
	}))
	defer srv.Close()

	q, err := NewRESTQuoteFetcher(srv.URL, "secret", "BRENT", "").FetchQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 79.5, q.Price)
	assert.Equal(t, "rest", q.Source)
}

func TestREST_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()
	_, err := NewRESTQuoteFetcher(srv.URL, "", "BRENT", "").FetchQuote(context.Background())
	assert.ErrorContains(t, err, "status 401")
}

func TestScrape_FetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div class="quote"><span class="price"> US$ 82,45 </span></div></body></html>`)
	}))
	defer srv.Close()

	q, err := NewScrapeQuoteFetcher(srv.URL, ".quote .price", "").FetchQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "US$ 82,45", q.Display)
	assert.InDelta(t, 82.45, q.Price, 1e-12)

	_, err = NewScrapeQuoteFetcher(srv.URL, "#missing", "").FetchQuote(context.Background())
	assert.ErrorContains(t, err, "matched no text")
}

func TestParseDisplayPrice(t *testing.T) {
	tests := map[string]float64{
		"82.45 USD":     82.45,
		"US$ 82,45":     82.45,
		"1,234.50":      1234.5,
		"no number":     0,
		"Brent 80 (+1)": 80,
	}
	for in, want := range tests {
		assert.InDelta(t, want, parseDisplayPrice(in), 1e-12, in)
	}
}

func TestNewsAPI_FetchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "petróleo", r.URL.Query().Get("q"))
		assert.Equal(t, "pt", r.URL.Query().Get("language"))
		assert.Equal(t, "k", r.URL.Query().Get("apiKey"))
		fmt.Fprint(w, `{"status":"ok","articles":[{"source":{"name":"Valor"},"title":"Petróleo sobe",
"description":"Brent avança","url":"https://example.com/a","publishedAt":"2024-05-20T10:00:00Z"}]}`)
	}))
	defer srv.Close()

	c := NewNewsAPIClient("k", "petróleo", "pt", "")
	c.BaseURL = srv.URL
	articles, err := c.FetchNews(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Valor", articles[0].SourceName)
	assert.Equal(t, "https://example.com/a", articles[0].URL)
	assert.Equal(t, time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC), articles[0].PublishedAt.UTC())
}

func TestNewsAPI_NonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`)
	}))
	defer srv.Close()

	c := NewNewsAPIClient("bad", "oil", "", "")
	c.BaseURL = srv.URL
	_, err := c.FetchNews(context.Background())
	assert.ErrorContains(t, err, "API key is invalid")
}

const rssXML = `<?xml version="1.0"?><rss version="2.0"><channel><title>Energia</title>
<item><title>Older</title><link>https://example.com/1</link><description>&lt;p&gt;Petróleo &lt;b&gt;cai&lt;/b&gt;&lt;/p&gt;</description><pubDate>Mon, 20 May 2024 10:00:00 GMT</pubDate></item>
<item><title>Newer</title><link>https://example.com/2</link><description>Gás natural</description><pubDate>Tue, 21 May 2024 10:00:00 GMT</pubDate></item>
</channel></rss>`

func TestRSS_FetchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssXML)
	}))
	defer srv.Close()

	c := NewRSSNewsClient([]Feed{{Name: "broken", URL: srv.URL + "/broken"}, {URL: srv.URL + "/feed"}}, 0, "")
	articles, err := c.FetchNews(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Newer", articles[0].Title)
	assert.Equal(t, "Petróleo cai", articles[1].Description)
	assert.Equal(t, "Energia", articles[1].SourceName)

	all := NewRSSNewsClient([]Feed{{Name: "broken", URL: srv.URL + "/broken"}}, 0, "")
	_, err = all.FetchNews(context.Background())
	assert.Error(t, err)
}

func TestFilterByKeyword(t *testing.T) {
	articles := []model.Article{
		{Title: "PETRÓLEO dispara"},
		{Title: "Bolsa", Description: "preço do petróleo"},
		{Title: "Café"},
	}
	assert.Len(t, FilterByKeyword(articles, "petróleo"), 2)
	assert.Len(t, FilterByKeyword(articles, ""), 3)
	assert.Empty(t, FilterByKeyword(articles, "ouro"))
}

func TestCollector_Collect(t *testing.T) {
	c := NewCollector(
		&MockQuoteFetcher{Price: 81.2},
		&MockNewsClient{Articles: []model.Article{{Title: "petróleo sobe"}, {Title: "dólar cai"}}},
		"petróleo",
	)
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap.Quote)
	assert.Equal(t, 81.2, snap.Quote.Price)
	assert.Len(t, snap.Articles, 1)
	assert.NoError(t, snap.QuoteErr)
}

func TestCollector_PartialFailure(t *testing.T) {
	c := NewCollector(&MockQuoteFetcher{Err: errors.New("down")}, &MockNewsClient{}, "")
	snap, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Quote)
	assert.EqualError(t, snap.QuoteErr, "down")
	assert.NoError(t, snap.NewsErr)
}

func TestCollector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCollector(&MockQuoteFetcher{}, nil, "").Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
