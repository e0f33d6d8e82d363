package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"OilLens/internal/model"
)

// QuoteFetcher supplies the current Brent price on demand.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context) (model.Quote, error)
	Name() string
}

// NewsClient supplies recent oil-market articles.
type NewsClient interface {
	FetchNews(ctx context.Context) ([]model.Article, error)
	Name() string
}

// newHTTPClient returns a client with the shared timeout and optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
