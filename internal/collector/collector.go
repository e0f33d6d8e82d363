package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"OilLens/internal/model"
)

// MockQuoteFetcher returns a fixed quote for development and testing.
type MockQuoteFetcher struct {
	Price float64
	Err   error
}

func (m *MockQuoteFetcher) Name() string { return "mock" }

func (m *MockQuoteFetcher) FetchQuote(_ context.Context) (model.Quote, error) {
	if m.Err != nil {
		return model.Quote{}, m.Err
	}
	return model.Quote{
		Source:    m.Name(),
		Symbol:    "BZ=F",
		Display:   fmt.Sprintf("%.2f USD", m.Price),
		Price:     m.Price,
		FetchedAt: time.Now(),
	}, nil
}

// MockNewsClient returns fixed articles.
type MockNewsClient struct {
	Articles []model.Article
	Err      error
}

func (m *MockNewsClient) Name() string { return "mock" }

func (m *MockNewsClient) FetchNews(_ context.Context) ([]model.Article, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.Article, len(m.Articles))
	copy(out, m.Articles)
	return out, nil
}

// Snapshot is the result of one collection round. A failed collaborator
// leaves its field empty and its error set.
type Snapshot struct {
	Quote    *model.Quote
	Articles []model.Article
	QuoteErr error
	NewsErr  error
}

// Collector fetches the quote and the news concurrently.
type Collector struct {
	Quotes  QuoteFetcher
	News    NewsClient
	Keyword string
}

// NewCollector creates a new Collector. Either collaborator may be nil.
func NewCollector(quotes QuoteFetcher, news NewsClient, keyword string) *Collector {
	return &Collector{Quotes: quotes, News: news, Keyword: keyword}
}

// Collect runs both fetches. Collaborator failures are recorded on the
// snapshot; only a cancelled context is returned as an error.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	if c.Quotes != nil {
		g.Go(func() error {
			q, err := c.Quotes.FetchQuote(gctx)
			if err != nil {
				log.Printf("[WARN] quote fetch via %s failed: %v", c.Quotes.Name(), err)
				snap.QuoteErr = err
				return nil
			}
			snap.Quote = &q
			return nil
		})
	}
	if c.News != nil {
		g.Go(func() error {
			articles, err := c.News.FetchNews(gctx)
			if err != nil {
				log.Printf("[WARN] news fetch via %s failed: %v", c.News.Name(), err)
				snap.NewsErr = err
				return nil
			}
			snap.Articles = FilterByKeyword(articles, c.Keyword)
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	return snap, nil
}
