package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"OilLens/internal/model"
)

// DefaultNewsAPIURL is the NewsAPI base endpoint.
const DefaultNewsAPIURL = "https://newsapi.org"

// NewsAPIClient searches NewsAPI's /v2/everything endpoint.
type NewsAPIClient struct {
	BaseURL  string
	APIKey   string
	Query    string
	Language string
	Client   *http.Client
}

// NewNewsAPIClient creates a NewsAPI client.
func NewNewsAPIClient(apiKey, query, language, proxyURL string) *NewsAPIClient {
	return &NewsAPIClient{
		BaseURL:  DefaultNewsAPIURL,
		APIKey:   apiKey,
		Query:    query,
		Language: language,
		Client:   newHTTPClient(proxyURL),
	}
}

func (c *NewsAPIClient) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

func (c *NewsAPIClient) FetchNews(ctx context.Context) ([]model.Article, error) {
	params := url.Values{}
	params.Set("q", c.Query)
	if c.Language != "" {
		params.Set("language", c.Language)
	}
	params.Set("apiKey", c.APIKey)
	endpoint := c.BaseURL + "/v2/everything?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("newsapi read body: %w", err)
	}
	var result newsAPIResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &result) == nil && result.Message != "" {
			return nil, fmt.Errorf("newsapi: status %d: %s", resp.StatusCode, result.Message)
		}
		return nil, fmt.Errorf("newsapi: status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}

	articles := make([]model.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		articles = append(articles, model.Article{
			Title:       a.Title,
			Description: a.Description,
			SourceName:  a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}

// Feed is one RSS source.
type Feed struct {
	Name string
	URL  string
}

// RSSNewsClient merges several RSS feeds, newest first.
type RSSNewsClient struct {
	Feeds  []Feed
	Limit  int
	parser *gofeed.Parser
}

// NewRSSNewsClient creates a client over feeds. limit <= 0 keeps everything.
func NewRSSNewsClient(feeds []Feed, limit int, proxyURL string) *RSSNewsClient {
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient(proxyURL)
	return &RSSNewsClient{Feeds: feeds, Limit: limit, parser: parser}
}

func (c *RSSNewsClient) Name() string { return "rss" }

// FetchNews skips feeds that fail; it errors only when every feed fails.
func (c *RSSNewsClient) FetchNews(ctx context.Context) ([]model.Article, error) {
	var all []model.Article
	var lastErr error
	failed := 0
	for _, f := range c.Feeds {
		articles, err := c.fetchFeed(ctx, f)
		if err != nil {
			log.Printf("[WARN] rss feed %s: %v", f.Name, err)
			lastErr = err
			failed++
			continue
		}
		all = append(all, articles...)
	}
	if len(c.Feeds) > 0 && failed == len(c.Feeds) {
		return nil, fmt.Errorf("all %d feeds failed: %w", failed, lastErr)
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].PublishedAt.After(all[j].PublishedAt) })
	if c.Limit > 0 && len(all) > c.Limit {
		all = all[:c.Limit]
	}
	return all, nil
}

func (c *RSSNewsClient) fetchFeed(ctx context.Context, f Feed) ([]model.Article, error) {
	feed, err := c.parser.ParseURLWithContext(f.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", f.Name, err)
	}
	source := f.Name
	if source == "" {
		source = feed.Title
	}
	articles := make([]model.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := model.Article{
			Title:       item.Title,
			Description: cleanHTML(item.Description),
			SourceName:  source,
			URL:         item.Link,
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// FilterByKeyword keeps articles whose title or description mention kw,
// ignoring case. An empty keyword keeps everything.
func FilterByKeyword(articles []model.Article, kw string) []model.Article {
	kw = strings.ToLower(strings.TrimSpace(kw))
	if kw == "" {
		return articles
	}
	var out []model.Article
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title+" "+a.Description), kw) {
			out = append(out, a)
		}
	}
	return out
}
