package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"OilLens/internal/collector"
	"OilLens/internal/config"
	"OilLens/internal/dashboard"
	"OilLens/internal/loader"
	"OilLens/internal/recorder"
)

func loadConfig() (*config.Config, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newQuoteFetcher(cfg *config.Config) collector.QuoteFetcher {
	q := cfg.Quote
	switch q.Provider {
	case "rest":
		return collector.NewRESTQuoteFetcher(q.BaseURL, q.APIKey, q.Symbol, cfg.Proxy)
	case "scrape":
		return collector.NewScrapeQuoteFetcher(q.ScrapeURL, q.ScrapeSelector, cfg.Proxy)
	case "mock":
		return &collector.MockQuoteFetcher{Price: 80}
	default:
		return collector.NewYahooQuoteFetcher(q.Symbol, cfg.Proxy)
	}
}

// newNewsClient returns nil when news is disabled.
func newNewsClient(cfg *config.Config) collector.NewsClient {
	n := cfg.News
	switch strings.ToLower(n.Provider) {
	case "newsapi":
		return collector.NewNewsAPIClient(n.APIKey, n.Query, n.Language, cfg.Proxy)
	case "rss":
		feeds := make([]collector.Feed, 0, len(n.Feeds))
		for _, f := range n.Feeds {
			feeds = append(feeds, collector.Feed{Name: f.Name, URL: f.URL})
		}
		return collector.NewRSSNewsClient(feeds, n.Limit, cfg.Proxy)
	default:
		return nil
	}
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	path := cfg.Database.SQLitePath
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[WARN] create database dir failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newService(cfg *config.Config, quotes collector.QuoteFetcher, news collector.NewsClient, rec recorder.Recorder) *dashboard.Service {
	return dashboard.New(dashboard.Options{
		SourcePath:   cfg.Source.Path,
		ForecastPath: cfg.Source.ForecastPath,
		Loader: &loader.Options{
			Columns:     cfg.Source.Columns,
			DateLayouts: cfg.Source.DateLayouts,
			Delimiter:   cfg.DelimiterRune(),
		},
		MAWindows:   cfg.Analysis.MAWindows,
		VolWindow:   cfg.Analysis.VolatilityWindow,
		NewsKeyword: cfg.News.Query,
		CacheTTL:    time.Hour,
	}, quotes, news, rec)
}
