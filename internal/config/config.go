package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Source struct {
		Path         string            `yaml:"path"`
		ForecastPath string            `yaml:"forecast_path"`
		Delimiter    string            `yaml:"delimiter"`
		DateLayouts  []string          `yaml:"date_layouts"`
		Columns      map[string]string `yaml:"columns"`
	} `yaml:"source"`
	Analysis struct {
		MAWindows        []int `yaml:"ma_windows"`
		VolatilityWindow int   `yaml:"volatility_window"`
	} `yaml:"analysis"`
	Quote struct {
		Provider       string `yaml:"provider"`
		Symbol         string `yaml:"symbol"`
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		ScrapeURL      string `yaml:"scrape_url"`
		ScrapeSelector string `yaml:"scrape_selector"`
	} `yaml:"quote"`
	News struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
		Query    string `yaml:"query"`
		Language string `yaml:"language"`
		Limit    int    `yaml:"limit"`
		Feeds    []struct {
			Name string `yaml:"name"`
			URL  string `yaml:"url"`
		} `yaml:"feeds"`
	} `yaml:"news"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Schedule struct {
		ReloadCron string `yaml:"reload_cron"`
		QuoteCron  string `yaml:"quote_cron"`
		BriefCron  string `yaml:"brief_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SOURCE_PATH"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("FORECAST_PATH"); v != "" {
		cfg.Source.ForecastPath = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.News.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}

	// Defaults
	if cfg.Source.Delimiter == "" {
		cfg.Source.Delimiter = ","
	}
	if len(cfg.Analysis.MAWindows) == 0 {
		cfg.Analysis.MAWindows = []int{30}
	}
	if cfg.Analysis.VolatilityWindow == 0 {
		cfg.Analysis.VolatilityWindow = 30
	}
	if cfg.Quote.Provider == "" {
		cfg.Quote.Provider = "yahoo"
	}
	if cfg.Quote.Symbol == "" {
		cfg.Quote.Symbol = "BZ=F"
	}
	if cfg.News.Provider == "" {
		cfg.News.Provider = "none"
		if cfg.News.APIKey != "" {
			cfg.News.Provider = "newsapi"
		}
	}
	if cfg.News.Query == "" {
		cfg.News.Query = "petróleo"
	}
	if cfg.News.Language == "" {
		cfg.News.Language = "pt"
	}
	if cfg.News.Limit == 0 {
		cfg.News.Limit = 5
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Schedule.ReloadCron == "" {
		cfg.Schedule.ReloadCron = "0 0 6 * * *"
	}
	if cfg.Schedule.QuoteCron == "" {
		cfg.Schedule.QuoteCron = "0 */30 * * * *"
	}
	if cfg.Schedule.BriefCron == "" {
		cfg.Schedule.BriefCron = "0 0 18 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/oillens.db"
	}

	return cfg, nil
}

// DelimiterRune returns the configured field separator.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Source.Delimiter)
	return r
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.Source.Path == "" {
		return fmt.Errorf("source.path is required")
	}
	if utf8.RuneCountInString(c.Source.Delimiter) != 1 {
		return fmt.Errorf("source.delimiter must be a single character, got %q", c.Source.Delimiter)
	}
	for _, w := range c.Analysis.MAWindows {
		if w <= 0 {
			return fmt.Errorf("analysis.ma_windows must be positive, got %d", w)
		}
	}
	if c.Analysis.VolatilityWindow < 2 {
		return fmt.Errorf("analysis.volatility_window must be at least 2, got %d", c.Analysis.VolatilityWindow)
	}
	for label, field := range c.Source.Columns {
		if field != "date" && field != "price" {
			return fmt.Errorf("source.columns[%q]: unknown field %q", label, field)
		}
	}

	switch c.Quote.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.Quote.BaseURL == "" {
			return fmt.Errorf("quote.base_url is required for the rest provider")
		}
	case "scrape":
		if c.Quote.ScrapeURL == "" || c.Quote.ScrapeSelector == "" {
			return fmt.Errorf("quote.scrape_url and quote.scrape_selector are required for the scrape provider")
		}
	default:
		return fmt.Errorf("quote.provider %q is not one of yahoo, rest, scrape, mock", c.Quote.Provider)
	}

	switch strings.ToLower(c.News.Provider) {
	case "none":
	case "newsapi":
		if c.News.APIKey == "" {
			return fmt.Errorf("news.api_key is required for the newsapi provider")
		}
	case "rss":
		if len(c.News.Feeds) == 0 {
			return fmt.Errorf("news.feeds is required for the rss provider")
		}
	default:
		return fmt.Errorf("news.provider %q is not one of newsapi, rss, none", c.News.Provider)
	}
	return nil
}

// ValidateBot additionally checks the Telegram credentials.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
