// Package dashboard dispatches view commands against an immutable snapshot
// of the loaded price and forecast series.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"OilLens/internal/catalog"
	"OilLens/internal/collector"
	"OilLens/internal/loader"
	"OilLens/internal/model"
	"OilLens/internal/recorder"
)

var (
	// ErrUnknownCommand is returned for a command name outside Commands().
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotLoaded is returned by Run before the first successful Reload.
	ErrNotLoaded = errors.New("price series not loaded")
	// ErrInvalidParam covers malformed request parameters.
	ErrInvalidParam = errors.New("invalid parameter")
	// ErrNoCollaborator is returned when no quote or news source is configured.
	ErrNoCollaborator = errors.New("collaborator not configured")
)

// Snapshot is one published generation of loaded data. It is never
// modified after publication.
type Snapshot struct {
	Version  uint64
	Series   model.Series
	Forecast model.Series
	Report   model.LoadReport
	LoadedAt time.Time
}

// Options configures a Service.
type Options struct {
	SourcePath   string
	ForecastPath string
	Loader       *loader.Options
	MAWindows    []int
	VolWindow    int
	NewsKeyword  string
	CacheTTL     time.Duration
	CacheSize    int // memoized views kept per service
}

// Service serves views from the current snapshot.
type Service struct {
	opts     Options
	snap     atomic.Pointer[Snapshot]
	version  atomic.Uint64
	reloadMu sync.Mutex
	memo     *Cache[string, *View]

	quotes collector.QuoteFetcher
	news   collector.NewsClient
	rec    recorder.Recorder
}

// New creates a Service. quotes and news may be nil; rec nil means no-op.
func New(opts Options, quotes collector.QuoteFetcher, news collector.NewsClient, rec recorder.Recorder) *Service {
	if len(opts.MAWindows) == 0 {
		opts.MAWindows = []int{30}
	}
	if opts.VolWindow == 0 {
		opts.VolWindow = 30
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.CacheSize == 0 {
		opts.CacheSize = 256
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{
		opts:   opts,
		memo:   NewCache[string, *View](opts.CacheTTL, opts.CacheSize),
		quotes: quotes,
		news:   news,
		rec:    rec,
	}
}

// Close stops the memo sweep.
func (s *Service) Close() {
	s.memo.Close()
}

// Reload reads the source and forecast tables and publishes them. On
// failure the previous snapshot stays in place.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, report, err := loader.Load(s.opts.SourcePath, s.opts.Loader)
	if err != nil {
		s.recordLoad(&recorder.LoadEvent{Version: s.version.Load(), Report: report, Err: err.Error()})
		return nil, fmt.Errorf("load source: %w", err)
	}

	var forecast model.Series
	if s.opts.ForecastPath != "" {
		forecast, _, err = loader.Load(s.opts.ForecastPath, forecastOptions(s.opts.Loader))
		if err != nil {
			s.recordLoad(&recorder.LoadEvent{Version: s.version.Load(), Report: report, Err: err.Error()})
			return nil, fmt.Errorf("load forecast: %w", err)
		}
	}

	snap := s.Publish(series, forecast, report)
	s.recordLoad(&recorder.LoadEvent{Version: snap.Version, Report: report, Forecast: forecast.Len()})
	log.Printf("[INFO] snapshot v%d published: %d points, %d forecast points", snap.Version, series.Len(), forecast.Len())
	return snap, nil
}

// forecastOptions keeps the configured delimiter and date layouts for the
// forecast table. Configured column labels are added to the defaults so
// the ds,y layout stays readable.
func forecastOptions(o *loader.Options) *loader.Options {
	if o == nil {
		return nil
	}
	cols := loader.DefaultColumns()
	for label, field := range o.Columns {
		cols[label] = field
	}
	return &loader.Options{
		Columns:     cols,
		DateLayouts: o.DateLayouts,
		Delimiter:   o.Delimiter,
	}
}

// Publish installs series and forecast as a new snapshot.
func (s *Service) Publish(series, forecast model.Series, report model.LoadReport) *Snapshot {
	snap := &Snapshot{
		Version:  s.version.Add(1),
		Series:   series,
		Forecast: forecast,
		Report:   report,
		LoadedAt: time.Now(),
	}
	s.snap.Store(snap)
	s.memo.Purge()
	return snap
}

// Snapshot returns the current snapshot, nil before the first load.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

func (s *Service) recordLoad(evt *recorder.LoadEvent) {
	if err := s.rec.RecordLoad(evt); err != nil {
		log.Printf("[ERROR] record load: %v", err)
	}
}

// Run validates req and returns its view. Views are memoized per snapshot
// version and must be treated as read-only.
func (s *Service) Run(req Request) (*View, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}

	req = s.normalize(req)
	key := req.key(snap.Version)
	if v, ok := s.memo.Get(key); ok {
		return v, nil
	}

	v, err := build(snap, req)
	if err != nil {
		return nil, err
	}
	s.memo.Set(key, v)
	return v, nil
}

// Serve runs req and records it under channel.
func (s *Service) Serve(req Request, channel string) (*View, error) {
	began := time.Now()
	v, err := s.Run(req)

	evt := &recorder.ViewRequest{
		Command:  string(req.Command),
		Start:    req.Start,
		End:      req.End,
		Params:   params(req),
		Channel:  channel,
		Duration: time.Since(began),
	}
	if err != nil {
		evt.Err = err.Error()
	} else {
		evt.Points = v.Points()
	}
	if rerr := s.rec.RecordView(evt); rerr != nil {
		log.Printf("[ERROR] record view: %v", rerr)
	}
	return v, err
}

func params(req Request) string {
	out := fmt.Sprintf("windows=%v vol_window=%d", req.Windows, req.VolWindow)
	if req.Geo != "" {
		out += " geo=" + req.Geo
	}
	if req.Category != "" {
		out += " category=" + string(req.Category)
	}
	return out
}

func (s *Service) normalize(req Request) Request {
	usesMA := req.Command == CmdTrend
	usesVol := req.Command == CmdVolatility || req.Command == CmdCrisisVolatility
	if usesMA && len(req.Windows) == 0 {
		req.Windows = append([]int(nil), s.opts.MAWindows...)
	}
	if !usesMA {
		req.Windows = nil
	}
	if usesVol && req.VolWindow == 0 {
		req.VolWindow = s.opts.VolWindow
	}
	if !usesVol {
		req.VolWindow = 0
	}
	if req.Command == CmdGeo && req.Geo == "" {
		req.Geo = catalog.GeoProducers
	}
	if req.Command != CmdGeo {
		req.Geo = ""
	}
	if req.Command != CmdEvents {
		req.Category = ""
	}
	if !req.Start.IsZero() {
		req.Start = model.Day(req.Start)
	}
	if !req.End.IsZero() {
		req.End = model.Day(req.End)
	}
	return req
}

// Quote fetches and records the current price.
func (s *Service) Quote(ctx context.Context) (model.Quote, error) {
	if s.quotes == nil {
		return model.Quote{}, fmt.Errorf("quote: %w", ErrNoCollaborator)
	}
	q, err := s.quotes.FetchQuote(ctx)
	if err != nil {
		return model.Quote{}, fmt.Errorf("quote via %s: %w", s.quotes.Name(), err)
	}
	s.RecordQuote(&q)
	return q, nil
}

// RecordQuote persists a quote obtained elsewhere.
func (s *Service) RecordQuote(q *model.Quote) {
	if err := s.rec.RecordQuote(q); err != nil {
		log.Printf("[ERROR] record quote: %v", err)
	}
}

// QuoteHistory returns recorded quotes, newest first.
func (s *Service) QuoteHistory(limit int) ([]model.Quote, error) {
	return s.rec.RecentQuotes(limit)
}

// News fetches articles matching the configured keyword.
func (s *Service) News(ctx context.Context) ([]model.Article, error) {
	if s.news == nil {
		return nil, fmt.Errorf("news: %w", ErrNoCollaborator)
	}
	articles, err := s.news.FetchNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("news via %s: %w", s.news.Name(), err)
	}
	return collector.FilterByKeyword(articles, s.opts.NewsKeyword), nil
}
