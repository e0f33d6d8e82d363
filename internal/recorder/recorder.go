package recorder

import (
	"time"

	"OilLens/internal/model"
)

// LoadEvent records one reload of the price source.
type LoadEvent struct {
	Version  uint64
	Report   model.LoadReport
	Forecast int // forecast points loaded
	Err      string
}

// ViewRequest records one dashboard command served.
type ViewRequest struct {
	Command  string
	Start    time.Time
	End      time.Time
	Params   string // encoded windows and other options
	Points   int
	Channel  string // "telegram", "http", "cli"
	Duration time.Duration
	Err      string
}

// Recorder persists dashboard history for analysis.
type Recorder interface {
	RecordLoad(evt *LoadEvent) error
	RecordQuote(q *model.Quote) error
	RecordView(req *ViewRequest) error
	RecentQuotes(limit int) ([]model.Quote, error)
	Close() error
}
