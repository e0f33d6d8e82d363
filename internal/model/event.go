package model

import "time"

// EventCategory groups events by their effect on the price.
type EventCategory string

const (
	CategoryDecline EventCategory = "decline"
	CategoryRally   EventCategory = "rally"
)

// Event is a hand-curated annotation displayed against the price line.
type Event struct {
	Date     time.Time     `json:"date"`
	Label    string        `json:"label"`
	Category EventCategory `json:"category"`
	Color    string        `json:"color"`
}

// Quote is the current price as reported by an external source. Display is
// shown verbatim; Price is zero when the source only yields text.
type Quote struct {
	Source    string    `json:"source"`
	Symbol    string    `json:"symbol"`
	Display   string    `json:"display"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Article is one news record from the news collaborator.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SourceName  string    `json:"source_name"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// LoadReport describes what the loader kept and dropped.
type LoadReport struct {
	Source           string `json:"source"`
	Rows             int    `json:"rows"`
	Kept             int    `json:"kept"`
	DroppedDate      int    `json:"dropped_date"`
	DroppedPrice     int    `json:"dropped_price"`
	DroppedDuplicate int    `json:"dropped_duplicate"`
	Malformed        int    `json:"malformed"`
	DuplicateColumns int    `json:"duplicate_columns"`
}

// Dropped is the total number of discarded rows.
func (r LoadReport) Dropped() int {
	return r.DroppedDate + r.DroppedPrice + r.DroppedDuplicate + r.Malformed
}
