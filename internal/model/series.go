package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the canonical textual form of a series date.
const DateLayout = "2006-01-02"

// PricePoint is a single dated Brent price in USD.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// MarshalJSON renders the date without a clock component.
func (p PricePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string  `json:"date"`
		Price float64 `json:"price"`
	}{p.Date.Format(DateLayout), p.Price})
}

// Series is an ordered sequence of price points, strictly increasing by date.
// A Series is never mutated after construction; derivations allocate.
type Series struct {
	Name   string       `json:"name"`
	Points []PricePoint `json:"points"`
}

// Day normalizes t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MustDate parses a YYYY-MM-DD literal. It panics on malformed input and is
// meant for package-level tables of fixed dates.
func MustDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func (s Series) Len() int    { return len(s.Points) }
func (s Series) Empty() bool { return len(s.Points) == 0 }

// First returns the earliest point.
func (s Series) First() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[0], true
}

// Last returns the latest point.
func (s Series) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Prices returns a copy of the price column.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// Clone returns a Series that shares no memory with s.
func (s Series) Clone() Series {
	pts := make([]PricePoint, len(s.Points))
	copy(pts, s.Points)
	return Series{Name: s.Name, Points: pts}
}
