package model

import (
	"encoding/json"
	"time"
)

// StatPoint is one entry of a derived statistic. Defined is false when the
// statistic has no value at Date (insufficient history, zero prior price).
type StatPoint struct {
	Date    time.Time
	Value   float64
	Defined bool
}

// MarshalJSON encodes undefined entries as null.
func (p StatPoint) MarshalJSON() ([]byte, error) {
	var v *float64
	if p.Defined {
		val := p.Value
		v = &val
	}
	return json.Marshal(struct {
		Date  string   `json:"date"`
		Value *float64 `json:"value"`
	}{p.Date.Format(DateLayout), v})
}

// RollingStat is aligned one-to-one with the dates of the series it was
// computed from.
type RollingStat struct {
	Name   string      `json:"name"`
	Window int         `json:"window,omitempty"`
	Points []StatPoint `json:"points"`
}

// DefinedCount returns how many entries carry a value.
func (r RollingStat) DefinedCount() int {
	n := 0
	for _, p := range r.Points {
		if p.Defined {
			n++
		}
	}
	return n
}

// Summary holds descriptive statistics of a price series.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
}

// ComparisonGroup carries the prices of one period, without dates.
type ComparisonGroup struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Bridge is the synthetic segment joining historical and forecast lines.
type Bridge struct {
	From PricePoint `json:"from"`
	To   PricePoint `json:"to"`
}

// StitchedSeries joins a historical series with a precomputed forecast.
// Overlap counts forecast points dated on or before the last historical date.
type StitchedSeries struct {
	Historical Series  `json:"historical"`
	Forecast   Series  `json:"forecast"`
	Bridge     *Bridge `json:"bridge,omitempty"`
	Overlap    int     `json:"overlap"`
}

// Len is the combined point count of both sides; the bridge adds none.
func (s StitchedSeries) Len() int {
	return s.Historical.Len() + s.Forecast.Len()
}
