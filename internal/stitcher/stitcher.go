// Package stitcher joins a historical series with a precomputed forecast.
package stitcher

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"OilLens/internal/model"
)

// ErrGranularityMismatch is returned by CheckGranularity when the two series
// are sampled at clearly different intervals.
var ErrGranularityMismatch = errors.New("granularity mismatch")

// Stitch places forecast after historical and adds a bridge from the last
// historical point to the first forecast point when both sides have data.
// Forecast points dated on or before the last historical date are kept and
// counted in Overlap.
func Stitch(historical, forecast model.Series) model.StitchedSeries {
	out := model.StitchedSeries{
		Historical: historical.Clone(),
		Forecast:   forecast.Clone(),
	}

	last, okH := historical.Last()
	first, okF := forecast.First()
	if !okH || !okF {
		return out
	}
	out.Bridge = &model.Bridge{From: last, To: first}
	for _, p := range forecast.Points {
		if p.Date.After(last.Date) {
			break
		}
		out.Overlap++
	}
	return out
}

// Spacing returns the median interval between consecutive points.
func Spacing(s model.Series) (time.Duration, bool) {
	if s.Len() < 2 {
		return 0, false
	}
	gaps := make([]time.Duration, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		gaps[i-1] = s.Points[i].Date.Sub(s.Points[i-1].Date)
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return gaps[len(gaps)/2], true
}

// CheckGranularity compares the median spacing of both series. Spacings
// further apart than a factor of two are a mismatch; series too short to
// measure pass.
func CheckGranularity(historical, forecast model.Series) error {
	h, okH := Spacing(historical)
	f, okF := Spacing(forecast)
	if !okH || !okF {
		return nil
	}
	if h > 2*f || f > 2*h {
		return fmt.Errorf("%w: historical every %s, forecast every %s", ErrGranularityMismatch, h, f)
	}
	return nil
}
