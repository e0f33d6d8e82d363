// Package window slices a Series to an inclusive date range.
package window

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"OilLens/internal/model"
)

// ErrInvalidRange is returned by ValidateRange when start falls after end.
var ErrInvalidRange = errors.New("invalid date range")

// ValidateRange rejects start > end. Filter assumes a validated range, so
// every caller-facing layer runs this first.
func ValidateRange(start, end time.Time) error {
	if model.Day(start).After(model.Day(end)) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	return nil
}

// Filter returns the points with start <= date <= end. Both bounds are
// compared by calendar date. The result never shares memory with s.
func Filter(s model.Series, start, end time.Time) model.Series {
	lo, hi := Bounds(s, start, end)
	pts := make([]model.PricePoint, hi-lo)
	copy(pts, s.Points[lo:hi])
	return model.Series{Name: s.Name, Points: pts}
}

// Bounds returns the half-open index range [lo, hi) of s covered by
// [start, end]. lo == hi when nothing falls in range.
func Bounds(s model.Series, start, end time.Time) (lo, hi int) {
	start, end = model.Day(start), model.Day(end)
	pts := s.Points
	lo = sort.Search(len(pts), func(i int) bool { return !pts[i].Date.Before(start) })
	hi = sort.Search(len(pts), func(i int) bool { return pts[i].Date.After(end) })
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Span returns the first and last dates of s.
func Span(s model.Series) (start, end time.Time, ok bool) {
	first, ok := s.First()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	last, _ := s.Last()
	return first.Date, last.Date, true
}
