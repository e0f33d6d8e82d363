// Package comparator partitions a series into labelled comparison periods.
package comparator

import (
	"fmt"
	"time"

	"OilLens/internal/model"
	"OilLens/internal/window"
)

// Period is a labelled inclusive date range.
type Period struct {
	Label string
	Start time.Time
	End   time.Time
}

// Year returns the calendar-year period labelled with the year itself.
func Year(y int) Period {
	return Period{
		Label: fmt.Sprintf("%d", y),
		Start: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Years returns one period per calendar year from first through last.
func Years(first, last int) []Period {
	out := make([]Period, 0, last-first+1)
	for y := first; y <= last; y++ {
		out = append(out, Year(y))
	}
	return out
}

// ValidatePeriods checks every period's range.
func ValidatePeriods(periods []Period) error {
	for _, p := range periods {
		if err := window.ValidateRange(p.Start, p.End); err != nil {
			return fmt.Errorf("period %q: %w", p.Label, err)
		}
	}
	return nil
}

// Compare filters s once per period and returns the groups in period order.
// Periods may overlap; a period with no data yields an empty group.
func Compare(s model.Series, periods []Period) []model.ComparisonGroup {
	groups := make([]model.ComparisonGroup, len(periods))
	for i, p := range periods {
		groups[i] = model.ComparisonGroup{
			Label:  p.Label,
			Values: window.Filter(s, p.Start, p.End).Prices(),
		}
	}
	return groups
}
