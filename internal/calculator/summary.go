package calculator

import (
	"math"
	"sort"

	"OilLens/internal/model"
)

// Summarize returns descriptive statistics of the prices in s.
func Summarize(s model.Series) (model.Summary, error) {
	return SummarizeValues(s.Prices())
}

// SummarizeValues is Summarize over bare prices. values is not reordered.
func SummarizeValues(values []float64) (model.Summary, error) {
	if len(values) == 0 {
		return model.Summary{}, ErrEmptySeries
	}
	prices := append([]float64(nil), values...)
	sum := model.Summary{
		Count: len(prices),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
		Mean:  meanOf(prices),
		Std:   sampleStd(prices),
	}
	for _, p := range prices {
		if p < sum.Min {
			sum.Min = p
		}
		if p > sum.Max {
			sum.Max = p
		}
	}
	sort.Float64s(prices)
	n := len(prices)
	if n%2 == 0 {
		sum.Median = (prices[n/2-1] + prices[n/2]) / 2
	} else {
		sum.Median = prices[n/2]
	}
	return sum, nil
}

// Range returns the high and low prices within s.
func Range(s model.Series) (high, low float64, err error) {
	if s.Empty() {
		return 0, 0, ErrEmptySeries
	}
	sum, _ := Summarize(s)
	return sum.Max, sum.Min, nil
}

// Position returns where current sits between low and high, clamped to [0, 1].
func Position(current, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (current - low) / (high - low)
	return math.Max(0, math.Min(1, pos))
}
