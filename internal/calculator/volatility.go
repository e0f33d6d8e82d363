package calculator

import (
	"fmt"
	"math"

	"OilLens/internal/model"
)

// Returns computes simple returns (p[i]-p[i-1])/p[i-1]. The first entry and
// any entry whose prior price is zero are undefined.
func Returns(s model.Series) model.RollingStat {
	out := newStat(s, "returns", 0)
	for i := 1; i < len(s.Points); i++ {
		prev := s.Points[i-1].Price
		if prev == 0 {
			continue
		}
		out.Points[i].Value = (s.Points[i].Price - prev) / prev
		out.Points[i].Defined = true
	}
	return out
}

// Volatility is the sample standard deviation of the trailing window returns
// ending at each point. A value exists only when all window returns are
// defined, so the earliest defined index is window.
func Volatility(s model.Series, window int) (model.RollingStat, error) {
	if window < 2 {
		return model.RollingStat{}, fmt.Errorf("%w: volatility window %d, need at least 2", ErrInvalidWindow, window)
	}
	returns := Returns(s)
	out := newStat(s, fmt.Sprintf("volatility%d", window), window)

	run := 0 // consecutive defined returns ending at i
	buf := make([]float64, window)
	for i, r := range returns.Points {
		if !r.Defined {
			run = 0
			continue
		}
		run++
		if run < window {
			continue
		}
		for k := 0; k < window; k++ {
			buf[k] = returns.Points[i-window+1+k].Value
		}
		out.Points[i].Value = sampleStd(buf)
		out.Points[i].Defined = true
	}
	return out, nil
}

func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := meanOf(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
