// Package calculator computes rolling statistics over price series. Every
// function is pure: inputs are never modified and outputs are aligned with
// the input dates.
package calculator

import (
	"errors"
	"fmt"

	"OilLens/internal/model"
)

var (
	ErrInvalidWindow = errors.New("invalid window")
	ErrEmptySeries   = errors.New("empty series")
)

// SMA computes the simple moving average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be positive", ErrInvalidWindow)
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// MovingAverage returns the trailing mean over window points. The first
// window-1 entries are undefined.
func MovingAverage(s model.Series, window int) (model.RollingStat, error) {
	if window <= 0 {
		return model.RollingStat{}, fmt.Errorf("%w: moving average window %d", ErrInvalidWindow, window)
	}
	out := newStat(s, fmt.Sprintf("ma%d", window), window)
	prices := s.Prices()
	for i := window - 1; i < len(prices); i++ {
		out.Points[i].Value = meanOf(prices[i-window+1 : i+1])
		out.Points[i].Defined = true
	}
	return out, nil
}

// MovingAverages computes one moving average per window, in the given order.
func MovingAverages(s model.Series, windows ...int) ([]model.RollingStat, error) {
	out := make([]model.RollingStat, 0, len(windows))
	for _, w := range windows {
		ma, err := MovingAverage(s, w)
		if err != nil {
			return nil, err
		}
		out = append(out, ma)
	}
	return out, nil
}

// ExpandingMean returns the mean of all points up to and including each date.
func ExpandingMean(s model.Series) model.RollingStat {
	out := newStat(s, "expanding_mean", 0)
	sum := 0.0
	for i, p := range s.Points {
		sum += p.Price
		out.Points[i].Value = sum / float64(i+1)
		out.Points[i].Defined = true
	}
	return out
}

// ConstantMean broadcasts the whole-series mean to every date.
func ConstantMean(s model.Series) model.RollingStat {
	out := newStat(s, "mean", 0)
	if s.Empty() {
		return out
	}
	mean := meanOf(s.Prices())
	for i := range out.Points {
		out.Points[i].Value = mean
		out.Points[i].Defined = true
	}
	return out
}

func newStat(s model.Series, name string, window int) model.RollingStat {
	pts := make([]model.StatPoint, len(s.Points))
	for i, p := range s.Points {
		pts[i].Date = p.Date
	}
	return model.RollingStat{Name: name, Window: window, Points: pts}
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
