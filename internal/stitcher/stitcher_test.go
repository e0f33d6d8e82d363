package stitcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/model"
)

func every(from string, n int, step time.Duration) model.Series {
	d := model.MustDate(from)
	pts := make([]model.PricePoint, n)
	for i := range pts {
		pts[i] = model.PricePoint{Date: d.Add(time.Duration(i) * step), Price: 80 + float64(i)}
	}
	return model.Series{Points: pts}
}

const day = 24 * time.Hour

func TestStitch_Bridge(t *testing.T) {
	hist := every("2024-05-01", 20, day)
	fc := every("2024-05-21", 30, day)

	got := Stitch(hist, fc)
	require.NotNil(t, got.Bridge)
	assert.Equal(t, model.MustDate("2024-05-20"), got.Bridge.From.Date)
	assert.Equal(t, model.MustDate("2024-05-21"), got.Bridge.To.Date)
	assert.Equal(t, hist.Points[19], got.Bridge.From)
	assert.Equal(t, fc.Points[0], got.Bridge.To)
	assert.Equal(t, hist.Len()+fc.Len(), got.Len())
	assert.Equal(t, 0, got.Overlap)
}

func TestStitch_EmptySideHasNoBridge(t *testing.T) {
	s := every("2024-05-01", 3, day)
	assert.Nil(t, Stitch(s, model.Series{}).Bridge)
	assert.Nil(t, Stitch(model.Series{}, s).Bridge)
	assert.Nil(t, Stitch(model.Series{}, model.Series{}).Bridge)
	assert.Equal(t, 3, Stitch(model.Series{}, s).Len())
}

func TestStitch_OverlapRetained(t *testing.T) {
	hist := every("2024-05-01", 10, day)
	fc := every("2024-05-08", 5, day)

	got := Stitch(hist, fc)
	assert.Equal(t, 3, got.Overlap)
	assert.Equal(t, 15, got.Len())
	assert.Equal(t, fc.Points, got.Forecast.Points)
}

func TestStitch_DoesNotAlias(t *testing.T) {
	hist := every("2024-05-01", 2, day)
	fc := every("2024-05-03", 2, day)
	got := Stitch(hist, fc)
	got.Historical.Points[0].Price = -1
	got.Forecast.Points[0].Price = -1
	assert.Equal(t, 80.0, hist.Points[0].Price)
	assert.Equal(t, 80.0, fc.Points[0].Price)
}

func TestCheckGranularity(t *testing.T) {
	tests := []struct {
		name    string
		hist    model.Series
		fc      model.Series
		wantErr bool
	}{
		{"daily vs daily", every("2024-01-01", 30, day), every("2024-02-01", 30, day), false},
		{"business days vs daily", every("2024-01-01", 30, day), every("2024-02-01", 30, 2*day), false},
		{"daily vs weekly", every("2024-01-01", 30, day), every("2024-02-01", 10, 7*day), true},
		{"monthly vs daily", every("2020-01-01", 12, 30*day), every("2024-02-01", 10, day), true},
		{"too short", every("2024-01-01", 1, day), every("2024-02-01", 10, 7*day), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckGranularity(tt.hist, tt.fc)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrGranularityMismatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
