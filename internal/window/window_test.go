package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/model"
)

func daily(from, to string) model.Series {
	start, end := model.MustDate(from), model.MustDate(to)
	var pts []model.PricePoint
	for d, i := start, 0; !d.After(end); d, i = d.AddDate(0, 0, 1), i+1 {
		pts = append(pts, model.PricePoint{Date: d, Price: 50 + float64(i%7)})
	}
	return model.Series{Name: "brent", Points: pts}
}

func TestFilter_LeapYear(t *testing.T) {
	s := daily("2019-01-01", "2021-12-31")
	got := Filter(s, model.MustDate("2020-01-01"), model.MustDate("2020-12-31"))

	require.Equal(t, 366, got.Len())
	first, _ := got.First()
	last, _ := got.Last()
	assert.Equal(t, model.MustDate("2020-01-01"), first.Date)
	assert.Equal(t, model.MustDate("2020-12-31"), last.Date)
}

func TestFilter_InclusiveBounds(t *testing.T) {
	s := daily("2020-01-01", "2020-01-10")
	got := Filter(s, model.MustDate("2020-01-03"), model.MustDate("2020-01-03"))
	require.Equal(t, 1, got.Len())
	assert.Equal(t, model.MustDate("2020-01-03"), got.Points[0].Date)
}

func TestFilter_IgnoresClockComponent(t *testing.T) {
	s := daily("2020-01-01", "2020-01-10")
	start := time.Date(2020, 1, 2, 15, 30, 0, 0, time.UTC)
	end := time.Date(2020, 1, 4, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, Filter(s, start, end).Len())
}

func TestFilter_EmptyResult(t *testing.T) {
	s := daily("2020-01-01", "2020-01-10")
	tests := []struct {
		name       string
		start, end string
	}{
		{"before", "2019-01-01", "2019-12-31"},
		{"after", "2021-01-01", "2021-02-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(s, model.MustDate(tt.start), model.MustDate(tt.end))
			assert.True(t, got.Empty())
			assert.NotNil(t, got.Points)
		})
	}
	assert.True(t, Filter(model.Series{}, model.MustDate("2020-01-01"), model.MustDate("2020-02-01")).Empty())
}

func TestFilter_Idempotent(t *testing.T) {
	s := daily("2019-06-01", "2020-06-01")
	start, end := model.MustDate("2019-12-15"), model.MustDate("2020-02-10")
	once := Filter(s, start, end)
	twice := Filter(once, start, end)
	assert.Equal(t, once, twice)
}

func TestFilter_DoesNotAlias(t *testing.T) {
	s := daily("2020-01-01", "2020-01-05")
	got := Filter(s, model.MustDate("2020-01-01"), model.MustDate("2020-01-05"))
	got.Points[0].Price = -1
	assert.NotEqual(t, -1.0, s.Points[0].Price)
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(model.MustDate("2020-01-01"), model.MustDate("2020-01-01")))
	assert.NoError(t, ValidateRange(model.MustDate("2020-01-01"), model.MustDate("2020-02-01")))
	assert.ErrorIs(t, ValidateRange(model.MustDate("2020-02-01"), model.MustDate("2020-01-01")), ErrInvalidRange)
}

func TestSpan(t *testing.T) {
	_, _, ok := Span(model.Series{})
	assert.False(t, ok)

	start, end, ok := Span(daily("2020-01-01", "2020-03-01"))
	require.True(t, ok)
	assert.Equal(t, model.MustDate("2020-01-01"), start)
	assert.Equal(t, model.MustDate("2020-03-01"), end)
}
