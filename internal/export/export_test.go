package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/calculator"
	"OilLens/internal/loader"
	"OilLens/internal/model"
)

func sample() model.Series {
	start := model.MustDate("2020-02-27")
	prices := []float64{51.17, 0.1 + 0.2, 1e-7, 123456.789012345, 0, 49.99}
	pts := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
	}
	return model.Series{Name: "sample", Points: pts}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	s := sample()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))

	got, report, err := loader.LoadReader(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Dropped())
	require.Equal(t, s.Len(), got.Len())
	for i := range s.Points {
		assert.Equal(t, s.Points[i].Date, got.Points[i].Date)
		assert.InDelta(t, s.Points[i].Price, got.Points[i].Price, 1e-9)
	}
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, model.Series{}))
	assert.Equal(t, "date,price\n", buf.String())
}

func TestWriteStatCSV(t *testing.T) {
	s := sample()
	ma, err := calculator.MovingAverage(s, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteStatCSV(&buf, s, []model.RollingStat{ma}, StatOptions{}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, s.Len()+1)
	assert.Equal(t, "date,price,ma3", lines[0])
	assert.Equal(t, "2020-02-27,51.17,", lines[1])

	buf.Reset()
	require.NoError(t, WriteStatCSV(&buf, s, []model.RollingStat{ma}, StatOptions{DropUndefined: true}))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, s.Len()-2+1)
	assert.True(t, strings.HasPrefix(lines[1], "2020-02-29,"))
}

func TestWriteStatCSV_Misaligned(t *testing.T) {
	s := sample()
	stat := model.RollingStat{Name: "short", Points: make([]model.StatPoint, 2)}
	assert.Error(t, WriteStatCSV(&bytes.Buffer{}, s, []model.RollingStat{stat}, StatOptions{}))
}

func TestWriteGroupsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGroupsCSV(&buf, []model.ComparisonGroup{
		{Label: "2019", Values: []float64{1, 2}},
		{Label: "empty"},
		{Label: "2021", Values: []float64{3.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "period,price\n2019,1\n2019,2\n2021,3.5\n", buf.String())
}

func TestParquet_RoundTrip(t *testing.T) {
	s := sample()
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(&buf, s))
	assert.Greater(t, buf.Len(), 0)

	got, err := ReadParquet(bytes.NewReader(buf.Bytes()), "sample")
	require.NoError(t, err)
	require.Equal(t, s.Len(), got.Len())
	for i := range s.Points {
		assert.True(t, s.Points[i].Date.Equal(got.Points[i].Date))
		assert.Equal(t, s.Points[i].Price, got.Points[i].Price)
	}
}

func TestWriteEventsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEventsCSV(&buf, []model.Event{
		{Date: model.MustDate("2008-09-15"), Label: "Lehman, bankruptcy", Category: model.CategoryDecline, Color: "orange"},
	}))
	assert.Equal(t, "date,label,category,color\n2008-09-15,\"Lehman, bankruptcy\",decline,orange\n", buf.String())
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, model.Summary{Count: 2, Min: 1, Max: 3, Mean: 2, Median: 2, Std: 1.4142}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "count,2", lines[1])
	assert.Equal(t, "std,1.4142", lines[6])
}

func TestWriteGeoCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoCSV(&buf, model.GeoTable{Rows: []model.CountryFigure{
		{Country: "Saudi Arabia", Code: "SAU", Value: 10.6},
		{Country: "Korea, South", Code: "KOR", Value: 2.76},
	}}))
	assert.Equal(t, "rank,country,code,value\n1,Saudi Arabia,SAU,10.6\n2,\"Korea, South\",KOR,2.76\n", buf.String())
}
