package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/model"
)

func TestEvents_SortedAndCopied(t *testing.T) {
	evs := Events()
	require.Len(t, evs, 6)
	assert.True(t, sort.SliceIsSorted(evs, func(i, j int) bool { return evs[i].Date.Before(evs[j].Date) }))

	evs[0].Label = "changed"
	assert.Equal(t, "Gulf War", Events()[0].Label)
}

func TestEventsBetween(t *testing.T) {
	got := EventsBetween(model.MustDate("2008-01-01"), model.MustDate("2008-12-31"))
	require.Len(t, got, 2)
	assert.Equal(t, model.MustDate("2008-09-15"), got[0].Date)
	assert.Equal(t, "TARP approval", got[1].Label)

	assert.Len(t, EventsBetween(model.MustDate("2020-03-11"), model.MustDate("2020-03-11")), 1)
	assert.Empty(t, EventsBetween(model.MustDate("1950-01-01"), model.MustDate("1960-01-01")))
}

func TestEventsByCategory(t *testing.T) {
	for _, e := range EventsByCategory(model.CategoryDecline) {
		assert.Equal(t, model.CategoryDecline, e.Category)
	}
	assert.Len(t, EventsByCategory(model.CategoryRally), 3)
	assert.Len(t, EventsByCategory(model.CategoryDecline), 3)
}

func TestLookupWindow(t *testing.T) {
	w, ok := LookupWindow("vaccine")
	require.True(t, ok)
	assert.Equal(t, model.MustDate("2020-01-01"), w.Start)
	assert.Equal(t, model.MustDate("2021-12-31"), w.End)
	require.Len(t, w.Events, 2)
	assert.Equal(t, model.MustDate("2020-12-14"), w.Events[1].Date)

	for _, name := range []string{"covid", "lehman", "tarp", "crisis2008"} {
		w, ok := LookupWindow(name)
		require.True(t, ok, name)
		assert.False(t, w.Start.After(w.End), name)
		for _, e := range w.Events {
			assert.False(t, e.Date.Before(w.Start) || e.Date.After(w.End), "%s: %s outside window", name, e.Label)
		}
	}

	_, ok = LookupWindow("nope")
	assert.False(t, ok)
}

func TestPandemicPeriods(t *testing.T) {
	p := PandemicPeriods()
	require.Len(t, p, 3)
	assert.Equal(t, model.MustDate("2020-01-01"), p[1].Start)
	assert.Equal(t, model.MustDate("2020-12-31"), p[1].End)
	assert.Contains(t, p[0].Label, "2019")
}

func TestLookupGeo(t *testing.T) {
	assert.Equal(t, []string{GeoProducers, GeoExporters, GeoConsumers}, GeoNames())

	tests := []struct {
		name  string
		year  int
		first string
		last  string
	}{
		{GeoProducers, 2020, "USA", "KWT"},
		{GeoExporters, 2018, "SAU", "AGO"},
		{GeoConsumers, 2019, "USA", "DEU"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := LookupGeo(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.year, g.Year)
			require.Len(t, g.Rows, 10)
			assert.Equal(t, tt.first, g.Rows[0].Code)
			assert.Equal(t, tt.last, g.Rows[9].Code)
			assert.True(t, sort.SliceIsSorted(g.Rows, func(i, j int) bool { return g.Rows[i].Value > g.Rows[j].Value }))
		})
	}

	g, _ := LookupGeo(GeoProducers)
	g.Rows[0].Value = -1
	again, _ := LookupGeo(GeoProducers)
	assert.Equal(t, 11.307, again.Rows[0].Value)

	_, ok := LookupGeo("importers")
	assert.False(t, ok)
}
