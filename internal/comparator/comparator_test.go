package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OilLens/internal/model"
	"OilLens/internal/window"
)

func daily(from, to string) model.Series {
	start, end := model.MustDate(from), model.MustDate(to)
	var pts []model.PricePoint
	for d, i := start, 0; !d.After(end); d, i = d.AddDate(0, 0, 1), i+1 {
		pts = append(pts, model.PricePoint{Date: d, Price: float64(i)})
	}
	return model.Series{Name: "brent", Points: pts}
}

func TestCompare_PandemicYears(t *testing.T) {
	s := daily("2018-06-01", "2022-03-01")
	groups := Compare(s, Years(2019, 2021))

	require.Len(t, groups, 3)
	assert.Equal(t, "2019", groups[0].Label)
	assert.Len(t, groups[0].Values, 365)
	assert.Equal(t, "2020", groups[1].Label)
	assert.Len(t, groups[1].Values, 366)
	assert.Len(t, groups[2].Values, 365)
}

func TestCompare_OverlapsAllowed(t *testing.T) {
	s := daily("2020-01-01", "2020-01-10")
	groups := Compare(s, []Period{
		{Label: "a", Start: model.MustDate("2020-01-01"), End: model.MustDate("2020-01-05")},
		{Label: "b", Start: model.MustDate("2020-01-03"), End: model.MustDate("2020-01-10")},
	})
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, groups[0].Values)
	assert.Equal(t, []float64{2, 3, 4, 5, 6, 7, 8, 9}, groups[1].Values)
}

func TestCompare_OutOfRangeIsEmpty(t *testing.T) {
	s := daily("2020-01-01", "2020-01-10")
	groups := Compare(s, []Period{Year(1999)})
	require.Len(t, groups, 1)
	assert.Equal(t, "1999", groups[0].Label)
	assert.Empty(t, groups[0].Values)
}

func TestCompare_NoPeriods(t *testing.T) {
	assert.Empty(t, Compare(daily("2020-01-01", "2020-01-02"), nil))
}

func TestValidatePeriods(t *testing.T) {
	assert.NoError(t, ValidatePeriods(Years(2019, 2021)))

	err := ValidatePeriods([]Period{
		Year(2019),
		{Label: "backwards", Start: model.MustDate("2021-01-01"), End: model.MustDate("2020-01-01")},
	})
	assert.ErrorIs(t, err, window.ErrInvalidRange)
	assert.Contains(t, err.Error(), "backwards")
}
