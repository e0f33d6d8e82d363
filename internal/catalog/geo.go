package catalog

import "OilLens/internal/model"

// Geo table names.
const (
	GeoProducers = "producers"
	GeoExporters = "exporters"
	GeoConsumers = "consumers"
)

const barrelsPerDay = "million bbl/day"

var geoTables = []model.GeoTable{
	{
		Name: GeoProducers, Title: "Top oil producers", Year: 2020, Unit: barrelsPerDay,
		Rows: []model.CountryFigure{
			{Country: "United States", Code: "USA", Value: 11.307},
			{Country: "Russia", Code: "RUS", Value: 9.865},
			{Country: "Saudi Arabia", Code: "SAU", Value: 9.264},
			{Country: "Canada", Code: "CAN", Value: 4.201},
			{Country: "Iraq", Code: "IRQ", Value: 4.102},
			{Country: "China", Code: "CHN", Value: 3.888},
			{Country: "United Arab Emirates", Code: "ARE", Value: 3.138},
			{Country: "Brazil", Code: "BRA", Value: 2.939},
			{Country: "Iran", Code: "IRN", Value: 2.665},
			{Country: "Kuwait", Code: "KWT", Value: 2.625},
		},
	},
	{
		Name: GeoExporters, Title: "Top oil exporters", Year: 2018, Unit: barrelsPerDay,
		Rows: []model.CountryFigure{
			{Country: "Saudi Arabia", Code: "SAU", Value: 10.600},
			{Country: "Russia", Code: "RUS", Value: 5.225},
			{Country: "Iraq", Code: "IRQ", Value: 3.800},
			{Country: "United States", Code: "USA", Value: 3.770},
			{Country: "Canada", Code: "CAN", Value: 3.596},
			{Country: "United Arab Emirates", Code: "ARE", Value: 2.296},
			{Country: "Kuwait", Code: "KWT", Value: 2.050},
			{Country: "Nigeria", Code: "NGA", Value: 1.979},
			{Country: "Qatar", Code: "QAT", Value: 1.477},
			{Country: "Angola", Code: "AGO", Value: 1.420},
		},
	},
	{
		Name: GeoConsumers, Title: "Top oil consumers", Year: 2019, Unit: barrelsPerDay,
		Rows: []model.CountryFigure{
			{Country: "United States", Code: "USA", Value: 19.400},
			{Country: "China", Code: "CHN", Value: 14.056},
			{Country: "India", Code: "IND", Value: 5.271},
			{Country: "Japan", Code: "JPN", Value: 3.812},
			{Country: "Saudi Arabia", Code: "SAU", Value: 3.788},
			{Country: "Russia", Code: "RUS", Value: 3.317},
			{Country: "South Korea", Code: "KOR", Value: 2.760},
			{Country: "Canada", Code: "CAN", Value: 2.403},
			{Country: "Brazil", Code: "BRA", Value: 2.398},
			{Country: "Germany", Code: "DEU", Value: 2.281},
		},
	},
}

// GeoNames lists the geo tables in menu order.
func GeoNames() []string {
	out := make([]string, len(geoTables))
	for i, g := range geoTables {
		out[i] = g.Name
	}
	return out
}

// LookupGeo returns a copy of the named table.
func LookupGeo(name string) (model.GeoTable, bool) {
	for _, g := range geoTables {
		if g.Name == name {
			g.Rows = append([]model.CountryFigure(nil), g.Rows...)
			return g, true
		}
	}
	return model.GeoTable{}, false
}
