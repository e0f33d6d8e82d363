package model

// CountryFigure is one country's oil volume in million barrels per day.
type CountryFigure struct {
	Country string  `json:"country"`
	Code    string  `json:"code"` // ISO 3166-1 alpha-3
	Value   float64 `json:"value"`
}

// GeoTable is a ranked top-ten list for a single reference year.
type GeoTable struct {
	Name  string          `json:"name"`
	Title string          `json:"title"`
	Year  int             `json:"year"`
	Unit  string          `json:"unit"`
	Rows  []CountryFigure `json:"rows"`
}
