// Package catalog holds the curated market events and the fixed analysis
// windows the dashboard annotates them on.
package catalog

import (
	"fmt"
	"time"

	"OilLens/internal/comparator"
	"OilLens/internal/model"
)

var events = []model.Event{
	{Date: model.MustDate("1990-08-02"), Label: "Gulf War", Category: model.CategoryRally, Color: "red"},
	{Date: model.MustDate("2008-09-15"), Label: "Subprime crisis / Lehman Brothers bankruptcy", Category: model.CategoryDecline, Color: "orange"},
	{Date: model.MustDate("2008-10-03"), Label: "TARP approval", Category: model.CategoryDecline, Color: "green"},
	{Date: model.MustDate("2010-12-17"), Label: "Arab Spring", Category: model.CategoryRally, Color: "green"},
	{Date: model.MustDate("2020-03-11"), Label: "COVID-19 pandemic declared", Category: model.CategoryDecline, Color: "purple"},
	{Date: model.MustDate("2020-12-14"), Label: "Vaccination start", Category: model.CategoryRally, Color: "green"},
}

// Events returns the catalog in date order. The slice is a copy.
func Events() []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)
	return out
}

// EventsBetween returns the events dated within [start, end].
func EventsBetween(start, end time.Time) []model.Event {
	start, end = model.Day(start), model.Day(end)
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// EventsByCategory returns the events of one category.
func EventsByCategory(c model.EventCategory) []model.Event {
	var out []model.Event
	for _, e := range events {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Window is a fixed analysis range with the events it highlights.
type Window struct {
	Name   string
	Title  string
	Start  time.Time
	End    time.Time
	Events []model.Event
}

func eventOn(date string) model.Event {
	d := model.MustDate(date)
	for _, e := range events {
		if e.Date.Equal(d) {
			return e
		}
	}
	panic(fmt.Sprintf("catalog: no event on %s", date))
}

var windows = map[string]Window{
	"covid": {
		Name:   "covid",
		Title:  "COVID-19 impact on Brent (2019-2021)",
		Start:  model.MustDate("2019-01-01"),
		End:    model.MustDate("2021-12-31"),
		Events: []model.Event{eventOn("2020-03-11")},
	},
	"vaccine": {
		Name:   "vaccine",
		Title:  "Vaccines during the pandemic (2020-2021)",
		Start:  model.MustDate("2020-01-01"),
		End:    model.MustDate("2021-12-31"),
		Events: []model.Event{eventOn("2020-03-11"), eventOn("2020-12-14")},
	},
	"lehman": {
		Name:   "lehman",
		Title:  "Lehman Brothers bankruptcy (2007-2009)",
		Start:  model.MustDate("2007-01-01"),
		End:    model.MustDate("2009-12-31"),
		Events: []model.Event{eventOn("2008-09-15")},
	},
	"tarp": {
		Name:   "tarp",
		Title:  "TARP approval (2007-2009)",
		Start:  model.MustDate("2007-01-01"),
		End:    model.MustDate("2009-12-31"),
		Events: []model.Event{eventOn("2008-10-03")},
	},
	"crisis2008": {
		Name:  "crisis2008",
		Title: "Brent volatility (2007-2009)",
		Start: model.MustDate("2007-01-01"),
		End:   model.MustDate("2009-12-31"),
	},
}

// LookupWindow returns the named window.
func LookupWindow(name string) (Window, bool) {
	w, ok := windows[name]
	if ok {
		w.Events = append([]model.Event(nil), w.Events...)
	}
	return w, ok
}

// PandemicPeriods splits the pandemic years into before, during and after.
func PandemicPeriods() []comparator.Period {
	periods := comparator.Years(2019, 2021)
	periods[0].Label = "2019 (pre-COVID)"
	periods[1].Label = "2020 (COVID)"
	periods[2].Label = "2021 (post-COVID)"
	return periods
}
