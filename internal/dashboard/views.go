package dashboard

import (
	"fmt"
	"io"
	"log"
	"time"

	"OilLens/internal/calculator"
	"OilLens/internal/catalog"
	"OilLens/internal/comparator"
	"OilLens/internal/export"
	"OilLens/internal/model"
	"OilLens/internal/stitcher"
	"OilLens/internal/window"
)

// View is the computed result of one Request. Stats are aligned with Series.
type View struct {
	Command  Command                 `json:"command"`
	Title    string                  `json:"title"`
	Version  uint64                  `json:"version"`
	Start    *time.Time              `json:"start,omitempty"`
	End      *time.Time              `json:"end,omitempty"`
	Series   model.Series            `json:"series"`
	Stats    []model.RollingStat     `json:"stats,omitempty"`
	Summary  *model.Summary          `json:"summary,omitempty"`
	Groups   []model.ComparisonGroup `json:"groups,omitempty"`
	Stitched *model.StitchedSeries   `json:"stitched,omitempty"`
	Events   []model.Event           `json:"events,omitempty"`
	Geo      *model.GeoTable         `json:"geo,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
}

// Points counts the data points the view carries.
func (v *View) Points() int {
	n := v.Series.Len()
	for _, g := range v.Groups {
		n += len(g.Values)
	}
	if v.Stitched != nil {
		n += v.Stitched.Len()
	}
	if v.Geo != nil {
		n += len(v.Geo.Rows)
	}
	return n
}

// WriteCSV writes the view's primary table.
func (v *View) WriteCSV(w io.Writer) error {
	switch {
	case v.Geo != nil:
		return export.WriteGeoCSV(w, *v.Geo)
	case v.Groups != nil:
		return export.WriteGroupsCSV(w, v.Groups)
	case v.Stitched != nil:
		return export.WriteCSV(w, v.stitchedSeries())
	case v.Summary != nil:
		return export.WriteSummaryCSV(w, *v.Summary)
	case v.Command == CmdEvents:
		return export.WriteEventsCSV(w, v.Events)
	case len(v.Stats) > 0:
		return export.WriteStatCSV(w, v.Series, v.Stats, export.StatOptions{})
	default:
		return export.WriteCSV(w, v.Series)
	}
}

// WriteParquet writes the view's price series.
func (v *View) WriteParquet(w io.Writer) error {
	if v.Stitched != nil {
		return export.WriteParquet(w, v.stitchedSeries())
	}
	if v.Groups != nil || v.Command == CmdEvents || v.Summary != nil || v.Geo != nil {
		return fmt.Errorf("%w: %s has no price series for parquet", ErrInvalidParam, v.Command)
	}
	return export.WriteParquet(w, v.Series)
}

func (v *View) stitchedSeries() model.Series {
	st := v.Stitched
	pts := make([]model.PricePoint, 0, st.Len())
	pts = append(pts, st.Historical.Points...)
	pts = append(pts, st.Forecast.Points...)
	return model.Series{Name: "stitched", Points: pts}
}

func build(snap *Snapshot, req Request) (*View, error) {
	v := &View{Command: req.Command, Version: snap.Version}
	full := snap.Series

	switch req.Command {
	case CmdRaw:
		v.Title = "Brent price history"
		v.Series = full
		v.Events = catalog.Events()

	case CmdWindow:
		start, end, err := resolve(full, req)
		if err != nil {
			return nil, err
		}
		v.Title = "Brent prices"
		v.setRange(start, end)
		v.Series = window.Filter(full, start, end)
		v.Events = catalog.EventsBetween(start, end)

	case CmdStats:
		start, end, err := resolve(full, req)
		if err != nil {
			return nil, err
		}
		v.Title = "Descriptive statistics"
		v.setRange(start, end)
		v.Series = window.Filter(full, start, end)
		if sum, err := calculator.Summarize(v.Series); err == nil {
			v.Summary = &sum
		} else {
			v.Warnings = append(v.Warnings, "no prices in range")
		}

	case CmdTrend:
		start, end, err := resolve(full, req)
		if err != nil {
			return nil, err
		}
		v.Title = "Moving averages"
		v.setRange(start, end)
		if err := trend(v, full, start, end, req.Windows); err != nil {
			return nil, err
		}

	case CmdVolatility:
		start, end, err := resolve(full, req)
		if err != nil {
			return nil, err
		}
		v.Title = fmt.Sprintf("%d-day volatility", req.VolWindow)
		v.setRange(start, end)
		if err := volatility(v, window.Filter(full, start, end), req.VolWindow); err != nil {
			return nil, err
		}

	case CmdCovid, CmdVaccine, CmdLehman, CmdTARP:
		w, _ := catalog.LookupWindow(string(req.Command))
		v.Title = w.Title
		v.setRange(w.Start, w.End)
		v.Series = window.Filter(full, w.Start, w.End)
		v.Events = w.Events

	case CmdCrisisVolatility:
		w, _ := catalog.LookupWindow("crisis2008")
		v.Title = w.Title
		v.setRange(w.Start, w.End)
		if err := volatility(v, window.Filter(full, w.Start, w.End), req.VolWindow); err != nil {
			return nil, err
		}
		v.Events = catalog.EventsBetween(w.Start, w.End)

	case CmdPandemic:
		periods := catalog.PandemicPeriods()
		v.Title = "Price distribution around COVID-19"
		v.setRange(periods[0].Start, periods[len(periods)-1].End)
		v.Groups = comparator.Compare(full, periods)
		for _, g := range v.Groups {
			if len(g.Values) == 0 {
				v.Warnings = append(v.Warnings, fmt.Sprintf("no prices for %s", g.Label))
			}
		}

	case CmdForecast:
		v.Title = "History and forecast"
		hist := full
		if !req.Start.IsZero() || !req.End.IsZero() {
			start, end, err := resolve(full, req)
			if err != nil {
				return nil, err
			}
			v.setRange(start, end)
			hist = window.Filter(full, start, end)
		}
		st := stitcher.Stitch(hist, snap.Forecast)
		v.Stitched = &st
		if snap.Forecast.Empty() {
			v.Warnings = append(v.Warnings, "no forecast loaded")
		}
		if err := stitcher.CheckGranularity(hist, snap.Forecast); err != nil {
			log.Printf("[WARN] forecast: %v", err)
			v.Warnings = append(v.Warnings, err.Error())
		}
		if st.Overlap > 0 {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%d forecast points overlap history", st.Overlap))
		}

	case CmdEvents:
		v.Title = "Market events"
		v.Events = catalog.Events()
		if req.Category != "" {
			v.Title = fmt.Sprintf("Market events (%s)", req.Category)
			v.Events = catalog.EventsByCategory(req.Category)
		}
		if !req.Start.IsZero() || !req.End.IsZero() {
			start, end := req.Start, req.End
			if end.IsZero() {
				end = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
			}
			v.setRange(start, end)
			v.Events = eventsWithin(v.Events, start, end)
		}

	case CmdGeo:
		g, ok := catalog.LookupGeo(req.Geo)
		if !ok {
			return nil, fmt.Errorf("%w: geo table %q", ErrInvalidParam, req.Geo)
		}
		v.Title = fmt.Sprintf("%s (%d, %s)", g.Title, g.Year, g.Unit)
		v.Geo = &g

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	}
	return v, nil
}

// resolve fills open range ends with the series edges and rejects a
// range that ends up reversed, e.g. a start after the last loaded date.
func resolve(s model.Series, req Request) (start, end time.Time, err error) {
	start, end = req.Start, req.End
	first, last, ok := window.Span(s)
	if start.IsZero() {
		start = first
	}
	if end.IsZero() {
		end = last
	}
	if ok {
		err = window.ValidateRange(start, end)
	}
	return start, end, err
}

func eventsWithin(evs []model.Event, start, end time.Time) []model.Event {
	out := make([]model.Event, 0, len(evs))
	for _, e := range evs {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out
}

func (v *View) setRange(start, end time.Time) {
	v.Start, v.End = &start, &end
}

// trend computes the moving averages over the whole history before
// slicing, so a window's first points have values when enough history
// precedes it. The expanding and overall means cover the slice only.
func trend(v *View, full model.Series, start, end time.Time, windows []int) error {
	lo, hi := window.Bounds(full, start, end)
	v.Series = window.Filter(full, start, end)

	mas, err := calculator.MovingAverages(full, windows...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	for _, ma := range mas {
		pts := make([]model.StatPoint, hi-lo)
		copy(pts, ma.Points[lo:hi])
		v.Stats = append(v.Stats, model.RollingStat{Name: ma.Name, Window: ma.Window, Points: pts})
	}
	v.Stats = append(v.Stats, calculator.ExpandingMean(v.Series), calculator.ConstantMean(v.Series))
	return nil
}

func volatility(v *View, slice model.Series, w int) error {
	vol, err := calculator.Volatility(slice, w)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	v.Series = slice
	v.Stats = []model.RollingStat{vol}
	if vol.DefinedCount() == 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("fewer than %d points in range", w+1))
	}
	return nil
}
