// Package render prints dashboard views as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"OilLens/internal/calculator"
	"OilLens/internal/dashboard"
	"OilLens/internal/model"
)

// Options controls terminal output.
type Options struct {
	UseColors bool
	MaxRows   int // 0 prints every row; otherwise the most recent MaxRows
}

type palette struct {
	title, warn, decline, rally, forecast func(...any) string
}

func newPalette(useColors bool) palette {
	if !useColors {
		return palette{fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint}
	}
	return palette{
		title:    color.New(color.Bold).SprintFunc(),
		warn:     color.New(color.FgYellow).SprintFunc(),
		decline:  color.New(color.FgRed).SprintFunc(),
		rally:    color.New(color.FgGreen).SprintFunc(),
		forecast: color.New(color.FgCyan).SprintFunc(),
	}
}

func (p palette) event(e model.Event) string {
	if e.Category == model.CategoryRally {
		return p.rally(e.Label)
	}
	return p.decline(e.Label)
}

// WriteView writes v to w with a heading, its primary table, the events in
// range and any warnings.
func WriteView(w io.Writer, v *dashboard.View, opts Options) error {
	p := newPalette(opts.UseColors)

	heading := v.Title
	if v.Start != nil && v.End != nil {
		heading += fmt.Sprintf(" (%s → %s)", v.Start.Format(model.DateLayout), v.End.Format(model.DateLayout))
	}
	if _, err := fmt.Fprintln(w, p.title(heading)); err != nil {
		return err
	}

	var err error
	switch {
	case v.Geo != nil:
		err = writeGeo(w, *v.Geo)
	case v.Groups != nil:
		err = writeGroups(w, v.Groups)
	case v.Stitched != nil:
		err = writeStitched(w, v.Stitched, opts, p)
	case v.Summary != nil:
		err = writeSummary(w, *v.Summary)
	case v.Command == dashboard.CmdEvents:
		err = writeEvents(w, v.Events, p)
	case len(v.Stats) > 0:
		err = writeStats(w, v.Series, v.Stats, opts)
	default:
		err = writeSeries(w, v.Series, opts)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", v.Command, err)
	}

	if v.Command != dashboard.CmdEvents && len(v.Events) > 0 {
		if _, err := fmt.Fprintln(w, "Events:"); err != nil {
			return err
		}
		for _, e := range v.Events {
			if _, err := fmt.Fprintf(w, "  %s  %s\n", e.Date.Format(model.DateLayout), p.event(e)); err != nil {
				return err
			}
		}
	}
	for _, msg := range v.Warnings {
		if _, err := fmt.Fprintln(w, p.warn("warning: "+msg)); err != nil {
			return err
		}
	}
	return nil
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func flush(table *tablewriter.Table, data [][]string) error {
	defer func() { _ = table.Close() }()
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// tail returns the offset of the first row to print.
func tail(w io.Writer, n int, opts Options) (int, error) {
	if opts.MaxRows <= 0 || n <= opts.MaxRows {
		return 0, nil
	}
	if _, err := fmt.Fprintf(w, "Showing last %d of %d rows\n", opts.MaxRows, n); err != nil {
		return 0, err
	}
	return n - opts.MaxRows, nil
}

func price(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func writeSeries(w io.Writer, s model.Series, opts Options) error {
	from, err := tail(w, s.Len(), opts)
	if err != nil {
		return err
	}
	data := make([][]string, 0, s.Len()-from)
	for _, pt := range s.Points[from:] {
		data = append(data, []string{pt.Date.Format(model.DateLayout), price(pt.Price)})
	}
	return flush(newTable(w, []string{"Date", "Price"}), data)
}

func writeStats(w io.Writer, s model.Series, stats []model.RollingStat, opts Options) error {
	for _, st := range stats {
		if len(st.Points) != s.Len() {
			return fmt.Errorf("%s has %d points for %d prices", st.Name, len(st.Points), s.Len())
		}
	}
	headers := []string{"Date", "Price"}
	for _, st := range stats {
		headers = append(headers, strings.ToUpper(st.Name))
	}

	from, err := tail(w, s.Len(), opts)
	if err != nil {
		return err
	}
	data := make([][]string, 0, s.Len()-from)
	for i := from; i < s.Len(); i++ {
		row := []string{s.Points[i].Date.Format(model.DateLayout), price(s.Points[i].Price)}
		for _, st := range stats {
			row = append(row, statValue(st.Name, st.Points[i]))
		}
		data = append(data, row)
	}
	return flush(newTable(w, headers), data)
}

func statValue(name string, p model.StatPoint) string {
	if !p.Defined {
		return "-"
	}
	if strings.HasPrefix(name, "volatility") {
		return strconv.FormatFloat(p.Value*100, 'f', 2, 64) + "%"
	}
	return price(p.Value)
}

func writeSummary(w io.Writer, s model.Summary) error {
	data := [][]string{
		{"count", strconv.Itoa(s.Count)},
		{"mean", price(s.Mean)},
		{"median", price(s.Median)},
		{"std", price(s.Std)},
		{"min", price(s.Min)},
		{"max", price(s.Max)},
	}
	return flush(newTable(w, []string{"Metric", "Value"}), data)
}

func writeGroups(w io.Writer, groups []model.ComparisonGroup) error {
	data := make([][]string, 0, len(groups))
	for _, g := range groups {
		sum, err := calculator.SummarizeValues(g.Values)
		if err != nil {
			data = append(data, []string{g.Label, "0", "-", "-", "-", "-"})
			continue
		}
		data = append(data, []string{g.Label, strconv.Itoa(sum.Count),
			price(sum.Min), price(sum.Median), price(sum.Mean), price(sum.Max)})
	}
	return flush(newTable(w, []string{"Period", "N", "Min", "Median", "Mean", "Max"}), data)
}

func writeStitched(w io.Writer, st *model.StitchedSeries, opts Options, p palette) error {
	n := st.Len()
	from, err := tail(w, n, opts)
	if err != nil {
		return err
	}
	data := make([][]string, 0, n-from)
	for i, pt := range st.Historical.Points {
		if i >= from {
			data = append(data, []string{pt.Date.Format(model.DateLayout), price(pt.Price), "history"})
		}
	}
	for i, pt := range st.Forecast.Points {
		if st.Historical.Len()+i >= from {
			data = append(data, []string{pt.Date.Format(model.DateLayout), price(pt.Price), p.forecast("forecast")})
		}
	}
	return flush(newTable(w, []string{"Date", "Price", "Segment"}), data)
}

func writeEvents(w io.Writer, events []model.Event, p palette) error {
	data := make([][]string, 0, len(events))
	for _, e := range events {
		data = append(data, []string{e.Date.Format(model.DateLayout), string(e.Category), p.event(e)})
	}
	return flush(newTable(w, []string{"Date", "Category", "Event"}), data)
}

func writeGeo(w io.Writer, g model.GeoTable) error {
	data := make([][]string, 0, len(g.Rows))
	for i, r := range g.Rows {
		data = append(data, []string{strconv.Itoa(i + 1), r.Country, r.Code, strconv.FormatFloat(r.Value, 'f', 3, 64)})
	}
	return flush(newTable(w, []string{"#", "Country", "Code", g.Unit}), data)
}
