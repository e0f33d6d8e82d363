// Package export writes derived series as flat tables for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"OilLens/internal/model"
)

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes s as a date,price table that the loader reads back
// unchanged with its default column mapping.
func WriteCSV(w io.Writer, s model.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "price"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range s.Points {
		if err := cw.Write([]string{p.Date.Format(model.DateLayout), formatPrice(p.Price)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// StatOptions controls WriteStatCSV.
type StatOptions struct {
	// DropUndefined skips rows where any statistic is undefined.
	DropUndefined bool
}

// WriteStatCSV writes s alongside statistics aligned with it. Undefined
// cells are left empty.
func WriteStatCSV(w io.Writer, s model.Series, stats []model.RollingStat, opts StatOptions) error {
	header := []string{"date", "price"}
	for _, st := range stats {
		if len(st.Points) != s.Len() {
			return fmt.Errorf("stat %s has %d points, series has %d", st.Name, len(st.Points), s.Len())
		}
		header = append(header, st.Name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(header))
rows:
	for i, p := range s.Points {
		row[0] = p.Date.Format(model.DateLayout)
		row[1] = formatPrice(p.Price)
		for j, st := range stats {
			sp := st.Points[i]
			if !sp.Defined {
				if opts.DropUndefined {
					continue rows
				}
				row[j+2] = ""
				continue
			}
			row[j+2] = formatPrice(sp.Value)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGroupsCSV writes comparison groups in long form: one period,price
// row per value.
func WriteGroupsCSV(w io.Writer, groups []model.ComparisonGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "price"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, g := range groups {
		for _, v := range g.Values {
			if err := cw.Write([]string{g.Label, formatPrice(v)}); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEventsCSV writes date,label,category,color rows.
func WriteEventsCSV(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "label", "category", "color"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range events {
		if err := cw.Write([]string{e.Date.Format(model.DateLayout), e.Label, string(e.Category), e.Color}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one metric,value row per summary field.
func WriteSummaryCSV(w io.Writer, s model.Summary) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"metric", "value"},
		{"count", strconv.Itoa(s.Count)},
		{"min", formatPrice(s.Min)},
		{"max", formatPrice(s.Max)},
		{"mean", formatPrice(s.Mean)},
		{"median", formatPrice(s.Median)},
		{"std", formatPrice(s.Std)},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteGeoCSV writes rank,country,code,value rows of one geo table.
func WriteGeoCSV(w io.Writer, g model.GeoTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "country", "code", "value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range g.Rows {
		if err := cw.Write([]string{strconv.Itoa(i + 1), r.Country, r.Code, formatPrice(r.Value)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
