// Package loader reads delimited Brent price tables into a clean Series.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"OilLens/internal/model"
)

// Canonical fields every source label maps onto.
const (
	FieldDate  = "date"
	FieldPrice = "price"
)

var (
	// ErrSourceUnavailable means the table could not be opened or read at all.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMissingColumn means no header label maps to a required field.
	ErrMissingColumn = fmt.Errorf("%w: missing required column", ErrSourceUnavailable)
)

// Options controls how a source table is interpreted.
type Options struct {
	Name        string            // series name; defaults to the file base name
	Columns     map[string]string // recognized source label -> canonical field
	DateLayouts []string          // tried in order
	Delimiter   rune
}

// DefaultColumns recognizes the EIA/Ipeadata export labels and the labels
// this package writes on export.
func DefaultColumns() map[string]string {
	return map[string]string{
		"Data":                                 FieldDate,
		"date":                                 FieldDate,
		"Date":                                 FieldDate,
		"ds":                                   FieldDate,
		"Preço - petróleo bruto - Brent (FOB)": FieldPrice,
		"Preco_petroleo_bruto_Brent_FOB":       FieldPrice,
		"price":                                FieldPrice,
		"Price":                                FieldPrice,
		"y":                                    FieldPrice,
	}
}

// DefaultDateLayouts lists the layouts accepted when none are configured.
func DefaultDateLayouts() []string {
	return []string{
		model.DateLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"02/01/2006",
		"2006/01/02",
	}
}

// DefaultOptions returns options for a comma-delimited table.
func DefaultOptions() *Options {
	return &Options{
		Columns:     DefaultColumns(),
		DateLayouts: DefaultDateLayouts(),
		Delimiter:   ',',
	}
}

func (o *Options) withDefaults() *Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	out.Name = o.Name
	if len(o.Columns) > 0 {
		out.Columns = o.Columns
	}
	if len(o.DateLayouts) > 0 {
		out.DateLayouts = o.DateLayouts
	}
	if o.Delimiter != 0 {
		out.Delimiter = o.Delimiter
	}
	return out
}

// Load reads the table at path.
func Load(path string, opts *Options) (model.Series, model.LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Series{}, model.LoadReport{Source: path}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	o := opts.withDefaults()
	if o.Name == "" {
		base := filepath.Base(path)
		o.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	series, report, err := LoadReader(f, o)
	report.Source = path
	return series, report, err
}

// LoadReader reads a table from r. Rows with an unparsable date or price are
// dropped and counted; only an unreadable source is an error.
func LoadReader(r io.Reader, opts *Options) (model.Series, model.LoadReport, error) {
	o := opts.withDefaults()
	var report model.LoadReport

	reader := csv.NewReader(r)
	reader.Comma = o.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return model.Series{}, report, fmt.Errorf("%w: read header: %v", ErrSourceUnavailable, err)
	}

	dateIdx, priceIdx := -1, -1
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		label := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if seen[label] {
			report.DuplicateColumns++
			continue
		}
		seen[label] = true
		switch o.Columns[label] {
		case FieldDate:
			if dateIdx == -1 {
				dateIdx = i
			}
		case FieldPrice:
			if priceIdx == -1 {
				priceIdx = i
			}
		}
	}
	if dateIdx == -1 {
		return model.Series{}, report, fmt.Errorf("%w %q", ErrMissingColumn, FieldDate)
	}
	if priceIdx == -1 {
		return model.Series{}, report, fmt.Errorf("%w %q", ErrMissingColumn, FieldPrice)
	}

	points := make([]model.PricePoint, 0, 1024)
	dates := make(map[int64]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				report.Rows++
				report.Malformed++
				continue
			}
			return model.Series{}, report, fmt.Errorf("%w: read row: %v", ErrSourceUnavailable, err)
		}
		report.Rows++

		if dateIdx >= len(record) || priceIdx >= len(record) {
			report.Malformed++
			continue
		}
		date, ok := parseDate(record[dateIdx], o.DateLayouts)
		if !ok {
			report.DroppedDate++
			continue
		}
		price, ok := parsePrice(record[priceIdx])
		if !ok {
			report.DroppedPrice++
			continue
		}
		key := date.Unix()
		if dates[key] {
			report.DroppedDuplicate++
			continue
		}
		dates[key] = true
		points = append(points, model.PricePoint{Date: date, Price: price})
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	report.Kept = len(points)

	if report.Dropped() > 0 {
		log.Printf("[INFO] loader %s: kept %d of %d rows (date=%d price=%d duplicate=%d malformed=%d)",
			o.Name, report.Kept, report.Rows, report.DroppedDate, report.DroppedPrice, report.DroppedDuplicate, report.Malformed)
	}
	return model.Series{Name: o.Name, Points: points}, report, nil
}

func parseDate(raw string, layouts []string) (time.Time, bool) {
	s := strings.TrimSpace(strings.Trim(raw, "\""))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.Day(t), true
		}
	}
	return time.Time{}, false
}

func parsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.Trim(raw, "\""))
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "-":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// localized decimal comma, e.g. "75,32"
		if strings.Count(s, ",") != 1 || strings.Contains(s, ".") {
			return 0, false
		}
		if v, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
