package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"OilLens/internal/catalog"
	"OilLens/internal/model"
	"OilLens/internal/window"
)

// Command selects one dashboard view.
type Command string

const (
	CmdRaw              Command = "raw"
	CmdWindow           Command = "window"
	CmdStats            Command = "stats"
	CmdTrend            Command = "trend"
	CmdVolatility       Command = "volatility"
	CmdCovid            Command = "covid"
	CmdVaccine          Command = "vaccine"
	CmdPandemic         Command = "pandemic"
	CmdLehman           Command = "lehman"
	CmdTARP             Command = "tarp"
	CmdCrisisVolatility Command = "crisis-volatility"
	CmdForecast         Command = "forecast"
	CmdEvents           Command = "events"
	CmdGeo              Command = "geo"
)

var commands = []struct {
	cmd  Command
	desc string
}{
	{CmdRaw, "full price history"},
	{CmdWindow, "prices between two dates"},
	{CmdStats, "descriptive statistics"},
	{CmdTrend, "moving averages with expanding and overall mean"},
	{CmdVolatility, "rolling volatility of daily returns"},
	{CmdCovid, "COVID-19 impact, 2019-2021"},
	{CmdVaccine, "vaccination during the pandemic, 2020-2021"},
	{CmdPandemic, "price distribution before, during and after COVID-19"},
	{CmdLehman, "Lehman Brothers bankruptcy, 2007-2009"},
	{CmdTARP, "TARP approval, 2007-2009"},
	{CmdCrisisVolatility, "volatility through the 2008 crisis"},
	{CmdForecast, "history joined with the precomputed forecast"},
	{CmdEvents, "annotated market events"},
	{CmdGeo, "top producers, exporters or consumers by country"},
}

// Commands lists every command in menu order.
func Commands() []Command {
	out := make([]Command, len(commands))
	for i, c := range commands {
		out[i] = c.cmd
	}
	return out
}

// Describe returns a one-line help text.
func (c Command) Describe() string {
	for _, e := range commands {
		if e.cmd == c {
			return e.desc
		}
	}
	return ""
}

// ParseCommand accepts a command name, case-insensitively and with an
// optional leading slash.
func ParseCommand(s string) (Command, error) {
	name := Command(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "/")))
	name = Command(strings.ReplaceAll(string(name), "_", "-"))
	for _, e := range commands {
		if e.cmd == name {
			return e.cmd, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Request is one view invocation. Zero Start or End extends to the series
// edge; zero Windows or VolWindow take the service defaults. Geo picks the
// geo table and Category narrows the events list.
type Request struct {
	Command   Command
	Start     time.Time
	End       time.Time
	Windows   []int
	VolWindow int
	Geo       string
	Category  model.EventCategory
}

// Validate rejects unknown commands and reversed ranges.
func (r Request) Validate() error {
	if r.Command.Describe() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, r.Command)
	}
	if !r.Start.IsZero() && !r.End.IsZero() {
		if err := window.ValidateRange(r.Start, r.End); err != nil {
			return err
		}
	}
	for _, w := range r.Windows {
		if w <= 0 {
			return fmt.Errorf("%w: moving average window %d", ErrInvalidParam, w)
		}
	}
	if r.VolWindow != 0 && r.VolWindow < 2 {
		return fmt.Errorf("%w: volatility window %d", ErrInvalidParam, r.VolWindow)
	}
	if r.Geo != "" {
		if _, ok := catalog.LookupGeo(r.Geo); !ok {
			return fmt.Errorf("%w: geo table %q, want one of %s", ErrInvalidParam, r.Geo, strings.Join(catalog.GeoNames(), ", "))
		}
	}
	switch r.Category {
	case "", model.CategoryDecline, model.CategoryRally:
	default:
		return fmt.Errorf("%w: event category %q", ErrInvalidParam, r.Category)
	}
	return nil
}

func (r Request) key(version uint64) string {
	return fmt.Sprintf("%d|%s|%s|%s|%v|%d|%s|%s", version, r.Command,
		formatDate(r.Start), formatDate(r.End), r.Windows, r.VolWindow, r.Geo, r.Category)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

// ParseDate reads a YYYY-MM-DD or DD/MM/YYYY date. Empty input yields the
// zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{model.DateLayout, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q, want YYYY-MM-DD", ErrInvalidParam, s)
}

// ParseWindows reads a comma-separated list of positive window lengths.
// Empty input yields nil.
func ParseWindows(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: window %q", ErrInvalidParam, part)
		}
		out = append(out, n)
	}
	return out, nil
}
