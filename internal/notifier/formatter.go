package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"OilLens/internal/calculator"
	"OilLens/internal/dashboard"
	"OilLens/internal/model"
)

const maxEvents = 8

// FormatView renders a dashboard view as a Telegram HTML message.
func FormatView(v *dashboard.View) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🛢 <b>%s</b>\n", html.EscapeString(v.Title)))
	if v.Start != nil && v.End != nil {
		b.WriteString(fmt.Sprintf("%s → %s\n", v.Start.Format(model.DateLayout), v.End.Format(model.DateLayout)))
	}
	b.WriteString("\n")

	switch {
	case v.Geo != nil:
		writeGeo(&b, *v.Geo)
	case v.Groups != nil:
		writeGroups(&b, v.Groups)
	case v.Stitched != nil:
		writeStitched(&b, v.Stitched)
	case v.Summary != nil:
		writeSummary(&b, *v.Summary)
	case v.Command == dashboard.CmdEvents:
		// listed below
	default:
		writeSeries(&b, v.Series)
	}

	for _, st := range v.Stats {
		if p, ok := lastDefined(st); ok {
			b.WriteString(fmt.Sprintf("%s: %s (%s)\n", st.Name, formatStat(st.Name, p.Value), p.Date.Format(model.DateLayout)))
		} else {
			b.WriteString(fmt.Sprintf("%s: n/a\n", st.Name))
		}
	}

	if len(v.Events) > 0 {
		b.WriteString("\n📌 <b>Events</b>\n")
		for i, e := range v.Events {
			if i == maxEvents {
				b.WriteString(fmt.Sprintf("  … %d more\n", len(v.Events)-maxEvents))
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n", categoryIcon(e.Category), e.Date.Format(model.DateLayout), html.EscapeString(e.Label)))
		}
	}

	for _, w := range v.Warnings {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", html.EscapeString(w)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeSeries(b *strings.Builder, s model.Series) {
	first, ok := s.First()
	if !ok {
		b.WriteString("No prices in range.\n")
		return
	}
	last, _ := s.Last()
	b.WriteString(fmt.Sprintf("Points: %d\n", s.Len()))
	b.WriteString(fmt.Sprintf("First: %.2f (%s)\n", first.Price, first.Date.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Last: %.2f (%s)\n", last.Price, last.Date.Format(model.DateLayout)))
	if first.Price > 0 {
		b.WriteString(fmt.Sprintf("Change: %+.1f%%\n", (last.Price-first.Price)/first.Price*100))
	}
	if high, low, err := calculator.Range(s); err == nil {
		b.WriteString(fmt.Sprintf("High/Low: %.2f / %.2f\n", high, low))
	}
}

func writeSummary(b *strings.Builder, s model.Summary) {
	b.WriteString(fmt.Sprintf("Count: %d\n", s.Count))
	b.WriteString(fmt.Sprintf("Mean: %.2f | Median: %.2f\n", s.Mean, s.Median))
	b.WriteString(fmt.Sprintf("Min: %.2f | Max: %.2f\n", s.Min, s.Max))
	b.WriteString(fmt.Sprintf("Std: %.2f\n", s.Std))
}

func writeGroups(b *strings.Builder, groups []model.ComparisonGroup) {
	for _, g := range groups {
		sum, err := calculator.SummarizeValues(g.Values)
		if err != nil {
			b.WriteString(fmt.Sprintf("<b>%s</b>: no data\n", html.EscapeString(g.Label)))
			continue
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>: mean %.2f, median %.2f, range %.2f–%.2f (n=%d)\n",
			html.EscapeString(g.Label), sum.Mean, sum.Median, sum.Min, sum.Max, sum.Count))
	}
}

func writeGeo(b *strings.Builder, g model.GeoTable) {
	for i, r := range g.Rows {
		b.WriteString(fmt.Sprintf("%2d. %s (%s): %.3f\n", i+1, html.EscapeString(r.Country), r.Code, r.Value))
	}
}

func writeStitched(b *strings.Builder, st *model.StitchedSeries) {
	b.WriteString(fmt.Sprintf("History: %d points | Forecast: %d points\n", st.Historical.Len(), st.Forecast.Len()))
	if st.Bridge != nil {
		b.WriteString(fmt.Sprintf("Last close: %.2f (%s)\n", st.Bridge.From.Price, st.Bridge.From.Date.Format(model.DateLayout)))
		b.WriteString(fmt.Sprintf("First forecast: %.2f (%s)\n", st.Bridge.To.Price, st.Bridge.To.Date.Format(model.DateLayout)))
	}
	if last, ok := st.Forecast.Last(); ok {
		b.WriteString(fmt.Sprintf("Forecast end: %.2f (%s)\n", last.Price, last.Date.Format(model.DateLayout)))
	}
}

func lastDefined(st model.RollingStat) (model.StatPoint, bool) {
	for i := len(st.Points) - 1; i >= 0; i-- {
		if st.Points[i].Defined {
			return st.Points[i], true
		}
	}
	return model.StatPoint{}, false
}

func formatStat(name string, v float64) string {
	if strings.HasPrefix(name, "volatility") || name == "returns" {
		return fmt.Sprintf("%.2f%%", v*100)
	}
	return fmt.Sprintf("%.2f", v)
}

func categoryIcon(c model.EventCategory) string {
	if c == model.CategoryRally {
		return "📈"
	}
	return "📉"
}

// FormatQuote renders the current price.
func FormatQuote(q model.Quote) string {
	return fmt.Sprintf("💵 <b>Brent now</b>: %s\n<i>%s · %s</i>",
		html.EscapeString(q.Display), html.EscapeString(q.Source), q.FetchedAt.Format("2006-01-02 15:04"))
}

// FormatNews renders up to limit articles.
func FormatNews(articles []model.Article, limit int) string {
	if len(articles) == 0 {
		return "📰 No recent oil news."
	}
	var b strings.Builder
	b.WriteString("📰 <b>Oil news</b>\n")
	for i, a := range articles {
		if limit > 0 && i == limit {
			break
		}
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(a.Title)))
		if a.SourceName != "" {
			b.WriteString(fmt.Sprintf("<i>%s</i>\n", html.EscapeString(a.SourceName)))
		}
		if a.Description != "" {
			b.WriteString(html.EscapeString(truncate(a.Description, 200)) + "\n")
		}
		if a.URL != "" {
			b.WriteString(fmt.Sprintf("<a href=\"%s\">Read more</a>\n", html.EscapeString(a.URL)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Brief is the content of the scheduled daily message.
type Brief struct {
	Date      time.Time
	Quote     *model.Quote
	High      float64
	Low       float64
	LastClose *model.PricePoint
	Averages  []Average
	Articles  []model.Article
}

// Average is the simple moving average over the last Window closes.
type Average struct {
	Window int
	Value  float64
}

// FormatBrief renders the daily brief. Missing parts are skipped.
func FormatBrief(br Brief) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🛢 <b>OilLens daily brief</b> | %s\n\n", br.Date.Format(model.DateLayout)))

	if br.Quote != nil {
		b.WriteString(fmt.Sprintf("Brent: %s\n", html.EscapeString(br.Quote.Display)))
		if br.Quote.Price > 0 && br.High > br.Low {
			pos := calculator.Position(br.Quote.Price, br.High, br.Low)
			b.WriteString(fmt.Sprintf("52-week range: %.2f – %.2f (position %.0f%%)\n", br.Low, br.High, pos*100))
		}
	} else {
		b.WriteString("Brent: quote unavailable\n")
	}

	if last := br.LastClose; last != nil {
		b.WriteString(fmt.Sprintf("Last close: %.2f (%s)\n", last.Price, last.Date.Format(model.DateLayout)))
	}
	for _, a := range br.Averages {
		b.WriteString(fmt.Sprintf("MA%d: %.2f\n", a.Window, a.Value))
	}

	if len(br.Articles) > 0 {
		b.WriteString("\n📰 <b>Headlines</b>\n")
		for i, a := range br.Articles {
			if i == 3 {
				break
			}
			b.WriteString(fmt.Sprintf("• %s\n", html.EscapeString(a.Title)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🛢 <b>OilLens commands</b>\n\n")
	for _, c := range dashboard.Commands() {
		b.WriteString(fmt.Sprintf("/%s – %s\n", strings.ReplaceAll(string(c), "-", "_"), html.EscapeString(c.Describe())))
	}
	b.WriteString("/quote – current Brent price\n")
	b.WriteString("/news – latest oil headlines\n")
	b.WriteString("/status – loaded data\n")
	b.WriteString("\nDates: /window 2020-01-01 2020-12-31\n")
	b.WriteString("Windows: /trend 2020-01-01 2020-12-31 7,30,90\n")
	b.WriteString("Tables: /geo producers | exporters | consumers\n")
	b.WriteString("Categories: /events decline | rally")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
