package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"OilLens/internal/dashboard"
	"OilLens/internal/model"
	"OilLens/internal/notifier"
	"OilLens/internal/window"
)

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	name := strings.ToLower(fields[0])
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i] // /trend@OilLensBot
	}

	switch name {
	case "/start", "/help":
		return notifier.FormatHelp()
	case "/quote":
		q, err := s.Dashboard.Quote(ctx)
		if err != nil {
			return failure(err)
		}
		return notifier.FormatQuote(q)
	case "/news":
		articles, err := s.Dashboard.News(ctx)
		if err != nil {
			return failure(err)
		}
		return notifier.FormatNews(articles, 5)
	case "/brief":
		return s.Brief(time.Now())
	case "/status":
		return s.status()
	}

	cmd, err := dashboard.ParseCommand(name)
	if err != nil {
		return "Unknown command.\n\n" + notifier.FormatHelp()
	}
	req, err := ParseArgs(cmd, fields[1:])
	if err != nil {
		return failure(err)
	}
	v, err := s.Dashboard.Serve(req, "telegram")
	if err != nil {
		return failure(err)
	}
	return notifier.FormatView(v)
}

// ParseArgs reads positional bot arguments: up to two dates (start, end)
// and an integer list. The integers are moving-average windows for trend
// and the volatility window for volatility commands. geo takes a table
// name and events an optional category.
func ParseArgs(cmd dashboard.Command, args []string) (dashboard.Request, error) {
	req := dashboard.Request{Command: cmd}
	var dates []time.Time
	for _, a := range args {
		if d, err := dashboard.ParseDate(a); err == nil && strings.ContainsAny(a, "-/") {
			dates = append(dates, d)
			continue
		}
		switch cmd {
		case dashboard.CmdGeo:
			if req.Geo != "" {
				return req, fmt.Errorf("%w: one geo table expected", dashboard.ErrInvalidParam)
			}
			req.Geo = strings.ToLower(a)
			continue
		case dashboard.CmdEvents:
			if req.Category != "" {
				return req, fmt.Errorf("%w: one event category expected", dashboard.ErrInvalidParam)
			}
			req.Category = model.EventCategory(strings.ToLower(a))
			continue
		}
		nums, err := dashboard.ParseWindows(a)
		if err != nil {
			return req, err
		}
		if len(nums) == 0 {
			continue
		}
		switch cmd {
		case dashboard.CmdTrend:
			req.Windows = append(req.Windows, nums...)
		case dashboard.CmdVolatility, dashboard.CmdCrisisVolatility:
			if len(nums) != 1 || req.VolWindow != 0 {
				return req, fmt.Errorf("%w: one volatility window expected", dashboard.ErrInvalidParam)
			}
			req.VolWindow = nums[0]
		default:
			return req, fmt.Errorf("%w: %s takes no numeric argument", dashboard.ErrInvalidParam, cmd)
		}
	}
	switch len(dates) {
	case 0:
	case 1:
		req.Start = dates[0]
	case 2:
		req.Start, req.End = dates[0], dates[1]
	default:
		return req, fmt.Errorf("%w: at most two dates", dashboard.ErrInvalidParam)
	}
	return req, req.Validate()
}

func (s *Scheduler) status() string {
	snap := s.Dashboard.Snapshot()
	if snap == nil {
		return "⏳ No data loaded yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>Snapshot v%d</b>\n", snap.Version))
	b.WriteString(fmt.Sprintf("Loaded: %s\n", snap.LoadedAt.Format("2006-01-02 15:04")))
	if start, end, ok := window.Span(snap.Series); ok {
		b.WriteString(fmt.Sprintf("Series: %d points, %s → %s\n", snap.Series.Len(),
			start.Format(model.DateLayout), end.Format(model.DateLayout)))
	}
	b.WriteString(fmt.Sprintf("Forecast: %d points\n", snap.Forecast.Len()))
	if d := snap.Report.Dropped(); d > 0 {
		b.WriteString(fmt.Sprintf("Dropped rows: %d of %d\n", d, snap.Report.Rows))
	}
	return strings.TrimRight(b.String(), "\n")
}

func failure(err error) string {
	switch {
	case errors.Is(err, window.ErrInvalidRange), errors.Is(err, dashboard.ErrInvalidParam):
		return "⚠️ " + html.EscapeString(err.Error())
	case errors.Is(err, dashboard.ErrNotLoaded):
		return "⏳ No data loaded yet."
	default:
		log.Printf("[ERROR] command failed: %v", err)
		return "❌ " + html.EscapeString(err.Error())
	}
}
