package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"OilLens/internal/calculator"
	"OilLens/internal/collector"
	"OilLens/internal/dashboard"
	"OilLens/internal/notifier"
	"OilLens/internal/window"
)

// Sender delivers a message to the operator chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard *dashboard.Service
	Collector *collector.Collector
	Notifier  Sender
	Ctx       context.Context

	// BriefWindows are the moving averages quoted in the daily brief.
	BriefWindows []int

	mu     sync.RWMutex
	latest *collector.Snapshot
}

// NewScheduler creates a new Scheduler. tn may be nil when no chat is
// configured; messages are then only logged.
func NewScheduler(ctx context.Context, svc *dashboard.Service, col *collector.Collector, tn Sender) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Dashboard:    svc,
		Collector:    col,
		Notifier:     tn,
		Ctx:          ctx,
		BriefWindows: []int{30, 200},
	}
}

// RegisterAll registers the reload, quote refresh and daily brief tasks.
func (s *Scheduler) RegisterAll(reloadCron, quoteCron, briefCron string) error {
	if _, err := s.Cron.AddFunc(reloadCron, s.reloadTask); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	if _, err := s.Cron.AddFunc(quoteCron, s.refreshTask); err != nil {
		return fmt.Errorf("register quote task: %w", err)
	}
	if briefCron != "" && s.Notifier != nil {
		if _, err := s.Cron.AddFunc(briefCron, s.briefTask); err != nil {
			return fmt.Errorf("register brief task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunBriefNow sends the daily brief immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunBriefNow() {
	s.briefTask()
}

func (s *Scheduler) reloadTask() {
	log.Println("[INFO] running reload task")
	if _, err := s.Dashboard.Reload(s.Ctx); err != nil {
		log.Printf("[ERROR] reload: %v", err)
		s.trySend(fmt.Sprintf("❌ Source reload failed, keeping previous data: %v", err))
	}
}

func (s *Scheduler) refreshTask() {
	if s.Collector == nil {
		return
	}
	snap, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		log.Printf("[WARN] refresh: %v", err)
		return
	}
	if snap.Quote != nil {
		s.Dashboard.RecordQuote(snap.Quote)
	}
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()
}

// Latest returns the most recent collection round, nil before the first.
func (s *Scheduler) Latest() *collector.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Scheduler) briefTask() {
	log.Println("[INFO] running daily brief")
	s.refreshTask()
	s.trySend(s.Brief(time.Now()))
}

// Brief composes the daily message from the latest collection round and
// the trailing year of the loaded series.
func (s *Scheduler) Brief(now time.Time) string {
	br := notifier.Brief{Date: now}
	if latest := s.Latest(); latest != nil {
		br.Quote = latest.Quote
		br.Articles = latest.Articles
	}

	if snap := s.Dashboard.Snapshot(); snap != nil {
		if last, ok := snap.Series.Last(); ok {
			br.LastClose = &last
			trailing := window.Filter(snap.Series, last.Date.AddDate(-1, 0, 0), last.Date)
			if high, low, err := calculator.Range(trailing); err == nil {
				br.High, br.Low = high, low
			}
		}
		prices := snap.Series.Prices()
		for _, w := range s.BriefWindows {
			v, err := calculator.SMA(prices, w)
			if err != nil {
				log.Printf("[WARN] brief MA%d: %v", w, err)
				continue
			}
			br.Averages = append(br.Averages, notifier.Average{Window: w, Value: v})
		}
	}
	return notifier.FormatBrief(br)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] no notifier configured, message dropped: %.80s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
