package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"OilLens/internal/api"
	"OilLens/internal/collector"
	"OilLens/internal/notifier"
	"OilLens/internal/scheduler"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot and the scheduled tasks.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runDaemon(daemonOptions{bot: true})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled tasks.",
	Long:  `Serve the dashboard over HTTP. When Telegram credentials are configured the bot runs alongside.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		return runDaemon(daemonOptions{http: true, addr: addr})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides http.addr)")
}

type daemonOptions struct {
	bot  bool // Telegram credentials required
	http bool
	addr string
}

func runDaemon(opts daemonOptions) error {
	log.Println("[INFO] OilLens starting...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.bot {
		if err := cfg.ValidateBot(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
	}

	quotes := newQuoteFetcher(cfg)
	news := newNewsClient(cfg)
	log.Printf("[INFO] quote source: %s", quotes.Name())
	if news != nil {
		log.Printf("[INFO] news source: %s", news.Name())
	}

	rec := openRecorder(cfg)
	defer rec.Close()

	svc := newService(cfg, quotes, news, rec)
	defer svc.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := svc.Reload(ctx); err != nil {
		log.Printf("[WARN] initial load failed, waiting for the next reload: %v", err)
	}

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	col := collector.NewCollector(quotes, news, cfg.News.Query)
	var sender scheduler.Sender
	if tn != nil {
		sender = tn
	}
	sched := scheduler.NewScheduler(ctx, svc, col, sender)
	if err := sched.RegisterAll(cfg.Schedule.ReloadCron, cfg.Schedule.QuoteCron, cfg.Schedule.BriefCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if opts.http {
		addr := opts.addr
		if addr == "" {
			addr = cfg.HTTP.Addr
		}
		app := api.NewApp(svc, api.Options{})
		go func() {
			if err := app.Listen(addr); err != nil {
				log.Printf("[ERROR] http server: %v", err)
				cancel()
			}
		}()
		log.Printf("[INFO] HTTP API listening on %s", addr)
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer scancel()
			if err := app.ShutdownWithContext(sctx); err != nil {
				log.Printf("[ERROR] http shutdown: %v", err)
			}
		}()
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, sending the daily brief now")
		go sched.RunBriefNow()
	}

	log.Println("[INFO] OilLens is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()
	log.Println("[INFO] OilLens stopped")
	return nil
}
