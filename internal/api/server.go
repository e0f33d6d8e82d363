// Package api exposes dashboard views over HTTP.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"OilLens/internal/dashboard"
)

// Options tunes the HTTP app.
type Options struct {
	AllowOrigins string
	Quiet        bool // no access log
}

// NewApp builds the fiber app with all routes registered.
func NewApp(svc *dashboard.Service, opts Options) *fiber.App {
	views := NewViewHandler(svc)
	health := NewHealthHandler(svc)

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		Immutable:     true,
		ServerHeader:  "OilLens",
		AppName:       "OilLens",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  30 * time.Second,
		ErrorHandler:  CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if !opts.Quiet {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	origins := opts.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       3600,
	}))

	app.Get("/health", health.Health)
	app.Get("/health/ready", health.Ready)

	v1 := app.Group("/v1")
	v1.Get("/commands", views.Commands)
	v1.Get("/views/:command", views.View)
	v1.Get("/export/:command", views.Export)
	v1.Get("/quote", views.Quote)
	v1.Get("/quote/history", views.QuoteHistory)
	v1.Get("/news", views.News)
	v1.Post("/admin/reload", views.Reload)

	return app
}
