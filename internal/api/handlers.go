package api

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"OilLens/internal/dashboard"
	"OilLens/internal/model"
)

type ViewHandler struct {
	svc *dashboard.Service
}

func NewViewHandler(svc *dashboard.Service) *ViewHandler {
	return &ViewHandler{svc: svc}
}

// Commands handles GET /v1/commands
func (h *ViewHandler) Commands(c *fiber.Ctx) error {
	out := make([]fiber.Map, 0, len(dashboard.Commands()))
	for _, cmd := range dashboard.Commands() {
		out = append(out, fiber.Map{"command": cmd, "description": cmd.Describe()})
	}
	return c.JSON(out)
}

// View handles GET /v1/views/:command
func (h *ViewHandler) View(c *fiber.Ctx) error {
	req, err := requestFrom(c)
	if err != nil {
		return fail(c, "Invalid request", err)
	}
	v, err := h.svc.Serve(req, "http")
	if err != nil {
		return fail(c, "View failed", err)
	}
	return c.JSON(v)
}

// Export handles GET /v1/export/:command?format=csv|parquet
func (h *ViewHandler) Export(c *fiber.Ctx) error {
	req, err := requestFrom(c)
	if err != nil {
		return fail(c, "Invalid request", err)
	}
	format := c.Query("format", "csv")
	if format != "csv" && format != "parquet" {
		return fail(c, "Invalid request", fmt.Errorf("%w: format %q", dashboard.ErrInvalidParam, format))
	}

	v, err := h.svc.Serve(req, "http")
	if err != nil {
		return fail(c, "Export failed", err)
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == "parquet" {
		contentType = "application/vnd.apache.parquet"
		err = v.WriteParquet(&buf)
	} else {
		err = v.WriteCSV(&buf)
	}
	if err != nil {
		return fail(c, "Export failed", err)
	}

	c.Attachment(fmt.Sprintf("%s.%s", v.Command, format))
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(buf.Bytes())
}

// Quote handles GET /v1/quote
func (h *ViewHandler) Quote(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	q, err := h.svc.Quote(ctx)
	if err != nil {
		return fail(c, "Quote unavailable", err)
	}
	return c.JSON(q)
}

// QuoteHistory handles GET /v1/quote/history?limit=
func (h *ViewHandler) QuoteHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 500 {
		return fail(c, "Invalid request", fmt.Errorf("%w: limit %d", dashboard.ErrInvalidParam, limit))
	}
	quotes, err := h.svc.QuoteHistory(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "History unavailable",
			Message: err.Error(),
			Code:    fiber.StatusInternalServerError,
		})
	}
	return c.JSON(quotes)
}

// News handles GET /v1/news
func (h *ViewHandler) News(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	articles, err := h.svc.News(ctx)
	if err != nil {
		return fail(c, "News unavailable", err)
	}
	return c.JSON(articles)
}

// Reload handles POST /v1/admin/reload
func (h *ViewHandler) Reload(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 60*time.Second)
	defer cancel()

	snap, err := h.svc.Reload(ctx)
	if err != nil {
		return fail(c, "Reload failed", err)
	}
	return c.JSON(fiber.Map{
		"version": snap.Version,
		"points":  snap.Series.Len(),
		"report":  snap.Report,
	})
}

func requestFrom(c *fiber.Ctx) (dashboard.Request, error) {
	cmd, err := dashboard.ParseCommand(c.Params("command"))
	if err != nil {
		return dashboard.Request{}, err
	}
	req := dashboard.Request{Command: cmd}

	if req.Start, err = dashboard.ParseDate(c.Query("start")); err != nil {
		return req, err
	}
	if req.End, err = dashboard.ParseDate(c.Query("end")); err != nil {
		return req, err
	}
	if req.Windows, err = dashboard.ParseWindows(c.Query("windows")); err != nil {
		return req, err
	}
	if raw := c.Query("vol_window"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: vol_window %q", dashboard.ErrInvalidParam, raw)
		}
		req.VolWindow = n
	}
	req.Geo = strings.ToLower(c.Query("table"))
	req.Category = model.EventCategory(strings.ToLower(c.Query("category")))
	return req, req.Validate()
}
