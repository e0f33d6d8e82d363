package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"OilLens/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// pragmas applied on open. WAL lets the HTTP API read while the scheduler
// writes; busy_timeout covers the short overlap between the two.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// NewSQLiteRecorder opens (or creates) the database at dbPath and creates
// the tables it writes to.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	r := &SQLiteRecorder{db: db}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS load_events (
			id                TEXT PRIMARY KEY,
			timestamp         INTEGER NOT NULL,
			version           INTEGER,
			source            TEXT,
			row_count         INTEGER,
			kept              INTEGER,
			dropped_date      INTEGER,
			dropped_price     INTEGER,
			dropped_duplicate INTEGER,
			malformed         INTEGER,
			duplicate_columns INTEGER,
			forecast_points   INTEGER,
			error             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_load_ts ON load_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS quote_snapshots (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			source     TEXT,
			symbol     TEXT,
			display    TEXT,
			price      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_ts ON quote_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS view_requests (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			command     TEXT,
			start_date  TEXT,
			end_date    TEXT,
			params      TEXT,
			points      INTEGER,
			channel     TEXT,
			duration_us INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_view_ts ON view_requests(timestamp)`,
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return tx.Commit()
}

// insert writes one row under a generated id.
func (r *SQLiteRecorder) insert(table string, ts time.Time, cols []string, vals ...any) error {
	args := append([]any{uuid.NewString(), ts.Unix()}, vals...)
	query := fmt.Sprintf("INSERT INTO %s (id, timestamp, %s) VALUES (?%s)",
		table, strings.Join(cols, ", "), strings.Repeat(",?", len(args)-1))

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	rep := evt.Report
	return r.insert("load_events", time.Now(),
		[]string{"version", "source", "row_count", "kept", "dropped_date", "dropped_price",
			"dropped_duplicate", "malformed", "duplicate_columns", "forecast_points", "error"},
		int64(evt.Version), rep.Source, rep.Rows, rep.Kept, rep.DroppedDate, rep.DroppedPrice,
		rep.DroppedDuplicate, rep.Malformed, rep.DuplicateColumns, evt.Forecast, evt.Err)
}

func (r *SQLiteRecorder) RecordQuote(q *model.Quote) error {
	ts := q.FetchedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return r.insert("quote_snapshots", ts,
		[]string{"source", "symbol", "display", "price"},
		q.Source, q.Symbol, q.Display, q.Price)
}

func (r *SQLiteRecorder) RecordView(req *ViewRequest) error {
	return r.insert("view_requests", time.Now(),
		[]string{"command", "start_date", "end_date", "params", "points", "channel", "duration_us", "error"},
		req.Command, formatDate(req.Start), formatDate(req.End), req.Params,
		req.Points, req.Channel, req.Duration.Microseconds(), req.Err)
}

// RecentQuotes returns the latest quotes, newest first.
func (r *SQLiteRecorder) RecentQuotes(limit int) ([]model.Quote, error) {
	rows, err := r.db.Query(`SELECT timestamp, source, symbol, display, price
		FROM quote_snapshots ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var out []model.Quote
	for rows.Next() {
		var q model.Quote
		var ts int64
		if err := rows.Scan(&ts, &q.Source, &q.Symbol, &q.Display, &q.Price); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		q.FetchedAt = time.Unix(ts, 0)
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}
