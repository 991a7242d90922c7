// Package ledger keeps a history of finished print jobs in SQLite. Writes
// are asynchronous so the print path never waits on disk; documents
// themselves are never stored, only job metadata.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS print_jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL,
	printer TEXT NOT NULL,
	title TEXT,
	status TEXT NOT NULL,
	lines INTEGER NOT NULL,
	images INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	error TEXT,
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_print_jobs_finished ON print_jobs(finished_at);
CREATE INDEX IF NOT EXISTS idx_print_jobs_printer ON print_jobs(printer);
`

// Entry is one finished job's history record.
type Entry struct {
	JobID      string    `json:"job_id"`
	Printer    string    `json:"printer"`
	Title      string    `json:"title,omitempty"`
	Status     string    `json:"status"`
	Lines      int       `json:"lines"`
	Images     int       `json:"images"`
	DurationMs int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Ledger persists entries to SQLite through a buffered channel and a single
// flush goroutine.
type Ledger struct {
	db   *sql.DB
	ch   chan Entry
	done chan struct{}
	once sync.Once
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	l := &Ledger{
		db:   db,
		ch:   make(chan Entry, 256),
		done: make(chan struct{}),
	}
	go l.flushLoop()
	return l, nil
}

// RecordAsync queues an entry for persistence. Non-blocking; a full buffer
// drops the entry rather than stall the print path.
func (l *Ledger) RecordAsync(e Entry) {
	select {
	case l.ch <- e:
	default:
	}
}

// Close drains the buffer, stops the flush goroutine, and closes the
// database.
func (l *Ledger) Close() error {
	var err error
	l.once.Do(func() {
		close(l.ch)
		<-l.done
		err = l.db.Close()
	})
	return err
}

// Recent returns the latest entries, newest first. limit is clamped to
// [1, 500]; zero selects 50.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT job_id, printer, title, status, lines, images, duration_ms, error, finished_at
		FROM print_jobs ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var finished int64
		if err := rows.Scan(&e.JobID, &e.Printer, &e.Title, &e.Status,
			&e.Lines, &e.Images, &e.DurationMs, &e.Error, &finished); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.FinishedAt = time.UnixMilli(finished)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}
	return entries, nil
}

func (l *Ledger) flushLoop() {
	defer close(l.done)

	batch := make([]Entry, 0, 32)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-l.ch:
			if !ok {
				l.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 32 {
				l.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				l.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (l *Ledger) flushBatch(batch []Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := l.db.Begin()
	if err != nil {
		slog.Error("ledger: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO print_jobs
		(job_id, printer, title, status, lines, images, duration_ms, error, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("ledger: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.JobID, e.Printer, e.Title, e.Status,
			e.Lines, e.Images, e.DurationMs, e.Error, e.FinishedAt.UnixMilli()); err != nil {
			slog.Error("ledger: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("ledger: commit", "error", err)
	}
}
