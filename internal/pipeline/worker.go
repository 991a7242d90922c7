package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/blauwers/receiptd/internal/interp"
	"github.com/blauwers/receiptd/internal/ledger"
	"github.com/blauwers/receiptd/internal/parser"
)

// Worker runs one job through its phases: decode the document, interpret it
// against the lane's printer, record the outcome. A nil ledger disables
// history.
type Worker struct {
	log    *slog.Logger
	ledger *ledger.Ledger
}

func NewWorker(log *slog.Logger, led *ledger.Ledger) *Worker {
	return &Worker{log: log, ledger: led}
}

// Process runs the full print pipeline for a job on the given lane.
func (w *Worker) Process(ctx context.Context, ln *lane, job *Job) {
	log := w.log.With("job_id", job.ID, "printer", ln.name)
	start := time.Now()

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding document")
	p, err := parser.ForContentType(job.ContentType)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail("decoding", err)
		w.record(job, start)
		return
	}
	// Line items lay out against the lane's paper width.
	if csv, ok := p.(*parser.CSVDecoder); ok {
		csv.Width = ln.width
	}

	doc, err := p.Parse(bytes.NewReader(job.Body()))
	if err != nil {
		log.Error("decode failed", "error", err)
		job.Fail("decoding", err)
		w.record(job, start)
		return
	}
	job.SetNodes(len(doc.Contents))
	if title := doc.Title(""); title != "" {
		job.SetTitle(title)
	}

	// Phase 2: Print
	job.SetStatus(StatusPrinting, "printing")
	in := interp.New(&countingDriver{Driver: ln.drv, job: job})
	if err := in.Print(ctx, doc); err != nil {
		log.Error("print failed", "error", err)
		job.Fail("printing", err)
		w.record(job, start)
		return
	}

	job.SetStatus(StatusCompleted, "done")
	snap := job.Snapshot()
	log.Info("printed", "lines", snap.Progress.Lines, "images", snap.Progress.Images,
		"duration", time.Since(start))
	w.record(job, start)
}

// record writes the finished job to the history ledger.
func (w *Worker) record(job *Job, start time.Time) {
	if w.ledger == nil {
		return
	}
	snap := job.Snapshot()
	w.ledger.RecordAsync(ledger.Entry{
		JobID:      snap.ID,
		Printer:    snap.Printer,
		Title:      snap.Title,
		Status:     string(snap.Status),
		Lines:      snap.Progress.Lines,
		Images:     snap.Progress.Images,
		DurationMs: time.Since(start).Milliseconds(),
		Error:      snap.Error,
		FinishedAt: time.Now(),
	})
}
