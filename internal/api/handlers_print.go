package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/blauwers/receiptd/internal/driver"
	"github.com/blauwers/receiptd/internal/interp"
	"github.com/blauwers/receiptd/internal/parser"
	"github.com/blauwers/receiptd/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	printer := r.URL.Query().Get("printer")
	if printer == "" {
		jsonError(w, "printer query parameter is required", http.StatusBadRequest)
		return
	}
	if !s.spooler.HasPrinter(printer) {
		jsonError(w, fmt.Sprintf("unknown printer %q", printer), http.StatusNotFound)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if _, err := parser.ForContentType(contentType); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(printer, contentType, body)
	if err := s.spooler.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"printer":  snap.Printer,
		"status":   snap.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", snap.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.spooler.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handlePreview renders a document to text without touching a printer.
// Parse errors answer 400; interpretation errors answer 422 and name the
// failing action.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, err := parser.ForContentType(r.Header.Get("Content-Type"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	width := s.cfg.PreviewWidth
	if v := r.URL.Query().Get("width"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			width = n
		}
	}
	if csv, ok := p.(*parser.CSVDecoder); ok {
		csv.Width = width
	}

	body, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	doc, err := p.Parse(bytes.NewReader(body))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var out strings.Builder
	drv := &tally{Driver: driver.NewPreview(width, &out)}
	if err := interp.New(drv).Print(r.Context(), doc); err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Receipt-Lines", strconv.Itoa(drv.lines))
	w.Header().Set("X-Receipt-Images", strconv.Itoa(drv.images))
	w.Write([]byte(out.String()))
}

// tally counts emitted primitives for the preview response headers.
type tally struct {
	driver.Driver
	lines, images int
}

func (t *tally) TextLine(ctx context.Context, text string) error {
	if err := t.Driver.TextLine(ctx, text); err != nil {
		return err
	}
	t.lines++
	return nil
}

func (t *tally) Image(ctx context.Context, img image.Image) error {
	if err := t.Driver.Image(ctx, img); err != nil {
		return err
	}
	t.images++
	return nil
}

// readDocument reads the request body up to the configured document limit.
// On failure it writes the error response and returns ok=false.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxDocumentBytes+1))
	if err != nil {
		jsonError(w, "failed to read document", http.StatusInternalServerError)
		return nil, false
	}
	if int64(len(data)) > s.cfg.MaxDocumentBytes {
		jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxDocumentBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	if len(data) == 0 {
		jsonError(w, "empty document body", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
