package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blauwers/receiptd/internal/config"
	"github.com/blauwers/receiptd/internal/driver"
	"github.com/blauwers/receiptd/internal/ledger"
	"github.com/blauwers/receiptd/internal/pipeline"
)

const testKey = "test-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, led *ledger.Ledger) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:           testKey,
		MaxDocumentBytes: 4096,
		MaxQueueSize:     8,
		JobTTL:           time.Hour,
		PreviewWidth:     20,
	}
	printers := []config.Printer{{Name: "main", Mode: config.ModePreview, Width: 20}}

	sp := pipeline.NewSpooler([]pipeline.Printer{
		{Name: "main", Driver: driver.NewRecorder(), Width: 20},
	}, cfg.MaxQueueSize, cfg.JobTTL, led, testLogger())
	sp.Start(context.Background())
	t.Cleanup(sp.Stop)

	return NewServer(sp, printers, led, testLogger(), cfg)
}

func authedRequest(method, target, contentType, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+testKey)
	return req
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth_NoAuth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(srv, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health body %q", rec.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(srv, httptest.NewRequest("GET", "/api/printers", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without authorization, got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/printers", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	if rec := do(srv, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad key, got %d", rec.Code)
	}

	if rec := do(srv, authedRequest("GET", "/api/printers", "", "")); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with good key, got %d", rec.Code)
	}
}

func TestPrintFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"meta":{"title":"Order 12"},"contents":[{"println":"hi"},{"println":"there"}]}`
	rec := do(srv, authedRequest("POST", "/api/print?printer=main", "application/json", body))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var accepted struct {
		JobID   string `json:"job_id"`
		Printer string `json:"printer"`
		PollURL string `json:"poll_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accept response: %v", err)
	}
	if accepted.JobID == "" || accepted.Printer != "main" {
		t.Fatalf("unexpected accept response: %+v", accepted)
	}
	if accepted.PollURL != "/api/jobs/"+accepted.JobID {
		t.Errorf("unexpected poll url %q", accepted.PollURL)
	}

	var snap struct {
		Status   string `json:"status"`
		Title    string `json:"title"`
		Progress struct {
			Nodes int `json:"nodes"`
			Lines int `json:"lines"`
		} `json:"progress"`
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		rec = do(srv, authedRequest("GET", accepted.PollURL, "", ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("poll: expected 200, got %d", rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode poll response: %v", err)
		}
		if snap.Status == "completed" || snap.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never finished, last status %q", snap.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if snap.Status != "completed" {
		t.Fatalf("expected completed, got %q: %s", snap.Status, rec.Body.String())
	}
	if snap.Title != "Order 12" {
		t.Errorf("expected title from document meta, got %q", snap.Title)
	}
	if snap.Progress.Nodes != 2 || snap.Progress.Lines != 2 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
}

func TestPrint_Validation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantCode    int
	}{
		{
			name:        "missing printer",
			target:      "/api/print",
			contentType: "application/json",
			body:        `{"contents":[]}`,
			wantCode:    http.StatusBadRequest,
		},
		{
			name:        "unknown printer",
			target:      "/api/print?printer=ghost",
			contentType: "application/json",
			body:        `{"contents":[]}`,
			wantCode:    http.StatusNotFound,
		},
		{
			name:        "unsupported content type",
			target:      "/api/print?printer=main",
			contentType: "application/pdf",
			body:        "%PDF",
			wantCode:    http.StatusBadRequest,
		},
		{
			name:        "empty body",
			target:      "/api/print?printer=main",
			contentType: "application/json",
			body:        "",
			wantCode:    http.StatusBadRequest,
		},
		{
			name:        "oversize body",
			target:      "/api/print?printer=main",
			contentType: "application/json",
			body:        strings.Repeat("x", 5000),
			wantCode:    http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, authedRequest("POST", tt.target, tt.contentType, tt.body))
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestJobStatus_NotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(srv, authedRequest("GET", "/api/jobs/deadbeef", "", ""))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestPreview(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"contents":[{"center":[{"println":"hi"}]},{"println":"left"}]}`
	rec := do(srv, authedRequest("POST", "/api/preview?width=10", "application/json", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain, got %q", ct)
	}

	out := rec.Body.String()
	if !strings.Contains(out, "    hi\n") {
		t.Errorf("expected centered line at width 10, got %q", out)
	}
	if !strings.Contains(out, "left\n") {
		t.Errorf("expected left line, got %q", out)
	}
	if !strings.Contains(out, "8<") {
		t.Errorf("expected cut mark, got %q", out)
	}
	if got := rec.Header().Get("X-Receipt-Lines"); got != "2" {
		t.Errorf("expected 2 emitted lines, got %q", got)
	}
	if got := rec.Header().Get("X-Receipt-Images"); got != "0" {
		t.Errorf("expected 0 emitted images, got %q", got)
	}
}

func TestPreview_DefaultWidthFromConfig(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"contents":[{"center":[{"println":"hi"}]}]}`
	rec := do(srv, authedRequest("POST", "/api/preview", "application/json", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	// Config width 20 centers a two-rune line at column 9.
	if !strings.Contains(rec.Body.String(), strings.Repeat(" ", 9)+"hi\n") {
		t.Errorf("expected centering at configured width, got %q", rec.Body.String())
	}
}

func TestPreview_CSVUsesWidth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(srv, authedRequest("POST", "/api/preview?width=20", "text/csv", "Coffee,3.50\n"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Coffee          3.50") {
		t.Errorf("expected csv laid out to width 20, got %q", rec.Body.String())
	}
}

func TestPreview_UnknownActionNames422(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(srv, authedRequest("POST", "/api/preview", "application/json", `{"contents":[{"sparkle":"x"}]}`))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "sparkle") {
		t.Errorf("expected failing action named, got %q", rec.Body.String())
	}
}

func TestPreview_ParseError(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(srv, authedRequest("POST", "/api/preview", "application/json", `{"contents":[`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListPrinters(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(srv, authedRequest("GET", "/api/printers", "", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Printers []struct {
			Name       string `json:"name"`
			Mode       string `json:"mode"`
			Width      int    `json:"width"`
			QueueDepth int    `json:"queue_depth"`
		} `json:"printers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode printers: %v", err)
	}
	if len(resp.Printers) != 1 {
		t.Fatalf("expected 1 printer, got %d", len(resp.Printers))
	}
	p := resp.Printers[0]
	if p.Name != "main" || p.Mode != "preview" || p.Width != 20 || p.QueueDepth != 0 {
		t.Errorf("unexpected printer entry %+v", p)
	}
	if strings.Contains(rec.Body.String(), "api_key") {
		t.Error("printer response must not leak agent credentials")
	}
}

func TestListActions(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := do(srv, authedRequest("GET", "/api/actions", "", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Actions []struct {
			Name    string `json:"name"`
			Kind    string `json:"kind"`
			AliasOf string `json:"alias_of"`
		} `json:"actions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode actions: %v", err)
	}
	if len(resp.Actions) < 16 {
		t.Fatalf("expected the full action table, got %d entries", len(resp.Actions))
	}

	byName := make(map[string]struct{ kind, aliasOf string })
	for _, a := range resp.Actions {
		byName[a.Name] = struct{ kind, aliasOf string }{a.Kind, a.AliasOf}
	}
	if a := byName["println"]; a.kind != "leaf" {
		t.Errorf("expected println leaf, got %+v", a)
	}
	if a := byName["bold"]; a.kind != "block" {
		t.Errorf("expected bold block, got %+v", a)
	}
	if a := byName["ln"]; a.aliasOf != "newline" {
		t.Errorf("expected ln alias of newline, got %+v", a)
	}
}

func TestHistory_Disabled(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := do(srv, authedRequest("GET", "/api/history", "", ""))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a ledger, got %d", rec.Code)
	}
}

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	led, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	led.RecordAsync(ledger.Entry{
		JobID:      "abc123",
		Printer:    "main",
		Title:      "Order 9",
		Status:     "completed",
		Lines:      4,
		FinishedAt: time.Now(),
	})
	if err := led.Close(); err != nil {
		t.Fatalf("close ledger: %v", err)
	}

	led, err = ledger.Open(path)
	if err != nil {
		t.Fatalf("reopen ledger: %v", err)
	}
	t.Cleanup(func() { led.Close() })

	srv := newTestServer(t, led)
	rec := do(srv, authedRequest("GET", "/api/history?limit=10", "", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		History []struct {
			JobID   string `json:"job_id"`
			Printer string `json:"printer"`
			Title   string `json:"title"`
			Status  string `json:"status"`
			Lines   int    `json:"lines"`
		} `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(resp.History) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.History))
	}
	e := resp.History[0]
	if e.JobID != "abc123" || e.Printer != "main" || e.Title != "Order 9" || e.Lines != 4 {
		t.Errorf("unexpected history entry %+v", e)
	}
}
