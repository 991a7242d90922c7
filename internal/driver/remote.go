package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blauwers/receiptd/internal/raster"
	"github.com/blauwers/receiptd/internal/style"
)

// RemoteConfig configures a Remote driver.
type RemoteConfig struct {
	BaseURL string        // Printer agent base URL, e.g. http://10.0.0.12:9100
	APIKey  string        // Bearer token; empty disables auth
	Width   int           // Paper width in characters; rasters scale to Width*dotsPerColumn dots
	Timeout time.Duration // Per-call HTTP timeout; zero selects 10s
}

// Remote forwards each primitive to a printer agent over HTTP/JSON. The
// agent owns the byte-level device encoding; this client only ships the
// ordered commands.
type Remote struct {
	baseURL    string
	apiKey     string
	dotWidth   int
	httpClient *http.Client
}

func NewRemote(cfg RemoteConfig) *Remote {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	width := cfg.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return &Remote{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		dotWidth: width * dotsPerColumn,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *Remote) SetStyle(ctx context.Context, s style.State) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal style: %w", err)
	}
	if err := r.post(ctx, "/style", "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("set style: %w", err)
	}
	return nil
}

func (r *Remote) TextLine(ctx context.Context, text string) error {
	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return fmt.Errorf("marshal text line: %w", err)
	}
	if err := r.post(ctx, "/textln", "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("text line: %w", err)
	}
	return nil
}

func (r *Remote) Newline(ctx context.Context) error {
	if err := r.post(ctx, "/ln", "", nil); err != nil {
		return fmt.Errorf("newline: %w", err)
	}
	return nil
}

func (r *Remote) Image(ctx context.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, raster.Fit(img, r.dotWidth)); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	if err := r.post(ctx, "/image", "image/png", &buf); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	return nil
}

func (r *Remote) Cut(ctx context.Context) error {
	if err := r.post(ctx, "/cut", "", nil); err != nil {
		return fmt.Errorf("cut: %w", err)
	}
	return nil
}

func (r *Remote) post(ctx context.Context, path, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("printer agent: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("printer agent %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}

// Close releases idle connections to the agent.
func (r *Remote) Close() {
	r.httpClient.CloseIdleConnections()
}
