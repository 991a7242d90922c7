package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// client talks to the receiptd HTTP API.
type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newClient() *client {
	return &client{
		baseURL: strings.TrimRight(serverURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type acceptResponse struct {
	JobID   string `json:"job_id"`
	Printer string `json:"printer"`
	Status  string `json:"status"`
	PollURL string `json:"poll_url"`
}

type jobResponse struct {
	JobID    string `json:"job_id"`
	Printer  string `json:"printer"`
	Status   string `json:"status"`
	Phase    string `json:"phase"`
	Title    string `json:"title"`
	Progress struct {
		Nodes  int `json:"nodes"`
		Lines  int `json:"lines"`
		Images int `json:"images"`
	} `json:"progress"`
	Error string `json:"error"`
}

type printerInfo struct {
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	Width      int    `json:"width"`
	QueueDepth int    `json:"queue_depth"`
}

type actionInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	AliasOf string `json:"alias_of"`
}

type historyEntry struct {
	JobID      string    `json:"job_id"`
	Printer    string    `json:"printer"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Lines      int       `json:"lines"`
	Images     int       `json:"images"`
	FinishedAt time.Time `json:"finished_at"`
}

// submit posts a document to /api/print and returns the accepted job.
func (c *client) submit(ctx context.Context, printer, contentType string, body []byte) (*acceptResponse, error) {
	target := c.baseURL + "/api/print?printer=" + url.QueryEscape(printer)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("submit print: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("submit print: status %d: %s", resp.StatusCode, string(respBody))
	}

	var accepted acceptResponse
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &accepted, nil
}

// job fetches the state of a single job.
func (c *client) job(ctx context.Context, id string) (*jobResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/jobs/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get job %s: status %d: %s", id, resp.StatusCode, string(respBody))
	}

	var job jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

// preview renders a document server-side and returns the text.
func (c *client) preview(ctx context.Context, contentType string, body []byte, width int) (string, error) {
	target := c.baseURL + "/api/preview"
	if width > 0 {
		target += "?width=" + strconv.Itoa(width)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("preview: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("preview: status %d: %s", resp.StatusCode, string(respBody))
	}

	rendered, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read preview: %w", err)
	}
	return string(rendered), nil
}

// printers lists the server's printer inventory.
func (c *client) printers(ctx context.Context) ([]printerInfo, error) {
	var result struct {
		Printers []printerInfo `json:"printers"`
	}
	if err := c.getJSON(ctx, "/api/printers", &result); err != nil {
		return nil, err
	}
	return result.Printers, nil
}

// actions lists the server's action table.
func (c *client) actions(ctx context.Context) ([]actionInfo, error) {
	var result struct {
		Actions []actionInfo `json:"actions"`
	}
	if err := c.getJSON(ctx, "/api/actions", &result); err != nil {
		return nil, err
	}
	return result.Actions, nil
}

// history lists recent ledger entries.
func (c *client) history(ctx context.Context, limit int) ([]historyEntry, error) {
	path := "/api/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var result struct {
		History []historyEntry `json:"history"`
	}
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.History, nil
}

func (c *client) getJSON(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("get %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
