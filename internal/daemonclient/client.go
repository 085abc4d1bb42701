package daemonclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wavehunterctl/internal/report"
)

const userAgent = "wavehunterctl/0.1.0"

// HTTPDoer describes the HTTP client used to reach the daemon.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a non-success HTTP response from the daemon.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("daemon returned %d", e.Code)
	}
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("daemon returned %d: %s", e.Code, body)
}

// Client talks to the wavehunter daemon's HTTP API.
type Client struct {
	baseURL string
	client  HTTPDoer
}

// New constructs a client for the daemon at baseURL with the given request
// timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewWithClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithClient constructs a client using the provided HTTP doer. Used by
// tests to inject fakes.
func NewWithClient(baseURL string, client HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
	}
}

// AnalysisStatus fetches the daemon's current analysis job state.
func (c *Client) AnalysisStatus(ctx context.Context) (AnalysisStatus, error) {
	var status AnalysisStatus
	if err := c.getJSON(ctx, "/api/analysis", &status); err != nil {
		return AnalysisStatus{}, fmt.Errorf("fetch analysis status: %w", err)
	}
	return status, nil
}

// Manifest fetches the daemon's recording list.
func (c *Client) Manifest(ctx context.Context) (Manifest, error) {
	var manifest Manifest
	if err := c.getJSON(ctx, "/api/qmdl-manifest", &manifest); err != nil {
		return Manifest{}, fmt.Errorf("fetch manifest: %w", err)
	}
	return manifest, nil
}

// AnalysisReport fetches the raw line-oriented analysis log for a recording.
func (c *Client) AnalysisReport(ctx context.Context, name string) (string, error) {
	body, err := c.get(ctx, "/api/analysis-report/"+url.PathEscape(name))
	if err != nil {
		return "", fmt.Errorf("fetch analysis report for %s: %w", name, err)
	}
	return body, nil
}

// GetReport fetches and parses the analysis report for a recording. This is
// the assembled-report surface the synchronizer and CLI consume.
func (c *Client) GetReport(ctx context.Context, name string) (*report.Report, error) {
	text, err := c.AnalysisReport(ctx, name)
	if err != nil {
		return nil, err
	}
	rep, err := report.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse analysis report for %s: %w", name, err)
	}
	return rep, nil
}

// StartAnalysis asks the daemon to enqueue analysis for a recording.
func (c *Client) StartAnalysis(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analysis/"+url.PathEscape(name), nil)
	if err != nil {
		return fmt.Errorf("build analysis request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("start analysis for %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("start analysis for %s: %w", name, &StatusError{Code: resp.StatusCode, Body: string(body)})
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
