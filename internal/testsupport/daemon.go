package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"wavehunterctl/internal/daemonclient"
)

// DaemonServer is a stub wavehunter daemon backed by httptest. State is
// mutable between requests so tests can script job transitions.
type DaemonServer struct {
	t      testing.TB
	server *httptest.Server

	mu       sync.Mutex
	status   daemonclient.AnalysisStatus
	manifest daemonclient.Manifest
	reports  map[string]string
	started  []string
}

// NewDaemonServer starts a stub daemon and registers cleanup with t.
func NewDaemonServer(t testing.TB) *DaemonServer {
	t.Helper()

	d := &DaemonServer{
		t:       t,
		reports: make(map[string]string),
	}
	d.server = httptest.NewServer(http.HandlerFunc(d.handle))
	t.Cleanup(d.server.Close)
	return d
}

// URL returns the stub server's base URL.
func (d *DaemonServer) URL() string {
	return d.server.URL
}

// SetStatus replaces the analysis status served by /api/analysis.
func (d *DaemonServer) SetStatus(status daemonclient.AnalysisStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// SetManifest replaces the recording manifest served by /api/qmdl-manifest.
func (d *DaemonServer) SetManifest(manifest daemonclient.Manifest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.manifest = manifest
}

// SetReport sets the raw report text served for a recording.
func (d *DaemonServer) SetReport(name, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports[name] = text
}

// StartedAnalyses returns the recording names POSTed to /api/analysis in order.
func (d *DaemonServer) StartedAnalyses() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.started...)
}

func (d *DaemonServer) handle(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/analysis":
		d.writeJSON(w, d.status)
	case r.Method == http.MethodGet && r.URL.Path == "/api/qmdl-manifest":
		d.writeJSON(w, d.manifest)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/analysis-report/"):
		name := strings.TrimPrefix(r.URL.Path, "/api/analysis-report/")
		text, ok := d.reports[name]
		if !ok {
			http.Error(w, "no report", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write([]byte(text)); err != nil {
			d.t.Errorf("write report: %v", err)
		}
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/analysis/"):
		d.started = append(d.started, strings.TrimPrefix(r.URL.Path, "/api/analysis/"))
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (d *DaemonServer) writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		d.t.Errorf("encode response: %v", err)
	}
}
