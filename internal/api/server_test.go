package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vasuvaghasia/formate/internal/audit"
	"github.com/vasuvaghasia/formate/internal/config"
	"github.com/vasuvaghasia/formate/internal/engine"
	"github.com/vasuvaghasia/formate/internal/styles"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tmp := t.TempDir()

	auditLog := audit.NewLogger(audit.NewFileKV(filepath.Join(tmp, "history.json")), "test", log)
	eng := engine.New(styles.NewRegistry(), auditLog, nil, log, engine.Options{
		WorkerCount: 1,
		QueueSize:   4,
	})
	ctx, cancel := context.WithCancel(context.Background())
	eng.Start(ctx)
	t.Cleanup(func() {
		cancel()
		eng.Stop()
	})

	return NewServer(eng, log, config.Config{
		FormateAPIKey:  testAPIKey,
		MaxUploadBytes: 1 << 20,
		WorkDir:        tmp,
	})
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + testAPIKey, http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", tc.token)
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestListTemplates(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/templates", nil)))

	var resp struct {
		Templates []styles.FormatTemplate `json:"templates"`
		Count     int                     `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count < 4 {
		t.Errorf("expected at least the 4 builtin templates, got %d", resp.Count)
	}
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	io.WriteString(fw, content)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/format/runs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return authed(req)
}

const sampleHTML = `<html><body>
<h1>Quarterly Summary</h1>
<h3>Details</h3>
<p>Revenue grew modestly over the quarter.</p>
<img src="chart.png">
</body></html>`

func TestCreateRun_HTMLSuggest(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "summary.html", sampleHTML, map[string]string{
		"mode": "suggest",
	}))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("create run status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		RunID   string `json:"run_id"`
		PollURL string `json:"poll_url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.RunID == "" {
		t.Fatal("missing run_id")
	}

	snap := pollRun(t, srv, created.PollURL, engine.StatusReadyForReview)
	if len(snap.Problems) == 0 {
		t.Error("expected findings for a skipped heading level and a missing alt text")
	}
	for _, c := range snap.Changes {
		if c.Enabled {
			t.Errorf("suggest mode should leave change %s disabled", c.ID)
		}
	}

	// The review report is available once analysis completes.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, created.PollURL+"/report", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "summary.html") {
		t.Error("report missing the filename")
	}

	// No remediated file exists before anything is applied.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, created.PollURL+"/result", nil)))
	if rec.Code != http.StatusConflict {
		t.Errorf("result status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestCreateRun_RejectsUnknownTemplate(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "summary.html", sampleHTML, map[string]string{
		"template": "nonexistent",
	}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateRun_RejectsUnsupportedExtension(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "notes.txt", "plain text", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/format/runs/does-not-exist", nil)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/format/history", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var resp struct {
		Entries []audit.Entry `json:"entries"`
		Count   int           `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("fresh history count = %d, want 0", resp.Count)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/api/format/history", nil)))
	if rec.Code != http.StatusOK {
		t.Errorf("clear history status = %d", rec.Code)
	}
}

func pollRun(t *testing.T, srv *Server, pollURL string, want engine.RunStatus) engine.RunSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, pollURL, nil)))
		if rec.Code != http.StatusOK {
			t.Fatalf("poll status = %d", rec.Code)
		}
		var snap engine.RunSnapshot
		if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		switch snap.Status {
		case want:
			return snap
		case engine.StatusFailed:
			t.Fatalf("run failed: %s", snap.Error)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("run did not reach the expected status in time")
	return engine.RunSnapshot{}
}
