package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vasuvaghasia/formate/internal/docaccess"
	"github.com/vasuvaghasia/formate/internal/engine"
	"github.com/vasuvaghasia/formate/internal/report"
	"github.com/vasuvaghasia/formate/internal/styles"
)

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	// Limit total request size. Extra 1MB covers form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !docaccess.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	inPath, outPath, err := s.saveUpload(file, filename)
	if err != nil {
		s.log.Error("save upload", "filename", filename, "error", err)
		jsonError(w, "failed to store uploaded file", http.StatusInternalServerError)
		return
	}

	access, err := docaccess.ForFile(inPath, outPath)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	run := s.engine.NewRun(access, filename, outPath, opts)
	runID := run.ID
	if err := s.engine.Submit(run); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id":   runID,
		"status":   engine.StatusQueued,
		"poll_url": fmt.Sprintf("/api/format/runs/%s", runID),
	})
}

// parseOptions builds run options from form fields: template defaults are
// merged first, then explicit form toggles win.
func (s *Server) parseOptions(r *http.Request) (styles.AutoFormatOptions, error) {
	opts := styles.DefaultOptions()

	templateID := r.FormValue("template")
	if templateID == "" {
		templateID = opts.TemplateID
	}
	opts, err := s.engine.Registry().ApplyTemplateSettings(opts, templateID)
	if err != nil {
		return opts, err
	}

	if v := r.FormValue("mode"); v != "" {
		opts.Mode = styles.Mode(v)
	}
	if v := r.FormValue("processing"); v != "" {
		opts.Processing = styles.Processing(v)
	}
	for _, key := range []string{
		"fonts", "headings", "spacing", "lists", "tables",
		"images", "margins", "accessibility", "grammar", "citations", "repair",
	} {
		if v := r.FormValue(key); v != "" {
			opts.SetToggle(key, v == "true")
		}
	}

	return opts, opts.Validate()
}

// saveUpload stores the uploaded document in the work dir and returns its
// path plus the path for the remediated copy.
func (s *Server) saveUpload(file io.Reader, filename string) (string, string, error) {
	dir, err := os.MkdirTemp(s.cfg.WorkDir, "formate-run-")
	if err != nil {
		return "", "", fmt.Errorf("create work dir: %w", err)
	}

	inPath := filepath.Join(dir, filename)
	out, err := os.Create(inPath)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, s.cfg.MaxUploadBytes+1)); err != nil {
		return "", "", fmt.Errorf("write upload file: %w", err)
	}
	info, err := out.Stat()
	if err != nil {
		return "", "", err
	}
	if info.Size() > s.cfg.MaxUploadBytes {
		os.Remove(inPath)
		return "", "", fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}

	outPath := filepath.Join(dir, "formatted_"+filename)
	return inPath, outPath, nil
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run := s.engine.GetRun(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

func (s *Server) handleToggleChange(w http.ResponseWriter, r *http.Request) {
	run := s.engine.GetRun(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	if run.Snapshot().Status != engine.StatusReadyForReview {
		jsonError(w, "run is not awaiting review", http.StatusConflict)
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	changeID := chi.URLParam(r, "changeID")
	if !run.SetChangeEnabled(changeID, req.Enabled) {
		jsonError(w, fmt.Sprintf("unknown change id %q", changeID), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}

func (s *Server) handleApplyRun(w http.ResponseWriter, r *http.Request) {
	run := s.engine.GetRun(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	if run.Snapshot().Status != engine.StatusReadyForReview {
		jsonError(w, "run is not awaiting review", http.StatusConflict)
		return
	}

	var req struct {
		ChangeIDs []string `json:"change_ids"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	entry, err := s.engine.Apply(r.Context(), run, req.ChangeIDs, nil)
	if err != nil {
		var cfg *engine.ConfigurationFailure
		if errors.As(err, &cfg) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": run.ID,
		"status": run.Snapshot().Status,
		"audit":  entry,
	})
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	run := s.engine.GetRun(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	snap := run.Snapshot()
	switch snap.Status {
	case engine.StatusReadyForReview, engine.StatusApplying, engine.StatusDone, engine.StatusFailed:
	default:
		jsonError(w, "run has not been analyzed yet", http.StatusConflict)
		return
	}

	html, err := report.Render(snap.Filename, snap.Problems, snap.Changes)
	if err != nil {
		s.log.Error("render report", "run_id", snap.ID, "error", err)
		jsonError(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

func (s *Server) handleRunResult(w http.ResponseWriter, r *http.Request) {
	run := s.engine.GetRun(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	snap := run.Snapshot()
	if snap.Status != engine.StatusDone {
		jsonError(w, "run has no remediated document yet", http.StatusConflict)
		return
	}
	path := run.ResultPath()
	if path == "" {
		jsonError(w, "run has no file result", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "result file is missing", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
