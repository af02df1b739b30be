// Package audit persists capped, most-recent-first summaries of completed
// formatting runs. Persistence problems never fail a run: writes are logged
// diagnostically and a corrupted store reads as empty history.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// HistoryLimit caps the number of retained entries.
const HistoryLimit = 50

// Entry summarizes one completed remediation run.
type Entry struct {
	Timestamp      time.Time `json:"timestamp"`
	ChangesApplied int       `json:"changes_applied"`
	Categories     []string  `json:"categories"`
	DurationMS     int64     `json:"duration_ms"`
}

// KV is the scoped string key-value store the logger persists to. Get
// returns "" without error for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}

// Logger appends run summaries under one key per scope. One Logger is shared
// by every engine worker, so the read-modify-write in Log is serialized here.
type Logger struct {
	mu  sync.Mutex
	kv  KV
	key string
	log *slog.Logger
}

// NewLogger builds a logger writing under the given scope.
func NewLogger(kv KV, scope string, log *slog.Logger) *Logger {
	if scope == "" {
		scope = "global"
	}
	return &Logger{kv: kv, key: "formate:audit:" + scope, log: log}
}

// Log prepends an entry and truncates the history to HistoryLimit. Failures
// are logged, never returned. Concurrent callers are serialized so no
// completed run's entry is lost between the read and the write.
func (l *Logger) Log(ctx context.Context, e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	history := l.History(ctx)
	history = append([]Entry{e}, history...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	data, err := json.Marshal(history)
	if err != nil {
		l.log.Error("marshal audit history", "error", err)
		return
	}
	if err := l.kv.Set(ctx, l.key, string(data)); err != nil {
		l.log.Error("persist audit history", "error", err)
	}
}

// History returns the persisted entries, most recent first. A missing or
// corrupted value degrades to empty history.
func (l *Logger) History(ctx context.Context) []Entry {
	raw, err := l.kv.Get(ctx, l.key)
	if err != nil {
		l.log.Error("read audit history", "error", err)
		return []Entry{}
	}
	if raw == "" {
		return []Entry{}
	}
	var history []Entry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		l.log.Warn("corrupted audit history, treating as empty", "error", err)
		return []Entry{}
	}
	return history
}

// Clear drops the persisted history.
func (l *Logger) Clear(ctx context.Context) {
	if err := l.kv.Del(ctx, l.key); err != nil {
		l.log.Error("clear audit history", "error", err)
	}
}
