package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testLogger(t *testing.T) *Logger {
	t.Helper()
	s := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis kv: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return NewLogger(kv, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func entry(n int) Entry {
	return Entry{
		Timestamp:      time.Date(2026, 1, 1, 0, 0, n, 0, time.UTC),
		ChangesApplied: n,
		Categories:     []string{"Fonts"},
		DurationMS:     int64(n * 10),
	}
}

func TestLogAndHistory_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	l := testLogger(t)

	l.Log(ctx, entry(1))
	l.Log(ctx, entry(2))
	l.Log(ctx, entry(3))

	history := l.History(ctx)
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	if history[0].ChangesApplied != 3 || history[2].ChangesApplied != 1 {
		t.Errorf("history not most-recent-first: %+v", history)
	}
	if !history[0].Timestamp.Equal(entry(3).Timestamp) {
		t.Errorf("timestamp lost in round trip: %v", history[0].Timestamp)
	}
}

func TestLog_CapsAtFifty(t *testing.T) {
	ctx := context.Background()
	l := testLogger(t)

	for i := 1; i <= 60; i++ {
		l.Log(ctx, entry(i))
	}

	history := l.History(ctx)
	if len(history) != HistoryLimit {
		t.Fatalf("expected %d entries, got %d", HistoryLimit, len(history))
	}
	if history[0].ChangesApplied != 60 {
		t.Errorf("newest entry should be first, got %d", history[0].ChangesApplied)
	}
	if history[HistoryLimit-1].ChangesApplied != 11 {
		t.Errorf("oldest retained entry should be 11, got %d", history[HistoryLimit-1].ChangesApplied)
	}
}

func TestLog_ConcurrentWritersLoseNothing(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://" + s.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	l := NewLogger(slowKV{kv}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Log(ctx, entry(i))
		}()
	}
	wg.Wait()

	if got := len(l.History(ctx)); got != 20 {
		t.Errorf("expected all 20 concurrent entries retained, got %d", got)
	}
}

// slowKV stretches the store round trip so an unserialized read-modify-write
// in Log would interleave and drop entries.
type slowKV struct{ kv KV }

func (s slowKV) Get(ctx context.Context, key string) (string, error) {
	time.Sleep(2 * time.Millisecond)
	return s.kv.Get(ctx, key)
}

func (s slowKV) Set(ctx context.Context, key, value string) error {
	time.Sleep(2 * time.Millisecond)
	return s.kv.Set(ctx, key, value)
}

func (s slowKV) Del(ctx context.Context, key string) error { return s.kv.Del(ctx, key) }

func TestHistory_CorruptedValueIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://" + s.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()
	l := NewLogger(kv, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Set("formate:audit:test", "{not json")

	history := l.History(ctx)
	if len(history) != 0 {
		t.Errorf("corrupted store should read as empty, got %+v", history)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	l := testLogger(t)
	l.Log(ctx, entry(1))
	l.Clear(ctx)
	if history := l.History(ctx); len(history) != 0 {
		t.Errorf("expected empty history after clear, got %d entries", len(history))
	}
}

func TestLog_WriteFailureDoesNotPanic(t *testing.T) {
	ctx := context.Background()
	l := NewLogger(failingKV{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	l.Log(ctx, entry(1)) // must not panic or propagate
	if history := l.History(ctx); len(history) != 0 {
		t.Errorf("expected empty history from failing store, got %d", len(history))
	}
}

func TestFileKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewFileKV(filepath.Join(t.TempDir(), "state", "audit.json"))
	l := NewLogger(kv, "cli", slog.New(slog.NewTextHandler(io.Discard, nil)))

	l.Log(ctx, entry(1))
	l.Log(ctx, entry(2))

	history := l.History(ctx)
	if len(history) != 2 || history[0].ChangesApplied != 2 {
		t.Errorf("unexpected history from file store: %+v", history)
	}
}

func TestStoreErrors_ArePersistenceFailures(t *testing.T) {
	// A directory path makes every read fail at the filesystem.
	kv := NewFileKV(t.TempDir())
	_, err := kv.Get(context.Background(), "k")
	var pf *PersistenceFailure
	if !errors.As(err, &pf) {
		t.Fatalf("expected PersistenceFailure, got %v", err)
	}
	if pf.Op != "read" {
		t.Errorf("expected read op, got %q", pf.Op)
	}

	// The logger still degrades rather than propagating it.
	l := NewLogger(kv, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if history := l.History(context.Background()); len(history) != 0 {
		t.Errorf("expected degraded empty history, got %d entries", len(history))
	}
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) (string, error) {
	return "", fmt.Errorf("kv down")
}
func (failingKV) Set(ctx context.Context, key, value string) error { return fmt.Errorf("kv down") }
func (failingKV) Del(ctx context.Context, key string) error        { return fmt.Errorf("kv down") }
