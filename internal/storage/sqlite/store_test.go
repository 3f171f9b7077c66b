package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Open() error = nil, want error for empty path")
	}
}

func TestRecordIntervalValidation(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	err := store.RecordInterval(ctx, storage.HistoryRecord{Phase: "WORK"})
	if err == nil {
		t.Fatal("RecordInterval() error = nil, want error for missing guild id")
	}

	err = store.RecordInterval(ctx, storage.HistoryRecord{GuildID: "guild-1"})
	if err == nil {
		t.Fatal("RecordInterval() error = nil, want error for missing phase")
	}
}

func TestSummaryEmpty(t *testing.T) {
	store := openTempStore(t)

	summary, err := store.Summary(context.Background(), "guild-1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.WorkIntervals != 0 {
		t.Fatalf("WorkIntervals = %d, want 0", summary.WorkIntervals)
	}
	if summary.TotalFocusTime != 0 {
		t.Fatalf("TotalFocusTime = %v, want 0", summary.TotalFocusTime)
	}
}

func TestSummaryAggregatesWorkIntervals(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []storage.HistoryRecord{
		{GuildID: "guild-1", Phase: "WORK", StartedAt: start, Duration: 25 * time.Minute, Completed: true},
		{GuildID: "guild-1", Phase: "SHORT_BREAK", StartedAt: start.Add(25 * time.Minute), Duration: 5 * time.Minute, Completed: true},
		{GuildID: "guild-1", Phase: "WORK", StartedAt: start.Add(30 * time.Minute), Duration: 25 * time.Minute, Completed: false},
		{GuildID: "guild-2", Phase: "WORK", StartedAt: start, Duration: 25 * time.Minute, Completed: true},
	}
	for _, rec := range records {
		if err := store.RecordInterval(ctx, rec); err != nil {
			t.Fatalf("RecordInterval() error = %v", err)
		}
	}

	summary, err := store.Summary(ctx, "guild-1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.WorkIntervals != 2 {
		t.Fatalf("WorkIntervals = %d, want 2", summary.WorkIntervals)
	}
	if summary.CompletedWork != 1 {
		t.Fatalf("CompletedWork = %d, want 1", summary.CompletedWork)
	}
	if summary.TotalFocusTime != 25*time.Minute {
		t.Fatalf("TotalFocusTime = %v, want %v", summary.TotalFocusTime, 25*time.Minute)
	}
	if summary.LastInterval.IsZero() {
		t.Fatal("LastInterval is zero, want latest work interval start")
	}
}
