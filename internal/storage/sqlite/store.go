// Package sqlite provides a SQLite-backed interval history store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/storage"
	_ "modernc.org/sqlite"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS interval_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	phase TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	duration_seconds INTEGER NOT NULL,
	completed INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interval_history_guild ON interval_history (guild_id, started_at);
`

// Store provides SQLite-backed interval history persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a history store and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(historySchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure history schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordInterval persists one finished phase interval.
func (s *Store) RecordInterval(ctx context.Context, rec storage.HistoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	rec.GuildID = strings.TrimSpace(rec.GuildID)
	rec.Phase = strings.TrimSpace(rec.Phase)
	if rec.GuildID == "" {
		return fmt.Errorf("guild id is required")
	}
	if rec.Phase == "" {
		return fmt.Errorf("phase is required")
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO interval_history (
	guild_id,
	phase,
	started_at,
	duration_seconds,
	completed,
	created_at
) VALUES (?, ?, ?, ?, ?, ?)
`,
		rec.GuildID,
		rec.Phase,
		rec.StartedAt.UTC(),
		int64(rec.Duration/time.Second),
		rec.Completed,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert interval record: %w", err)
	}
	return nil
}

// Summary aggregates a guild's recorded work intervals.
func (s *Store) Summary(ctx context.Context, guildID string) (storage.HistorySummary, error) {
	if err := ctx.Err(); err != nil {
		return storage.HistorySummary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.HistorySummary{}, fmt.Errorf("storage is not configured")
	}
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return storage.HistorySummary{}, fmt.Errorf("guild id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COALESCE(SUM(completed), 0),
	COALESCE(SUM(CASE WHEN completed THEN duration_seconds ELSE 0 END), 0),
	COALESCE(MAX(started_at), '')
FROM interval_history
WHERE guild_id = ? AND phase = 'WORK'
`, guildID)

	var (
		workIntervals int
		completedWork int
		focusSeconds  int64
		lastRaw       string
	)
	if err := row.Scan(&workIntervals, &completedWork, &focusSeconds, &lastRaw); err != nil {
		return storage.HistorySummary{}, fmt.Errorf("scan history summary: %w", err)
	}

	summary := storage.HistorySummary{
		WorkIntervals:  workIntervals,
		CompletedWork:  completedWork,
		TotalFocusTime: time.Duration(focusSeconds) * time.Second,
	}
	if lastRaw != "" {
		if last, err := parseStoredTime(lastRaw); err == nil {
			summary.LastInterval = last
		}
	}
	return summary, nil
}

// parseStoredTime handles the timestamp formats the sqlite driver may
// return for a TIMESTAMP column read through MAX().
func parseStoredTime(raw string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}
