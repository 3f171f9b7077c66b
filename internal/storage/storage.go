// Package storage defines the persistence interfaces consumed by the
// session manager.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/session/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// SessionStore persists session snapshots, one record per guild. Put
// supersedes any prior record for the same guild.
type SessionStore interface {
	Put(ctx context.Context, snap domain.Snapshot) error
	Get(ctx context.Context, guildID string) (domain.Snapshot, error)
	LoadAll(ctx context.Context) ([]domain.Snapshot, error)
	Delete(ctx context.Context, guildID string) error
	// DeleteOlderThan removes snapshots saved before cutoff and reports how
	// many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

// HistoryRecord is one completed (or abandoned) phase interval, kept for
// long-term stats beyond the live session counters.
type HistoryRecord struct {
	GuildID   string
	Phase     string
	StartedAt time.Time
	Duration  time.Duration
	Completed bool
}

// HistorySummary aggregates a guild's interval history.
type HistorySummary struct {
	WorkIntervals  int
	CompletedWork  int
	TotalFocusTime time.Duration
	LastInterval   time.Time
}

// HistoryStore records completed intervals per guild.
type HistoryStore interface {
	RecordInterval(ctx context.Context, rec HistoryRecord) error
	Summary(ctx context.Context, guildID string) (HistorySummary, error)
}
