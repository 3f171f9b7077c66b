package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newWorkSession(t, Settings{
		Work:       50 * time.Minute,
		ShortBreak: 10 * time.Minute,
		LongBreak:  30 * time.Minute,
		Intervals:  3,
	})
	s.Stats = Stats{PomosCompleted: 2, PomosElapsed: 3, SecondsCompleted: 6000}
	s.IntervalProgress = 2
	s.Timeout = 1

	timer := TimerState{Remaining: 17 * time.Minute, Running: true}
	snap := s.Snapshot(timer, fixedNow)

	if snap.Version != SnapshotVersion {
		t.Fatalf("version = %q, want %q", snap.Version, SnapshotVersion)
	}
	if snap.SavedAt != fixedNow() {
		t.Fatalf("saved at = %v, want %v", snap.SavedAt, fixedNow())
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	restored, restoredTimer, err := RestoreSession(decoded)
	if err != nil {
		t.Fatalf("restore session: %v", err)
	}

	if restored.Settings != s.Settings {
		t.Fatalf("settings = %+v, want %+v", restored.Settings, s.Settings)
	}
	if restored.Stats != s.Stats {
		t.Fatalf("stats = %+v, want %+v", restored.Stats, s.Stats)
	}
	if restored.Phase != s.Phase {
		t.Fatalf("phase = %v, want %v", restored.Phase, s.Phase)
	}
	if restored.Timeout != s.Timeout {
		t.Fatalf("timeout = %d, want %d", restored.Timeout, s.Timeout)
	}
	if restored.IntervalProgress != s.IntervalProgress {
		t.Fatalf("interval progress = %d, want %d", restored.IntervalProgress, s.IntervalProgress)
	}
	if restoredTimer != timer {
		t.Fatalf("timer = %+v, want %+v", restoredTimer, timer)
	}
	if restored.GuildID != s.GuildID || restored.VoiceChannelID != s.VoiceChannelID {
		t.Fatalf("identity = %q/%q, want %q/%q", restored.GuildID, restored.VoiceChannelID, s.GuildID, s.VoiceChannelID)
	}
}

func TestRestoreSession_RejectsUnknownVersion(t *testing.T) {
	snap := newWorkSession(t, Settings{}).Snapshot(TimerState{}, fixedNow)
	snap.Version = "0.9"

	_, _, err := RestoreSession(snap)
	if !errors.Is(err, ErrUnsupportedSnapshot) {
		t.Fatalf("err = %v, want ErrUnsupportedSnapshot", err)
	}
}

func TestRestoreSession_ClampsNegativeRemaining(t *testing.T) {
	snap := newWorkSession(t, Settings{}).Snapshot(TimerState{Remaining: -time.Second}, fixedNow)

	_, timer, err := RestoreSession(snap)
	if err != nil {
		t.Fatalf("restore session: %v", err)
	}
	if timer.Remaining != 0 {
		t.Fatalf("remaining = %v, want 0", timer.Remaining)
	}
}
