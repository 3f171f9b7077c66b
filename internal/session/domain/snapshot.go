package domain

import (
	"errors"
	"time"
)

// SnapshotVersion tags the persisted snapshot schema.
const SnapshotVersion = "1.0"

// ErrUnsupportedSnapshot indicates a snapshot with an unknown schema version.
var ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")

// TimerState is the persisted projection of a session's countdown timer:
// the frozen remaining duration and whether it was running at save time.
type TimerState struct {
	Remaining time.Duration `json:"remaining"`
	Running   bool          `json:"running"`
}

// Snapshot is the serialized projection of a session, one record per guild.
// The platform context (voice connection, channels) is rebound on recovery.
type Snapshot struct {
	GuildID          string     `json:"guild_id"`
	VoiceChannelID   string     `json:"voice_channel_id"`
	TextChannelID    string     `json:"text_channel_id"`
	State            Phase      `json:"state"`
	Settings         Settings   `json:"settings"`
	Timer            TimerState `json:"timer"`
	Stats            Stats      `json:"stats"`
	IntervalProgress int        `json:"interval_progress"`
	Timeout          int        `json:"timeout"`
	StartedAt        time.Time  `json:"current_session_start_time"`
	SavedAt          time.Time  `json:"saved_at"`
	Version          string     `json:"version"`
}

// Snapshot projects the session and its timer state into a persistable
// record stamped with the schema version and save time.
func (s Session) Snapshot(timer TimerState, now func() time.Time) Snapshot {
	if now == nil {
		now = time.Now
	}
	return Snapshot{
		GuildID:          s.GuildID,
		VoiceChannelID:   s.VoiceChannelID,
		TextChannelID:    s.TextChannelID,
		State:            s.Phase,
		Settings:         s.Settings,
		Timer:            timer,
		Stats:            s.Stats,
		IntervalProgress: s.IntervalProgress,
		Timeout:          s.Timeout,
		StartedAt:        s.StartedAt,
		SavedAt:          now().UTC(),
		Version:          SnapshotVersion,
	}
}

// RestoreSession reconstructs a session and its timer state from a
// snapshot. The caller rebinds the platform context separately.
func RestoreSession(snap Snapshot) (Session, TimerState, error) {
	if snap.Version != SnapshotVersion {
		return Session{}, TimerState{}, ErrUnsupportedSnapshot
	}
	if snap.GuildID == "" {
		return Session{}, TimerState{}, ErrEmptyGuildID
	}
	if !snap.State.Valid() {
		return Session{}, TimerState{}, ErrInvalidPhase
	}
	settings, err := NormalizeSettings(snap.Settings)
	if err != nil {
		return Session{}, TimerState{}, err
	}

	session := Session{
		GuildID:          snap.GuildID,
		VoiceChannelID:   snap.VoiceChannelID,
		TextChannelID:    snap.TextChannelID,
		Phase:            snap.State,
		Settings:         settings,
		Stats:            snap.Stats,
		IntervalProgress: snap.IntervalProgress,
		Timeout:          snap.Timeout,
		StartedAt:        snap.StartedAt,
	}

	timer := snap.Timer
	if timer.Remaining < 0 {
		timer.Remaining = 0
	}
	return session, timer, nil
}
