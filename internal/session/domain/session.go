package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyGuildID indicates a missing guild ID.
	ErrEmptyGuildID = errors.New("guild id is required")
	// ErrInvalidPhase indicates a phase value outside the defined set.
	ErrInvalidPhase = errors.New("invalid session phase")
)

// Session is the pure state of one group-focus session: the current phase,
// the configured intervals, the accumulated stats, and the idle accounting.
// The countdown timer and the mute policy executor live outside this type;
// the session manager composes them.
type Session struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string

	Phase    Phase
	Settings Settings
	Stats    Stats

	// IntervalProgress counts completed work intervals since the last long
	// break. It resets to zero when a long break is selected.
	IntervalProgress int

	// Timeout accumulates idle-sweep ticks with an empty governed channel.
	Timeout int

	// StartedAt is when the current phase began. Used to credit partial
	// focus time when a session stops mid-work.
	StartedAt time.Time
}

// NewSessionInput describes the state needed to create a session.
type NewSessionInput struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string
	Phase          Phase
	Settings       Settings
}

// NewSession creates a session in the given starting phase with normalized
// settings. Starting in WORK counts as the first attempted interval.
func NewSession(input NewSessionInput, now func() time.Time) (Session, error) {
	if now == nil {
		now = time.Now
	}

	input.GuildID = strings.TrimSpace(input.GuildID)
	if input.GuildID == "" {
		return Session{}, ErrEmptyGuildID
	}
	if !input.Phase.Valid() {
		return Session{}, ErrInvalidPhase
	}
	settings, err := NormalizeSettings(input.Settings)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		GuildID:        input.GuildID,
		VoiceChannelID: input.VoiceChannelID,
		TextChannelID:  input.TextChannelID,
		Phase:          input.Phase,
		Settings:       settings,
		StartedAt:      now().UTC(),
	}
	if input.Phase == PhaseWork {
		s.Stats.PomosElapsed = 1
	}
	return s, nil
}

// PhaseChange describes the result of completing a phase.
type PhaseChange struct {
	From Phase
	To   Phase
	// Ended reports that the session is finished instead of transitioning
	// (countdown completion).
	Ended bool
}

// CompletePhase applies the transition rules for the current phase ending,
// whether by timer expiry or by an explicit skip:
//
//	WORK       -> SHORT_BREAK, or LONG_BREAK every Settings.Intervals
//	             completed work intervals (the progress counter resets)
//	any break  -> WORK
//	COUNTDOWN  -> session ends
//
// Work completion credits the stats counters.
func (s *Session) CompletePhase(now func() time.Time) PhaseChange {
	if now == nil {
		now = time.Now
	}
	change := PhaseChange{From: s.Phase}

	switch s.Phase {
	case PhaseCountdown:
		change.Ended = true
		return change
	case PhaseWork:
		s.Stats.PomosCompleted++
		s.Stats.SecondsCompleted += int(s.Settings.Work / time.Second)
		s.IntervalProgress++
		if s.IntervalProgress >= s.Settings.Intervals {
			s.IntervalProgress = 0
			s.Phase = PhaseLongBreak
		} else {
			s.Phase = PhaseShortBreak
		}
	default:
		s.Phase = PhaseWork
		s.Stats.PomosElapsed++
	}

	s.StartedAt = now().UTC()
	change.To = s.Phase
	return change
}

// CreditElapsedFocus adds the focus time elapsed since the current phase
// began. Called when a session stops mid-work; no-op outside work phases.
func (s *Session) CreditElapsedFocus(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	if s.Phase != PhaseWork || s.StartedAt.IsZero() {
		return
	}
	elapsed := int(now().UTC().Sub(s.StartedAt) / time.Second)
	if elapsed > 0 {
		s.Stats.SecondsCompleted += elapsed
	}
}
