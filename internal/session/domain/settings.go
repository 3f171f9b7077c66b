package domain

import (
	"errors"
	"time"
)

// MaxIntervalDuration caps every configurable interval.
const MaxIntervalDuration = 180 * time.Minute

// Default interval values applied when a field is left unset.
const (
	DefaultWork       = 25 * time.Minute
	DefaultShortBreak = 5 * time.Minute
	DefaultLongBreak  = 20 * time.Minute
	DefaultIntervals  = 4
)

// ErrInvalidSettings indicates an interval outside (0, MaxIntervalDuration]
// or a non-positive interval count.
var ErrInvalidSettings = errors.New("interval values must be positive and at most 180 minutes")

// Settings holds the immutable per-session interval configuration.
type Settings struct {
	Work       time.Duration `json:"work"`
	ShortBreak time.Duration `json:"short_break"`
	LongBreak  time.Duration `json:"long_break"`
	Intervals  int           `json:"intervals"`
}

// DefaultSettings returns the stock pomodoro configuration.
func DefaultSettings() Settings {
	return Settings{
		Work:       DefaultWork,
		ShortBreak: DefaultShortBreak,
		LongBreak:  DefaultLongBreak,
		Intervals:  DefaultIntervals,
	}
}

// NormalizeSettings fills unset fields with defaults and validates bounds.
func NormalizeSettings(s Settings) (Settings, error) {
	if s.Work == 0 {
		s.Work = DefaultWork
	}
	if s.ShortBreak == 0 {
		s.ShortBreak = DefaultShortBreak
	}
	if s.LongBreak == 0 {
		s.LongBreak = DefaultLongBreak
	}
	if s.Intervals == 0 {
		s.Intervals = DefaultIntervals
	}

	for _, d := range []time.Duration{s.Work, s.ShortBreak, s.LongBreak} {
		if d <= 0 || d > MaxIntervalDuration {
			return Settings{}, ErrInvalidSettings
		}
	}
	if s.Intervals < 1 {
		return Settings{}, ErrInvalidSettings
	}
	return s, nil
}

// Merge overlays the set fields of overrides onto s, returning the merged
// settings. Unset override fields keep the current values.
func (s Settings) Merge(overrides Settings) (Settings, error) {
	if overrides.Work != 0 {
		s.Work = overrides.Work
	}
	if overrides.ShortBreak != 0 {
		s.ShortBreak = overrides.ShortBreak
	}
	if overrides.LongBreak != 0 {
		s.LongBreak = overrides.LongBreak
	}
	if overrides.Intervals != 0 {
		s.Intervals = overrides.Intervals
	}
	return NormalizeSettings(s)
}

// PhaseDuration returns the configured duration for a phase. Countdowns run
// on the work duration.
func (s Settings) PhaseDuration(p Phase) time.Duration {
	switch p {
	case PhaseShortBreak:
		return s.ShortBreak
	case PhaseLongBreak:
		return s.LongBreak
	default:
		return s.Work
	}
}
