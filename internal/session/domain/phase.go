package domain

// Phase describes the current interval of a session.
type Phase string

const (
	// PhaseCountdown is a one-shot pre-session countdown.
	PhaseCountdown Phase = "COUNTDOWN"
	// PhaseWork is a focus interval.
	PhaseWork Phase = "WORK"
	// PhaseShortBreak is the break between work intervals.
	PhaseShortBreak Phase = "SHORT_BREAK"
	// PhaseLongBreak is the break after a full cycle of work intervals.
	PhaseLongBreak Phase = "LONG_BREAK"
)

// Valid reports whether the phase is one of the defined values.
func (p Phase) Valid() bool {
	switch p {
	case PhaseCountdown, PhaseWork, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

// IsWork reports whether the phase enforces the mute policy. Countdowns
// count as work for mute purposes.
func (p Phase) IsWork() bool {
	return p == PhaseWork || p == PhaseCountdown
}

// IsBreak reports whether the phase is a break.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// DisplayName returns the user-facing name of the phase.
func (p Phase) DisplayName() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhaseWork:
		return "work"
	case PhaseShortBreak:
		return "short break"
	case PhaseLongBreak:
		return "long break"
	}
	return string(p)
}
