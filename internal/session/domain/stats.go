package domain

// Stats tracks per-session focus counters. Every counter is monotonically
// non-decreasing and mutated only on phase completion events (plus the
// elapsed-focus credit applied when a session stops mid-work).
type Stats struct {
	// PomosCompleted counts fully completed work intervals.
	PomosCompleted int `json:"pomos_completed"`
	// PomosElapsed counts attempted work intervals, completed or not.
	PomosElapsed int `json:"pomos_elapsed"`
	// SecondsCompleted accumulates seconds of completed focus time.
	SecondsCompleted int `json:"seconds_completed"`
}
