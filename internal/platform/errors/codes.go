// Package errors provides structured error handling for the bot core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session errors
	CodeNoActiveSession  Code = "NO_ACTIVE_SESSION"
	CodeSessionExists    Code = "SESSION_EXISTS"
	CodeInvalidSettings  Code = "INVALID_SETTINGS"
	CodeCountdownNoSkip  Code = "COUNTDOWN_SKIP_NOT_ALLOWED"
	CodeNotInVoice       Code = "NOT_IN_VOICE_CHANNEL"
	CodeDifferentChannel Code = "DIFFERENT_VOICE_CHANNEL"

	// AutoMute errors
	CodeAutoMuteAlreadyEnabled  Code = "AUTOMUTE_ALREADY_ENABLED"
	CodeAutoMuteAlreadyDisabled Code = "AUTOMUTE_ALREADY_DISABLED"
	CodePermissionDenied        Code = "PERMISSION_DENIED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// IsDomainCondition reports whether a code names an expected domain
// condition rather than a fault. Domain conditions are reported to the
// requester and never logged as errors.
func (c Code) IsDomainCondition() bool {
	switch c {
	case CodeNoActiveSession,
		CodeSessionExists,
		CodeInvalidSettings,
		CodeCountdownNoSkip,
		CodeNotInVoice,
		CodeDifferentChannel,
		CodeAutoMuteAlreadyEnabled,
		CodeAutoMuteAlreadyDisabled,
		CodePermissionDenied:
		return true
	}
	return false
}
