package automute

// Action is the outcome of evaluating one voice-membership event against
// the mute policy.
type Action int

const (
	// ActionNone means the event requires no platform call.
	ActionNone Action = iota
	// ActionMute means the member should be server-muted.
	ActionMute
	// ActionUnmute means the member should be server-unmuted.
	ActionUnmute
)

func (a Action) String() string {
	switch a {
	case ActionMute:
		return "mute"
	case ActionUnmute:
		return "unmute"
	default:
		return "none"
	}
}

// EventInput is a voice-membership event reduced to the facts the policy
// decides on. BeforeGoverned and AfterGoverned report whether the member's
// previous and current channels are the session's governed voice channel.
type EventInput struct {
	PolicyActive   bool
	WorkPhase      bool
	ConnectionLive bool
	MemberIsBot    bool
	ServerMuted    bool
	BeforeGoverned bool
	AfterGoverned  bool
	InVoiceAfter   bool
}

// Decide maps a membership event to the required action. Enforcement is
// gated on the work phase: joining the governed channel mutes only while
// policy is active, the phase is a work phase, and the voice connection is
// live; leaving it during enforcement unmutes. A server-muted member
// present in any non-governed channel is proactively unmuted.
func Decide(in EventInput) Action {
	if in.MemberIsBot {
		return ActionNone
	}

	enforced := in.PolicyActive && in.WorkPhase

	if in.AfterGoverned {
		if !in.BeforeGoverned && enforced && in.ConnectionLive && !in.ServerMuted {
			return ActionMute
		}
		return ActionNone
	}

	if !in.ServerMuted {
		return ActionNone
	}
	if in.BeforeGoverned && enforced {
		return ActionUnmute
	}
	if in.InVoiceAfter {
		return ActionUnmute
	}
	return ActionNone
}
