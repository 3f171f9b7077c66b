// Package chat defines the narrow capability interfaces the session engine
// consumes from the hosting chat platform, together with the platform
// failure taxonomy. Implementations live outside the core; tests use fakes.
package chat

import (
	"context"
	"errors"
)

var (
	// ErrExpired indicates an acknowledgement or message reference that the
	// platform no longer accepts edits or follow-ups for.
	ErrExpired = errors.New("acknowledgement expired")
	// ErrUnavailable indicates a transient platform outage.
	ErrUnavailable = errors.New("service unavailable")
	// ErrNotConnected indicates the target member is not connected to a
	// voice channel.
	ErrNotConnected = errors.New("member not connected to voice")
	// ErrMissingPermission indicates the bot lacks the platform permission
	// required for the operation in the target channel.
	ErrMissingPermission = errors.New("missing permission")
)

// Member is a point-in-time snapshot of a voice channel occupant.
type Member struct {
	UserID      string
	DisplayName string
	Bot         bool
	ChannelID   string
	ServerMuted bool
}

// Channel identifies a guild channel.
type Channel struct {
	ID   string
	Name string
}

// VoiceEvent is a membership-change notification: a member joined, left, or
// changed mute state, with before/after snapshots.
type VoiceEvent struct {
	GuildID         string
	UserID          string
	DisplayName     string
	Bot             bool
	BeforeChannelID string
	AfterChannelID  string
	BeforeMuted     bool
	AfterMuted      bool
}

// Messenger sends, edits, and deletes messages in text channels.
// Operations fail with ErrExpired, ErrUnavailable, or an opaque error.
type Messenger interface {
	// Send posts content to a channel and returns the message ID. Silent
	// messages suppress notifications.
	Send(ctx context.Context, channelID, content string, silent bool) (string, error)
	Edit(ctx context.Context, channelID, messageID, content string) error
	Delete(ctx context.Context, channelID, messageID string) error
}

// Responder is the two-phase acknowledge-now-respond-later contract for a
// single command invocation. Respond may fail with ErrExpired after the
// platform discards the acknowledgement; callers fall back to posting in
// the governing text channel via Messenger.
type Responder interface {
	// Acknowledge posts the deferred "thinking" placeholder.
	Acknowledge(ctx context.Context) error
	// Respond completes the acknowledgement with an ephemeral reply.
	Respond(ctx context.Context, content string) error
	// RespondPersistent completes with a non-expiring, non-ephemeral reply.
	RespondPersistent(ctx context.Context, content string) error

	GuildID() string
	ChannelID() string
	UserID() string
}

// MemberMuter sets a member's server-mute flag. Fails with ErrNotConnected,
// ErrMissingPermission, or an opaque error.
type MemberMuter interface {
	SetMute(ctx context.Context, guildID, userID string, mute bool) error
}

// PermissionQuery reports whether an actor holds authority in a channel.
type PermissionQuery interface {
	// CanMuteMembers reports mute or administrative authority.
	CanMuteMembers(ctx context.Context, channelID, userID string) (bool, error)
	CanSendMessages(ctx context.Context, channelID, userID string) (bool, error)
}

// Directory exposes guild structure snapshots.
type Directory interface {
	// VoiceMembers lists the current occupants of a voice channel,
	// including bots (callers filter on Member.Bot).
	VoiceMembers(ctx context.Context, guildID, channelID string) ([]Member, error)
	// MemberVoiceChannel returns the voice channel a member currently
	// occupies, or "" when disconnected.
	MemberVoiceChannel(ctx context.Context, guildID, userID string) (string, error)
	TextChannels(ctx context.Context, guildID string) ([]Channel, error)
	VoiceChannels(ctx context.Context, guildID string) ([]Channel, error)
	BotUserID() string
}

// VoiceGateway controls the bot's own voice connection per guild.
type VoiceGateway interface {
	Join(ctx context.Context, guildID, channelID string) error
	Leave(ctx context.Context, guildID string) error
	Connected(guildID string) bool
}
