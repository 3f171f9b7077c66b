// Package automute implements the channel-wide mute policy for a focus
// session: a binary mute-everyone flag, toggled explicitly and enforced
// against membership events while the session is in a work phase.
package automute

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
	perrors "github.com/apxxxxxxe/Pomomo-sub001/internal/platform/errors"
)

// fallbackChannelName is tried when neither the session text channel nor a
// text channel named after the governed voice channel accepts messages.
const fallbackChannelName = "General"

// Config carries the dependencies and the governed channels for one
// session's mute policy.
type Config struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string

	Muter       chat.MemberMuter
	Messenger   chat.Messenger
	Permissions chat.PermissionQuery
	Directory   chat.Directory
	Voice       chat.VoiceGateway

	Log *logrus.Entry
}

// AutoMute enforces the mute-everyone policy for one session. The policy
// flag is guarded by its own mutex; platform calls are issued without
// holding it so event handling never blocks behind a bulk sweep.
type AutoMute struct {
	mu  sync.Mutex
	all bool

	guildID        string
	voiceChannelID string
	textChannelID  string

	muter chat.MemberMuter
	msgr  chat.Messenger
	perms chat.PermissionQuery
	dir   chat.Directory
	voice chat.VoiceGateway

	log *logrus.Entry
}

// New creates the policy executor for one session, policy inactive.
func New(cfg Config) *AutoMute {
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &AutoMute{
		guildID:        cfg.GuildID,
		voiceChannelID: cfg.VoiceChannelID,
		textChannelID:  cfg.TextChannelID,
		muter:          cfg.Muter,
		msgr:           cfg.Messenger,
		perms:          cfg.Permissions,
		dir:            cfg.Directory,
		voice:          cfg.Voice,
		log:            log.WithField("guild_id", cfg.GuildID),
	}
}

// Active reports whether the mute-everyone policy is enabled.
func (a *AutoMute) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.all
}

// Enable turns the policy on. When the session is in a work phase it
// immediately sweeps the governed channel, muting every present non-bot
// member; per-member failures are independent. Enabling an already-enabled
// policy is a domain condition with no platform calls. An invoker without
// mute authority aborts the toggle without mutating the policy.
func (a *AutoMute) Enable(ctx context.Context, invokerID string, workPhase bool) error {
	a.mu.Lock()
	if a.all {
		a.mu.Unlock()
		return perrors.New(perrors.CodeAutoMuteAlreadyEnabled, "auto-mute is already enabled")
	}
	a.mu.Unlock()

	if err := a.authorizeToggle(ctx, invokerID); err != nil {
		return err
	}

	a.mu.Lock()
	a.all = true
	a.mu.Unlock()

	if workPhase {
		a.sweep(ctx, true)
	}
	return nil
}

// Disable turns the policy off and immediately unmutes every present
// non-bot member of the governed channel, with the same per-member
// independence and invoker authorization as Enable.
func (a *AutoMute) Disable(ctx context.Context, invokerID string) error {
	a.mu.Lock()
	if !a.all {
		a.mu.Unlock()
		return perrors.New(perrors.CodeAutoMuteAlreadyDisabled, "auto-mute is already disabled")
	}
	a.mu.Unlock()

	if err := a.authorizeToggle(ctx, invokerID); err != nil {
		return err
	}

	a.mu.Lock()
	a.all = false
	a.mu.Unlock()

	a.sweep(ctx, false)
	return nil
}

// EnforceWorkPhase mutes every present non-bot member of the governed
// channel. The session manager calls it on each entry into a work phase
// while the policy is active.
func (a *AutoMute) EnforceWorkPhase(ctx context.Context) {
	if !a.Active() {
		return
	}
	a.sweep(ctx, true)
}

// HandleVoiceEvent reconciles one membership change against the policy.
func (a *AutoMute) HandleVoiceEvent(ctx context.Context, ev chat.VoiceEvent, workPhase bool) {
	in := EventInput{
		PolicyActive:   a.Active(),
		WorkPhase:      workPhase,
		ConnectionLive: a.voice != nil && a.voice.Connected(a.guildID),
		MemberIsBot:    ev.Bot,
		ServerMuted:    ev.AfterMuted,
		BeforeGoverned: ev.BeforeChannelID == a.voiceChannelID,
		AfterGoverned:  ev.AfterChannelID == a.voiceChannelID,
		InVoiceAfter:   ev.AfterChannelID != "",
	}

	switch Decide(in) {
	case ActionMute:
		a.setMute(ctx, ev.UserID, ev.DisplayName, true)
	case ActionUnmute:
		a.setMute(ctx, ev.UserID, ev.DisplayName, false)
	}
}

// authorizeToggle checks the invoker's mute authority in the governed
// voice channel.
func (a *AutoMute) authorizeToggle(ctx context.Context, invokerID string) error {
	ok, err := a.perms.CanMuteMembers(ctx, a.voiceChannelID, invokerID)
	if err != nil {
		return perrors.Wrap(perrors.CodeUnknown, "check mute authority", err)
	}
	if !ok {
		return perrors.New(perrors.CodePermissionDenied, "you need mute-members authority to toggle auto-mute")
	}
	return nil
}

// sweep applies the given mute flag to every present non-bot member of the
// governed channel whose flag differs. One member's failure never aborts
// the rest.
func (a *AutoMute) sweep(ctx context.Context, mute bool) {
	members, err := a.dir.VoiceMembers(ctx, a.guildID, a.voiceChannelID)
	if err != nil {
		a.log.WithError(err).Warn("list voice members for mute sweep")
		return
	}
	for _, m := range members {
		if m.Bot || m.ServerMuted == mute {
			continue
		}
		a.setMute(ctx, m.UserID, m.DisplayName, mute)
	}
}

// setMute performs one member mute call with the failure fallbacks: a
// disconnected member is skipped, a permission fault degrades to a
// guidance message, anything else is logged and notified best-effort.
func (a *AutoMute) setMute(ctx context.Context, userID, displayName string, mute bool) {
	err := a.muter.SetMute(ctx, a.guildID, userID, mute)
	if err == nil {
		return
	}

	log := a.log.WithFields(logrus.Fields{"user_id": userID, "mute": mute})
	switch {
	case errors.Is(err, chat.ErrNotConnected):
		log.Debug("member left voice before mute change applied")
	case errors.Is(err, chat.ErrMissingPermission):
		log.Warn("missing permission for mute change")
		a.sendGuidance(ctx, displayName, mute)
	default:
		log.WithError(err).Error("mute change failed")
		a.notify(ctx, fmt.Sprintf("Could not change the mute state of %s. Please check my permissions.", displayName))
	}
}

// sendGuidance tells the affected member where the bot does hold mute
// authority, or how to recover when no such channel exists.
func (a *AutoMute) sendGuidance(ctx context.Context, displayName string, mute bool) {
	verb := "unmute"
	if mute {
		verb = "mute"
	}
	if alt := a.findPermittedVoiceChannel(ctx); alt != "" {
		a.notify(ctx, fmt.Sprintf("%s: I can't %s you in your current channel. Join %q and I can manage your mute state there.", displayName, verb, alt))
		return
	}
	a.notify(ctx, fmt.Sprintf("%s: I can't %s you in your current channel. Rejoin the session's voice channel or disable auto-mute with /automute.", displayName, verb))
}

// findPermittedVoiceChannel scans the guild for a voice channel, other than
// the governed one, where the bot holds mute authority.
func (a *AutoMute) findPermittedVoiceChannel(ctx context.Context) string {
	channels, err := a.dir.VoiceChannels(ctx, a.guildID)
	if err != nil {
		a.log.WithError(err).Warn("list voice channels for guidance")
		return ""
	}
	botID := a.dir.BotUserID()
	for _, ch := range channels {
		if ch.ID == a.voiceChannelID {
			continue
		}
		ok, err := a.perms.CanMuteMembers(ctx, ch.ID, botID)
		if err != nil || !ok {
			continue
		}
		return ch.Name
	}
	return ""
}

// notify posts a message to the session's notice channel, best effort.
func (a *AutoMute) notify(ctx context.Context, content string) {
	channelID := a.NoticeChannel(ctx)
	if channelID == "" {
		a.log.Warn("no sendable text channel for notice")
		return
	}
	if _, err := a.msgr.Send(ctx, channelID, content, false); err != nil {
		a.log.WithError(err).Warn("send notice")
	}
}

// NoticeChannel resolves the channel user-facing notices go to: the
// session text channel when the bot can post there, otherwise a text
// channel named after the governed voice channel, then one named General,
// then the first sendable channel in the guild.
func (a *AutoMute) NoticeChannel(ctx context.Context) string {
	botID := a.dir.BotUserID()
	if ok, err := a.perms.CanSendMessages(ctx, a.textChannelID, botID); err == nil && ok {
		return a.textChannelID
	}

	texts, err := a.dir.TextChannels(ctx, a.guildID)
	if err != nil {
		a.log.WithError(err).Warn("list text channels for notice fallback")
		return ""
	}

	voiceName := ""
	if voices, err := a.dir.VoiceChannels(ctx, a.guildID); err == nil {
		for _, ch := range voices {
			if ch.ID == a.voiceChannelID {
				voiceName = ch.Name
				break
			}
		}
	}

	sendable := func(id string) bool {
		ok, err := a.perms.CanSendMessages(ctx, id, botID)
		return err == nil && ok
	}

	if voiceName != "" {
		for _, ch := range texts {
			if ch.Name == voiceName && sendable(ch.ID) {
				return ch.ID
			}
		}
	}
	for _, ch := range texts {
		if ch.Name == fallbackChannelName && sendable(ch.ID) {
			return ch.ID
		}
	}
	for _, ch := range texts {
		if sendable(ch.ID) {
			return ch.ID
		}
	}
	return ""
}
