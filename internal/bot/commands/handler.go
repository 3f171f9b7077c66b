// Package commands implements the slash-command surface: argument
// validation, session manager calls, and the two-phase reply contract
// with channel fallback once an acknowledgement expires.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
	perrors "github.com/apxxxxxxe/Pomomo-sub001/internal/platform/errors"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/session/domain"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/session/manager"
)

// Handler executes commands against the session manager.
type Handler struct {
	manager *manager.Manager
	dir     chat.Directory
	msgr    chat.Messenger
	log     *logrus.Entry
}

// NewHandler wires the command surface.
func NewHandler(m *manager.Manager, dir chat.Directory, msgr chat.Messenger, log *logrus.Entry) *Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{manager: m, dir: dir, msgr: msgr, log: log}
}

// PomodoroOptions are the optional interval overrides for /pomodoro.
type PomodoroOptions struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
	Intervals  int
}

// Pomodoro starts a work session in the invoker's voice channel.
func (h *Handler) Pomodoro(ctx context.Context, r chat.Responder, opts PomodoroOptions) {
	h.acknowledge(ctx, r)

	voiceChannel, err := h.invokerVoiceChannel(ctx, r)
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}

	info, err := h.manager.Create(ctx, manager.CreateInput{
		GuildID:        r.GuildID(),
		VoiceChannelID: voiceChannel,
		TextChannelID:  r.ChannelID(),
		Phase:          domain.PhaseWork,
		Settings: domain.Settings{
			Work:       opts.Work,
			ShortBreak: opts.ShortBreak,
			LongBreak:  opts.LongBreak,
			Intervals:  opts.Intervals,
		},
	})
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}

	h.reply(ctx, r, fmt.Sprintf(
		"Starting a pomodoro: %s focus, %s short breaks, %s long break every %d intervals. Time to focus!",
		minutes(info.Settings.Work), minutes(info.Settings.ShortBreak),
		minutes(info.Settings.LongBreak), info.Settings.Intervals,
	))
}

// Countdown starts a one-shot countdown session.
func (h *Handler) Countdown(ctx context.Context, r chat.Responder, duration time.Duration) {
	h.acknowledge(ctx, r)

	voiceChannel, err := h.invokerVoiceChannel(ctx, r)
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}

	info, err := h.manager.Create(ctx, manager.CreateInput{
		GuildID:        r.GuildID(),
		VoiceChannelID: voiceChannel,
		TextChannelID:  r.ChannelID(),
		Phase:          domain.PhaseCountdown,
		Settings:       domain.Settings{Work: duration},
	})
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}

	h.reply(ctx, r, fmt.Sprintf("Countdown started: %s on the clock.", minutes(info.Settings.Work)))
}

// Stop ends the session and reports the final tally.
func (h *Handler) Stop(ctx context.Context, r chat.Responder) {
	h.acknowledge(ctx, r)

	info, err := h.manager.Stop(ctx, r.GuildID(), r.UserID())
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}

	h.reply(ctx, r, fmt.Sprintf(
		"Session over. %d of %d pomodoros completed, %s of focus banked. Nice work!",
		info.Stats.PomosCompleted, info.Stats.PomosElapsed,
		focusTime(info.Stats.SecondsCompleted),
	))
}

// Skip forces the current phase to complete.
func (h *Handler) Skip(ctx context.Context, r chat.Responder) {
	h.acknowledge(ctx, r)

	info, err := h.manager.Skip(ctx, r.GuildID(), r.UserID())
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}
	h.reply(ctx, r, fmt.Sprintf("Skipped ahead to %s.", info.Phase.DisplayName()))
}

// Edit merges new interval settings into the running session.
func (h *Handler) Edit(ctx context.Context, r chat.Responder, opts PomodoroOptions) {
	h.acknowledge(ctx, r)

	info, err := h.manager.Edit(ctx, r.GuildID(), domain.Settings{
		Work:       opts.Work,
		ShortBreak: opts.ShortBreak,
		LongBreak:  opts.LongBreak,
		Intervals:  opts.Intervals,
	})
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}
	h.reply(ctx, r, fmt.Sprintf(
		"Settings updated: %s/%s/%s x%d. They apply from the next interval.",
		minutes(info.Settings.Work), minutes(info.Settings.ShortBreak),
		minutes(info.Settings.LongBreak), info.Settings.Intervals,
	))
}

// AutoMute toggles the mute-everyone policy.
func (h *Handler) AutoMute(ctx context.Context, r chat.Responder, enable bool) {
	h.acknowledge(ctx, r)

	var err error
	if enable {
		err = h.manager.EnableAutoMute(ctx, r.GuildID(), r.UserID())
	} else {
		err = h.manager.DisableAutoMute(ctx, r.GuildID(), r.UserID())
	}
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}
	if enable {
		h.reply(ctx, r, "Auto-mute enabled. Everyone in the voice channel stays muted during focus time.")
		return
	}
	h.reply(ctx, r, "Auto-mute disabled. Members have been unmuted.")
}

// Stats reports the live counters and the recorded history.
func (h *Handler) Stats(ctx context.Context, r chat.Responder) {
	h.acknowledge(ctx, r)

	info, summary, err := h.manager.Stats(ctx, r.GuildID())
	if err != nil {
		h.replyError(ctx, r, err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current phase: %s, %s remaining.\n", info.Phase.DisplayName(), clock(info.Remaining))
	fmt.Fprintf(&b, "This session: %d/%d pomodoros, %s of focus.",
		info.Stats.PomosCompleted, info.Stats.PomosElapsed, focusTime(info.Stats.SecondsCompleted))
	if summary.WorkIntervals > 0 {
		fmt.Fprintf(&b, "\nAll time: %d work intervals, %d completed, %s of focus.",
			summary.WorkIntervals, summary.CompletedWork, focusTime(int(summary.TotalFocusTime/time.Second)))
	}
	h.reply(ctx, r, b.String())
}

// invokerVoiceChannel resolves the channel the invoker occupies, as a
// domain condition when they are not in voice.
func (h *Handler) invokerVoiceChannel(ctx context.Context, r chat.Responder) (string, error) {
	channelID, err := h.dir.MemberVoiceChannel(ctx, r.GuildID(), r.UserID())
	if err != nil {
		return "", perrors.Wrap(perrors.CodeUnknown, "resolve voice channel", err)
	}
	if channelID == "" {
		return "", perrors.New(perrors.CodeNotInVoice, "join a voice channel first, then start the session")
	}
	return channelID, nil
}

func (h *Handler) acknowledge(ctx context.Context, r chat.Responder) {
	if err := r.Acknowledge(ctx); err != nil {
		h.log.WithError(err).Debug("acknowledge interaction")
	}
}

// reply completes the interaction, falling back to a direct channel post
// when the acknowledgement has expired.
func (h *Handler) reply(ctx context.Context, r chat.Responder, content string) {
	h.deliver(ctx, r, content, false)
}

// replyError renders a command failure. Domain conditions read as plain
// guidance; authorization failures are delivered persistently; anything
// else is logged and degraded to a generic notice.
func (h *Handler) replyError(ctx context.Context, r chat.Responder, err error) {
	code := perrors.CodeOf(err)
	switch {
	case code == perrors.CodePermissionDenied:
		h.deliver(ctx, r, err.Error(), true)
	case code.IsDomainCondition():
		h.deliver(ctx, r, err.Error(), false)
	default:
		h.log.WithError(err).WithField("guild_id", r.GuildID()).Error("command failed")
		h.deliver(ctx, r, "Something went wrong. Please try again.", false)
	}
}

func (h *Handler) deliver(ctx context.Context, r chat.Responder, content string, persistent bool) {
	var err error
	if persistent {
		err = r.RespondPersistent(ctx, content)
	} else {
		err = r.Respond(ctx, content)
	}
	if err == nil {
		return
	}
	if !errors.Is(err, chat.ErrExpired) {
		h.log.WithError(err).Warn("respond to interaction")
	}
	if _, err := h.msgr.Send(ctx, r.ChannelID(), content, false); err != nil {
		h.log.WithError(err).Warn("fallback channel post")
	}
}

func minutes(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	return fmt.Sprintf("%dm", int(d/time.Minute))
}

func focusTime(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", seconds)
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
