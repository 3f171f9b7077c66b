// Package manager owns the registry of live focus sessions: creation,
// lookup, termination, phase advancement on timer expiry, voice-event
// dispatch, idle sweeping, and snapshot persistence. The registry map has
// its own lock; each session serializes its mutable state behind a
// per-session mutex, and platform calls are issued outside both.
package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
	perrors "github.com/apxxxxxxe/Pomomo-sub001/internal/platform/errors"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/platform/schedule"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/session/automute"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/session/domain"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/session/timer"
	"github.com/apxxxxxxe/Pomomo-sub001/internal/storage"
)

const (
	// DefaultIdleThreshold is how many consecutive idle-sweep ticks with an
	// empty governed channel a session survives before termination.
	DefaultIdleThreshold = 2

	// platformCallTimeout bounds platform work triggered from timer
	// callbacks, which have no caller-supplied context.
	platformCallTimeout = 30 * time.Second
)

// Config carries the manager's dependencies.
type Config struct {
	Store   storage.SessionStore
	History storage.HistoryStore

	Messenger   chat.Messenger
	Muter       chat.MemberMuter
	Permissions chat.PermissionQuery
	Directory   chat.Directory
	Voice       chat.VoiceGateway

	// IdleThreshold overrides DefaultIdleThreshold when positive.
	IdleThreshold int

	Log *logrus.Entry
	Now func() time.Time
}

// Manager is the registry of live sessions, one per guild.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession

	store   storage.SessionStore
	history storage.HistoryStore

	msgr  chat.Messenger
	muter chat.MemberMuter
	perms chat.PermissionQuery
	dir   chat.Directory
	voice chat.VoiceGateway

	idleThreshold int

	log *logrus.Entry
	now func() time.Time
}

// liveSession pairs the pure session state with its timer and mute policy.
// mu serializes every state mutation for the guild.
type liveSession struct {
	mu    sync.Mutex
	state domain.Session
	timer *timer.Timer
	mute  *automute.AutoMute

	// bound reports whether the platform voice context is attached. It is
	// false for recovered sessions until the guild's voice state next
	// resolves; pendingResume restarts the timer at that point.
	bound         bool
	pendingResume bool

	// epoch counts committed phase transitions. A timer completion or a
	// skip armed against an older epoch is stale: the phase it wanted to
	// end already ended, so advancePhase drops it.
	epoch uint64
}

// New validates the dependencies and returns an empty manager.
func New(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if cfg.Messenger == nil || cfg.Muter == nil || cfg.Permissions == nil || cfg.Directory == nil || cfg.Voice == nil {
		return nil, fmt.Errorf("all chat capabilities are required")
	}
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	threshold := cfg.IdleThreshold
	if threshold <= 0 {
		threshold = DefaultIdleThreshold
	}
	return &Manager{
		sessions:      make(map[string]*liveSession),
		store:         cfg.Store,
		history:       cfg.History,
		msgr:          cfg.Messenger,
		muter:         cfg.Muter,
		perms:         cfg.Permissions,
		dir:           cfg.Directory,
		voice:         cfg.Voice,
		idleThreshold: threshold,
		log:           log,
		now:           now,
	}, nil
}

// Info is a read-only view of one live session.
type Info struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string

	Phase            domain.Phase
	Settings         domain.Settings
	Stats            domain.Stats
	IntervalProgress int

	Remaining time.Duration
	Running   bool
	MuteAll   bool
}

// CreateInput describes a session to start.
type CreateInput struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string
	Phase          domain.Phase
	Settings       domain.Settings
}

// Create starts a session for a guild, joins its voice channel, and arms
// the phase timer. It fails with SESSION_EXISTS when the guild already has
// one.
func (m *Manager) Create(ctx context.Context, input CreateInput) (Info, error) {
	state, err := domain.NewSession(domain.NewSessionInput{
		GuildID:        input.GuildID,
		VoiceChannelID: input.VoiceChannelID,
		TextChannelID:  input.TextChannelID,
		Phase:          input.Phase,
		Settings:       input.Settings,
	}, m.now)
	if err != nil {
		return Info{}, perrors.Wrap(perrors.CodeInvalidSettings, "invalid session settings", err)
	}

	ls := &liveSession{
		state: state,
		timer: timer.New(),
		mute:  m.newAutoMute(state),
		bound: true,
	}

	m.mu.Lock()
	if _, exists := m.sessions[state.GuildID]; exists {
		m.mu.Unlock()
		return Info{}, perrors.New(perrors.CodeSessionExists, "a session is already running in this server")
	}
	m.sessions[state.GuildID] = ls
	m.mu.Unlock()

	if err := m.voice.Join(ctx, state.GuildID, state.VoiceChannelID); err != nil {
		m.deregister(state.GuildID)
		return Info{}, perrors.Wrap(perrors.CodeUnknown, "join voice channel", err)
	}

	guildID := state.GuildID
	ls.mu.Lock()
	epoch := ls.epoch
	err = ls.timer.Start(state.Settings.PhaseDuration(state.Phase), func() {
		m.onTimerComplete(guildID, ls, epoch)
	})
	ls.mu.Unlock()
	if err != nil {
		m.deregister(guildID)
		_ = m.voice.Leave(ctx, guildID)
		return Info{}, perrors.Wrap(perrors.CodeUnknown, "arm phase timer", err)
	}

	m.persist(ctx, ls)
	return m.snapshotInfo(ls), nil
}

// Get returns the live session for a guild.
func (m *Manager) Get(guildID string) (Info, error) {
	ls := m.lookup(guildID)
	if ls == nil {
		return Info{}, perrors.New(perrors.CodeNoActiveSession, "no active session in this server")
	}
	return m.snapshotInfo(ls), nil
}

// Terminate tears a session down: cancel the timer, leave voice, delete
// the persisted record, and remove it from the registry. Idempotent.
func (m *Manager) Terminate(ctx context.Context, guildID string) error {
	ls := m.deregister(guildID)
	if ls == nil {
		return nil
	}

	ls.timer.Cancel()
	if err := m.voice.Leave(ctx, guildID); err != nil {
		m.log.WithError(err).WithField("guild_id", guildID).Warn("leave voice channel")
	}
	if err := m.store.Delete(ctx, guildID); err != nil {
		m.log.WithError(err).WithField("guild_id", guildID).Warn("delete session record")
	}
	return nil
}

// Stop ends a guild's session on user request. The invoker must share the
// governed voice channel. Focus time elapsed in a work phase is credited
// before the final stats are returned.
func (m *Manager) Stop(ctx context.Context, guildID, invokerID string) (Info, error) {
	ls := m.lookup(guildID)
	if ls == nil {
		return Info{}, perrors.New(perrors.CodeNoActiveSession, "no active session in this server")
	}
	if err := m.requireSameChannel(ctx, ls, invokerID); err != nil {
		return Info{}, err
	}

	ls.mu.Lock()
	ls.state.CreditElapsedFocus(m.now)
	rec := storage.HistoryRecord{
		GuildID:   ls.state.GuildID,
		Phase:     string(ls.state.Phase),
		StartedAt: ls.state.StartedAt,
		Duration:  m.now().UTC().Sub(ls.state.StartedAt),
		Completed: false,
	}
	info := ls.infoLocked()
	ls.mu.Unlock()

	m.recordHistory(ctx, rec)
	if err := m.Terminate(ctx, guildID); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Skip forces immediate completion of the current phase, following the
// normal transition rules. Countdowns cannot be skipped.
func (m *Manager) Skip(ctx context.Context, guildID, invokerID string) (Info, error) {
	ls := m.lookup(guildID)
	if ls == nil {
		return Info{}, perrors.New(perrors.CodeNoActiveSession, "no active session in this server")
	}
	if err := m.requireSameChannel(ctx, ls, invokerID); err != nil {
		return Info{}, err
	}

	ls.mu.Lock()
	if ls.state.Phase == domain.PhaseCountdown {
		ls.mu.Unlock()
		return Info{}, perrors.New(perrors.CodeCountdownNoSkip, "countdowns cannot be skipped")
	}
	ls.state.Timeout = 0
	ls.timer.Cancel()
	epoch := ls.epoch
	ls.mu.Unlock()

	// A timer expiry racing this skip carries the same epoch, so
	// advancePhase commits whichever arrives first and drops the other.
	m.advancePhase(ctx, guildID, ls, epoch)
	return m.snapshotInfo(ls), nil
}

// Edit merges the set fields of overrides into the session settings. The
// running timer keeps its current deadline; new durations apply from the
// next phase.
func (m *Manager) Edit(ctx context.Context, guildID string, overrides domain.Settings) (Info, error) {
	ls := m.lookup(guildID)
	if ls == nil {
		return Info{}, perrors.New(perrors.CodeNoActiveSession, "no active session in this server")
	}

	ls.mu.Lock()
	merged, err := ls.state.Settings.Merge(overrides)
	if err != nil {
		ls.mu.Unlock()
		return Info{}, perrors.Wrap(perrors.CodeInvalidSettings, "invalid settings", err)
	}
	ls.state.Settings = merged
	ls.state.Timeout = 0
	ls.mu.Unlock()

	m.persist(ctx, ls)
	return m.snapshotInfo(ls), nil
}

// EnableAutoMute turns the mute-everyone policy on for a guild's session.
func (m *Manager) EnableAutoMute(ctx context.Context, guildID, invokerID string) error {
	ls := m.lookup(guildID)
	if ls == nil {
		return perrors.New(perrors.CodeNoActiveSession, "no active session in this server")
	}
	ls.touch()
	return ls.mute.Enable(ctx, invokerID, m.workPhase(ls))
}

// DisableAutoMute turns the policy off and unmutes present members.
func (m *Manager) DisableAutoMute(ctx context.Context, guildID, invokerID string) error {
	ls := m.lookup(guildID)
	if ls == nil {
		return perrors.New(perrors.CodeNoActiveSession, "no active session in this server")
	}
	ls.touch()
	return ls.mute.Disable(ctx, invokerID)
}

// Stats returns the live counters plus the recorded interval history.
func (m *Manager) Stats(ctx context.Context, guildID string) (Info, storage.HistorySummary, error) {
	ls := m.lookup(guildID)
	if ls == nil {
		return Info{}, storage.HistorySummary{}, perrors.New(perrors.CodeNoActiveSession, "no active session in this server")
	}
	ls.touch()
	info := m.snapshotInfo(ls)
	if m.history == nil {
		return info, storage.HistorySummary{}, nil
	}
	summary, err := m.history.Summary(ctx, guildID)
	if err != nil {
		m.log.WithError(err).WithField("guild_id", guildID).Warn("load interval history")
		return info, storage.HistorySummary{}, nil
	}
	return info, summary, nil
}

// HandleVoiceEvent dispatches a membership change to the guild's session,
// if any: idle accounting resets on qualifying activity, a recovered
// session is rebound to the platform, and the mute policy reconciles.
func (m *Manager) HandleVoiceEvent(ctx context.Context, ev chat.VoiceEvent) {
	ls := m.lookup(ev.GuildID)
	if ls == nil {
		return
	}

	ls.mu.Lock()
	governed := ls.state.VoiceChannelID
	touchesGoverned := ev.BeforeChannelID == governed || ev.AfterChannelID == governed
	if touchesGoverned && !ev.Bot {
		ls.state.Timeout = 0
	}
	needsRebind := !ls.bound && touchesGoverned
	ls.mu.Unlock()

	if needsRebind {
		m.rebind(ctx, ev.GuildID, ls)
	}

	ls.mute.HandleVoiceEvent(ctx, ev, m.workPhase(ls))
}

// RecoverAll loads every persisted snapshot at startup and registers the
// sessions with their platform context unbound; stale snapshots past
// maxAge are deleted first. Returns how many sessions were recovered.
func (m *Manager) RecoverAll(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge > 0 {
		cutoff := m.now().UTC().Add(-maxAge)
		if n, err := m.store.DeleteOlderThan(ctx, cutoff); err != nil {
			m.log.WithError(err).Warn("delete stale session records")
		} else if n > 0 {
			m.log.WithField("count", n).Info("deleted stale session records")
		}
	}

	snaps, err := m.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load session records: %w", err)
	}

	recovered := 0
	for _, snap := range snaps {
		state, ts, err := domain.RestoreSession(snap)
		if err != nil {
			m.log.WithError(err).WithField("guild_id", snap.GuildID).Warn("skip unrecoverable session record")
			continue
		}

		ls := &liveSession{
			state:         state,
			timer:         timer.New(),
			mute:          m.newAutoMute(state),
			bound:         false,
			pendingResume: ts.Running,
		}
		if err := ls.timer.Restore(ts.Remaining); err != nil {
			m.log.WithError(err).WithField("guild_id", state.GuildID).Warn("restore session timer")
			continue
		}

		m.mu.Lock()
		if _, exists := m.sessions[state.GuildID]; exists {
			m.mu.Unlock()
			continue
		}
		m.sessions[state.GuildID] = ls
		m.mu.Unlock()
		recovered++
	}
	return recovered, nil
}

// SaveAll snapshots every live session to the store. Persistence failures
// are logged and never interrupt the running sessions.
func (m *Manager) SaveAll(ctx context.Context) {
	for _, ls := range m.all() {
		m.persist(ctx, ls)
	}
}

// StartIdleSweep runs the idle check for every session on a fixed
// interval until the task is stopped.
func (m *Manager) StartIdleSweep(ctx context.Context, interval time.Duration) *schedule.Task {
	return schedule.Start(ctx, interval, m.sweepIdle)
}

// sweepIdle increments each session's idle counter when its governed
// channel has no non-bot members and terminates sessions past the
// threshold. One session's failure never stops the sweep.
func (m *Manager) sweepIdle(ctx context.Context) {
	for _, ls := range m.all() {
		guildID, channelID := ls.channels()
		log := m.log.WithField("guild_id", guildID)

		members, err := m.dir.VoiceMembers(ctx, guildID, channelID)
		if err != nil {
			log.WithError(err).Warn("idle sweep: list voice members")
			continue
		}
		occupied := false
		for _, member := range members {
			if !member.Bot {
				occupied = true
				break
			}
		}

		ls.mu.Lock()
		if occupied {
			ls.state.Timeout = 0
		} else {
			ls.state.Timeout++
		}
		expired := ls.state.Timeout > m.idleThreshold
		needsRebind := occupied && !ls.bound
		ls.mu.Unlock()

		// Members seated through a restart never produce a voice event, so
		// the sweep is the recovered session's other path back to the
		// platform.
		if needsRebind {
			m.rebind(ctx, guildID, ls)
		}

		if expired {
			log.Info("terminating idle session")
			m.announce(ctx, ls, "Ending the session: the voice channel has been empty for a while.")
			if err := m.Terminate(ctx, guildID); err != nil {
				log.WithError(err).Warn("idle sweep: terminate session")
			}
			continue
		}
		m.persist(ctx, ls)
	}
}

// onTimerComplete is the timer expiry callback. It runs on the timer's
// goroutine with no caller context, so platform work gets a bounded one.
// The ls pointer guards against a successor session under the same guild
// ID; the epoch guards against the phase having already advanced.
func (m *Manager) onTimerComplete(guildID string, ls *liveSession, epoch uint64) {
	if m.lookup(guildID) != ls {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), platformCallTimeout)
	defer cancel()
	m.advancePhase(ctx, guildID, ls, epoch)
}

// advancePhase applies the transition rules for the current phase ending,
// re-arms the timer for the next phase, persists, and then performs the
// platform side effects outside the session lock: history recording, the
// announcement, and work-phase mute enforcement. A completed countdown
// terminates the session instead. Each committed transition bumps the
// epoch; a call carrying a stale epoch is a no-op, so one phase end never
// advances the session twice.
func (m *Manager) advancePhase(ctx context.Context, guildID string, ls *liveSession, epoch uint64) {
	ls.mu.Lock()
	if ls.epoch != epoch {
		ls.mu.Unlock()
		return
	}
	ls.epoch++
	from := ls.state.Phase
	started := ls.state.StartedAt
	duration := ls.state.Settings.PhaseDuration(from)
	change := ls.state.CompletePhase(m.now)

	if !change.Ended {
		ls.timer.Cancel()
		next := ls.state.Settings.PhaseDuration(change.To)
		armed := ls.epoch
		if err := ls.timer.Start(next, func() { m.onTimerComplete(guildID, ls, armed) }); err != nil {
			m.log.WithError(err).WithField("guild_id", guildID).Error("re-arm phase timer")
		}
	}
	ls.mu.Unlock()

	m.recordHistory(ctx, storage.HistoryRecord{
		GuildID:   guildID,
		Phase:     string(from),
		StartedAt: started,
		Duration:  duration,
		Completed: true,
	})

	if change.Ended {
		m.announce(ctx, ls, "Countdown finished!")
		if err := m.Terminate(ctx, guildID); err != nil {
			m.log.WithError(err).WithField("guild_id", guildID).Warn("terminate after countdown")
		}
		return
	}

	m.persist(ctx, ls)
	m.announce(ctx, ls, phaseMessage(change, m.settings(ls)))
	if change.To == domain.PhaseWork {
		ls.mute.EnforceWorkPhase(ctx)
	}
}

// requireSameChannel checks that the invoker occupies the governed voice
// channel.
func (m *Manager) requireSameChannel(ctx context.Context, ls *liveSession, invokerID string) error {
	guildID, channelID := ls.channels()
	current, err := m.dir.MemberVoiceChannel(ctx, guildID, invokerID)
	if err != nil {
		return perrors.Wrap(perrors.CodeUnknown, "resolve invoker voice channel", err)
	}
	if current == "" {
		return perrors.New(perrors.CodeNotInVoice, "join the session's voice channel first")
	}
	if current != channelID {
		return perrors.New(perrors.CodeDifferentChannel, "you must be in the session's voice channel")
	}
	return nil
}

// rebind attaches a recovered session to the platform: rejoin voice and
// resume the timer if it was running at save time.
func (m *Manager) rebind(ctx context.Context, guildID string, ls *liveSession) {
	ls.mu.Lock()
	if ls.bound {
		ls.mu.Unlock()
		return
	}
	ls.bound = true
	resume := ls.pendingResume
	ls.pendingResume = false
	channelID := ls.state.VoiceChannelID
	epoch := ls.epoch
	ls.mu.Unlock()

	if err := m.voice.Join(ctx, guildID, channelID); err != nil {
		m.log.WithError(err).WithField("guild_id", guildID).Warn("rejoin voice channel")
	}
	if resume {
		if err := ls.timer.Resume(func() { m.onTimerComplete(guildID, ls, epoch) }); err != nil {
			m.log.WithError(err).WithField("guild_id", guildID).Warn("resume recovered timer")
		}
	}
}

func (m *Manager) newAutoMute(state domain.Session) *automute.AutoMute {
	return automute.New(automute.Config{
		GuildID:        state.GuildID,
		VoiceChannelID: state.VoiceChannelID,
		TextChannelID:  state.TextChannelID,
		Muter:          m.muter,
		Messenger:      m.msgr,
		Permissions:    m.perms,
		Directory:      m.dir,
		Voice:          m.voice,
		Log:            m.log,
	})
}

func (m *Manager) lookup(guildID string) *liveSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[guildID]
}

func (m *Manager) deregister(guildID string) *liveSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls := m.sessions[guildID]
	delete(m.sessions, guildID)
	return ls
}

func (m *Manager) all() []*liveSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*liveSession, 0, len(m.sessions))
	for _, ls := range m.sessions {
		out = append(out, ls)
	}
	return out
}

// persist writes a session snapshot to the store; failures are logged and
// non-fatal to the live session. The timer is read under the session lock
// so the stored remaining always belongs to the stored phase.
func (m *Manager) persist(ctx context.Context, ls *liveSession) {
	ls.mu.Lock()
	remaining, running := ls.timer.Snapshot()
	snap := ls.state.Snapshot(domain.TimerState{Remaining: remaining, Running: running}, m.now)
	ls.mu.Unlock()

	if err := m.store.Put(ctx, snap); err != nil {
		m.log.WithError(err).WithField("guild_id", snap.GuildID).Warn("persist session snapshot")
	}
}

func (m *Manager) recordHistory(ctx context.Context, rec storage.HistoryRecord) {
	if m.history == nil {
		return
	}
	if err := m.history.RecordInterval(ctx, rec); err != nil {
		m.log.WithError(err).WithField("guild_id", rec.GuildID).Warn("record interval history")
	}
}

// announce posts to the session's text channel, falling back to the best
// available notice channel when the post fails.
func (m *Manager) announce(ctx context.Context, ls *liveSession, content string) {
	textID := ls.textChannel()
	if textID == "" {
		textID = ls.mute.NoticeChannel(ctx)
	}
	if textID == "" {
		return
	}
	_, err := m.msgr.Send(ctx, textID, content, false)
	if err == nil {
		return
	}
	m.log.WithError(err).WithField("channel_id", textID).Warn("send announcement")
	if fallback := ls.mute.NoticeChannel(ctx); fallback != "" && fallback != textID {
		if _, err := m.msgr.Send(ctx, fallback, content, false); err != nil {
			m.log.WithError(err).WithField("channel_id", fallback).Warn("send announcement fallback")
		}
	}
}

func (m *Manager) snapshotInfo(ls *liveSession) Info {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.infoLocked()
}

func (m *Manager) workPhase(ls *liveSession) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.state.Phase.IsWork()
}

func (m *Manager) settings(ls *liveSession) domain.Settings {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.state.Settings
}

// infoLocked builds the read-only view; callers hold ls.mu.
func (ls *liveSession) infoLocked() Info {
	remaining, running := ls.timer.Snapshot()
	return Info{
		GuildID:          ls.state.GuildID,
		VoiceChannelID:   ls.state.VoiceChannelID,
		TextChannelID:    ls.state.TextChannelID,
		Phase:            ls.state.Phase,
		Settings:         ls.state.Settings,
		Stats:            ls.state.Stats,
		IntervalProgress: ls.state.IntervalProgress,
		Remaining:        remaining,
		Running:          running,
		MuteAll:          ls.mute.Active(),
	}
}

// touch resets the idle counter. Every session-scoped command counts as
// activity for the idle sweep.
func (ls *liveSession) touch() {
	ls.mu.Lock()
	ls.state.Timeout = 0
	ls.mu.Unlock()
}

// channels returns the guild and governed channel IDs without holding the
// lock longer than the reads.
func (ls *liveSession) channels() (guildID, voiceChannelID string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.state.GuildID, ls.state.VoiceChannelID
}

func (ls *liveSession) textChannel() string {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.state.TextChannelID
}

func phaseMessage(change domain.PhaseChange, s domain.Settings) string {
	switch change.To {
	case domain.PhaseWork:
		return fmt.Sprintf("Break's over! Focus for the next %s.", formatDuration(s.Work))
	case domain.PhaseShortBreak:
		return fmt.Sprintf("Good work! Take a %s break.", formatDuration(s.ShortBreak))
	case domain.PhaseLongBreak:
		return fmt.Sprintf("Interval set complete! Enjoy a %s long break.", formatDuration(s.LongBreak))
	default:
		return "Phase complete."
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
	mins := int(d / time.Minute)
	if mins == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}
