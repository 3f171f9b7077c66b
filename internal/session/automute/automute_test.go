package automute

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
	perrors "github.com/apxxxxxxe/Pomomo-sub001/internal/platform/errors"
)

type muteCall struct {
	userID string
	mute   bool
}

type fakeMuter struct {
	calls []muteCall
	fail  map[string]error
}

func (f *fakeMuter) SetMute(_ context.Context, _, userID string, mute bool) error {
	f.calls = append(f.calls, muteCall{userID: userID, mute: mute})
	if err, ok := f.fail[userID]; ok {
		return err
	}
	return nil
}

type fakeMessenger struct {
	sent []string
}

func (f *fakeMessenger) Send(_ context.Context, _, content string, _ bool) (string, error) {
	f.sent = append(f.sent, content)
	return "msg-1", nil
}

func (f *fakeMessenger) Edit(context.Context, string, string, string) error { return nil }
func (f *fakeMessenger) Delete(context.Context, string, string) error       { return nil }

type fakePerms struct {
	muteAuthority map[string]bool // key: channelID + "/" + userID
	sendAuthority map[string]bool // key: channelID; missing means sendable
}

func (f *fakePerms) CanMuteMembers(_ context.Context, channelID, userID string) (bool, error) {
	return f.muteAuthority[channelID+"/"+userID], nil
}

func (f *fakePerms) CanSendMessages(_ context.Context, channelID, _ string) (bool, error) {
	if f.sendAuthority == nil {
		return true, nil
	}
	ok, listed := f.sendAuthority[channelID]
	return !listed || ok, nil
}

type fakeDirectory struct {
	members []chat.Member
	texts   []chat.Channel
	voices  []chat.Channel
	botID   string
}

func (f *fakeDirectory) VoiceMembers(context.Context, string, string) ([]chat.Member, error) {
	return f.members, nil
}

func (f *fakeDirectory) MemberVoiceChannel(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeDirectory) TextChannels(context.Context, string) ([]chat.Channel, error) {
	return f.texts, nil
}

func (f *fakeDirectory) VoiceChannels(context.Context, string) ([]chat.Channel, error) {
	return f.voices, nil
}

func (f *fakeDirectory) BotUserID() string { return f.botID }

type fakeVoice struct {
	connected bool
}

func (f *fakeVoice) Join(context.Context, string, string) error { return nil }
func (f *fakeVoice) Leave(context.Context, string) error        { return nil }
func (f *fakeVoice) Connected(string) bool                      { return f.connected }

type fixture struct {
	automute *AutoMute
	muter    *fakeMuter
	msgr     *fakeMessenger
	perms    *fakePerms
	dir      *fakeDirectory
	voice    *fakeVoice
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		muter: &fakeMuter{fail: map[string]error{}},
		msgr:  &fakeMessenger{},
		perms: &fakePerms{muteAuthority: map[string]bool{
			"voice-1/admin-1": true,
		}},
		dir: &fakeDirectory{
			botID: "bot-1",
			members: []chat.Member{
				{UserID: "user-1", DisplayName: "Alice", ChannelID: "voice-1"},
				{UserID: "user-2", DisplayName: "Bob", ChannelID: "voice-1"},
				{UserID: "bot-1", DisplayName: "Pomomo", Bot: true, ChannelID: "voice-1"},
			},
			texts:  []chat.Channel{{ID: "text-1", Name: "focus"}},
			voices: []chat.Channel{{ID: "voice-1", Name: "focus"}},
		},
		voice: &fakeVoice{connected: true},
	}
	f.automute = New(Config{
		GuildID:        "guild-1",
		VoiceChannelID: "voice-1",
		TextChannelID:  "text-1",
		Muter:          f.muter,
		Messenger:      f.msgr,
		Permissions:    f.perms,
		Directory:      f.dir,
		Voice:          f.voice,
	})
	return f
}

func TestEnableDuringWorkMutesPresentMembers(t *testing.T) {
	f := newFixture(t)

	if err := f.automute.Enable(context.Background(), "admin-1", true); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if !f.automute.Active() {
		t.Fatal("Active() = false after Enable")
	}
	want := []muteCall{{"user-1", true}, {"user-2", true}}
	if len(f.muter.calls) != len(want) {
		t.Fatalf("mute calls = %v, want %v", f.muter.calls, want)
	}
	for i, call := range f.muter.calls {
		if call != want[i] {
			t.Fatalf("mute call %d = %v, want %v", i, call, want[i])
		}
	}
}

func TestEnableDuringBreakDefersEnforcement(t *testing.T) {
	f := newFixture(t)

	if err := f.automute.Enable(context.Background(), "admin-1", false); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if len(f.muter.calls) != 0 {
		t.Fatalf("mute calls during break = %v, want none", f.muter.calls)
	}

	f.automute.EnforceWorkPhase(context.Background())
	if len(f.muter.calls) != 2 {
		t.Fatalf("mute calls after work entry = %d, want 2", len(f.muter.calls))
	}
}

func TestEnableAlreadyEnabledIsDomainCondition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.automute.Enable(ctx, "admin-1", false); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	err := f.automute.Enable(ctx, "admin-1", true)
	if perrors.CodeOf(err) != perrors.CodeAutoMuteAlreadyEnabled {
		t.Fatalf("second Enable() code = %v, want %v", perrors.CodeOf(err), perrors.CodeAutoMuteAlreadyEnabled)
	}
	if len(f.muter.calls) != 0 {
		t.Fatalf("mute calls = %v, want none", f.muter.calls)
	}
}

func TestEnableWithoutAuthorityLeavesPolicyUnchanged(t *testing.T) {
	f := newFixture(t)

	err := f.automute.Enable(context.Background(), "user-1", true)
	if perrors.CodeOf(err) != perrors.CodePermissionDenied {
		t.Fatalf("Enable() code = %v, want %v", perrors.CodeOf(err), perrors.CodePermissionDenied)
	}
	if f.automute.Active() {
		t.Fatal("Active() = true after denied Enable")
	}
	if len(f.muter.calls) != 0 {
		t.Fatalf("mute calls = %v, want none", f.muter.calls)
	}
}

func TestDisableUnmutesMutedMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.automute.Enable(ctx, "admin-1", false); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	f.dir.members[0].ServerMuted = true
	f.dir.members[1].ServerMuted = true

	if err := f.automute.Disable(ctx, "admin-1"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if f.automute.Active() {
		t.Fatal("Active() = true after Disable")
	}
	want := []muteCall{{"user-1", false}, {"user-2", false}}
	for i, call := range f.muter.calls {
		if call != want[i] {
			t.Fatalf("mute call %d = %v, want %v", i, call, want[i])
		}
	}
}

func TestDisableAlreadyDisabledIsDomainCondition(t *testing.T) {
	f := newFixture(t)

	err := f.automute.Disable(context.Background(), "admin-1")
	if perrors.CodeOf(err) != perrors.CodeAutoMuteAlreadyDisabled {
		t.Fatalf("Disable() code = %v, want %v", perrors.CodeOf(err), perrors.CodeAutoMuteAlreadyDisabled)
	}
	if len(f.muter.calls) != 0 {
		t.Fatalf("mute calls = %v, want none", f.muter.calls)
	}
}

func TestSweepContinuesPastMemberFailure(t *testing.T) {
	f := newFixture(t)
	f.muter.fail["user-1"] = chat.ErrNotConnected

	if err := f.automute.Enable(context.Background(), "admin-1", true); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if len(f.muter.calls) != 2 {
		t.Fatalf("mute calls = %d, want 2 despite first failing", len(f.muter.calls))
	}
	if len(f.msgr.sent) != 0 {
		t.Fatalf("notices = %v, want none for a disconnected member", f.msgr.sent)
	}
}

func TestDecideTable(t *testing.T) {
	base := EventInput{
		PolicyActive:   true,
		WorkPhase:      true,
		ConnectionLive: true,
		InVoiceAfter:   true,
	}

	tests := []struct {
		name string
		in   func(EventInput) EventInput
		want Action
	}{
		{"join governed during work", func(in EventInput) EventInput {
			in.AfterGoverned = true
			return in
		}, ActionMute},
		{"join governed already muted", func(in EventInput) EventInput {
			in.AfterGoverned = true
			in.ServerMuted = true
			return in
		}, ActionNone},
		{"join governed connection down", func(in EventInput) EventInput {
			in.AfterGoverned = true
			in.ConnectionLive = false
			return in
		}, ActionNone},
		{"join governed during break", func(in EventInput) EventInput {
			in.AfterGoverned = true
			in.WorkPhase = false
			return in
		}, ActionNone},
		{"join governed policy off", func(in EventInput) EventInput {
			in.AfterGoverned = true
			in.PolicyActive = false
			return in
		}, ActionNone},
		{"bot join governed", func(in EventInput) EventInput {
			in.AfterGoverned = true
			in.MemberIsBot = true
			return in
		}, ActionNone},
		{"leave governed muted during work", func(in EventInput) EventInput {
			in.BeforeGoverned = true
			in.ServerMuted = true
			return in
		}, ActionUnmute},
		{"leave governed unmuted", func(in EventInput) EventInput {
			in.BeforeGoverned = true
			return in
		}, ActionNone},
		{"disconnect muted during work", func(in EventInput) EventInput {
			in.BeforeGoverned = true
			in.ServerMuted = true
			in.InVoiceAfter = false
			return in
		}, ActionUnmute},
		{"muted member in non-governed channel", func(in EventInput) EventInput {
			in.PolicyActive = false
			in.ServerMuted = true
			return in
		}, ActionUnmute},
		{"muted member fully disconnected", func(in EventInput) EventInput {
			in.PolicyActive = false
			in.ServerMuted = true
			in.InVoiceAfter = false
			return in
		}, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.in(base)); got != tt.want {
				t.Fatalf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVoiceEventMutesJoiner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.automute.Enable(ctx, "admin-1", false); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}

	f.automute.HandleVoiceEvent(ctx, chat.VoiceEvent{
		GuildID:        "guild-1",
		UserID:         "user-3",
		DisplayName:    "Carol",
		AfterChannelID: "voice-1",
	}, true)

	want := muteCall{"user-3", true}
	if len(f.muter.calls) != 1 || f.muter.calls[0] != want {
		t.Fatalf("mute calls = %v, want [%v]", f.muter.calls, want)
	}
}

func TestVoiceEventJoinerNoopWhenConnectionDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.automute.Enable(ctx, "admin-1", false); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	f.voice.connected = false

	f.automute.HandleVoiceEvent(ctx, chat.VoiceEvent{
		UserID:         "user-3",
		AfterChannelID: "voice-1",
	}, true)

	if len(f.muter.calls) != 0 {
		t.Fatalf("mute calls = %v, want none while disconnected", f.muter.calls)
	}
}

func TestVoiceEventPermissionFailureSendsGuidance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.automute.Enable(ctx, "admin-1", false); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	f.muter.fail["user-3"] = chat.ErrMissingPermission
	f.dir.voices = append(f.dir.voices, chat.Channel{ID: "voice-2", Name: "lounge"})
	f.perms.muteAuthority["voice-2/bot-1"] = true

	f.automute.HandleVoiceEvent(ctx, chat.VoiceEvent{
		UserID:          "user-3",
		DisplayName:     "Carol",
		BeforeChannelID: "voice-1",
		AfterChannelID:  "voice-3",
		AfterMuted:      true,
	}, true)

	if len(f.msgr.sent) != 1 {
		t.Fatalf("notices = %d, want 1 guidance message", len(f.msgr.sent))
	}
	if !strings.Contains(f.msgr.sent[0], "lounge") {
		t.Fatalf("guidance = %q, want mention of permitted channel lounge", f.msgr.sent[0])
	}
}

func TestNoticeChannelFallbackPriority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.perms.sendAuthority = map[string]bool{"text-1": false}
	f.dir.texts = []chat.Channel{
		{ID: "text-2", Name: "random"},
		{ID: "text-3", Name: "General"},
		{ID: "text-4", Name: "focus"},
	}

	if got := f.automute.NoticeChannel(ctx); got != "text-4" {
		t.Fatalf("NoticeChannel() = %q, want voice-name match text-4", got)
	}

	f.dir.texts = f.dir.texts[:2]
	if got := f.automute.NoticeChannel(ctx); got != "text-3" {
		t.Fatalf("NoticeChannel() = %q, want General text-3", got)
	}

	f.dir.texts = f.dir.texts[:1]
	if got := f.automute.NoticeChannel(ctx); got != "text-2" {
		t.Fatalf("NoticeChannel() = %q, want first sendable text-2", got)
	}
}

func TestUnexpectedMuteFailureNotifiesChannel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.automute.Enable(ctx, "admin-1", false); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	f.muter.fail["user-3"] = errors.New("boom")

	f.automute.HandleVoiceEvent(ctx, chat.VoiceEvent{
		UserID:         "user-3",
		DisplayName:    "Carol",
		AfterChannelID: "voice-1",
	}, true)

	if len(f.msgr.sent) != 1 {
		t.Fatalf("notices = %d, want 1 best-effort failure notice", len(f.msgr.sent))
	}
}
