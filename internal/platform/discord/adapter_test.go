package discord

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
)

func restError(code, status int) *discordgo.RESTError {
	return &discordgo.RESTError{
		Message:  &discordgo.APIErrorMessage{Code: code},
		Response: &http.Response{StatusCode: status},
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unknown interaction", restError(discordgo.ErrCodeUnknownInteraction, http.StatusNotFound), chat.ErrExpired},
		{"user not in voice", restError(discordgo.ErrCodeTargetIsNotConnectedToVoice, http.StatusBadRequest), chat.ErrNotConnected},
		{"missing permissions", restError(discordgo.ErrCodeMissingPermissions, http.StatusForbidden), chat.ErrMissingPermission},
		{"missing access", restError(discordgo.ErrCodeMissingAccess, http.StatusForbidden), chat.ErrMissingPermission},
		{"server error", restError(0, http.StatusServiceUnavailable), chat.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Fatalf("mapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapErrorPassesThroughUnknown(t *testing.T) {
	plain := errors.New("socket closed")
	if got := mapError(plain); got != plain {
		t.Fatalf("mapError() = %v, want original error", got)
	}
	if mapError(nil) != nil {
		t.Fatal("mapError(nil) != nil")
	}
}

func TestVoiceEventFromUpdate(t *testing.T) {
	update := &discordgo.VoiceStateUpdate{
		VoiceState: &discordgo.VoiceState{
			GuildID:   "guild-1",
			UserID:    "user-1",
			ChannelID: "voice-2",
			Mute:      true,
		},
		BeforeUpdate: &discordgo.VoiceState{
			ChannelID: "voice-1",
			Mute:      false,
		},
	}
	update.Member = &discordgo.Member{
		Nick: "Alice",
		User: &discordgo.User{ID: "user-1", Username: "alice"},
	}

	ev := VoiceEventFromUpdate(update)
	if ev.GuildID != "guild-1" || ev.UserID != "user-1" {
		t.Fatalf("event identity = %s/%s, want guild-1/user-1", ev.GuildID, ev.UserID)
	}
	if ev.BeforeChannelID != "voice-1" || ev.AfterChannelID != "voice-2" {
		t.Fatalf("channels = %s -> %s, want voice-1 -> voice-2", ev.BeforeChannelID, ev.AfterChannelID)
	}
	if ev.BeforeMuted || !ev.AfterMuted {
		t.Fatalf("mute flags = %v -> %v, want false -> true", ev.BeforeMuted, ev.AfterMuted)
	}
	if ev.DisplayName != "Alice" {
		t.Fatalf("DisplayName = %q, want nickname Alice", ev.DisplayName)
	}
}
