package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
)

// VoiceEventFromUpdate translates a gateway voice-state update into the
// engine's membership event, with before/after channel and mute snapshots.
func VoiceEventFromUpdate(update *discordgo.VoiceStateUpdate) chat.VoiceEvent {
	ev := chat.VoiceEvent{
		GuildID:        update.GuildID,
		UserID:         update.UserID,
		AfterChannelID: update.ChannelID,
		AfterMuted:     update.Mute,
	}
	if update.BeforeUpdate != nil {
		ev.BeforeChannelID = update.BeforeUpdate.ChannelID
		ev.BeforeMuted = update.BeforeUpdate.Mute
	}
	if update.Member != nil && update.Member.User != nil {
		ev.Bot = update.Member.User.Bot
		ev.DisplayName = memberDisplayName(update.Member)
	}
	return ev
}

func memberDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}
