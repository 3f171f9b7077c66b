// Package discord adapts a discordgo session to the chat capability
// interfaces the session engine consumes, translating Discord REST error
// codes into the shared failure taxonomy.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
)

// Adapter implements chat.Messenger, chat.MemberMuter,
// chat.PermissionQuery, chat.Directory, and chat.VoiceGateway over one
// gateway session.
type Adapter struct {
	session *discordgo.Session
	log     *logrus.Entry
}

// NewAdapter wraps an opened discordgo session.
func NewAdapter(session *discordgo.Session, log *logrus.Entry) *Adapter {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Adapter{session: session, log: log}
}

// Send posts content to a channel, suppressing notifications for silent
// messages, and returns the message ID.
func (a *Adapter) Send(ctx context.Context, channelID, content string, silent bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data := &discordgo.MessageSend{Content: content}
	if silent {
		data.Flags = discordgo.MessageFlagsSuppressNotifications
	}
	msg, err := a.session.ChannelMessageSendComplex(channelID, data)
	if err != nil {
		return "", mapError(err)
	}
	return msg.ID, nil
}

func (a *Adapter) Edit(ctx context.Context, channelID, messageID, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := a.session.ChannelMessageEdit(channelID, messageID, content); err != nil {
		return mapError(err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, channelID, messageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.session.ChannelMessageDelete(channelID, messageID); err != nil {
		return mapError(err)
	}
	return nil
}

// SetMute changes a member's server-mute flag.
func (a *Adapter) SetMute(ctx context.Context, guildID, userID string, mute bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.session.GuildMemberMute(guildID, userID, mute); err != nil {
		return mapError(err)
	}
	return nil
}

// CanMuteMembers reports whether the user holds mute-members or
// administrator authority in the channel.
func (a *Adapter) CanMuteMembers(ctx context.Context, channelID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	perms, err := a.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, mapError(err)
	}
	return perms&(discordgo.PermissionVoiceMuteMembers|discordgo.PermissionAdministrator) != 0, nil
}

func (a *Adapter) CanSendMessages(ctx context.Context, channelID, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	perms, err := a.session.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false, mapError(err)
	}
	return perms&(discordgo.PermissionSendMessages|discordgo.PermissionAdministrator) != 0, nil
}

// VoiceMembers lists the current occupants of a voice channel from the
// gateway state cache.
func (a *Adapter) VoiceMembers(ctx context.Context, guildID, channelID string) ([]chat.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild %s not in state: %w", guildID, err)
	}

	var members []chat.Member
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		members = append(members, chat.Member{
			UserID:      vs.UserID,
			DisplayName: a.displayName(guildID, vs.UserID),
			Bot:         a.isBot(guildID, vs.UserID),
			ChannelID:   vs.ChannelID,
			ServerMuted: vs.Mute,
		})
	}
	return members, nil
}

// MemberVoiceChannel returns the voice channel a member occupies, or ""
// when disconnected.
func (a *Adapter) MemberVoiceChannel(ctx context.Context, guildID, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("guild %s not in state: %w", guildID, err)
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", nil
}

func (a *Adapter) TextChannels(ctx context.Context, guildID string) ([]chat.Channel, error) {
	return a.channelsOfType(ctx, guildID, discordgo.ChannelTypeGuildText)
}

func (a *Adapter) VoiceChannels(ctx context.Context, guildID string) ([]chat.Channel, error) {
	return a.channelsOfType(ctx, guildID, discordgo.ChannelTypeGuildVoice)
}

func (a *Adapter) channelsOfType(ctx context.Context, guildID string, t discordgo.ChannelType) ([]chat.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	guild, err := a.session.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild %s not in state: %w", guildID, err)
	}
	var out []chat.Channel
	for _, ch := range guild.Channels {
		if ch.Type == t {
			out = append(out, chat.Channel{ID: ch.ID, Name: ch.Name})
		}
	}
	return out, nil
}

func (a *Adapter) BotUserID() string {
	if a.session.State != nil && a.session.State.User != nil {
		return a.session.State.User.ID
	}
	return ""
}

// Join connects the bot to a voice channel, self-deafened.
func (a *Adapter) Join(ctx context.Context, guildID, channelID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := a.session.ChannelVoiceJoin(guildID, channelID, false, true); err != nil {
		return mapError(err)
	}
	return nil
}

// Leave disconnects the bot's voice connection for a guild, if any.
func (a *Adapter) Leave(ctx context.Context, guildID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.session.RLock()
	vc := a.session.VoiceConnections[guildID]
	a.session.RUnlock()
	if vc == nil {
		return nil
	}
	if err := vc.Disconnect(); err != nil {
		return mapError(err)
	}
	return nil
}

// Connected reports whether the bot holds a live voice connection for the
// guild.
func (a *Adapter) Connected(guildID string) bool {
	a.session.RLock()
	defer a.session.RUnlock()
	return a.session.VoiceConnections[guildID] != nil
}

func (a *Adapter) displayName(guildID, userID string) string {
	member, err := a.session.State.Member(guildID, userID)
	if err != nil || member == nil || member.User == nil {
		return userID
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

func (a *Adapter) isBot(guildID, userID string) bool {
	member, err := a.session.State.Member(guildID, userID)
	if err != nil || member == nil || member.User == nil {
		return false
	}
	return member.User.Bot
}

// mapError translates Discord REST failures into the chat failure
// taxonomy; anything unrecognized passes through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownInteraction:
			return fmt.Errorf("%w: %v", chat.ErrExpired, err)
		case discordgo.ErrCodeTargetIsNotConnectedToVoice:
			return fmt.Errorf("%w: %v", chat.ErrNotConnected, err)
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %v", chat.ErrMissingPermission, err)
		}
	}
	if rest.Response != nil && rest.Response.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", chat.ErrUnavailable, err)
	}
	return err
}
