package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/chat"
)

// Responder implements the two-phase acknowledge/respond contract for one
// slash-command interaction.
type Responder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

var _ chat.Responder = (*Responder)(nil)

// NewResponder wraps a received interaction.
func NewResponder(session *discordgo.Session, interaction *discordgo.Interaction) *Responder {
	return &Responder{session: session, interaction: interaction}
}

// Acknowledge posts the deferred placeholder so the platform holds the
// interaction open while the command executes.
func (r *Responder) Acknowledge(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	return mapError(err)
}

// Respond completes the acknowledgement with an ephemeral follow-up. It
// fails with chat.ErrExpired once the platform discards the interaction.
func (r *Responder) Respond(ctx context.Context, content string) error {
	return r.followup(ctx, content, discordgo.MessageFlagsEphemeral)
}

// RespondPersistent completes with a regular channel message that outlives
// the interaction.
func (r *Responder) RespondPersistent(ctx context.Context, content string) error {
	return r.followup(ctx, content, 0)
}

func (r *Responder) followup(ctx context.Context, content string, flags discordgo.MessageFlags) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   flags,
	})
	return mapError(err)
}

func (r *Responder) GuildID() string   { return r.interaction.GuildID }
func (r *Responder) ChannelID() string { return r.interaction.ChannelID }

// UserID returns the invoking user, whether the command arrived from a
// guild member or a direct message.
func (r *Responder) UserID() string {
	if r.interaction.Member != nil && r.interaction.Member.User != nil {
		return r.interaction.Member.User.ID
	}
	if r.interaction.User != nil {
		return r.interaction.User.ID
	}
	return ""
}
