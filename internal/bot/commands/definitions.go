package commands

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/apxxxxxxe/Pomomo-sub001/internal/platform/discord"
)

// commandTimeout bounds one command execution end to end.
const commandTimeout = 30 * time.Second

var intervalMinutes = struct{ min, max float64 }{1, 180}

// Definitions returns the slash commands the bot registers with Discord.
func Definitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "pomodoro",
			Description: "Start a group pomodoro session in your voice channel",
			Options: append(intervalOptions(),
				&discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "intervals",
					Description: "Work intervals before a long break",
					MinValue:    float64Ptr(1),
					MaxValue:    12,
				}),
		},
		{
			Name:        "countdown",
			Description: "Start a one-shot countdown",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "duration",
					Description: "Countdown length in minutes",
					Required:    true,
					MinValue:    float64Ptr(intervalMinutes.min),
					MaxValue:    intervalMinutes.max,
				},
			},
		},
		{
			Name:        "stop",
			Description: "Stop the running session",
		},
		{
			Name:        "skip",
			Description: "Skip to the next phase",
		},
		{
			Name:        "edit",
			Description: "Change the session's interval settings",
			Options: append(intervalOptions(),
				&discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "intervals",
					Description: "Work intervals before a long break",
					MinValue:    float64Ptr(1),
					MaxValue:    12,
				}),
		},
		{
			Name:        "automute",
			Description: "Toggle muting everyone during focus time",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Whether auto-mute is on",
					Required:    true,
				},
			},
		},
		{
			Name:        "stats",
			Description: "Show session and all-time focus stats",
		},
	}
}

func intervalOptions() []*discordgo.ApplicationCommandOption {
	mk := func(name, desc string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        name,
			Description: desc,
			MinValue:    float64Ptr(intervalMinutes.min),
			MaxValue:    intervalMinutes.max,
		}
	}
	return []*discordgo.ApplicationCommandOption{
		mk("work", "Work interval length in minutes"),
		mk("short_break", "Short break length in minutes"),
		mk("long_break", "Long break length in minutes"),
	}
}

// Route dispatches one interaction to its handler.
func (h *Handler) Route(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	r := discord.NewResponder(s, i.Interaction)
	data := i.ApplicationCommandData()

	switch data.Name {
	case "pomodoro":
		h.Pomodoro(ctx, r, parseIntervalOptions(data.Options))
	case "countdown":
		h.Countdown(ctx, r, time.Duration(intOption(data.Options, "duration"))*time.Minute)
	case "stop":
		h.Stop(ctx, r)
	case "skip":
		h.Skip(ctx, r)
	case "edit":
		h.Edit(ctx, r, parseIntervalOptions(data.Options))
	case "automute":
		h.AutoMute(ctx, r, boolOption(data.Options, "enabled"))
	case "stats":
		h.Stats(ctx, r)
	default:
		h.log.WithField("command", data.Name).Warn("unknown command")
	}
}

func parseIntervalOptions(options []*discordgo.ApplicationCommandInteractionDataOption) PomodoroOptions {
	return PomodoroOptions{
		Work:       time.Duration(intOption(options, "work")) * time.Minute,
		ShortBreak: time.Duration(intOption(options, "short_break")) * time.Minute,
		LongBreak:  time.Duration(intOption(options, "long_break")) * time.Minute,
		Intervals:  int(intOption(options, "intervals")),
	}
}

func intOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, opt := range options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return 0
}

func boolOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	for _, opt := range options {
		if opt.Name == name {
			return opt.BoolValue()
		}
	}
	return false
}

func float64Ptr(v float64) *float64 { return &v }
