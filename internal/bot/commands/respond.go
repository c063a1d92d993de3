package commands

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway/discord"
)

// respond sends an embed reply to the interaction. Replies must land inside
// the platform's response window; a late reply simply fails and is logged.
func (r *Router) respond(s *discordgo.Session, i *discordgo.InteractionCreate, title, description string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       title,
				Description: description,
				Color:       discord.EmbedColor,
			},
		},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		r.Logger.Warn("interaction response failed", slog.Any("error", err))
	}
}

func (r *Router) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, description string) {
	r.respond(s, i, "Error!", description, true)
}
