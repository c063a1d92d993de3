// Package discord adapts a discordgo session to the gateway interface the
// core services consume.
package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/domain"
	"github.com/aussiebroadwan/doorkeeper/internal/bot/gateway"
)

// EmbedColor is the dark neutral used for every embed the bot sends.
const EmbedColor = 0x2f3136

type Gateway struct {
	session *discordgo.Session
}

func New(session *discordgo.Session) *Gateway {
	return &Gateway{session: session}
}

func (g *Gateway) GuildInvites(ctx context.Context, guildID string) ([]domain.Invite, error) {
	invites, err := g.session.GuildInvites(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapRESTError(err)
	}

	out := make([]domain.Invite, 0, len(invites))
	for _, inv := range invites {
		mapped := domain.Invite{
			Code:    inv.Code,
			GuildID: guildID,
			Uses:    inv.Uses,
		}
		if inv.Inviter != nil {
			mapped.InviterID = inv.Inviter.ID
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (g *Gateway) SendDirect(ctx context.Context, memberID string, msg gateway.Message) error {
	channel, err := g.session.UserChannelCreate(memberID, discordgo.WithContext(ctx))
	if err != nil {
		return mapRESTError(err)
	}

	_, err = g.session.ChannelMessageSendEmbed(channel.ID, embed(msg), discordgo.WithContext(ctx))
	if err != nil {
		return mapRESTError(err)
	}
	return nil
}

func (g *Gateway) SendChannel(ctx context.Context, channelID string, msg gateway.Message) error {
	_, err := g.session.ChannelMessageSendEmbed(channelID, embed(msg), discordgo.WithContext(ctx))
	if err != nil {
		return mapRESTError(err)
	}
	return nil
}

func embed(msg gateway.Message) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       EmbedColor,
	}
}

// mapRESTError translates Discord REST failures into the gateway's sentinel
// errors so the services never see platform error codes.
func mapRESTError(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeCannotSendMessagesToThisUser:
			return gateway.ErrDeliveryClosed
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return gateway.ErrPermissionDenied
		}
	}
	return fmt.Errorf("discord: %w", err)
}
