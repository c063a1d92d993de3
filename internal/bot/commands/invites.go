package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

func (r *Router) handleInvites(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := slogx.FromContext(ctx)

	balance, err := r.Ledger.Balance(ctx, i.GuildID, memberID(i))
	if err != nil {
		log.Error("balance check failed", slog.Any("error", err))
		r.respondError(s, i, "An error occurred while checking your invites.")
		return
	}

	r.respond(s, i, "Invite Count", fmt.Sprintf("You have %d invite(s)!", balance), false)
}
