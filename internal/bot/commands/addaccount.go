package commands

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

func (r *Router) handleAddAccount(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := slogx.FromContext(ctx)

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		r.respondError(s, i, "An account value is required.")
		return
	}
	account := opts[0].StringValue()

	if err := r.Pool.AddAccount(ctx, account); err != nil {
		log.Error("add account failed", slog.Any("error", err))
		r.respondError(s, i, "An error occurred while adding the account.")
		return
	}

	r.respond(s, i, "Success!", "Account added successfully!", true)
}
