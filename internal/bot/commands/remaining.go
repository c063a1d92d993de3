package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

func (r *Router) handleRemaining(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := slogx.FromContext(ctx)

	size, err := r.Pool.Remaining(ctx)
	if err != nil {
		log.Error("remaining check failed", slog.Any("error", err))
		r.respondError(s, i, "An error occurred while checking remaining accounts.")
		return
	}

	r.respond(s, i, "Remaining Accounts", fmt.Sprintf("There are %d accounts remaining!", size), false)
}
