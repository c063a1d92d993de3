package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/service"
	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

func (r *Router) handleClaim(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := slogx.FromContext(ctx)
	member := memberID(i)

	if !r.claimLimiter.allow(member) {
		r.respondError(s, i, "You're claiming too quickly. Please wait a moment and try again.")
		return
	}

	claim, err := r.Claims.Claim(ctx, i.GuildID, member)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredit):
			r.respondError(s, i, "You need at least 1 invite to claim an account!")
		case errors.Is(err, service.ErrPoolEmpty):
			r.respondError(s, i, "Sorry, there are no accounts available!")
		case errors.Is(err, service.ErrDeliveryClosed):
			r.respondError(s, i, "Couldn't send you the account via DM. Please enable DMs from server members and try again!")
		default:
			log.Error("claim failed", slog.Any("error", err))
			r.respondError(s, i, "An error occurred while processing your claim.")
		}
		return
	}

	log.Info("claim command completed", slog.String("claim_id", claim.ID.String()))
	r.respond(s, i, "Success!",
		fmt.Sprintf("A gift has been sent to <@%s>'s DMs. Balance -1 invites.", member), false)
}
