// Package commands is the presentation layer: it maps slash commands onto the
// ledger, claim and pool services and formats their outcomes as embeds.
package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/service"
	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

type Router struct {
	Ledger *service.LedgerService
	Claims *service.ClaimService
	Pool   *service.PoolService

	Logger *slog.Logger

	claimLimiter *userLimiter
}

// RateLimit bounds how often a single member may run /claim.
type RateLimit struct {
	Requests int
	Window   time.Duration
	Burst    int
}

func NewRouter(ledger *service.LedgerService, claims *service.ClaimService, pool *service.PoolService, logger *slog.Logger, claimLimit RateLimit) *Router {
	return &Router{
		Ledger:       ledger,
		Claims:       claims,
		Pool:         pool,
		Logger:       logger,
		claimLimiter: newUserLimiter(claimLimit),
	}
}

// Definitions returns the application commands to register with the platform.
func (r *Router) Definitions() []*discordgo.ApplicationCommand {
	adminOnly := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "invites",
			Description: "Check your invite count",
		},
		{
			Name:        "claim",
			Description: "Claim an account using your invites",
		},
		{
			Name:                     "addaccount",
			Description:              "Add an account to the pool (Admin only)",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "account",
					Description: "The account credential to add",
					Required:    true,
				},
			},
		},
		{
			Name:        "remaining",
			Description: "Check how many accounts are left",
		},
	}
}

// Handle is the single command boundary. Every failure a handler does not
// convert itself, panics included, becomes a generic error embed here rather
// than taking down the session.
func (r *Router) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	log := r.Logger.With(
		slog.String("command", name),
		slog.String("guild_id", i.GuildID),
		slog.String("member_id", memberID(i)),
	)
	ctx := slogx.WithContext(context.Background(), log)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("command handler panicked", slog.Any("panic", rec))
			r.respondError(s, i, "An error occurred while processing your command.")
		}
	}()

	switch name {
	case "invites":
		r.handleInvites(ctx, s, i)
	case "claim":
		r.handleClaim(ctx, s, i)
	case "addaccount":
		r.handleAddAccount(ctx, s, i)
	case "remaining":
		r.handleRemaining(ctx, s, i)
	default:
		log.Warn("unknown command")
	}
}

func memberID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
