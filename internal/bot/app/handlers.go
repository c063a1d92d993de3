package app

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aussiebroadwan/doorkeeper/pkg/slogx"
)

// initHandlers wires the gateway events onto the services. Handlers run on
// discordgo's goroutines; anything touching the store goes through the
// services' own serialisation.
func (app *Application) initHandlers() {
	app.session.AddHandler(app.onReady)
	app.session.AddHandler(app.onGuildCreate)
	app.session.AddHandler(app.onInviteCreate)
	app.session.AddHandler(app.onMemberAdd)
	app.session.AddHandler(app.router.Handle)
}

func (app *Application) eventContext(event string) context.Context {
	return slogx.WithEvent(slogx.WithContext(context.Background(), app.logger), event)
}

func (app *Application) onReady(s *discordgo.Session, r *discordgo.Ready) {
	ctx := app.eventContext("ready")
	log := slogx.FromContext(ctx)

	log.Info("gateway session ready",
		slog.String("user", r.User.Username),
		slog.Int("guilds", len(r.Guilds)),
	)

	_, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", app.router.Definitions())
	if err != nil {
		log.Error("failed to register commands", slog.Any("error", err))
	}
}

// onGuildCreate fires once per guild after connect and again whenever the bot
// joins a new guild, so it is the single place the snapshot gets primed.
func (app *Application) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := app.eventContext("guild_create")

	if err := app.trackerService.PrimeGuild(ctx, g.ID); err != nil {
		slogx.FromContext(ctx).Error("failed to prime invite snapshot",
			slog.String("guild_id", g.ID),
			slog.Any("error", err),
		)
	}
}

func (app *Application) onInviteCreate(_ *discordgo.Session, ic *discordgo.InviteCreate) {
	ctx := app.eventContext("invite_create")
	app.trackerService.RecordInviteCreated(ctx, ic.GuildID, ic.Code, ic.Uses)
}

func (app *Application) onMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	ctx := app.eventContext("member_join")
	log := slogx.FromContext(ctx)

	log.Info("member joined",
		slog.String("guild_id", m.GuildID),
		slog.String("member_id", m.User.ID),
	)

	if _, _, err := app.trackerService.AttributeJoin(ctx, m.GuildID); err != nil {
		log.Error("join attribution failed",
			slog.String("guild_id", m.GuildID),
			slog.Any("error", err),
		)
	}
}
